package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	detailed bool
	json     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the profit and return of every asset" }
func (*reportCmd) Usage() string {
	return `folio report [-detailed] [-json]

  Displays one line per asset with its cost basis, market value, realized and
  unrealized profit and annualized return, then the return of the portfolio.
  With -detailed, the full report of each asset follows.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.detailed, "detailed", false, "Append the full report of each asset.")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := loadInputs()
	if err != nil {
		return failure("Error loading inputs", err)
	}
	report := in.analyzer().AnalyzePortfolio(in.ledger, in.holdings)
	log.Info().
		Int("assets", len(report.Assets)).
		Int("transactions", len(in.ledger)).
		Stringer("latest", pnl.LatestDate(in.ledger)).
		Msg("portfolio analyzed")

	if c.json {
		return printJSON(report)
	}
	var b strings.Builder
	b.WriteString(renderer.PortfolioReport(report))
	if c.detailed {
		for _, a := range report.Assets {
			b.WriteString("\n")
			b.WriteString(renderer.AssetReport(a))
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
