package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// costBasisCmd holds the flags for the 'costbasis' subcommand.
type costBasisCmd struct {
	asset string
	json  bool
}

func (*costBasisCmd) Name() string { return "costbasis" }
func (*costBasisCmd) Synopsis() string {
	return "display the FIFO cost basis and realized profit of assets"
}
func (*costBasisCmd) Usage() string {
	return `folio costbasis [-a <asset>] [-json]

  Replays the ledger with FIFO lots and displays, per asset, the position, the
  cost basis, the realized profit and, when the holdings snapshot values the
  asset, the unrealized profit.
`
}

func (c *costBasisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset to report on. Reports on every asset by default.")
	f.BoolVar(&c.json, "json", false, "Print the summaries as JSON.")
}

func (c *costBasisCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := loadInputs()
	if err != nil {
		return failure("Error loading inputs", err)
	}

	var summaries []pnl.CostBasisSummary
	if c.asset != "" {
		r, err := in.analyzeAsset(c.asset)
		if err != nil {
			return failure("Error", err)
		}
		summaries = append(summaries, r.Summary)
	} else {
		for _, r := range in.analyzer().AnalyzePortfolio(in.ledger, in.holdings).Assets {
			summaries = append(summaries, r.Summary)
		}
	}

	if c.json {
		return printJSON(summaries)
	}
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "# %s\n\n", s.Asset)
		b.WriteString(renderer.CostBasis(s))
		b.WriteString("\n")
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
