package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// xirrCmd holds the flags for the 'xirr' subcommand.
type xirrCmd struct {
	asset     string
	flowsFile string
	showFlows bool
	json      bool
}

func (*xirrCmd) Name() string     { return "xirr" }
func (*xirrCmd) Synopsis() string { return "compute the annualized money-weighted return" }
func (*xirrCmd) Usage() string {
	return `folio xirr [-a <asset>] [-flows <file>] [-show-flows] [-json]

  Computes the annualized money-weighted return (XIRR) of an asset, of the
  whole portfolio by default, or of an explicit cash-flow file whose lines
  are {"date":"2024-01-31","amount":-1000}.

  When the rate cannot be solved exactly, a money-weighted or simple estimate
  is given with the reason why.
`
}

func (c *xirrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset to compute the return of.")
	f.StringVar(&c.flowsFile, "flows", "", "Cash-flow file (JSONL) to compute the return of, instead of the ledger.")
	f.BoolVar(&c.showFlows, "show-flows", false, "Also display the cash flows.")
	f.BoolVar(&c.json, "json", false, "Print the result as JSON.")
}

func (c *xirrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		title  string
		flows  []pnl.CashFlow
		result pnl.ReturnResult
	)
	switch {
	case c.flowsFile != "":
		var err error
		if flows, err = pnl.LoadCashFlows(c.flowsFile); err != nil {
			return failure("Error loading cash flows", err)
		}
		title = "Return of " + c.flowsFile
		result = pnl.NewReturnSolver(pnl.SolverOptions{Logger: log}).Solve(flows)

	case c.asset != "":
		in, err := loadInputs()
		if err != nil {
			return failure("Error loading inputs", err)
		}
		r, err := in.analyzeAsset(c.asset)
		if err != nil {
			return failure("Error", err)
		}
		title, flows, result = "Return of "+c.asset, r.CashFlows.Flows, r.Return

	default:
		in, err := loadInputs()
		if err != nil {
			return failure("Error loading inputs", err)
		}
		r := in.analyzer().AnalyzePortfolio(in.ledger, in.holdings)
		title, flows, result = "Portfolio Return", r.CashFlows.Flows, r.Return
	}

	if c.json {
		return printJSON(result)
	}
	var b strings.Builder
	b.WriteString(renderer.Return(title, result))
	if c.showFlows {
		b.WriteString("## Cash Flows\n\n")
		b.WriteString(renderer.CashFlows(cfg.Currency, flows))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
