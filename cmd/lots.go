package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct {
	asset string
	json  bool
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the open lots of an asset" }
func (*lotsCmd) Usage() string {
	return `folio lots -a <asset> [-json]

  Displays the lots still held after replaying the ledger, oldest first, with
  their unit cost in the reporting currency.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset to list the lots of (required).")
	f.BoolVar(&c.json, "json", false, "Print the lots as JSON.")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	in, err := loadInputs()
	if err != nil {
		return failure("Error loading inputs", err)
	}
	r, err := in.analyzeAsset(c.asset)
	if err != nil {
		return failure("Error", err)
	}
	if c.json {
		return printJSON(r.Lots)
	}
	printMarkdown(renderer.Lots(c.asset, cfg.Currency, r.Lots))
	return subcommands.ExitSuccess
}
