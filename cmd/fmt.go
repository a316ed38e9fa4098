package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pnl"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `folio fmt [-check]

  Validates and formats the ledger file. This command reads all transactions,
  reports the invalid ones, sorts them in the order the engines apply them
  and writes them back in a canonical JSONL format.

Usage Examples:
# Rewrites the ledger in place.
$ folio fmt

# Fails if the ledger is not formatted.
$ folio fmt -check
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.check, "check", false, "Do not write, fail if the ledger is not already formatted.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	original, err := os.ReadFile(cfg.LedgerFile)
	if err != nil {
		return failure("Error reading ledger", err)
	}
	txs, err := pnl.DecodeLedger(bytes.NewReader(original), cfg.LedgerFile)
	if err != nil {
		return failure("Error decoding ledger", err)
	}

	invalid := 0
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			invalid++
			fmt.Fprintf(os.Stderr, "%s: transaction %d on %s: %v\n", cfg.LedgerFile, i+1, tx.Date, err)
		}
	}

	var buf bytes.Buffer
	if err := pnl.EncodeLedger(&buf, pnl.SortTransactions(txs)); err != nil {
		return failure("Error encoding ledger", err)
	}

	if p.check {
		if invalid > 0 || !bytes.Equal(original, buf.Bytes()) {
			fmt.Fprintf(os.Stderr, "Ledger %q is not formatted.\n", cfg.LedgerFile)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := os.WriteFile(cfg.LedgerFile, buf.Bytes(), 0644); err != nil {
		return failure("Error writing ledger", err)
	}
	fmt.Fprintf(os.Stderr, "Ledger %q has been formatted (%d transactions, %d invalid).\n", cfg.LedgerFile, len(txs), invalid)
	return subcommands.ExitSuccess
}
