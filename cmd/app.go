// Package cmd implements the folio command line application.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/pnl"
	"github.com/etnz/pnl/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	cfg = LoadConfig()
	log = zerolog.Nop()
)

// Commands are the folio subcommands.
var Commands = []subcommands.Command{
	&costBasisCmd{},
	&xirrCmd{},
	&reportCmd{},
	&lotsCmd{},
	&fmtCmd{},
	&topicCmd{},
}

// Register binds the global flags to f and registers the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, f *flag.FlagSet) {
	cfg.RegisterFlags(f)
	for _, cmd := range Commands {
		c.Register(cmd, "portfolio")
	}
}

// Setup validates the configuration and creates the logger. It must be called
// once flags are parsed.
func Setup() error {
	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: !cfg.LogJSON})
	return cfg.Validate()
}

// inputs are the decoded input files.
type inputs struct {
	ledger   []pnl.Transaction
	holdings []pnl.Holding
	rates    *pnl.RateTable
}

// loadInputs reads the ledger, and the holdings and rates when their file
// exists.
func loadInputs() (*inputs, error) {
	in := new(inputs)
	var err error
	if in.ledger, err = pnl.LoadLedger(cfg.LedgerFile); err != nil {
		return nil, err
	}
	if in.holdings, err = pnl.LoadHoldings(cfg.HoldingsFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Warn().Str("file", cfg.HoldingsFile).Msg("no holdings snapshot, positions are not valued")
	}
	if in.rates, err = pnl.LoadRates(cfg.RatesFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debug().Str("file", cfg.RatesFile).Msg("no exchange rates, amounts are not converted")
		in.rates = nil
	}
	for i, tx := range in.ledger {
		if err := tx.Validate(); err != nil {
			log.Warn().Int("row", i+1).Str("asset", tx.Asset).Err(err).Msg("invalid transaction")
		}
	}
	return in, nil
}

// analyzer creates an analyzer configured for in.
func (in *inputs) analyzer() *pnl.Analyzer {
	opts := pnl.AnalyzerOptions{
		ReportingCurrency: cfg.Currency,
		RSUAssets:         cfg.RSUAssets,
		ZeroQuantitySells: cfg.ZeroQuantitySells(),
		Logger:            log,
	}
	if in.rates != nil {
		opts.Converter = in.rates
	}
	return pnl.NewAnalyzer(opts)
}

// asset returns the transactions and the holding of an asset.
func (in *inputs) asset(asset string) ([]pnl.Transaction, pnl.Holding, bool) {
	var txs []pnl.Transaction
	for _, tx := range in.ledger {
		if tx.Asset == asset {
			txs = append(txs, tx)
		}
	}
	var holding pnl.Holding
	found := len(txs) > 0
	for _, h := range in.holdings {
		if h.Asset == asset {
			holding, found = h, true
		}
	}
	return txs, holding, found
}

// analyzeAsset is the common path of the commands taking an asset flag.
func (in *inputs) analyzeAsset(asset string) (pnl.AssetReport, error) {
	txs, holding, ok := in.asset(asset)
	if !ok {
		return pnl.AssetReport{}, fmt.Errorf("asset %q not found in %s nor %s", asset, cfg.LedgerFile, cfg.HoldingsFile)
	}
	return in.analyzer().AnalyzeAsset(asset, txs, holding), nil
}

// printMarkdown renders md for the terminal, or prints it as is when it
// cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printJSON prints v as indented JSON.
func printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// failure reports err and returns the failure status.
func failure(format string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+": %v\n", err)
	return subcommands.ExitFailure
}
