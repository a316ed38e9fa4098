package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLedger = `{"date":"2024-03-15","asset":"ACME","type":"Sell","quantity":45,"price":50,"amount":2250,"currency":"USD"}
{"date":"2023-01-02","asset":"BETA","type":"Buy","quantity":10,"price":100,"amount":-1000,"currency":"EUR"}
{"date":"2024-03-15","asset":"ACME","type":"RSU_Vest","quantity":100,"price":50,"currency":"USD"}
`

// setupInputs writes test input files and points the configuration at them.
func setupInputs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })

	cfg.LedgerFile = write("ledger.jsonl", testLedger)
	cfg.HoldingsFile = write("holdings.jsonl", `{"date":"2024-06-28","asset":"ACME","quantity":55,"value":3300,"currency":"USD"}
{"date":"2024-06-28","asset":"BETA","quantity":10,"value":1100,"currency":"EUR"}
`)
	cfg.RatesFile = write("rates.jsonl", `{"date":"2023-01-01","from":"EUR","to":"USD","rate":1.25}`+"\n")
	cfg.Currency = "EUR"
	cfg.RSUAssets = []string{"ACME"}
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func TestCommands(t *testing.T) {
	setupInputs(t)
	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"costbasis", &costBasisCmd{}, nil, subcommands.ExitSuccess},
		{"costbasis asset json", &costBasisCmd{}, []string{"-a", "ACME", "-json"}, subcommands.ExitSuccess},
		{"costbasis unknown asset", &costBasisCmd{}, []string{"-a", "NOPE"}, subcommands.ExitFailure},
		{"xirr", &xirrCmd{}, []string{"-show-flows"}, subcommands.ExitSuccess},
		{"xirr asset", &xirrCmd{}, []string{"-a", "BETA", "-json"}, subcommands.ExitSuccess},
		{"xirr missing flows", &xirrCmd{}, []string{"-flows", "missing.jsonl"}, subcommands.ExitFailure},
		{"report", &reportCmd{}, []string{"-detailed"}, subcommands.ExitSuccess},
		{"lots", &lotsCmd{}, []string{"-a", "ACME"}, subcommands.ExitSuccess},
		{"lots without asset", &lotsCmd{}, nil, subcommands.ExitUsageError},
		{"topic", &topicCmd{}, []string{"returns"}, subcommands.ExitSuccess},
		{"topic list", &topicCmd{}, []string{"-list"}, subcommands.ExitSuccess},
		{"unknown topic", &topicCmd{}, []string{"nope"}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, execute(t, tt.cmd, tt.args...))
		})
	}
}

func TestAnalyzeAsset_ConvertsAndPairsSellToCover(t *testing.T) {
	setupInputs(t)
	in, err := loadInputs()
	require.NoError(t, err)

	r, err := in.analyzeAsset("ACME")
	require.NoError(t, err)
	assert.InDelta(t, 55, r.Summary.CurrentPosition, 1e-9)
	assert.Zero(t, r.Summary.TotalSharesSold)
	// 50 USD at 1.25 USD per EUR.
	assert.InDelta(t, 40, r.Summary.AverageCost, 1e-9)
}

func TestLoadInputs_OptionalFiles(t *testing.T) {
	setupInputs(t)
	cfg.HoldingsFile = filepath.Join(t.TempDir(), "none.jsonl")
	cfg.RatesFile = filepath.Join(t.TempDir(), "none.jsonl")

	in, err := loadInputs()
	require.NoError(t, err)
	assert.Len(t, in.ledger, 3)
	assert.Empty(t, in.holdings)
	assert.Nil(t, in.rates)

	cfg.LedgerFile = filepath.Join(t.TempDir(), "none.jsonl")
	_, err = loadInputs()
	assert.Error(t, err)
}

func TestFmt(t *testing.T) {
	setupInputs(t)

	assert.Equal(t, subcommands.ExitFailure, execute(t, &fmtCmd{}, "-check"))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &fmtCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &fmtCmd{}, "-check"), "formatting is stable")

	got, err := os.ReadFile(cfg.LedgerFile)
	require.NoError(t, err)
	assert.Equal(t, `{"date":"2023-01-02","asset":"BETA","type":"Buy","quantity":10,"price":100,"amount":-1000,"currency":"EUR"}
{"date":"2024-03-15","asset":"ACME","type":"RSU_Vest","quantity":100,"price":50,"currency":"USD"}
{"date":"2024-03-15","asset":"ACME","type":"Sell","quantity":45,"price":50,"amount":2250,"currency":"USD"}
`, string(got))
}
