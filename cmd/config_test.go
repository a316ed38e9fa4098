package cmd

import (
	"flag"
	"testing"

	"github.com/etnz/pnl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PNL_LEDGER_FILE", "PNL_CURRENCY", "PNL_RSU_ASSETS", "PNL_ESTIMATE_ZERO_QUANTITY"} {
		t.Setenv(key, "")
	}
	c := LoadConfig()
	assert.Equal(t, "ledger.jsonl", c.LedgerFile)
	assert.Equal(t, "EUR", c.Currency)
	assert.Empty(t, c.RSUAssets)
	assert.Equal(t, pnl.ZeroQuantityAsIncome, c.ZeroQuantitySells())
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PNL_LEDGER_FILE", "my.jsonl")
	t.Setenv("PNL_CURRENCY", "USD")
	t.Setenv("PNL_RSU_ASSETS", "ACME, BETA,,")
	t.Setenv("PNL_ESTIMATE_ZERO_QUANTITY", "true")

	c := LoadConfig()
	assert.Equal(t, "my.jsonl", c.LedgerFile)
	assert.Equal(t, "USD", c.Currency)
	assert.Equal(t, []string{"ACME", "BETA"}, c.RSUAssets)
	assert.Equal(t, pnl.ZeroQuantityEstimate, c.ZeroQuantitySells())
}

func TestConfig_RegisterFlags(t *testing.T) {
	c := &Config{LedgerFile: "ledger.jsonl", Currency: "EUR"}
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(f)

	require.NoError(t, f.Parse([]string{"-c", "GBP", "-rsu", "ACME", "-ledger", "other.jsonl"}))
	assert.Equal(t, "GBP", c.Currency)
	assert.Equal(t, []string{"ACME"}, c.RSUAssets)
	assert.Equal(t, "other.jsonl", c.LedgerFile)
}

func TestConfig_Validate(t *testing.T) {
	c := &Config{Currency: "euro"}
	err := c.Validate()
	assert.ErrorContains(t, err, "ledger file is required")
	assert.ErrorIs(t, err, pnl.ErrInvalidCurrency)
}
