package pnl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_AnalyzeAsset(t *testing.T) {
	a := NewAnalyzer(AnalyzerOptions{ReportingCurrency: "EUR", Converter: usdEUR()})
	txs := []Transaction{
		NewTransaction(day("2024-01-02"), "ACME", Buy, 10, 20, -200, "USD"),
	}
	holding := Holding{Asset: "ACME", Date: day("2025-01-01"), Quantity: 10, MarketValue: 220, Currency: "USD"}

	r := a.AnalyzeAsset("ACME", txs, holding)

	assert.Equal(t, "ACME", r.Asset)
	assert.InDelta(t, 100, r.Summary.TotalCostBasis, 1e-9)
	require.NotNil(t, r.Summary.Market)
	assert.InDelta(t, 11, r.Summary.Market.Price, 1e-9, "price is converted")
	assert.InDelta(t, 10, r.Summary.Market.UnrealizedPnL, 1e-9)
	assert.Len(t, r.Lots, 1)
	assert.Equal(t, []float64{-100, 110}, r.CashFlows.Amounts())
	assert.Equal(t, StatusSuccess, r.Return.Status)
	// 2024-01-02 to 2025-01-01 is 365 days.
	assert.InDelta(t, 10, mustValue(t, r.Return), 0.01)
}

func TestAnalyzer_RSUAssets(t *testing.T) {
	txs := []Transaction{
		txn("2024-03-15", RSUVest, 100, 50, 5000),
		sell("2024-03-15", 45, 50),
	}

	plain := NewAnalyzer(AnalyzerOptions{}).AnalyzeAsset("ACME", txs, Holding{})
	rsu := NewAnalyzer(AnalyzerOptions{RSUAssets: []string{"ACME"}}).AnalyzeAsset("ACME", txs, Holding{})

	assert.InDelta(t, 45, plain.Summary.TotalSharesSold, 1e-9)
	assert.Zero(t, rsu.Summary.TotalSharesSold)
	assert.InDelta(t, 55, rsu.Summary.CurrentPosition, 1e-9)
	assert.Nil(t, rsu.Summary.Market, "no holding, no valuation")
}

func TestAnalyzer_AnalyzePortfolio(t *testing.T) {
	ledger := []Transaction{
		NewTransaction(day("2023-01-01"), "BETA", Buy, 10, 50, -500, ""),
		NewTransaction(day("2023-01-01"), "ACME", Buy, 10, 50, -500, ""),
		NewTransaction(day("2023-06-01"), "ACME", DividendCash, 0, 0, 10, ""),
	}
	holdings := []Holding{
		{Asset: "ACME", Date: day("2024-01-01"), Quantity: 10, MarketValue: 540},
		{Asset: "BETA", Date: day("2024-01-01"), Quantity: 10, MarketValue: 550},
		{Asset: "CASH", Date: day("2024-01-01"), Quantity: 1, MarketValue: 0},
	}

	r := NewAnalyzer(AnalyzerOptions{}).AnalyzePortfolio(ledger, holdings)

	require.Len(t, r.Assets, 3)
	assert.Equal(t, "ACME", r.Assets[0].Asset)
	assert.Equal(t, "BETA", r.Assets[1].Asset)
	assert.Equal(t, "CASH", r.Assets[2].Asset)
	assert.Equal(t, StatusError, r.Assets[2].Return.Status, "no cash flow")

	assert.InDelta(t, 10, r.RealizedPnL(), 1e-9)
	assert.InDelta(t, 40+50, r.UnrealizedPnL(), 1e-9)
	assert.InDelta(t, 1000, r.CashFlows.TotalOutflow, 1e-9)
	assert.InDelta(t, 1090, r.CashFlows.MarketValue, 1e-9)
	assert.Equal(t, StatusSuccess, r.Return.Status)
	// the early dividend lifts the return slightly above 10%.
	assert.InDelta(t, 10.06, mustValue(t, r.Return), 0.02)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"asset":"ACME"`)
	assert.Contains(t, string(b), `"status":"success"`)
}

func TestLatestDate(t *testing.T) {
	assert.True(t, LatestDate(nil).IsZero())
	assert.Equal(t, day("2024-03-01"), LatestDate([]Transaction{
		buy("2024-01-01", 1, 1),
		buy("2024-03-01", 1, 1),
		buy("2024-02-01", 1, 1),
	}))
}
