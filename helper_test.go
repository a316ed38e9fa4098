package pnl

import (
	"testing"

	"github.com/etnz/pnl/date"
	"github.com/stretchr/testify/require"
)

// day is a helper to write test dates compactly.
func day(s string) date.Date { return date.MustParse(s) }

// buy creates a buy of quantity at price, with the amount paid.
func buy(on string, quantity, price float64) Transaction {
	return NewTransaction(day(on), "ACME", Buy, quantity, price, -quantity*price, "")
}

// sell creates a sell of quantity at price, with the amount received.
func sell(on string, quantity, price float64) Transaction {
	return NewTransaction(day(on), "ACME", Sell, quantity, price, quantity*price, "")
}

// txn creates a transaction of any type without currency.
func txn(on string, typ TxType, quantity, price, amount float64) Transaction {
	return NewTransaction(day(on), "ACME", typ, quantity, price, amount, "")
}

// flow creates a cash flow.
func flow(on string, amount float64) CashFlow { return CashFlow{Date: day(on), Amount: amount} }

// mustValue returns the rate of a result that must have one.
func mustValue(t *testing.T, r ReturnResult) float64 {
	t.Helper()
	require.NotNil(t, r.Value, "status %s: %s", r.Status, r.Reason)
	return *r.Value
}

// usdEUR returns a rate table where one dollar is worth half a euro since
// 2024-01-01.
func usdEUR() *RateTable {
	rates := NewRateTable()
	rates.Set("USD", "EUR", day("2024-01-01"), 0.5)
	return rates
}
