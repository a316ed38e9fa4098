package pnl

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/etnz/pnl/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		wantErr string
	}{
		{"valid", buy("2024-01-01", 1, 1), ""},
		{"valid with currency", NewTransaction(day("2024-01-01"), "ACME", Buy, 1, 1, -1, "USD"), ""},
		{"no date", NewTransaction(date.Date{}, "ACME", Buy, 1, 1, -1, ""), "date is missing"},
		{"unknown type", txn("2024-01-01", TxUnknown, 1, 1, 1), "type is unknown"},
		{"nan", txn("2024-01-01", Buy, math.NaN(), 1, 1), "quantity is not a finite number"},
		{"bad currency", NewTransaction(day("2024-01-01"), "ACME", Buy, 1, 1, -1, "usd"), "invalid currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTransaction_GrossAmount(t *testing.T) {
	assert.Equal(t, 100.0, txn("2024-01-01", Buy, 10, 10, -100).grossAmount())
	assert.Equal(t, 90.0, txn("2024-01-01", Buy, 10, 10, -90).grossAmount(), "amount wins over quantity and price")
	assert.Equal(t, 100.0, txn("2024-01-01", Buy, 10, 10, 0).grossAmount(), "missing amount")
	assert.Equal(t, 100.0, txn("2024-01-01", Buy, -10, 10, math.NaN()).grossAmount(), "invalid amount")
}

func TestSortTransactions(t *testing.T) {
	txs := []Transaction{
		txn("2024-02-01", DividendReinvest, 1, 1, 1),
		txn("2024-02-01", Buy, 1, 1, -1),
		txn("2024-02-01", Sell, 1, 1, 1),
		txn("2024-02-01", RSUVest, 1, 1, 0),
		txn("2024-01-01", DividendCash, 0, 0, 1),
		txn("2024-02-01", Interest, 0, 0, 2),
		txn("2024-02-01", Interest, 0, 0, 3),
	}
	got := SortTransactions(txs)

	var types []TxType
	for _, tx := range got {
		types = append(types, tx.Type)
	}
	assert.Equal(t, []TxType{DividendCash, RSUVest, Sell, Buy, DividendReinvest, Interest, Interest}, types)
	assert.Equal(t, 2.0, got[5].NetAmount, "ties keep the input order")
	assert.Equal(t, DividendReinvest, txs[0].Type, "input is untouched")
}

func TestTransaction_MarshalJSON(t *testing.T) {
	tx := NewTransaction(day("2024-01-02"), "ACME", Sell, 3, 10, 30, "EUR")
	tx.Memo = "partial"
	got, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Equal(t, `{"date":"2024-01-02","asset":"ACME","type":"Sell","quantity":3,"price":10,"amount":30,"currency":"EUR","memo":"partial"}`, string(got))

	got, err = json.Marshal(txn("2024-01-02", DividendCash, 0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, `{"date":"2024-01-02","asset":"ACME","type":"Dividend_Cash","quantity":0,"amount":5}`, string(got))
}
