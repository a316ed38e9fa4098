package pnl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolding_MarketPrice(t *testing.T) {
	assert.Equal(t, 12.5, Holding{Quantity: 10, MarketValue: 125}.MarketPrice())
	assert.Zero(t, Holding{Quantity: 0, MarketValue: 125}.MarketPrice())
	assert.Zero(t, Holding{Quantity: 1e-12, MarketValue: 125}.MarketPrice())
}

func TestHolding_MarshalJSON(t *testing.T) {
	h := Holding{Asset: "ACME", Date: day("2024-06-28"), Quantity: 10, MarketValue: 125}
	got, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `{"date":"2024-06-28","asset":"ACME","quantity":10,"value":125}`, string(got))
}
