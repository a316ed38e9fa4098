package pnl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTxType(t *testing.T) {
	tests := []struct {
		label   string
		want    TxType
		wantErr bool
	}{
		{"Buy", Buy, false},
		{"sell", Sell, false},
		{"RSU_GRANT", RSUGrant, false},
		{"RSU_Vest", RSUVest, false},
		{" Dividend_Cash ", DividendCash, false},
		{"dividend_reinvest", DividendReinvest, false},
		{"Interest", Interest, false},
		{"Adjustment_Buy", AdjustmentBuy, false},
		{"Adjustment_Sell", AdjustmentSell, false},
		{"Redemption", Redemption, false},
		{"Premium", Premium, false},
		{"Split", TxUnknown, true},
		{"Unknown", TxUnknown, true},
		{"", TxUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseTxType(tt.label)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTxType_Text(t *testing.T) {
	for typ := TxUnknown; typ <= Premium; typ++ {
		b, err := typ.MarshalText()
		require.NoError(t, err)
		var got TxType
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, typ, got)
	}
	assert.Equal(t, "Unknown", TxType(42).String())

	var v struct{ Type TxType }
	require.NoError(t, json.Unmarshal([]byte(`{"Type":"Stock_Split"}`), &v))
	assert.Equal(t, TxUnknown, v.Type)
}

func TestTxType_Priority(t *testing.T) {
	order := []TxType{RSUGrant, RSUVest, Sell, Buy, DividendReinvest, DividendCash}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].priority(), order[i].priority(), "%s before %s", order[i-1], order[i])
	}
	assert.Equal(t, Interest.priority(), AdjustmentSell.priority())
}

func TestTxType_Classes(t *testing.T) {
	tests := []struct {
		typ                     TxType
		buy, sell, income, move bool
	}{
		{Buy, true, false, false, true},
		{AdjustmentBuy, true, false, false, true},
		{Sell, false, true, false, true},
		{AdjustmentSell, false, true, false, true},
		{Redemption, false, true, false, true},
		{RSUGrant, false, false, false, false},
		{RSUVest, false, false, false, true},
		{DividendCash, false, false, true, true},
		{DividendReinvest, false, false, false, true},
		{Interest, false, false, true, true},
		{Premium, false, false, true, true},
		{TxUnknown, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.buy, tt.typ.IsBuy(), "IsBuy")
			assert.Equal(t, tt.sell, tt.typ.IsSell(), "IsSell")
			assert.Equal(t, tt.income, tt.typ.IsIncome(), "IsIncome")
			assert.Equal(t, tt.move, tt.typ.MovesValue(), "MovesValue")
		})
	}
}
