package pnl

import (
	"fmt"
	"strings"
)

// TxType is the closed set of transaction kinds understood by the engines.
type TxType int

const (
	// TxUnknown is any label outside the known set. Engines ignore it.
	TxUnknown TxType = iota
	Buy
	Sell
	RSUGrant
	RSUVest
	DividendCash
	DividendReinvest
	Interest
	AdjustmentBuy
	AdjustmentSell
	Redemption
	// Premium is an option premium received: pure income.
	Premium
)

var txTypeLabels = [...]string{
	TxUnknown:        "Unknown",
	Buy:              "Buy",
	Sell:             "Sell",
	RSUGrant:         "RSU_Grant",
	RSUVest:          "RSU_Vest",
	DividendCash:     "Dividend_Cash",
	DividendReinvest: "Dividend_Reinvest",
	Interest:         "Interest",
	AdjustmentBuy:    "Adjustment_Buy",
	AdjustmentSell:   "Adjustment_Sell",
	Redemption:       "Redemption",
	Premium:          "Premium",
}

func (t TxType) String() string {
	if t < 0 || int(t) >= len(txTypeLabels) {
		return txTypeLabels[TxUnknown]
	}
	return txTypeLabels[t]
}

// ParseTxType parses a transaction label, case-insensitively.
// Unknown labels return TxUnknown and an error.
func ParseTxType(s string) (TxType, error) {
	for t, label := range txTypeLabels {
		if t != int(TxUnknown) && strings.EqualFold(label, strings.TrimSpace(s)) {
			return TxType(t), nil
		}
	}
	return TxUnknown, fmt.Errorf("unknown transaction type: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t TxType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown labels are not
// an error, they decode to TxUnknown so that a ledger with exotic rows still
// loads.
func (t *TxType) UnmarshalText(text []byte) error {
	*t, _ = ParseTxType(string(text))
	return nil
}

// priority orders same-day transactions: a grant or vest is always applied
// before the sell that may cover it.
func (t TxType) priority() int {
	switch t {
	case RSUGrant:
		return 1
	case RSUVest:
		return 2
	case Sell:
		return 3
	case Buy:
		return 4
	case DividendReinvest:
		return 5
	default:
		return 10
	}
}

// IsBuy reports whether t opens a lot paid with fresh capital.
func (t TxType) IsBuy() bool { return t == Buy || t == AdjustmentBuy }

// IsSell reports whether t disposes of shares.
func (t TxType) IsSell() bool { return t == Sell || t == AdjustmentSell || t == Redemption }

// IsIncome reports whether t is a pure cash income with no share movement.
func (t TxType) IsIncome() bool { return t == DividendCash || t == Interest || t == Premium }

// MovesValue reports whether t moves cash in or out of the position, and
// therefore belongs to a cash-flow series.
func (t TxType) MovesValue() bool {
	switch t {
	case Buy, AdjustmentBuy, Sell, AdjustmentSell, Redemption, RSUVest, DividendCash, DividendReinvest, Interest, Premium:
		return true
	default:
		return false
	}
}
