package renderer

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/pnl"
	"github.com/shopspring/decimal"
)

// formatAmount formats an amount with its currency symbol when the currency
// is known, with two decimals otherwise.
func formatAmount(v float64, currency string) string {
	if pnl.ValidateCurrency(currency) != nil {
		return decimal.NewFromFloat(v).StringFixed(2)
	}
	// money.New never returns a nil currency.
	cur := *money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// formatQuantity formats a number of shares with up to 4 decimals, trailing
// zeros removed.
func formatQuantity(q float64) string {
	return decimal.NewFromFloat(q).Round(4).String()
}

// formatSigned formats an amount with an explicit sign.
func formatSigned(v float64, currency string) string {
	s := formatAmount(v, currency)
	if v > 0 {
		return "+" + s
	}
	return s
}

// formatReturn formats a return rate, or n/a when there is none.
func formatReturn(r pnl.ReturnResult) string {
	if !r.OK() {
		return "n/a"
	}
	v := decimal.NewFromFloat(r.Percent()).Round(2)
	if v.IsPositive() {
		return fmt.Sprintf("+%s%%", v.StringFixed(2))
	}
	return fmt.Sprintf("%s%%", v.StringFixed(2))
}

// qualifier explains a return that was not solved exactly.
func qualifier(r pnl.ReturnResult) string {
	switch r.Status {
	case pnl.StatusSuccess:
		return ""
	case pnl.StatusMWRRFallback, pnl.StatusCorrectedFallback:
		return "money-weighted estimate"
	case pnl.StatusApprox:
		return "approximation"
	default:
		return "not available"
	}
}
