package pnl

import "github.com/etnz/pnl/date"

// Holding is a snapshot of a position at its market value.
type Holding struct {
	Asset       string
	Date        date.Date
	Quantity    float64
	MarketValue float64
	Currency    string
}

// MarketPrice returns the value of one share, 0 when nothing is held.
func (h Holding) MarketPrice() float64 {
	if h.Quantity < lotEpsilon && h.Quantity > -lotEpsilon {
		return 0
	}
	return h.MarketValue / h.Quantity
}

// MarshalJSON implements json.Marshaler.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", h.Date)
	w.Append("asset", h.Asset)
	w.Append("quantity", h.Quantity)
	w.Append("value", h.MarketValue)
	w.Optional("currency", h.Currency)
	return w.MarshalJSON()
}
