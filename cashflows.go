package pnl

import (
	"math"
	"slices"

	"github.com/etnz/pnl/date"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// marketValueEpsilon is the smallest market value appended as a terminal flow.
const marketValueEpsilon = 1e-6

// CashFlow is a signed amount on a day: negative when invested, positive when
// received.
type CashFlow struct {
	Date   date.Date
	Amount float64
}

// MarshalJSON implements json.Marshaler.
func (f CashFlow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", f.Date)
	w.Append("amount", f.Amount)
	return w.MarshalJSON()
}

// CashFlowSeries is the cash-flow history of a position, ending with its
// market value.
type CashFlowSeries struct {
	Flows []CashFlow
	// TotalOutflow is the sum of the invested amounts, as a positive number.
	TotalOutflow float64
	// TotalInflowExcludingMarketValue is the sum of received amounts.
	TotalInflowExcludingMarketValue float64
	// MarketValue is the terminal flow, 0 when none was appended.
	MarketValue float64
}

// Amounts returns the amounts of the flows, in order.
func (s CashFlowSeries) Amounts() []float64 {
	amounts := make([]float64, len(s.Flows))
	for i, f := range s.Flows {
		amounts[i] = f.Amount
	}
	return amounts
}

// Merge returns the concatenation of several series, ordered by date. It is
// the input of a portfolio-level return.
func Merge(series ...CashFlowSeries) CashFlowSeries {
	var merged CashFlowSeries
	for _, s := range series {
		merged.Flows = append(merged.Flows, s.Flows...)
		merged.TotalOutflow += s.TotalOutflow
		merged.TotalInflowExcludingMarketValue += s.TotalInflowExcludingMarketValue
		merged.MarketValue += s.MarketValue
	}
	slices.SortStableFunc(merged.Flows, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })
	return merged
}

// CashFlowBuilder turns an asset history into a cash-flow series in the
// reporting currency.
type CashFlowBuilder struct {
	currency  string
	converter Converter
	log       zerolog.Logger
}

// NewCashFlowBuilder creates a builder reporting in currency.
func NewCashFlowBuilder(currency string, converter Converter, log zerolog.Logger) *CashFlowBuilder {
	return &CashFlowBuilder{
		currency:  currency,
		converter: converter,
		log:       log.With().Str("component", "cashflows").Logger(),
	}
}

// Build returns the cash flows of the value-moving transactions, followed by
// the holding's market value dated at the snapshot date. A market value on a
// day that already has a flow is added to it.
func (b *CashFlowBuilder) Build(txs []Transaction, holding Holding) CashFlowSeries {
	var s CashFlowSeries
	byDay := make(map[date.Date]int) // index of the day's first flow

	for _, tx := range SortTransactions(txs) {
		if !tx.Type.MovesValue() || !tx.hasAmount() {
			continue
		}
		amount := b.convert(tx.NetAmount, tx.Currency, tx.Date)
		if _, ok := byDay[tx.Date]; !ok {
			byDay[tx.Date] = len(s.Flows)
		}
		s.Flows = append(s.Flows, CashFlow{Date: tx.Date, Amount: amount})
	}

	amounts := s.Amounts()
	positive := slices.DeleteFunc(slices.Clone(amounts), func(v float64) bool { return v <= 0 })
	negative := slices.DeleteFunc(amounts, func(v float64) bool { return v >= 0 })
	s.TotalInflowExcludingMarketValue = floats.Sum(positive)
	s.TotalOutflow = math.Abs(floats.Sum(negative))

	value := b.convert(holding.MarketValue, holding.Currency, holding.Date)
	if value > marketValueEpsilon && !holding.Date.IsZero() {
		s.MarketValue = value
		if i, ok := byDay[holding.Date]; ok {
			s.Flows[i].Amount += value
		} else {
			s.Flows = append(s.Flows, CashFlow{Date: holding.Date, Amount: value})
		}
	}
	slices.SortStableFunc(s.Flows, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })
	return s
}

// convert normalizes an amount, logging and keeping the amount on failure.
func (b *CashFlowBuilder) convert(amount float64, from string, on date.Date) float64 {
	v, ok := normalize(b.converter, amount, from, b.currency, on)
	if !ok {
		b.log.Warn().Stringer("date", on).Str("from", from).Str("to", b.currency).Float64("amount", amount).Msg("currency conversion failed, using unconverted amount")
	}
	return v
}
