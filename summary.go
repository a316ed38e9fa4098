package pnl

// CostBasisSummary is the outcome of a cost basis computation for one asset.
// Amounts are in Currency, the reporting currency.
type CostBasisSummary struct {
	Asset               string
	Currency            string
	CurrentPosition     float64
	TotalCostBasis      float64
	AverageCost         float64
	TotalSharesBought   float64
	TotalSharesSold     float64
	TotalAmountInvested float64
	TotalAmountReceived float64
	RealizedPnL         float64
	LotCount            int

	// Market is set when the summary is valued at a market price.
	Market *MarketValuation
}

// MarketValuation values the held position at a market price.
type MarketValuation struct {
	Price         float64 `json:"marketPrice"`
	Value         float64 `json:"marketValue"`
	UnrealizedPnL float64 `json:"unrealizedPnL"`
	TotalPnL      float64 `json:"totalPnL"`
}

// MarshalJSON implements json.Marshaler, market fields are flattened and
// only present for a valued summary.
func (s CostBasisSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", s.Asset)
	w.Optional("currency", s.Currency)
	w.Append("currentPosition", s.CurrentPosition)
	w.Append("totalCostBasis", s.TotalCostBasis)
	w.Append("averageCost", s.AverageCost)
	w.Append("totalSharesBought", s.TotalSharesBought)
	w.Append("totalSharesSold", s.TotalSharesSold)
	w.Append("totalAmountInvested", s.TotalAmountInvested)
	w.Append("totalAmountReceived", s.TotalAmountReceived)
	w.Append("realizedPnL", s.RealizedPnL)
	w.Append("lotCount", s.LotCount)
	if s.Market != nil {
		w.EmbedFrom(s.Market)
	}
	return w.MarshalJSON()
}
