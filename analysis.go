package pnl

import (
	"slices"

	"github.com/etnz/pnl/date"
	"github.com/rs/zerolog"
)

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	ReportingCurrency string
	Converter         Converter
	// RSUAssets lists the employer-stock assets.
	RSUAssets         []string
	ZeroQuantitySells ZeroQuantitySellPolicy
	// Solver configures the return solver, its logger is replaced by Logger.
	Solver SolverOptions
	Logger zerolog.Logger
}

// AssetReport gathers the accounting numbers and the return of one asset.
type AssetReport struct {
	Asset     string
	Summary   CostBasisSummary
	Lots      []Lot
	CashFlows CashFlowSeries
	Return    ReturnResult
}

// MarshalJSON implements json.Marshaler.
func (r AssetReport) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", r.Asset)
	w.Append("summary", r.Summary)
	w.Optional("lots", r.Lots)
	w.Append("return", r.Return)
	w.Append("totalOutflow", r.CashFlows.TotalOutflow)
	w.Append("totalInflowExcludingMarketValue", r.CashFlows.TotalInflowExcludingMarketValue)
	return w.MarshalJSON()
}

// PortfolioReport gathers every asset report and the return of the whole
// portfolio.
type PortfolioReport struct {
	Currency  string
	Assets    []AssetReport // sorted by asset
	CashFlows CashFlowSeries
	Return    ReturnResult
}

// MarshalJSON implements json.Marshaler.
func (r PortfolioReport) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", r.Currency)
	w.Append("assets", r.Assets)
	w.Append("return", r.Return)
	return w.MarshalJSON()
}

// RealizedPnL returns the realized profit summed over assets.
func (r PortfolioReport) RealizedPnL() float64 {
	var total float64
	for _, a := range r.Assets {
		total += a.Summary.RealizedPnL
	}
	return total
}

// UnrealizedPnL returns the unrealized profit summed over valued assets.
func (r PortfolioReport) UnrealizedPnL() float64 {
	var total float64
	for _, a := range r.Assets {
		if a.Summary.Market != nil {
			total += a.Summary.Market.UnrealizedPnL
		}
	}
	return total
}

// Analyzer runs the cost basis, cash flow and return engines over assets.
// Each asset gets fresh engines, so independent assets share no state.
type Analyzer struct {
	opts   AnalyzerOptions
	solver *ReturnSolver
	log    zerolog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	solver := opts.Solver
	solver.Logger = opts.Logger
	return &Analyzer{
		opts:   opts,
		solver: NewReturnSolver(solver),
		log:    opts.Logger.With().Str("component", "analyzer").Logger(),
	}
}

func (a *Analyzer) isRSU(asset string) bool { return slices.Contains(a.opts.RSUAssets, asset) }

// AnalyzeAsset computes the report of one asset. The holding may be the zero
// value for a closed position.
func (a *Analyzer) AnalyzeAsset(asset string, txs []Transaction, holding Holding) AssetReport {
	calc := NewCostBasisCalculator(asset, CostBasisOptions{
		ReportingCurrency: a.opts.ReportingCurrency,
		RSU:               a.isRSU(asset),
		Converter:         a.opts.Converter,
		ZeroQuantitySells: a.opts.ZeroQuantitySells,
		Logger:            a.opts.Logger,
	})
	calc.ProcessTransactions(txs)

	report := AssetReport{Asset: asset, Lots: calc.Lots()}
	if holding.Quantity != 0 {
		price := holding.MarketPrice()
		if v, ok := normalize(a.opts.Converter, price, holding.Currency, a.opts.ReportingCurrency, holding.Date); ok {
			price = v
		}
		report.Summary = calc.SummaryAt(price)
	} else {
		report.Summary = calc.Summary()
	}

	builder := NewCashFlowBuilder(a.opts.ReportingCurrency, a.opts.Converter, a.opts.Logger)
	report.CashFlows = builder.Build(txs, holding)
	report.Return = a.solver.SeriesReturn(report.CashFlows)

	a.log.Debug().
		Str("asset", asset).
		Float64("position", report.Summary.CurrentPosition).
		Float64("realized", report.Summary.RealizedPnL).
		Str("status", string(report.Return.Status)).
		Msg("asset analyzed")
	return report
}

// AnalyzePortfolio computes the report of every asset found in the ledger or
// the holdings, and the return of the portfolio as a whole.
func (a *Analyzer) AnalyzePortfolio(ledger []Transaction, holdings []Holding) PortfolioReport {
	byAsset := groupByAsset(ledger)
	held := make(map[string]Holding, len(holdings))
	for _, h := range holdings {
		held[h.Asset] = h
		if _, ok := byAsset[h.Asset]; !ok {
			byAsset[h.Asset] = nil
		}
	}

	assets := make([]string, 0, len(byAsset))
	for asset := range byAsset {
		assets = append(assets, asset)
	}
	slices.Sort(assets)

	report := PortfolioReport{Currency: a.opts.ReportingCurrency}
	series := make([]CashFlowSeries, 0, len(assets))
	for _, asset := range assets {
		ar := a.AnalyzeAsset(asset, byAsset[asset], held[asset])
		report.Assets = append(report.Assets, ar)
		series = append(series, ar.CashFlows)
	}
	report.CashFlows = Merge(series...)
	report.Return = a.solver.SeriesReturn(report.CashFlows)
	return report
}

// LatestDate returns the most recent date of a ledger, the zero date when
// empty.
func LatestDate(ledger []Transaction) date.Date {
	var latest date.Date
	for _, tx := range ledger {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	return latest
}
