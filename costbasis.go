package pnl

import (
	"math"

	"github.com/etnz/pnl/date"
	"github.com/rs/zerolog"
)

// ZeroQuantitySellPolicy decides how a sell row with no share count but a
// non-zero amount is booked.
type ZeroQuantitySellPolicy int

const (
	// ZeroQuantityAsIncome books the amount as a cash distribution.
	ZeroQuantityAsIncome ZeroQuantitySellPolicy = iota
	// ZeroQuantityEstimate estimates the shares sold as the proceeds divided
	// by the average unit cost of the open lots, then sells them FIFO. It is a
	// heuristic, not a ledger reconstruction.
	ZeroQuantityEstimate
)

// CostBasisOptions configures a CostBasisCalculator.
type CostBasisOptions struct {
	// ReportingCurrency is the currency of every computed amount. Empty
	// disables conversion.
	ReportingCurrency string
	// RSU marks an employer-stock asset, whose same-day vest and sell are
	// paired as sell-to-cover.
	RSU bool
	// Converter converts amounts not in the reporting currency.
	Converter Converter
	// ZeroQuantitySells selects the booking of sells that lost their share count.
	ZeroQuantitySells ZeroQuantitySellPolicy
	Logger            zerolog.Logger
}

// sellToCover is a same-day vest and sell of an RSU asset.
type sellToCover struct {
	vested    float64
	sold      float64
	fairValue float64 // per share, in the reporting currency
	booked    bool    // the retained lot has been opened
}

// CostBasisCalculator computes FIFO cost basis and realized profit for one
// asset.
//
// An instance processes a single history: calling ProcessTransactions twice
// books the transactions twice.
type CostBasisCalculator struct {
	asset string
	opts  CostBasisOptions
	log   zerolog.Logger

	lots lotQueue

	sharesBought float64
	sharesSold   float64
	invested     float64
	received     float64
	realized     float64

	covers map[date.Date]*sellToCover
}

// NewCostBasisCalculator creates a calculator for an asset.
func NewCostBasisCalculator(asset string, opts CostBasisOptions) *CostBasisCalculator {
	return &CostBasisCalculator{
		asset: asset,
		opts:  opts,
		log:   opts.Logger.With().Str("component", "costbasis").Str("asset", asset).Logger(),
	}
}

// Asset returns the asset identifier.
func (c *CostBasisCalculator) Asset() string { return c.asset }

// ProcessTransactions books an asset history. Transactions are applied in
// date order, and for the same day grants and vests come before sells, then
// buys, then reinvested dividends.
func (c *CostBasisCalculator) ProcessTransactions(txs []Transaction) {
	sorted := SortTransactions(txs)
	if c.opts.RSU {
		c.covers = c.scanSellToCover(sorted)
	}
	for _, tx := range sorted {
		c.apply(tx)
	}
	c.lots.prune()
}

// scanSellToCover finds the days with both a vest and a sell.
func (c *CostBasisCalculator) scanSellToCover(sorted []Transaction) map[date.Date]*sellToCover {
	type day struct{ vested, sold, value float64 }
	days := make(map[date.Date]*day)
	for _, tx := range sorted {
		d, ok := days[tx.Date]
		if !ok {
			d = &day{}
			days[tx.Date] = d
		}
		switch {
		case tx.Type == RSUVest:
			d.vested += math.Abs(tx.Quantity)
			d.value += c.normalized(tx, tx.grossAmount())
		case tx.Type.IsSell():
			d.sold += math.Abs(tx.Quantity)
		}
	}

	covers := make(map[date.Date]*sellToCover)
	for on, d := range days {
		if d.vested < lotEpsilon || d.sold < lotEpsilon {
			continue
		}
		covers[on] = &sellToCover{vested: d.vested, sold: d.sold, fairValue: d.value / d.vested}
		c.log.Debug().Stringer("date", on).Float64("vested", d.vested).Float64("sold", d.sold).Msg("sell-to-cover detected")
	}
	return covers
}

// apply books a single transaction.
func (c *CostBasisCalculator) apply(tx Transaction) {
	switch typ := tx.Type; {
	case typ.IsBuy():
		c.buy(tx)
	case typ.IsSell():
		if _, ok := c.covers[tx.Date]; ok {
			// Tax withholding paired with a vest, not a disposal.
			return
		}
		c.sell(tx)
	case typ == RSUGrant:
		c.vest(tx)
	case typ == RSUVest:
		if cover, ok := c.covers[tx.Date]; ok {
			c.vestWithCover(tx, cover)
			return
		}
		c.vest(tx)
	case typ == DividendReinvest:
		c.reinvest(tx)
	case typ.IsIncome():
		c.income(tx)
	default:
		c.log.Warn().Stringer("date", tx.Date).Stringer("type", tx.Type).Msg("ignoring transaction of unknown type")
	}
}

func (c *CostBasisCalculator) buy(tx Transaction) {
	quantity := math.Abs(tx.Quantity)
	if quantity < lotEpsilon {
		c.log.Warn().Stringer("date", tx.Date).Float64("amount", tx.NetAmount).Msg("ignoring buy without quantity")
		return
	}
	cost := c.normalized(tx, tx.grossAmount())
	c.lots.push(NewLot(tx.Date, quantity, cost/quantity))
	c.sharesBought += quantity
	c.invested += cost
}

func (c *CostBasisCalculator) sell(tx Transaction) {
	quantity := math.Abs(tx.Quantity)
	proceeds := c.normalized(tx, tx.grossAmount())

	if quantity < lotEpsilon {
		if proceeds < lotEpsilon {
			c.log.Warn().Stringer("date", tx.Date).Msg("ignoring sell without quantity nor amount")
			return
		}
		avg := c.lots.averageUnitCost()
		if c.opts.ZeroQuantitySells != ZeroQuantityEstimate || avg <= 0 {
			c.bookIncome(proceeds)
			return
		}
		quantity = proceeds / avg
		c.log.Debug().Stringer("date", tx.Date).Float64("proceeds", proceeds).Float64("estimated", quantity).Msg("estimated shares sold from proceeds")
	}

	sold, cost := c.lots.consume(quantity)
	if missing := quantity - sold; missing > lotEpsilon {
		c.log.Warn().
			Stringer("date", tx.Date).
			Float64("requested", quantity).
			Float64("available", sold).
			Msg("insufficient lots to cover sell")
	}
	c.sharesSold += sold
	c.received += proceeds
	c.realized += proceeds - cost
}

// vest opens a lot for the full granted or vested quantity at its unit price.
func (c *CostBasisCalculator) vest(tx Transaction) {
	quantity := math.Abs(tx.Quantity)
	if quantity < lotEpsilon {
		c.log.Warn().Stringer("date", tx.Date).Stringer("type", tx.Type).Msg("ignoring vest without quantity")
		return
	}
	unit := c.normalized(tx, math.Abs(tx.UnitPrice))
	if unit == 0 && tx.hasAmount() {
		unit = c.normalized(tx, math.Abs(tx.NetAmount)) / quantity
	}
	c.lots.push(NewLot(tx.Date, quantity, unit))
	c.sharesBought += quantity
	c.invested += quantity * unit
}

// vestWithCover opens a lot for the shares retained after the sell-to-cover,
// once per day, at the vest fair value.
func (c *CostBasisCalculator) vestWithCover(tx Transaction, cover *sellToCover) {
	if cover.booked {
		return
	}
	cover.booked = true
	retained := cover.vested - cover.sold
	if retained < lotEpsilon {
		c.log.Warn().Stringer("date", tx.Date).Float64("vested", cover.vested).Float64("sold", cover.sold).Msg("sell-to-cover retains no share")
		return
	}
	c.lots.push(NewLot(tx.Date, retained, cover.fairValue))
	c.sharesBought += retained
	c.invested += retained * cover.fairValue
}

// reinvest books the dividend as income and opens a zero-cost lot: the
// shares were paid with income already recognized.
func (c *CostBasisCalculator) reinvest(tx Transaction) {
	quantity := math.Abs(tx.Quantity)
	value := c.normalized(tx, math.Abs(tx.Quantity*tx.UnitPrice))
	if value == 0 && tx.hasAmount() {
		value = c.normalized(tx, math.Abs(tx.NetAmount))
	}
	c.bookIncome(value)
	if quantity < lotEpsilon {
		return
	}
	c.lots.push(NewLot(tx.Date, quantity, 0))
	c.sharesBought += quantity
}

func (c *CostBasisCalculator) income(tx Transaction) {
	c.bookIncome(c.normalized(tx, tx.grossAmount()))
}

func (c *CostBasisCalculator) bookIncome(amount float64) {
	c.received += amount
	c.realized += amount
}

// normalized converts an amount of tx into the reporting currency, keeping
// it unconverted when conversion fails.
func (c *CostBasisCalculator) normalized(tx Transaction, amount float64) float64 {
	v, ok := normalize(c.opts.Converter, amount, tx.Currency, c.opts.ReportingCurrency, tx.Date)
	if !ok {
		c.log.Warn().
			Stringer("date", tx.Date).
			Str("from", tx.Currency).
			Str("to", c.opts.ReportingCurrency).
			Float64("amount", amount).
			Msg("currency conversion failed, using unconverted amount")
	}
	return v
}

// CurrentPosition returns the number of shares held.
func (c *CostBasisCalculator) CurrentPosition() float64 { return c.lots.position() }

// TotalCostBasis returns the cost basis of the shares held.
func (c *CostBasisCalculator) TotalCostBasis() float64 { return c.lots.costBasis() }

// AverageCost returns the cost basis per share held, 0 when nothing is held.
func (c *CostBasisCalculator) AverageCost() float64 { return c.lots.averageUnitCost() }

// RealizedPnL returns the profit locked in by sales and income.
func (c *CostBasisCalculator) RealizedPnL() float64 { return c.realized }

// UnrealizedPnL returns the profit embedded in the held shares at a market price.
func (c *CostBasisCalculator) UnrealizedPnL(marketPrice float64) float64 {
	return c.CurrentPosition()*marketPrice - c.TotalCostBasis()
}

// Lots returns a copy of the open lots, oldest first.
func (c *CostBasisCalculator) Lots() []Lot {
	open := c.lots.open()
	lots := make([]Lot, len(open))
	copy(lots, open)
	return lots
}

// Summary returns the accounting numbers without market valuation.
func (c *CostBasisCalculator) Summary() CostBasisSummary {
	return CostBasisSummary{
		Asset:               c.asset,
		Currency:            c.opts.ReportingCurrency,
		CurrentPosition:     c.CurrentPosition(),
		TotalCostBasis:      c.TotalCostBasis(),
		AverageCost:         c.AverageCost(),
		TotalSharesBought:   c.sharesBought,
		TotalSharesSold:     c.sharesSold,
		TotalAmountInvested: c.invested,
		TotalAmountReceived: c.received,
		RealizedPnL:         c.realized,
		LotCount:            c.lots.len(),
	}
}

// SummaryAt returns the accounting numbers valued at a market price.
func (c *CostBasisCalculator) SummaryAt(marketPrice float64) CostBasisSummary {
	s := c.Summary()
	s.Market = &MarketValuation{
		Price:         marketPrice,
		Value:         s.CurrentPosition * marketPrice,
		UnrealizedPnL: c.UnrealizedPnL(marketPrice),
	}
	s.Market.TotalPnL = s.RealizedPnL + s.Market.UnrealizedPnL
	return s
}
