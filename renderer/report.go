// Package renderer renders the cost basis and return reports as markdown.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/pnl"
)

// CostBasis renders the accounting summary of an asset.
func CostBasis(s pnl.CostBasisSummary) string {
	var b strings.Builder
	writeCostBasis(&b, s)
	return b.String()
}

func writeCostBasis(w io.Writer, s pnl.CostBasisSummary) {
	cur := s.Currency
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|:---|---:|")
	fmt.Fprintf(w, "| Position | %s |\n", formatQuantity(s.CurrentPosition))
	fmt.Fprintf(w, "| Cost Basis | %s |\n", formatAmount(s.TotalCostBasis, cur))
	fmt.Fprintf(w, "| Average Cost | %s |\n", formatAmount(s.AverageCost, cur))
	fmt.Fprintf(w, "| Shares Bought | %s |\n", formatQuantity(s.TotalSharesBought))
	fmt.Fprintf(w, "| Shares Sold | %s |\n", formatQuantity(s.TotalSharesSold))
	fmt.Fprintf(w, "| Invested | %s |\n", formatAmount(s.TotalAmountInvested, cur))
	fmt.Fprintf(w, "| Received | %s |\n", formatAmount(s.TotalAmountReceived, cur))
	fmt.Fprintf(w, "| Realized P&L | %s |\n", formatSigned(s.RealizedPnL, cur))
	if m := s.Market; m != nil {
		fmt.Fprintf(w, "| Market Price | %s |\n", formatAmount(m.Price, cur))
		fmt.Fprintf(w, "| Market Value | %s |\n", formatAmount(m.Value, cur))
		fmt.Fprintf(w, "| Unrealized P&L | %s |\n", formatSigned(m.UnrealizedPnL, cur))
		fmt.Fprintf(w, "| Total P&L | %s |\n", formatSigned(m.TotalPnL, cur))
	}
	fmt.Fprintf(w, "| Open Lots | %d |\n", s.LotCount)
}

// Lots renders the open lots of an asset, oldest first.
func Lots(asset, currency string, lots []pnl.Lot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Open lots of %s\n\n", asset)
	writeLots(&b, currency, lots)
	return b.String()
}

func writeLots(w io.Writer, currency string, lots []pnl.Lot) bool {
	if len(lots) == 0 {
		return false
	}
	fmt.Fprintln(w, "| Acquired | Quantity | Remaining | Unit Cost | Cost Basis |")
	fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
	for _, l := range lots {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			l.AcquisitionDate(),
			formatQuantity(l.OriginalQuantity()),
			formatQuantity(l.RemainingQuantity()),
			formatAmount(l.UnitCost(), currency),
			formatAmount(l.CostBasis(), currency),
		)
	}
	return true
}

// Return renders a return result with its method and, when the rate was not
// solved exactly, why.
func Return(title string, r pnl.ReturnResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	writeReturn(&b, r)
	return b.String()
}

func writeReturn(w io.Writer, r pnl.ReturnResult) {
	fmt.Fprintf(w, "**Annualized return:** %s", formatReturn(r))
	if q := qualifier(r); q != "" {
		fmt.Fprintf(w, " (%s)", q)
	}
	fmt.Fprint(w, "\n\n")
	if r.Method != "" {
		fmt.Fprintf(w, "Method: `%s`, status: `%s`.\n\n", r.Method, r.Status)
	} else {
		fmt.Fprintf(w, "Status: `%s`.\n\n", r.Status)
	}
	if r.Reason != "" {
		fmt.Fprintf(w, "> %s\n\n", r.Reason)
	}
}

// CashFlows renders a cash-flow series.
func CashFlows(currency string, flows []pnl.CashFlow) string {
	var b strings.Builder
	section(&b, "", func(w io.Writer) bool {
		fmt.Fprintln(w, "| Date | Amount |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, f := range flows {
			fmt.Fprintf(w, "| %s | %s |\n", f.Date, formatSigned(f.Amount, currency))
		}
		return len(flows) > 0
	})
	return b.String()
}

// AssetReport renders the full report of an asset.
func AssetReport(r pnl.AssetReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Asset)
	fmt.Fprint(&b, "## Cost Basis\n\n")
	writeCostBasis(&b, r.Summary)
	fmt.Fprintln(&b)

	section(&b, "Open Lots", func(w io.Writer) bool {
		ok := writeLots(w, r.Summary.Currency, r.Lots)
		fmt.Fprintln(w)
		return ok
	})

	fmt.Fprint(&b, "## Return\n\n")
	writeReturn(&b, r.Return)
	return b.String()
}

// PortfolioReport renders the overview of every asset and the portfolio
// return.
func PortfolioReport(r pnl.PortfolioReport) string {
	cur := r.Currency
	var b strings.Builder
	fmt.Fprint(&b, "# Portfolio\n\n")
	fmt.Fprintln(&b, "| Asset | Position | Cost Basis | Market Value | Realized | Unrealized | Return |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")

	var costBasis, marketValue float64
	for _, a := range r.Assets {
		s := a.Summary
		value, unrealized := "", ""
		if s.Market != nil {
			value = formatAmount(s.Market.Value, cur)
			unrealized = formatSigned(s.Market.UnrealizedPnL, cur)
			marketValue += s.Market.Value
		}
		costBasis += s.TotalCostBasis
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			a.Asset,
			formatQuantity(s.CurrentPosition),
			formatAmount(s.TotalCostBasis, cur),
			value,
			formatSigned(s.RealizedPnL, cur),
			unrealized,
			formatReturn(a.Return),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | %s | %s | %s | %s | %s |\n\n",
		formatAmount(costBasis, cur),
		formatAmount(marketValue, cur),
		formatSigned(r.RealizedPnL(), cur),
		formatSigned(r.UnrealizedPnL(), cur),
		formatReturn(r.Return),
	)

	fmt.Fprint(&b, "## Portfolio Return\n\n")
	writeReturn(&b, r.Return)
	return b.String()
}
