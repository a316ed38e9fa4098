package pnl

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/etnz/pnl/date"
)

// Transaction is one row of an asset's history.
//
// NetAmount is signed from the investor's point of view: cash paid out is
// negative, cash received is positive. A zero NetAmount means the amount is
// unknown, in which case engines fall back on Quantity*UnitPrice.
type Transaction struct {
	Date      date.Date
	Asset     string
	Type      TxType
	Quantity  float64
	UnitPrice float64
	NetAmount float64
	Currency  string
	Memo      string
}

// NewTransaction creates a transaction for an asset.
func NewTransaction(on date.Date, asset string, typ TxType, quantity, unitPrice, netAmount float64, currency string) Transaction {
	return Transaction{
		Date:      on,
		Asset:     asset,
		Type:      typ,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		NetAmount: netAmount,
		Currency:  currency,
	}
}

// hasAmount reports whether the net amount is known.
func (t Transaction) hasAmount() bool {
	return t.NetAmount != 0 && !math.IsNaN(t.NetAmount)
}

// grossAmount returns |NetAmount| when known, |Quantity*UnitPrice| otherwise.
func (t Transaction) grossAmount() float64 {
	if t.hasAmount() {
		return math.Abs(t.NetAmount)
	}
	return math.Abs(t.Quantity * t.UnitPrice)
}

// Validate checks the fields a transaction needs to be usable by any engine.
func (t Transaction) Validate() error {
	var errs error
	if t.Date.IsZero() {
		errs = errors.Join(errs, errors.New("date is missing"))
	}
	if t.Type == TxUnknown {
		errs = errors.Join(errs, errors.New("type is unknown"))
	}
	for _, f := range []struct {
		name  string
		value float64
	}{{"quantity", t.Quantity}, {"price", t.UnitPrice}, {"amount", t.NetAmount}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			errs = errors.Join(errs, fmt.Errorf("%s is not a finite number", f.name))
		}
	}
	if t.Currency != "" {
		if err := ValidateCurrency(t.Currency); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// MarshalJSON writes the transaction with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.Date)
	w.Optional("asset", t.Asset)
	w.Append("type", t.Type)
	w.Append("quantity", t.Quantity)
	w.Optional("price", t.UnitPrice)
	w.Optional("amount", t.NetAmount)
	w.Optional("currency", t.Currency)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// SortTransactions returns a copy of txs ordered by date then type priority,
// the order in which engines apply them.
// Ties keep their input order.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Type.priority(), b.Type.priority())
	})
	return sorted
}

// groupByAsset splits a ledger into per-asset histories, preserving order.
func groupByAsset(txs []Transaction) map[string][]Transaction {
	byAsset := make(map[string][]Transaction)
	for _, tx := range txs {
		byAsset[tx.Asset] = append(byAsset[tx.Asset], tx)
	}
	return byAsset
}
