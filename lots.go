package pnl

import (
	"math"

	"github.com/etnz/pnl/date"
)

// lotEpsilon is the quantity under which a lot, or a requested quantity, is
// considered empty. It absorbs floating-point residue.
const lotEpsilon = 1e-8

// Lot represents a single acquisition of shares, used for cost basis
// calculations. Its unit cost is fixed at creation; only a sale reduces it.
type Lot struct {
	acquired  date.Date
	original  float64
	remaining float64
	unitCost  float64
	costBasis float64
}

// NewLot opens a lot of quantity shares acquired at unitCost each.
func NewLot(acquired date.Date, quantity, unitCost float64) Lot {
	return Lot{
		acquired:  acquired,
		original:  quantity,
		remaining: quantity,
		unitCost:  unitCost,
		costBasis: quantity * unitCost,
	}
}

// AcquisitionDate returns the day the shares were acquired.
func (l Lot) AcquisitionDate() date.Date { return l.acquired }

// OriginalQuantity returns the number of shares acquired.
func (l Lot) OriginalQuantity() float64 { return l.original }

// RemainingQuantity returns the number of shares not sold yet.
func (l Lot) RemainingQuantity() float64 { return l.remaining }

// UnitCost returns the cost of one share, in the reporting currency.
func (l Lot) UnitCost() float64 { return l.unitCost }

// CostBasis returns the cost of the remaining shares.
func (l Lot) CostBasis() float64 { return l.costBasis }

// IsEmpty reports whether no share is left, up to rounding residue.
func (l Lot) IsEmpty() bool { return l.remaining < lotEpsilon }

// SellShares removes up to requested shares from the lot at the lot's own
// unit cost. It returns the quantity actually sold and the cost basis removed.
func (l *Lot) SellShares(requested float64) (sold, costRemoved float64) {
	if requested <= 0 || l.IsEmpty() {
		return 0, 0
	}
	sold = math.Min(requested, l.remaining)
	costRemoved = sold * l.unitCost
	l.remaining -= sold
	l.costBasis -= costRemoved
	return sold, costRemoved
}

// MarshalJSON implements json.Marshaler.
func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", l.acquired)
	w.Append("original", l.original)
	w.Append("remaining", l.remaining)
	w.Append("unitCost", l.unitCost)
	w.Append("costBasis", l.costBasis)
	return w.MarshalJSON()
}

// lotQueue holds lots in acquisition order. Lots are consumed from the head;
// consumed lots stay in the arena until prune compacts it.
type lotQueue struct {
	arena []Lot
	head  int
}

// push appends a newly acquired lot at the tail.
func (q *lotQueue) push(l Lot) { q.arena = append(q.arena, l) }

// open returns the lots that still may hold shares, oldest first.
func (q *lotQueue) open() []Lot { return q.arena[q.head:] }

// len returns the number of lots not yet consumed.
func (q *lotQueue) len() int { return len(q.arena) - q.head }

// position returns the total remaining quantity.
func (q *lotQueue) position() float64 {
	var total float64
	for _, l := range q.open() {
		total += l.remaining
	}
	return total
}

// costBasis returns the total remaining cost basis.
func (q *lotQueue) costBasis() float64 {
	var total float64
	for _, l := range q.open() {
		total += l.costBasis
	}
	return total
}

// averageUnitCost is the quantity-weighted unit cost of the open lots, 0 when
// nothing is held.
func (q *lotQueue) averageUnitCost() float64 {
	pos := q.position()
	if pos < lotEpsilon {
		return 0
	}
	return q.costBasis() / pos
}

// consume sells quantity shares FIFO. It returns the quantity actually sold
// and the cost basis removed; sold is smaller than quantity when the lots run
// out.
func (q *lotQueue) consume(quantity float64) (sold, costRemoved float64) {
	remaining := quantity
	for remaining > lotEpsilon && q.head < len(q.arena) {
		l := &q.arena[q.head]
		s, c := l.SellShares(remaining)
		sold += s
		costRemoved += c
		remaining -= s
		if l.IsEmpty() {
			q.head++
		}
	}
	return sold, costRemoved
}

// prune drops empty lots and resets the cursor.
func (q *lotQueue) prune() {
	kept := make([]Lot, 0, q.len())
	for _, l := range q.open() {
		if !l.IsEmpty() {
			kept = append(kept, l)
		}
	}
	q.arena, q.head = kept, 0
}
