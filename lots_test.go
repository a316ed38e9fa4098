package pnl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLot_SellShares(t *testing.T) {
	tests := []struct {
		name          string
		requested     float64
		wantSold      float64
		wantCost      float64
		wantRemaining float64
	}{
		{"partial", 4, 4, 40, 6},
		{"exact", 10, 10, 100, 0},
		{"more than held", 15, 10, 100, 0},
		{"zero", 0, 0, 0, 10},
		{"negative", -3, 0, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLot(day("2024-01-01"), 10, 10)
			sold, cost := l.SellShares(tt.requested)
			assert.InDelta(t, tt.wantSold, sold, 1e-9)
			assert.InDelta(t, tt.wantCost, cost, 1e-9)
			assert.InDelta(t, tt.wantRemaining, l.RemainingQuantity(), 1e-9)
			assert.InDelta(t, l.RemainingQuantity()*l.UnitCost(), l.CostBasis(), 1e-9)
			assert.Equal(t, 10.0, l.OriginalQuantity())
			assert.Equal(t, 10.0, l.UnitCost())
		})
	}
}

func TestLot_IsEmpty(t *testing.T) {
	l := NewLot(day("2024-01-01"), 1, 3)
	l.SellShares(1 - 1e-9)
	assert.True(t, l.IsEmpty(), "residue under epsilon is empty")

	sold, cost := l.SellShares(1)
	assert.Zero(t, sold)
	assert.Zero(t, cost)
}

func TestLotQueue_ConsumeFIFO(t *testing.T) {
	var q lotQueue
	q.push(NewLot(day("2024-01-01"), 10, 10))
	q.push(NewLot(day("2024-02-01"), 10, 20))
	q.push(NewLot(day("2024-03-01"), 10, 30))

	sold, cost := q.consume(15)
	assert.Equal(t, 15.0, sold)
	assert.Equal(t, 10*10.0+5*20.0, cost)
	assert.Equal(t, 1, q.head, "first lot is consumed")
	assert.Equal(t, 2, q.len())
	assert.Equal(t, 15.0, q.position())
	assert.Equal(t, 5*20.0+10*30.0, q.costBasis())

	sold, cost = q.consume(100)
	assert.Equal(t, 15.0, sold, "only what is held is sold")
	assert.Equal(t, 5*20.0+10*30.0, cost)
	assert.Zero(t, q.len())
	assert.Zero(t, q.averageUnitCost())
}

func TestLotQueue_Prune(t *testing.T) {
	var q lotQueue
	q.push(NewLot(day("2024-01-01"), 10, 10))
	q.push(NewLot(day("2024-02-01"), 10, 20))
	q.consume(10)
	q.prune()

	assert.Zero(t, q.head)
	if assert.Len(t, q.arena, 1) {
		assert.Equal(t, day("2024-02-01"), q.arena[0].AcquisitionDate())
	}
	assert.Equal(t, 20.0, q.averageUnitCost())
}
