package date

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppend(t *testing.T) {
	h := new(History[float64])
	d1, v1 := New(2025, 07, 01), 1.25
	d2, v2 := New(2024, 07, 01), 1.24

	// Appending in reverse order must keep the series sorted.
	assert.Equal(t, 0, h.Len())
	h.Append(d1, v1)
	assert.Equal(t, 1, h.Len())
	h.Append(d2, v2)
	assert.Equal(t, 2, h.Len())

	assert.Equal(t, []Date{d2, d1}, h.days)
	assert.Equal(t, []float64{v2, v1}, h.values)

	// Same day overwrites.
	h.Append(d1, 2)
	assert.Equal(t, 2, h.Len())
	got, ok := h.Get(d1)
	assert.True(t, ok)
	assert.Equal(t, 2.0, got)
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 10), 0.90)
	h.Append(New(2025, 3, 20), 0.92)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOK bool
	}{
		{"before first", New(2025, 1, 9), 0, false},
		{"exact", New(2025, 1, 10), 0.90, true},
		{"between", New(2025, 2, 1), 0.90, true},
		{"after last", New(2025, 12, 31), 0.92, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
