package pnl

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/etnz/pnl/date"
	"github.com/patrickmn/go-cache"
)

var (
	// ErrNoRate is returned when no exchange rate is known for a pair on a date.
	ErrNoRate = errors.New("no exchange rate")
	// ErrInvalidCurrency is returned for a currency code that is not ISO 4217.
	ErrInvalidCurrency = errors.New("invalid currency")
)

// Converter converts an amount between currencies at the rate of a given day.
//
// Engines only depend on this interface; a failed conversion is never fatal
// to them, the amount is used unconverted.
type Converter interface {
	Convert(amount float64, from, to string, on date.Date) (float64, error)
}

// ValidateCurrency checks that cur is a known ISO 4217 currency code.
func ValidateCurrency(cur string) error {
	if len(cur) != 3 || strings.ToUpper(cur) != cur || money.GetCurrency(cur) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, cur)
	}
	return nil
}

// RateTable is an in-memory Converter over daily exchange rates.
//
// A rate for pair FROM/TO is the price of one unit of FROM expressed in TO.
// Lookups use the latest rate on or before the requested day, and fall back
// on the inverse pair. Resolved rates are cached by (from, to, day). It is
// safe for concurrent use.
type RateTable struct {
	mu       sync.RWMutex
	rates    map[string]*date.History[float64] // keyed by "FROMTO"
	resolved *cache.Cache
}

// NewRateTable returns an empty rate table.
func NewRateTable() *RateTable {
	return &RateTable{
		rates:    make(map[string]*date.History[float64]),
		resolved: cache.New(cache.NoExpiration, 0),
	}
}

// Set records the rate of pair from/to on a day. It invalidates resolved
// rates, which may depend on it.
func (t *RateTable) Set(from, to string, on date.Date, rate float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pair := from + to
	h, ok := t.rates[pair]
	if !ok {
		h = new(date.History[float64])
		t.rates[pair] = h
	}
	h.Append(on, rate)
	t.resolved.Flush()
}

// Rate returns the rate to convert one unit of from into to on a given day.
func (t *RateTable) Rate(from, to string, on date.Date) (float64, error) {
	if from == to {
		return 1, nil
	}
	key := from + "/" + to + "/" + on.String()
	if r, ok := t.resolved.Get(key); ok {
		return r.(float64), nil
	}

	// Filled under the read lock, so that a concurrent Set cannot flush the
	// cache between the lookup and the fill.
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, err := t.lookup(from, to, on)
	if err != nil {
		return 0, err
	}
	t.resolved.Set(key, rate, cache.NoExpiration)
	return rate, nil
}

// lookup must be called with the read lock held.
func (t *RateTable) lookup(from, to string, on date.Date) (float64, error) {
	if h, ok := t.rates[from+to]; ok {
		if r, ok := h.ValueAsOf(on); ok && r > 0 {
			return r, nil
		}
	}
	if h, ok := t.rates[to+from]; ok {
		if r, ok := h.ValueAsOf(on); ok && r > 0 {
			return 1 / r, nil
		}
	}
	return 0, fmt.Errorf("%w for %s to %s as of %s", ErrNoRate, from, to, on)
}

// Convert implements Converter.
func (t *RateTable) Convert(amount float64, from, to string, on date.Date) (float64, error) {
	rate, err := t.Rate(from, to, on)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// normalize converts amount into the reporting currency. Conversion is skipped
// when either currency is unknown or they are equal. On failure the amount is
// returned unconverted, with ok set to false.
func normalize(conv Converter, amount float64, from, to string, on date.Date) (converted float64, ok bool) {
	if from == "" || to == "" || from == to || amount == 0 {
		return amount, true
	}
	if conv == nil {
		return amount, false
	}
	v, err := conv.Convert(amount, from, to, on)
	if err != nil {
		return amount, false
	}
	return v, true
}
