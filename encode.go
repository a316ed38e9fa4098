package pnl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// This file decodes the JSONL inputs of the engines: one JSON object per
// line, blank lines ignored. Numbers may be written as JSON numbers or as
// strings; they are read exactly with decimal before being used as floats.

// decodeLines calls decode on each non blank line of r. Line errors are
// collected, so that a single pass reports every malformed line.
// name is for error messages only.
func decodeLines[T any](r io.Reader, name string, decode func([]byte) (T, error)) ([]T, error) {
	var (
		list []T
		errs error
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		v, err := decode(line)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("parse error %s:%d: %w", name, i, err))
			continue
		}
		list = append(list, v)
	}
	if err := scanner.Err(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("cannot read %s: %w", name, err))
	}
	return list, errs
}

// decodeFile opens filename and decodes it.
func decodeFile[T any](filename string, decode func(io.Reader, string) (T, error)) (T, error) {
	f, err := os.Open(filename)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()
	return decode(f, filename)
}

func float(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}

// jsonTransaction is a ledger line.
type jsonTransaction struct {
	Date     date.Date           `json:"date"`
	Asset    string              `json:"asset"`
	Type     TxType              `json:"type"`
	Quantity decimal.NullDecimal `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
	Amount   decimal.NullDecimal `json:"amount"`
	Currency string              `json:"currency"`
	Memo     string              `json:"memo"`
}

// DecodeLedger reads transactions from a JSONL stream.
func DecodeLedger(r io.Reader, name string) ([]Transaction, error) {
	return decodeLines(r, name, func(line []byte) (Transaction, error) {
		var j jsonTransaction
		if err := json.Unmarshal(line, &j); err != nil {
			return Transaction{}, err
		}
		if j.Date.IsZero() {
			return Transaction{}, errors.New("missing the property \"date\"")
		}
		return Transaction{
			Date:      j.Date,
			Asset:     j.Asset,
			Type:      j.Type,
			Quantity:  float(j.Quantity),
			UnitPrice: float(j.Price),
			NetAmount: float(j.Amount),
			Currency:  j.Currency,
			Memo:      j.Memo,
		}, nil
	})
}

// LoadLedger reads transactions from a JSONL file.
func LoadLedger(filename string) ([]Transaction, error) {
	return decodeFile(filename, DecodeLedger)
}

// EncodeLedger writes transactions as JSONL, one per line.
func EncodeLedger(w io.Writer, txs []Transaction) error {
	enc := json.NewEncoder(w)
	for _, tx := range txs {
		if err := enc.Encode(tx); err != nil {
			return fmt.Errorf("cannot encode transaction on %s: %w", tx.Date, err)
		}
	}
	return nil
}

// jsonHolding is a holdings snapshot line.
type jsonHolding struct {
	Date     date.Date           `json:"date"`
	Asset    string              `json:"asset"`
	Quantity decimal.NullDecimal `json:"quantity"`
	Value    decimal.NullDecimal `json:"value"`
	Currency string              `json:"currency"`
}

// DecodeHoldings reads a holdings snapshot from a JSONL stream.
func DecodeHoldings(r io.Reader, name string) ([]Holding, error) {
	return decodeLines(r, name, func(line []byte) (Holding, error) {
		var j jsonHolding
		if err := json.Unmarshal(line, &j); err != nil {
			return Holding{}, err
		}
		if j.Asset == "" {
			return Holding{}, errors.New("missing the property \"asset\"")
		}
		return Holding{
			Asset:       j.Asset,
			Date:        j.Date,
			Quantity:    float(j.Quantity),
			MarketValue: float(j.Value),
			Currency:    j.Currency,
		}, nil
	})
}

// LoadHoldings reads a holdings snapshot from a JSONL file.
func LoadHoldings(filename string) ([]Holding, error) {
	return decodeFile(filename, DecodeHoldings)
}

// jsonRate is an exchange rate line: one unit of From is worth Rate To.
type jsonRate struct {
	Date date.Date       `json:"date"`
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// DecodeRates reads exchange rates from a JSONL stream into a new RateTable.
func DecodeRates(r io.Reader, name string) (*RateTable, error) {
	rates, err := decodeLines(r, name, func(line []byte) (jsonRate, error) {
		var j jsonRate
		if err := json.Unmarshal(line, &j); err != nil {
			return j, err
		}
		if err := errors.Join(ValidateCurrency(j.From), ValidateCurrency(j.To)); err != nil {
			return j, err
		}
		if !j.Rate.IsPositive() {
			return j, fmt.Errorf("rate %s must be positive", j.Rate)
		}
		return j, nil
	})
	table := NewRateTable()
	for _, j := range rates {
		table.Set(j.From, j.To, j.Date, j.Rate.InexactFloat64())
	}
	return table, err
}

// LoadRates reads exchange rates from a JSONL file.
func LoadRates(filename string) (*RateTable, error) {
	return decodeFile(filename, DecodeRates)
}

// jsonCashFlow is an explicit cash-flow line.
type jsonCashFlow struct {
	Date   date.Date       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// DecodeCashFlows reads an explicit cash-flow series from a JSONL stream.
func DecodeCashFlows(r io.Reader, name string) ([]CashFlow, error) {
	return decodeLines(r, name, func(line []byte) (CashFlow, error) {
		var j jsonCashFlow
		if err := json.Unmarshal(line, &j); err != nil {
			return CashFlow{}, err
		}
		return CashFlow{Date: j.Date, Amount: j.Amount.InexactFloat64()}, nil
	})
}

// LoadCashFlows reads an explicit cash-flow series from a JSONL file.
func LoadCashFlows(filename string) ([]CashFlow, error) {
	return decodeFile(filename, DecodeCashFlows)
}
