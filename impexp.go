package folio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/folio/date"
)

// this file contains functions to handle the market data import/export format.
// It should remain human readable, single file and be easy to edit by hand.

// jmarket is a single line of the import/export format.
type jmarket struct {
	Ticker   string             `json:"ticker"`
	Name     string             `json:"name,omitempty"`
	Currency string             `json:"currency,omitempty"`
	Market   string             `json:"market,omitempty"`
	Sector   string             `json:"sector,omitempty"`
	Exchange string             `json:"exchange,omitempty"`
	Sectors  map[string]float64 `json:"sectors,omitempty"`
	History  map[string]float64 `json:"history"`
}

// ImportProvider reads market data from 'r' in the import/export format.
//
// The import format is a JSONL file, where each line is a JSON object representing an asset.
// Properties 'ticker', 'name', 'currency', 'market', 'sector', 'exchange' and 'sectors' hold
// its metadata, property 'history' holds its prices.
//
// The history is a single json object whose properties are dates parseable by the [date]
// package, and values are the prices.
func ImportProvider(r io.Reader) (*StaticProvider, error) {
	s := NewStaticProvider()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var jm jmarket
		if err := json.Unmarshal(line, &jm); err != nil {
			return nil, fmt.Errorf("cannot parse line %d for market data import format: %w", n, err)
		}
		a := Asset{
			Ticker:   jm.Ticker,
			Name:     jm.Name,
			Currency: jm.Currency,
			Market:   jm.Market,
			Sector:   jm.Sector,
			Exchange: jm.Exchange,
			Sectors:  jm.Sectors,
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if _, ok := s.assets[a.Ticker]; ok {
			return nil, fmt.Errorf("line %d: %w %q", n, ErrDuplicateTicker, a.Ticker)
		}
		h := new(date.History[float64])
		for day, value := range jm.History {
			d, err := date.Parse(day)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid day in %q history: %w", n, a.Ticker, err)
			}
			h.Append(d, value)
		}
		s.Set(a, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// ExportProvider writes the market data of s to 'w' in the import/export format, one line
// per ticker in alphabetical order.
func ExportProvider(w io.Writer, s *StaticProvider) error {
	for _, ticker := range s.Tickers() {
		a := s.assets[ticker]
		jm := jmarket{
			Ticker:   a.Ticker,
			Name:     a.Name,
			Currency: a.Currency,
			Market:   a.Market,
			Sector:   a.Sector,
			Exchange: a.Exchange,
			Sectors:  a.Sectors,
			History:  make(map[string]float64),
		}
		for day, value := range s.prices[ticker].Values() {
			jm.History[day.String()] = value
		}
		data, err := json.Marshal(jm)
		if err != nil {
			return fmt.Errorf("cannot marshal asset %q: %w", ticker, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write market data format: %w", err)
		}
	}
	return nil
}

// Market returns the metadata and actual prices of p's assets, without the filled cells.
//
// Exported with ExportProvider, it lets a portfolio be rebuilt offline.
func (p *Portfolio) Market() *StaticProvider {
	s := NewStaticProvider()
	for col, a := range p.assets.Assets() {
		s.Set(a, p.prices.observations(col))
	}
	return s
}
