package folio

import (
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/etnz/folio/date"
)

// Prices is a table of asset prices aligned on a shared calendar.
//
// The calendar is the union of every day any asset has a price for. The first row of every
// column holds the asset first price, so no cell is ever empty. Every other day without a
// price is filled with the most recent earlier price of the same asset. Seeded and filled
// cells are flagged, only the others are observations.
type Prices struct {
	days    []date.Date
	tickers []string
	cells   [][]float64 // cells[column][row]
	filled  [][]bool    // filled[column][row] is true for forward-filled cells
}

// isValidPrice reports whether p can be used as an observation.
func isValidPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) // NaN fails p > 0
}

// Align builds the aligned price table of tickers out of their raw price histories.
//
// Invalid observations (NaN, infinite, zero or negative prices) are ignored. A ticker
// without any valid observation fails with ErrNoData.
func Align(raw map[string]*date.History[float64], tickers []string) (*Prices, error) {
	series := make([]*date.History[float64], len(tickers))
	for i, ticker := range tickers {
		h, ok := raw[ticker]
		if !ok || h == nil {
			return nil, fmt.Errorf("%w: no price history for %q", ErrNoData, ticker)
		}
		valid := new(date.History[float64])
		for day, price := range h.Values() {
			if isValidPrice(price) {
				valid.Append(day, price)
			}
		}
		if skipped := h.Len() - valid.Len(); skipped > 0 {
			log.Printf("ignored %d invalid prices for %q", skipped, ticker)
		}
		if valid.Len() == 0 {
			return nil, fmt.Errorf("%w: no valid price for %q", ErrNoData, ticker)
		}
		series[i] = valid
	}
	return align(series, tickers), nil
}

// align outer-joins valid series into a Prices.
func align(series []*date.History[float64], tickers []string) *Prices {
	p := &Prices{
		days:    slices.Collect(date.Iterate(series...)),
		tickers: slices.Clone(tickers),
		cells:   make([][]float64, len(tickers)),
		filled:  make([][]bool, len(tickers)),
	}
	for col, h := range series {
		cells := make([]float64, len(p.days))
		filled := make([]bool, len(p.days))
		for row, day := range p.days {
			if v, ok := h.Get(day); ok {
				cells[row] = v
				continue
			}
			filled[row] = true
			v, ok := h.ValueAsOf(day)
			if !ok {
				// Before the first observation: seeded with it.
				_, v = h.First()
			}
			cells[row] = v
		}
		p.cells[col], p.filled[col] = cells, filled
	}
	return p
}

// observations returns the actual prices of a column, without the filled cells.
func (p *Prices) observations(col int) *date.History[float64] {
	h := new(date.History[float64])
	for row, v := range p.cells[col] {
		if !p.filled[col][row] {
			h.Append(p.days[row], v)
		}
	}
	return h
}

// series returns the observations of every column.
func (p *Prices) series() []*date.History[float64] {
	series := make([]*date.History[float64], len(p.tickers))
	for col := range p.tickers {
		series[col] = p.observations(col)
	}
	return series
}

// With returns a new Prices, realigned with ticker's history added as the last column.
func (p *Prices) With(ticker string, h *date.History[float64]) (*Prices, error) {
	if slices.Contains(p.tickers, ticker) {
		return nil, fmt.Errorf("%w %q", ErrDuplicateTicker, ticker)
	}
	raw := make(map[string]*date.History[float64], len(p.tickers)+1)
	for col, obs := range p.series() {
		raw[p.tickers[col]] = obs
	}
	raw[ticker] = h
	return Align(raw, append(slices.Clone(p.tickers), ticker))
}

// Without returns a new Prices, realigned without ticker's column.
//
// Days that only ticker had a price for are removed from the calendar.
func (p *Prices) Without(ticker string) (*Prices, error) {
	i := slices.Index(p.tickers, ticker)
	if i < 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownTicker, ticker)
	}
	series := slices.Delete(p.series(), i, i+1)
	tickers := slices.Delete(slices.Clone(p.tickers), i, i+1)
	return align(series, tickers), nil
}

// Len returns the number of days in the calendar.
func (p *Prices) Len() int { return len(p.days) }

// Days returns the shared calendar.
func (p *Prices) Days() []date.Date { return slices.Clone(p.days) }

// Tickers returns the column tickers.
func (p *Prices) Tickers() []string { return slices.Clone(p.tickers) }

// Column returns the aligned prices of ticker.
func (p *Prices) Column(ticker string) ([]float64, bool) {
	i := slices.Index(p.tickers, ticker)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(p.cells[i]), true
}

// Observed returns, for each day, whether ticker's cell is an actual price rather than a
// seeded or filled one.
func (p *Prices) Observed(ticker string) ([]bool, bool) {
	i := slices.Index(p.tickers, ticker)
	if i < 0 {
		return nil, false
	}
	observed := make([]bool, len(p.days))
	for row, filled := range p.filled[i] {
		observed[row] = !filled
	}
	return observed, true
}

// Table returns the aligned prices, one column per ticker.
func (p *Prices) Table() *Table {
	t := &Table{Days: p.Days(), Labels: p.Tickers(), Values: make([][]float64, len(p.cells))}
	for col, cells := range p.cells {
		t.Values[col] = slices.Clone(cells)
	}
	return t
}

// Scale returns the prices relative to each column's first row, times baseline. Every
// column starts at baseline.
func (p *Prices) Scale(baseline float64) *Table {
	t := p.Table()
	for _, col := range t.Values {
		if len(col) == 0 {
			continue
		}
		ref := col[0]
		for row, v := range col {
			col[row] = v / ref * baseline
		}
	}
	return t
}

// Equal reports whether p and x hold the same calendar, columns, cells and fills.
func (p *Prices) Equal(x *Prices) bool {
	if !slices.Equal(p.days, x.days) || !slices.Equal(p.tickers, x.tickers) {
		return false
	}
	for col := range p.cells {
		if !slices.Equal(p.filled[col], x.filled[col]) {
			return false
		}
		if !slices.Equal(p.cells[col], x.cells[col]) {
			return false
		}
	}
	return true
}

// check verifies the table shape and that every column is a proper seeded and
// forward-filled series: leading flagged cells repeat the first observation, later flagged
// cells repeat the previous row.
func (p *Prices) check() error {
	for i := 1; i < len(p.days); i++ {
		if !p.days[i-1].Before(p.days[i]) {
			return fmt.Errorf("%w: calendar is not strictly increasing at %s", ErrInconsistentState, p.days[i])
		}
	}
	if len(p.cells) != len(p.tickers) || len(p.filled) != len(p.tickers) {
		return fmt.Errorf("%w: %d price columns for %d tickers", ErrInconsistentState, len(p.cells), len(p.tickers))
	}
	for col, ticker := range p.tickers {
		cells, filled := p.cells[col], p.filled[col]
		if len(cells) != len(p.days) || len(filled) != len(p.days) {
			return fmt.Errorf("%w: column %q has %d cells for %d days", ErrInconsistentState, ticker, len(cells), len(p.days))
		}
		first := slices.Index(filled, false)
		if first < 0 {
			return fmt.Errorf("%w: no price for %q", ErrInconsistentState, ticker)
		}
		for row, v := range cells {
			if !isValidPrice(v) {
				return fmt.Errorf("%w: %q has an invalid price %v on %s", ErrInconsistentState, ticker, v, p.days[row])
			}
			if !filled[row] {
				continue
			}
			want := cells[first]
			if row > first {
				want = cells[row-1]
			}
			if v != want {
				return fmt.Errorf("%w: %q is filled with %v instead of %v on %s", ErrInconsistentState, ticker, v, want, p.days[row])
			}
		}
	}
	return nil
}

// Clone returns a deep copy of p.
func (p *Prices) Clone() *Prices {
	c := &Prices{
		days:    slices.Clone(p.days),
		tickers: slices.Clone(p.tickers),
		cells:   make([][]float64, len(p.cells)),
		filled:  make([][]bool, len(p.filled)),
	}
	for col := range p.cells {
		c.cells[col] = slices.Clone(p.cells[col])
		c.filled[col] = slices.Clone(p.filled[col])
	}
	return c
}
