package folio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/etnz/folio/date"
)

// This file contains code to persist a portfolio as JSONL, in a way that is still
// human-readable and git-friendly.
//
// The first line is the header, holding the horizon and the options. Then comes one line per
// asset, in ticker order, holding its metadata and its weight. Then one line per day of the
// aligned calendar, holding the price of every ticker on that day and the tickers whose price
// was seeded or forward filled rather than observed.
//
// Decoding restores the aligned table as it was saved: prices are never realigned nor
// weights renormalized, the decoded portfolio is only checked for consistency.

const maxLineSize = 16 << 20

// jheader is the first line of an encoded portfolio.
type jheader struct {
	Horizon    int     `json:"horizon"`
	Baseline   float64 `json:"baseline"`
	Duplicates string  `json:"duplicates"`
}

// jasset is an asset line.
type jasset struct {
	Ticker   string             `json:"ticker"`
	Name     string             `json:"name"`
	Currency string             `json:"currency"`
	Market   string             `json:"market"`
	Sector   string             `json:"sector"`
	Exchange string             `json:"exchange"`
	Sectors  map[string]float64 `json:"sectors"`
	Weight   *float64           `json:"weight"`
}

// jprices is a price line.
type jprices struct {
	On     *date.Date         `json:"on"`
	Prices map[string]float64 `json:"prices"`
	Filled []string           `json:"filled"`
}

// Encode writes p to w.
func Encode(w io.Writer, p *Portfolio) error {
	if err := p.Check(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := encodeLine(&buf, jheader{Horizon: p.horizon, Baseline: p.opts.Baseline, Duplicates: p.opts.Duplicates.String()}); err != nil {
		return err
	}

	for _, a := range p.assets.assets {
		var line jsonObjectWriter
		line.Append("ticker", a.Ticker).
			Optional("name", a.Name).
			Optional("currency", a.Currency).
			Optional("market", a.Market).
			Optional("sector", a.Sector).
			Optional("exchange", a.Exchange).
			Optional("sectors", a.Sectors).
			Append("weight", p.weights.Of(a.Ticker))
		if err := encodeLine(&buf, &line); err != nil {
			return fmt.Errorf("cannot encode asset %q: %w", a.Ticker, err)
		}
	}

	for row, day := range p.prices.days {
		var prices jsonObjectWriter
		var filled []string
		for col, ticker := range p.prices.tickers {
			prices.Append(ticker, p.prices.cells[col][row])
			if p.prices.filled[col][row] {
				filled = append(filled, ticker)
			}
		}
		var line jsonObjectWriter
		line.Append("on", day).Append("prices", &prices).Optional("filled", filled)
		if err := encodeLine(&buf, &line); err != nil {
			return fmt.Errorf("cannot encode prices on %s: %w", day, err)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeLine(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte('\n')
	return nil
}

// Decode reads a portfolio written by Encode. provider is used by later mutations, it can
// be nil for a read-only portfolio.
func Decode(r io.Reader, provider Provider) (*Portfolio, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		header  *jheader
		assets  = NewRegistry()
		weights []float64
		days    []date.Date
		rows    []jprices
		n       int
	)
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(line, &keys); err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", n, err)
		}

		switch {
		case header == nil:
			header = new(jheader)
			if err := json.Unmarshal(line, header); err != nil {
				return nil, fmt.Errorf("format error in header on line %d: %w", n, err)
			}

		case keys["ticker"] != nil:
			if len(rows) > 0 {
				return nil, fmt.Errorf("format error on line %d: asset after prices", n)
			}
			var ja jasset
			if err := json.Unmarshal(line, &ja); err != nil {
				return nil, fmt.Errorf("format error on line %d: %w", n, err)
			}
			if ja.Weight == nil {
				return nil, fmt.Errorf("format error on line %d: asset %q has no weight", n, ja.Ticker)
			}
			a := Asset{
				Ticker:   ja.Ticker,
				Name:     ja.Name,
				Currency: ja.Currency,
				Market:   ja.Market,
				Sector:   ja.Sector,
				Exchange: ja.Exchange,
				Sectors:  ja.Sectors,
			}
			if err := assets.Add(a); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			weights = append(weights, *ja.Weight)

		case keys["on"] != nil:
			var jp jprices
			if err := json.Unmarshal(line, &jp); err != nil {
				return nil, fmt.Errorf("format error on line %d: %w", n, err)
			}
			if jp.On == nil {
				return nil, fmt.Errorf("format error on line %d: price line without a day", n)
			}
			if len(days) > 0 && !days[len(days)-1].Before(*jp.On) {
				return nil, fmt.Errorf("format error on line %d: %s is not after %s", n, *jp.On, days[len(days)-1])
			}
			days = append(days, *jp.On)
			rows = append(rows, jp)

		default:
			return nil, fmt.Errorf("format error on line %d: neither an asset nor a price line", n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("format error: missing header")
	}

	policy, err := ParseDuplicatePolicy(header.Duplicates)
	if err != nil {
		return nil, fmt.Errorf("format error in header: %w", err)
	}
	opts, err := newOptions([]Option{WithBaseline(header.Baseline), WithDuplicates(policy)})
	if err != nil {
		return nil, fmt.Errorf("format error in header: %w", err)
	}
	if header.Horizon < 1 {
		return nil, fmt.Errorf("%w: %d years in header", ErrInvalidHorizon, header.Horizon)
	}

	tickers := assets.Tickers()
	for _, v := range weights {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: invalid weight %v", ErrDegenerateWeights, v)
		}
	}
	prices, err := decodePrices(tickers, days, rows)
	if err != nil {
		return nil, err
	}
	p := &Portfolio{
		provider: provider,
		opts:     opts,
		horizon:  header.Horizon,
		assets:   assets,
		prices:   prices,
		weights:  Weights{tickers: slices.Clone(tickers), values: weights},
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}

// decodePrices rebuilds the aligned table from the price lines.
func decodePrices(tickers []string, days []date.Date, rows []jprices) (*Prices, error) {
	p := &Prices{
		days:    days,
		tickers: tickers,
		cells:   make([][]float64, len(tickers)),
		filled:  make([][]bool, len(tickers)),
	}
	columns := make(map[string]int, len(tickers))
	for col, ticker := range tickers {
		columns[ticker] = col
		p.cells[col] = make([]float64, len(days))
		p.filled[col] = make([]bool, len(days))
		for row := range days {
			p.cells[col][row] = math.NaN()
		}
	}
	for row, jp := range rows {
		for ticker, v := range jp.Prices {
			col, ok := columns[ticker]
			if !ok {
				return nil, fmt.Errorf("%w %q in prices on %s", ErrUnknownTicker, ticker, days[row])
			}
			p.cells[col][row] = v
		}
		for _, ticker := range jp.Filled {
			col, ok := columns[ticker]
			if !ok {
				return nil, fmt.Errorf("%w %q in filled on %s", ErrUnknownTicker, ticker, days[row])
			}
			if _, ok := jp.Prices[ticker]; !ok {
				return nil, fmt.Errorf("%w: %q is filled without a price on %s", ErrInconsistentState, ticker, days[row])
			}
			p.filled[col][row] = true
		}
	}
	return p, nil
}
