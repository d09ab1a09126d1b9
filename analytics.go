package folio

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// CombinedLabel is the label of the combined worth series.
const CombinedLabel = "Combined value"

// ScaledPrices returns every asset price relative to its first price, times the baseline.
// Every column starts at the baseline and is labeled with the asset display name.
func (p *Portfolio) ScaledPrices() *Table {
	t := p.prices.Scale(p.opts.Baseline)
	t.Labels = p.labels()
	return t
}

// labels returns a unique display name per ticker.
func (p *Portfolio) labels() []string {
	assets := p.assets.assets
	names := make([]string, len(assets))
	count := make(map[string]int)
	for _, a := range assets {
		count[a.DisplayName()]++
	}
	for i, a := range assets {
		names[i] = a.DisplayName()
		if count[names[i]] > 1 {
			names[i] = fmt.Sprintf("%s (%s)", names[i], a.Ticker)
		}
	}
	return names
}

// CombinedWorth returns the value of the weighted portfolio over time, starting at the
// baseline.
//
// Each day it is the sum over the assets of their weight times their scaled price.
func (p *Portfolio) CombinedWorth() (*Series, error) {
	if p.Len() == 0 {
		return nil, ErrEmptyPortfolio
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	scaled := p.prices.Scale(p.opts.Baseline)
	weights := make([]float64, len(scaled.Labels))
	for col, ticker := range scaled.Labels {
		weights[col] = p.weights.Of(ticker)
	}
	s := &Series{Label: CombinedLabel, Days: scaled.Days, Values: make([]float64, scaled.Len())}
	for row := range s.Values {
		var sum float64
		for col, values := range scaled.Values {
			sum += weights[col] * values[row]
		}
		s.Values[row] = sum
	}
	return s, nil
}

// Split is the distribution of the portfolio weight over the values of a metadata field.
type Split map[string]float64

// Share is a single entry of a Split.
type Share struct {
	Key    string
	Weight float64
}

// Sorted returns the entries by decreasing weight, then by key.
func (s Split) Sorted() []Share {
	shares := make([]Share, 0, len(s))
	for k, w := range s {
		shares = append(shares, Share{k, w})
	}
	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return shares
}

// Sum returns the sum of all shares.
func (s Split) Sum() float64 {
	var sum float64
	for _, w := range s {
		sum += w
	}
	return sum
}

// Split sums the weights of the assets by value of field.
//
// Assets with a sector breakdown spread their weight across it when splitting by sector.
func (p *Portfolio) Split(field Field) (Split, error) {
	if _, err := ParseField(string(field)); err != nil {
		return nil, err
	}
	if p.Len() == 0 {
		return nil, ErrEmptyPortfolio
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	split := make(Split)
	for _, a := range p.assets.assets {
		exposure, err := a.exposure(field)
		if err != nil {
			return nil, err
		}
		w := p.weights.Of(a.Ticker)
		for key, share := range exposure {
			split[key] += w * share
		}
	}
	return split, nil
}

// CAGR returns the compound annual growth rate of each asset, between its first and last
// price.
func (p *Portfolio) CAGR() (map[string]float64, error) {
	if p.Len() == 0 {
		return nil, ErrEmptyPortfolio
	}
	cagr := make(map[string]float64, p.Len())
	for col, ticker := range p.prices.tickers {
		obs := p.prices.observations(col)
		firstDay, first := obs.First()
		lastDay, last := obs.Latest()
		cagr[ticker] = annualize(last/first, lastDay.Sub(firstDay))
	}
	return cagr, nil
}

// CombinedCAGR returns the compound annual growth rate of the combined worth.
func (p *Portfolio) CombinedCAGR() (float64, error) {
	s, err := p.CombinedWorth()
	if err != nil {
		return 0, err
	}
	n := s.Len()
	return annualize(s.Values[n-1]/s.Values[0], s.Days[n-1].Sub(s.Days[0])), nil
}

// annualize converts a growth ratio over some days into a yearly rate. It is NaN over less
// than a day.
func annualize(ratio float64, days int) float64 {
	if days <= 0 {
		return math.NaN()
	}
	return math.Pow(ratio, 365.25/float64(days)) - 1
}
