package folio

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/folio/date"
)

// Provider is the source of market data.
//
// Implementations return exactly one entry per requested ticker, or an error. Calls are
// blocking, a Portfolio never retries them.
type Provider interface {
	// FetchPrices returns the price history of each ticker over the last 'years' years.
	FetchPrices(ctx context.Context, tickers []string, years int) (map[string]*date.History[float64], error)
	// FetchMetadata returns the metadata of each ticker.
	FetchMetadata(ctx context.Context, tickers []string) ([]Asset, error)
}

// fetch calls the provider for tickers and checks that every ticker has been returned.
// Every failure is reported as an ErrFetch.
func fetch(ctx context.Context, provider Provider, tickers []string, years int, metadata bool) (map[string]Asset, map[string]*date.History[float64], error) {
	if provider == nil {
		return nil, nil, fmt.Errorf("%w: no data provider", ErrFetch)
	}
	var assets map[string]Asset
	if metadata {
		list, err := provider.FetchMetadata(ctx, tickers)
		if err != nil {
			return nil, nil, wrapFetch(err)
		}
		assets = make(map[string]Asset, len(list))
		for _, a := range list {
			assets[a.Ticker] = a
		}
		if missing := missingTickers(tickers, func(t string) bool { _, ok := assets[t]; return ok }); len(missing) > 0 {
			return nil, nil, fmt.Errorf("%w: no metadata for %v", ErrFetch, missing)
		}
	}
	prices, err := provider.FetchPrices(ctx, tickers, years)
	if err != nil {
		return nil, nil, wrapFetch(err)
	}
	if missing := missingTickers(tickers, func(t string) bool { return prices[t] != nil }); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: no prices for %v", ErrFetch, missing)
	}
	return assets, prices, nil
}

func missingTickers(tickers []string, has func(string) bool) []string {
	var missing []string
	for _, t := range tickers {
		if !has(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// wrapFetch makes sure err is reported as an ErrFetch.
func wrapFetch(err error) error {
	if errors.Is(err, ErrFetch) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}

// StaticProvider serves market data held in memory.
//
// The horizon is counted back from the most recent price it holds, not from today, so that
// a static data set always yields the same portfolio.
type StaticProvider struct {
	assets map[string]Asset
	prices map[string]*date.History[float64]
}

// NewStaticProvider returns an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		assets: make(map[string]Asset),
		prices: make(map[string]*date.History[float64]),
	}
}

// Set registers, or replaces, an asset and its price history.
func (s *StaticProvider) Set(a Asset, prices *date.History[float64]) {
	s.assets[a.Ticker] = a.clone()
	if prices == nil {
		prices = new(date.History[float64])
	}
	s.prices[a.Ticker] = prices.Clone()
}

// Tickers returns the known tickers, sorted.
func (s *StaticProvider) Tickers() []string {
	return slices.Sorted(maps.Keys(s.assets))
}

// end returns the most recent day of any price.
func (s *StaticProvider) end() date.Date {
	var end date.Date
	for _, h := range s.prices {
		if day, _ := h.Latest(); day.After(end) {
			end = day
		}
	}
	return end
}

func (s *StaticProvider) FetchPrices(ctx context.Context, tickers []string, years int) (map[string]*date.History[float64], error) {
	horizon := date.LastYears(years, s.end())
	result := make(map[string]*date.History[float64], len(tickers))
	var unknown []string
	for _, ticker := range tickers {
		h, ok := s.prices[ticker]
		if !ok {
			unknown = append(unknown, ticker)
			continue
		}
		in := new(date.History[float64])
		for day, price := range h.Values() {
			if horizon.Contains(day) {
				in.Append(day, price)
			}
		}
		result[ticker] = in
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown tickers %v", ErrFetch, unknown)
	}
	return result, nil
}

func (s *StaticProvider) FetchMetadata(ctx context.Context, tickers []string) ([]Asset, error) {
	assets := make([]Asset, 0, len(tickers))
	var unknown []string
	for _, ticker := range tickers {
		a, ok := s.assets[ticker]
		if !ok {
			unknown = append(unknown, ticker)
			continue
		}
		assets = append(assets, a.clone())
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown tickers %v", ErrFetch, unknown)
	}
	return assets, nil
}

var _ Provider = (*StaticProvider)(nil)
