// Package eodhd provides market data from eodhd.com.
package eodhd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// APIKeyEnv is the environment variable holding the default API key.
const APIKeyEnv = "EODHD_API_KEY"

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// Provider fetches prices and metadata from the EODHD API. It implements folio.Provider.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	today   func() date.Date
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL sets the API root, mostly for tests.
func WithBaseURL(u string) Option { return func(p *Provider) { p.baseURL = u } }

// WithHTTPClient sets the http client used for every request.
func WithHTTPClient(c *http.Client) Option { return func(p *Provider) { p.client = c } }

// WithDiskCache caches successful responses on disk in dir (the temp dir if empty). Cached
// entries expire with the current period.
func WithDiskCache(period date.Period, dir string) Option {
	return func(p *Provider) {
		base := p.client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client := *p.client
		client.Transport = &diskCache{base: base, period: period, dir: dir, today: func() date.Date { return p.today() }}
		p.client = &client
	}
}

// New returns a Provider using apiKey.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  new(http.Client),
		today:   date.Today,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchPrices returns the daily adjusted close of each ticker over the last 'years' years.
func (p *Provider) FetchPrices(ctx context.Context, tickers []string, years int) (map[string]*date.History[float64], error) {
	r := date.LastYears(years, p.today())
	prices := make(map[string]*date.History[float64], len(tickers))
	for _, ticker := range tickers {
		h, err := p.fetchPrices(ctx, ticker, r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("%w: eodhd prices for %q: %w", folio.ErrFetch, ticker, err)
		}
		prices[ticker] = h
	}
	return prices, nil
}

// FetchMetadata returns the fundamentals of each ticker.
func (p *Provider) FetchMetadata(ctx context.Context, tickers []string) ([]folio.Asset, error) {
	assets := make([]folio.Asset, 0, len(tickers))
	for _, ticker := range tickers {
		a, err := p.fetchFundamentals(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("%w: eodhd fundamentals for %q: %w", folio.ErrFetch, ticker, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

var _ folio.Provider = (*Provider)(nil)
