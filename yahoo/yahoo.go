// Package yahoo provides market data from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// DefaultBaseURL is the chart API root.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Interval is the bar size of the price series.
const Interval = "1wk"

// Provider fetches weekly closes and basic metadata from Yahoo Finance. It implements
// folio.Provider.
//
// Yahoo has no fundamentals in the chart API: assets only carry their name, currency and
// exchange.
type Provider struct {
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

// New returns a Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		client:  new(http.Client),
		today:   date.Today,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchPrices returns the weekly adjusted close of each ticker over the last 'years' years.
func (p *Provider) FetchPrices(ctx context.Context, tickers []string, years int) (map[string]*date.History[float64], error) {
	r := date.LastYears(years, p.today())
	prices := make(map[string]*date.History[float64], len(tickers))
	for _, ticker := range tickers {
		c, err := p.fetchChart(ctx, ticker, r.From, r.To.Add(1), Interval)
		if err != nil {
			return nil, fmt.Errorf("%w: yahoo prices for %q: %w", folio.ErrFetch, ticker, err)
		}
		h, err := c.closes()
		if err != nil {
			return nil, fmt.Errorf("%w: yahoo prices for %q: %w", folio.ErrFetch, ticker, err)
		}
		prices[ticker] = h
	}
	return prices, nil
}

// FetchMetadata returns the name, currency and exchange of each ticker.
func (p *Provider) FetchMetadata(ctx context.Context, tickers []string) ([]folio.Asset, error) {
	assets := make([]folio.Asset, 0, len(tickers))
	to := p.today()
	for _, ticker := range tickers {
		c, err := p.fetchChart(ctx, ticker, to.Add(-7), to.Add(1), "1d")
		if err != nil {
			return nil, fmt.Errorf("%w: yahoo metadata for %q: %w", folio.ErrFetch, ticker, err)
		}
		assets = append(assets, c.asset(ticker))
	}
	return assets, nil
}

var _ folio.Provider = (*Provider)(nil)
