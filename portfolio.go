package folio

import (
	"context"
	"fmt"
	"math"
	"slices"
)

// DuplicatePolicy tells what Add does with a ticker already in the portfolio.
type DuplicatePolicy int

const (
	// RejectDuplicates makes Add fail with ErrDuplicateTicker.
	RejectDuplicates DuplicatePolicy = iota
	// IgnoreDuplicates makes Add a successful no-op.
	IgnoreDuplicates
)

func (d DuplicatePolicy) String() string {
	switch d {
	case RejectDuplicates:
		return "reject"
	case IgnoreDuplicates:
		return "ignore"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(d))
	}
}

// ParseDuplicatePolicy returns the policy named s, as returned by String.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "reject", "":
		return RejectDuplicates, nil
	case "ignore":
		return IgnoreDuplicates, nil
	default:
		return 0, fmt.Errorf("unknown duplicate policy %q, want reject or ignore", s)
	}
}

// Options configures a Portfolio.
type Options struct {
	// Baseline is the value every scaled price starts at. Defaults to 1.
	Baseline   float64
	Duplicates DuplicatePolicy
}

// Option modifies Options.
type Option func(*Options)

// WithBaseline sets the value scaled prices and the combined worth start at.
func WithBaseline(baseline float64) Option { return func(o *Options) { o.Baseline = baseline } }

// WithDuplicates sets the duplicate ticker policy of Add.
func WithDuplicates(policy DuplicatePolicy) Option {
	return func(o *Options) { o.Duplicates = policy }
}

func newOptions(opts []Option) (Options, error) {
	o := Options{Baseline: 1, Duplicates: RejectDuplicates}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.Baseline > 0) || math.IsInf(o.Baseline, 0) {
		return o, fmt.Errorf("invalid baseline %v: must be a positive number", o.Baseline)
	}
	return o, nil
}

// Portfolio is a set of assets, their aligned prices and their weights, over a horizon of
// some years.
//
// Every mutation either succeeds, leaving assets, prices and weights on the same set of
// tickers with weights summing to 1, or fails and leaves the portfolio untouched.
type Portfolio struct {
	provider Provider
	opts     Options
	horizon  int
	assets   *Registry
	prices   *Prices
	weights  Weights
}

// New creates a portfolio of tickers over the last 'horizon' years, fetching its market
// data from provider.
//
// weights are bound to tickers in order, nil means an equal split.
func New(ctx context.Context, provider Provider, tickers []string, horizon int, weights []float64, opts ...Option) (*Portfolio, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if horizon < 1 {
		return nil, fmt.Errorf("%w: %d years, want at least 1", ErrInvalidHorizon, horizon)
	}
	for i, ticker := range tickers {
		if slices.Contains(tickers[:i], ticker) {
			return nil, fmt.Errorf("%w %q", ErrDuplicateTicker, ticker)
		}
	}
	w, err := Normalize(weights, tickers)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{
		provider: provider,
		opts:     o,
		horizon:  horizon,
		assets:   NewRegistry(),
		prices:   &Prices{},
		weights:  w,
	}
	if len(tickers) == 0 {
		return p, nil
	}

	assets, raw, err := fetch(ctx, provider, tickers, horizon, true)
	if err != nil {
		return nil, err
	}
	for _, ticker := range tickers {
		if err := p.assets.Add(assets[ticker]); err != nil {
			return nil, err
		}
	}
	if p.prices, err = Align(raw, tickers); err != nil {
		return nil, err
	}
	return p, nil
}

// Add fetches ticker's metadata and prices and adds it to the portfolio.
//
// weights, if any, are the weights of the whole new set of tickers: the current ones in
// order, then ticker. Without weights the new set is equally weighted.
// Adding a ticker already present follows the DuplicatePolicy.
func (p *Portfolio) Add(ctx context.Context, ticker string, weights ...float64) error {
	if p.assets.Has(ticker) {
		if p.opts.Duplicates == IgnoreDuplicates {
			return nil
		}
		return fmt.Errorf("%w %q", ErrDuplicateTicker, ticker)
	}
	tickers := append(p.assets.Tickers(), ticker)
	w := p.weights.With(ticker)
	if len(weights) > 0 {
		var err error
		if w, err = Normalize(weights, tickers); err != nil {
			return err
		}
	}

	assets, raw, err := fetch(ctx, p.provider, []string{ticker}, p.horizon, true)
	if err != nil {
		return err
	}
	registry := p.assets.Clone()
	if err := registry.Add(assets[ticker]); err != nil {
		return err
	}
	prices, err := p.prices.With(ticker, raw[ticker])
	if err != nil {
		return err
	}
	p.assets, p.prices, p.weights = registry, prices, w
	return nil
}

// Remove removes ticker from the portfolio and renormalizes the remaining weights.
//
// Removing the last ticker leaves an empty portfolio.
func (p *Portfolio) Remove(ticker string) error {
	registry := p.assets.Clone()
	if err := registry.Remove(ticker); err != nil {
		return err
	}
	prices, err := p.prices.Without(ticker)
	if err != nil {
		return err
	}
	p.assets, p.prices, p.weights = registry, prices, p.weights.Without(ticker)
	return nil
}

// Reweight sets the weights of the tickers, bound in order. nil means an equal split.
func (p *Portfolio) Reweight(weights []float64) error {
	w, err := Normalize(weights, p.assets.Tickers())
	if err != nil {
		return err
	}
	p.weights = w
	return nil
}

// ReweightNamed sets the weights by ticker. Every ticker must have a weight.
func (p *Portfolio) ReweightNamed(weights map[string]float64) error {
	w, err := NormalizeNamed(weights, p.assets.Tickers())
	if err != nil {
		return err
	}
	p.weights = w
	return nil
}

// Rehorizon fetches again the prices of all tickers over the last 'years' years.
// Metadata and weights are kept.
func (p *Portfolio) Rehorizon(ctx context.Context, years int) error {
	if years < 1 {
		return fmt.Errorf("%w: %d years, want at least 1", ErrInvalidHorizon, years)
	}
	tickers := p.assets.Tickers()
	if len(tickers) == 0 {
		p.horizon = years
		return nil
	}
	_, raw, err := fetch(ctx, p.provider, tickers, years, false)
	if err != nil {
		return err
	}
	prices, err := Align(raw, tickers)
	if err != nil {
		return err
	}
	p.horizon, p.prices = years, prices
	return nil
}

// SetProvider sets the market data provider, typically after Decode.
func (p *Portfolio) SetProvider(provider Provider) { p.provider = provider }

// Horizon returns the number of years of price history.
func (p *Portfolio) Horizon() int { return p.horizon }

// Options returns the portfolio options.
func (p *Portfolio) Options() Options { return p.opts }

// Len returns the number of assets.
func (p *Portfolio) Len() int { return p.assets.Len() }

// Tickers returns the tickers, in order.
func (p *Portfolio) Tickers() []string { return p.assets.Tickers() }

// Assets returns the assets metadata, in ticker order.
func (p *Portfolio) Assets() []Asset { return p.assets.Assets() }

// Asset returns the metadata of ticker.
func (p *Portfolio) Asset(ticker string) (Asset, bool) { return p.assets.Get(ticker) }

// Weights returns the weights.
func (p *Portfolio) Weights() Weights { return p.weights.clone() }

// Prices returns a copy of the aligned prices.
func (p *Portfolio) Prices() *Prices { return p.prices.Clone() }

// Clone returns a deep copy of p, sharing only the provider.
func (p *Portfolio) Clone() *Portfolio {
	return &Portfolio{
		provider: p.provider,
		opts:     p.opts,
		horizon:  p.horizon,
		assets:   p.assets.Clone(),
		prices:   p.prices.Clone(),
		weights:  p.weights.clone(),
	}
}

// Check verifies that assets, prices and weights are consistent.
func (p *Portfolio) Check() error {
	tickers := p.assets.Tickers()
	if !slices.Equal(p.prices.tickers, tickers) {
		return fmt.Errorf("%w: prices on %v, assets are %v", ErrInconsistentState, p.prices.tickers, tickers)
	}
	if err := p.prices.check(); err != nil {
		return err
	}
	return p.weights.check(tickers)
}
