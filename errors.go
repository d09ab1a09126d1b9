package folio

import "errors"

// Errors reported by the portfolio operations. They are wrapped with context, use errors.Is
// to test for them.
var (
	// ErrFetch reports that the data source was unreachable or did not know a ticker.
	ErrFetch = errors.New("fetch error")
	// ErrDimensionMismatch reports a weight list whose length differs from the ticker count.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrDegenerateWeights reports weights that cannot be normalized (zero sum, negative or NaN).
	ErrDegenerateWeights = errors.New("degenerate weights")
	// ErrNoData reports a ticker without any usable price observation.
	ErrNoData = errors.New("no data")
	// ErrInconsistentState reports a broken invariant between registry, prices and weights.
	ErrInconsistentState = errors.New("inconsistent state")
	ErrUnknownTicker     = errors.New("unknown ticker")
	ErrDuplicateTicker   = errors.New("duplicate ticker")
	ErrUnknownField      = errors.New("unknown field")
	// ErrEmptyPortfolio reports an analytics request on a portfolio without assets.
	ErrEmptyPortfolio  = errors.New("empty portfolio")
	ErrInvalidHorizon  = errors.New("invalid horizon")
	ErrInvalidCurrency = errors.New("invalid currency")
)
