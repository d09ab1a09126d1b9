package folio

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Tolerance is the precision at which weights are compared.
const Tolerance = 1e-9

// Weights is a normalized weight vector: a non-negative weight per ticker, summing to 1.
//
// The zero value is the valid, empty vector of an empty portfolio.
type Weights struct {
	tickers []string
	values  []float64
}

// EqualWeights returns 1/n for each of the n tickers.
func EqualWeights(tickers []string) Weights {
	w := Weights{tickers: slices.Clone(tickers), values: make([]float64, len(tickers))}
	for i := range w.values {
		w.values[i] = 1 / float64(len(tickers))
	}
	return w
}

// Normalize binds raw to tickers, in order, and scales it to sum 1.
//
// A nil raw means an equal split. Otherwise raw must have exactly one value per ticker, the
// i-th value being the weight of the i-th ticker: there is no attempt to guess tickers from
// the values.
func Normalize(raw []float64, tickers []string) (Weights, error) {
	if raw == nil {
		return EqualWeights(tickers), nil
	}
	if len(raw) != len(tickers) {
		return Weights{}, fmt.Errorf("%w: got %d weights for %d tickers", ErrDimensionMismatch, len(raw), len(tickers))
	}
	values, err := normalize(raw)
	if err != nil {
		return Weights{}, err
	}
	return Weights{tickers: slices.Clone(tickers), values: values}, nil
}

// NormalizeNamed is like Normalize but binds the weights by ticker name. raw keys must be
// exactly the tickers.
func NormalizeNamed(raw map[string]float64, tickers []string) (Weights, error) {
	if len(raw) != len(tickers) {
		return Weights{}, fmt.Errorf("%w: got %d weights for %d tickers", ErrDimensionMismatch, len(raw), len(tickers))
	}
	ordered := make([]float64, len(tickers))
	for i, ticker := range tickers {
		v, ok := raw[ticker]
		if !ok {
			// Same size but a different key set: at least one key is foreign.
			for k := range raw {
				if !slices.Contains(tickers, k) {
					return Weights{}, fmt.Errorf("%w %q in weights", ErrUnknownTicker, k)
				}
			}
			return Weights{}, fmt.Errorf("%w: no weight for %q", ErrDimensionMismatch, ticker)
		}
		ordered[i] = v
	}
	return Normalize(ordered, tickers)
}

// normalize divides raw by its sum.
func normalize(raw []float64) ([]float64, error) {
	var sum float64
	for _, v := range raw {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: invalid weight %v", ErrDegenerateWeights, v)
		}
		sum += v
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrDegenerateWeights)
	}
	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = v / sum
	}
	return values, nil
}

// Len returns the number of tickers.
func (w Weights) Len() int { return len(w.tickers) }

// Tickers returns the tickers in order.
func (w Weights) Tickers() []string { return slices.Clone(w.tickers) }

// Of returns the weight of ticker, 0 if unknown.
func (w Weights) Of(ticker string) float64 {
	if i := slices.Index(w.tickers, ticker); i >= 0 {
		return w.values[i]
	}
	return 0
}

// Has reports whether ticker has a weight.
func (w Weights) Has(ticker string) bool { return slices.Contains(w.tickers, ticker) }

// Values returns the weights in ticker order.
func (w Weights) Values() []float64 { return slices.Clone(w.values) }

// All returns an iterator over (ticker, weight) pairs in ticker order.
func (w Weights) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for i, ticker := range w.tickers {
			if !yield(ticker, w.values[i]) {
				return
			}
		}
	}
}

// Sum returns the sum of all weights: 1 for a non empty vector, 0 otherwise.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w.values {
		sum += v
	}
	return sum
}

// Equal reports whether w and x hold exactly the same tickers and weights.
func (w Weights) Equal(x Weights) bool {
	return slices.Equal(w.tickers, x.tickers) && slices.Equal(w.values, x.values)
}

// With returns a copy of w where ticker has been appended and all weights reset to an
// equal split.
func (w Weights) With(ticker string) Weights {
	return EqualWeights(append(slices.Clone(w.tickers), ticker))
}

// Without returns a copy of w without ticker, renormalized.
//
// When the remaining weights sum to zero they fall back to an equal split.
func (w Weights) Without(ticker string) Weights {
	i := slices.Index(w.tickers, ticker)
	if i < 0 {
		return w.clone()
	}
	tickers := slices.Delete(slices.Clone(w.tickers), i, i+1)
	values := slices.Delete(slices.Clone(w.values), i, i+1)
	if len(tickers) == 0 {
		return Weights{}
	}
	normalized, err := normalize(values)
	if err != nil {
		return EqualWeights(tickers)
	}
	return Weights{tickers: tickers, values: normalized}
}

func (w Weights) clone() Weights {
	return Weights{tickers: slices.Clone(w.tickers), values: slices.Clone(w.values)}
}

// check verifies that w is a normalized vector over exactly tickers, in that order.
func (w Weights) check(tickers []string) error {
	if !slices.Equal(w.tickers, tickers) {
		return fmt.Errorf("%w: weights on %v, assets are %v", ErrInconsistentState, w.tickers, tickers)
	}
	if len(tickers) > 0 && math.Abs(w.Sum()-1) > Tolerance {
		return fmt.Errorf("%w: weights sum to %v", ErrInconsistentState, w.Sum())
	}
	return nil
}
