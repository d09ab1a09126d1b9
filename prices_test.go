package folio

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
)

func TestAlign(t *testing.T) {
	d4 := d3.Add(1)
	raw := map[string]*date.History[float64]{
		"A": series([]date.Date{d1, d3}, 10, 30),
		"B": series([]date.Date{d2, d4}, 100, 50),
	}
	p, err := Align(raw, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if diff := cmp.Diff([]date.Date{d1, d2, d3, d4}, p.Days()); diff != "" {
		t.Errorf("Days() (-want +got):\n%s", diff)
	}

	testCases := []struct {
		ticker   string
		want     []float64
		observed []bool
	}{
		{"A", []float64{10, 10, 30, 30}, []bool{true, false, true, false}},
		{"B", []float64{100, 100, 100, 50}, []bool{false, true, false, true}},
	}
	for _, tc := range testCases {
		t.Run(tc.ticker, func(t *testing.T) {
			got, ok := p.Column(tc.ticker)
			if !ok {
				t.Fatalf("Column(%s) not found", tc.ticker)
			}
			if diff := cmp.Diff(tc.want, got, approx); diff != "" {
				t.Errorf("Column(%s) (-want +got):\n%s", tc.ticker, diff)
			}
			observed, _ := p.Observed(tc.ticker)
			if diff := cmp.Diff(tc.observed, observed); diff != "" {
				t.Errorf("Observed(%s) (-want +got):\n%s", tc.ticker, diff)
			}
		})
	}
	if err := p.check(); err != nil {
		t.Errorf("check() error = %v", err)
	}
}

func TestAlignErrors(t *testing.T) {
	raw := map[string]*date.History[float64]{
		"A":   series([]date.Date{d1}, 10),
		"NaN": series([]date.Date{d1}, math.NaN()),
	}
	if _, err := Align(raw, []string{"A", "X"}); !errors.Is(err, ErrNoData) {
		t.Errorf("Align(X) error = %v, want %v", err, ErrNoData)
	}
	if _, err := Align(raw, []string{"A", "NaN"}); !errors.Is(err, ErrNoData) {
		t.Errorf("Align(NaN) error = %v, want %v", err, ErrNoData)
	}
}

func TestPricesWithWithout(t *testing.T) {
	p, err := Align(map[string]*date.History[float64]{"A": series([]date.Date{d1, d3}, 10, 30)}, []string{"A"})
	if err != nil {
		t.Fatal(err)
	}
	with, err := p.With("B", series([]date.Date{d2}, 5))
	if err != nil {
		t.Fatalf("With(B) error = %v", err)
	}
	if diff := cmp.Diff([]date.Date{d1, d2, d3}, with.Days()); diff != "" {
		t.Errorf("With(B) days (-want +got):\n%s", diff)
	}
	if _, err := with.With("B", series([]date.Date{d2}, 5)); !errors.Is(err, ErrDuplicateTicker) {
		t.Errorf("With(B) twice error = %v, want %v", err, ErrDuplicateTicker)
	}

	without, err := with.Without("B")
	if err != nil {
		t.Fatalf("Without(B) error = %v", err)
	}
	if !without.Equal(p) {
		t.Errorf("With(B).Without(B) = %v, want %v", without.Table(), p.Table())
	}
	if _, err := p.Without("B"); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("Without(B) error = %v, want %v", err, ErrUnknownTicker)
	}
	// p is untouched.
	if p.Len() != 2 {
		t.Errorf("p has %d days, want 2", p.Len())
	}
}

func TestScale(t *testing.T) {
	p, err := Align(map[string]*date.History[float64]{
		"A": series([]date.Date{d1, d2, d3}, 4, 2, 8),
		"B": series([]date.Date{d2, d3}, 10, 15),
	}, []string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float64{{10, 5, 20}, {10, 10, 15}}
	if diff := cmp.Diff(want, p.Scale(10).Values, approx); diff != "" {
		t.Errorf("Scale(10) (-want +got):\n%s", diff)
	}
	// Scale works on a copy.
	if col, _ := p.Column("A"); col[0] != 4 {
		t.Errorf("Scale() modified the prices: %v", col)
	}
}
