package folio

import (
	"context"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	d1 = date.New(2024, 1, 2)
	d2 = date.New(2024, 1, 3)
	d3 = date.New(2024, 1, 4)
)

// approx compares floats up to rounding errors, NaN being equal to NaN.
var approx = cmp.Options{cmpopts.EquateApprox(0, 1e-12), cmpopts.EquateNaNs()}

var (
	assetA = Asset{Ticker: "A", Name: "Alpha", Currency: "USD", Market: "US", Sector: "Technology"}
	assetB = Asset{Ticker: "B", Name: "Beta", Currency: "EUR", Market: "Europe", Sector: "Health"}
	assetC = Asset{Ticker: "C", Name: "Gamma", Currency: "USD", Market: "US", Sector: "Energy"}
	assetD = Asset{Ticker: "D", Name: "World Fund", Currency: "EUR", Market: "World",
		Sectors: map[string]float64{"Technology": 3, "Energy": 1}}
)

// series builds a price history out of days and values, in order.
func series(days []date.Date, values ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, v := range values {
		h.Append(days[i], v)
	}
	return h
}

// testProvider serves A=[10,20,30] and B=[100,100,50] on d1..d3, C=[50,25] on d2..d3 and
// D=[10,11,12] on d1..d3.
func testProvider() *StaticProvider {
	s := NewStaticProvider()
	all := []date.Date{d1, d2, d3}
	s.Set(assetA, series(all, 10, 20, 30))
	s.Set(assetB, series(all, 100, 100, 50))
	s.Set(assetC, series(all[1:], 50, 25))
	s.Set(assetD, series(all, 10, 11, 12))
	return s
}

// newTestPortfolio returns a portfolio on tickers served by testProvider.
func newTestPortfolio(t *testing.T, tickers []string, weights []float64, opts ...Option) *Portfolio {
	t.Helper()
	p, err := New(context.Background(), testProvider(), tickers, 10, weights, opts...)
	if err != nil {
		t.Fatalf("New(%v) error = %v", tickers, err)
	}
	return p
}

// assertUnchanged fails if p and before differ in any observable way.
func assertUnchanged(t *testing.T, p, before *Portfolio) {
	t.Helper()
	if !p.Weights().Equal(before.Weights()) {
		t.Errorf("weights changed: got %v, want %v", p.Weights().Values(), before.Weights().Values())
	}
	if !p.Prices().Equal(before.Prices()) {
		t.Errorf("prices changed")
	}
	if diff := cmp.Diff(before.Assets(), p.Assets()); diff != "" {
		t.Errorf("assets changed (-want +got):\n%s", diff)
	}
	if p.Horizon() != before.Horizon() {
		t.Errorf("horizon changed: got %d, want %d", p.Horizon(), before.Horizon())
	}
}
