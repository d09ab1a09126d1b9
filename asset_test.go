package folio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateCurrency(t *testing.T) {
	testCases := []struct {
		code    string
		wantErr bool
	}{
		{"USD", false},
		{"EUR", false},
		{"GBP", false},
		{"usd", true},
		{"US", true},
		{"XYZ", true},
		{"", true},
	}
	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			err := ValidateCurrency(tc.code)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateCurrency(%q) error = %v, wantErr %v", tc.code, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCurrency) {
				t.Errorf("ValidateCurrency(%q) error = %v, want %v", tc.code, err, ErrInvalidCurrency)
			}
		})
	}
}

func TestAssetValidate(t *testing.T) {
	a := Asset{Ticker: "D", Currency: "EUR", Sectors: map[string]float64{"Tech": 2, "Energy": 2}}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if diff := cmp.Diff(map[string]float64{"Tech": 0.5, "Energy": 0.5}, a.Sectors); diff != "" {
		t.Errorf("Validate() sectors (-want +got):\n%s", diff)
	}

	zero := Asset{Ticker: "Z", Sectors: map[string]float64{"Tech": 0}}
	if err := zero.Validate(); err != nil || zero.Sectors != nil {
		t.Errorf("Validate() of a zero breakdown = %v, %v", zero.Sectors, err)
	}

	for _, bad := range []Asset{
		{},
		{Ticker: "A", Currency: "eur"},
		{Ticker: "A", Sectors: map[string]float64{"Tech": -1, "Energy": 2}},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("Validate(%+v) succeeded, want error", bad)
		}
	}
}

func TestAssetField(t *testing.T) {
	for _, f := range Fields {
		if _, err := assetA.Field(f); err != nil {
			t.Errorf("Field(%s) error = %v", f, err)
		}
	}
	if got, _ := assetA.Field(FieldMarket); got != "US" {
		t.Errorf("Field(market) = %q, want US", got)
	}
	if _, err := ParseField("color"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ParseField(color) error = %v, want %v", err, ErrUnknownField)
	}
	if (Asset{Ticker: "X"}).DisplayName() != "X" {
		t.Errorf("DisplayName() without name is not the ticker")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, a := range []Asset{assetA, assetB, assetC} {
		if err := r.Add(a); err != nil {
			t.Fatalf("Add(%s) error = %v", a.Ticker, err)
		}
	}
	if err := r.Add(assetA); !errors.Is(err, ErrDuplicateTicker) {
		t.Errorf("Add(A) twice error = %v, want %v", err, ErrDuplicateTicker)
	}
	clone := r.Clone()
	if err := r.Remove("A"); err != nil {
		t.Fatalf("Remove(A) error = %v", err)
	}
	if diff := cmp.Diff([]string{"B", "C"}, r.Tickers()); diff != "" {
		t.Errorf("Tickers() (-want +got):\n%s", diff)
	}
	if got, ok := r.Get("C"); !ok || got.Name != "Gamma" {
		t.Errorf("Get(C) = %v, %v after Remove(A)", got, ok)
	}
	if clone.Len() != 3 {
		t.Errorf("clone has %d assets, want 3", clone.Len())
	}
	if err := r.Remove("A"); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("Remove(A) twice error = %v, want %v", err, ErrUnknownTicker)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	testCases := map[string]string{
		"USD": "USD",
		"eur": "EUR",
		"GBp": "GBP",
		"GBX": "GBP",
		"ILA": "ILS",
		"ZAc": "ZAR",
		" chf ": "CHF",
	}
	for in, want := range testCases {
		if got := NormalizeCurrency(in); got != want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", in, got, want)
		}
	}
}
