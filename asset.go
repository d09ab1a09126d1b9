package folio

import (
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Field names a metadata column of an Asset.
type Field string

const (
	FieldTicker   Field = "ticker"
	FieldName     Field = "name"
	FieldCurrency Field = "currency"
	FieldMarket   Field = "market"
	FieldSector   Field = "sector"
	FieldExchange Field = "exchange"
)

// Fields lists every metadata column that can be split on.
var Fields = []Field{FieldTicker, FieldName, FieldCurrency, FieldMarket, FieldSector, FieldExchange}

// ParseField returns the Field named s.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !slices.Contains(Fields, f) {
		return "", fmt.Errorf("%w %q, want one of %v", ErrUnknownField, s, Fields)
	}
	return f, nil
}

// Asset holds the static metadata of a tradable asset.
type Asset struct {
	Ticker   string // Unique symbol, as understood by the provider.
	Name     string // Display name.
	Currency string // ISO 4217 code of the prices.
	Market   string // Market or region the asset is exposed to (e.g. "US", "Emerging").
	Sector   string
	Exchange string
	// Sectors is an optional breakdown of a fund over several sectors. When set, it takes
	// precedence over Sector in sector splits.
	Sectors map[string]float64
}

// DisplayName returns the Name, or the Ticker when the name is unknown.
func (a Asset) DisplayName() string {
	if a.Name == "" {
		return a.Ticker
	}
	return a.Name
}

// Field returns the value of the metadata column f.
func (a Asset) Field(f Field) (string, error) {
	switch f {
	case FieldTicker:
		return a.Ticker, nil
	case FieldName:
		return a.Name, nil
	case FieldCurrency:
		return a.Currency, nil
	case FieldMarket:
		return a.Market, nil
	case FieldSector:
		return a.Sector, nil
	case FieldExchange:
		return a.Exchange, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownField, f)
	}
}

// exposure returns how the asset weight is distributed over the values of field f.
// The returned shares sum to 1.
func (a Asset) exposure(f Field) (map[string]float64, error) {
	if f == FieldSector && len(a.Sectors) > 0 {
		return a.Sectors, nil
	}
	v, err := a.Field(f)
	if err != nil {
		return nil, err
	}
	return map[string]float64{v: 1}, nil
}

// Validate checks the asset metadata, and normalizes the sector breakdown.
func (a *Asset) Validate() error {
	if a.Ticker == "" {
		return fmt.Errorf("asset has no ticker")
	}
	if a.Currency != "" {
		if err := ValidateCurrency(a.Currency); err != nil {
			return fmt.Errorf("asset %q: %w", a.Ticker, err)
		}
	}
	if len(a.Sectors) == 0 {
		return nil
	}
	var sum float64
	for sector, share := range a.Sectors {
		if share < 0 || math.IsNaN(share) || math.IsInf(share, 0) {
			return fmt.Errorf("asset %q: invalid share %v for sector %q", a.Ticker, share, sector)
		}
		sum += share
	}
	if sum == 0 {
		// An empty breakdown is no breakdown.
		a.Sectors = nil
		return nil
	}
	sectors := make(map[string]float64, len(a.Sectors))
	for sector, share := range a.Sectors {
		sectors[sector] = share / sum
	}
	a.Sectors = sectors
	return nil
}

// ValidateCurrency checks that code is a known ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: must be 3 uppercase letters, got %q", ErrInvalidCurrency, code)
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidCurrency, code)
	}
	return nil
}

// subunits maps the minor unit codes used by some exchanges to their ISO 4217 currency.
var subunits = map[string]string{
	"GBX": "GBP",
	"GBp": "GBP",
	"ILA": "ILS",
	"ZAc": "ZAR",
	"ZAC": "ZAR",
}

// NormalizeCurrency returns the ISO 4217 code for a currency as reported by a data source:
// minor units (pence, agorot, cents) are mapped to their currency. Prices are never
// converted: scaled prices do not depend on the unit.
func NormalizeCurrency(code string) string {
	code = strings.TrimSpace(code)
	if c, ok := subunits[code]; ok {
		return c
	}
	return strings.ToUpper(code)
}

// clone returns a deep copy of the asset.
func (a Asset) clone() Asset {
	a.Sectors = maps.Clone(a.Sectors)
	return a
}

// Registry holds the metadata of a set of assets, keyed by ticker.
//
// Assets are kept in insertion order, this order is the ticker order used by positional
// weights.
type Registry struct {
	assets []Asset
	index  map[string]int
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		assets: make([]Asset, 0),
		index:  make(map[string]int),
	}
}

// Has reports whether ticker is registered.
func (r *Registry) Has(ticker string) bool {
	_, ok := r.index[ticker]
	return ok
}

// Get returns the asset registered under ticker.
func (r *Registry) Get(ticker string) (Asset, bool) {
	i, ok := r.index[ticker]
	if !ok {
		return Asset{}, false
	}
	return r.assets[i].clone(), true
}

// Len returns the number of assets.
func (r *Registry) Len() int { return len(r.assets) }

// Tickers returns the registered tickers in insertion order.
func (r *Registry) Tickers() []string {
	tickers := make([]string, len(r.assets))
	for i, a := range r.assets {
		tickers[i] = a.Ticker
	}
	return tickers
}

// Assets returns a copy of the registered assets in insertion order.
func (r *Registry) Assets() []Asset {
	assets := make([]Asset, len(r.assets))
	for i, a := range r.assets {
		assets[i] = a.clone()
	}
	return assets
}

// Add registers a new asset.
func (r *Registry) Add(a Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if r.Has(a.Ticker) {
		return fmt.Errorf("%w %q", ErrDuplicateTicker, a.Ticker)
	}
	r.index[a.Ticker] = len(r.assets)
	r.assets = append(r.assets, a.clone())
	return nil
}

// Remove unregisters ticker.
func (r *Registry) Remove(ticker string) error {
	i, ok := r.index[ticker]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownTicker, ticker)
	}
	r.assets = slices.Delete(r.assets, i, i+1)
	delete(r.index, ticker)
	for j := i; j < len(r.assets); j++ {
		r.index[r.assets[j].Ticker] = j
	}
	return nil
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, a := range r.assets {
		c.index[a.Ticker] = len(c.assets)
		c.assets = append(c.assets, a.clone())
	}
	return c
}
