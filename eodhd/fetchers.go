package eodhd

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// fetchPrices returns the daily adjusted close prices for a given EODHD ticker.
// The EODHD ticker format is typically "SYMBOL.EXCHANGECODE".
func (p *Provider) fetchPrices(ctx context.Context, ticker string, from, to date.Date) (*date.History[float64], error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", p.baseURL, url.PathEscape(ticker), url.QueryEscape(p.apiKey), from, to)
	type Info struct {
		Date          date.Date        `json:"date"`
		Close         decimal.Decimal  `json:"close"`
		AdjustedClose *decimal.Decimal `json:"adjusted_close"`
	}

	content := make([]Info, 0)
	if err := getJSON(ctx, p.client, addr, &content); err != nil {
		return nil, err
	}

	prices := new(date.History[float64])
	for _, info := range content {
		// adjusted prices account for splits and dividends, this is the total return.
		price := info.Close
		if info.AdjustedClose != nil && info.AdjustedClose.IsPositive() {
			price = *info.AdjustedClose
		}
		prices.Append(info.Date, price.InexactFloat64())
	}
	return prices, nil
}

// fetchFundamentals returns the asset metadata for a given EODHD ticker.
func (p *Provider) fetchFundamentals(ctx context.Context, ticker string) (folio.Asset, error) {
	// https://eodhd.com/api/fundamentals/AAPL.US?api_token=demo&fmt=json
	// {
	//   "General": {
	//     "Code": "AAPL",
	//     "Type": "Common Stock",
	//     "Name": "Apple Inc",
	//     "Exchange": "NASDAQ",
	//     "CurrencyCode": "USD",
	//     "CountryName": "USA",
	//     "Sector": "Technology",
	//     ...
	//   },
	//   "ETF_Data": {
	//     "Sector_Weights": {
	//       "Technology": {"Equity_%": "23.54", "Relative_to_Category": "21.88"},
	//     ...
	addr := fmt.Sprintf("%s/fundamentals/%s?fmt=json&api_token=%s", p.baseURL, url.PathEscape(ticker), url.QueryEscape(p.apiKey))

	var content any
	if err := getJSON(ctx, p.client, addr, &content); err != nil {
		return folio.Asset{}, err
	}
	if _, err := jsonpath.Get("$.General", content); err != nil {
		return folio.Asset{}, fmt.Errorf("no fundamentals for %q: %w", ticker, err)
	}

	a := folio.Asset{
		Ticker:   ticker,
		Name:     lookup(content, "$.General.Name"),
		Market:   lookup(content, "$.General.CountryName"),
		Sector:   lookup(content, "$.General.Sector"),
		Exchange: lookup(content, "$.General.Exchange"),
		Sectors:  sectorWeights(content),
	}
	if c := folio.NormalizeCurrency(lookup(content, "$.General.CurrencyCode")); c != "" {
		if err := folio.ValidateCurrency(c); err != nil {
			log.Printf("ignored currency of %q: %v", ticker, err)
		} else {
			a.Currency = c
		}
	}
	return a, nil
}

// lookup returns the string at path in content, or "" if there is none.
func lookup(content any, path string) string {
	v, err := jsonpath.Get(path, content)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// sectorWeights returns the fund sector breakdown, if any. Weights are percentages, they
// are normalized when the asset is registered.
func sectorWeights(content any) map[string]float64 {
	v, err := jsonpath.Get("$.ETF_Data.Sector_Weights", content)
	if err != nil {
		return nil
	}
	sectors, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	weights := make(map[string]float64)
	for sector, entry := range sectors {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		share, ok := fields["Equity_%"]
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(fmt.Sprint(share))
		if err != nil || !d.IsPositive() {
			continue
		}
		weights[sector] = d.InexactFloat64()
	}
	if len(weights) == 0 {
		return nil
	}
	return weights
}

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code          string  `json:"Code"`
	Exchange      string  `json:"Exchange"`
	Name          string  `json:"Name"`
	Type          string  `json:"Type"`
	Country       string  `json:"Country"`
	Currency      string  `json:"Currency"`
	ISIN          string  `json:"ISIN"`
	PreviousClose float64 `json:"previousClose"`
}

// Ticker returns the EODHD ticker of the result, as expected by the Provider.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for assets by name, ticker or ISIN.
func (p *Provider) Search(ctx context.Context, query string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?fmt=json&api_token=%s", p.baseURL, url.PathEscape(query), url.QueryEscape(p.apiKey))
	var results []SearchResult
	if err := getJSON(ctx, p.client, addr, &results); err != nil {
		return nil, err
	}
	return results, nil
}
