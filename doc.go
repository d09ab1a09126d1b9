// Package folio simulates an investment portfolio: a set of assets, each with a price
// history and some static metadata, combined under a normalized weight vector.
//
// The core functionalities include:
//   - Weights: a non-negative weight per ticker, always summing to 1 after any change.
//   - Prices: every asset price history aligned on a shared calendar, outer-joined
//     and forward-filled, never back-filled.
//   - Analytics: prices rescaled to a common baseline, the combined worth of the
//     weighted portfolio, and the split of the weights by any metadata field
//     (currency, market, sector, exchange).
//   - Persistence: a line oriented JSON encoding that restores a portfolio exactly.
//
// Market data is not fetched by this package. A Provider (see the eodhd and yahoo
// packages) is called when a portfolio is created, when an asset is added, or when the
// horizon changes.
//
// A Portfolio is not safe for concurrent use, callers serialize access.
package folio
