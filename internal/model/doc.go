// Package model defines shared data types used across coinwatch.
//
// Conventions:
//   - Monetary values: decimal.Decimal in the quote currency (USD)
//   - Percentages: float64 percent points (2.5 = +2.5%)
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: provider-assigned strings for assets, UUID strings for watchlists
package model
