// Package api provides the CoinGecko REST client used to fetch market data.
//
// REST endpoints:
//   - Public: https://api.coingecko.com/api/v3
//   - Pro: https://pro-api.coingecko.com/api/v3
//
// Endpoints used: /coins/markets (listing snapshot), /coins/{id} (asset detail)
package api
