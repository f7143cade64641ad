package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultIcon is the glyph given to watchlists created without one.
const DefaultIcon = "📈"

// -----------------------------------------------------------------------------
// Market Data Types
// -----------------------------------------------------------------------------

// Asset is a tradable cryptocurrency as reported by the market-data provider.
// Assets are read-only: coinwatch stores and compares asset IDs, never content.
type Asset struct {
	ID            string          // Provider ID (e.g., "bitcoin")
	Symbol        string          // Ticker symbol (e.g., "btc")
	Name          string          // Display name
	ImageURL      string          // Logo URL
	MarketCapRank int             // 1 = largest
	CurrentPrice  decimal.Decimal // Last price (USD)
	MarketCap     decimal.Decimal // Market capitalization (USD)
	TotalVolume   decimal.Decimal // 24h traded volume (USD)
	High24h       decimal.Decimal // 24h high (USD)
	Low24h        decimal.Decimal // 24h low (USD)
	ATH           decimal.Decimal // All-time high (USD)
	ATL           decimal.Decimal // All-time low (USD)

	PriceChangePct24h float64 // 24h change, percent
	PriceChangePct7d  float64 // 7d change, percent (0 if not requested)

	Sparkline7d []float64 // Hourly prices over 7 days, oldest first
	UpdatedAt   int64     // Provider last update (µs since epoch)
}

// AssetDetail is the extended view of a single asset.
type AssetDetail struct {
	ID                string
	Symbol            string
	Name              string
	Description       string
	Homepage          string
	GenesisDate       string
	MarketCapRank     int
	CurrentPrice      decimal.Decimal
	MarketCap         decimal.Decimal
	ATH               decimal.Decimal
	ATL               decimal.Decimal
	PriceChangePct24h float64
	PriceChangePct7d  float64
}

// Snapshot is one complete market listing, in provider order.
type Snapshot struct {
	Assets    []Asset
	FetchedAt time.Time
}

// -----------------------------------------------------------------------------
// Watchlist Types
// -----------------------------------------------------------------------------

// Watchlist is a user-created, named collection of asset IDs.
// Members keep insertion order (display order) and never repeat.
type Watchlist struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`
	Members []string `json:"members"`
}

// Has reports whether assetID is a member.
func (w Watchlist) Has(assetID string) bool {
	return slices.Contains(w.Members, assetID)
}

// Clone returns a copy that shares no memory with w.
func (w Watchlist) Clone() Watchlist {
	c := w
	c.Members = slices.Clone(w.Members)
	if c.Members == nil {
		c.Members = []string{}
	}
	return c
}
