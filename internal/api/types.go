package api

import "github.com/shopspring/decimal"

// APICoinMarket is one entry of GET /coins/markets.
// Numeric fields may be null upstream; null decodes to zero.
type APICoinMarket struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	MarketCapRank int    `json:"market_cap_rank"`

	// Prices and sizes in the quote currency
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketCap    decimal.Decimal `json:"market_cap"`
	TotalVolume  decimal.Decimal `json:"total_volume"`
	High24h      decimal.Decimal `json:"high_24h"`
	Low24h       decimal.Decimal `json:"low_24h"`
	ATH          decimal.Decimal `json:"ath"`
	ATL          decimal.Decimal `json:"atl"`

	// Percent changes
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64 `json:"price_change_percentage_7d_in_currency"`

	SparklineIn7d *APISparkline `json:"sparkline_in_7d,omitempty"`

	// Timestamp (ISO 8601)
	LastUpdated string `json:"last_updated"`
}

// APISparkline holds 7 days of hourly prices.
type APISparkline struct {
	Price []float64 `json:"price"`
}

// MarketsOptions configures a GetMarkets request.
type MarketsOptions struct {
	VsCurrency string // Quote currency (default: usd)
	Order      string // Sort order (default: market_cap_desc)
	PerPage    int    // Page size (default: 100)
	Page       int    // 1-based page (default: 1)
	Sparkline  bool   // Include 7d sparkline
	IDs        []string
}

// Default request values for /coins/markets.
const (
	DefaultVsCurrency = "usd"
	DefaultOrder      = "market_cap_desc"
	DefaultPerPage    = 100
	PriceChangeWindow = "7d"
)
