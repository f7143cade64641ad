package api

import (
	"slices"
	"time"

	"github.com/rickgao/coinwatch/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp to microseconds since epoch.
// Returns 0 for empty or invalid input.
func ParseTimestamp(iso string) int64 {
	if iso == "" {
		return 0
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return 0
		}
	}

	return t.UnixMicro()
}

// ToModel converts an APICoinMarket to model.Asset.
func (m *APICoinMarket) ToModel() model.Asset {
	a := model.Asset{
		ID:                m.ID,
		Symbol:            m.Symbol,
		Name:              m.Name,
		ImageURL:          m.Image,
		MarketCapRank:     m.MarketCapRank,
		CurrentPrice:      m.CurrentPrice,
		MarketCap:         m.MarketCap,
		TotalVolume:       m.TotalVolume,
		High24h:           m.High24h,
		Low24h:            m.Low24h,
		ATH:               m.ATH,
		ATL:               m.ATL,
		PriceChangePct24h: m.PriceChangePercentage24h,
		PriceChangePct7d:  m.PriceChangePercentage7d,
		UpdatedAt:         ParseTimestamp(m.LastUpdated),
	}
	if m.SparklineIn7d != nil {
		a.Sparkline7d = slices.Clone(m.SparklineIn7d.Price)
	}
	return a
}
