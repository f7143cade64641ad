package server

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/coinwatch/internal/listing"
	"github.com/rickgao/coinwatch/internal/market"
	"github.com/rickgao/coinwatch/internal/model"
)

type assetJSON struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	ImageURL          string          `json:"image,omitempty"`
	MarketCapRank     int             `json:"market_cap_rank,omitempty"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	TotalVolume       decimal.Decimal `json:"total_volume"`
	High24h           decimal.Decimal `json:"high_24h"`
	Low24h            decimal.Decimal `json:"low_24h"`
	ATH               decimal.Decimal `json:"ath"`
	ATL               decimal.Decimal `json:"atl"`
	PriceChangePct24h float64         `json:"price_change_percentage_24h"`
	PriceChangePct7d  float64         `json:"price_change_percentage_7d"`
	Sparkline7d       []float64       `json:"sparkline_7d,omitempty"`
}

type rowJSON struct {
	assetJSON
	Missing    bool     `json:"missing,omitempty"`
	Watchlists []string `json:"watchlists"`
}

type listingJSON struct {
	UpdatedAt *time.Time       `json:"updated_at"`
	Watchlist *model.Watchlist `json:"watchlist,omitempty"`
	Rows      []rowJSON        `json:"rows"`
}

type detailJSON struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Homepage          string          `json:"homepage,omitempty"`
	GenesisDate       string          `json:"genesis_date,omitempty"`
	MarketCapRank     int             `json:"market_cap_rank,omitempty"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	ATH               decimal.Decimal `json:"ath"`
	ATL               decimal.Decimal `json:"atl"`
	PriceChangePct24h float64         `json:"price_change_percentage_24h"`
	PriceChangePct7d  float64         `json:"price_change_percentage_7d"`
	Watchlists        []string        `json:"watchlists"`
}

// mutationJSON answers every watchlist command. Warning is set when the
// change applied but could not be persisted.
type mutationJSON struct {
	ID        string           `json:"id,omitempty"`
	Watchlist *model.Watchlist `json:"watchlist,omitempty"`
	Member    *bool            `json:"member,omitempty"`
	Warning   string           `json:"warning,omitempty"`
}

type snapshotEventJSON struct {
	FetchedAt time.Time `json:"fetched_at"`
	Total     int       `json:"total"`
	Added     []string  `json:"added,omitempty"`
	Removed   []string  `json:"removed,omitempty"`
}

func toAssetJSON(a model.Asset) assetJSON {
	return assetJSON{
		ID:                a.ID,
		Symbol:            a.Symbol,
		Name:              a.Name,
		ImageURL:          a.ImageURL,
		MarketCapRank:     a.MarketCapRank,
		CurrentPrice:      a.CurrentPrice,
		MarketCap:         a.MarketCap,
		TotalVolume:       a.TotalVolume,
		High24h:           a.High24h,
		Low24h:            a.Low24h,
		ATH:               a.ATH,
		ATL:               a.ATL,
		PriceChangePct24h: a.PriceChangePct24h,
		PriceChangePct7d:  a.PriceChangePct7d,
		Sparkline7d:       a.Sparkline7d,
	}
}

func toListingJSON(res listing.Result, updatedAt time.Time) listingJSON {
	out := listingJSON{
		Watchlist: res.Watchlist,
		Rows:      make([]rowJSON, len(res.Rows)),
	}
	if !updatedAt.IsZero() {
		out.UpdatedAt = &updatedAt
	}
	for i, r := range res.Rows {
		lists := r.Watchlists
		if lists == nil {
			lists = []string{}
		}
		out.Rows[i] = rowJSON{
			assetJSON:  toAssetJSON(r.Asset),
			Missing:    r.Missing,
			Watchlists: lists,
		}
	}
	return out
}

func toDetailJSON(d *model.AssetDetail, lists []string) detailJSON {
	if lists == nil {
		lists = []string{}
	}
	return detailJSON{
		ID:                d.ID,
		Symbol:            d.Symbol,
		Name:              d.Name,
		Description:       d.Description,
		Homepage:          d.Homepage,
		GenesisDate:       d.GenesisDate,
		MarketCapRank:     d.MarketCapRank,
		CurrentPrice:      d.CurrentPrice,
		MarketCap:         d.MarketCap,
		ATH:               d.ATH,
		ATL:               d.ATL,
		PriceChangePct24h: d.PriceChangePct24h,
		PriceChangePct7d:  d.PriceChangePct7d,
		Watchlists:        lists,
	}
}

func toSnapshotEvent(c market.Change) snapshotEventJSON {
	return snapshotEventJSON{
		FetchedAt: c.FetchedAt,
		Total:     c.Total,
		Added:     c.Added,
		Removed:   c.Removed,
	}
}
