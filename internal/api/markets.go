package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rickgao/coinwatch/internal/model"
)

// GetMarkets fetches one page of the market listing.
func (c *Client) GetMarkets(ctx context.Context, opts MarketsOptions) ([]APICoinMarket, error) {
	query := marketsQuery(opts)

	var resp []APICoinMarket
	if err := c.get(ctx, "/coins/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	return resp, nil
}

// FetchAssets fetches one page of the market listing as model assets,
// preserving the provider's ordering.
func (c *Client) FetchAssets(ctx context.Context, opts MarketsOptions) ([]model.Asset, error) {
	markets, err := c.GetMarkets(ctx, opts)
	if err != nil {
		return nil, err
	}

	assets := make([]model.Asset, 0, len(markets))
	for i := range markets {
		if markets[i].ID == "" {
			continue
		}
		assets = append(assets, markets[i].ToModel())
	}
	return assets, nil
}

func marketsQuery(opts MarketsOptions) url.Values {
	if opts.VsCurrency == "" {
		opts.VsCurrency = DefaultVsCurrency
	}
	if opts.Order == "" {
		opts.Order = DefaultOrder
	}
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	query := url.Values{}
	query.Set("vs_currency", opts.VsCurrency)
	query.Set("order", opts.Order)
	query.Set("per_page", strconv.Itoa(opts.PerPage))
	query.Set("page", strconv.Itoa(opts.Page))
	query.Set("sparkline", strconv.FormatBool(opts.Sparkline))
	query.Set("price_change_percentage", PriceChangeWindow)
	if len(opts.IDs) > 0 {
		query.Set("ids", strings.Join(opts.IDs, ","))
	}
	return query
}
