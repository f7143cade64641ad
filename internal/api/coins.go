package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/rickgao/coinwatch/internal/model"
)

// Paths into the /coins/{id} document. The quote currency is always USD.
const (
	pathID           = "$.id"
	pathSymbol       = "$.symbol"
	pathName         = "$.name"
	pathDescription  = "$.description.en"
	pathHomepage     = "$.links.homepage[0]"
	pathGenesisDate  = "$.genesis_date"
	pathRank         = "$.market_cap_rank"
	pathCurrentPrice = "$.market_data.current_price.usd"
	pathMarketCap    = "$.market_data.market_cap.usd"
	pathATH          = "$.market_data.ath.usd"
	pathATL          = "$.market_data.atl.usd"
	pathChange24h    = "$.market_data.price_change_percentage_24h"
	pathChange7d     = "$.market_data.price_change_percentage_7d"
)

// GetCoin fetches the detail document of a single asset.
func (c *Client) GetCoin(ctx context.Context, id string) (*model.AssetDetail, error) {
	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("market_data", "true")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")

	body, err := c.doWithRetry(ctx, http.MethodGet, "/coins/"+url.PathEscape(id), query)
	if err != nil {
		return nil, fmt.Errorf("get coin %s: %w", id, err)
	}

	detail, err := parseCoin(body)
	if err != nil {
		return nil, fmt.Errorf("get coin %s: %w", id, err)
	}
	return detail, nil
}

// parseCoin extracts an AssetDetail from a raw /coins/{id} response.
// Only the id is mandatory; every other field falls back to its zero value.
func parseCoin(body []byte) (*model.AssetDetail, error) {
	// UseNumber keeps prices exact until they reach decimal.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	id := lookupString(jobj, pathID)
	if id == "" {
		return nil, fmt.Errorf("missing %q in response", pathID)
	}

	return &model.AssetDetail{
		ID:                id,
		Symbol:            lookupString(jobj, pathSymbol),
		Name:              lookupString(jobj, pathName),
		Description:       lookupString(jobj, pathDescription),
		Homepage:          lookupString(jobj, pathHomepage),
		GenesisDate:       lookupString(jobj, pathGenesisDate),
		MarketCapRank:     int(lookupDecimal(jobj, pathRank).IntPart()),
		CurrentPrice:      lookupDecimal(jobj, pathCurrentPrice),
		MarketCap:         lookupDecimal(jobj, pathMarketCap),
		ATH:               lookupDecimal(jobj, pathATH),
		ATL:               lookupDecimal(jobj, pathATL),
		PriceChangePct24h: lookupDecimal(jobj, pathChange24h).InexactFloat64(),
		PriceChangePct7d:  lookupDecimal(jobj, pathChange7d).InexactFloat64(),
	}, nil
}

// lookup evaluates path against jobj, returning nil when the path is absent.
func lookup(jobj any, path string) any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	// jsonpath may answer a single value or a list of one value.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil
		}
		jval = jlist[0]
	}
	return jval
}

func lookupString(jobj any, path string) string {
	s, _ := lookup(jobj, path).(string)
	return s
}

func lookupDecimal(jobj any, path string) decimal.Decimal {
	switch v := lookup(jobj, path).(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	default:
		return decimal.Zero
	}
}
