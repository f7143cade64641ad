package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/google/subcommands"

	"github.com/rickgao/coinwatch/internal/api"
	"github.com/rickgao/coinwatch/internal/listing"
	"github.com/rickgao/coinwatch/internal/market"
	"github.com/rickgao/coinwatch/internal/model"
	"github.com/rickgao/coinwatch/internal/render"
)

type marketsCmd struct {
	query     string
	watchlist string
}

func (*marketsCmd) Name() string     { return "markets" }
func (*marketsCmd) Synopsis() string { return "fetch the market listing once and print it" }
func (*marketsCmd) Usage() string {
	return `coinwatch markets [-q <search>] [-w <watchlist-id>]

  Prints the top assets by market cap. -q keeps assets whose name or symbol
  contains the search text (case-insensitive); -w restricts the listing to
  a watchlist, in the watchlist's order.
`
}

func (c *marketsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Search by name or symbol")
	f.StringVar(&c.watchlist, "w", "", "Only show members of this watchlist")
}

func (c *marketsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return fail(err)
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeStore()

	registry, err := a.fetchOnce(ctx)
	if err != nil {
		return fail(err)
	}

	res, err := listing.Build(registry, store, listing.Query{Search: c.query, WatchlistID: c.watchlist})
	if errors.Is(err, listing.ErrUnknownWatchlist) {
		return fail(fmt.Errorf("watchlist %q not found", c.watchlist))
	}
	if err != nil {
		return fail(err)
	}

	printMarkdown(render.Watchlist(res, render.Options{
		Names:     render.WatchlistNames(store.List()),
		UpdatedAt: registry.LastUpdated(),
	}))
	return subcommands.ExitSuccess
}

// fetchOnce loads one snapshot into a fresh registry.
func (a *app) fetchOnce(ctx context.Context) (*market.Registry, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Refresh.Timeout)
	defer cancel()

	assets, err := a.newClient().FetchAssets(ctx, a.marketsOptions())
	if err != nil {
		return nil, err
	}
	registry := market.NewRegistry(a.logger)
	registry.Replace(model.Snapshot{Assets: assets, FetchedAt: time.Now()})
	return registry, nil
}

type coinCmd struct{}

func (*coinCmd) Name() string     { return "coin" }
func (*coinCmd) Synopsis() string { return "show the detail of one asset" }
func (*coinCmd) Usage() string {
	return `coinwatch coin <asset-id>

  Fetches and prints the detail view of an asset, e.g. "coinwatch coin bitcoin".
`
}

func (*coinCmd) SetFlags(*flag.FlagSet) {}

func (*coinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	a, err := setup()
	if err != nil {
		return fail(err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.API.Timeout)
	defer cancel()

	detail, err := a.newClient().GetCoin(ctx, id)
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fail(fmt.Errorf("asset %q not found", id))
	}
	if err != nil {
		return fail(err)
	}

	md := render.AssetDetail(detail)
	if store, closeStore, err := a.openStore(ctx); err == nil {
		defer closeStore()
		if ids := store.Containing(id); len(ids) > 0 {
			names := render.WatchlistNames(store.List())
			md += "\n## In watchlists\n\n"
			for _, wid := range ids {
				md += fmt.Sprintf("- %s (`%s`)\n", names[wid], wid)
			}
		}
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
