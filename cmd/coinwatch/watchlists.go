package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/rickgao/coinwatch/internal/listing"
	"github.com/rickgao/coinwatch/internal/market"
	"github.com/rickgao/coinwatch/internal/render"
	"github.com/rickgao/coinwatch/internal/watchlist"
)

// withStore runs fn against the configured store.
func withStore(ctx context.Context, fn func(*app, *watchlist.Store) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return fail(err)
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeStore()
	return fn(a, store)
}

type listsCmd struct{}

func (*listsCmd) Name() string     { return "lists" }
func (*listsCmd) Synopsis() string { return "list watchlists" }
func (*listsCmd) Usage() string {
	return `coinwatch lists

  Prints every watchlist with its ID and number of assets.
`
}
func (*listsCmd) SetFlags(*flag.FlagSet) {}

func (*listsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withStore(ctx, func(_ *app, store *watchlist.Store) subcommands.ExitStatus {
		printMarkdown(render.Watchlists(store.List()))
		return subcommands.ExitSuccess
	})
}

type showCmd struct {
	offline bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show a watchlist with live prices" }
func (*showCmd) Usage() string {
	return `coinwatch show [-offline] <watchlist-id>

  Prints the watchlist's assets in order, merged with current market data.
  Assets outside the fetched listing are shown as not listed.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "Do not fetch prices")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	return withStore(ctx, func(a *app, store *watchlist.Store) subcommands.ExitStatus {
		if _, ok := store.Get(id); !ok {
			return fail(fmt.Errorf("watchlist %q not found", id))
		}

		registry := market.NewRegistry(a.logger)
		if !c.offline {
			fetched, err := a.fetchOnce(ctx)
			if err != nil {
				fmt.Fprintln(stderr, "Warning: prices unavailable:", err)
			} else {
				registry = fetched
			}
		}

		res, err := listing.Build(registry, store, listing.Query{WatchlistID: id})
		if err != nil {
			return fail(err)
		}
		printMarkdown(render.Watchlist(res, render.Options{
			Names:     render.WatchlistNames(store.List()),
			UpdatedAt: registry.LastUpdated(),
		}))
		return subcommands.ExitSuccess
	})
}

type createCmd struct {
	icon string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a watchlist" }
func (*createCmd) Usage() string {
	return `coinwatch create [-icon <glyph>] <name>

  Creates an empty watchlist and prints its ID. Blank names are ignored.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.icon, "icon", "", "Icon shown next to the name (default 📈)")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	return withStore(ctx, func(_ *app, store *watchlist.Store) subcommands.ExitStatus {
		id, err := store.Create(ctx, f.Arg(0), c.icon)
		if id == "" && err == nil {
			fmt.Fprintln(stderr, "Nothing created: name is blank")
			return subcommands.ExitUsageError
		}
		if id != "" {
			fmt.Fprintln(stdout, id)
		}
		return mutationStatus(err)
	})
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a watchlist" }
func (*deleteCmd) Usage() string {
	return `coinwatch delete <watchlist-id>
`
}
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	return withStore(ctx, func(_ *app, store *watchlist.Store) subcommands.ExitStatus {
		w, ok := store.Get(id)
		if !ok {
			return fail(fmt.Errorf("watchlist %q not found", id))
		}
		if status := mutationStatus(store.Delete(ctx, id)); status != subcommands.ExitSuccess {
			return status
		}
		fmt.Fprintf(stdout, "Deleted %s %s\n", w.Icon, w.Name)
		return subcommands.ExitSuccess
	})
}

// memberCmd implements add, remove and toggle.
type memberCmd struct {
	name     string
	synopsis string
	apply    func(ctx context.Context, s *watchlist.Store, id, asset string) (bool, error)
}

func (c *memberCmd) Name() string     { return c.name }
func (c *memberCmd) Synopsis() string { return c.synopsis }
func (c *memberCmd) Usage() string {
	return fmt.Sprintf("coinwatch %s <watchlist-id> <asset-id>\n", c.name)
}
func (*memberCmd) SetFlags(*flag.FlagSet) {}

func (c *memberCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id, asset := f.Arg(0), f.Arg(1)

	return withStore(ctx, func(_ *app, store *watchlist.Store) subcommands.ExitStatus {
		w, ok := store.Get(id)
		if !ok {
			return fail(fmt.Errorf("watchlist %q not found", id))
		}
		member, err := c.apply(ctx, store, id, asset)
		if status := mutationStatus(err); status != subcommands.ExitSuccess {
			return status
		}
		if member {
			fmt.Fprintf(stdout, "%s is in %s %s\n", asset, w.Icon, w.Name)
		} else {
			fmt.Fprintf(stdout, "%s is not in %s %s\n", asset, w.Icon, w.Name)
		}
		return subcommands.ExitSuccess
	})
}

func newAddCmd() *memberCmd {
	return &memberCmd{
		name:     "add",
		synopsis: "add an asset to a watchlist",
		apply: func(ctx context.Context, s *watchlist.Store, id, asset string) (bool, error) {
			return true, s.AddMember(ctx, id, asset)
		},
	}
}

func newRemoveCmd() *memberCmd {
	return &memberCmd{
		name:     "remove",
		synopsis: "remove an asset from a watchlist",
		apply: func(ctx context.Context, s *watchlist.Store, id, asset string) (bool, error) {
			return false, s.RemoveMember(ctx, id, asset)
		},
	}
}

func newToggleCmd() *memberCmd {
	return &memberCmd{
		name:     "toggle",
		synopsis: "add an asset to a watchlist, or remove it if present",
		apply: func(ctx context.Context, s *watchlist.Store, id, asset string) (bool, error) {
			return s.ToggleMember(ctx, id, asset)
		},
	}
}
