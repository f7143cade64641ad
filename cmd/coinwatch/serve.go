package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/coinwatch/internal/market"
	"github.com/rickgao/coinwatch/internal/model"
	"github.com/rickgao/coinwatch/internal/poller"
	"github.com/rickgao/coinwatch/internal/server"
	"github.com/rickgao/coinwatch/internal/version"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "refresh market data periodically and serve the web view" }
func (*serveCmd) Usage() string {
	return `coinwatch serve [-addr <host:port>]

  Fetches the market listing immediately and then every refresh.interval,
  and serves the JSON API, the HTML page and the /ws live update stream.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (overrides server.addr)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return fail(err)
	}
	logger := a.logger
	if c.addr != "" {
		a.cfg.Server.Addr = c.addr
	}

	info := version.Get()
	logger.Info("starting coinwatch",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configPath,
		"backend", a.cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return fail(fmt.Errorf("open watchlists: %w", err))
	}
	defer closeStore()

	client := a.newClient()
	registry := market.NewRegistry(logger)
	srv := server.New(server.Config{Addr: a.cfg.Server.Addr}, store, registry, client, logger)

	opts := a.marketsOptions()
	source := poller.SourceFunc(func(ctx context.Context) ([]model.Asset, error) {
		return client.FetchAssets(ctx, opts)
	})
	p := poller.New(poller.Config{
		Interval: a.cfg.Refresh.Interval,
		Timeout:  a.cfg.Refresh.Timeout,
	}, source, registry, logger, poller.WithErrorHandler(srv))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	g.Go(func() error {
		if err := p.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return p.Stop(stopCtx)
	})

	if err := g.Wait(); err != nil {
		return fail(err)
	}
	logger.Info("coinwatch stopped")
	return subcommands.ExitSuccess
}
