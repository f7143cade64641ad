package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/rickgao/coinwatch/internal/config"
	"github.com/rickgao/coinwatch/internal/storage"
	"github.com/rickgao/coinwatch/internal/watchlist"
)

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 coinwatch.
func completion() *complete.Command {
	watchlistIDs := complete.PredictFunc(predictWatchlistIDs)
	styles := predict.Set{"dark", "light", "notty", "ascii", "dracula", "pink"}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
			"style":     styles,
			"width":     predict.Something,
		},
		Sub: map[string]*complete.Command{
			"serve":   {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"markets": {Flags: map[string]complete.Predictor{"q": predict.Something, "w": watchlistIDs}},
			"coin":    {Args: predict.Something},
			"lists":   {},
			"show":    {Args: watchlistIDs, Flags: map[string]complete.Predictor{"offline": predict.Nothing}},
			"create":  {Args: predict.Something, Flags: map[string]complete.Predictor{"icon": predict.Something}},
			"delete":  {Args: watchlistIDs},
			"add":     {Args: watchlistIDs},
			"remove":  {Args: watchlistIDs},
			"toggle":  {Args: watchlistIDs},
			"version": {},
			"help":    {},
		},
	}
}

// predictWatchlistIDs offers the IDs of the watchlists in the default
// configuration. Any failure predicts nothing; completion must stay quiet.
func predictWatchlistIDs(prefix string) []string {
	cfg, err := config.LoadAndValidate(DefaultConfigPath)
	if err != nil {
		cfg = config.Default()
	}
	if cfg.Storage.Backend == config.BackendMemory {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv, closeKV, err := storage.Open(ctx, cfg, quiet)
	if err != nil {
		return nil
	}
	defer closeKV()

	store, err := watchlist.Open(ctx, kv, watchlist.WithKey(cfg.Storage.Key), watchlist.WithLogger(quiet))
	if err != nil {
		return nil
	}
	var ids []string
	for _, w := range store.List() {
		ids = append(ids, w.ID)
	}
	return ids
}
