package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/rickgao/coinwatch/internal/api"
	"github.com/rickgao/coinwatch/internal/config"
	"github.com/rickgao/coinwatch/internal/render"
	"github.com/rickgao/coinwatch/internal/storage"
	"github.com/rickgao/coinwatch/internal/version"
	"github.com/rickgao/coinwatch/internal/watchlist"
)

// DefaultConfigPath is read when -config is not given. It may be absent.
const DefaultConfigPath = "coinwatch.yaml"

// As a CLI the process is short lived, so global flags are fine.
var (
	configPath = flag.String("config", DefaultConfigPath, "Path to the YAML config file")
	logLevel   = flag.String("log-level", "", "Override log.level (debug, info, warn, error)")
	style      = flag.String("style", "", "Terminal style for output (dark, light, notty, ascii); default from GLAMOUR_STYLE")
	width      = flag.Int("width", 100, "Wrap terminal output at this many columns")
)

// stdout and stderr are swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfig reads the config file. A missing file at the default path
// yields the built-in defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadAndValidate(*configPath)
	if errors.Is(err, fs.ErrNotExist) && *configPath == DefaultConfigPath {
		cfg = config.Default()
		err = cfg.Validate()
	}
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so command output
// stays clean on stdout.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: newLogger(cfg)}, nil
}

// openStore opens the configured slot and hydrates the watchlist store.
// The returned close function is never nil.
func (a *app) openStore(ctx context.Context) (*watchlist.Store, func(), error) {
	kv, closeKV, err := storage.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, func() {}, err
	}
	store, err := watchlist.Open(ctx, kv,
		watchlist.WithKey(a.cfg.Storage.Key),
		watchlist.WithLogger(a.logger),
	)
	if err != nil {
		closeKV()
		return nil, func() {}, err
	}
	return store, closeKV, nil
}

func (a *app) newClient() *api.Client {
	return api.NewClient(
		a.cfg.API.BaseURL,
		a.cfg.API.APIKey,
		api.WithLogger(a.logger),
		api.WithTimeout(a.cfg.API.Timeout),
		api.WithRetries(a.cfg.API.MaxRetries, time.Second),
		api.WithUserAgent(version.UserAgent()),
	)
}

func (a *app) marketsOptions() api.MarketsOptions {
	return api.MarketsOptions{
		PerPage:   a.cfg.Refresh.PerPage,
		Sparkline: a.cfg.Refresh.Sparkline,
	}
}

// printMarkdown renders md for the terminal, falling back to the raw
// markdown if rendering fails.
func printMarkdown(md string) {
	out, err := render.Terminal(md, *style, *width)
	if err != nil {
		fmt.Fprintln(stderr, err)
		out = md
	}
	fmt.Fprint(stdout, out)
}

// fail reports err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(stderr, "Error:", err)
	return subcommands.ExitFailure
}

// mutationStatus maps a store error to an exit status. A persistence
// failure is reported as a warning: the change was applied but dies with
// this process.
func mutationStatus(err error) subcommands.ExitStatus {
	var perr *watchlist.PersistError
	if errors.As(err, &perr) {
		fmt.Fprintln(stderr, "Warning: change applied but not saved:", perr.Err)
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
