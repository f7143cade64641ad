package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/coinwatch/internal/model"
)

// Source fetches the current market listing.
type Source interface {
	FetchAssets(ctx context.Context) ([]model.Asset, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context) ([]model.Asset, error)

func (f SourceFunc) FetchAssets(ctx context.Context) ([]model.Asset, error) {
	return f(ctx)
}

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snapshot model.Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(model.Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s model.Snapshot) error {
	return f(s)
}

// ErrorHandler is told about failed fetches.
type ErrorHandler interface {
	HandleFetchError(err error)
}

// ErrorHandlerFunc is a function adapter for ErrorHandler.
type ErrorHandlerFunc func(error)

func (f ErrorHandlerFunc) HandleFetchError(err error) {
	f(err)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 60s)
	Timeout  time.Duration // Per-fetch timeout (default: 20s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 60 * time.Second,
		Timeout:  20 * time.Second,
	}
}

// Option configures a Poller.
type Option func(*Poller)

// WithErrorHandler sets the receiver of fetch failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Poller) {
		p.onError = h
	}
}

// WithClock overrides time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// Poller periodically refreshes market data.
type Poller struct {
	cfg     Config
	source  Source
	handler SnapshotHandler
	onError ErrorHandler
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source Source, handler SnapshotHandler, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	p := &Poller{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("market poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
	)

	return nil
}

// Stop gracefully shuts down the poller. Once it returns, no further
// snapshot reaches the handler.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("market poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll fetches one snapshot and hands it on.
func (p *Poller) poll() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	assets, err := p.source.FetchAssets(ctx)

	// Stopped mid-fetch: whatever came back is stale.
	if p.ctx.Err() != nil {
		p.logger.Debug("discarding fetch completed after stop")
		return
	}

	if err != nil {
		p.logger.Warn("market refresh failed",
			"err", err,
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"duration", time.Since(start),
		)
		if p.onError != nil {
			p.onError.HandleFetchError(err)
		}
		return
	}

	snapshot := model.Snapshot{Assets: assets, FetchedAt: p.now()}
	if p.handler != nil {
		if err := p.handler.HandleSnapshot(snapshot); err != nil {
			p.logger.Warn("snapshot handler failed", "err", err)
			return
		}
	}

	p.logger.Debug("poll cycle complete",
		"assets", len(assets),
		"duration", time.Since(start),
	)
}
