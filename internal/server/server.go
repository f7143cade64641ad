package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/coinwatch/internal/market"
	"github.com/rickgao/coinwatch/internal/model"
	"github.com/rickgao/coinwatch/internal/watchlist"
)

// CoinFetcher loads the detail view of one asset.
type CoinFetcher interface {
	GetCoin(ctx context.Context, id string) (*model.AssetDetail, error)
}

// Config holds server configuration.
type Config struct {
	Addr            string        // Listen address (default: ":8080")
	ShutdownTimeout time.Duration // Graceful shutdown bound (default: 10s)
	DetailTimeout   time.Duration // Bound on a coin detail fetch (default: 15s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		DetailTimeout:   15 * time.Second,
	}
}

// Server is the HTTP view layer.
type Server struct {
	cfg      Config
	store    *watchlist.Store
	registry *market.Registry
	coins    CoinFetcher
	hub      *Hub
	logger   *slog.Logger
}

// New creates a Server. coins may be nil, which disables the detail route.
func New(cfg Config, store *watchlist.Store, registry *market.Registry, coins CoinFetcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.DetailTimeout <= 0 {
		cfg.DetailTimeout = defaults.DetailTimeout
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		registry: registry,
		coins:    coins,
		hub:      NewHub(logger),
		logger:   logger,
	}
	s.hub.welcome = s.welcomeEvents
	return s
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/assets", s.handleAssets)
	mux.HandleFunc("GET /api/assets/{id}", s.handleAssetDetail)
	mux.HandleFunc("GET /api/watchlists", s.handleListWatchlists)
	mux.HandleFunc("POST /api/watchlists", s.handleCreateWatchlist)
	mux.HandleFunc("GET /api/watchlists/{id}", s.handleGetWatchlist)
	mux.HandleFunc("DELETE /api/watchlists/{id}", s.handleDeleteWatchlist)
	mux.HandleFunc("PUT /api/watchlists/{id}/members/{asset}", s.handleAddMember)
	mux.HandleFunc("DELETE /api/watchlists/{id}/members/{asset}", s.handleRemoveMember)
	mux.HandleFunc("POST /api/watchlists/{id}/members/{asset}/toggle", s.handleToggleMember)
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /{$}", s.handlePage)

	return mux
}

// HandleFetchError broadcasts a failed refresh to websocket clients.
func (s *Server) HandleFetchError(err error) {
	s.hub.Broadcast(Event{Type: "error", Error: err.Error()})
}

// Run forwards registry changes to websocket clients until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	changes := s.registry.SubscribeChanges()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-changes:
			s.hub.Broadcast(Event{Type: "snapshot", At: c.FetchedAt, Data: toSnapshotEvent(c)})
		}
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// broadcastWatchlists pushes the current collection to websocket clients.
func (s *Server) broadcastWatchlists() {
	s.hub.Broadcast(Event{Type: "watchlists", Data: s.store.List()})
}

func (s *Server) welcomeEvents() []Event {
	events := []Event{{Type: "watchlists", At: time.Now(), Data: s.store.List()}}
	if at := s.registry.LastUpdated(); !at.IsZero() {
		events = append(events, Event{
			Type: "snapshot",
			At:   at,
			Data: snapshotEventJSON{FetchedAt: at, Total: s.registry.Len()},
		})
	}
	return events
}
