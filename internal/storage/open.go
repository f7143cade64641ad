package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/coinwatch/internal/config"
	"github.com/rickgao/coinwatch/internal/database"
)

// Open builds the KV selected by cfg.Storage. The returned close function
// releases backend resources and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (KV, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage, watchlists will not survive restart")
		return NewMemory(), func() {}, nil

	case config.BackendFile:
		logger.Debug("using file storage", "dir", cfg.Storage.Dir)
		return NewFile(cfg.Storage.Dir), func() {}, nil

	case config.BackendPostgres:
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		kv := NewPostgres(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database connected")
		return kv, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
