package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/coinwatch/internal/config"
)

// Pool tuning for the watchlist slot: one row, read at startup and
// rewritten on every mutation, so a handful of mostly idle connections.
const (
	ConnectTimeout    = 10 * time.Second
	MaxConnIdleTime   = 5 * time.Minute
	HealthCheckPeriod = time.Minute
)

// PoolConfig translates cfg into a pgxpool configuration.
func PoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MaxConnIdleTime = MaxConnIdleTime
	poolCfg.HealthCheckPeriod = HealthCheckPeriod
	poolCfg.ConnConfig.ConnectTimeout = ConnectTimeout
	return poolCfg, nil
}

// Connect creates a connection pool and verifies it with a ping, so a bad
// DSN fails at startup rather than on the first watchlist write.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return pool, nil
}
