package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema creates the slot table.
const Schema = `CREATE TABLE IF NOT EXISTS kv_slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	selectSlotSQL = `SELECT value FROM kv_slots WHERE key = $1`
	upsertSlotSQL = `INSERT INTO kv_slots (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// Querier is the subset of *pgxpool.Pool used by Postgres.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores slots as rows of the kv_slots table.
type Postgres struct {
	db Querier
}

// NewPostgres creates a Postgres store. Call EnsureSchema before first use.
func NewPostgres(db Querier) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the slot table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create kv_slots: %w", err)
	}
	return nil
}

// Get reads one slot row.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value string
	err := p.db.QueryRow(ctx, selectSlotSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select slot %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put upserts one slot row in a single statement. The value is stored as
// text so it reads back byte-for-byte.
func (p *Postgres) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, upsertSlotSQL, key, string(value)); err != nil {
		return fmt.Errorf("upsert slot %q: %w", key, err)
	}
	return nil
}
