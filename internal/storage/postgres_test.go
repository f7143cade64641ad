package storage

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// fakeQuerier emulates kv_slots in memory.
type fakeQuerier struct {
	rows    map[string]string
	execErr error
	sql     []string
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = append(q.sql, sql)
	if q.execErr != nil {
		return pgconn.CommandTag{}, q.execErr
	}
	if sql == upsertSlotSQL {
		q.rows[args[0].(string)] = args[1].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql = append(q.sql, sql)
	v, ok := q.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func TestPostgres_Fake(t *testing.T) {
	q := &fakeQuerier{rows: make(map[string]string)}
	kv := NewPostgres(q)

	if err := kv.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if q.sql[0] != Schema {
		t.Errorf("first statement = %q, want schema", q.sql[0])
	}

	testKV(t, kv)
}

func TestPostgres_ExecError(t *testing.T) {
	q := &fakeQuerier{rows: make(map[string]string), execErr: errors.New("disk full")}
	kv := NewPostgres(q)

	err := kv.Put(context.Background(), "watchlists", []byte(`[]`))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want wrapped cause", err)
	}
}

// TestPostgres_Live runs against a real database when
// COINWATCH_TEST_DATABASE_URL is set.
func TestPostgres_Live(t *testing.T) {
	url := os.Getenv("COINWATCH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("COINWATCH_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS kv_slots`); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	kv := NewPostgres(pool)
	if err := kv.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	testKV(t, kv)
}
