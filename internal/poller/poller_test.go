package poller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/coinwatch/internal/api"
	"github.com/rickgao/coinwatch/internal/model"
)

// mockAssetSource returns a fixed listing, or err when set.
type mockAssetSource struct {
	assets []model.Asset
	err    error
	calls  atomic.Int32
}

func (m *mockAssetSource) FetchAssets(ctx context.Context) ([]model.Asset, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.assets, nil
}

func TestPoller_Poll(t *testing.T) {
	// Create a test server that returns a market listing.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("path = %q, want /coins/markets", r.URL.Path)
		}
		resp := []map[string]any{
			{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 67000.5},
			{"id": "ethereum", "symbol": "eth", "name": "Ethereum", "current_price": 3500},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", api.WithTimeout(5*time.Second))
	source := SourceFunc(func(ctx context.Context) ([]model.Asset, error) {
		return client.FetchAssets(ctx, api.MarketsOptions{})
	})

	var got model.Snapshot
	handler := SnapshotHandlerFunc(func(s model.Snapshot) error {
		got = s
		return nil
	})

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := New(Config{Interval: time.Hour, Timeout: 5 * time.Second}, source, handler, nil,
		WithClock(func() time.Time { return fixed }))

	// Call poll directly.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.ctx = ctx

	p.poll()

	if len(got.Assets) != 2 {
		t.Fatalf("len(Assets) = %d, want 2", len(got.Assets))
	}
	if got.Assets[0].ID != "bitcoin" || got.Assets[1].ID != "ethereum" {
		t.Errorf("Assets = %s, %s, want bitcoin, ethereum", got.Assets[0].ID, got.Assets[1].ID)
	}
	if !got.FetchedAt.Equal(fixed) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fixed)
	}
}

func TestPoller_FetchError(t *testing.T) {
	source := &mockAssetSource{err: errors.New("rate limited")}

	var handled atomic.Bool
	handler := SnapshotHandlerFunc(func(model.Snapshot) error {
		handled.Store(true)
		return nil
	})
	var reported error
	onError := ErrorHandlerFunc(func(err error) { reported = err })

	p := New(Config{Interval: time.Hour, Timeout: time.Second}, source, handler, nil,
		WithErrorHandler(onError))
	p.ctx = context.Background()

	p.poll()

	if handled.Load() {
		t.Error("handler called for failed fetch")
	}
	if reported == nil || reported.Error() != "rate limited" {
		t.Errorf("reported = %v, want rate limited", reported)
	}
	if got := source.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (no early retry)", got)
	}
}

func TestPoller_FetchTimeout(t *testing.T) {
	source := SourceFunc(func(ctx context.Context) ([]model.Asset, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	var reported atomic.Bool
	p := New(Config{Interval: time.Hour, Timeout: 20 * time.Millisecond}, source, nil, nil,
		WithErrorHandler(ErrorHandlerFunc(func(err error) {
			if errors.Is(err, context.DeadlineExceeded) {
				reported.Store(true)
			}
		})))
	p.ctx = context.Background()

	p.poll()

	if !reported.Load() {
		t.Error("timeout not reported")
	}
}

func TestPoller_StartStop(t *testing.T) {
	source := &mockAssetSource{assets: []model.Asset{{ID: "bitcoin"}}}

	var called atomic.Int32
	handler := SnapshotHandlerFunc(func(s model.Snapshot) error {
		called.Add(1)
		return nil
	})

	cfg := Config{
		Interval: 50 * time.Millisecond,
		Timeout:  time.Second,
	}

	p := New(cfg, source, handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Immediate poll plus at least one tick.
	time.Sleep(120 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if called.Load() < 2 {
		t.Errorf("handler called %d times, want >= 2", called.Load())
	}

	after := called.Load()
	time.Sleep(120 * time.Millisecond)
	if called.Load() != after {
		t.Error("handler called after Stop")
	}
}

func TestPoller_DiscardsFetchCompletedAfterStop(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	source := SourceFunc(func(ctx context.Context) ([]model.Asset, error) {
		close(started)
		<-release
		// Ignores ctx, like a client that completes anyway.
		return []model.Asset{{ID: "bitcoin"}}, nil
	})

	var called atomic.Bool
	handler := SnapshotHandlerFunc(func(model.Snapshot) error {
		called.Store(true)
		return nil
	})

	p := New(Config{Interval: time.Hour, Timeout: time.Minute}, source, handler, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-started

	stopped := make(chan error, 1)
	go func() {
		stopped <- p.Stop(context.Background())
	}()

	// Let Stop cancel before the fetch returns.
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := <-stopped; err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if called.Load() {
		t.Error("stale snapshot reached handler")
	}
}

func TestPoller_StopTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	source := SourceFunc(func(ctx context.Context) ([]model.Asset, error) {
		<-block
		return nil, nil
	})

	p := New(Config{Interval: time.Hour, Timeout: time.Minute}, source, nil, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop error = %v, want deadline exceeded", err)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	p := New(Config{}, &mockAssetSource{}, nil, nil)
	if p.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want %+v", p.cfg, DefaultConfig())
	}
}
