package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testKV runs the behavior every backend must share.
func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing slot", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		if err := kv.Put(ctx, "watchlists", []byte(`[{"id":"a"}]`)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := kv.Get(ctx, "watchlists")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `[{"id":"a"}]` {
			t.Errorf("Get = %q, want %q", got, `[{"id":"a"}]`)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		if err := kv.Put(ctx, "watchlists", []byte(`[]`)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := kv.Get(ctx, "watchlists")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `[]` {
			t.Errorf("Get = %q, want %q", got, `[]`)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		for _, key := range []string{"", "../escape", `a\b`} {
			if err := kv.Put(ctx, key, []byte(`[]`)); err == nil {
				t.Errorf("Put(%q) expected error, got nil", key)
			}
			if _, err := kv.Get(ctx, key); err == nil || errors.Is(err, ErrNotFound) {
				t.Errorf("Get(%q) error = %v, want invalid key", key, err)
			}
		}
	})
}

func TestMemory(t *testing.T) {
	testKV(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte(`[1]`)
	if err := m.Put(ctx, "k", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value[1] = '2'

	got, _ := m.Get(ctx, "k")
	if string(got) != `[1]` {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
}

func TestFile(t *testing.T) {
	testKV(t, NewFile(t.TempDir()))
}

func TestFile_CreatesDirAndLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "state")
	f := NewFile(dir)

	if err := f.Put(ctx, "watchlists", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "watchlists.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [watchlists.json]", names)
	}
}

func TestFile_ReadError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the slot file should be makes ReadFile fail with
	// something other than ErrNotExist.
	if err := os.Mkdir(filepath.Join(dir, "watchlists.json"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	_, err := NewFile(dir).Get(context.Background(), "watchlists")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("read failure reported as ErrNotFound")
	}
}
