package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the slot has never been written.
var ErrNotFound = errors.New("slot not found")

// KV reads and writes named slots.
type KV interface {
	// Get returns the slot value, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the slot value.
	Put(ctx context.Context, key string, value []byte) error
}

// validateKey rejects keys that cannot be used as a file name.
func validateKey(key string) error {
	if key == "" {
		return errors.New("empty slot key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid slot key %q", key)
	}
	return nil
}
