// Package store persists pricing configuration and theme choice in a small
// key-value store. Backends: in-memory, Pebble on disk for the CLI client,
// and PostgreSQL for the configuration host.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV is a minimal byte-oriented key-value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
