package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cockroachdb/pebble/v2"
)

// keyPrefix namespaces pricebook keys inside a shared state directory.
const keyPrefix = "pricebook:"

// PebbleKV is a KV backed by an on-disk Pebble database.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebble opens or creates a Pebble database at dir.
func OpenPebble(dir string) (*PebbleKV, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return nil, fmt.Errorf("open pebble store: %w", err)
	}
	log.Printf("[INFO] state store opened at %s", dir)
	return &PebbleKV{db: db}, nil
}

func (p *PebbleKV) Get(_ context.Context, key string) ([]byte, error) {
	data, closer, err := p.db.Get([]byte(keyPrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer closer.Close()
	return append([]byte(nil), data...), nil
}

func (p *PebbleKV) Put(_ context.Context, key string, value []byte) error {
	if err := p.db.Set([]byte(keyPrefix+key), value, pebble.Sync); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (p *PebbleKV) Delete(_ context.Context, key string) error {
	if err := p.db.Delete([]byte(keyPrefix+key), pebble.Sync); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (p *PebbleKV) Close() error {
	return p.db.Close()
}
