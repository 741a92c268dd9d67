package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pooledKV is a PostgresKV that owns its connection pool.
type pooledKV struct {
	*PostgresKV
	pool *pgxpool.Pool
}

func (p *pooledKV) Close() error {
	p.pool.Close()
	return nil
}

// Open selects a backend: PostgreSQL when databaseURL is set (migrations are
// applied first), Pebble under stateDir when that is set, otherwise memory.
func Open(ctx context.Context, databaseURL, stateDir string) (KV, error) {
	switch {
	case databaseURL != "":
		if err := Migrate(databaseURL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		log.Println("[INFO] settings stored in PostgreSQL")
		return &pooledKV{PostgresKV: NewPostgresKV(pool), pool: pool}, nil
	case stateDir != "":
		return OpenPebble(stateDir)
	default:
		log.Println("WARN: no database or state directory configured; settings are kept in memory only")
		return NewMemoryKV(), nil
	}
}
