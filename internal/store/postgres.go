package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by PostgresKV.
// Satisfied by *pgxpool.Pool and pgx.Tx; narrow interface for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresKV stores keys in the settings table.
type PostgresKV struct {
	db DBTX
}

func NewPostgresKV(db DBTX) *PostgresKV {
	return &PostgresKV{db: db}
}

const (
	getSetting    = `SELECT value FROM settings WHERE key = $1`
	upsertSetting = `INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteSetting = `DELETE FROM settings WHERE key = $1`
)

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(ctx, getSetting, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	if _, err := p.db.Exec(ctx, upsertSetting, key, value); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
			return fmt.Errorf("put setting %s: settings table missing, run migrations: %w", key, err)
		}
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, deleteSetting, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (p *PostgresKV) Close() error { return nil }
