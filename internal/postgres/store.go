package postgres

import (
	"context"
	"errors"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store is a blob.Store kept in a single key/value table.
type Store struct{ DB *pgxpool.Pool }

var _ blob.Store = (*Store)(nil)

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, schema)
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.DB.QueryRow(ctx, `SELECT value FROM blobs WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO blobs(key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM blobs WHERE key=$1`, key)
	return err
}

// Update serializes writers of the same key with a transaction-scoped advisory lock,
// so it also covers keys that do not have a row yet.
func (s *Store) Update(ctx context.Context, key string, fn blob.UpdateFunc) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return err
	}

	var cur string
	found := true
	err = tx.QueryRow(ctx, `SELECT value FROM blobs WHERE key=$1`, key).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		found = false
	} else if err != nil {
		return err
	}

	next, err := fn(cur, found)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO blobs(key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
