package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"netattend/internal/storage"
)

// Store keeps each collection as one row of a single kv table, so the
// postgres backend speaks the same fixed-key JSON contract as redis.
type Store struct {
	db *sql.DB
}

func New(storagePath string) (*Store, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.postgres.Get"

	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key=$1`, key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %s: %w", op, key, storage.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return raw, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.postgres.Set"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = NOW();
		`, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
