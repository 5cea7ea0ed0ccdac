// Package db provides PostgreSQL storage for the analysis history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id          UUID PRIMARY KEY,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL,
	provider    TEXT NOT NULL,
	model       TEXT NOT NULL,
	status      TEXT NOT NULL,
	snapshot    JSONB NOT NULL,
	result      JSONB,
	error       TEXT,
	status_code INTEGER,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analysis_runs_created_at_idx ON analysis_runs (created_at DESC);
CREATE INDEX IF NOT EXISTS analysis_runs_url_idx ON analysis_runs (url);
`

// Migrate creates the history tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
