package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// DB wraps the sql connection pool
type DB struct {
	*sql.DB
}

// New opens a Postgres connection pool and verifies connectivity
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			_ = closeErr
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// EnsureSchema creates the tables and indexes the service depends on.
// The partial unique index on (template_id, for_date) is the atomicity
// primitive behind exactly-once daily generation: a concurrent duplicate
// insert fails with a unique violation instead of silently duplicating.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			metric      TEXT NOT NULL,
			goal        INTEGER,
			color       TEXT NOT NULL,
			template_id UUID,
			for_date    DATE,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS tasks_template_date_uniq
			ON tasks (template_id, for_date)
			WHERE template_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS tasks_for_date_idx
			ON tasks (for_date)
			WHERE for_date IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS events (
			id         UUID PRIMARY KEY,
			task_id    UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			type       TEXT NOT NULL,
			value      INTEGER,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS events_task_order_idx
			ON events (task_id, created_at, id)`,
		`CREATE TABLE IF NOT EXISTS templates (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			metric      TEXT NOT NULL,
			goal        INTEGER,
			color       TEXT NOT NULL,
			active_days INTEGER[] NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}
