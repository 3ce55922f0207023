package store

import (
	"context"
	"fmt"
)

// Target and audit DDL. Idempotent so EnsureSchema can run before every
// load; external_ref carries the uniqueness the upserts conflict on.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		external_ref TEXT NOT NULL UNIQUE,
		name TEXT,
		email TEXT,
		phone TEXT,
		address TEXT,
		country_code TEXT,
		created_on DATE
	)`,
	`CREATE TABLE IF NOT EXISTS patents (
		id BIGSERIAL PRIMARY KEY,
		external_ref TEXT NOT NULL UNIQUE,
		client_id BIGINT REFERENCES clients(id),
		title TEXT,
		filing_date DATE,
		grant_date DATE,
		jurisdiction TEXT,
		status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS trademarks (
		id BIGSERIAL PRIMARY KEY,
		external_ref TEXT NOT NULL UNIQUE,
		client_id BIGINT REFERENCES clients(id),
		mark_text TEXT,
		nice_classes INTEGER[],
		filing_date DATE,
		status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS deadlines (
		id BIGSERIAL PRIMARY KEY,
		external_ref TEXT NOT NULL UNIQUE,
		related_table TEXT,
		related_id BIGINT,
		due_date DATE,
		description TEXT,
		status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS migration_runs (
		id BIGSERIAL PRIMARY KEY,
		run_key UUID NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS migration_row_counts (
		id BIGSERIAL PRIMARY KEY,
		run_id BIGINT NOT NULL REFERENCES migration_runs(id),
		table_name TEXT NOT NULL,
		inserted INTEGER NOT NULL,
		updated INTEGER NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the target and audit tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
