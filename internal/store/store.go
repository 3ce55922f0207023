// Package store owns the PostgreSQL side of the migration: target and
// audit DDL, batched idempotent upserts keyed on external_ref, and the
// identity-map readbacks dependent entities resolve against.
package store

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the database surface the store needs. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so the same store runs pooled or inside a
// transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

// Store executes migration statements against the target database.
type Store struct {
	db  DBTX
	log *slog.Logger
}

// New creates a store over db.
func New(db DBTX) *Store {
	return &Store{db: db, log: slog.Default()}
}

// RowCounts is the audit outcome of one entity upsert.
type RowCounts struct {
	Inserted int
	Updated  int
}
