package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jmcalloway/ipmigrate/internal/schema"
)

// Migration run statuses. A run is created as RunRunning and always
// finalized to RunSuccess or RunFailed before the process exits.
const (
	RunRunning = "running"
	RunSuccess = "success"
	RunFailed  = "failed"
)

// CreateRun opens a migration run record and returns its id.
func (s *Store) CreateRun(ctx context.Context, runKey uuid.UUID, notes string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO migration_runs (run_key, status, notes) VALUES ($1, $2, $3) RETURNING id`,
		pgtype.UUID{Bytes: runKey, Valid: true}, RunRunning, pgText(notes),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create migration run: %w", err)
	}
	return id, nil
}

// FinishRun finalizes a run's status and stamps its finish time.
func (s *Store) FinishRun(ctx context.Context, id int64, status string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE migration_runs SET status = $1, finished_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("finish migration run %d: %w", id, err)
	}
	return nil
}

// RecordRowCounts appends one entity's audit counts to the run.
func (s *Store) RecordRowCounts(ctx context.Context, runID int64, entity schema.Entity, counts RowCounts) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO migration_row_counts (run_id, table_name, inserted, updated) VALUES ($1, $2, $3, $4)`,
		runID, entity.Table(), counts.Inserted, counts.Updated,
	)
	if err != nil {
		return fmt.Errorf("record %s row counts: %w", entity, err)
	}
	return nil
}
