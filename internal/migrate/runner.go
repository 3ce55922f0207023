// Package migrate orchestrates the end-to-end migration: read extracts,
// transform, and either load into PostgreSQL with audit records or write
// normalized CSVs in dry-run mode.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jmcalloway/ipmigrate/internal/logging"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/source"
	"github.com/jmcalloway/ipmigrate/internal/store"
	"github.com/jmcalloway/ipmigrate/internal/transform"
)

// Migration modes.
const (
	ModeDryRun = "dry-run"
	ModeLoaded = "loaded"
)

// targetStore is the store surface the runner needs; *store.Store
// satisfies it.
type targetStore interface {
	EnsureSchema(ctx context.Context) error
	CreateRun(ctx context.Context, runKey uuid.UUID, notes string) (int64, error)
	FinishRun(ctx context.Context, id int64, status string) error
	RecordRowCounts(ctx context.Context, runID int64, entity schema.Entity, counts store.RowCounts) error
	UpsertClients(ctx context.Context, records []transform.Client) (store.RowCounts, error)
	UpsertPatents(ctx context.Context, records []transform.Patent) (store.RowCounts, error)
	UpsertTrademarks(ctx context.Context, records []transform.Trademark) (store.RowCounts, error)
	UpsertDeadlines(ctx context.Context, records []transform.Deadline) (store.RowCounts, error)
	IdentityMap(ctx context.Context, entity schema.Entity) (transform.IdentityMap, error)
}

// Result summarizes one migration run.
type Result struct {
	RunID     int64
	RunKey    uuid.UUID
	Mode      string
	Counts    map[schema.Entity]store.RowCounts
	DryRunDir string
}

// Runner executes migrations over a legacy extract directory. A nil
// store selects dry-run mode.
type Runner struct {
	sourceDir string
	outDir    string
	pipeline  *transform.Pipeline
	store     targetStore
	log       *slog.Logger
}

// NewRunner creates a runner. store nil means dry-run: transformed CSVs
// are written to outDir and nothing touches a database.
func NewRunner(sourceDir, outDir string, pipeline *transform.Pipeline, st targetStore) *Runner {
	return &Runner{
		sourceDir: sourceDir,
		outDir:    outDir,
		pipeline:  pipeline,
		store:     st,
		log:       slog.Default(),
	}
}

// Run migrates all entities in dependency order: clients, patents,
// trademarks, deadlines. A missing extract skips that entity and its
// dependents still run against whatever identity maps exist.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.store == nil {
		return r.runDry()
	}
	return r.runLoaded(ctx)
}

// readEntity loads one extract, distinguishing absence from failure.
func (r *Runner) readEntity(entity schema.Entity) (*source.Dataset, error) {
	path := filepath.Join(r.sourceDir, entity.FileName())
	ds, err := source.ReadFile(path)
	if errors.Is(err, source.ErrSourceMissing) {
		r.log.Warn("extract missing, entity skipped", "entity", entity, "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s extract: %w", entity, err)
	}
	return ds, nil
}

// runDry transforms every entity with sequential identity maps and
// writes the normalized CSVs.
func (r *Runner) runDry() (*Result, error) {
	result := &Result{
		RunKey:    uuid.New(),
		Mode:      ModeDryRun,
		Counts:    make(map[schema.Entity]store.RowCounts),
		DryRunDir: r.outDir,
	}
	writer, err := transform.NewWriter(r.outDir)
	if err != nil {
		return nil, err
	}

	clientMap := transform.IdentityMap{}
	if ds, err := r.readEntity(schema.Clients); err != nil {
		return nil, err
	} else if ds != nil {
		clients := r.pipeline.Clients(ds)
		if err := writer.WriteClients(clients); err != nil {
			return nil, err
		}
		clientMap = transform.SequentialIDs(transform.ExternalRefs(clients))
		result.Counts[schema.Clients] = store.RowCounts{Inserted: len(clients)}
	}

	patentMap := transform.IdentityMap{}
	if ds, err := r.readEntity(schema.Patents); err != nil {
		return nil, err
	} else if ds != nil {
		patents := r.pipeline.Patents(ds, clientMap)
		if err := writer.WritePatents(patents); err != nil {
			return nil, err
		}
		patentMap = transform.SequentialIDs(transform.ExternalRefs(patents))
		result.Counts[schema.Patents] = store.RowCounts{Inserted: len(patents)}
	}

	tmMap := transform.IdentityMap{}
	if ds, err := r.readEntity(schema.Trademarks); err != nil {
		return nil, err
	} else if ds != nil {
		tms := r.pipeline.Trademarks(ds, clientMap)
		if err := writer.WriteTrademarks(tms); err != nil {
			return nil, err
		}
		tmMap = transform.SequentialIDs(transform.ExternalRefs(tms))
		result.Counts[schema.Trademarks] = store.RowCounts{Inserted: len(tms)}
	}

	if ds, err := r.readEntity(schema.Deadlines); err != nil {
		return nil, err
	} else if ds != nil {
		deadlines := r.pipeline.Deadlines(ds, patentMap, tmMap)
		if err := writer.WriteDeadlines(deadlines); err != nil {
			return nil, err
		}
		result.Counts[schema.Deadlines] = store.RowCounts{Inserted: len(deadlines)}
	}

	r.log.Info("dry run complete", "output_dir", r.outDir)
	return result, nil
}

// runLoaded migrates into the target database under an audited run
// record. The record is finalized in a deferred step so a failure at any
// stage still leaves the run marked failed rather than stuck running.
func (r *Runner) runLoaded(ctx context.Context) (result *Result, err error) {
	if err := r.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	result = &Result{
		RunKey: uuid.New(),
		Mode:   ModeLoaded,
		Counts: make(map[schema.Entity]store.RowCounts),
	}
	runID, err := r.store.CreateRun(ctx, result.RunKey, "ETL start")
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	runLog := logging.WithFields("run_id", runID, "run_key", result.RunKey)
	runLog.Info("migration run started")

	defer func() {
		status := store.RunSuccess
		p := recover()
		if err != nil || p != nil {
			status = store.RunFailed
		}
		if finErr := r.store.FinishRun(ctx, runID, status); finErr != nil {
			runLog.Error("run finalization failed", "error", finErr)
		}
		if p != nil {
			panic(p)
		}
	}()

	clientMap, err := r.loadClients(ctx, result)
	if err != nil {
		return nil, err
	}
	patentMap, tmMap, err := r.loadAssets(ctx, result, clientMap)
	if err != nil {
		return nil, err
	}
	if err = r.loadDeadlines(ctx, result, patentMap, tmMap); err != nil {
		return nil, err
	}

	runLog.Info("migration run complete")
	return result, nil
}

func (r *Runner) loadClients(ctx context.Context, result *Result) (transform.IdentityMap, error) {
	ds, err := r.readEntity(schema.Clients)
	if err != nil || ds == nil {
		return transform.IdentityMap{}, err
	}

	counts, err := r.store.UpsertClients(ctx, r.pipeline.Clients(ds))
	if err != nil {
		return nil, err
	}
	result.Counts[schema.Clients] = counts
	if err := r.store.RecordRowCounts(ctx, result.RunID, schema.Clients, counts); err != nil {
		return nil, err
	}
	return r.store.IdentityMap(ctx, schema.Clients)
}

func (r *Runner) loadAssets(ctx context.Context, result *Result, clientMap transform.IdentityMap) (transform.IdentityMap, transform.IdentityMap, error) {
	patentMap := transform.IdentityMap{}
	if ds, err := r.readEntity(schema.Patents); err != nil {
		return nil, nil, err
	} else if ds != nil {
		counts, err := r.store.UpsertPatents(ctx, r.pipeline.Patents(ds, clientMap))
		if err != nil {
			return nil, nil, err
		}
		result.Counts[schema.Patents] = counts
		if err := r.store.RecordRowCounts(ctx, result.RunID, schema.Patents, counts); err != nil {
			return nil, nil, err
		}
		if patentMap, err = r.store.IdentityMap(ctx, schema.Patents); err != nil {
			return nil, nil, err
		}
	}

	tmMap := transform.IdentityMap{}
	if ds, err := r.readEntity(schema.Trademarks); err != nil {
		return nil, nil, err
	} else if ds != nil {
		counts, err := r.store.UpsertTrademarks(ctx, r.pipeline.Trademarks(ds, clientMap))
		if err != nil {
			return nil, nil, err
		}
		result.Counts[schema.Trademarks] = counts
		if err := r.store.RecordRowCounts(ctx, result.RunID, schema.Trademarks, counts); err != nil {
			return nil, nil, err
		}
		if tmMap, err = r.store.IdentityMap(ctx, schema.Trademarks); err != nil {
			return nil, nil, err
		}
	}
	return patentMap, tmMap, nil
}

func (r *Runner) loadDeadlines(ctx context.Context, result *Result, patentMap, tmMap transform.IdentityMap) error {
	ds, err := r.readEntity(schema.Deadlines)
	if err != nil || ds == nil {
		return err
	}

	counts, err := r.store.UpsertDeadlines(ctx, r.pipeline.Deadlines(ds, patentMap, tmMap))
	if err != nil {
		return err
	}
	result.Counts[schema.Deadlines] = counts
	return r.store.RecordRowCounts(ctx, result.RunID, schema.Deadlines, counts)
}
