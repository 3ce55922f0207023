package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jmcalloway/ipmigrate/internal/config"
	"github.com/jmcalloway/ipmigrate/internal/logging"
	"github.com/jmcalloway/ipmigrate/internal/migrate"
	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/store"
	"github.com/jmcalloway/ipmigrate/internal/transform"
	"github.com/jmcalloway/ipmigrate/internal/validate"
)

// Exit codes for the validate command, by system quality score.
const (
	exitOK      = 0 // score >= 90
	exitWarn    = 1 // score >= 70
	exitPoor    = 2 // score < 70
	exitFailure = 3

	warnScore = 90.0
	poorScore = 70.0
)

type app struct {
	cfg *config.Config
}

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	a := &app{}
	root := &cobra.Command{
		Use:           "ipmigrate",
		Short:         "Migrate legacy IP-management CSV extracts into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			a.cfg = cfg
			return nil
		},
	}
	root.AddCommand(a.validateCmd(), a.migrateCmd(), a.reportsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitFailure)
	}
}

// validateCmd scores the legacy extracts and persists a validation
// report. The exit code grades the system score so schedulers can gate
// the migration on data quality.
func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate legacy extracts and persist a quality report",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validate.NewValidator(a.cfg.Paths.LegacyDir, normalize.New(nil), nil)
			report := v.ValidateAll()

			reports, err := validate.NewReportStore(a.cfg.Paths.ReportsDir)
			if err != nil {
				return err
			}
			path, err := reports.Save(report)
			if err != nil {
				return err
			}

			printReport(cmd, report, path)
			os.Exit(gradeScore(report.SystemScore))
			return nil
		},
	}
}

// migrateCmd runs the migration: dry-run when no target database is
// configured, loaded otherwise.
func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy extracts into PostgreSQL (dry-run without TARGET_DB_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := transform.NewPipeline(normalize.New(nil))
			runner := migrate.NewRunner(a.cfg.Paths.LegacyDir, a.cfg.Paths.TransformedDir, pipeline, nil)

			if !a.cfg.DryRun() {
				pool, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				defer pool.Close()
				runner = migrate.NewRunner(a.cfg.Paths.LegacyDir, a.cfg.Paths.TransformedDir, pipeline, store.New(pool))
			}

			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			printMigration(cmd, result)
			return nil
		},
	}
}

// reportsCmd lists past validation reports, newest first.
func (a *app) reportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List recent validation reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := validate.NewReportStore(a.cfg.Paths.ReportsDir)
			if err != nil {
				return err
			}
			history, err := reports.History(a.cfg.Reports.HistoryLimit)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No validation reports found.")
				return nil
			}
			for _, r := range history {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  score %.2f  entities %d  %s\n",
					r.GeneratedAt.Format("2006-01-02 15:04:05"), r.SystemScore, r.EntitiesValidated, r.ID)
			}
			return nil
		},
	}
}

func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(a.cfg.Target.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = int32(a.cfg.Target.MaxConns)
	poolCfg.MinConns = int32(a.cfg.Target.MinConns)

	connectCtx, cancel := context.WithTimeout(ctx, a.cfg.Target.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to target database: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping target database: %w", err)
	}
	return pool, nil
}

func gradeScore(score float64) int {
	switch {
	case score >= warnScore:
		return exitOK
	case score >= poorScore:
		return exitWarn
	default:
		return exitPoor
	}
}

func printReport(cmd *cobra.Command, report *validate.Report, path string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "System quality score: %.2f\n", report.SystemScore)

	names := make([]string, 0, len(report.Results))
	for name := range report.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r := report.Results[name]
		if r.Status == validate.StatusError {
			fmt.Fprintf(out, "  %-11s error: %s\n", name, r.Error)
			continue
		}
		fmt.Fprintf(out, "  %-11s %6.2f  (%d records, %d business findings, %d referential findings)\n",
			name, r.Overall, r.RecordCount, len(r.Business.Errors), len(r.Referential.Errors))
	}
	fmt.Fprintf(out, "Report written to %s\n", path)
}

func printMigration(cmd *cobra.Command, result *migrate.Result) {
	out := cmd.OutOrStdout()
	if result.Mode == migrate.ModeDryRun {
		fmt.Fprintf(out, "Dry run: transformed CSVs written to %s. Set TARGET_DB_URL to load into PostgreSQL.\n", result.DryRunDir)
	} else {
		fmt.Fprintf(out, "Migration run %d (%s) completed.\n", result.RunID, result.RunKey)
	}
	for _, entity := range schema.All() {
		if counts, ok := result.Counts[entity]; ok {
			fmt.Fprintf(out, "  %-11s inserted %d, updated %d\n", entity, counts.Inserted, counts.Updated)
		}
	}
}
