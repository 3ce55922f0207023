// Package config provides centralized configuration management for the
// migration pipeline. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail
// fast on misconfiguration.
package config

import "time"

// Config holds all pipeline configuration.
// All settings can be configured via environment variables.
type Config struct {
	Paths   PathsConfig
	Target  TargetConfig
	Reports ReportsConfig
	Logging LoggingConfig
}

// PathsConfig holds the data directories the pipeline reads and writes.
type PathsConfig struct {
	// LegacyDir is where the legacy CSV extracts live (default: data/legacy_csv)
	LegacyDir string `env:"LEGACY_DATA_DIR" default:"data/legacy_csv"`

	// TransformedDir is where dry-run mode writes normalized CSVs (default: data/transformed_csv)
	TransformedDir string `env:"TRANSFORMED_DATA_DIR" default:"data/transformed_csv"`

	// ReportsDir is where validation report artifacts are persisted (default: data/validation_reports)
	ReportsDir string `env:"VALIDATION_REPORT_DIR" default:"data/validation_reports"`
}

// TargetConfig holds target database settings.
//
// URL is optional: when empty the pipeline runs in dry-run mode and writes
// transformed CSVs instead of loading a database.
type TargetConfig struct {
	// URL is the PostgreSQL connection string. Empty selects dry-run mode.
	URL string `env:"TARGET_DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 8)
	MaxConns int `env:"DB_MAX_CONNS" default:"8"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// ConnectTimeout is the maximum duration to wait for the initial
	// connection (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// ReportsConfig holds validation report settings.
type ReportsConfig struct {
	// HistoryLimit is how many past reports History() returns (default: 10)
	HistoryLimit int `env:"REPORT_HISTORY_LIMIT" default:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DryRun reports whether the pipeline should write transformed CSVs
// instead of loading the target database.
func (c *Config) DryRun() bool {
	return c.Target.URL == ""
}
