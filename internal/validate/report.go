package validate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/source"
)

// Result statuses for one entity's validation.
const (
	StatusOK    = "success"
	StatusError = "error"
)

// Score weighting between data quality and business rules.
const (
	qualityWeight  = 0.7
	businessWeight = 0.3
)

// RuleResult wraps one rule family's findings for the report.
type RuleResult struct {
	Status   string    `json:"status"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Checked  int       `json:"checked"`
}

// EntityResult is one entity's complete validation outcome.
type EntityResult struct {
	EntityType  string         `json:"entity_type"`
	FilePath    string         `json:"file_path"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	RecordCount int            `json:"record_count"`
	Quality     QualityMetrics `json:"quality_metrics"`
	Business    RuleResult     `json:"business_validation"`
	Referential RuleResult     `json:"referential_validation"`
	Overall     float64        `json:"overall_score"`
}

// Report is the immutable artifact of one validation run.
type Report struct {
	ID                uuid.UUID               `json:"report_id"`
	GeneratedAt       time.Time               `json:"validation_timestamp"`
	SystemScore       float64                 `json:"system_quality_score"`
	EntitiesValidated int                     `json:"entities_validated"`
	Results           map[string]EntityResult `json:"results"`
}

// Validator runs the full validation pass over a legacy extract directory.
type Validator struct {
	dir   string
	norm  *normalize.Normalizer
	rules *RuleValidator
	log   *slog.Logger
}

// NewValidator creates a Validator reading extracts from dir.
// A nil now uses the wall clock for the deadline rules.
func NewValidator(dir string, norm *normalize.Normalizer, now func() time.Time) *Validator {
	return &Validator{
		dir:   dir,
		norm:  norm,
		rules: NewRuleValidator(norm, now),
		log:   slog.Default(),
	}
}

// ValidateAll validates every entity extract and aggregates the results
// into a Report. Missing or unreadable files degrade to error entries with
// score 0; sibling entities still complete. The system score is the mean
// of the entity scores that were actually computed.
func (v *Validator) ValidateAll() *Report {
	report := &Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now(),
		Results:     make(map[string]EntityResult, len(schema.All())),
	}

	// Authoritative key sets for referential checks, loaded once.
	datasets := make(map[schema.Entity]*source.Dataset, len(schema.All()))
	for _, entity := range schema.All() {
		ds, err := source.ReadFile(filepath.Join(v.dir, entity.FileName()))
		if err == nil {
			datasets[entity] = ds
		}
	}
	checker := NewRefChecker(
		keySetOrNil(datasets[schema.Clients], schema.Clients),
		keySetOrNil(datasets[schema.Patents], schema.Patents),
		keySetOrNil(datasets[schema.Trademarks], schema.Trademarks),
	)

	var scored int
	var scoreSum float64
	for _, entity := range schema.All() {
		result := v.validateEntity(entity, datasets[entity], checker)
		report.Results[string(entity)] = result
		if result.Status == StatusOK {
			scoreSum += result.Overall
			scored++
		}
	}

	report.EntitiesValidated = len(report.Results)
	if scored > 0 {
		report.SystemScore = roundScore(scoreSum / float64(scored))
	}

	v.log.Info("validation complete",
		"system_score", report.SystemScore,
		"entities", report.EntitiesValidated,
	)
	return report
}

// validateEntity builds one entity's result from its dataset.
func (v *Validator) validateEntity(entity schema.Entity, ds *source.Dataset, checker *RefChecker) EntityResult {
	path := filepath.Join(v.dir, entity.FileName())
	result := EntityResult{
		EntityType: string(entity),
		FilePath:   path,
	}

	if ds == nil {
		err := fmt.Errorf("%w: %s", source.ErrSourceMissing, path)
		v.log.Warn("entity skipped", "entity", entity, "error", err)
		result.Status = StatusError
		result.Error = err.Error()
		return result
	}

	result.Status = StatusOK
	result.RecordCount = ds.Len()
	result.Quality = ScoreQuality(ds, entity)

	businessFindings := v.rules.Validate(ds, entity)
	result.Business = RuleResult{
		Status:  "completed",
		Errors:  businessFindings,
		Checked: len(businessFindings),
	}

	refFindings, refChecked := checker.Check(ds, entity)
	result.Referential = RuleResult{
		Status:  "completed",
		Errors:  refFindings,
		Checked: refChecked,
	}

	result.Overall = roundScore(
		result.Quality.QualityScore*qualityWeight + BusinessScore(businessFindings)*businessWeight,
	)

	v.log.Info("entity validated",
		"entity", entity,
		"records", result.RecordCount,
		"score", result.Overall,
	)
	return result
}

func keySetOrNil(ds *source.Dataset, entity schema.Entity) map[string]bool {
	if ds == nil {
		return nil
	}
	return KeySet(ds, entity)
}
