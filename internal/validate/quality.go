// Package validate computes data-quality metrics, business-rule findings,
// and referential-integrity findings over legacy extracts, and aggregates
// them into persisted validation reports.
//
// Validation is read-only: it inspects the raw extracts (not the
// transformed output) and never blocks the migration. Findings are data,
// not errors.
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/source"
)

// QualityMetrics quantifies the completeness and validity of one extract.
type QualityMetrics struct {
	TotalRows             int      `json:"total_rows"`
	MissingCriticalFields int      `json:"missing_critical_fields"`
	InvalidDates          int      `json:"invalid_dates"`
	InvalidEmails         int      `json:"invalid_emails"`
	DuplicateRecords      int      `json:"duplicate_records"`
	QualityScore          float64  `json:"quality_score"`
	Issues                []string `json:"issues"`
}

// ScoreQuality computes quality metrics for an entity's raw extract.
//
// Counted issues: duplicate external references, empty critical fields,
// unparseable non-empty dates in the entity's date columns, and (for
// clients) rows without a valid email. The score is
// max(0, 100 - issues/rows*100) rounded to two decimals; an empty dataset
// scores 0 with no issues.
func ScoreQuality(ds *source.Dataset, entity schema.Entity) QualityMetrics {
	m := QualityMetrics{Issues: []string{}}
	if ds == nil || ds.Len() == 0 {
		return m
	}
	m.TotalRows = ds.Len()

	// Duplicate natural keys: every occurrence after the first counts.
	seen := make(map[string]bool, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		key := normalize.CleanString(ds.FirstField(i, entity.KeyColumns()...))
		if key == "" {
			continue
		}
		if seen[key] {
			m.DuplicateRecords++
		}
		seen[key] = true
	}
	if m.DuplicateRecords > 0 {
		m.Issues = append(m.Issues, fmt.Sprintf("%d duplicate external references found", m.DuplicateRecords))
	}

	// Critical fields, only for columns the extract actually carries.
	for _, field := range entity.CriticalFields() {
		if !ds.HasColumn(field) {
			continue
		}
		missing := 0
		for i := 0; i < ds.Len(); i++ {
			if normalize.CleanString(ds.Field(i, field)) == "" {
				missing++
			}
		}
		if missing > 0 {
			m.MissingCriticalFields += missing
			m.Issues = append(m.Issues, fmt.Sprintf("%d records missing %s", missing, field))
		}
	}

	// Date validity across the entity's known date columns.
	for _, field := range entity.DateColumns() {
		if !ds.HasColumn(field) {
			continue
		}
		invalid := 0
		for i := 0; i < ds.Len(); i++ {
			raw := normalize.CleanString(ds.Field(i, field))
			if raw != "" && !normalize.ValidDate(raw) {
				invalid++
			}
		}
		if invalid > 0 {
			m.InvalidDates += invalid
			m.Issues = append(m.Issues, fmt.Sprintf("%d invalid %s values", invalid, field))
		}
	}

	// Email validity is a client-only concern. A row counts as invalid
	// when its email is empty or fails normalization.
	if entity == schema.Clients && ds.HasColumn("email") {
		valid := 0
		for i := 0; i < ds.Len(); i++ {
			raw := ds.Field(i, "email")
			if raw != "" && normalize.NormalizeEmail(raw, nil) != "" {
				valid++
			}
		}
		m.InvalidEmails = m.TotalRows - valid
		if m.InvalidEmails > 0 {
			m.Issues = append(m.Issues, fmt.Sprintf("%d invalid email addresses", m.InvalidEmails))
		}
	}

	total := m.MissingCriticalFields + m.InvalidDates + m.InvalidEmails + m.DuplicateRecords
	m.QualityScore = roundScore(100 - float64(total)/float64(m.TotalRows)*100)
	return m
}

// roundScore clamps a score to [0, 100] and rounds it to two decimals.
// decimal keeps the rounding deterministic across platforms.
func roundScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	rounded, _ := decimal.NewFromFloat(score).Round(2).Float64()
	return rounded
}
