package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/source"
)

// Finding is one semantic rule violation on one record.
type Finding struct {
	Rule     string `json:"rule"`
	RecordID string `json:"record_id"`
	Message  string `json:"message"`
}

// RuleValidator runs entity-specific business rules over raw extracts.
// The clock is injected so deadline rules are testable.
type RuleValidator struct {
	norm *normalize.Normalizer
	now  func() time.Time
}

// NewRuleValidator creates a validator. A nil now uses time.Now.
func NewRuleValidator(norm *normalize.Normalizer, now func() time.Time) *RuleValidator {
	if now == nil {
		now = time.Now
	}
	return &RuleValidator{norm: norm, now: now}
}

// Validate runs the entity's business rules and returns all findings.
func (v *RuleValidator) Validate(ds *source.Dataset, entity schema.Entity) []Finding {
	findings := []Finding{}
	if ds == nil {
		return findings
	}

	switch entity {
	case schema.Clients:
		findings = append(findings, v.clientRules(ds)...)
	case schema.Patents:
		findings = append(findings, v.patentRules(ds)...)
	case schema.Trademarks:
		findings = append(findings, v.trademarkRules(ds)...)
	case schema.Deadlines:
		findings = append(findings, v.deadlineRules(ds)...)
	}
	return findings
}

// clientRules: a non-empty email must be a valid address.
func (v *RuleValidator) clientRules(ds *source.Dataset) []Finding {
	var findings []Finding
	for i := 0; i < ds.Len(); i++ {
		email := ds.Field(i, "email")
		if email == "" {
			continue
		}
		if normalize.NormalizeEmail(email, nil) == "" {
			findings = append(findings, Finding{
				Rule:     "Email format validation",
				RecordID: recordID(ds, schema.Clients, i),
				Message:  fmt.Sprintf("Invalid email format: %s", email),
			})
		}
	}
	return findings
}

// patentRules: when both dates parse, filing must not be after grant.
func (v *RuleValidator) patentRules(ds *source.Dataset) []Finding {
	var findings []Finding
	for i := 0; i < ds.Len(); i++ {
		filing := normalize.ParseDate(ds.Field(i, "filing_date"), nil)
		grant := normalize.ParseDate(ds.Field(i, "grant_date"), nil)
		if filing == "" || grant == "" {
			continue
		}
		// ISO dates compare correctly as strings.
		if filing > grant {
			findings = append(findings, Finding{
				Rule:     "Filing date before grant date",
				RecordID: recordID(ds, schema.Patents, i),
				Message:  fmt.Sprintf("Filing date (%s) is after grant date (%s)", filing, grant),
			})
		}
	}
	return findings
}

// trademarkRules: a non-empty classes field must yield at least one class.
func (v *RuleValidator) trademarkRules(ds *source.Dataset) []Finding {
	var findings []Finding
	for i := 0; i < ds.Len(); i++ {
		raw := ds.FirstField(i, schema.ClassColumns()...)
		if normalize.CleanString(raw) == "" {
			continue
		}
		if len(normalize.ParseClasses(raw)) == 0 {
			findings = append(findings, Finding{
				Rule:     "Valid Nice classes required",
				RecordID: recordID(ds, schema.Trademarks, i),
				Message:  fmt.Sprintf("Invalid Nice classes: %s", raw),
			})
		}
	}
	return findings
}

// deadlineRules: a pending deadline's due date must not be in the past.
func (v *RuleValidator) deadlineRules(ds *source.Dataset) []Finding {
	var findings []Finding
	today := v.now().Format("2006-01-02")

	for i := 0; i < ds.Len(); i++ {
		status := strings.ToLower(strings.TrimSpace(ds.Field(i, "status")))
		if status != "pending" {
			continue
		}
		due := normalize.ParseDate(ds.Field(i, "due_date"), nil)
		if due != "" && due < today {
			findings = append(findings, Finding{
				Rule:     "Pending deadline due date validation",
				RecordID: recordID(ds, schema.Deadlines, i),
				Message:  fmt.Sprintf("Pending deadline has past due date: %s", due),
			})
		}
	}
	return findings
}

// BusinessScore derives the business-rule score from the finding count:
// each finding costs 5 points off 100, floored at 0.
func BusinessScore(findings []Finding) float64 {
	score := 100 - 5*float64(len(findings))
	if score < 0 {
		return 0
	}
	return score
}

// recordID identifies a record for findings: its natural key when present,
// otherwise its row index.
func recordID(ds *source.Dataset, entity schema.Entity, i int) string {
	if key := normalize.CleanString(ds.FirstField(i, entity.KeyColumns()...)); key != "" {
		return key
	}
	return fmt.Sprintf("row %d", i)
}
