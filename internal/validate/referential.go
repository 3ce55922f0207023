package validate

import (
	"fmt"
	"strings"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/source"
)

// KeySet collects an extract's natural keys as the authoritative set
// dependent entities are checked against.
func KeySet(ds *source.Dataset, entity schema.Entity) map[string]bool {
	keys := make(map[string]bool)
	if ds == nil {
		return keys
	}
	for i := 0; i < ds.Len(); i++ {
		if key := normalize.CleanString(ds.FirstField(i, entity.KeyColumns()...)); key != "" {
			keys[key] = true
		}
	}
	return keys
}

// RefChecker verifies foreign-key-like references against authoritative
// key sets. A nil set means the referenced extract was unavailable and
// that check is skipped.
type RefChecker struct {
	clients    map[string]bool
	patents    map[string]bool
	trademarks map[string]bool
}

// NewRefChecker creates a checker over the given authoritative key sets.
func NewRefChecker(clients, patents, trademarks map[string]bool) *RefChecker {
	return &RefChecker{clients: clients, patents: patents, trademarks: trademarks}
}

// Check flags rows whose references do not resolve. Any dataset carrying a
// client_id column is checked against the client set; deadlines
// additionally resolve their polymorphic related_id against the patent or
// trademark set selected by related_type. Returns the findings and the
// number of references checked.
func (c *RefChecker) Check(ds *source.Dataset, entity schema.Entity) ([]Finding, int) {
	findings := []Finding{}
	checked := 0
	if ds == nil {
		return findings, checked
	}

	if c.clients != nil && ds.HasColumn("client_id") && entity != schema.Clients {
		for i := 0; i < ds.Len(); i++ {
			ref := normalize.CleanString(ds.Field(i, "client_id"))
			checked++
			if ref != "" && !c.clients[ref] {
				findings = append(findings, Finding{
					Rule:     "Valid client reference",
					RecordID: recordID(ds, entity, i),
					Message:  fmt.Sprintf("Invalid client_id reference: %s", ref),
				})
			}
		}
	}

	if entity == schema.Deadlines && ds.HasColumn("related_id") {
		for i := 0; i < ds.Len(); i++ {
			ref := normalize.CleanString(ds.Field(i, "related_id"))
			if ref == "" {
				continue
			}
			targets := c.trademarks
			targetName := "trademark"
			if strings.EqualFold(normalize.CleanString(ds.Field(i, "related_type")), "patent") {
				targets = c.patents
				targetName = "patent"
			}
			if targets == nil {
				continue
			}
			checked++
			if !targets[ref] {
				findings = append(findings, Finding{
					Rule:     "Valid related matter reference",
					RecordID: recordID(ds, entity, i),
					Message:  fmt.Sprintf("Invalid %s reference: %s", targetName, ref),
				})
			}
		}
	}

	return findings, checked
}
