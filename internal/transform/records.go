// Package transform maps raw legacy extracts into the normalized record
// shapes the target schema expects, resolving cross-entity references
// through identity maps.
//
// Transformation is pure per row. Rows whose external reference repeats an
// earlier one are dropped (keep-first), so downstream upserts see each
// natural key once per run.
package transform

import (
	"strconv"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
)

// Client is a normalized client row.
type Client struct {
	ExternalRef string
	Name        string
	Email       string
	Phone       string
	Address     string
	CountryCode string
	CreatedOn   string
}

// Patent is a normalized patent row. ClientID is nil when the legacy
// client reference did not resolve.
type Patent struct {
	ExternalRef  string
	ClientID     *int64
	Title        string
	FilingDate   string
	GrantDate    string
	Jurisdiction string
	Status       string
}

// Trademark is a normalized trademark row.
type Trademark struct {
	ExternalRef string
	ClientID    *int64
	MarkText    string
	NiceClasses []int
	FilingDate  string
	Status      string
}

// Deadline is a normalized deadline row. RelatedTable is "patents" or
// "trademarks"; RelatedID is nil when the related matter did not resolve.
type Deadline struct {
	ExternalRef  string
	RelatedTable string
	RelatedID    *int64
	DueDate      string
	Description  string
	Status       string
}

// Column orders for the dry-run CSV output. Fixed so repeated dry runs
// over the same input produce identical files.
var (
	clientColumns    = []string{"external_ref", "name", "email", "phone", "address", "country_code", "created_on"}
	patentColumns    = []string{"external_ref", "client_id", "title", "filing_date", "grant_date", "jurisdiction", "status"}
	trademarkColumns = []string{"external_ref", "client_id", "mark_text", "nice_classes", "filing_date", "status"}
	deadlineColumns  = []string{"external_ref", "related_table", "related_id", "due_date", "description", "status"}
)

func (c Client) row() []string {
	return []string{c.ExternalRef, c.Name, c.Email, c.Phone, c.Address, c.CountryCode, c.CreatedOn}
}

func (p Patent) row() []string {
	return []string{p.ExternalRef, idField(p.ClientID), p.Title, p.FilingDate, p.GrantDate, p.Jurisdiction, p.Status}
}

func (t Trademark) row() []string {
	return []string{t.ExternalRef, idField(t.ClientID), t.MarkText, normalize.FormatClasses(t.NiceClasses), t.FilingDate, t.Status}
}

func (d Deadline) row() []string {
	return []string{d.ExternalRef, d.RelatedTable, idField(d.RelatedID), d.DueDate, d.Description, d.Status}
}

// idField renders a resolved identity for CSV output; unresolved stays empty.
func idField(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
