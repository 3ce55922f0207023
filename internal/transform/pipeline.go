package transform

import (
	"log/slog"
	"strings"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/source"
)

// Pipeline maps raw extracts into normalized records. Field-level
// normalization failures degrade to empty values plus a warning,
// collected per entity; they must not stop the migration.
type Pipeline struct {
	norm     *normalize.Normalizer
	log      *slog.Logger
	warnings map[schema.Entity][]normalize.Warning
}

// NewPipeline creates a pipeline over the given normalizer.
func NewPipeline(norm *normalize.Normalizer) *Pipeline {
	return &Pipeline{
		norm:     norm,
		log:      slog.Default(),
		warnings: make(map[schema.Entity][]normalize.Warning),
	}
}

// Warnings returns the field-level warnings collected by the most recent
// transform of the entity.
func (p *Pipeline) Warnings(entity schema.Entity) []normalize.Warning {
	return p.warnings[entity]
}

// Clients transforms the clients extract. Duplicate and empty external
// references are dropped keep-first.
func (p *Pipeline) Clients(ds *source.Dataset) []Client {
	out := make([]Client, 0, ds.Len())
	seen := make(map[string]bool, ds.Len())

	w := &normalize.Warnings{}
	emailW := w.Field("email")
	countryW := w.Field("country")
	createdW := w.Field("created_on")

	for i := 0; i < ds.Len(); i++ {
		ref := normalize.CleanString(ds.FirstField(i, schema.Clients.KeyColumns()...))
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		out = append(out, Client{
			ExternalRef: ref,
			Name:        normalize.SplitName(ds.Field(i, "client_name")).Full(),
			Email:       normalize.NormalizeEmail(ds.Field(i, "email"), emailW),
			Phone:       normalize.NormalizePhone(ds.Field(i, "phone")),
			Address:     composeAddress(ds, i),
			CountryCode: p.norm.CountryToISO2(ds.Field(i, "country"), countryW),
			CreatedOn:   normalize.ParseDate(ds.Field(i, "created_on"), createdW),
		})
	}
	p.finish(schema.Clients, ds.Len(), len(out), w)
	return out
}

// Patents transforms the patents extract, resolving client references
// through the identity map. Missing titles default to "Untitled".
func (p *Pipeline) Patents(ds *source.Dataset, clients IdentityMap) []Patent {
	out := make([]Patent, 0, ds.Len())
	seen := make(map[string]bool, ds.Len())

	w := &normalize.Warnings{}
	filingW := w.Field("filing_date")
	grantW := w.Field("grant_date")
	jurisdictionW := w.Field("jurisdiction")
	statusW := w.Field("status")

	for i := 0; i < ds.Len(); i++ {
		ref := normalize.CleanString(ds.FirstField(i, schema.Patents.KeyColumns()...))
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		title := normalize.CleanString(ds.Field(i, "title"))
		if title == "" {
			title = "Untitled"
		}
		out = append(out, Patent{
			ExternalRef:  ref,
			ClientID:     clients.Resolve(normalize.CleanString(ds.Field(i, "client_id"))),
			Title:        title,
			FilingDate:   normalize.ParseDate(ds.Field(i, "filing_date"), filingW),
			GrantDate:    normalize.ParseDate(ds.Field(i, "grant_date"), grantW),
			Jurisdiction: p.norm.Jurisdiction(ds.Field(i, "jurisdiction"), jurisdictionW),
			Status:       p.norm.NormalizeStatus(ds.Field(i, "status"), "patent", statusW),
		})
	}
	p.finish(schema.Patents, ds.Len(), len(out), w)
	return out
}

// Trademarks transforms the trademarks extract.
func (p *Pipeline) Trademarks(ds *source.Dataset, clients IdentityMap) []Trademark {
	out := make([]Trademark, 0, ds.Len())
	seen := make(map[string]bool, ds.Len())

	w := &normalize.Warnings{}
	filingW := w.Field("filing_date")
	statusW := w.Field("status")

	for i := 0; i < ds.Len(); i++ {
		ref := normalize.CleanString(ds.FirstField(i, schema.Trademarks.KeyColumns()...))
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		out = append(out, Trademark{
			ExternalRef: ref,
			ClientID:    clients.Resolve(normalize.CleanString(ds.Field(i, "client_id"))),
			MarkText:    normalize.CleanString(ds.Field(i, "mark_text")),
			NiceClasses: normalize.ParseClasses(ds.FirstField(i, schema.ClassColumns()...)),
			FilingDate:  normalize.ParseDate(ds.Field(i, "filing_date"), filingW),
			Status:      p.norm.NormalizeStatus(ds.Field(i, "status"), "trademark", statusW),
		})
	}
	p.finish(schema.Trademarks, ds.Len(), len(out), w)
	return out
}

// Deadlines transforms the deadlines extract. related_type "patent"
// selects the patents table and map; anything else means trademarks.
func (p *Pipeline) Deadlines(ds *source.Dataset, patents, trademarks IdentityMap) []Deadline {
	out := make([]Deadline, 0, ds.Len())
	seen := make(map[string]bool, ds.Len())

	w := &normalize.Warnings{}
	dueW := w.Field("due_date")
	statusW := w.Field("status")

	for i := 0; i < ds.Len(); i++ {
		ref := normalize.CleanString(ds.FirstField(i, schema.Deadlines.KeyColumns()...))
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		relatedTable := "trademarks"
		related := trademarks
		if strings.EqualFold(normalize.CleanString(ds.Field(i, "related_type")), "patent") {
			relatedTable = "patents"
			related = patents
		}
		out = append(out, Deadline{
			ExternalRef:  ref,
			RelatedTable: relatedTable,
			RelatedID:    related.Resolve(normalize.CleanString(ds.Field(i, "related_id"))),
			DueDate:      normalize.ParseDate(ds.Field(i, "due_date"), dueW),
			Description:  normalize.CleanString(ds.Field(i, "description")),
			Status:       p.norm.NormalizeStatus(ds.Field(i, "status"), "deadline", statusW),
		})
	}
	p.finish(schema.Deadlines, ds.Len(), len(out), w)
	return out
}

// ExternalRefs projects the external references of transformed clients,
// preserving order, for sequential identity assignment in dry-run mode.
func ExternalRefs[R interface{ Ref() string }](records []R) []string {
	refs := make([]string, len(records))
	for i, r := range records {
		refs[i] = r.Ref()
	}
	return refs
}

// Ref returns the record's external reference.
func (c Client) Ref() string    { return c.ExternalRef }
func (p Patent) Ref() string    { return p.ExternalRef }
func (t Trademark) Ref() string { return t.ExternalRef }
func (d Deadline) Ref() string  { return d.ExternalRef }

// composeAddress joins the legacy address parts into one line. Extracts
// that already carry a single address column pass through unchanged.
func composeAddress(ds *source.Dataset, i int) string {
	if ds.HasColumn("address") {
		return normalize.CleanString(ds.Field(i, "address"))
	}

	var parts []string
	street := normalize.CleanString(ds.Field(i, "address_line1"))
	if line2 := normalize.CleanString(ds.Field(i, "address_line2")); line2 != "" {
		street = strings.TrimSpace(street + " " + line2)
	}
	if street != "" {
		parts = append(parts, street)
	}
	if city := normalize.CleanString(ds.Field(i, "city")); city != "" {
		parts = append(parts, city)
	}
	region := normalize.CleanString(ds.Field(i, "state_province"))
	if postal := normalize.CleanString(ds.Field(i, "postal_code")); postal != "" {
		region = strings.TrimSpace(region + " " + postal)
	}
	if region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}

// finish stores the entity's collected warnings and logs the transform
// outcome. Warnings are non-fatal: they surface data that degraded to
// empty values.
func (p *Pipeline) finish(entity schema.Entity, in, out int, w *normalize.Warnings) {
	p.warnings[entity] = w.All()
	p.log.Debug("entity transformed",
		"entity", entity,
		"rows_in", in,
		"rows_out", out,
	)
	if w.Len() > 0 {
		p.log.Warn("normalization warnings",
			"entity", entity,
			"count", w.Len(),
		)
	}
}
