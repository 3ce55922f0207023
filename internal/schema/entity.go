// Package schema describes the legacy extract shapes the pipeline accepts.
//
// Each entity carries the metadata the validation and transform stages need:
// the source file name, the legacy natural-key column (with the fallback
// spellings observed in older extracts), the critical fields the quality
// scorer checks, and the date columns subject to date validation.
package schema

// Entity identifies one legacy entity type.
type Entity string

const (
	Clients    Entity = "clients"
	Patents    Entity = "patents"
	Trademarks Entity = "trademarks"
	Deadlines  Entity = "deadlines"
)

// All returns the entities in migration dependency order:
// clients first, deadlines last.
func All() []Entity {
	return []Entity{Clients, Patents, Trademarks, Deadlines}
}

// FileName returns the legacy extract file name for the entity.
func (e Entity) FileName() string {
	return string(e) + ".csv"
}

// Table returns the target table name for the entity.
func (e Entity) Table() string {
	return string(e)
}

// KeyColumns returns the legacy natural-key column names, primary first.
// Older extracts used abbreviated headers for some entities, so fallback
// spellings are accepted.
func (e Entity) KeyColumns() []string {
	switch e {
	case Clients:
		return []string{"client_id"}
	case Patents:
		return []string{"patent_id"}
	case Trademarks:
		return []string{"tm_id", "trademark_id"}
	case Deadlines:
		return []string{"deadline_id", "dl_id"}
	}
	return nil
}

// CriticalFields returns the fields whose absence counts against the
// entity's quality score.
func (e Entity) CriticalFields() []string {
	switch e {
	case Clients:
		return []string{"client_name", "email"}
	case Patents, Trademarks:
		return []string{titleColumn(e), "client_id", "status"}
	}
	return nil
}

// DateColumns returns the date fields the quality scorer validates.
// Only the IP-asset entities carry scored date fields.
func (e Entity) DateColumns() []string {
	switch e {
	case Patents:
		return []string{"filing_date", "grant_date", "registration_date"}
	case Trademarks:
		return []string{"filing_date", "grant_date", "registration_date"}
	}
	return nil
}

// ClassColumns returns the classification column names for trademarks,
// primary first.
func ClassColumns() []string {
	return []string{"nice_classes", "class"}
}

// titleColumn is the "title" critical field per entity: patents call it
// title, trademarks call it mark_text but legacy quality checks used the
// shared title spelling, so both are checked under the column that exists.
func titleColumn(e Entity) string {
	if e == Trademarks {
		return "mark_text"
	}
	return "title"
}
