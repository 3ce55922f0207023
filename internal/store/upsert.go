package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/transform"
)

// Upsert statements conflict on external_ref and update the mutable
// columns, so re-running against unchanged input changes nothing but the
// audit counts. RETURNING (xmax = 0) reports whether the row was freshly
// inserted.
const (
	upsertClientSQL = `INSERT INTO clients (external_ref, name, email, phone, address, country_code, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_ref) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone,
			address = EXCLUDED.address, country_code = EXCLUDED.country_code, created_on = EXCLUDED.created_on
		RETURNING (xmax = 0)`

	upsertPatentSQL = `INSERT INTO patents (external_ref, client_id, title, filing_date, grant_date, jurisdiction, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_ref) DO UPDATE
		SET client_id = EXCLUDED.client_id, title = EXCLUDED.title, filing_date = EXCLUDED.filing_date,
			grant_date = EXCLUDED.grant_date, jurisdiction = EXCLUDED.jurisdiction, status = EXCLUDED.status
		RETURNING (xmax = 0)`

	upsertTrademarkSQL = `INSERT INTO trademarks (external_ref, client_id, mark_text, nice_classes, filing_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_ref) DO UPDATE
		SET client_id = EXCLUDED.client_id, mark_text = EXCLUDED.mark_text, nice_classes = EXCLUDED.nice_classes,
			filing_date = EXCLUDED.filing_date, status = EXCLUDED.status
		RETURNING (xmax = 0)`

	upsertDeadlineSQL = `INSERT INTO deadlines (external_ref, related_table, related_id, due_date, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_ref) DO UPDATE
		SET related_table = EXCLUDED.related_table, related_id = EXCLUDED.related_id, due_date = EXCLUDED.due_date,
			description = EXCLUDED.description, status = EXCLUDED.status
		RETURNING (xmax = 0)`
)

// UpsertClients loads clients in one batched round trip.
func (s *Store) UpsertClients(ctx context.Context, records []transform.Client) (RowCounts, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertClientSQL,
			r.ExternalRef, pgText(r.Name), pgText(r.Email), pgText(r.Phone),
			pgText(r.Address), pgText(r.CountryCode), pgDate(r.CreatedOn))
	}
	return s.sendBatch(ctx, schema.Clients, batch, len(records))
}

// UpsertPatents loads patents in one batched round trip.
func (s *Store) UpsertPatents(ctx context.Context, records []transform.Patent) (RowCounts, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertPatentSQL,
			r.ExternalRef, pgID(r.ClientID), pgText(r.Title), pgDate(r.FilingDate),
			pgDate(r.GrantDate), pgText(r.Jurisdiction), pgText(r.Status))
	}
	return s.sendBatch(ctx, schema.Patents, batch, len(records))
}

// UpsertTrademarks loads trademarks in one batched round trip.
func (s *Store) UpsertTrademarks(ctx context.Context, records []transform.Trademark) (RowCounts, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertTrademarkSQL,
			r.ExternalRef, pgID(r.ClientID), pgText(r.MarkText), pgClasses(r.NiceClasses),
			pgDate(r.FilingDate), pgText(r.Status))
	}
	return s.sendBatch(ctx, schema.Trademarks, batch, len(records))
}

// UpsertDeadlines loads deadlines in one batched round trip.
func (s *Store) UpsertDeadlines(ctx context.Context, records []transform.Deadline) (RowCounts, error) {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertDeadlineSQL,
			r.ExternalRef, pgText(r.RelatedTable), pgID(r.RelatedID), pgDate(r.DueDate),
			pgText(r.Description), pgText(r.Status))
	}
	return s.sendBatch(ctx, schema.Deadlines, batch, len(records))
}

// sendBatch executes the queued upserts and tallies inserted vs updated
// rows from the per-row RETURNING flag.
func (s *Store) sendBatch(ctx context.Context, entity schema.Entity, batch *pgx.Batch, n int) (RowCounts, error) {
	var counts RowCounts
	if n == 0 {
		return counts, nil
	}

	results := s.db.SendBatch(ctx, batch)
	for i := 0; i < n; i++ {
		var inserted bool
		if err := results.QueryRow().Scan(&inserted); err != nil {
			results.Close()
			return counts, fmt.Errorf("upsert %s row %d: %w", entity, i, err)
		}
		if inserted {
			counts.Inserted++
		} else {
			counts.Updated++
		}
	}
	if err := results.Close(); err != nil {
		return counts, fmt.Errorf("upsert %s: %w", entity, err)
	}

	s.log.Info("entity loaded",
		"entity", entity,
		"inserted", counts.Inserted,
		"updated", counts.Updated,
	)
	return counts, nil
}

// IdentityMap reads back id-by-external_ref for an entity table, the
// authoritative mapping dependent entities resolve against.
func (s *Store) IdentityMap(ctx context.Context, entity schema.Entity) (transform.IdentityMap, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT id, external_ref FROM %s", entity.Table()))
	if err != nil {
		return nil, fmt.Errorf("read %s identity map: %w", entity, err)
	}
	defer rows.Close()

	m := transform.IdentityMap{}
	for rows.Next() {
		var id int64
		var ref string
		if err := rows.Scan(&id, &ref); err != nil {
			return nil, fmt.Errorf("scan %s identity map: %w", entity, err)
		}
		m[ref] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s identity map: %w", entity, err)
	}
	return m, nil
}
