package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/transform"
)

// fakeDB records statements and serves canned batch and query results.
type fakeDB struct {
	execSQL    []string
	execArgs   [][]interface{}
	batch      *pgx.Batch
	batchFlags []bool
	queryRows  [][]interface{}
	rowValues  []interface{}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(_ context.Context, sql string, _ ...interface{}) (pgx.Rows, error) {
	return &fakeRows{rows: f.queryRows}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, _ ...interface{}) pgx.Row {
	return fakeRow{values: f.rowValues}
}

func (f *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batch = b
	return &fakeBatchResults{flags: f.batchFlags}
}

type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *bool:
			*d = v.(bool)
		case *int64:
			*d = v.(int64)
		case *string:
			*d = v.(string)
		}
	}
	return nil
}

type fakeBatchResults struct {
	flags []bool
	next  int
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (b *fakeBatchResults) Query() (pgx.Rows, error)         { return &fakeRows{}, nil }
func (b *fakeBatchResults) Close() error                     { return nil }

func (b *fakeBatchResults) QueryRow() pgx.Row {
	flag := b.flags[b.next]
	b.next++
	return fakeRow{values: []interface{}{flag}}
}

type fakeRows struct {
	rows [][]interface{}
	next int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]interface{}, error)               { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	return r.next < len(r.rows)
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.rows[r.next]
	r.next++
	return fakeRow{values: row}.Scan(dest...)
}

func TestUpsertClientsCountsInsertedAndUpdated(t *testing.T) {
	db := &fakeDB{batchFlags: []bool{true, false, true}}
	s := New(db)

	counts, err := s.UpsertClients(context.Background(), []transform.Client{
		{ExternalRef: "CL-0001", Name: "Mia Smith"},
		{ExternalRef: "CL-0002", Name: "Acme Corp"},
		{ExternalRef: "CL-0003", Name: "Beta LLC"},
	})

	require.NoError(t, err)
	assert.Equal(t, RowCounts{Inserted: 2, Updated: 1}, counts)
	require.NotNil(t, db.batch)
	assert.Equal(t, 3, db.batch.Len())
}

func TestUpsertEmptySliceSkipsRoundTrip(t *testing.T) {
	db := &fakeDB{}
	s := New(db)

	counts, err := s.UpsertPatents(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, RowCounts{}, counts)
	assert.Nil(t, db.batch)
}

func TestIdentityMapReadback(t *testing.T) {
	db := &fakeDB{queryRows: [][]interface{}{
		{int64(1), "PT-0001"},
		{int64(2), "PT-0002"},
	}}
	s := New(db)

	m, err := s.IdentityMap(context.Background(), schema.Patents)

	require.NoError(t, err)
	assert.Equal(t, transform.IdentityMap{"PT-0001": 1, "PT-0002": 2}, m)
}

func TestCreateAndFinishRun(t *testing.T) {
	db := &fakeDB{rowValues: []interface{}{int64(12)}}
	s := New(db)

	id, err := s.CreateRun(context.Background(), uuid.New(), "ETL start")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	require.NoError(t, s.FinishRun(context.Background(), id, RunSuccess))
	require.Len(t, db.execSQL, 1)
	assert.Contains(t, db.execSQL[0], "UPDATE migration_runs")
	assert.Equal(t, RunSuccess, db.execArgs[0][0])
}

func TestRecordRowCounts(t *testing.T) {
	db := &fakeDB{}
	s := New(db)

	err := s.RecordRowCounts(context.Background(), 12, schema.Clients, RowCounts{Inserted: 5, Updated: 2})

	require.NoError(t, err)
	require.Len(t, db.execSQL, 1)
	assert.Contains(t, db.execSQL[0], "migration_row_counts")
	assert.Equal(t, []interface{}{int64(12), "clients", 5, 2}, db.execArgs[0])
}

func TestEnsureSchemaRunsAllStatements(t *testing.T) {
	db := &fakeDB{}
	s := New(db)

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Len(t, db.execSQL, len(schemaStatements))
}

func TestPgDate(t *testing.T) {
	d := pgDate("2024-06-15")
	assert.True(t, d.Valid)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), d.Time)

	assert.False(t, pgDate("").Valid)
	assert.False(t, pgDate("junk").Valid)
}

func TestPgText(t *testing.T) {
	assert.True(t, pgText("x").Valid)
	assert.False(t, pgText("").Valid)
}

func TestPgID(t *testing.T) {
	id := int64(7)
	v := pgID(&id)
	assert.True(t, v.Valid)
	assert.Equal(t, int64(7), v.Int64)

	assert.False(t, pgID(nil).Valid)
}
