package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcalloway/ipmigrate/internal/normalize"
	"github.com/jmcalloway/ipmigrate/internal/schema"
	"github.com/jmcalloway/ipmigrate/internal/store"
	"github.com/jmcalloway/ipmigrate/internal/transform"
)

func writeExtract(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func seedExtracts(t *testing.T, dir string) {
	t.Helper()
	writeExtract(t, dir, "clients.csv", "client_id,client_name,email,country\n"+
		"CL-0001,\"Smith, Mia\",mia@example.com,USA\n"+
		"CL-0002,Acme Corp,legal@acme.com,Germany\n")
	writeExtract(t, dir, "patents.csv", "patent_id,client_id,title,filing_date,grant_date,jurisdiction,status\n"+
		"PT-0001,CL-0001,Signal Filter,2018-03-15,2021-07-01,US,granted\n")
	writeExtract(t, dir, "trademarks.csv", "tm_id,client_id,mark_text,nice_classes,filing_date,status\n"+
		"TM-0001,CL-0002,ACME,\"9, 35\",2019-05-20,registered\n")
	writeExtract(t, dir, "deadlines.csv", "deadline_id,related_type,related_id,due_date,description,status\n"+
		"DL-0001,patent,PT-0001,2025-06-30,Annuity payment,pending\n"+
		"DL-0002,trademark,TM-0001,2025-09-15,Renewal filing,pending\n")
}

func newTestPipeline() *transform.Pipeline {
	return transform.NewPipeline(normalize.New(nil))
}

func TestRunDry(t *testing.T) {
	srcDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "transformed")
	seedExtracts(t, srcDir)

	r := NewRunner(srcDir, outDir, newTestPipeline(), nil)
	result, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ModeDryRun, result.Mode)
	assert.Equal(t, outDir, result.DryRunDir)
	assert.Zero(t, result.RunID)
	assert.Equal(t, 2, result.Counts[schema.Clients].Inserted)
	assert.Equal(t, 1, result.Counts[schema.Patents].Inserted)

	for _, entity := range schema.All() {
		_, err := os.Stat(filepath.Join(outDir, entity.FileName()))
		assert.NoError(t, err, entity)
	}

	// Sequential identity maps: the deadline's patent resolves to id 1.
	data, err := os.ReadFile(filepath.Join(outDir, "deadlines.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "DL-0001,patents,1,2025-06-30")
}

func TestRunDryMissingExtractSkipsEntity(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	seedExtracts(t, srcDir)
	require.NoError(t, os.Remove(filepath.Join(srcDir, "patents.csv")))

	r := NewRunner(srcDir, outDir, newTestPipeline(), nil)
	result, err := r.Run(context.Background())

	require.NoError(t, err)
	_, ok := result.Counts[schema.Patents]
	assert.False(t, ok)
	_, statErr := os.Stat(filepath.Join(outDir, "patents.csv"))
	assert.True(t, os.IsNotExist(statErr))

	// Deadlines still load; the patent deadline just has no related id.
	data, err := os.ReadFile(filepath.Join(outDir, "deadlines.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "DL-0001,patents,,2025-06-30")
}

// fakeStore records the call sequence and serves canned identity maps.
type fakeStore struct {
	calls      []string
	runID      int64
	finished   []string
	upsertErr  error
	identities map[schema.Entity]transform.IdentityMap
	counts     map[schema.Entity]store.RowCounts
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runID: 12,
		identities: map[schema.Entity]transform.IdentityMap{
			schema.Clients:    {"CL-0001": 1, "CL-0002": 2},
			schema.Patents:    {"PT-0001": 1},
			schema.Trademarks: {"TM-0001": 1},
		},
		counts: map[schema.Entity]store.RowCounts{},
	}
}

func (f *fakeStore) EnsureSchema(context.Context) error {
	f.calls = append(f.calls, "ensure_schema")
	return nil
}

func (f *fakeStore) CreateRun(_ context.Context, _ uuid.UUID, _ string) (int64, error) {
	f.calls = append(f.calls, "create_run")
	return f.runID, nil
}

func (f *fakeStore) FinishRun(_ context.Context, id int64, status string) error {
	f.calls = append(f.calls, "finish_run:"+status)
	f.finished = append(f.finished, status)
	return nil
}

func (f *fakeStore) RecordRowCounts(_ context.Context, _ int64, entity schema.Entity, counts store.RowCounts) error {
	f.calls = append(f.calls, "record:"+string(entity))
	f.counts[entity] = counts
	return nil
}

func (f *fakeStore) UpsertClients(_ context.Context, records []transform.Client) (store.RowCounts, error) {
	f.calls = append(f.calls, "upsert:clients")
	return store.RowCounts{Inserted: len(records)}, nil
}

func (f *fakeStore) UpsertPatents(_ context.Context, records []transform.Patent) (store.RowCounts, error) {
	f.calls = append(f.calls, "upsert:patents")
	if f.upsertErr != nil {
		return store.RowCounts{}, f.upsertErr
	}
	return store.RowCounts{Inserted: len(records)}, nil
}

func (f *fakeStore) UpsertTrademarks(_ context.Context, records []transform.Trademark) (store.RowCounts, error) {
	f.calls = append(f.calls, "upsert:trademarks")
	return store.RowCounts{Inserted: len(records)}, nil
}

func (f *fakeStore) UpsertDeadlines(_ context.Context, records []transform.Deadline) (store.RowCounts, error) {
	f.calls = append(f.calls, "upsert:deadlines")
	return store.RowCounts{Inserted: len(records)}, nil
}

func (f *fakeStore) IdentityMap(_ context.Context, entity schema.Entity) (transform.IdentityMap, error) {
	f.calls = append(f.calls, "identity:"+string(entity))
	return f.identities[entity], nil
}

func TestRunLoadedOrdering(t *testing.T) {
	srcDir := t.TempDir()
	seedExtracts(t, srcDir)
	st := newFakeStore()

	r := NewRunner(srcDir, "", newTestPipeline(), st)
	result, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ModeLoaded, result.Mode)
	assert.Equal(t, int64(12), result.RunID)
	assert.Equal(t, []string{
		"ensure_schema",
		"create_run",
		"upsert:clients", "record:clients", "identity:clients",
		"upsert:patents", "record:patents", "identity:patents",
		"upsert:trademarks", "record:trademarks", "identity:trademarks",
		"upsert:deadlines", "record:deadlines",
		"finish_run:success",
	}, st.calls)
	assert.Equal(t, 2, st.counts[schema.Clients].Inserted)
}

func TestRunLoadedFailureFinalizesRun(t *testing.T) {
	srcDir := t.TempDir()
	seedExtracts(t, srcDir)
	st := newFakeStore()
	st.upsertErr = errors.New("connection reset")

	r := NewRunner(srcDir, "", newTestPipeline(), st)
	_, err := r.Run(context.Background())

	require.Error(t, err)
	require.Len(t, st.finished, 1)
	assert.Equal(t, store.RunFailed, st.finished[0])

	// Nothing after the failed stage ran.
	assert.NotContains(t, st.calls, "upsert:trademarks")
}

func TestRunLoadedMissingExtractContinues(t *testing.T) {
	srcDir := t.TempDir()
	seedExtracts(t, srcDir)
	require.NoError(t, os.Remove(filepath.Join(srcDir, "clients.csv")))
	st := newFakeStore()

	r := NewRunner(srcDir, "", newTestPipeline(), st)
	result, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.NotContains(t, st.calls, "upsert:clients")
	assert.Contains(t, st.calls, "upsert:patents")
	assert.Contains(t, st.calls, "finish_run:success")
	_, ok := result.Counts[schema.Clients]
	assert.False(t, ok)
}
