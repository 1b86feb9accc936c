package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// fakeSource serves a canned snapshot and in-memory row batches.
type fakeSource struct {
	snap         *Snapshot
	batches      map[string][]*RowBatch
	metaErr      error
	extractErr   error
	extractCalls []string
}

func (f *fakeSource) Name() string                  { return "fake" }
func (f *fakeSource) Connect(context.Context) error { return nil }
func (f *fakeSource) Close()                        {}
func (f *fakeSource) Dialect() *Dialect             { return tsqlDialect }

func (f *fakeSource) ExtractMetadata(context.Context) (*Snapshot, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.snap, nil
}

func (f *fakeSource) ExtractData(_ context.Context, tableKey string, _ int) (*RowStream, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	f.extractCalls = append(f.extractCalls, tableKey)
	pending := f.batches[tableKey]
	i := 0
	return &RowStream{
		next: func() (*RowBatch, error) {
			if i >= len(pending) {
				return nil, nil
			}
			b := pending[i]
			i++
			return b, nil
		},
		stop: func() error { return nil },
	}, nil
}

// fakeTarget records every mutating call and can inject load failures.
type fakeTarget struct {
	schemaCalls int
	indexCalls  int
	loads       []string
	loadedRows  int
	loadErr     error
}

func (f *fakeTarget) Connect(context.Context) error { return nil }
func (f *fakeTarget) Close()                        {}

func (f *fakeTarget) CreateSchema(context.Context, *ConvertedSchema) error {
	f.schemaCalls++
	return nil
}

func (f *fakeTarget) CreateIndexesAndConstraints(context.Context, *ConvertedSchema) error {
	f.indexCalls++
	return nil
}

func (f *fakeTarget) LoadData(_ context.Context, tableKey string, batch *RowBatch) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loads = append(f.loads, tableKey)
	f.loadedRows += batch.NumRows()
	return nil
}

func migrationFixture(t *testing.T, dryRun bool) (*migration, *fakeSource, *fakeTarget, string) {
	t.Helper()
	snap := newSnapshot(
		[]Table{
			{Schema: "dbo", Name: "a", Columns: []Column{{Name: "id", DataType: "int", OrdinalPos: 1}}},
			{Schema: "dbo", Name: "b", Columns: []Column{{Name: "id", DataType: "int", OrdinalPos: 1}}},
		},
		nil,
		[]Index{{Name: "pk_a", TableKey: "dbo.a", IsPrimary: true, Unique: true,
			Columns: []IndexColumn{{Name: "id", Ordinal: 1}}}},
		nil,
	)
	src := &fakeSource{
		snap: snap,
		batches: map[string][]*RowBatch{
			"dbo.a": {
				{Columns: []string{"id"}, Rows: [][]any{{int64(1)}, {int64(2)}}},
				{Columns: []string{"id"}, Rows: [][]any{{int64(3)}}},
			},
			"dbo.b": {
				{Columns: []string{"id"}, Rows: [][]any{{int64(4)}}},
			},
		},
	}
	tgt := &fakeTarget{}
	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	m := &migration{
		source: src,
		target: tgt,
		cfg:    &Config{BatchSize: 2, DataMapping: DataMappingConfig{StripNullBytes: true, ZeroDatesAsNull: true}},
		audit:  newAuditLog(auditPath),
		dryRun: dryRun,
	}
	return m, src, tgt, auditPath
}

func readAuditRecords(t *testing.T, path string) []auditRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit: %v", err)
	}
	var recs []auditRecord
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var rec auditRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad audit line %q: %v", line, err)
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestMigrationRunAllPhases(t *testing.T) {
	m, src, tgt, auditPath := migrationFixture(t, false)

	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if tgt.schemaCalls != 1 || tgt.indexCalls != 1 {
		t.Errorf("target calls: schema %d, indexes %d, want 1 each", tgt.schemaCalls, tgt.indexCalls)
	}
	if tgt.loadedRows != 4 {
		t.Errorf("loaded rows = %d, want 4", tgt.loadedRows)
	}
	if len(tgt.loads) != 3 {
		t.Errorf("load calls = %v, want 3 batches", tgt.loads)
	}
	if want := []string{"dbo.a", "dbo.b"}; !reflect.DeepEqual(src.extractCalls, want) {
		t.Errorf("extract calls = %v, want %v", src.extractCalls, want)
	}

	recs := readAuditRecords(t, auditPath)
	wantPhases := []string{
		phaseMetadataExtraction,
		phaseSchemaConversion,
		phaseSchemaCreation,
		phaseDataMigration,
		phaseIndexesConstraints,
		phaseRecommendations,
	}
	if len(recs) != len(wantPhases) {
		t.Fatalf("audit records = %d, want %d", len(recs), len(wantPhases))
	}
	for i, rec := range recs {
		if rec.Phase != wantPhases[i] || rec.Status != "completed" {
			t.Errorf("record %d = %s/%s, want %s/completed", i, rec.Phase, rec.Status, wantPhases[i])
		}
	}

	dataRec := recs[3]
	if dataRec.Summary == nil || dataRec.Summary.Rows != 4 || dataRec.Summary.Batches != 3 {
		t.Errorf("data_migration summary = %+v, want 4 rows in 3 batches", dataRec.Summary)
	}
}

func TestMigrationDryRunSkipsTarget(t *testing.T) {
	m, src, tgt, auditPath := migrationFixture(t, true)

	if err := m.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if tgt.schemaCalls != 0 || tgt.indexCalls != 0 || len(tgt.loads) != 0 {
		t.Errorf("dry run touched the target: %+v", tgt)
	}
	// Extraction and conversion still run for every table.
	if want := []string{"dbo.a", "dbo.b"}; !reflect.DeepEqual(src.extractCalls, want) {
		t.Errorf("extract calls = %v, want %v", src.extractCalls, want)
	}

	recs := readAuditRecords(t, auditPath)
	wantPhases := []string{
		phaseMetadataExtraction,
		phaseSchemaConversion,
		phaseDataMigration,
		phaseRecommendations,
	}
	if len(recs) != len(wantPhases) {
		t.Fatalf("audit records = %d, want %d (skipped phases write none)", len(recs), len(wantPhases))
	}
	for i, rec := range recs {
		if rec.Phase != wantPhases[i] {
			t.Errorf("record %d phase = %s, want %s", i, rec.Phase, wantPhases[i])
		}
	}
	// Row counts are still tallied even though nothing was loaded.
	if recs[2].Summary == nil || recs[2].Summary.Rows != 4 {
		t.Errorf("dry-run data_migration summary = %+v, want 4 rows", recs[2].Summary)
	}
}

func TestMigrationLoadFailureAborts(t *testing.T) {
	m, _, tgt, auditPath := migrationFixture(t, false)
	tgt.loadErr = errors.New("copy failed")

	err := m.run(context.Background())
	if err == nil {
		t.Fatal("run succeeded despite load failure")
	}
	if !strings.Contains(err.Error(), "data migration") || !strings.Contains(err.Error(), "copy failed") {
		t.Errorf("error = %v, want phase and cause", err)
	}

	if tgt.indexCalls != 0 {
		t.Error("indexes_constraints ran after data_migration failed")
	}

	recs := readAuditRecords(t, auditPath)
	last := recs[len(recs)-1]
	if last.Phase != phaseDataMigration || last.Status != "error" {
		t.Errorf("last audit record = %s/%s, want data_migration/error", last.Phase, last.Status)
	}
	if !strings.Contains(last.Error, "copy failed") {
		t.Errorf("audit error = %q, want the load failure", last.Error)
	}
}

func TestMigrationMetadataFailureAborts(t *testing.T) {
	m, src, tgt, auditPath := migrationFixture(t, false)
	src.metaErr = errors.New("login failed")

	err := m.run(context.Background())
	if err == nil {
		t.Fatal("run succeeded despite extraction failure")
	}
	if tgt.schemaCalls != 0 || len(tgt.loads) != 0 {
		t.Error("target touched after metadata extraction failed")
	}

	recs := readAuditRecords(t, auditPath)
	if len(recs) != 1 || recs[0].Phase != phaseMetadataExtraction || recs[0].Status != "error" {
		t.Errorf("audit records = %+v, want single metadata_extraction error", recs)
	}
}
