package main

import (
	"context"
	"fmt"
	"log"
)

// Phase names, in execution order. The pipeline is forward-only: each
// phase runs once, and the first failure aborts the run with no retry
// and no rollback across phases.
const (
	phaseMetadataExtraction = "metadata_extraction"
	phaseSchemaConversion   = "schema_conversion"
	phaseSchemaCreation     = "schema_creation"
	phaseDataMigration      = "data_migration"
	phaseIndexesConstraints = "indexes_constraints"
	phaseRecommendations    = "recommendations"
)

// migration drives the phased pipeline against a connected source and
// target. Under dryRun the two target-mutating phases are skipped and
// the loader is never called; extraction, conversion, and analysis all
// still run.
type migration struct {
	source SourceConnector
	target TargetConnector
	cfg    *Config
	audit  *auditLog
	dryRun bool
}

func (m *migration) run(ctx context.Context) error {
	// 1. metadata_extraction
	log.Printf("phase 1/6: extracting metadata from %s...", m.source.Name())
	snap, err := m.source.ExtractMetadata(ctx)
	if err != nil {
		return m.abort(phaseMetadataExtraction, fmt.Errorf("metadata extraction: %w", err))
	}
	log.Printf("  %d tables, %d views, %d indexes, %d routines",
		len(snap.TableKeys()), len(snap.ViewKeys()), len(snap.IndexKeys()), len(snap.RoutineKeys()))
	if err := m.record(phaseMetadataExtraction, &auditSummary{
		Tables:   len(snap.TableKeys()),
		Views:    len(snap.ViewKeys()),
		Indexes:  len(snap.IndexKeys()),
		Routines: len(snap.RoutineKeys()),
	}); err != nil {
		return err
	}

	// 2. schema_conversion
	log.Printf("phase 2/6: converting schema...")
	converted, warnings := convertSchema(snap, m.source.Dialect())
	for _, w := range warnings {
		log.Printf("  WARN: %s", w)
	}
	log.Printf("  %d tables, %d views, %d indexes converted (%d warnings)",
		len(converted.Tables), len(converted.Views), len(converted.Indexes), len(warnings))
	if err := m.record(phaseSchemaConversion, &auditSummary{
		Tables:   len(converted.Tables),
		Views:    len(converted.Views),
		Indexes:  len(converted.Indexes),
		Warnings: len(warnings),
	}); err != nil {
		return err
	}

	// 3. schema_creation (skipped under --dry-run)
	if m.dryRun {
		log.Printf("phase 3/6: schema creation skipped (dry run)")
	} else {
		log.Printf("phase 3/6: creating target schema...")
		if err := m.target.CreateSchema(ctx, converted); err != nil {
			return m.abort(phaseSchemaCreation, fmt.Errorf("schema creation: %w", err))
		}
		if err := m.record(phaseSchemaCreation, &auditSummary{
			Tables: len(converted.Tables),
			Views:  len(converted.Views),
		}); err != nil {
			return err
		}
	}

	// 4. data_migration
	log.Printf("phase 4/6: migrating data (batch size %d)...", m.cfg.BatchSize)
	var totalRows, totalBatches int64
	for _, table := range converted.Tables {
		rows, batches, err := m.migrateTable(ctx, snap, table.Key())
		if err != nil {
			return m.abort(phaseDataMigration, fmt.Errorf("data migration: %w", err))
		}
		totalRows += rows
		totalBatches += batches
	}
	log.Printf("  %d rows in %d batches", totalRows, totalBatches)
	if err := m.record(phaseDataMigration, &auditSummary{
		Tables:  len(converted.Tables),
		Rows:    totalRows,
		Batches: totalBatches,
	}); err != nil {
		return err
	}

	// 5. indexes_constraints (skipped under --dry-run)
	if m.dryRun {
		log.Printf("phase 5/6: indexes and constraints skipped (dry run)")
	} else {
		log.Printf("phase 5/6: creating indexes and constraints...")
		if err := m.target.CreateIndexesAndConstraints(ctx, converted); err != nil {
			return m.abort(phaseIndexesConstraints, fmt.Errorf("indexes and constraints: %w", err))
		}
		if err := m.record(phaseIndexesConstraints, &auditSummary{
			Indexes: len(converted.Indexes),
		}); err != nil {
			return err
		}
	}

	// 6. recommendations
	log.Printf("phase 6/6: analyzing for recommendations...")
	compat := analyzeCompatibility(snap, m.source.Dialect())
	perf := analyzeSchemaPerformance(snap, m.source.Dialect())
	log.Printf("  %d compatibility issues, %d performance recommendations",
		compat.Total(), len(perf.Recommendations))
	for _, rec := range perf.Recommendations {
		debugf("  [%s] %s: %s", rec.Priority, rec.Table, rec.Recommendation)
	}
	if err := m.record(phaseRecommendations, &auditSummary{
		Compat: compat.Total(),
		Perf:   len(perf.Recommendations),
	}); err != nil {
		return err
	}

	return nil
}

// migrateTable pumps one table through extract, convert, load. One
// batch is resident at a time: each batch is converted and loaded
// before the next is pulled from the stream.
func (m *migration) migrateTable(ctx context.Context, snap *Snapshot, tableKey string) (rows, batches int64, err error) {
	t, ok := snap.TableByKey(tableKey)
	if !ok {
		return 0, 0, fmt.Errorf("converted table %s missing from snapshot", tableKey)
	}

	stream, err := m.source.ExtractData(ctx, tableKey, m.cfg.BatchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("extract %s: %w", tableKey, err)
	}
	defer stream.Close()

	d := m.source.Dialect()
	for {
		batch, err := stream.Next()
		if err != nil {
			return rows, batches, fmt.Errorf("read %s: %w", tableKey, err)
		}
		if batch == nil {
			break
		}
		conv := convertBatch(batch, t, d, m.cfg.DataMapping)
		if !m.dryRun {
			if err := m.target.LoadData(ctx, tableKey, conv); err != nil {
				return rows, batches, fmt.Errorf("load %s: %w", tableKey, err)
			}
		}
		rows += int64(conv.NumRows())
		batches++
		debugf("    %s: batch %d (%d rows)", tableKey, batches, conv.NumRows())
	}
	log.Printf("  %s: %d rows in %d batches", tableKey, rows, batches)
	return rows, batches, nil
}

// record appends a completed-phase audit line. An audit write failure
// is itself fatal: a run that cannot be audited must not continue.
func (m *migration) record(phase string, summary *auditSummary) error {
	if err := m.audit.completed(phase, summary); err != nil {
		return fmt.Errorf("%s: %w", phase, err)
	}
	return nil
}

// abort writes the error audit record and hands the failure back. The
// original error is what surfaces; an audit write failure on the way
// out is only logged.
func (m *migration) abort(phase string, err error) error {
	if auditErr := m.audit.failed(phase, err); auditErr != nil {
		log.Printf("  WARN: audit write failed: %v", auditErr)
	}
	return err
}
