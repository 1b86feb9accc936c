package main

import "fmt"

// oversizedCharThreshold is the bounded-length cutoff above which a
// char column is suggested for TEXT.
const oversizedCharThreshold = 1000

// PerfRecommendation is one schema-level performance finding.
type PerfRecommendation struct {
	Priority       string // low, medium, high
	Table          string
	Column         string // empty for table-level findings
	Kind           string // missing_primary_key, partition_candidate, oversized_char
	Recommendation string
}

// PerfReport holds the schema findings; the static tuning checklist is
// separate (tuningRecommendations) because it does not depend on the
// snapshot.
type PerfReport struct {
	Recommendations []PerfRecommendation
}

// analyzeSchemaPerformance derives performance recommendations from the
// snapshot. Advisory only; it never blocks a migration.
func analyzeSchemaPerformance(snap *Snapshot, d *Dialect) *PerfReport {
	report := &PerfReport{}

	for _, key := range snap.TableKeys() {
		t := snap.Tables[key]

		if !hasPrimaryKey(snap, key) {
			report.Recommendations = append(report.Recommendations, PerfRecommendation{
				Priority:       "high",
				Table:          key,
				Kind:           "missing_primary_key",
				Recommendation: "Add a primary key for efficient updates and replication",
			})
		}

		// First temporal column in ordinal order is the partition
		// candidate; later ones add nothing.
		for _, col := range t.Columns {
			if !d.DateTypes[col.DataType] {
				continue
			}
			report.Recommendations = append(report.Recommendations, PerfRecommendation{
				Priority:       "medium",
				Table:          key,
				Column:         col.Name,
				Kind:           "partition_candidate",
				Recommendation: fmt.Sprintf("Consider range partitioning on %s if the table grows large", col.Name),
			})
			break
		}

		for _, col := range t.Columns {
			if !d.CharTypes[col.DataType] || col.MaxLength <= oversizedCharThreshold {
				continue
			}
			report.Recommendations = append(report.Recommendations, PerfRecommendation{
				Priority:       "low",
				Table:          key,
				Column:         col.Name,
				Kind:           "oversized_char",
				Recommendation: fmt.Sprintf("%s(%d) is very wide; consider TEXT or a smaller bound", col.DataType, col.MaxLength),
			})
		}
	}

	return report
}

func hasPrimaryKey(snap *Snapshot, tableKey string) bool {
	for _, key := range snap.IndexKeys() {
		idx := snap.Indexes[key]
		if idx.TableKey == tableKey && idx.IsPrimary {
			return true
		}
	}
	return false
}

// tuningRecommendations is the fixed post-migration checklist. It does
// not depend on the snapshot.
func tuningRecommendations() []string {
	return []string{
		"Run VACUUM ANALYZE after the data load completes",
		"Review autovacuum settings for write-heavy tables",
		"Update table statistics with ANALYZE before benchmarking",
		"Set shared_buffers to roughly 25% of available RAM",
		"Set effective_cache_size to 50-75% of available RAM",
		"Review checkpoint_timeout and max_wal_size for bulk-load workloads",
		"Consider synchronous_commit = off where durability requirements allow",
	}
}
