package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// auditRecord is one line of the migration audit trail. One record is
// appended per completed phase; a failed phase appends a final record
// with status "error".
type auditRecord struct {
	Timestamp string        `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Phase     string        `json:"phase"`
	Status    string        `json:"status"`
	Summary   *auditSummary `json:"data_summary,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// auditSummary carries the structural counts a phase produced. Only the
// counts relevant to the phase are set.
type auditSummary struct {
	Tables   int   `json:"table_count,omitempty"`
	Views    int   `json:"view_count,omitempty"`
	Indexes  int   `json:"index_count,omitempty"`
	Routines int   `json:"routine_count,omitempty"`
	Warnings int   `json:"warning_count,omitempty"`
	Rows     int64 `json:"row_count,omitempty"`
	Batches  int64 `json:"batch_count,omitempty"`
	Compat   int   `json:"compatibility_issues,omitempty"`
	Perf     int   `json:"performance_recommendations,omitempty"`
}

// auditLog appends JSON lines to a trail file. Records within one
// process run share a run_id so interleaved runs can be told apart.
type auditLog struct {
	path  string
	runID string
	now   func() time.Time
}

func newAuditLog(path string) *auditLog {
	return &auditLog{path: path, runID: uuid.NewString(), now: time.Now}
}

// completed appends a success record for a phase.
func (a *auditLog) completed(phase string, summary *auditSummary) error {
	return a.append(auditRecord{Phase: phase, Status: "completed", Summary: summary})
}

// failed appends an error record for the phase that aborted the run.
func (a *auditLog) failed(phase string, cause error) error {
	return a.append(auditRecord{Phase: phase, Status: "error", Error: cause.Error()})
}

func (a *auditLog) append(rec auditRecord) error {
	rec.Timestamp = a.now().UTC().Format(time.RFC3339)
	rec.RunID = a.runID

	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}
