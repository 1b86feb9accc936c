package main

import (
	"fmt"
	"sort"
	"strings"
)

// maxLengthUnbounded is the length sentinel source catalogs report for
// unbounded character columns, e.g. nvarchar(max).
const maxLengthUnbounded = -1

// Column represents a single column as reported by the source catalog.
type Column struct {
	Name       string
	DataType   string // lower-cased source type name, e.g. "nvarchar"
	Nullable   bool
	MaxLength  int64 // character length; 0 = not applicable, -1 = unbounded
	Precision  int64 // 0 = not reported
	Scale      int64
	HasScale   bool // scale 0 is a valid reported value
	Default    *string
	IsIdentity bool
	IsComputed bool
	OrdinalPos int // 1-based, contiguous within the owning table
}

// Table holds an introspected source table; Columns follow OrdinalPos order.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Key returns the table identity, unique within a snapshot.
func (t Table) Key() string { return t.Schema + "." + t.Name }

// splitTableKey splits a "schema.name" identity back into its parts.
func splitTableKey(key string) (schema, name string) {
	schema, name, _ = strings.Cut(key, ".")
	return schema, name
}

// View holds a view with its raw source-dialect body.
type View struct {
	Schema     string
	Name       string
	Definition string
}

func (v View) Key() string { return v.Schema + "." + v.Name }

// IndexColumn is one key part of an index.
type IndexColumn struct {
	Name       string
	Ordinal    int
	Descending bool
}

// Index represents a source index. Primary-key indexes are carried here
// but realized as table constraints, never as standalone indexes.
type Index struct {
	Name      string
	TableKey  string
	Unique    bool
	IsPrimary bool
	Columns   []IndexColumn
}

func (i Index) Key() string { return i.TableKey + "." + i.Name }

// Routine is a stored procedure, function, or trigger with its
// definition text. Routines are analyzed, never migrated.
type Routine struct {
	Schema     string
	Name       string
	Kind       string // "procedure", "function", or "trigger"
	Definition string
}

func (r Routine) Key() string { return r.Schema + "." + r.Name }

// Snapshot is a point-in-time capture of source schema metadata. It is
// built once by extraction and read-only afterwards; the sorted key
// slices make iteration deterministic.
type Snapshot struct {
	Tables   map[string]Table
	Views    map[string]View
	Indexes  map[string]Index
	Routines map[string]Routine

	tableKeys   []string
	viewKeys    []string
	indexKeys   []string
	routineKeys []string
}

// newSnapshot assembles a Snapshot and freezes its iteration order.
func newSnapshot(tables []Table, views []View, indexes []Index, routines []Routine) *Snapshot {
	s := &Snapshot{
		Tables:   make(map[string]Table, len(tables)),
		Views:    make(map[string]View, len(views)),
		Indexes:  make(map[string]Index, len(indexes)),
		Routines: make(map[string]Routine, len(routines)),
	}
	for _, t := range tables {
		s.Tables[t.Key()] = t
		s.tableKeys = append(s.tableKeys, t.Key())
	}
	for _, v := range views {
		s.Views[v.Key()] = v
		s.viewKeys = append(s.viewKeys, v.Key())
	}
	for _, idx := range indexes {
		s.Indexes[idx.Key()] = idx
		s.indexKeys = append(s.indexKeys, idx.Key())
	}
	for _, r := range routines {
		s.Routines[r.Key()] = r
		s.routineKeys = append(s.routineKeys, r.Key())
	}
	sort.Strings(s.tableKeys)
	sort.Strings(s.viewKeys)
	sort.Strings(s.indexKeys)
	sort.Strings(s.routineKeys)
	return s
}

// validate checks intra-snapshot invariants. A violation means the
// extractor produced a defective snapshot, so the run must not proceed.
func (s *Snapshot) validate() error {
	for _, key := range s.indexKeys {
		idx := s.Indexes[key]
		if _, ok := s.Tables[idx.TableKey]; !ok {
			return fmt.Errorf("index %s references unknown table %s", idx.Name, idx.TableKey)
		}
	}
	for _, key := range s.tableKeys {
		t := s.Tables[key]
		for i, col := range t.Columns {
			if col.OrdinalPos != i+1 {
				return fmt.Errorf("table %s: column %s has ordinal %d, want %d", key, col.Name, col.OrdinalPos, i+1)
			}
		}
	}
	return nil
}

// TableByKey looks up a table by its "schema.name" identity.
func (s *Snapshot) TableByKey(key string) (Table, bool) {
	t, ok := s.Tables[key]
	return t, ok
}

// TableKeys returns table identities in sorted order.
func (s *Snapshot) TableKeys() []string { return s.tableKeys }

// ViewKeys returns view identities in sorted order.
func (s *Snapshot) ViewKeys() []string { return s.viewKeys }

// IndexKeys returns index identities in sorted order.
func (s *Snapshot) IndexKeys() []string { return s.indexKeys }

// RoutineKeys returns routine identities in sorted order.
func (s *Snapshot) RoutineKeys() []string { return s.routineKeys }

// IndexesForTable returns the non-primary indexes on a table, in key
// order. A table with no indexes yields an empty slice.
func (s *Snapshot) IndexesForTable(tableKey string) []Index {
	var out []Index
	for _, key := range s.indexKeys {
		idx := s.Indexes[key]
		if idx.TableKey == tableKey && !idx.IsPrimary {
			out = append(out, idx)
		}
	}
	return out
}

// primaryKeyColumns returns the PK column names for a table in key
// ordinal order, or nil when the table has no primary key.
func (s *Snapshot) primaryKeyColumns(tableKey string) []string {
	for _, key := range s.indexKeys {
		idx := s.Indexes[key]
		if idx.TableKey != tableKey || !idx.IsPrimary {
			continue
		}
		cols := make([]IndexColumn, len(idx.Columns))
		copy(cols, idx.Columns)
		sort.Slice(cols, func(a, b int) bool { return cols[a].Ordinal < cols[b].Ordinal })
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		return names
	}
	return nil
}
