package main

import (
	"fmt"
	"sort"
)

// ConvertedColumn is a column expressed in PostgreSQL terms.
type ConvertedColumn struct {
	Name     string
	PGType   string
	Nullable bool
	Default  *string
}

// ConvertedTable carries target-ready columns plus the primary-key
// column list, which the constraints phase turns into an ALTER TABLE
// after the data load.
type ConvertedTable struct {
	Schema     string
	Name       string
	Columns    []ConvertedColumn
	PrimaryKey []string
}

func (t ConvertedTable) Key() string { return t.Schema + "." + t.Name }

// ConvertedView is a view with its body rewritten for PostgreSQL.
type ConvertedView struct {
	Schema     string
	Name       string
	Definition string
}

// ConvertedIndex is a non-primary index ready for CREATE INDEX.
// Primary-key indexes never appear here; they are realized as table
// constraints instead.
type ConvertedIndex struct {
	Name     string
	TableKey string
	Unique   bool
	Columns  []IndexColumn
}

// ConvertedSchema is the target-dialect counterpart of a Snapshot. It is
// a fresh value; the source snapshot is never mutated. Slices are in
// deterministic key order.
type ConvertedSchema struct {
	Tables  []ConvertedTable
	Views   []ConvertedView
	Indexes []ConvertedIndex
}

// convertSchema translates a snapshot into PostgreSQL terms using the
// dialect rule tables. It is pure: no I/O, same inputs produce the same
// output. Problems that do not prevent producing DDL (unknown types,
// dropped column properties) come back as warnings, never errors.
func convertSchema(snap *Snapshot, d *Dialect) (*ConvertedSchema, []string) {
	out := &ConvertedSchema{}
	var warnings []string

	for _, key := range snap.TableKeys() {
		t := snap.Tables[key]
		ct := ConvertedTable{
			Schema:     t.Schema,
			Name:       t.Name,
			Columns:    make([]ConvertedColumn, 0, len(t.Columns)),
			PrimaryKey: snap.primaryKeyColumns(key),
		}
		for _, col := range t.Columns {
			pgType, warn := mapColumnType(col, d)
			if warn != "" {
				warnings = append(warnings, fmt.Sprintf("table %s: %s", key, warn))
			}
			if col.IsIdentity {
				warnings = append(warnings, fmt.Sprintf(
					"table %s: column %s is an identity column; auto-generation is not carried over", key, col.Name))
			}
			if col.IsComputed {
				warnings = append(warnings, fmt.Sprintf(
					"table %s: column %s is computed; the expression is not carried over", key, col.Name))
			}
			ct.Columns = append(ct.Columns, ConvertedColumn{
				Name:     col.Name,
				PGType:   pgType,
				Nullable: col.Nullable,
				Default:  mapColumnDefault(col.Default, d),
			})
		}
		out.Tables = append(out.Tables, ct)
	}

	for _, key := range snap.ViewKeys() {
		v := snap.Views[key]
		out.Views = append(out.Views, ConvertedView{
			Schema:     v.Schema,
			Name:       v.Name,
			Definition: applyRewrites(v.Definition, d.Rewrites),
		})
	}

	for _, key := range snap.IndexKeys() {
		idx := snap.Indexes[key]
		if idx.IsPrimary {
			continue
		}
		cols := make([]IndexColumn, len(idx.Columns))
		copy(cols, idx.Columns)
		sort.Slice(cols, func(a, b int) bool { return cols[a].Ordinal < cols[b].Ordinal })
		out.Indexes = append(out.Indexes, ConvertedIndex{
			Name:     idx.Name,
			TableKey: idx.TableKey,
			Unique:   idx.Unique,
			Columns:  cols,
		})
	}

	return out, warnings
}

// mapColumnType resolves one column's target type. Length and precision
// rules apply in priority order, first match wins:
//
//  1. bounded char type with the unbounded sentinel -> TEXT, no suffix
//  2. bounded char type with a positive length -> type(n)
//  3. decimal type with reported precision -> type(p) or type(p,s)
//  4. anything else -> mapped type unchanged
//
// An unknown type falls back to TEXT with a warning; it never errors.
func mapColumnType(col Column, d *Dialect) (string, string) {
	mapped, known := d.mapType(col.DataType)
	if !known {
		return "TEXT", fmt.Sprintf("column %s has unmapped type %q, falling back to TEXT", col.Name, col.DataType)
	}

	switch {
	case d.CharTypes[col.DataType] && col.MaxLength == maxLengthUnbounded:
		return "TEXT", ""
	case d.CharTypes[col.DataType] && col.MaxLength > 0:
		return fmt.Sprintf("%s(%d)", mapped, col.MaxLength), ""
	case d.DecimalTypes[col.DataType] && col.Precision > 0:
		if col.HasScale {
			return fmt.Sprintf("%s(%d,%d)", mapped, col.Precision, col.Scale), ""
		}
		return fmt.Sprintf("%s(%d)", mapped, col.Precision), ""
	}
	return mapped, ""
}

// mapColumnDefault translates a column default through the dialect
// table. Absent stays absent; unrecognized expressions pass through in
// paren-stripped form.
func mapColumnDefault(def *string, d *Dialect) *string {
	if def == nil {
		return nil
	}
	mapped := d.mapDefault(*def)
	return &mapped
}
