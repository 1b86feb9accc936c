package main

import (
	"strings"
	"time"
)

// temporal string layouts seen across the source drivers (SQLite stores
// datetimes as text; MySQL does when parseTime is off).
var temporalLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// convertBatch normalizes one batch of extracted rows for loading.
// The output batch has the same column set and row count as the input;
// only scalar representations change. Conversion is stateless across
// batches and idempotent: converting an already converted batch yields
// identical output.
func convertBatch(b *RowBatch, t Table, d *Dialect, dm DataMappingConfig) *RowBatch {
	byName := make(map[string]Column, len(t.Columns))
	for _, col := range t.Columns {
		byName[col.Name] = col
	}

	out := &RowBatch{
		Columns: append([]string(nil), b.Columns...),
		Rows:    make([][]any, len(b.Rows)),
	}
	for i, row := range b.Rows {
		conv := make([]any, len(row))
		for j, val := range row {
			col := byName[b.Columns[j]]
			conv[j] = convertValue(val, col, d, dm)
		}
		out.Rows[i] = conv
	}
	return out
}

// convertValue maps one scalar to its load representation. Unrecognized
// shapes pass through unchanged; the loader's driver gets the final say.
func convertValue(val any, col Column, d *Dialect, dm DataMappingConfig) any {
	if val == nil {
		return nil
	}

	switch {
	case d.BitTypes[col.DataType]:
		return convertFlag(val)

	case isTextualType(col, d):
		var s string
		switch v := val.(type) {
		case []byte:
			s = string(v)
		case string:
			s = v
		default:
			return val
		}
		if dm.StripNullBytes {
			s = strings.ReplaceAll(s, "\x00", "")
		}
		return s

	case isTemporalType(col, d):
		switch v := val.(type) {
		case time.Time:
			if v.IsZero() && dm.ZeroDatesAsNull {
				return nil
			}
			return v.UTC()
		case []byte:
			return parseTemporal(string(v), dm)
		case string:
			return parseTemporal(v, dm)
		}
		return val
	}
	return val
}

// convertFlag coerces the single-bit shapes the drivers hand back. The
// mssql driver scans bit as bool already; mysql yields int64 or []byte.
func convertFlag(val any) any {
	switch v := val.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case []byte:
		if len(v) == 1 {
			return v[0] != 0 && v[0] != '0'
		}
		return string(v) == "1" || strings.EqualFold(string(v), "true")
	}
	return val
}

func parseTemporal(s string, dm DataMappingConfig) any {
	if dm.ZeroDatesAsNull && strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return s
}

// isTextualType reports whether the column carries character data: a
// bounded char type or anything whose target type holds text.
func isTextualType(col Column, d *Dialect) bool {
	if d.CharTypes[col.DataType] {
		return true
	}
	mapped, ok := d.mapType(col.DataType)
	if !ok {
		return true // unknown types land in TEXT columns
	}
	switch mapped {
	case "TEXT", "XML", "JSON":
		return true
	}
	return false
}

// isTemporalType reports whether the column's target type is temporal.
func isTemporalType(col Column, d *Dialect) bool {
	mapped, ok := d.mapType(col.DataType)
	if !ok {
		return false
	}
	return strings.HasPrefix(mapped, "TIMESTAMP") || mapped == "DATE" || mapped == "TIME"
}
