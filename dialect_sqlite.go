package main

import "regexp"

// sqliteDialect handles SQLite's loosely declared column types. The bare
// "integer" affinity maps to BIGINT because SQLite rowid columns hold
// 64-bit values.
var sqliteDialect = &Dialect{
	Name: "sqlite",

	TypeMap: map[string]string{
		"integer":   "BIGINT",
		"int":       "INTEGER",
		"real":      "DOUBLE PRECISION",
		"double":    "DOUBLE PRECISION",
		"float":     "DOUBLE PRECISION",
		"numeric":   "NUMERIC",
		"decimal":   "NUMERIC",
		"text":      "TEXT",
		"clob":      "TEXT",
		"char":      "CHAR",
		"nchar":     "CHAR",
		"varchar":   "VARCHAR",
		"nvarchar":  "VARCHAR",
		"blob":      "BYTEA",
		"boolean":   "BOOLEAN",
		"bool":      "BOOLEAN",
		"date":      "DATE",
		"datetime":  "TIMESTAMP",
		"timestamp": "TIMESTAMP",
	},

	CharTypes: map[string]bool{
		"char":     true,
		"nchar":    true,
		"varchar":  true,
		"nvarchar": true,
	},
	DecimalTypes: map[string]bool{
		"decimal": true,
		"numeric": true,
	},
	DateTypes: map[string]bool{
		"date":      true,
		"datetime":  true,
		"timestamp": true,
	},
	BitTypes: map[string]bool{
		"boolean": true,
		"bool":    true,
	},

	DefaultMap: map[string]string{
		"current_timestamp": "CURRENT_TIMESTAMP",
		"current_date":      "CURRENT_DATE",
		"current_time":      "CURRENT_TIME",
		"datetime('now')":   "CURRENT_TIMESTAMP",
	},

	Rewrites: []rewriteRule{
		{regexp.MustCompile(`\[(\w+)\]`), `"${1}"`},
		{regexp.MustCompile(`(?i)\bIFNULL\s*\(`), "COALESCE("},
		{regexp.MustCompile(`(?i)\bdatetime\s*\(\s*'now'\s*\)`), "CURRENT_TIMESTAMP"},
	},

	BracketIdents: regexp.MustCompile(`\[\w+\]`),
}
