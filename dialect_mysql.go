package main

import "regexp"

// mysqlDialect carries the MySQL source rules. ENUM and SET collapse to
// TEXT; value-level constraints do not survive the conversion and the
// compatibility report calls that out.
var mysqlDialect = &Dialect{
	Name: "mysql",

	TypeMap: map[string]string{
		"tinyint":   "SMALLINT",
		"smallint":  "SMALLINT",
		"mediumint": "INTEGER",
		"int":       "INTEGER",
		"integer":   "INTEGER",
		"bigint":    "BIGINT",

		// Unsigned integers widen one size so the value range fits.
		"tinyint unsigned":   "SMALLINT",
		"smallint unsigned":  "INTEGER",
		"mediumint unsigned": "INTEGER",
		"int unsigned":       "BIGINT",
		"integer unsigned":   "BIGINT",
		"bigint unsigned":    "NUMERIC(20)",

		"float":   "REAL",
		"double":  "DOUBLE PRECISION",
		"decimal": "NUMERIC",
		"numeric": "NUMERIC",
		"bit":     "BOOLEAN",
		"bool":    "BOOLEAN",

		"char":       "CHAR",
		"varchar":    "VARCHAR",
		"tinytext":   "TEXT",
		"text":       "TEXT",
		"mediumtext": "TEXT",
		"longtext":   "TEXT",
		"json":       "JSON",
		"enum":       "TEXT",
		"set":        "TEXT",

		"year":      "INTEGER",
		"date":      "DATE",
		"time":      "TIME",
		"datetime":  "TIMESTAMP",
		"timestamp": "TIMESTAMP WITH TIME ZONE",

		"binary":     "BYTEA",
		"varbinary":  "BYTEA",
		"tinyblob":   "BYTEA",
		"blob":       "BYTEA",
		"mediumblob": "BYTEA",
		"longblob":   "BYTEA",
	},

	CharTypes: map[string]bool{
		"char":    true,
		"varchar": true,
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
		"bit":  true,
		"bool": true,
	},

	DefaultMap: map[string]string{
		"current_timestamp":   "CURRENT_TIMESTAMP",
		"current_timestamp()": "CURRENT_TIMESTAMP",
		"now()":               "CURRENT_TIMESTAMP",
		"curdate()":           "CURRENT_DATE",
		"uuid()":              "gen_random_uuid()",
	},

	Rewrites: []rewriteRule{
		{regexp.MustCompile("`([^`]+)`"), `"${1}"`},
		{regexp.MustCompile(`(?i)\bIFNULL\s*\(`), "COALESCE("},
		{regexp.MustCompile(`(?i)\bCURDATE\s*\(\s*\)`), "CURRENT_DATE"},
		{regexp.MustCompile(`(?i)\bNOW\s*\(\s*\)`), "CURRENT_TIMESTAMP"},
	},

	TypeIssues: []typeIssueRule{
		{"enum", "low",
			"ENUM converts to TEXT without value constraints",
			"Add a CHECK constraint or reference table"},
		{"set", "low",
			"SET converts to TEXT without value constraints",
			"Restructure as a join table or add CHECK constraints"},
	},

	ViewFunctions: []viewFunctionRule{
		{regexp.MustCompile(`(?i)\bIFNULL\s*\(`), "IFNULL"},
		{regexp.MustCompile(`(?i)\bGROUP_CONCAT\s*\(`), "GROUP_CONCAT"},
	},
}
