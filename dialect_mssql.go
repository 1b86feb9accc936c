package main

import "regexp"

// tsqlDialect is the rule set of record: SQL Server is the primary
// source engine and the other dialects follow its machinery.
var tsqlDialect = &Dialect{
	Name: "sqlserver",

	TypeMap: map[string]string{
		"int":              "INTEGER",
		"bigint":           "BIGINT",
		"smallint":         "SMALLINT",
		"tinyint":          "SMALLINT",
		"bit":              "BOOLEAN",
		"decimal":          "DECIMAL",
		"numeric":          "NUMERIC",
		"money":            "DECIMAL(15,2)",
		"smallmoney":       "DECIMAL(10,4)",
		"float":            "DOUBLE PRECISION",
		"real":             "REAL",
		"datetime":         "TIMESTAMP",
		"datetime2":        "TIMESTAMP",
		"smalldatetime":    "TIMESTAMP",
		"date":             "DATE",
		"time":             "TIME",
		"datetimeoffset":   "TIMESTAMP WITH TIME ZONE",
		"char":             "CHAR",
		"varchar":          "VARCHAR",
		"nchar":            "CHAR",
		"nvarchar":         "VARCHAR",
		"text":             "TEXT",
		"ntext":            "TEXT",
		"binary":           "BYTEA",
		"varbinary":        "BYTEA",
		"image":            "BYTEA",
		"uniqueidentifier": "UUID",
		"xml":              "XML",
	},

	CharTypes: map[string]bool{
		"char":     true,
		"varchar":  true,
		"nchar":    true,
		"nvarchar": true,
	},
	DecimalTypes: map[string]bool{
		"decimal": true,
		"numeric": true,
	},
	DateTypes: map[string]bool{
		"datetime":      true,
		"datetime2":     true,
		"smalldatetime": true,
		"date":          true,
	},
	BitTypes: map[string]bool{
		"bit": true,
	},

	DefaultMap: map[string]string{
		"getdate()":         "CURRENT_TIMESTAMP",
		"getutcdate()":      "CURRENT_TIMESTAMP",
		"sysdatetime()":     "CURRENT_TIMESTAMP",
		"newid()":           "gen_random_uuid()",
		"newsequentialid()": "gen_random_uuid()",
		"user_name()":       "CURRENT_USER",
		"system_user":       "CURRENT_USER",
		"suser_sname()":     "CURRENT_USER",
	},

	// Order matters: bracket identifiers must be rewritten before the
	// function rewrites so converted arguments keep their quoted form.
	Rewrites: []rewriteRule{
		{regexp.MustCompile(`\[(\w+)\]`), `"${1}"`},
		{regexp.MustCompile(`(?i)\bISNULL\s*\(`), "COALESCE("},
		{regexp.MustCompile(`(?i)\bLEN\s*\(`), "LENGTH("},
		{regexp.MustCompile(`(?i)\bDATEPART\s*\(`), "EXTRACT("},
		{regexp.MustCompile(`(?i)\bGETDATE\s*\(\s*\)`), "CURRENT_TIMESTAMP"},
	},

	FeatureRules: []featureRule{
		{regexp.MustCompile(`(?i)\bIDENTITY\b`), "IDENTITY", "high",
			"Use SERIAL or GENERATED columns instead"},
		{regexp.MustCompile(`(?i)\bROWVERSION\b`), "ROWVERSION", "high",
			"No direct equivalent, consider using timestamps"},
		{regexp.MustCompile(`(?i)\bCURSOR\b`), "CURSOR", "high",
			"Limited cursor support, consider alternatives"},
		{regexp.MustCompile(`(?i)\bBEGIN\s+TRY\b`), "TRY...CATCH", "high",
			"Use EXCEPTION blocks instead"},
		{regexp.MustCompile(`(?i)\bMERGE\b`), "MERGE", "high",
			"Use INSERT...ON CONFLICT or separate statements"},
		{regexp.MustCompile(`(?i)\bPIVOT\b`), "PIVOT", "high",
			"Use crosstab() function or manual pivoting"},
		{regexp.MustCompile(`(?i)\bUNPIVOT\b`), "UNPIVOT", "high",
			"Use custom functions or restructure data"},
	},

	TypeIssues: []typeIssueRule{
		{"uniqueidentifier", "medium",
			"uniqueidentifier converts to UUID",
			"Verify UUID extension is enabled"},
		{"text", "low",
			"text is deprecated in SQL Server",
			"Converted to TEXT"},
		{"ntext", "low",
			"ntext is deprecated in SQL Server",
			"Converted to TEXT"},
	},

	ViewFunctions: []viewFunctionRule{
		{regexp.MustCompile(`(?i)\bISNULL\s*\(`), "ISNULL"},
		{regexp.MustCompile(`(?i)\bLEN\s*\(`), "LEN"},
		{regexp.MustCompile(`(?i)\bDATEPART\s*\(`), "DATEPART"},
		{regexp.MustCompile(`(?i)\bDATEDIFF\s*\(`), "DATEDIFF"},
	},

	BracketIdents: regexp.MustCompile(`\[\w+\]`),
}
