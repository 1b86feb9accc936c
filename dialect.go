package main

import (
	"regexp"
	"strings"
)

// Dialect bundles the per-source-engine conversion rule data: the type
// map, the type families the length/precision rules apply to, default
// expression translations, ordered definition rewrites, and the
// compatibility catalogs. Dialects are static package-level values;
// withOverrides returns an adjusted copy and never mutates them.
type Dialect struct {
	Name string

	TypeMap      map[string]string // lower-cased source type -> target type
	CharTypes    map[string]bool   // bounded character types, subject to length rules
	DecimalTypes map[string]bool   // types carrying precision/scale
	DateTypes    map[string]bool   // temporal types considered partition candidates
	BitTypes     map[string]bool   // single-bit flag types whose values become bool
	DefaultMap   map[string]string // lower-cased default expression -> target expression
	Rewrites     []rewriteRule     // applied in slice order

	FeatureRules  []featureRule
	TypeIssues    []typeIssueRule
	ViewFunctions []viewFunctionRule
	BracketIdents *regexp.Regexp // bracket-quoted identifier syntax, nil when absent
}

// featureRule flags an engine feature with no direct target equivalent.
type featureRule struct {
	pattern     *regexp.Regexp
	feature     string
	severity    string
	remediation string
}

// typeIssueRule flags a source data type worth a migration note.
type typeIssueRule struct {
	dataType    string
	severity    string
	description string
	remediation string
}

// viewFunctionRule flags an engine-specific function inside view bodies.
type viewFunctionRule struct {
	pattern *regexp.Regexp
	name    string
}

// mapType resolves a source type name to its target type, case-
// insensitively. The bool reports whether the type is known.
func (d *Dialect) mapType(name string) (string, bool) {
	mapped, ok := d.TypeMap[strings.ToLower(name)]
	return mapped, ok
}

// mapDefault translates a column default expression. Outer parentheses
// are stripped first (SQL Server wraps defaults as "((0))" or
// "(getdate())"), then the expression is matched case-insensitively
// against the dialect table. Unmatched expressions pass through
// verbatim in their stripped form.
func (d *Dialect) mapDefault(expr string) string {
	stripped := stripOuterParens(expr)
	if mapped, ok := d.DefaultMap[strings.ToLower(stripped)]; ok {
		return mapped
	}
	return stripped
}

// withOverrides returns a copy of the dialect with config-supplied type
// and default mappings merged over the built-in tables.
func (d *Dialect) withOverrides(types, defaults map[string]string) *Dialect {
	if len(types) == 0 && len(defaults) == 0 {
		return d
	}
	out := *d
	out.TypeMap = make(map[string]string, len(d.TypeMap)+len(types))
	for k, v := range d.TypeMap {
		out.TypeMap[k] = v
	}
	for k, v := range types {
		out.TypeMap[strings.ToLower(k)] = v
	}
	out.DefaultMap = make(map[string]string, len(d.DefaultMap)+len(defaults))
	for k, v := range d.DefaultMap {
		out.DefaultMap[k] = v
	}
	for k, v := range defaults {
		out.DefaultMap[strings.ToLower(k)] = v
	}
	return &out
}

// stripOuterParens removes balanced wrapping parentheses, one layer at a
// time, so "((0))" becomes "0" but "(a),(b)" is left alone.
func stripOuterParens(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		depth := 0
		balanced := true
		for i := 0; i < len(s)-1; i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				balanced = false
				break
			}
		}
		if !balanced {
			return s
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// dialectByName returns the rule table for a source engine type name.
func dialectByName(name string) (*Dialect, bool) {
	switch name {
	case "sqlserver":
		return tsqlDialect, true
	case "mysql":
		return mysqlDialect, true
	case "sqlite":
		return sqliteDialect, true
	}
	return nil, false
}
