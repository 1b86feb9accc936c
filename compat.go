package main

import "fmt"

// CompatIssue is one advisory finding from the compatibility analyzer.
type CompatIssue struct {
	Category    string // data_type, feature, syntax, function
	Severity    string // low, medium, high
	Object      string // schema-qualified name of the flagged object
	Description string
	Remediation string
}

// CompatReport partitions issues the way they are acted on: type
// conversions to verify, features to redesign, syntax and functions the
// converter already handles.
type CompatReport struct {
	DataTypes []CompatIssue
	Features  []CompatIssue
	Syntax    []CompatIssue
	Functions []CompatIssue
}

// Total returns the number of issues across all partitions.
func (r *CompatReport) Total() int {
	return len(r.DataTypes) + len(r.Features) + len(r.Syntax) + len(r.Functions)
}

// CountSeverity returns how many issues carry the given severity.
func (r *CompatReport) CountSeverity(sev string) int {
	n := 0
	for _, part := range [][]CompatIssue{r.DataTypes, r.Features, r.Syntax, r.Functions} {
		for _, issue := range part {
			if issue.Severity == sev {
				n++
			}
		}
	}
	return n
}

// analyzeCompatibility inspects a snapshot for constructs that need
// attention on PostgreSQL. Detection against definition bodies is
// textual: a keyword inside a comment or string literal still matches.
// That trade-off is accepted; the report is advisory, not a gate.
func analyzeCompatibility(snap *Snapshot, d *Dialect) *CompatReport {
	report := &CompatReport{}

	for _, key := range snap.TableKeys() {
		t := snap.Tables[key]
		for _, col := range t.Columns {
			for _, rule := range d.TypeIssues {
				if col.DataType != rule.dataType {
					continue
				}
				report.DataTypes = append(report.DataTypes, CompatIssue{
					Category:    "data_type",
					Severity:    rule.severity,
					Object:      key + "." + col.Name,
					Description: rule.description,
					Remediation: rule.remediation,
				})
			}
			if col.IsIdentity {
				report.Features = append(report.Features, CompatIssue{
					Category:    "feature",
					Severity:    "high",
					Object:      key + "." + col.Name,
					Description: "column has the IDENTITY property",
					Remediation: "Use SERIAL or GENERATED columns instead",
				})
			}
		}
	}

	for _, key := range snap.RoutineKeys() {
		r := snap.Routines[key]
		for _, rule := range d.FeatureRules {
			if !rule.pattern.MatchString(r.Definition) {
				continue
			}
			report.Features = append(report.Features, CompatIssue{
				Category:    "feature",
				Severity:    rule.severity,
				Object:      key,
				Description: fmt.Sprintf("%s definition uses %s", r.Kind, rule.feature),
				Remediation: rule.remediation,
			})
		}
	}

	for _, key := range snap.ViewKeys() {
		v := snap.Views[key]
		for _, rule := range d.FeatureRules {
			if !rule.pattern.MatchString(v.Definition) {
				continue
			}
			report.Features = append(report.Features, CompatIssue{
				Category:    "feature",
				Severity:    rule.severity,
				Object:      key,
				Description: fmt.Sprintf("view definition uses %s", rule.feature),
				Remediation: rule.remediation,
			})
		}
		if d.BracketIdents != nil && d.BracketIdents.MatchString(v.Definition) {
			report.Syntax = append(report.Syntax, CompatIssue{
				Category:    "syntax",
				Severity:    "low",
				Object:      key,
				Description: "view definition uses bracket-quoted identifiers",
				Remediation: "Rewritten to double-quoted identifiers during conversion",
			})
		}
		for _, fn := range d.ViewFunctions {
			if !fn.pattern.MatchString(v.Definition) {
				continue
			}
			report.Functions = append(report.Functions, CompatIssue{
				Category:    "function",
				Severity:    "medium",
				Object:      key,
				Description: fmt.Sprintf("view definition calls %s", fn.name),
				Remediation: "Converted automatically where possible",
			})
		}
	}

	return report
}
