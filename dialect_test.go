package main

import "testing"

func TestStripOuterParens(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"((0))", "0"},
		{"(getdate())", "getdate()"},
		{"(100)", "100"},
		{"('active')", "'active'"},
		{"(a),(b)", "(a),(b)"},
		{"  (1)  ", "1"},
		{"no parens", "no parens"},
		{"(unbalanced", "(unbalanced"},
		{"()", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripOuterParens(tt.in); got != tt.want {
			t.Errorf("stripOuterParens(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapDefault(t *testing.T) {
	tests := []struct {
		name string
		d    *Dialect
		expr string
		want string
	}{
		{"getdate wrapped", tsqlDialect, "(getdate())", "CURRENT_TIMESTAMP"},
		{"getdate upper", tsqlDialect, "(GETDATE())", "CURRENT_TIMESTAMP"},
		{"newid", tsqlDialect, "(newid())", "gen_random_uuid()"},
		{"suser_sname", tsqlDialect, "(suser_sname())", "CURRENT_USER"},
		{"numeric literal", tsqlDialect, "((100))", "100"},
		{"string literal", tsqlDialect, "('pending')", "'pending'"},
		{"mysql now", mysqlDialect, "now()", "CURRENT_TIMESTAMP"},
		{"mysql current_timestamp", mysqlDialect, "CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"sqlite datetime now", sqliteDialect, "datetime('now')", "CURRENT_TIMESTAMP"},
		{"unknown passes through stripped", tsqlDialect, "(next value for seq)", "next value for seq"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.mapDefault(tt.expr); got != tt.want {
				t.Errorf("mapDefault(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestMapTypeCaseInsensitive(t *testing.T) {
	if got, ok := tsqlDialect.mapType("NVARCHAR"); !ok || got != "VARCHAR" {
		t.Errorf("mapType(NVARCHAR) = %q, %v, want VARCHAR, true", got, ok)
	}
	if _, ok := tsqlDialect.mapType("hierarchyid"); ok {
		t.Error("mapType(hierarchyid) unexpectedly known")
	}
}

func TestWithOverrides(t *testing.T) {
	d := tsqlDialect.withOverrides(
		map[string]string{"Money": "NUMERIC(19,4)", "hierarchyid": "TEXT"},
		map[string]string{"newid()": "uuid_generate_v4()"},
	)

	if got, ok := d.mapType("money"); !ok || got != "NUMERIC(19,4)" {
		t.Errorf("override mapType(money) = %q, %v, want NUMERIC(19,4), true", got, ok)
	}
	if got, ok := d.mapType("hierarchyid"); !ok || got != "TEXT" {
		t.Errorf("override mapType(hierarchyid) = %q, %v, want TEXT, true", got, ok)
	}
	if got := d.mapDefault("(newid())"); got != "uuid_generate_v4()" {
		t.Errorf("override mapDefault(newid()) = %q, want uuid_generate_v4()", got)
	}
	// Untouched entries still resolve through the copy.
	if got, ok := d.mapType("int"); !ok || got != "INTEGER" {
		t.Errorf("override mapType(int) = %q, %v, want INTEGER, true", got, ok)
	}

	// The package-level dialect must not change.
	if got, _ := tsqlDialect.mapType("money"); got != "DECIMAL(15,2)" {
		t.Errorf("tsqlDialect mutated: mapType(money) = %q", got)
	}
	if got := tsqlDialect.mapDefault("(newid())"); got != "gen_random_uuid()" {
		t.Errorf("tsqlDialect mutated: mapDefault(newid()) = %q", got)
	}
}

func TestWithOverridesNoop(t *testing.T) {
	if d := tsqlDialect.withOverrides(nil, nil); d != tsqlDialect {
		t.Error("withOverrides(nil, nil) should return the dialect unchanged")
	}
}

func TestDialectByName(t *testing.T) {
	for _, name := range []string{"sqlserver", "mysql", "sqlite"} {
		d, ok := dialectByName(name)
		if !ok || d == nil {
			t.Errorf("dialectByName(%q) not found", name)
			continue
		}
		if d.Name != name {
			t.Errorf("dialectByName(%q).Name = %q", name, d.Name)
		}
	}
	if _, ok := dialectByName("oracle"); ok {
		t.Error("dialectByName(oracle) unexpectedly found")
	}
}
