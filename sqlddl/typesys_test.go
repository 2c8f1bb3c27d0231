package sqlddl

import (
	"testing"

	"github.com/sqldef/stateql/ir"
)

func TestParseCreateTypeEnum(t *testing.T) {
	td, ok := parseCreateType(NewScanner("create type status as enum ('active', 'inactive', 'banned')"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if td.Kind != ir.TypeKindEnum {
		t.Errorf("kind = %v", td.Kind)
	}
	if len(td.EnumValues) != 3 || td.EnumValues[0] != "active" || td.EnumValues[1] != "inactive" || td.EnumValues[2] != "banned" {
		t.Errorf("enum values = %+v", td.EnumValues)
	}
}

func TestParseCreateTypeComposite(t *testing.T) {
	td, ok := parseCreateType(NewScanner("create type point2d as (x int, y int)"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if td.Kind != ir.TypeKindComposite {
		t.Errorf("kind = %v", td.Kind)
	}
}

func TestParseCreateDomainBasic(t *testing.T) {
	d, ok := parseCreateDomain(NewScanner("create domain positive_int as integer not null default 1 check (value > 0)"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if d.BaseType != "integer" {
		t.Errorf("base type = %q", d.BaseType)
	}
	if !d.NotNull {
		t.Error("expected NotNull")
	}
	if d.Default == nil || d.Default.Kind != ir.ExprLiteral || d.Default.Literal.IntVal != 1 {
		t.Errorf("default = %+v", d.Default)
	}
	if len(d.Checks) != 1 || d.Checks[0].Expr.Raw != "value > 0" {
		t.Errorf("checks = %+v", d.Checks)
	}
}

func TestParseCreateDomainNamedConstraint(t *testing.T) {
	d, ok := parseCreateDomain(NewScanner("create domain email as text constraint chk_fmt check (value like '%@%')"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(d.Checks) != 1 || d.Checks[0].Name != "chk_fmt" {
		t.Errorf("checks = %+v", d.Checks)
	}
}

func TestParseCreateTypeRejectsNonTypeStatement(t *testing.T) {
	if _, ok := parseCreateType(NewScanner("create table t (a int)")); ok {
		t.Fatal("expected parse to fail for a CREATE TABLE statement")
	}
}
