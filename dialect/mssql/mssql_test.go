package mssql

import (
	"strings"
	"testing"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateexec"
)

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent("a]b"); got != "[a]]b]" {
		t.Errorf("QuoteIdent: got %q", got)
	}
}

func TestRenameTableUsesSpRename(t *testing.T) {
	m := New()
	stmts, err := m.GenerateDDL([]diff.Op{diff.RenameTable{From: ir.NewQualifiedName("old"), To: ir.NewQualifiedName("new")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := stmts[0].(stateexec.Sql)
	if !strings.Contains(s.SQL, "EXEC sp_rename") {
		t.Errorf("expected sp_rename, got %q", s.SQL)
	}
}

func TestAlterColumnTypeAndNotNull(t *testing.T) {
	m := New()
	ops := []diff.Op{diff.AlterColumn{
		Table:  ir.NewQualifiedName("users"),
		Column: ir.NewIdentifier("age"),
		Changes: []diff.ColumnChange{
			{Kind: diff.ColumnTypeChanged, NewType: "int"},
			{Kind: diff.ColumnNotNullChanged, NewNotNull: true},
		},
	}}
	stmts, err := m.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, stmt := range stmts {
		s := stmt.(stateexec.Sql)
		if strings.Contains(s.SQL, "ALTER COLUMN") && strings.Contains(s.SQL, "int") && strings.Contains(s.SQL, "NOT NULL") {
			found = true
		}
	}
	if !found {
		t.Error("expected a merged ALTER COLUMN type+nullability clause")
	}
}

func TestAlterColumnDefaultUsesNamedConstraint(t *testing.T) {
	m := New()
	lit := ir.Expr{Kind: ir.ExprLiteral, Literal: ir.Value{Type: ir.ValueTypeInt, IntVal: 0}}
	ops := []diff.Op{diff.AlterColumn{
		Table:  ir.NewQualifiedName("users"),
		Column: ir.NewIdentifier("score"),
		Changes: []diff.ColumnChange{
			{Kind: diff.ColumnDefaultChanged, NewDefault: &lit},
		},
	}}
	stmts, err := m.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawDrop, sawAdd bool
	for _, stmt := range stmts {
		s := stmt.(stateexec.Sql)
		if strings.Contains(s.SQL, "DROP CONSTRAINT") {
			sawDrop = true
		}
		if strings.Contains(s.SQL, "ADD CONSTRAINT") && strings.Contains(s.SQL, "DEFAULT") {
			sawAdd = true
		}
	}
	if !sawDrop || !sawAdd {
		t.Errorf("expected drop-then-add default constraint statements, got %d statements", len(stmts))
	}
}

func TestAlterColumnIdentityChangeUnsupported(t *testing.T) {
	m := New()
	ops := []diff.Op{diff.AlterColumn{
		Table:   ir.NewQualifiedName("users"),
		Column:  ir.NewIdentifier("id"),
		Changes: []diff.ColumnChange{{Kind: diff.ColumnIdentityChanged, NewIdentity: &ir.Identity{Behavior: "always"}}},
	}}
	if _, err := m.GenerateDDL(ops); err == nil {
		t.Error("expected an unsupported-op error for an identity change")
	}
}
