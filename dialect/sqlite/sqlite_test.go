package sqlite

import (
	"strings"
	"testing"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateexec"
)

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent(`a"b`); got != `"a""b"` {
		t.Errorf("QuoteIdent: got %q", got)
	}
}

func TestAddColumnGeneratesSimpleAlter(t *testing.T) {
	s := New()
	ops := []diff.Op{diff.AddColumn{
		Table:  ir.NewQualifiedName("users"),
		Column: ir.Column{Name: ir.NewIdentifier("nickname"), DataType: "text"},
	}}
	stmts, err := s.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(stmts))
	}
	sq := stmts[0].(stateexec.Sql)
	if !strings.HasPrefix(sq.SQL, "ALTER TABLE") || !strings.Contains(sq.SQL, "ADD COLUMN") {
		t.Errorf("expected a direct ADD COLUMN, got %q", sq.SQL)
	}
	if sq.Context != nil {
		t.Error("a directly-renderable op should carry no rebuild context")
	}
}

func TestAlterColumnRewritesToRebuildSteps(t *testing.T) {
	s := New()
	table := ir.NewQualifiedName("users")
	ops := []diff.Op{diff.AlterColumn{
		Table:  table,
		Column: ir.NewIdentifier("age"),
		Changes: []diff.ColumnChange{
			{Kind: diff.ColumnNotNullChanged, NewNotNull: true},
		},
	}}
	stmts, err := s.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) < 4 {
		t.Fatalf("expected a multi-step rebuild sequence, got %d statements", len(stmts))
	}

	var sawCopy bool
	for _, stmt := range stmts {
		sq, ok := stmt.(stateexec.Sql)
		if !ok {
			t.Fatalf("sqlite generator should not emit BatchBoundary")
		}
		if !sq.Transactional {
			t.Error("every rebuild statement must be transactional")
		}
		ctx, ok := sq.Context.(stateexec.SqliteTableRebuild)
		if !ok {
			t.Fatalf("every rebuild statement must carry SqliteTableRebuild context, got %#v", sq.Context)
		}
		if ctx.Table != "users" {
			t.Errorf("expected context table %q, got %q", "users", ctx.Table)
		}
		if ctx.Step == stateexec.CopyData {
			sawCopy = true
		}
	}
	if !sawCopy {
		t.Error("rebuild must include a copy-data step")
	}
}

func TestAlterColumnNotNullGuardsCopy(t *testing.T) {
	s := New()
	ops := []diff.Op{diff.AlterColumn{
		Table:  ir.NewQualifiedName("users"),
		Column: ir.NewIdentifier("age"),
		Changes: []diff.ColumnChange{
			{Kind: diff.ColumnNotNullChanged, NewNotNull: true},
		},
	}}
	stmts, err := s.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawGuardedInsert, sawAbort bool
	for _, stmt := range stmts {
		sq := stmt.(stateexec.Sql)
		if strings.Contains(sq.SQL, "INSERT INTO") && strings.Contains(sq.SQL, `"age" IS NOT NULL`) {
			sawGuardedInsert = true
		}
		if strings.Contains(sq.SQL, "RAISE(ABORT") {
			sawAbort = true
		}
	}
	if !sawGuardedInsert {
		t.Error("expected the copy step to guard on the tightened NOT NULL column")
	}
	if !sawAbort {
		t.Error("expected a failing statement for rows that violate the new NOT NULL constraint")
	}
}

func TestRebuildGroupsMultipleOpsPerTable(t *testing.T) {
	s := New()
	table := ir.NewQualifiedName("users")
	ops := []diff.Op{
		diff.AlterColumn{Table: table, Column: ir.NewIdentifier("age"), Changes: []diff.ColumnChange{{Kind: diff.ColumnTypeChanged, NewType: "bigint"}}},
		diff.AddForeignKey{Table: table, FK: ir.ForeignKey{ConstraintName: "fk_org", Columns: []string{"org_id"}, ReferenceTable: ir.NewQualifiedName("orgs")}},
	}
	stmts, err := s.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var shadowTables int
	for _, stmt := range stmts {
		sq := stmt.(stateexec.Sql)
		if ctx, ok := sq.Context.(stateexec.SqliteTableRebuild); ok && ctx.Step == stateexec.CreateShadowTable {
			shadowTables++
		}
	}
	if shadowTables != 1 {
		t.Errorf("expected exactly one rebuild sequence for both ops on the same table, got %d", shadowTables)
	}
}
