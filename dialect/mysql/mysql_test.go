package mysql

import (
	"strings"
	"testing"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateexec"
)

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent("weird`name"); got != "`weird``name`" {
		t.Errorf("QuoteIdent: got %q", got)
	}
}

func TestNormalizeFoldsCase(t *testing.T) {
	m := New()
	table := ir.NewTable(ir.NewQualifiedName("Users"))
	m.Normalize(table)
	if table.Name.Name.Value != "users" {
		t.Errorf("expected table name folded to lowercase, got %q", table.Name.Name.Value)
	}
}

func TestRenameTableSQL(t *testing.T) {
	m := New()
	stmts, err := m.GenerateDDL([]diff.Op{diff.RenameTable{From: ir.NewQualifiedName("old"), To: ir.NewQualifiedName("new")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := stmts[0].(stateexec.Sql)
	if !strings.HasPrefix(s.SQL, "RENAME TABLE") {
		t.Errorf("expected MySQL's RENAME TABLE form, got %q", s.SQL)
	}
	if s.Transactional {
		t.Error("MySQL DDL should not be marked transactional")
	}
}

func TestAlterColumnMergesIntoModifyColumn(t *testing.T) {
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
	if len(stmts) != 1 {
		t.Fatalf("expected one MODIFY COLUMN statement, got %d", len(stmts))
	}
	s := stmts[0].(stateexec.Sql)
	if !strings.Contains(s.SQL, "MODIFY COLUMN") || !strings.Contains(s.SQL, "NOT NULL") {
		t.Errorf("expected a merged MODIFY COLUMN clause, got %q", s.SQL)
	}
}

func TestAlterColumnWithoutTypeIsUnsupported(t *testing.T) {
	m := New()
	ops := []diff.Op{diff.AlterColumn{
		Table:   ir.NewQualifiedName("users"),
		Column:  ir.NewIdentifier("age"),
		Changes: []diff.ColumnChange{{Kind: diff.ColumnCommentChanged, NewComment: "hi"}},
	}}
	if _, err := m.GenerateDDL(ops); err == nil {
		t.Error("expected an error when no type is available to render MODIFY COLUMN")
	}
}

func TestAddColumnAfterClause(t *testing.T) {
	m := New()
	after := ir.NewIdentifier("id")
	ops := []diff.Op{diff.AddColumn{
		Table:  ir.NewQualifiedName("users"),
		Column: ir.Column{Name: ir.NewIdentifier("age"), DataType: "int"},
		After:  &after,
	}}
	stmts, err := m.GenerateDDL(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := stmts[0].(stateexec.Sql)
	if !strings.Contains(s.SQL, "AFTER `id`") {
		t.Errorf("expected an AFTER clause, got %q", s.SQL)
	}
}

func TestBuildDSNTCP(t *testing.T) {
	dsn := buildDSN(dialect.ConnectionConfig{User: "root", Host: "127.0.0.1", Port: 3306, Database: "app"})
	if !strings.Contains(dsn, "tcp(127.0.0.1:3306)") {
		t.Errorf("expected tcp DSN form, got %q", dsn)
	}
}

func TestBuildDSNSocket(t *testing.T) {
	dsn := buildDSN(dialect.ConnectionConfig{Socket: "/tmp/mysql.sock", Database: "app"})
	if !strings.Contains(dsn, "unix(/tmp/mysql.sock)") {
		t.Errorf("expected unix socket DSN form, got %q", dsn)
	}
}
