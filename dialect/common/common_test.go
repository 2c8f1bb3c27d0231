package common

import (
	"strings"
	"testing"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/ir"
)

func asciiFlavor() *Flavor {
	return &Flavor{QuoteIdent: func(s string) string { return `"` + s + `"` }}
}

func TestRenderExprBinary(t *testing.T) {
	e := ir.Expr{
		Kind: ir.ExprBinary,
		Op:   "+",
		Left: &ir.Expr{Kind: ir.ExprLiteral, Literal: ir.Value{Type: ir.ValueTypeInt, IntVal: 1}},
		Right: &ir.Expr{Kind: ir.ExprLiteral, Literal: ir.Value{Type: ir.ValueTypeInt, IntVal: 2}},
	}
	if got := RenderExpr(e); got != "(1 + 2)" {
		t.Errorf("RenderExpr: got %q", got)
	}
}

func TestRenderValueString(t *testing.T) {
	v := ir.Value{Type: ir.ValueTypeString, StrVal: "o'clock"}
	if got := RenderValue(v); got != "'o''clock'" {
		t.Errorf("RenderValue: got %q", got)
	}
}

func TestToSQLTable(t *testing.T) {
	f := asciiFlavor()
	table := ir.NewTable(ir.NewQualifiedName("users"), ir.Column{Name: ir.NewIdentifier("id"), DataType: "integer", NotNull: true})
	sql, err := ToSQL(f, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sql, `CREATE TABLE "users"`) || !strings.Contains(sql, "NOT NULL") {
		t.Errorf("unexpected SQL: %q", sql)
	}
}

func TestGenerateGenericCreateAndDrop(t *testing.T) {
	f := asciiFlavor()
	table := ir.NewTable(ir.NewQualifiedName("users"))
	stmts, err := GenerateGeneric("test", []diff.Op{
		diff.CreateTable{Table: table},
		diff.DropTable{Name: ir.NewQualifiedName("old")},
	}, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected two statements, got %d", len(stmts))
	}
}

func TestGenerateGenericAlterColumnRequiresHook(t *testing.T) {
	f := asciiFlavor()
	ops := []diff.Op{diff.AlterColumn{Table: ir.NewQualifiedName("users"), Column: ir.NewIdentifier("age")}}
	if _, err := GenerateGeneric("test", ops, f); err == nil {
		t.Error("expected an error when the flavor supplies no AlterColumnSQL hook")
	}
}

func TestNormalizeNoopWithoutFoldCase(t *testing.T) {
	f := asciiFlavor()
	table := ir.NewTable(ir.NewQualifiedName("Users"))
	Normalize(f, table)
	if table.Name.Name.Value != "Users" {
		t.Errorf("expected no folding without FoldCase, got %q", table.Name.Name.Value)
	}
}
