package sqlddl

import (
	"strings"
	"testing"

	"github.com/sqldef/stateql/ir"
)

func TestParseCreateViewBasic(t *testing.T) {
	obj, ok := parseCreateView(NewScanner("create view active_users as select * from users where active"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	v, isView := obj.(*ir.View)
	if !isView {
		t.Fatalf("expected *ir.View, got %T", obj)
	}
	if v.Name.Name.Value != "active_users" {
		t.Errorf("name = %+v", v.Name)
	}
	if !strings.Contains(v.Definition, "select * from users where active") {
		t.Errorf("definition = %q", v.Definition)
	}
}

func TestParseCreateViewMaterialized(t *testing.T) {
	obj, ok := parseCreateView(NewScanner("create materialized view mv_totals as select sum(x) from t"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	mv, isMV := obj.(*ir.MaterializedView)
	if !isMV {
		t.Fatalf("expected *ir.MaterializedView, got %T", obj)
	}
	if mv.Name.Name.Value != "mv_totals" {
		t.Errorf("name = %+v", mv.Name)
	}
}

func TestParseCreateViewOrReplaceWithColumns(t *testing.T) {
	obj, ok := parseCreateView(NewScanner("create or replace view v (a, b) as select x, y from t"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	v := obj.(*ir.View)
	if len(v.Columns) != 2 || v.Columns[0] != "a" || v.Columns[1] != "b" {
		t.Errorf("columns = %+v", v.Columns)
	}
}

func TestParseCreateViewRejectsNonViewStatement(t *testing.T) {
	if _, ok := parseCreateView(NewScanner("create table t (a int)")); ok {
		t.Fatal("expected parse to fail for a CREATE TABLE statement")
	}
}
