package sqlddl

import (
	"strings"
	"testing"
)

func TestParseCreateTriggerBasic(t *testing.T) {
	trig, ok := parseCreateTrigger(NewScanner("create trigger trg_audit before insert or update on users execute procedure audit_fn()"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if trig.Name.Value != "trg_audit" {
		t.Errorf("name = %q", trig.Name.Value)
	}
	if trig.Timing != "before" {
		t.Errorf("timing = %q", trig.Timing)
	}
	if len(trig.Events) != 2 || trig.Events[0] != "insert" || trig.Events[1] != "update" {
		t.Errorf("events = %+v", trig.Events)
	}
	if trig.Table.Name.Value != "users" {
		t.Errorf("table = %+v", trig.Table)
	}
	if !strings.Contains(trig.Body, "audit_fn") {
		t.Errorf("body = %q", trig.Body)
	}
}

func TestParseCreateTriggerInsteadOf(t *testing.T) {
	trig, ok := parseCreateTrigger(NewScanner("create trigger trg_io instead of delete on v_orders execute function noop()"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if trig.Timing != "instead of" {
		t.Errorf("timing = %q", trig.Timing)
	}
	if len(trig.Events) != 1 || trig.Events[0] != "delete" {
		t.Errorf("events = %+v", trig.Events)
	}
}

func TestParseCreateFunctionBasic(t *testing.T) {
	fn, ok := parseCreateFunction(NewScanner("create function total(a int, b int) returns int language sql as $$ select a + b $$"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if fn.Name.Name.Value != "total" {
		t.Errorf("name = %+v", fn.Name)
	}
	if fn.Args != "a int, b int" {
		t.Errorf("args = %q", fn.Args)
	}
	if strings.TrimSpace(fn.ReturnType) != "int" {
		t.Errorf("return type = %q", fn.ReturnType)
	}
	if fn.Language != "sql" {
		t.Errorf("language = %q", fn.Language)
	}
	if !strings.Contains(fn.Body, "select a + b") {
		t.Errorf("body = %q", fn.Body)
	}
}

func TestParseCreateFunctionOrReplaceNoArgs(t *testing.T) {
	fn, ok := parseCreateFunction(NewScanner("create or replace function noop() returns void as $$ begin end $$ language plpgsql"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if fn.Name.Name.Value != "noop" {
		t.Errorf("name = %+v", fn.Name)
	}
	if !strings.Contains(fn.Body, "begin end") {
		t.Errorf("body = %q", fn.Body)
	}
}

func TestParseCreateFunctionRejectsNonFunctionStatement(t *testing.T) {
	if _, ok := parseCreateFunction(NewScanner("create table t (a int)")); ok {
		t.Fatal("expected parse to fail for a CREATE TABLE statement")
	}
}
