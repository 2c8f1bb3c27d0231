package sqlddl

import (
	"testing"

	"github.com/sqldef/stateql/ir"
)

func TestParseCreateIndexBasic(t *testing.T) {
	idx, ok := parseCreateIndex(NewScanner("create index idx_users_email on users (email)"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if idx.Unique {
		t.Error("expected non-unique index")
	}
	if idx.Name.Value != "idx_users_email" {
		t.Errorf("name = %q", idx.Name.Value)
	}
	if idx.Owner.Name.Value != "users" {
		t.Errorf("owner = %+v", idx.Owner)
	}
	if len(idx.Columns) != 1 || idx.Columns[0].Column != "email" {
		t.Errorf("columns = %+v", idx.Columns)
	}
}

func TestParseCreateIndexUnique(t *testing.T) {
	idx, ok := parseCreateIndex(NewScanner("create unique index idx_u on t (a, b desc)"))
	if !ok || !idx.Unique {
		t.Fatalf("expected unique index, got %+v ok=%v", idx, ok)
	}
	if len(idx.Columns) != 2 {
		t.Fatalf("columns = %+v", idx.Columns)
	}
	if idx.Columns[1].Direction != ir.DirectionDesc {
		t.Errorf("column 1 direction = %v", idx.Columns[1].Direction)
	}
}

func TestParseCreateIndexConcurrentlyIfNotExists(t *testing.T) {
	idx, ok := parseCreateIndex(NewScanner("create index concurrently if not exists idx_a on t (a)"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if idx.Name.Value != "idx_a" {
		t.Errorf("name = %q", idx.Name.Value)
	}
}

func TestParseCreateIndexUsingMethod(t *testing.T) {
	idx, ok := parseCreateIndex(NewScanner("create index idx_g on t using gin (data)"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(idx.Columns) != 1 || idx.Columns[0].Column != "data" {
		t.Errorf("columns = %+v", idx.Columns)
	}
}

func TestParseCreateIndexIncludeAndWhere(t *testing.T) {
	idx, ok := parseCreateIndex(NewScanner("create index idx_p on t (a) include (b, c) where a > 0"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(idx.Included) != 2 || idx.Included[0] != "b" || idx.Included[1] != "c" {
		t.Errorf("included = %+v", idx.Included)
	}
	if idx.Where != "a > 0" {
		t.Errorf("where = %q", idx.Where)
	}
}

func TestParseCreateIndexRejectsNonIndexStatement(t *testing.T) {
	if _, ok := parseCreateIndex(NewScanner("create table t (a int)")); ok {
		t.Fatal("expected parse to fail for a CREATE TABLE statement")
	}
}
