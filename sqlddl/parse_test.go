package sqlddl

import (
	"strings"
	"testing"

	"github.com/sqldef/stateql/ir"
)

func TestParseMultiStatement(t *testing.T) {
	objs, err := Parse(`
create table users (id int primary key, email text);
create index idx_users_email on users (email);
create view active_users as select * from users;
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 3 {
		t.Fatalf("got %d objects: %+v", len(objs), objs)
	}
	tbl, ok := objs[0].(*ir.Table)
	if !ok || tbl.Name.Name.Value != "users" {
		t.Errorf("obj 0 = %+v", objs[0])
	}
	idx, ok := objs[1].(*ir.Index)
	if !ok || idx.Name.Value != "idx_users_email" {
		t.Errorf("obj 1 = %+v", objs[1])
	}
	v, ok := objs[2].(*ir.View)
	if !ok || v.Name.Name.Value != "active_users" {
		t.Errorf("obj 2 = %+v", objs[2])
	}
}

func TestParseTableLevelUniqueSurfacesAsExtraObject(t *testing.T) {
	objs, err := Parse("create table t (id int, email text, constraint uq_email unique (email));")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("got %d objects: %+v", len(objs), objs)
	}
	if _, ok := objs[0].(*ir.Table); !ok {
		t.Errorf("obj 0 = %+v, want *ir.Table", objs[0])
	}
	idx, ok := objs[1].(*ir.Index)
	if !ok || !idx.Unique || !idx.Constraint {
		t.Errorf("obj 1 = %+v, want a unique constraint index", objs[1])
	}
}

func TestParsePartitionChildMergesIntoParent(t *testing.T) {
	objs, err := Parse(`
create table events (id int, created_at date) partition by range (created_at);
create table events_2024 partition of events for values from ('2024-01-01') to ('2025-01-01');
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("expected the partition child to be folded into its parent, got %d objects: %+v", len(objs), objs)
	}
	tbl := objs[0].(*ir.Table)
	if tbl.Partition == nil || len(tbl.Partition.Elements) != 1 {
		t.Fatalf("partition = %+v", tbl.Partition)
	}
	if tbl.Partition.Elements[0].Name != "events_2024" {
		t.Errorf("element name = %q", tbl.Partition.Elements[0].Name)
	}
}

func TestParsePartitionChildBeforeParent(t *testing.T) {
	objs, err := Parse(`
create table events_2024 partition of events for values from ('2024-01-01') to ('2025-01-01');
create table events (id int, created_at date) partition by range (created_at);
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects: %+v", len(objs), objs)
	}
	tbl := objs[0].(*ir.Table)
	if len(tbl.Partition.Elements) != 1 || tbl.Partition.Elements[0].Name != "events_2024" {
		t.Errorf("partition = %+v", tbl.Partition)
	}
}

func TestParseOrphanPartitionChildIsSkipped(t *testing.T) {
	objs, err := Parse("create table orphan_child partition of nonexistent_parent for values from (1) to (2);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("expected the orphan child to be dropped silently, got %+v", objs)
	}
}

func TestParseRenameAnnotationAttachesToPrecedingTable(t *testing.T) {
	objs, err := Parse(`
create table accounts (id int);
create table users_new (id int); -- @renamed from = users
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("got %d objects: %+v", len(objs), objs)
	}
	if objs[0].(*ir.Table).RenamedFrom != nil {
		t.Errorf("accounts should not carry a rename: %+v", objs[0])
	}
	tbl := objs[1].(*ir.Table)
	if tbl.RenamedFrom == nil || tbl.RenamedFrom.Name.Value != "users" {
		t.Errorf("renamed from = %+v", tbl.RenamedFrom)
	}
}

func TestParseOrphanRenameAnnotationIsError(t *testing.T) {
	_, err := Parse("-- @renamed from = users\ncreate table x (id int);\n")
	if err == nil {
		t.Fatal("expected an error: the annotation has no preceding object")
	}
	if !strings.Contains(err.Error(), "no preceding object") {
		t.Errorf("error = %v", err)
	}
}

func TestParseIgnoresUnsupportedStatements(t *testing.T) {
	objs, err := Parse("alter table users add column age int;\ncreate table t (id int);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("expected the unsupported ALTER TABLE to be skipped, got %+v", objs)
	}
}

func TestParseEmptyInput(t *testing.T) {
	objs, err := Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("expected no objects, got %+v", objs)
	}
}
