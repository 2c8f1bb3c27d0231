package stateconfig

import (
	"reflect"
	"testing"
)

func TestParseStringEmpty(t *testing.T) {
	c, err := ParseString("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(c, RuntimeConfig{}) {
		t.Errorf("expected zero value, got %+v", c)
	}
}

func TestParseStringFields(t *testing.T) {
	doc := `
target_tables: |-
  users
  orders
skip_tables: |-
  audit_log
schema_search_path: |-
  app
  public
enable_drop: true
dump_concurrency: 4
equivalence_policy: postgres-lenient
`
	c, err := ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(c.TargetTables, []string{"users", "orders"}) {
		t.Errorf("TargetTables = %v", c.TargetTables)
	}
	if !reflect.DeepEqual(c.SkipTables, []string{"audit_log"}) {
		t.Errorf("SkipTables = %v", c.SkipTables)
	}
	if !reflect.DeepEqual(c.SchemaSearchPath, []string{"app", "public"}) {
		t.Errorf("SchemaSearchPath = %v", c.SchemaSearchPath)
	}
	if !c.EnableDrop {
		t.Error("expected EnableDrop = true")
	}
	if c.DumpConcurrency != 4 {
		t.Errorf("DumpConcurrency = %d", c.DumpConcurrency)
	}
	if c.PolicyName != "postgres-lenient" {
		t.Errorf("PolicyName = %q", c.PolicyName)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	if _, err := ParseString("bogus_field: 1\n"); err == nil {
		t.Error("expected an error for an unknown field under strict decoding")
	}
}

func TestMergeOverridesOnlySetFields(t *testing.T) {
	base := RuntimeConfig{
		TargetTables: []string{"a"},
		Algorithm:    "inplace",
		EnableDrop:   false,
	}
	override := RuntimeConfig{
		EnableDrop: true,
	}
	merged := Merge(base, override)
	if !reflect.DeepEqual(merged.TargetTables, []string{"a"}) {
		t.Errorf("TargetTables should survive an override that doesn't set it, got %v", merged.TargetTables)
	}
	if merged.Algorithm != "inplace" {
		t.Errorf("Algorithm should survive, got %q", merged.Algorithm)
	}
	if !merged.EnableDrop {
		t.Error("EnableDrop should be overridden to true")
	}
}

func TestMergeAllPrecedenceOrder(t *testing.T) {
	defaults := RuntimeConfig{Lock: "none"}
	file := RuntimeConfig{Lock: "advisory", DumpConcurrency: 2}
	flags := RuntimeConfig{DumpConcurrency: 8}
	merged := MergeAll(defaults, file, flags)
	if merged.Lock != "advisory" {
		t.Errorf("Lock = %q, want file's value to survive over defaults", merged.Lock)
	}
	if merged.DumpConcurrency != 8 {
		t.Errorf("DumpConcurrency = %d, want flags to win last", merged.DumpConcurrency)
	}
}

func TestTableTargeted(t *testing.T) {
	c := RuntimeConfig{TargetTables: []string{"users", "orders"}, SkipTables: []string{"orders"}}
	if !c.TableTargeted("users") {
		t.Error("users should be targeted")
	}
	if c.TableTargeted("orders") {
		t.Error("skip_tables must win even when also present in target_tables")
	}
	if c.TableTargeted("widgets") {
		t.Error("widgets is not in target_tables and should be excluded")
	}
}

func TestTableTargetedDefaultsToAll(t *testing.T) {
	c := RuntimeConfig{SkipTables: []string{"audit_log"}}
	if !c.TableTargeted("anything") {
		t.Error("an empty TargetTables means every non-skipped table is targeted")
	}
	if c.TableTargeted("audit_log") {
		t.Error("audit_log is skipped")
	}
}

func TestViewTargeted(t *testing.T) {
	c := RuntimeConfig{SkipViews: []string{"v_internal"}}
	if !c.ViewTargeted("v_public") {
		t.Error("v_public should be targeted")
	}
	if c.ViewTargeted("v_internal") {
		t.Error("v_internal is skipped")
	}
}
