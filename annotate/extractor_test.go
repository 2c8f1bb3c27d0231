package annotate

import (
	"strings"
	"testing"
)

func TestExtractBasicRename(t *testing.T) {
	sql := "CREATE TABLE users ( -- @renamed from = old_users\n  id int\n);\n"
	cleaned, anns := Extract(sql)
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d: %v", len(anns), anns)
	}
	if anns[0].From != "old_users" || anns[0].Line != 1 || anns[0].Deprecated {
		t.Fatalf("unexpected annotation: %+v", anns[0])
	}
	if strings.Contains(cleaned, "@renamed") {
		t.Fatalf("annotation text was not spliced out: %q", cleaned)
	}
	if strings.Count(cleaned, "\n") != strings.Count(sql, "\n") {
		t.Fatalf("newline count changed: got %q", cleaned)
	}
}

func TestExtractDeprecatedSpelling(t *testing.T) {
	sql := "-- @rename from = legacy_name\nCREATE TABLE t (id int);\n"
	_, anns := Extract(sql)
	if len(anns) != 1 || !anns[0].Deprecated || anns[0].From != "legacy_name" {
		t.Fatalf("unexpected: %+v", anns)
	}
}

func TestExtractQuotedIdentifier(t *testing.T) {
	sql := `-- @renamed from = "Old Name"` + "\n"
	_, anns := Extract(sql)
	if len(anns) != 1 || anns[0].From != "Old Name" {
		t.Fatalf("unexpected: %+v", anns)
	}
}

func TestExtractQuotedIdentifierDoubledQuoteEscape(t *testing.T) {
	sql := `-- @renamed from = "a""b"` + "\n"
	_, anns := Extract(sql)
	if len(anns) != 1 || anns[0].From != `a"b` {
		t.Fatalf("unexpected: %+v", anns)
	}
}

func TestDashDashInsideStringIsNotAComment(t *testing.T) {
	sql := "SELECT '--not a comment' AS x; -- @renamed from = real\n"
	cleaned, anns := Extract(sql)
	if len(anns) != 1 || anns[0].From != "real" {
		t.Fatalf("unexpected: %+v", anns)
	}
	if !strings.Contains(cleaned, "--not a comment") {
		t.Fatalf("string literal was mangled: %q", cleaned)
	}
}

func TestDoubledSingleQuoteInsideStringIsNotATerminator(t *testing.T) {
	sql := "SELECT 'it''s -- not a comment' AS x; -- @renamed from = real\n"
	cleaned, anns := Extract(sql)
	if len(anns) != 1 || anns[0].From != "real" {
		t.Fatalf("unexpected: %+v", anns)
	}
	if !strings.Contains(cleaned, "it''s -- not a comment") {
		t.Fatalf("string literal was mangled: %q", cleaned)
	}
}

func TestNoAnnotationLeavesLineUntouched(t *testing.T) {
	sql := "CREATE TABLE t ( -- just a normal comment\n  id int\n);\n"
	cleaned, anns := Extract(sql)
	if len(anns) != 0 {
		t.Fatalf("expected no annotations, got %v", anns)
	}
	if cleaned != sql {
		t.Fatalf("cleaned SQL changed with no annotation present: %q", cleaned)
	}
}

func TestMultilinePreservesLineNumbers(t *testing.T) {
	sql := "CREATE TABLE a (id int);\nCREATE TABLE b ( -- @renamed from = old_b\n  id int\n);\n"
	_, anns := Extract(sql)
	if len(anns) != 1 || anns[0].Line != 2 {
		t.Fatalf("expected annotation on line 2, got %+v", anns)
	}
}

func TestUnrecognizedAtMarkerIsIgnored(t *testing.T) {
	sql := "-- contact admin@example.com for help\nCREATE TABLE t (id int);\n"
	_, anns := Extract(sql)
	if len(anns) != 0 {
		t.Fatalf("expected no annotations, got %v", anns)
	}
}
