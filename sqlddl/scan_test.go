package sqlddl

import "testing"

func TestScannerWords(t *testing.T) {
	s := NewScanner("CREATE TABLE users")
	tok := s.Next()
	if tok.Kind != TokWord || tok.Text != "CREATE" || tok.Lower != "create" {
		t.Fatalf("got %+v", tok)
	}
	tok = s.Next()
	if tok.Text != "TABLE" {
		t.Fatalf("got %+v", tok)
	}
	tok = s.Next()
	if tok.Text != "users" {
		t.Fatalf("got %+v", tok)
	}
	if !s.AtEOF() {
		t.Fatal("expected EOF")
	}
}

func TestScannerQuotedIdentVariants(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`"my col"`, "my col"},
		{"`my col`", "my col"},
		{"[my col]", "my col"},
		{`"with ""quote"""`, `with "quote"`},
	}
	for _, c := range cases {
		s := NewScanner(c.src)
		tok := s.Next()
		if tok.Kind != TokQuotedIdent {
			t.Fatalf("%q: got kind %v", c.src, tok.Kind)
		}
		if tok.Text != c.want {
			t.Errorf("%q: got %q, want %q", c.src, tok.Text, c.want)
		}
	}
}

func TestScannerString(t *testing.T) {
	s := NewScanner(`'it''s fine'`)
	tok := s.Next()
	if tok.Kind != TokString || tok.Text != "it's fine" {
		t.Fatalf("got %+v", tok)
	}
}

func TestScannerNumber(t *testing.T) {
	for _, src := range []string{"42", "3.14", "1e10", "1.5e-3"} {
		s := NewScanner(src)
		tok := s.Next()
		if tok.Kind != TokNumber || tok.Text != src {
			t.Errorf("%q: got %+v", src, tok)
		}
	}
}

func TestScannerSkipsComments(t *testing.T) {
	s := NewScanner("-- comment\nCREATE /* inline */ TABLE")
	tok := s.Next()
	if tok.Text != "CREATE" {
		t.Fatalf("got %+v", tok)
	}
	tok = s.Next()
	if tok.Text != "TABLE" {
		t.Fatalf("got %+v", tok)
	}
}

func TestScannerPeekDoesNotConsume(t *testing.T) {
	s := NewScanner("foo bar")
	if s.Peek().Text != "foo" {
		t.Fatal("peek mismatch")
	}
	if s.Peek().Text != "foo" {
		t.Fatal("peek should be idempotent")
	}
	if s.Next().Text != "foo" {
		t.Fatal("next mismatch")
	}
	if s.Next().Text != "bar" {
		t.Fatal("next mismatch")
	}
}

func TestEatWordCaseInsensitive(t *testing.T) {
	s := NewScanner("Create TABLE")
	if !s.EatWord("create") {
		t.Fatal("expected EatWord to match case-insensitively")
	}
	if !s.EatWord("table") {
		t.Fatal("expected EatWord to match table")
	}
}

func TestPeekWordIn(t *testing.T) {
	s := NewScanner("unique (a, b)")
	if !s.PeekWordIn("primary", "unique", "foreign") {
		t.Fatal("expected PeekWordIn to match unique")
	}
}

func TestCaptureBalancedStopsAtTopLevelStopWord(t *testing.T) {
	s := NewScanner("(a, func(1,2)) not null")
	s.EatPunct("(")
	captured := s.CaptureBalanced(")")
	if captured != "a, func(1,2)" {
		t.Fatalf("got %q", captured)
	}
	if !s.EatPunct(")") {
		t.Fatal("expected closing paren still present")
	}
	if !s.PeekWord("not") {
		t.Fatal("expected scanner positioned at 'not'")
	}
}

func TestCaptureBalancedIgnoresQuotedStopWord(t *testing.T) {
	s := NewScanner("'not a stop' not null")
	captured := s.CaptureBalanced("not")
	if captured != "'not a stop'" {
		t.Fatalf("got %q", captured)
	}
	if !s.PeekWord("not") {
		t.Fatal("expected scanner positioned at trailing 'not'")
	}
}

func TestRestOfSource(t *testing.T) {
	s := NewScanner("  select 1;  ")
	if got := s.RestOfSource(); got != "select 1;" {
		t.Fatalf("got %q", got)
	}
	if !s.AtEOF() {
		t.Fatal("expected EOF after RestOfSource")
	}
}
