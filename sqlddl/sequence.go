package sqlddl

import (
	"strconv"

	"github.com/sqldef/stateql/ir"
)

// parseSequence handles both `CREATE SEQUENCE name <clauses>` and `ALTER
// SEQUENCE name <clauses>`; both share the same clause grammar (AS type,
// INCREMENT [BY] n, {MIN,MAX}VALUE n / NO {MIN,MAX}VALUE, START [WITH] n,
// CACHE n, [NO] CYCLE, OWNED BY table.column).
func parseSequence(s *Scanner) (*ir.Sequence, bool) {
	altering := s.EatWord("alter")
	if !altering {
		s.EatWord("create")
	}
	if !s.EatWord("sequence") {
		return nil, false
	}
	if s.EatWord("if") {
		if altering {
			s.EatWord("exists")
		} else {
			s.EatWord("not")
			s.EatWord("exists")
		}
	}
	name := parseQualifiedName(s)
	seq := &ir.Sequence{Name: name}

	for !s.AtEOF() {
		switch {
		case s.EatWord("as"):
			seq.DataType, _, _ = s.Ident()
		case s.EatWord("increment"):
			s.EatWord("by")
			seq.IncrementBy = parseSignedInt(s)
		case s.EatWord("no"):
			switch {
			case s.EatWord("minvalue"):
				seq.NoMinValue = true
			case s.EatWord("maxvalue"):
				seq.NoMaxValue = true
			case s.EatWord("cycle"):
				seq.Cycle = false
			}
		case s.EatWord("minvalue"):
			seq.MinValue = parseSignedInt(s)
		case s.EatWord("maxvalue"):
			seq.MaxValue = parseSignedInt(s)
		case s.EatWord("start"):
			s.EatWord("with")
			seq.StartWith = parseSignedInt(s)
		case s.EatWord("restart"):
			s.EatWord("with")
			parseSignedInt(s) // RESTART is a runtime-only clause, not part of the declared shape
		case s.EatWord("cache"):
			seq.Cache = parseSignedInt(s)
		case s.EatWord("cycle"):
			seq.Cycle = true
		case s.EatWord("owned"):
			s.EatWord("by")
			owner, _, _ := s.Ident()
			if s.EatPunct(".") {
				col, _, _ := s.Ident()
				owner = owner + "." + col
			}
			seq.OwnedBy = owner
		default:
			s.Next()
		}
	}
	return seq, true
}

func parseSignedInt(s *Scanner) *int64 {
	neg := s.EatPunct("-")
	t := s.Next()
	if t.Kind != TokNumber {
		return nil
	}
	n, err := strconv.ParseInt(t.Text, 10, 64)
	if err != nil {
		return nil
	}
	if neg {
		n = -n
	}
	return &n
}
