package sqlddl

import (
	"strings"

	"github.com/sqldef/stateql/ir"
)

// parseCreateIndex handles `CREATE [UNIQUE] INDEX [CONCURRENTLY] [IF NOT
// EXISTS] name ON table [USING method] (cols) [INCLUDE (cols)] [WHERE
// predicate]`.
func parseCreateIndex(s *Scanner) (*ir.Index, bool) {
	if !s.EatWord("create") {
		return nil, false
	}
	unique := s.EatWord("unique")
	if !s.EatWord("index") {
		return nil, false
	}
	s.EatWord("concurrently")
	if s.EatWord("if") {
		s.EatWord("not")
		s.EatWord("exists")
	}
	name, _, _ := s.Ident()
	s.EatWord("on")
	owner := parseQualifiedName(s)

	idx := &ir.Index{Name: ir.NewIdentifier(name), Unique: unique, Owner: owner, OwnerKind: ir.OwnerTable}

	if s.EatWord("using") {
		// USING method is a MySQL/Postgres access-method hint stateql does
		// not diff on; consumed and discarded.
		s.Next()
	}
	if s.EatPunct("(") {
		idx.Columns = parseIndexColumnList(s)
		s.EatPunct(")")
	}
	if s.EatWord("include") {
		s.EatPunct("(")
		idx.Included = parseIdentList(s)
		s.EatPunct(")")
	}
	if s.EatWord("where") {
		idx.Where = strings.TrimSpace(s.RestOfSource())
	}
	return idx, true
}
