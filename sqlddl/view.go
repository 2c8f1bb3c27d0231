package sqlddl

import "github.com/sqldef/stateql/ir"

// parseCreateView handles `CREATE [OR REPLACE] [MATERIALIZED] VIEW name
// [(cols)] AS <query>`; the query text is captured verbatim (view rebuild
// dependency scanning is a textual substring check, not a parse).
func parseCreateView(s *Scanner) (ir.SchemaObject, bool) {
	if !s.EatWord("create") {
		return nil, false
	}
	s.EatWord("or")
	s.EatWord("replace")
	materialized := s.EatWord("materialized")
	if !s.EatWord("view") {
		return nil, false
	}
	if s.EatWord("if") {
		s.EatWord("not")
		s.EatWord("exists")
	}
	name := parseQualifiedName(s)

	var columns []string
	if s.EatPunct("(") {
		columns = parseIdentList(s)
		s.EatPunct(")")
	}
	s.EatWord("as")
	definition := s.RestOfSource()

	if materialized {
		return &ir.MaterializedView{Name: name, Definition: definition, Columns: columns}, true
	}
	return &ir.View{Name: name, Definition: definition, Columns: columns}, true
}
