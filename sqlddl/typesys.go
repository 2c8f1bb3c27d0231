package sqlddl

import "github.com/sqldef/stateql/ir"

// parseCreateType handles `CREATE TYPE name AS ENUM (vals...)`. Composite
// types (`AS (field type, ...)`) are recognized but carry no field list in
// the IR (TypeKindComposite has no fields to diff in this scanner's scope —
// stateql only diffs the enum-value case).
func parseCreateType(s *Scanner) (*ir.TypeDef, bool) {
	if !s.EatWord("create") {
		return nil, false
	}
	if !s.EatWord("type") {
		return nil, false
	}
	name := parseQualifiedName(s)
	s.EatWord("as")

	if s.EatWord("enum") {
		s.EatPunct("(")
		var values []string
		for {
			var v string
			switch s.Peek().Kind {
			case TokString:
				v = s.Next().Text
			case TokWord, TokQuotedIdent:
				v, _, _ = s.Ident()
			default:
				goto enumDone
			}
			values = append(values, v)
			if s.EatPunct(",") {
				continue
			}
			break
		}
	enumDone:
		s.EatPunct(")")
		return &ir.TypeDef{Name: name, Kind: ir.TypeKindEnum, EnumValues: values}, true
	}
	return &ir.TypeDef{Name: name, Kind: ir.TypeKindComposite}, true
}

// parseCreateDomain handles `CREATE DOMAIN name AS basetype [DEFAULT expr]
// [NOT NULL] [CHECK (expr)]*`.
func parseCreateDomain(s *Scanner) (*ir.Domain, bool) {
	if !s.EatWord("create") {
		return nil, false
	}
	if !s.EatWord("domain") {
		return nil, false
	}
	name := parseQualifiedName(s)
	s.EatWord("as")
	d := &ir.Domain{Name: name, BaseType: parseDataType(s)}

	for !s.AtEOF() {
		switch {
		case s.EatWord("not"):
			s.EatWord("null")
			d.NotNull = true
		case s.EatWord("null"):
		case s.EatWord("default"):
			expr := s.CaptureBalanced("not", "check")
			d.Default = rawExpr(expr)
		case s.EatWord("constraint"):
			constraintName, _, _ := s.Ident()
			s.EatWord("check")
			s.EatPunct("(")
			expr := s.CaptureBalanced(")")
			s.EatPunct(")")
			d.Checks = append(d.Checks, ir.CheckDefinition{Name: constraintName, Expr: *rawExpr(expr)})
		case s.EatWord("check"):
			s.EatPunct("(")
			expr := s.CaptureBalanced(")")
			s.EatPunct(")")
			d.Checks = append(d.Checks, ir.CheckDefinition{Expr: *rawExpr(expr)})
		default:
			s.Next()
		}
	}
	return d, true
}
