package sqlddl

import (
	"strings"

	"github.com/sqldef/stateql/ir"
)

// parseCreateExtension handles `CREATE EXTENSION [IF NOT EXISTS] name
// [WITH] [VERSION 'x']`.
func parseCreateExtension(s *Scanner) (*ir.Extension, bool) {
	if !s.EatWord("create") || !s.EatWord("extension") {
		return nil, false
	}
	if s.EatWord("if") {
		s.EatWord("not")
		s.EatWord("exists")
	}
	name, _, _ := s.Ident()
	ext := &ir.Extension{Name: ir.NewIdentifier(name)}
	s.EatWord("with")
	if s.EatWord("version") {
		t := s.Next()
		ext.Version = t.Text
	}
	return ext, true
}

// parseCreateSchema handles `CREATE SCHEMA [IF NOT EXISTS] name`.
func parseCreateSchema(s *Scanner) (*ir.SchemaDecl, bool) {
	if !s.EatWord("create") || !s.EatWord("schema") {
		return nil, false
	}
	if s.EatWord("if") {
		s.EatWord("not")
		s.EatWord("exists")
	}
	name, _, _ := s.Ident()
	return &ir.SchemaDecl{Name: ir.NewIdentifier(name)}, true
}

// parseComment handles `COMMENT ON {TABLE|COLUMN|VIEW|INDEX} target IS
// 'text'`.
func parseComment(s *Scanner) (*ir.Comment, bool) {
	if !s.EatWord("comment") || !s.EatWord("on") {
		return nil, false
	}
	var kind ir.CommentTargetKind
	switch {
	case s.EatWord("table"):
		kind = ir.CommentOnTable
	case s.EatWord("column"):
		kind = ir.CommentOnColumn
	case s.EatWord("view"):
		kind = ir.CommentOnView
	case s.EatWord("index"):
		kind = ir.CommentOnIndex
	default:
		return nil, false
	}
	target := parseQualifiedName(s)
	if s.EatPunct(".") {
		second, _, ok := s.Ident()
		if ok {
			target.Name = ir.NewIdentifier(target.Name.Value + "." + second)
		}
	} else if kind == ir.CommentOnColumn && target.HasSchema() {
		// two-part `table.column`: parseQualifiedName read the table as a schema
		target = ir.QualifiedName{Name: ir.NewIdentifier(target.Schema.Value + "." + target.Name.Value)}
	}
	s.EatWord("is")
	t := s.Next()
	return &ir.Comment{TargetKind: kind, Target: target, Text: t.Text}, true
}

// parseGrant handles `GRANT priv[, priv...] ON object TO grantee [WITH
// GRANT OPTION]`.
func parseGrant(s *Scanner) (*ir.Privilege, bool) {
	if !s.EatWord("grant") {
		return nil, false
	}
	ops := parsePrivilegeList(s)
	s.EatWord("on")
	s.EatWord("table") // optional object-type keyword, discarded
	object := parseQualifiedName(s)
	s.EatWord("to")
	grantee, _, _ := s.Ident()
	p := &ir.Privilege{Operations: ops, Object: object, Grantee: grantee}
	if s.EatWord("with") {
		s.EatWord("grant")
		s.EatWord("option")
		p.WithGrantOption = true
	}
	return p, true
}

// parseRevoke handles `REVOKE [GRANT OPTION FOR] priv[, priv...] ON object
// FROM grantee`. The parsed Privilege always carries the full current grant
// (WithGrantOption reflects what's left after the revoke, decided by the
// caller comparing against the matching desired Privilege, not by this
// parser); the "GRANT OPTION FOR" prefix itself is only meaningful for an
// already-exported current-schema dump and is otherwise discarded here.
func parseRevoke(s *Scanner) (*ir.Privilege, bool) {
	if !s.EatWord("revoke") {
		return nil, false
	}
	s.EatWord("grant")
	s.EatWord("option")
	s.EatWord("for")
	ops := parsePrivilegeList(s)
	s.EatWord("on")
	s.EatWord("table")
	object := parseQualifiedName(s)
	s.EatWord("from")
	grantee, _, _ := s.Ident()
	return &ir.Privilege{Operations: ops, Object: object, Grantee: grantee}, true
}

func parsePrivilegeList(s *Scanner) []ir.PrivilegeOp {
	var ops []ir.PrivilegeOp
	for {
		if s.PeekWord("on") {
			break
		}
		w, _, ok := s.Ident()
		if !ok {
			break
		}
		ops = append(ops, ir.PrivilegeOp(strings.ToUpper(w)))
		if s.EatPunct(",") {
			continue
		}
		break
	}
	return ops
}

// parseCreatePolicy handles `CREATE POLICY name ON table [AS {PERMISSIVE|
// RESTRICTIVE}] [FOR cmd] [TO role[, role...]] [USING (expr)] [WITH CHECK
// (expr)]`.
func parseCreatePolicy(s *Scanner) (*ir.Policy, bool) {
	if !s.EatWord("create") || !s.EatWord("policy") {
		return nil, false
	}
	name, quoted, _ := s.Ident()
	pol := &ir.Policy{Name: ir.Identifier{Value: name, Quoted: quoted}, Permissive: "PERMISSIVE"}
	s.EatWord("on")
	pol.Table = parseQualifiedName(s)

	for !s.AtEOF() {
		switch {
		case s.EatWord("as"):
			if s.EatWord("restrictive") {
				pol.Permissive = "RESTRICTIVE"
			} else {
				s.EatWord("permissive")
			}
		case s.EatWord("for"):
			w, _, _ := s.Ident()
			pol.Scope = strings.ToUpper(w)
		case s.EatWord("to"):
			pol.Roles = parseIdentList(s)
		case s.EatWord("using"):
			s.EatPunct("(")
			pol.Using = s.CaptureBalanced(")")
			s.EatPunct(")")
		case s.EatWord("with"):
			s.EatWord("check")
			s.EatPunct("(")
			pol.WithCheck = s.CaptureBalanced(")")
			s.EatPunct(")")
		default:
			s.Next()
		}
	}
	return pol, true
}
