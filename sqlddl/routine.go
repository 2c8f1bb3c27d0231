package sqlddl

import "github.com/sqldef/stateql/ir"

// parseCreateTrigger handles `CREATE TRIGGER name {BEFORE|AFTER|INSTEAD OF}
// event [OR event...] ON table <rest captured as body>`.
func parseCreateTrigger(s *Scanner) (*ir.Trigger, bool) {
	if !s.EatWord("create") {
		return nil, false
	}
	if !s.EatWord("trigger") {
		return nil, false
	}
	name, quoted, _ := s.Ident()
	trig := &ir.Trigger{Name: ir.Identifier{Value: name, Quoted: quoted}}

	switch {
	case s.EatWord("before"):
		trig.Timing = "before"
	case s.EatWord("after"):
		trig.Timing = "after"
	case s.EatWord("instead"):
		s.EatWord("of")
		trig.Timing = "instead of"
	}

	for {
		switch {
		case s.EatWord("insert"):
			trig.Events = append(trig.Events, "insert")
		case s.EatWord("update"):
			trig.Events = append(trig.Events, "update")
		case s.EatWord("delete"):
			trig.Events = append(trig.Events, "delete")
		case s.EatWord("truncate"):
			trig.Events = append(trig.Events, "truncate")
		case s.EatWord("or"):
			continue
		default:
			goto eventsDone
		}
	}
eventsDone:
	s.EatWord("on")
	trig.Table = parseQualifiedName(s)
	trig.Body = s.RestOfSource()
	return trig, true
}

// parseCreateFunction handles `CREATE [OR REPLACE] FUNCTION name(args)
// RETURNS returntype [LANGUAGE lang] AS <body> [LANGUAGE lang]`. Args and
// body are captured as opaque text; stateql never evaluates either.
func parseCreateFunction(s *Scanner) (*ir.Function, bool) {
	if !s.EatWord("create") {
		return nil, false
	}
	s.EatWord("or")
	s.EatWord("replace")
	if !s.EatWord("function") {
		return nil, false
	}
	name := parseQualifiedName(s)
	fn := &ir.Function{Name: name}

	if s.EatPunct("(") {
		fn.Args = s.CaptureBalanced(")")
		s.EatPunct(")")
	}
	for {
		switch {
		case s.EatWord("returns"):
			fn.ReturnType = s.CaptureBalanced("language", "as")
		case s.EatWord("language"):
			fn.Language, _, _ = s.Ident()
		case s.EatWord("as"):
			fn.Body = s.RestOfSource()
			return fn, true
		default:
			if s.AtEOF() {
				return fn, true
			}
			s.Next()
		}
	}
}
