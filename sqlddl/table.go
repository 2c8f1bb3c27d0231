package sqlddl

import (
	"strconv"
	"strings"

	"github.com/sqldef/stateql/ir"
)

// parseCreateTable handles `CREATE [TEMP|TEMPORARY] TABLE [IF NOT EXISTS]
// name (column/constraint defs...) [options...]` and the partition-child
// shape `CREATE TABLE name PARTITION OF parent FOR VALUES ...`. inlineIndexes
// collects table-level UNIQUE constraints (each a Constraint-flagged
// Index); parent is the owning table's name for a partition child, or the
// zero QualifiedName otherwise.
func parseCreateTable(s *Scanner) (table *ir.Table, inlineIndexes []*ir.Index, parent ir.QualifiedName, ok bool) {
	if !s.EatWord("create") {
		return nil, nil, ir.QualifiedName{}, false
	}
	s.EatWord("temporary")
	s.EatWord("temp")
	if !s.EatWord("table") {
		return nil, nil, ir.QualifiedName{}, false
	}
	if s.PeekWord("if") {
		s.Next()
		s.EatWord("not")
		s.EatWord("exists")
	}
	name := parseQualifiedName(s)

	if s.EatWord("partition") {
		s.EatWord("of")
		parent := parseQualifiedName(s)
		bound := ""
		if s.EatWord("for") {
			s.EatWord("values")
			bound = s.CaptureBalanced(";")
		}
		return &ir.Table{Name: name, Partition: &ir.PartitionDescriptor{
			Elements: []ir.PartitionElement{{Name: name.String(), Bound: bound}},
		}}, nil, parent, true
	}

	t := &ir.Table{Name: name, Options: map[string]string{}}
	if s.EatPunct("(") {
		inlineIndexes = parseTableBody(s, t)
	}
	parseTableOptions(s, t)
	return t, inlineIndexes, ir.QualifiedName{}, true
}

func parseQualifiedName(s *Scanner) ir.QualifiedName {
	first, quoted1, ok := s.Ident()
	if !ok {
		return ir.QualifiedName{}
	}
	if s.EatPunct(".") {
		second, quoted2, ok2 := s.Ident()
		if ok2 {
			schemaID := ir.Identifier{Value: first, Quoted: quoted1}
			nameID := ir.Identifier{Value: second, Quoted: quoted2}
			return ir.QualifiedName{Schema: schemaID, Name: nameID}
		}
	}
	return ir.QualifiedName{Name: ir.Identifier{Value: first, Quoted: quoted1}}
}

// parseTableBody consumes comma-separated column/constraint defs up to the
// closing paren of a CREATE TABLE's body.
func parseTableBody(s *Scanner, t *ir.Table) []*ir.Index {
	var indexes []*ir.Index
	pos := 0
	for {
		if s.PeekWordIn("constraint", "primary", "unique", "foreign", "check", "exclude") {
			if idx := parseTableConstraint(s, t); idx != nil {
				indexes = append(indexes, idx)
			}
		} else if s.Peek().Kind == TokPunct && s.Peek().Text == ")" {
			break
		} else {
			col := parseColumnDef(s)
			col.Position = pos
			pos++
			t.Columns = append(t.Columns, col)
		}
		if s.EatPunct(",") {
			continue
		}
		break
	}
	s.EatPunct(")")
	return indexes
}

func parseColumnDef(s *Scanner) ir.Column {
	name, quoted, _ := s.Ident()
	col := ir.Column{Name: ir.Identifier{Value: name, Quoted: quoted}}
	col.DataType = parseDataType(s)

	for {
		switch {
		case s.EatWord("not"):
			s.EatWord("null")
			col.NotNull = true
		case s.EatWord("null"):
			// explicit NULL: no-op, NotNull defaults false
		case s.PeekWord("default"):
			s.Next()
			expr := s.CaptureBalanced(",", ")", "not", "generated", "collate", "references", "primary", "unique", "check")
			col.Default = rawExpr(expr)
		case s.EatWord("generated"):
			parseGeneratedClause(s, &col)
		case s.EatWord("collate"):
			v, _, _ := s.Ident()
			col.Collation = v
		case s.PeekWord("references"):
			s.Next()
			parseInlineReference(s)
		case s.EatWord("primary"):
			s.EatWord("key")
		case s.EatWord("unique"):
		case s.PeekWord("check"):
			s.Next()
			s.EatPunct("(")
			s.CaptureBalanced(")")
			s.EatPunct(")")
		default:
			return col
		}
	}
}

// parseDataType consumes a base type name plus an optional (length[,scale])
// and zero or more bare modifiers (e.g. Postgres array `[]`), returning the
// rendered type text verbatim (e.g. "varchar(255)", "numeric(10,2)").
func parseDataType(s *Scanner) string {
	var b strings.Builder
	first := true
	for s.Peek().Kind == TokWord && !isColumnClauseKeyword(s.Peek().Lower) {
		if !first {
			b.WriteByte(' ')
		}
		t := s.Next()
		b.WriteString(t.Text)
		first = false
	}
	if s.Peek().Kind == TokPunct && s.Peek().Text == "(" {
		s.Next()
		b.WriteByte('(')
		b.WriteString(s.CaptureBalanced(")"))
		b.WriteByte(')')
		s.EatPunct(")")
	}
	for s.Peek().Kind == TokPunct && s.Peek().Text == "[" {
		s.Next()
		b.WriteString("[]")
		s.EatPunct("]")
	}
	return b.String()
}

// isColumnClauseKeyword reports whether w begins one of the column-def
// trailing clauses, so parseDataType knows where the type name ends.
func isColumnClauseKeyword(w string) bool {
	switch w {
	case "not", "null", "default", "generated", "collate", "references",
		"primary", "unique", "check", "constraint":
		return true
	}
	return false
}

func parseGeneratedClause(s *Scanner, col *ir.Column) {
	if s.EatWord("always") {
	} else {
		s.EatWord("by")
		s.EatWord("default")
	}
	s.EatWord("as")
	if s.EatWord("identity") {
		behavior := "always"
		col.Identity = &ir.Identity{Behavior: behavior}
		if s.EatPunct("(") {
			s.CaptureBalanced(")")
			s.EatPunct(")")
		}
		return
	}
	if s.EatPunct("(") {
		expr := s.CaptureBalanced(")")
		s.EatPunct(")")
		kind := ir.GeneratedStored
		if s.EatWord("virtual") {
			kind = ir.GeneratedVirtual
		} else {
			s.EatWord("stored")
		}
		col.Generated = &ir.Generated{Expr: *rawExpr(expr), Kind: kind}
	}
}

func parseInlineReference(s *Scanner) ir.ForeignKey {
	fk := ir.ForeignKey{ReferenceTable: parseQualifiedName(s)}
	if s.EatPunct("(") {
		fk.ReferenceColumns = parseIdentList(s)
		s.EatPunct(")")
	}
	parseFKActions(s, &fk)
	return fk
}

func parseIdentList(s *Scanner) []string {
	var cols []string
	for {
		name, _, ok := s.Ident()
		if !ok {
			break
		}
		cols = append(cols, name)
		if s.EatPunct(",") {
			continue
		}
		break
	}
	return cols
}

func parseFKActions(s *Scanner, fk *ir.ForeignKey) {
	for {
		switch {
		case s.EatWord("on"):
			if s.EatWord("delete") {
				fk.OnDelete = parseReferentialAction(s)
			} else if s.EatWord("update") {
				fk.OnUpdate = parseReferentialAction(s)
			}
		case s.EatWord("not"):
			s.EatWord("for")
			s.EatWord("replication")
			fk.NotForReplication = true
		case s.EatWord("deferrable"):
			fk.Deferrable = &ir.ConstraintOptions{Deferrable: true}
			if s.EatWord("initially") {
				if s.EatWord("deferred") {
					fk.Deferrable.InitiallyDeferred = true
				} else {
					s.EatWord("immediate")
				}
			}
		default:
			return
		}
	}
}

func parseReferentialAction(s *Scanner) string {
	switch {
	case s.EatWord("cascade"):
		return "CASCADE"
	case s.EatWord("restrict"):
		return "RESTRICT"
	case s.EatWord("no"):
		s.EatWord("action")
		return "NO ACTION"
	case s.EatWord("set"):
		if s.EatWord("null") {
			return "SET NULL"
		}
		s.EatWord("default")
		return "SET DEFAULT"
	}
	return ""
}

// parseTableConstraint handles one table-level constraint clause; for
// PRIMARY KEY it sets t.PrimaryKey directly, for UNIQUE it returns a
// Constraint-flagged Index the caller collects alongside the table (a
// table-level unique constraint is still, structurally, an index).
func parseTableConstraint(s *Scanner, t *ir.Table) *ir.Index {
	constraintName := ""
	if s.EatWord("constraint") {
		constraintName, _, _ = s.Ident()
	}
	switch {
	case s.EatWord("primary"):
		s.EatWord("key")
		s.EatPunct("(")
		cols := parseIndexColumnList(s)
		s.EatPunct(")")
		t.PrimaryKey = &ir.Index{Name: ir.NewIdentifier(constraintName), Primary: true, Columns: cols, OwnerKind: ir.OwnerTable, Owner: t.Name}
	case s.EatWord("unique"):
		s.EatPunct("(")
		cols := parseIndexColumnList(s)
		s.EatPunct(")")
		return &ir.Index{Name: ir.NewIdentifier(constraintName), Unique: true, Constraint: true, Columns: cols, OwnerKind: ir.OwnerTable, Owner: t.Name}
	case s.EatWord("foreign"):
		s.EatWord("key")
		s.EatPunct("(")
		cols := parseIdentList(s)
		s.EatPunct(")")
		s.EatWord("references")
		fk := parseInlineReference(s)
		fk.ConstraintName = constraintName
		fk.Columns = cols
		t.ForeignKeys = append(t.ForeignKeys, fk)
	case s.EatWord("check"):
		s.EatPunct("(")
		expr := s.CaptureBalanced(")")
		s.EatPunct(")")
		noInherit := s.EatWord("no") && s.EatWord("inherit")
		t.Checks = append(t.Checks, ir.CheckDefinition{Name: constraintName, Expr: *rawExpr(expr), NoInherit: noInherit})
	case s.EatWord("exclude"):
		ec := ir.ExclusionConstraint{Name: constraintName}
		if s.EatWord("using") {
			method, _, _ := s.Ident()
			ec.Using = method
		}
		if s.EatPunct("(") {
			for {
				exprText := s.CaptureBalanced("with")
				s.EatWord("with")
				op := s.CaptureBalanced(",", ")")
				ec.Elements = append(ec.Elements, ir.ExclusionElement{Expr: *rawExpr(exprText), Operator: strings.TrimSpace(op)})
				if s.EatPunct(",") {
					continue
				}
				break
			}
			s.EatPunct(")")
		}
		if s.EatWord("where") {
			s.EatPunct("(")
			ec.Where = s.CaptureBalanced(")")
			s.EatPunct(")")
		}
		t.Exclusions = append(t.Exclusions, ec)
	}
	return nil
}

func parseIndexColumnList(s *Scanner) []ir.IndexColumn {
	var cols []ir.IndexColumn
	for {
		name, _, ok := s.Ident()
		if !ok {
			break
		}
		ic := ir.IndexColumn{Column: name}
		if s.EatWord("desc") {
			ic.Direction = ir.DirectionDesc
		} else {
			s.EatWord("asc")
		}
		cols = append(cols, ic)
		if s.EatPunct(",") {
			continue
		}
		break
	}
	return cols
}

// parseTableOptions captures trailing `key = value` style table options
// (e.g. MySQL's `ENGINE=InnoDB`) up to the statement end, and the
// `PARTITION BY strategy (cols)` clause when present.
func parseTableOptions(s *Scanner, t *ir.Table) {
	if s.EatWord("partition") {
		s.EatWord("by")
		strategy := ir.PartitionRange
		switch {
		case s.EatWord("range"):
			strategy = ir.PartitionRange
		case s.EatWord("list"):
			strategy = ir.PartitionList
		case s.EatWord("hash"):
			strategy = ir.PartitionHash
		}
		s.EatPunct("(")
		cols := parseIdentList(s)
		s.EatPunct(")")
		t.Partition = &ir.PartitionDescriptor{Strategy: strategy, Columns: cols}
	}
	for !s.AtEOF() {
		name, _, ok := s.Ident()
		if !ok {
			s.Next()
			continue
		}
		if s.EatPunct("=") {
			val := s.CaptureBalanced(",")
			t.Options[strings.ToLower(name)] = strings.TrimSpace(val)
			s.EatPunct(",")
			continue
		}
	}
}

func rawExpr(text string) *ir.Expr {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		e := ir.Expr{Kind: ir.ExprLiteral, Literal: ir.Value{Type: ir.ValueTypeInt, IntVal: n, Raw: text}}
		return &e
	}
	if strings.EqualFold(text, "null") {
		e := ir.Null
		return &e
	}
	e := ir.Expr{Kind: ir.ExprRaw, Raw: text}
	return &e
}
