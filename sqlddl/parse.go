package sqlddl

import (
	"fmt"
	"strings"

	"github.com/sqldef/stateql/annotate"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateerr"
)

// partitionChild pairs a PARTITION OF child's element with its parent's
// key, recorded during the first pass and merged into the parent Table
// during the second (the parent may appear before or after its children in
// source order).
type partitionChild struct {
	parentKey string
	element   ir.PartitionElement
}

// Parse implements the dialect.Dialect.Parse contract: it lifts rename
// annotations via package annotate, splits the remaining SQL into
// top-level statements, classifies and parses each, attaches every
// annotation to the nearest preceding object (an annotation with nothing
// before it is a *stateerr.ParseError), and folds PARTITION OF children
// into their parent's PartitionDescriptor.
func Parse(sql string) ([]ir.SchemaObject, error) {
	cleaned, annotations := annotate.Extract(sql)
	stmts := SplitStatements(cleaned)

	var objs []ir.SchemaObject
	var objLines []int
	var children []partitionChild
	byKey := map[string]*ir.Table{}

	for idx, stmt := range stmts {
		obj, extra, child, err := parseStatement(stmt.Text)
		if err != nil {
			return nil, stateerr.FromParse(&stateerr.ParseError{
				StatementIndex: idx,
				SourceSQL:      stmt.Text,
				Location:       &stateerr.SourceLocation{Line: stmt.Line},
				Err:            err,
			})
		}
		if child != nil {
			children = append(children, *child)
			continue
		}
		if obj == nil {
			continue
		}
		objs = append(objs, obj)
		objLines = append(objLines, stmt.Line)
		if t, ok := obj.(*ir.Table); ok {
			byKey[t.Name.Key()] = t
		}
		for _, e := range extra {
			objs = append(objs, e)
			objLines = append(objLines, stmt.Line)
		}
	}

	for _, c := range children {
		parent, ok := byKey[c.parentKey]
		if !ok {
			continue // orphan partition child: parent not in this schema, nothing to attach to
		}
		if parent.Partition == nil {
			parent.Partition = &ir.PartitionDescriptor{}
		}
		parent.Partition.Elements = append(parent.Partition.Elements, c.element)
	}

	if err := attachAnnotations(objs, objLines, annotations); err != nil {
		return nil, err
	}
	return objs, nil
}

// parseStatement classifies and dispatches a single statement. extra holds
// additional objects riding along with obj (a CREATE TABLE's inline UNIQUE
// constraints, surfaced as separate Index objects). child is non-nil
// exactly when stmt is a `CREATE TABLE ... PARTITION OF ...` statement, in
// which case obj and extra are both nil.
func parseStatement(stmt string) (obj ir.SchemaObject, extra []ir.SchemaObject, child *partitionChild, err error) {
	s := NewScanner(stmt)
	lead := s.Peek()
	if lead.Kind != TokWord {
		return nil, nil, nil, nil
	}

	switch lead.Lower {
	case "create":
		return parseCreateStatement(s)
	case "alter":
		save := *s
		if seq, ok := parseSequence(&save); ok {
			return seq, nil, nil, nil
		}
		return nil, nil, nil, nil // other ALTERs (ALTER TABLE ...) are a current-state-only shape; the IR represents tables fully reconstructed, not incrementally
	case "comment":
		if c, ok := parseComment(s); ok {
			return c, nil, nil, nil
		}
	case "grant":
		if g, ok := parseGrant(s); ok {
			return g, nil, nil, nil
		}
	case "revoke":
		if r, ok := parseRevoke(s); ok {
			return r, nil, nil, nil
		}
	}
	return nil, nil, nil, nil
}

// parseCreateStatement tries each CREATE shape in turn against its own copy
// of the scanner's starting state, since a failed attempt may have
// consumed tokens before bailing out. Each parseCreateXxx helper eats its
// own leading CREATE keyword.
func parseCreateStatement(start *Scanner) (ir.SchemaObject, []ir.SchemaObject, *partitionChild, error) {
	origin := *start

	attempt := origin
	if t, indexes, parent, ok := parseCreateTable(&attempt); ok {
		if parent.HasSchema() || parent.Name.Value != "" {
			return nil, nil, &partitionChild{parentKey: parent.Key(), element: t.Partition.Elements[0]}, nil
		}
		var extra []ir.SchemaObject
		for _, idx := range indexes {
			extra = append(extra, idx)
		}
		return t, extra, nil, nil
	}

	attempt = origin
	if idx, ok := parseCreateIndex(&attempt); ok {
		return idx, nil, nil, nil
	}
	attempt = origin
	if v, ok := parseCreateView(&attempt); ok {
		return v, nil, nil, nil
	}
	attempt = origin
	if seq, ok := parseSequence(&attempt); ok {
		return seq, nil, nil, nil
	}
	attempt = origin
	if trig, ok := parseCreateTrigger(&attempt); ok {
		return trig, nil, nil, nil
	}
	attempt = origin
	if fn, ok := parseCreateFunction(&attempt); ok {
		return fn, nil, nil, nil
	}
	attempt = origin
	if td, ok := parseCreateType(&attempt); ok {
		return td, nil, nil, nil
	}
	attempt = origin
	if dom, ok := parseCreateDomain(&attempt); ok {
		return dom, nil, nil, nil
	}
	attempt = origin
	if ext, ok := parseCreateExtension(&attempt); ok {
		return ext, nil, nil, nil
	}
	attempt = origin
	if sd, ok := parseCreateSchema(&attempt); ok {
		return sd, nil, nil, nil
	}
	attempt = origin
	if pol, ok := parseCreatePolicy(&attempt); ok {
		return pol, nil, nil, nil
	}
	return nil, nil, nil, nil
}

func attachAnnotations(objs []ir.SchemaObject, lines []int, annotations []annotate.Annotation) error {
	for _, a := range annotations {
		target := -1
		for i, line := range lines {
			if line <= a.Line {
				target = i
			} else {
				break
			}
		}
		if target < 0 {
			return stateerr.FromParse(&stateerr.ParseError{
				Location: &stateerr.SourceLocation{Line: a.Line},
				Err:      fmt.Errorf("rename annotation (from %q) has no preceding object to attach to", a.From),
			})
		}
		applyRename(objs[target], a.From)
	}
	return nil
}

func applyRename(obj ir.SchemaObject, from string) {
	name := ir.NewQualifiedName(from)
	if strings.Contains(from, ".") {
		parts := strings.SplitN(from, ".", 2)
		name = ir.NewSchemaQualifiedName(parts[0], parts[1])
	}
	switch v := obj.(type) {
	case *ir.Table:
		v.RenamedFrom = &name
	case *ir.View:
		v.RenamedFrom = &name
	case *ir.MaterializedView:
		v.RenamedFrom = &name
	case *ir.Index:
		if v.Extras == nil {
			v.Extras = ir.ExtrasMap{}
		}
		v.Extras[ir.RenamedFromExtrasKey] = from
	}
}
