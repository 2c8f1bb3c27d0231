package diff

import "github.com/sqldef/stateql/ir"

// Diff runs the full top-level algorithm and returns only the
// emitted operation vector, in declaration-stable order within each
// category (the planner, package plan, applies the cross-category order).
func Diff(desired, current []ir.SchemaObject, cfg Config) []Op {
	return DiffWithDiagnostics(desired, current, cfg).Ops
}

// DiffWithDiagnostics additionally reports every destructive operation that
// enable_drop suppressed.
func DiffWithDiagnostics(desired, current []ir.SchemaObject, cfg Config) Diagnostics {
	b := newDiffBuilder(cfg)
	d := partition(desired)
	c := partition(current)

	creates, drops := diffTables(b, c.Tables, d.Tables)
	breakForeignKeyCycles(b, creates, drops)

	diffViews(b, c.Views, d.Views)
	diffMaterializedViews(b, c.MaterializedViews, d.MaterializedViews)
	diffIndexes(b, c.Indexes, d.Indexes)
	diffSequences(b, c.Sequences, d.Sequences)
	diffTriggers(b, c.Triggers, d.Triggers)
	diffFunctions(b, c.Functions, d.Functions)
	diffTypes(b, c.Types, d.Types)
	diffDomains(b, c.Domains, d.Domains)
	diffExtensions(b, c.Extensions, d.Extensions)
	diffSchemas(b, c.Schemas, d.Schemas)
	diffComments(b, c.Comments, d.Comments)
	diffPrivileges(b, c.Privileges, d.Privileges)
	diffPolicies(b, c.Policies, d.Policies)

	return b.result()
}

// partitioned buckets a SchemaObject slice by concrete variant so each
// per-kind diff function sees a plain, typed slice.
type partitioned struct {
	Tables             []*ir.Table
	Views              []*ir.View
	MaterializedViews  []*ir.MaterializedView
	Indexes            []*ir.Index
	Sequences          []*ir.Sequence
	Triggers           []*ir.Trigger
	Functions          []*ir.Function
	Types              []*ir.TypeDef
	Domains            []*ir.Domain
	Extensions         []*ir.Extension
	Schemas            []*ir.SchemaDecl
	Comments           []*ir.Comment
	Privileges         []*ir.Privilege
	Policies           []*ir.Policy
}

func partition(objs []ir.SchemaObject) partitioned {
	var p partitioned
	for _, obj := range objs {
		switch v := obj.(type) {
		case *ir.Table:
			p.Tables = append(p.Tables, v)
		case *ir.View:
			p.Views = append(p.Views, v)
		case *ir.MaterializedView:
			p.MaterializedViews = append(p.MaterializedViews, v)
		case *ir.Index:
			p.Indexes = append(p.Indexes, v)
		case *ir.Sequence:
			p.Sequences = append(p.Sequences, v)
		case *ir.Trigger:
			p.Triggers = append(p.Triggers, v)
		case *ir.Function:
			p.Functions = append(p.Functions, v)
		case *ir.TypeDef:
			p.Types = append(p.Types, v)
		case *ir.Domain:
			p.Domains = append(p.Domains, v)
		case *ir.Extension:
			p.Extensions = append(p.Extensions, v)
		case *ir.SchemaDecl:
			p.Schemas = append(p.Schemas, v)
		case *ir.Comment:
			p.Comments = append(p.Comments, v)
		case *ir.Privilege:
			p.Privileges = append(p.Privileges, v)
		case *ir.Policy:
			p.Policies = append(p.Policies, v)
		}
	}
	return p
}
