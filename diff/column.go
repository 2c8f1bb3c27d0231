package diff

import (
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
)

// diffColumns matches desired against current columns by name (or by
// renamed_from when present), computes AddColumn position
// hints from desired declaration order, and emits AlterColumn for any
// matched pair whose body differs.
func diffColumns(b *diffBuilder, table ir.QualifiedName, current, desired []ir.Column) {
	policy := b.cfg.policy()
	available := make(map[string]ir.Column, len(current))
	for _, c := range current {
		available[c.Name.Value] = c
	}

	var after *ir.Identifier
	for _, d := range desired {
		match, matchKey, renamed, found := resolveColumn(d, available)
		if !found {
			b.keep(AddColumn{Table: table, Column: d, After: after})
			name := d.Name
			after = &name
			continue
		}
		delete(available, matchKey)
		if renamed {
			b.keep(RenameColumn{Table: table, From: match.Name, To: d.Name})
		}
		if changes := diffColumnBody(policy, match, d); len(changes) > 0 {
			b.keep(AlterColumn{Table: table, Column: d.Name, Changes: changes})
		}
		name := d.Name
		after = &name
	}

	for _, c := range current {
		if _, ok := available[c.Name.Value]; ok {
			b.destructive(DropColumn{Table: table, Column: c.Name})
		}
	}
}

func resolveColumn(d ir.Column, available map[string]ir.Column) (match ir.Column, key string, renamed, ok bool) {
	if d.RenamedFrom != nil {
		if c, found := available[d.RenamedFrom.Value]; found {
			return c, d.RenamedFrom.Value, true, true
		}
	}
	if c, found := available[d.Name.Value]; found {
		return c, d.Name.Value, false, true
	}
	return ir.Column{}, "", false, false
}

func diffColumnBody(policy equivalence.Policy, current, desired ir.Column) []ColumnChange {
	var changes []ColumnChange
	if current.DataType != desired.DataType {
		changes = append(changes, ColumnChange{Kind: ColumnTypeChanged, OldType: current.DataType, NewType: desired.DataType})
	}
	if current.NotNull != desired.NotNull {
		changes = append(changes, ColumnChange{Kind: ColumnNotNullChanged, OldNotNull: current.NotNull, NewNotNull: desired.NotNull})
	}
	if !exprPtrsEquivalent(policy, current.Default, desired.Default) {
		changes = append(changes, ColumnChange{Kind: ColumnDefaultChanged, OldDefault: current.Default, NewDefault: desired.Default})
	}
	if !identityEqual(current.Identity, desired.Identity) {
		changes = append(changes, ColumnChange{Kind: ColumnIdentityChanged, OldIdentity: current.Identity, NewIdentity: desired.Identity})
	}
	if !generatedEqual(policy, current.Generated, desired.Generated) {
		changes = append(changes, ColumnChange{Kind: ColumnGeneratedChanged, OldGenerated: current.Generated, NewGenerated: desired.Generated})
	}
	if current.Collation != desired.Collation {
		changes = append(changes, ColumnChange{Kind: ColumnCollationChanged, OldCollation: current.Collation, NewCollation: desired.Collation})
	}
	if current.Comment != desired.Comment {
		changes = append(changes, ColumnChange{Kind: ColumnCommentChanged, OldComment: current.Comment, NewComment: desired.Comment})
	}
	return changes
}

func exprPtrsEquivalent(policy equivalence.Policy, a, b *ir.Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equivalence.ExprsEquivalent(policy, *a, *b)
}

func identityEqual(a, b *ir.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func generatedEqual(policy equivalence.Policy, a, b *ir.Generated) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && equivalence.ExprsEquivalent(policy, a.Expr, b.Expr)
}
