package diff

import "github.com/sqldef/stateql/ir"

// diffTables matches desired against current tables (name resolution +
// rename protocol), emits intra-table diffs for matches directly into b,
// and returns the leftover creates/drops so the caller can run the
// foreign-key cycle pass before deciding how to emit them.
func diffTables(b *diffBuilder, current, desired []*ir.Table) (creates, drops []*ir.Table) {
	available := make(map[string]*ir.Table, len(current))
	for _, t := range current {
		available[t.Name.Key()] = t
	}

	for _, d := range desired {
		match, renamed, ok := resolveRename[*ir.Table](d, available, b.cfg.SchemaSearchPath)
		if !ok {
			creates = append(creates, d)
			continue
		}
		if renamed {
			b.keep(RenameTable{From: match.Name, To: d.Name})
		}
		diffTableBody(b, match, d)
	}

	drops = remainingInOrder(current, available, func(t *ir.Table) string { return t.Name.Key() })
	return creates, drops
}

// diffTableBody computes every intra-table delta between a matched
// (current, desired) pair: columns, primary key, foreign keys, checks,
// exclusions, table options, and partitioning.
func diffTableBody(b *diffBuilder, current, desired *ir.Table) {
	diffColumns(b, desired.Name, current.Columns, desired.Columns)
	diffPrimaryKey(b, desired.Name, current.PrimaryKey, desired.PrimaryKey)
	diffForeignKeys(b, desired.Name, current.ForeignKeys, desired.ForeignKeys)
	diffChecks(b, desired.Name, current.Checks, desired.Checks)
	diffExclusions(b, desired.Name, current.Exclusions, desired.Exclusions)
	diffTableOptions(b, desired.Name, current.Options, desired.Options)
	diffPartition(b, desired.Name, current.Partition, desired.Partition)
}

func diffTableOptions(b *diffBuilder, table ir.QualifiedName, current, desired map[string]string) {
	changes := map[string]OptionChange{}
	for k, dv := range desired {
		if cv, ok := current[k]; !ok || cv != dv {
			changes[k] = OptionChange{Old: current[k], New: dv}
		}
	}
	for k, cv := range current {
		if _, ok := desired[k]; !ok {
			changes[k] = OptionChange{Old: cv, New: ""}
		}
	}
	if len(changes) > 0 {
		b.keep(AlterTableOptions{Table: table, Changes: changes})
	}
}

func diffPrimaryKey(b *diffBuilder, table ir.QualifiedName, current, desired *ir.Index) {
	switch {
	case current == nil && desired == nil:
		return
	case current == nil:
		b.keep(SetPrimaryKey{Table: table, Index: *desired})
	case desired == nil:
		b.destructive(DropPrimaryKey{Table: table})
	case !current.Equal(*desired):
		b.destructive(DropPrimaryKey{Table: table})
		b.keep(SetPrimaryKey{Table: table, Index: *desired})
	}
}

func diffForeignKeys(b *diffBuilder, table ir.QualifiedName, current, desired []ir.ForeignKey) {
	matched := make([]bool, len(current))
	for _, d := range desired {
		found := -1
		for i, c := range current {
			if matched[i] {
				continue
			}
			if c.ConstraintName != "" && c.ConstraintName == d.ConstraintName {
				found = i
				break
			}
		}
		if found < 0 {
			b.keep(AddForeignKey{Table: table, FK: d})
			continue
		}
		matched[found] = true
		if !current[found].Equal(d) {
			b.destructive(DropForeignKey{Table: table, ConstraintName: current[found].ConstraintName})
			b.keep(AddForeignKey{Table: table, FK: d})
		}
	}
	for i, c := range current {
		if !matched[i] {
			b.destructive(DropForeignKey{Table: table, ConstraintName: c.ConstraintName})
		}
	}
}

func diffExclusions(b *diffBuilder, table ir.QualifiedName, current, desired []ir.ExclusionConstraint) {
	matched := make([]bool, len(current))
	for _, d := range desired {
		found := -1
		for i, c := range current {
			if matched[i] {
				continue
			}
			if c.Name == d.Name {
				found = i
				break
			}
		}
		if found < 0 {
			b.keep(AddExclusion{Table: table, Exclusion: d})
			continue
		}
		matched[found] = true
		if !current[found].Equal(d) {
			b.destructive(DropExclusion{Table: table, Name: current[found].Name})
			b.keep(AddExclusion{Table: table, Exclusion: d})
		}
	}
	for i, c := range current {
		if !matched[i] {
			b.destructive(DropExclusion{Table: table, Name: c.Name})
		}
	}
}
