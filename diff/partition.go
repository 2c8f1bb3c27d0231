package diff

import "github.com/sqldef/stateql/ir"

// diffPartition implements partition reconciliation: a
// strategy/columns change drops every existing element then adds the whole
// desired scheme; otherwise elements are matched by name and reconciled
// individually.
func diffPartition(b *diffBuilder, table ir.QualifiedName, current, desired *ir.PartitionDescriptor) {
	switch {
	case current == nil && desired == nil:
		return
	case current == nil:
		b.keep(SetPartitionScheme{Table: table, Descriptor: *desired})
		return
	case desired == nil:
		for _, e := range current.Elements {
			b.destructive(DropPartitionElement{Table: table, Name: e.Name})
		}
		return
	}

	if current.Strategy != desired.Strategy || !stringSlicesEqual(current.Columns, desired.Columns) {
		for _, e := range current.Elements {
			b.destructive(DropPartitionElement{Table: table, Name: e.Name})
		}
		b.keep(SetPartitionScheme{Table: table, Descriptor: *desired})
		return
	}

	matched := make([]bool, len(current.Elements))
	for _, d := range desired.Elements {
		found := -1
		for i, c := range current.Elements {
			if !matched[i] && c.Name == d.Name {
				found = i
				break
			}
		}
		if found < 0 {
			b.keep(AddPartitionElement{Table: table, Element: d})
			continue
		}
		matched[found] = true
		if current.Elements[found] != d {
			b.destructive(DropPartitionElement{Table: table, Name: current.Elements[found].Name})
			b.keep(AddPartitionElement{Table: table, Element: d})
		}
	}
	for i, c := range current.Elements {
		if !matched[i] {
			b.destructive(DropPartitionElement{Table: table, Name: c.Name})
		}
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
