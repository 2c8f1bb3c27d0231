package diff

import (
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
)

// diffChecks implements the check-constraint pairing override: a same-name check whose expression differs is dropped and
// re-added unconditionally, bypassing the general enable_drop gate, because
// the drop is immediately repaired by the paired add. An unpaired
// current-only check drop remains subject to enable_drop like any other
// destructive operation.
func diffChecks(b *diffBuilder, table ir.QualifiedName, current, desired []ir.CheckDefinition) {
	policy := b.cfg.policy()
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
			b.keep(AddCheck{Table: table, Check: d})
			continue
		}
		matched[found] = true
		c := current[found]
		if c.NoInherit != d.NoInherit || c.NotForReplication != d.NotForReplication ||
			!equivalence.ExprsEquivalent(policy, c.Expr, d.Expr) {
			b.unconditional(DropCheck{Table: table, Name: c.Name})
			b.unconditional(AddCheck{Table: table, Check: d})
		}
	}
	for i, c := range current {
		if !matched[i] {
			b.destructive(DropCheck{Table: table, Name: c.Name})
		}
	}
}
