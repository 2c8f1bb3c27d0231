// Package plan orders a diff operation vector into an execution-safe
// sequence: a fixed category priority keeps drops that remove
// referents ahead of the owners they reference, keeps creates ahead of the
// things that attach to them, and keeps privilege grants/revokes on the
// correct side of the objects they touch. Within a category, the original
// (declaration-stable) order from the diff engine is preserved.
package plan

import "github.com/sqldef/stateql/diff"

// category assigns each op kind its position in the fixed priority order
// describes. Lower runs first.
func category(k diff.OpKind) int {
	switch k {
	// 1. Drops that remove referents run first, in dependency order among
	// themselves: constraints/indexes/dependents before their owner.
	case diff.OpRevoke:
		return 0
	case diff.OpDropPolicy:
		return 1
	case diff.OpDropTrigger:
		return 2
	case diff.OpDropForeignKey:
		return 3
	case diff.OpDropExclusion:
		return 4
	case diff.OpDropCheck:
		return 5
	case diff.OpDropIndex, diff.OpDropPrimaryKey:
		return 6
	case diff.OpDropPartitionElement:
		return 7
	case diff.OpDropColumn:
		return 8
	case diff.OpDropMaterializedView:
		return 9
	case diff.OpDropView:
		return 10
	case diff.OpDropTable:
		return 11
	case diff.OpDropSequence:
		return 12
	case diff.OpDropFunction:
		return 13
	case diff.OpDropType:
		return 14
	case diff.OpDropDomain:
		return 15
	case diff.OpDropExtension:
		return 16
	case diff.OpDropComment:
		return 17
	case diff.OpDropSchema:
		return 18

	// 2. CreateSchema precedes everything that might live inside it.
	case diff.OpCreateSchema:
		return 19
	case diff.OpCreateExtension:
		return 20
	case diff.OpCreateDomain, diff.OpAlterDomain:
		return 21
	case diff.OpCreateType, diff.OpAlterType:
		return 22
	case diff.OpCreateSequence, diff.OpAlterSequence, diff.OpRenameSequence:
		return 23
	case diff.OpCreateFunction:
		return 24

	// 3. Tables, then what attaches to a table, then indexes, then views,
	// materialized views, triggers.
	case diff.OpCreateTable, diff.OpRenameTable:
		return 25
	case diff.OpAlterTableOptions:
		return 26
	case diff.OpAddColumn, diff.OpRenameColumn, diff.OpAlterColumn:
		return 27
	case diff.OpAddForeignKey:
		return 28
	case diff.OpAddCheck:
		return 29
	case diff.OpAddExclusion:
		return 30
	case diff.OpSetPrimaryKey:
		return 31
	case diff.OpAddPartitionElement, diff.OpSetPartitionScheme:
		return 32
	case diff.OpAddIndex, diff.OpRenameIndex:
		return 33
	case diff.OpCreateView, diff.OpRenameView:
		return 34
	case diff.OpCreateMaterializedView, diff.OpRenameMaterializedView:
		return 35
	case diff.OpCreateTrigger:
		return 36
	case diff.OpCreatePolicy:
		return 37

	// 4. Comments and grants land last — grants run after the objects they
	// reference exist.
	case diff.OpSetComment:
		return 38
	case diff.OpGrant:
		return 39

	default:
		return 40
	}
}

// Build sorts ops by fixed category priority with a stable sort so
// declaration order survives within a category.
func Build(ops []diff.Op) []diff.Op {
	sorted := make([]diff.Op, len(ops))
	copy(sorted, ops)
	stableSortByCategory(sorted)
	return sorted
}

// stableSortByCategory is an insertion sort: the operation counts per run
// are small (a single schema sync), and insertion sort is trivially stable
// without reaching for sort.SliceStable's reflection-based swap, favoring
// explicit, inspectable control flow over a generic sort call.
func stableSortByCategory(ops []diff.Op) {
	for i := 1; i < len(ops); i++ {
		j := i
		for j > 0 && category(ops[j-1].Kind()) > category(ops[j].Kind()) {
			ops[j-1], ops[j] = ops[j], ops[j-1]
			j--
		}
	}
}
