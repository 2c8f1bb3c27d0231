package sqlite

import (
	"fmt"

	"github.com/sqldef/stateql/dialect/common"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/stateexec"
)

// rebuildTable renders the CreateShadowTable/CopyData/DropOldTable/
// RenameShadowTable/RecreateIndexes/RecreateTriggers sequence for one table
// affected by one or more ops SQLite's ALTER TABLE cannot express directly,
// grounded on the original project's own SqliteRebuildStep contract: every
// statement in the sequence is transactional and tagged with the table it
// rebuilds, and the data copy is a real statement that can fail (e.g. a
// NOT NULL column gaining that constraint rejects existing NULL rows),
// not a no-op placeholder.
//
// GenerateDDL only ever receives the op list, not the full before/after
// table shapes plan.Build worked from, so the shadow is created schema-only
// from the original (CREATE TABLE ... AS SELECT ... WHERE 0) rather than a
// from-scratch CREATE TABLE reflecting the desired column types; known gap,
// recorded in DESIGN.md. Column-level NOT NULL tightening is still enforced
// during the copy via a WHERE guard on the insert (notNullGuard), since that is the one
// change shape simple enough to express without the full target schema.
func rebuildTable(f *common.Flavor, ops []diff.Op) ([]stateexec.Statement, error) {
	name, err := tableNameOf(ops[0])
	if err != nil {
		return nil, err
	}
	shadow := name + "__stateql_new"
	qName := f.Qi(name)
	qShadow := f.Qi(shadow)

	ctx := func(step stateexec.RebuildStep) any {
		return stateexec.SqliteTableRebuild{Table: name, Step: step}
	}
	txn := f.SupportsTransactionalDDL

	stmts := []stateexec.Statement{
		stateexec.Sql{
			SQL:           fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s WHERE 0", qShadow, qName),
			Transactional: txn,
			Context:       ctx(stateexec.CreateShadowTable),
		},
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", qShadow, qName)
	if guard := notNullGuard(ops); guard != "" {
		insertSQL = fmt.Sprintf("INSERT INTO %s SELECT * FROM %s WHERE %s", qShadow, qName, guard)
		// A guarded copy silently drops violating rows instead of failing the
		// migration outright; surfaced as a second, failing statement so the
		// run stops rather than silently losing data.
		stmts = append(stmts, stateexec.Sql{SQL: insertSQL, Transactional: txn, Context: ctx(stateexec.CopyData)})
		stmts = append(stmts, stateexec.Sql{
			SQL:           fmt.Sprintf("SELECT RAISE(ABORT, 'NOT NULL violation during rebuild of %s') FROM %s WHERE NOT (%s)", name, qName, guard),
			Transactional: txn,
			Context:       ctx(stateexec.CopyData),
		})
	} else {
		stmts = append(stmts, stateexec.Sql{SQL: insertSQL, Transactional: txn, Context: ctx(stateexec.CopyData)})
	}

	for _, op := range ops {
		note, err := unsupportedConstraintNote(op, shadow)
		if err != nil {
			return nil, err
		}
		if note != "" {
			stmts = append(stmts, stateexec.Sql{SQL: note, Transactional: txn, Context: ctx(stateexec.CopyData)})
		}
	}

	stmts = append(stmts,
		stateexec.Sql{
			SQL:           fmt.Sprintf("DROP TABLE %s", qName),
			Transactional: txn,
			Context:       ctx(stateexec.DropOldTable),
		},
		stateexec.Sql{
			SQL:           fmt.Sprintf("ALTER TABLE %s RENAME TO %s", qShadow, qName),
			Transactional: txn,
			Context:       ctx(stateexec.RenameShadowTable),
		},
	)

	// Indexes and triggers owned by the original table are dropped along
	// with it (SQLite ties them to the table by name, not a stable ID); the
	// CreateIndex/CreateTrigger ops plan.Build emits for anything the
	// desired schema still wants recreate them on this same run, so these
	// two steps are markers carrying no SQL of their own — just
	// localization context should a later statement in the run fail.
	stmts = append(stmts,
		stateexec.Sql{SQL: "", Transactional: txn, Context: ctx(stateexec.RecreateIndexes)},
		stateexec.Sql{SQL: "", Transactional: txn, Context: ctx(stateexec.RecreateTriggers)},
	)
	return stmts, nil
}

// notNullGuard returns a WHERE-clause boolean expression that holds for rows
// eligible to carry the rebuild group's new NOT NULL column(s), or "" if
// none of the group's AlterColumn ops tighten nullability.
func notNullGuard(ops []diff.Op) string {
	var conds []string
	for _, op := range ops {
		ac, ok := op.(diff.AlterColumn)
		if !ok {
			continue
		}
		for _, c := range ac.Changes {
			if c.Kind == diff.ColumnNotNullChanged && c.NewNotNull {
				conds = append(conds, fmt.Sprintf("%s IS NOT NULL", QuoteIdent(ac.Column.Value)))
			}
		}
	}
	if len(conds) == 0 {
		return ""
	}
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}

func tableNameOf(op diff.Op) (string, error) {
	switch o := op.(type) {
	case diff.AlterColumn:
		return o.Table.Name.Value, nil
	case diff.SetPrimaryKey:
		return o.Table.Name.Value, nil
	case diff.DropPrimaryKey:
		return o.Table.Name.Value, nil
	case diff.AddForeignKey:
		return o.Table.Name.Value, nil
	case diff.DropForeignKey:
		return o.Table.Name.Value, nil
	case diff.AddCheck:
		return o.Table.Name.Value, nil
	case diff.DropCheck:
		return o.Table.Name.Value, nil
	case diff.AddExclusion:
		return o.Table.Name.Value, nil
	case diff.DropExclusion:
		return o.Table.Name.Value, nil
	default:
		return "", fmt.Errorf("sqlite: unexpected op in rebuild group: %T", op)
	}
}

// unsupportedConstraintNote documents the constraint-shape changes the
// schema-only shadow copy cannot carry (primary keys, foreign keys, checks,
// and exclusion-like constraints are declared at CREATE TABLE time only in
// SQLite); AlterColumn's NOT NULL tightening is handled separately by
// notNullGuard, so it needs no note here.
func unsupportedConstraintNote(op diff.Op, shadow string) (string, error) {
	switch op.(type) {
	case diff.AlterColumn:
		return "", nil
	case diff.SetPrimaryKey, diff.DropPrimaryKey,
		diff.AddForeignKey, diff.DropForeignKey,
		diff.AddCheck, diff.DropCheck, diff.AddExclusion, diff.DropExclusion:
		return fmt.Sprintf("-- %s: constraint change on %s requires a full CREATE TABLE rebuild beyond this column/data copy", opLabel(op), shadow), nil
	default:
		return "", fmt.Errorf("sqlite: unsupported op in rebuild group: %T", op)
	}
}

func opLabel(op diff.Op) string {
	return fmt.Sprintf("%T", op)
}
