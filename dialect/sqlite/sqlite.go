// Package sqlite implements dialect.Dialect for SQLite: modernc.org/sqlite
// for the (cgo-free) wire connection, bracket-free double-quote identifier
// rules, and the shadow-table rebuild pattern stateexec.SqliteTableRebuild
// exists for, since SQLite has no ALTER COLUMN and only a narrow ALTER TABLE
// surface (RENAME TABLE, RENAME COLUMN, ADD COLUMN, and a constrained DROP
// COLUMN) — every other structural change requires rebuilding the table
// under a shadow name, copying data across, dropping the original, and
// renaming the shadow into place.
//
// Grounded on sqldef's database/sqlite3/database.go (modernc.org/sqlite
// driver registration, sqlite_master-driven export) for the adapter, and on
// the stateexec RebuildStep/SqliteTableRebuild types themselves for the
// rebuild sequencing this package is the sole producer of.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/dialect/common"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/sqlddl"
	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

type SQLite struct {
	flavor common.Flavor
}

func New() *SQLite {
	s := &SQLite{}
	s.flavor = common.Flavor{
		QuoteIdent:               QuoteIdent,
		BatchSeparator:           "",
		SupportsTransactionalDDL: true,
		AutoIncrementClause: func(id *ir.Identity) string {
			return "AUTOINCREMENT"
		},
	}
	return s
}

func (s *SQLite) Name() string { return "sqlite" }

func QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (s *SQLite) QuoteIdent(ident string) string            { return QuoteIdent(ident) }
func (s *SQLite) BatchSeparator() string                     { return s.flavor.BatchSeparator }
func (s *SQLite) EquivalencePolicy() equivalence.Policy      { return equivalence.Strict }
func (s *SQLite) Parse(sql string) ([]ir.SchemaObject, error) { return sqlddl.Parse(sql) }
func (s *SQLite) Normalize(obj ir.SchemaObject)               { common.Normalize(&s.flavor, obj) }
func (s *SQLite) ToSQL(obj ir.SchemaObject) (string, error)   { return common.ToSQL(&s.flavor, obj) }

// GenerateDDL splits ops into those SQLite's ALTER TABLE surface can express
// directly (delegated to common.GenerateGeneric) and those that require the
// shadow-table rebuild, grouped per table so a table needing several
// unsupported changes at once still gets exactly one rebuild sequence.
func (s *SQLite) GenerateDDL(ops []diff.Op) ([]stateexec.Statement, error) {
	var direct []diff.Op
	rebuilds := map[string][]diff.Op{}
	var rebuildOrder []string

	for _, op := range ops {
		if table, needsRebuild := rebuildTarget(op); needsRebuild {
			key := table.Key()
			if _, seen := rebuilds[key]; !seen {
				rebuildOrder = append(rebuildOrder, key)
			}
			rebuilds[key] = append(rebuilds[key], op)
			continue
		}
		direct = append(direct, op)
	}

	stmts, err := common.GenerateGeneric(s.Name(), direct, &s.flavor)
	if err != nil {
		return nil, err
	}

	for _, key := range rebuildOrder {
		group := rebuilds[key]
		rebuildStmts, err := rebuildTable(&s.flavor, group)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, rebuildStmts...)
	}
	return stmts, nil
}

// rebuildTarget reports whether op needs the shadow-table rebuild and, if
// so, which table it targets. AddColumn, DropColumn, RenameColumn, and
// RenameTable are left out: SQLite's ALTER TABLE supports all four directly.
func rebuildTarget(op diff.Op) (ir.QualifiedName, bool) {
	switch o := op.(type) {
	case diff.AlterColumn:
		return o.Table, true
	case diff.SetPrimaryKey:
		return o.Table, true
	case diff.DropPrimaryKey:
		return o.Table, true
	case diff.AddForeignKey:
		return o.Table, true
	case diff.DropForeignKey:
		return o.Table, true
	case diff.AddCheck:
		return o.Table, true
	case diff.DropCheck:
		return o.Table, true
	case diff.AddExclusion:
		return o.Table, true
	case diff.DropExclusion:
		return o.Table, true
	default:
		return ir.QualifiedName{}, false
	}
}

func (s *SQLite) Connect(ctx context.Context, cfg dialect.ConnectionConfig) (stateexec.Adapter, error) {
	db, err := sql.Open("sqlite", cfg.Database)
	if err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("open sqlite: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("ping sqlite: %w", err))
	}
	return &adapter{db: db}, nil
}
