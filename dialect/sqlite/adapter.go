package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

// adapter exports schema from sqlite_master rather than sqldef's fuller
// PRAGMA table_info/foreign_key_list/index_list sweep — see DESIGN.md.
type adapter struct{ db *sql.DB }

func (a *adapter) ExportSchema(ctx context.Context) (string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT sql FROM sqlite_master
		WHERE type IN ('table', 'view', 'index', 'trigger')
		  AND name NOT LIKE 'sqlite_%'
		  AND sql IS NOT NULL
		ORDER BY CASE type WHEN 'table' THEN 0 WHEN 'view' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name`)
	if err != nil {
		return "", stateerr.FromIO(fmt.Errorf("query sqlite_master: %w", err))
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var def string
		if err := rows.Scan(&def); err != nil {
			return "", stateerr.FromIO(err)
		}
		b.WriteString(def)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

func (a *adapter) Execute(ctx context.Context, sql string) error {
	_, err := a.db.ExecContext(ctx, sql)
	return err
}

func (a *adapter) Begin(ctx context.Context) (stateexec.Transaction, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &txn{tx: tx}, nil
}

// SchemaSearchPath has no SQLite equivalent beyond the attached "main"
// database; ATTACH-based multi-schema setups are out of scope.
func (a *adapter) SchemaSearchPath(ctx context.Context) ([]string, error) {
	return []string{"main"}, nil
}

func (a *adapter) ServerVersion(ctx context.Context) (major, minor, patch int, err error) {
	var v string
	if e := a.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&v); e != nil {
		return 0, 0, 0, stateerr.FromIO(e)
	}
	fmt.Sscanf(v, "%d.%d.%d", &major, &minor, &patch)
	return major, minor, patch, nil
}

type txn struct{ tx *sql.Tx }

func (t *txn) Execute(ctx context.Context, sql string) error {
	_, err := t.tx.ExecContext(ctx, sql)
	return err
}
func (t *txn) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *txn) Rollback(ctx context.Context) error { return t.tx.Rollback() }
