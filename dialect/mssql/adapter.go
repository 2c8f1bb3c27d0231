package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

// adapter is a simplified sys.tables/sys.columns sweep rather than sqldef's
// fuller sys.indexes/sys.foreign_keys/sys.check_constraints fidelity.
type adapter struct{ db *sql.DB }

func (a *adapter) ExportSchema(ctx context.Context) (string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT s.name, t.name
		FROM sys.tables t
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		ORDER BY s.name, t.name`)
	if err != nil {
		return "", stateerr.FromIO(fmt.Errorf("list tables: %w", err))
	}
	defer rows.Close()

	var tables [][2]string
	for rows.Next() {
		var schema, name string
		if err := rows.Scan(&schema, &name); err != nil {
			return "", stateerr.FromIO(err)
		}
		tables = append(tables, [2]string{schema, name})
	}

	var b strings.Builder
	for _, t := range tables {
		ddl, err := a.tableDDL(ctx, t[0], t[1])
		if err != nil {
			return "", err
		}
		b.WriteString(ddl)
		b.WriteString(";\nGO\n")
	}
	return b.String(), nil
}

func (a *adapter) tableDDL(ctx context.Context, schema, table string) (string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT c.name, ty.name, c.is_nullable
		FROM sys.columns c
		JOIN sys.types ty ON ty.user_type_id = c.user_type_id
		JOIN sys.tables t ON t.object_id = c.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE s.name = @p1 AND t.name = @p2
		ORDER BY c.column_id`, schema, table)
	if err != nil {
		return "", stateerr.FromIO(fmt.Errorf("describe %s.%s: %w", schema, table, err))
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name, typ string
		var nullable bool
		if err := rows.Scan(&name, &typ, &nullable); err != nil {
			return "", stateerr.FromIO(err)
		}
		col := fmt.Sprintf("%s %s", QuoteIdent(name), typ)
		if !nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("CREATE TABLE %s.%s (\n  %s\n)", QuoteIdent(schema), QuoteIdent(table), strings.Join(cols, ",\n  ")), nil
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

// SchemaSearchPath maps onto the single default schema (normally dbo); T-SQL
// resolves unqualified names against sys.schemas' default_schema_name for
// the connected user rather than a true search path.
func (a *adapter) SchemaSearchPath(ctx context.Context) ([]string, error) {
	var schema string
	if err := a.db.QueryRowContext(ctx, "SELECT SCHEMA_NAME()").Scan(&schema); err != nil {
		return nil, stateerr.FromIO(err)
	}
	return []string{schema}, nil
}

func (a *adapter) ServerVersion(ctx context.Context) (major, minor, patch int, err error) {
	var v string
	if e := a.db.QueryRowContext(ctx, "SELECT CAST(SERVERPROPERTY('ProductVersion') AS NVARCHAR(128))").Scan(&v); e != nil {
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
