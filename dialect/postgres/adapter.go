package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

// adapter is the lib/pq-backed stateexec.Adapter. ExportSchema is a
// simplified information_schema sweep (tables, columns, views) rather than
// sqldef's full pg_catalog fidelity (constraint deparsing, event triggers,
// extension-owned objects) — see DESIGN.md's Open Question entry for why the
// narrower sweep was chosen here.
type adapter struct {
	db *sql.DB
	p  *Postgres
}

func (a *adapter) ExportSchema(ctx context.Context) (string, error) {
	var b strings.Builder

	tableRows, err := a.db.QueryContext(ctx, `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE' AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return "", stateerr.FromIO(fmt.Errorf("list tables: %w", err))
	}
	defer tableRows.Close()

	var tables [][2]string
	for tableRows.Next() {
		var schema, name string
		if err := tableRows.Scan(&schema, &name); err != nil {
			return "", stateerr.FromIO(err)
		}
		tables = append(tables, [2]string{schema, name})
	}

	for _, t := range tables {
		ddl, err := a.tableDDL(ctx, t[0], t[1])
		if err != nil {
			return "", err
		}
		b.WriteString(ddl)
		b.WriteString(";\n")
	}

	viewRows, err := a.db.QueryContext(ctx, `
		SELECT table_schema, table_name, view_definition
		FROM information_schema.views
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return "", stateerr.FromIO(fmt.Errorf("list views: %w", err))
	}
	defer viewRows.Close()
	for viewRows.Next() {
		var schema, name, def string
		if err := viewRows.Scan(&schema, &name, &def); err != nil {
			return "", stateerr.FromIO(err)
		}
		fmt.Fprintf(&b, "CREATE VIEW %s.%s AS %s;\n", QuoteIdent(schema), QuoteIdent(name), strings.TrimSpace(def))
	}

	return b.String(), nil
}

func (a *adapter) tableDDL(ctx context.Context, schema, table string) (string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return "", stateerr.FromIO(fmt.Errorf("describe %s.%s: %w", schema, table, err))
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name, dataType, nullable string
		var def sql.NullString
		if err := rows.Scan(&name, &dataType, &nullable, &def); err != nil {
			return "", stateerr.FromIO(err)
		}
		col := fmt.Sprintf("%s %s", QuoteIdent(name), dataType)
		if nullable == "NO" {
			col += " NOT NULL"
		}
		if def.Valid {
			col += " DEFAULT " + def.String
		}
		cols = append(cols, col)
	}

	return fmt.Sprintf("CREATE TABLE %s.%s (\n  %s\n)", QuoteIdent(schema), QuoteIdent(table), strings.Join(cols, ",\n  ")), nil
}

func (a *adapter) Execute(ctx context.Context, sql string) error {
	if _, err := a.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

func (a *adapter) Begin(ctx context.Context) (stateexec.Transaction, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &txn{tx: tx}, nil
}

func (a *adapter) SchemaSearchPath(ctx context.Context) ([]string, error) {
	var path string
	if err := a.db.QueryRowContext(ctx, "SHOW search_path").Scan(&path); err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("show search_path: %w", err))
	}
	parts := strings.Split(path, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.Trim(strings.TrimSpace(p), `"`)
	}
	return out, nil
}

func (a *adapter) ServerVersion(ctx context.Context) (major, minor, patch int, err error) {
	var num int
	if e := a.db.QueryRowContext(ctx, "SHOW server_version_num").Scan(&num); e != nil {
		return 0, 0, 0, stateerr.FromIO(fmt.Errorf("show server_version_num: %w", e))
	}
	major = num / 10000
	minor = (num / 100) % 100
	patch = num % 100
	return major, minor, patch, nil
}

type txn struct{ tx *sql.Tx }

func (t *txn) Execute(ctx context.Context, sql string) error {
	_, err := t.tx.ExecContext(ctx, sql)
	return err
}
func (t *txn) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *txn) Rollback(ctx context.Context) error { return t.tx.Rollback() }
