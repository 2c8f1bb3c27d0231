// Package mssql implements dialect.Dialect for SQL Server: denisenkom/go-mssqldb
// for the wire connection, bracket identifier quoting, sp_rename for the
// renames T-SQL has no ALTER ... RENAME TO for, and the GO batch separator
// sqlcmd-style scripts use between statements.
//
// Grounded on sqldef's database/mssql/database.go (DSN assembly,
// sys.columns/sys.tables-driven export) and schema/generator_mssql.go
// (sp_rename usage, IDENTITY(1,1) inline clause, bracket quoting).
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/dialect/common"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/sqlddl"
	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

type MSSQL struct {
	flavor common.Flavor
}

func New() *MSSQL {
	m := &MSSQL{}
	m.flavor = common.Flavor{
		QuoteIdent:               QuoteIdent,
		BatchSeparator:           "GO",
		SupportsTransactionalDDL: true,
		RenameTableSQL: func(f *common.Flavor, from, to ir.QualifiedName) string {
			return fmt.Sprintf("EXEC sp_rename %s, %s", quoteLit(f.QName(from)), quoteLit(to.Name.Value))
		},
		AlterColumnSQL: alterColumnSQL,
		AutoIncrementClause: func(id *ir.Identity) string {
			return "IDENTITY(1,1)"
		},
	}
	return m
}

func (m *MSSQL) Name() string { return "mssql" }

// QuoteIdent brackets an identifier, doubling embedded closing brackets, the
// T-SQL quoted-identifier convention ([my]]name] for my]name).
func QuoteIdent(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

func (m *MSSQL) QuoteIdent(ident string) string            { return QuoteIdent(ident) }
func (m *MSSQL) BatchSeparator() string                     { return m.flavor.BatchSeparator }
func (m *MSSQL) EquivalencePolicy() equivalence.Policy      { return equivalence.Strict }
func (m *MSSQL) Parse(sql string) ([]ir.SchemaObject, error) { return sqlddl.Parse(sql) }
func (m *MSSQL) Normalize(obj ir.SchemaObject)               { common.Normalize(&m.flavor, obj) }
func (m *MSSQL) ToSQL(obj ir.SchemaObject) (string, error)   { return common.ToSQL(&m.flavor, obj) }

func (m *MSSQL) GenerateDDL(ops []diff.Op) ([]stateexec.Statement, error) {
	return common.GenerateGeneric(m.Name(), ops, &m.flavor)
}

func quoteLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// alterColumnSQL renders T-SQL's ALTER COLUMN: type and nullability share
// one clause (a bare ALTER COLUMN restates the full type+nullability, so
// the two are merged when both change), while a default change needs its
// own constraint-drop-then-add statement since T-SQL defaults are named
// constraints, not column properties. Identity and generated-column changes
// are reported unsupported (nil, false).
func alterColumnSQL(f *common.Flavor, table ir.QualifiedName, col ir.Column, changes []diff.ColumnChange) ([]string, bool) {
	qcol := f.Qi(col.Name.Value)
	qtable := f.QName(table)

	var newType string
	var notNullSet bool
	var notNull bool
	var stmts []string

	for _, c := range changes {
		switch c.Kind {
		case diff.ColumnTypeChanged:
			newType = c.NewType
		case diff.ColumnNotNullChanged:
			notNullSet = true
			notNull = c.NewNotNull
		case diff.ColumnDefaultChanged:
			dropName := fmt.Sprintf("DF_%s_%s", table.Name, col.Name.Value)
			stmts = append(stmts, fmt.Sprintf(
				"IF EXISTS (SELECT 1 FROM sys.default_constraints WHERE name = %s) ALTER TABLE %s DROP CONSTRAINT %s",
				quoteLit(dropName), qtable, QuoteIdent(dropName)))
			if c.NewDefault != nil {
				stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s DEFAULT %s FOR %s",
					qtable, QuoteIdent(dropName), common.RenderExpr(*c.NewDefault), qcol))
			}
		case diff.ColumnIdentityChanged:
			// IDENTITY cannot be added or removed from an existing column in
			// T-SQL without rebuilding the column; surface as unsupported.
			return nil, false
		case diff.ColumnGeneratedChanged:
			return nil, false
		case diff.ColumnCollationChanged:
			newType = c.NewType
		case diff.ColumnCommentChanged:
			// Comments are sys.extended_properties entries, not part of the
			// column definition; nothing to do inline here.
		}
	}

	if newType != "" || notNullSet {
		null := "NULL"
		if notNull {
			null = "NOT NULL"
		}
		typ := newType
		if typ == "" {
			typ = col.DataType
		}
		stmts = append([]string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s %s", qtable, qcol, typ, null)}, stmts...)
	}
	return stmts, true
}

func (m *MSSQL) Connect(ctx context.Context, cfg dialect.ConnectionConfig) (stateexec.Adapter, error) {
	dsn := buildDSN(cfg)
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("open mssql: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("ping mssql: %w", err))
	}
	return &adapter{db: db}, nil
}

// buildDSN follows denisenkom/go-mssqldb's sqlserver:// URL form.
func buildDSN(cfg dialect.ConnectionConfig) string {
	var b strings.Builder
	b.WriteString("sqlserver://")
	if cfg.User != "" {
		b.WriteString(cfg.User)
		if cfg.Password != "" {
			b.WriteString(":" + cfg.Password)
		}
		b.WriteString("@")
	}
	port := cfg.Port
	if port == 0 {
		port = 1433
	}
	fmt.Fprintf(&b, "%s:%d?database=%s", cfg.Host, port, cfg.Database)
	if enc := cfg.Extra["encrypt"]; enc != "" {
		fmt.Fprintf(&b, "&encrypt=%s", enc)
	}
	return b.String()
}
