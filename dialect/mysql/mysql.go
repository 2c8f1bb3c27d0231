// Package mysql implements dialect.Dialect for MySQL/MariaDB: go-sql-driver
// for the wire connection, backtick quoting, MySQL's single-clause MODIFY
// COLUMN redefinition for alters, and AUTO_INCREMENT/AFTER-column inline
// clauses package common's Flavor hooks exist specifically for.
//
// Grounded on sqldef's database/mysql/database.go (DSN assembly,
// information_schema-driven export) and schema/generator.go's
// mysqlDataTypeAliases (type-name normalization across MySQL versions).
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/dialect/common"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/sqlddl"
	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

type MySQL struct {
	flavor common.Flavor
}

func New() *MySQL {
	m := &MySQL{}
	m.flavor = common.Flavor{
		QuoteIdent:               QuoteIdent,
		FoldCase:                 strings.ToLower,
		BatchSeparator:           "",
		SupportsTransactionalDDL: false, // MySQL DDL implicitly commits
		RenameTableSQL: func(f *common.Flavor, from, to ir.QualifiedName) string {
			return fmt.Sprintf("RENAME TABLE %s TO %s", f.QName(from), f.QName(to))
		},
		AlterColumnSQL:       alterColumnSQL,
		AddColumnAfterClause: addColumnAfterClause,
		AutoIncrementClause: func(id *ir.Identity) string {
			return "AUTO_INCREMENT"
		},
	}
	return m
}

func (m *MySQL) Name() string { return "mysql" }

// QuoteIdent backtick-quotes an identifier, doubling embedded backticks.
func QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (m *MySQL) QuoteIdent(ident string) string            { return QuoteIdent(ident) }
func (m *MySQL) BatchSeparator() string                     { return m.flavor.BatchSeparator }
func (m *MySQL) EquivalencePolicy() equivalence.Policy      { return equivalence.Strict }
func (m *MySQL) Parse(sql string) ([]ir.SchemaObject, error) { return sqlddl.Parse(sql) }
func (m *MySQL) Normalize(obj ir.SchemaObject)               { common.Normalize(&m.flavor, obj) }
func (m *MySQL) ToSQL(obj ir.SchemaObject) (string, error)   { return common.ToSQL(&m.flavor, obj) }

func (m *MySQL) GenerateDDL(ops []diff.Op) ([]stateexec.Statement, error) {
	return common.GenerateGeneric(m.Name(), ops, &m.flavor)
}

func addColumnAfterClause(after *ir.Identifier) string {
	if after == nil {
		return ""
	}
	return " AFTER " + QuoteIdent(after.Value)
}

// alterColumnSQL renders MySQL's single MODIFY COLUMN redefinition: unlike
// Postgres's one-clause-per-property ALTER COLUMN, MySQL requires the full
// new column shape in one MODIFY clause, so every ColumnChange folds into
// one rendered ir.Column before emitting it through common.ColumnDefSQL.
func alterColumnSQL(f *common.Flavor, table ir.QualifiedName, col ir.Column, changes []diff.ColumnChange) ([]string, bool) {
	merged := col
	for _, c := range changes {
		switch c.Kind {
		case diff.ColumnTypeChanged:
			merged.DataType = c.NewType
		case diff.ColumnNotNullChanged:
			merged.NotNull = c.NewNotNull
		case diff.ColumnDefaultChanged:
			merged.Default = c.NewDefault
		case diff.ColumnIdentityChanged:
			merged.Identity = c.NewIdentity
		case diff.ColumnGeneratedChanged:
			merged.Generated = c.NewGenerated
		case diff.ColumnCollationChanged:
			merged.Collation = c.NewCollation
		case diff.ColumnCommentChanged:
			merged.Comment = c.NewComment
		}
	}
	if merged.DataType == "" {
		// The caller only ever supplies the column's name (see
		// common.generateOne); a change set missing a type means we have no
		// way to render a complete MODIFY COLUMN clause.
		return nil, false
	}
	clause := fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", f.QName(table), common.ColumnDefSQL(f, merged))
	if merged.Comment != "" {
		clause += fmt.Sprintf(" COMMENT %s", quoteLit(merged.Comment))
	}
	return []string{clause}, true
}

func quoteLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (m *MySQL) Connect(ctx context.Context, cfg dialect.ConnectionConfig) (stateexec.Adapter, error) {
	dsn := buildDSN(cfg)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("open mysql: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("ping mysql: %w", err))
	}
	return &adapter{db: db}, nil
}

// buildDSN follows go-sql-driver/mysql's DSN grammar:
// user:pass@tcp(host:port)/dbname or user:pass@unix(socket)/dbname.
func buildDSN(cfg dialect.ConnectionConfig) string {
	var b strings.Builder
	if cfg.User != "" {
		b.WriteString(cfg.User)
		if cfg.Password != "" {
			b.WriteString(":" + cfg.Password)
		}
		b.WriteString("@")
	}
	if cfg.Socket != "" {
		fmt.Fprintf(&b, "unix(%s)", cfg.Socket)
	} else {
		port := cfg.Port
		if port == 0 {
			port = 3306
		}
		fmt.Fprintf(&b, "tcp(%s:%d)", cfg.Host, port)
	}
	fmt.Fprintf(&b, "/%s", cfg.Database)
	b.WriteString("?parseTime=true&multiStatements=true")
	return b.String()
}
