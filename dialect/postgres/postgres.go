// Package postgres implements dialect.Dialect for PostgreSQL: lib/pq for the
// wire connection, pg_query_go for upfront syntax validation before the
// shared sqlddl scanner ever sees the text, and postgres-flavored
// identifier quoting layered onto package common (no case folding).
//
// Grounded on sqldef's database/postgres/database.go (ExportSchema's
// information_schema/pg_catalog sweep, postgresBuildDSN's PGSSLMODE/socket
// handling) and database/postgres/parser.go (pg_query_go as an upfront
// validator ahead of the project's own grammar).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pgquery "github.com/pganalyze/pg_query_go/v2"

	_ "github.com/lib/pq"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/dialect/common"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/sqlddl"
	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

// Postgres is the Postgres dialect.Dialect implementation.
type Postgres struct {
	flavor common.Flavor
}

// New builds the Postgres dialect. There is no per-instance configuration
// today; New exists so callers spell dialect construction the same way
// across all four packages.
func New() *Postgres {
	p := &Postgres{}
	p.flavor = common.Flavor{
		QuoteIdent:               QuoteIdent,
		BatchSeparator:           "",
		SupportsTransactionalDDL: true,
		AlterColumnSQL:           alterColumnSQL,
	}
	return p
}

func (p *Postgres) Name() string { return "postgres" }

// QuoteIdent double-quotes an identifier, doubling embedded quotes, matching
// Postgres's quoted-identifier escaping (and sqldef's escapeSQLName).
func QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (p *Postgres) QuoteIdent(ident string) string { return QuoteIdent(ident) }

func (p *Postgres) BatchSeparator() string { return p.flavor.BatchSeparator }

func (p *Postgres) EquivalencePolicy() equivalence.Policy { return equivalence.Strict }

// Parse validates sql with pg_query_go before handing it to the shared
// scanner: pg_query_go embeds Postgres's own grammar, so a syntax error it
// catches here is reported before the lighter hand-written scanner would
// otherwise silently skip an unrecognized statement (sqlddl.Parse drops
// statements it doesn't recognize rather than erroring on them).
func (p *Postgres) Parse(sql string) ([]ir.SchemaObject, error) {
	if strings.TrimSpace(sql) != "" {
		if _, err := pgquery.Parse(sql); err != nil {
			return nil, stateerr.FromParse(&stateerr.ParseError{Err: fmt.Errorf("pg_query_go: %w", err)})
		}
	}
	return sqlddl.Parse(sql)
}

func (p *Postgres) Normalize(obj ir.SchemaObject) { common.Normalize(&p.flavor, obj) }

func (p *Postgres) ToSQL(obj ir.SchemaObject) (string, error) { return common.ToSQL(&p.flavor, obj) }

func (p *Postgres) GenerateDDL(ops []diff.Op) ([]stateexec.Statement, error) {
	return common.GenerateGeneric(p.Name(), ops, &p.flavor)
}

// alterColumnSQL renders every ColumnChange for one column as its own
// ALTER TABLE ... ALTER COLUMN clause, Postgres's one-clause-per-property
// style (unlike MySQL's single MODIFY COLUMN redefinition).
func alterColumnSQL(f *common.Flavor, table ir.QualifiedName, col ir.Column, changes []diff.ColumnChange) ([]string, bool) {
	qcol := f.Qi(col.Name.Value)
	var clauses []string
	for _, c := range changes {
		switch c.Kind {
		case diff.ColumnTypeChanged:
			clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s TYPE %s", qcol, c.NewType))
		case diff.ColumnNotNullChanged:
			if c.NewNotNull {
				clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", qcol))
			} else {
				clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", qcol))
			}
		case diff.ColumnDefaultChanged:
			if c.NewDefault == nil {
				clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", qcol))
			} else {
				clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", qcol, common.RenderExpr(*c.NewDefault)))
			}
		case diff.ColumnIdentityChanged:
			if c.NewIdentity == nil {
				clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP IDENTITY IF EXISTS", qcol))
			} else {
				behavior := strings.ToUpper(c.NewIdentity.Behavior)
				if behavior == "" {
					behavior = "BY DEFAULT"
				}
				clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s ADD GENERATED %s AS IDENTITY", qcol, behavior))
			}
		case diff.ColumnGeneratedChanged:
			// Postgres has no ALTER COLUMN ... DROP EXPRESSION pre-12 and no
			// direct "change the generation expression" clause; report
			// unsupported so the caller can decide (table rebuild, manual
			// migration) rather than silently emitting a no-op.
			return nil, false
		case diff.ColumnCollationChanged:
			clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s TYPE %s COLLATE %s", qcol, c.NewType, c.NewCollation))
		case diff.ColumnCommentChanged:
			clauses = append(clauses, "") // handled by a separate COMMENT ON statement, nothing inline here
		}
	}
	var stmts []string
	var inline []string
	for _, c := range clauses {
		if c == "" {
			continue
		}
		inline = append(inline, c)
	}
	if len(inline) > 0 {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s %s", f.QName(table), strings.Join(inline, ", ")))
	}
	return stmts, true
}

// Connect opens a lib/pq connection and wraps it in the stateexec.Adapter
// contract. DSN construction follows sqldef's postgresBuildDSN: a
// postgres:// URL, libpq env vars (PGSSLMODE et al.) respected implicitly by
// lib/pq, and a Unix socket routed through the host query parameter.
func (p *Postgres) Connect(ctx context.Context, cfg dialect.ConnectionConfig) (stateexec.Adapter, error) {
	dsn := buildDSN(cfg)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("open postgres: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, stateerr.FromIO(fmt.Errorf("ping postgres: %w", err))
	}
	return &adapter{db: db, p: p}, nil
}

func buildDSN(cfg dialect.ConnectionConfig) string {
	var b strings.Builder
	b.WriteString("postgres://")
	if cfg.User != "" {
		b.WriteString(cfg.User)
		if cfg.Password != "" {
			b.WriteString(":" + cfg.Password)
		}
		b.WriteString("@")
	}
	host := cfg.Host
	if cfg.Socket != "" {
		host = ""
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	fmt.Fprintf(&b, "%s:%d/%s", host, port, cfg.Database)
	var params []string
	if cfg.Socket != "" {
		params = append(params, "host="+cfg.Socket)
	}
	if mode := cfg.Extra["sslmode"]; mode != "" {
		params = append(params, "sslmode="+mode)
	}
	if len(params) > 0 {
		b.WriteString("?" + strings.Join(params, "&"))
	}
	return b.String()
}
