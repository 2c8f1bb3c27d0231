// Package dialect declares the backend contract the orchestrator drives:
// parse, generate, normalize, quote, connect, the equivalence-policy
// accessor, and the batch separator. Dialects are an open set (four today,
// more possible) so, unlike the closed ir/diff sums, this is an interface.
package dialect

import (
	"context"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateexec"
)

// ConnectionConfig is the connection parameter bag a dialect's Connect takes:
// {host?, port?, user?, password?, database, socket?, extra}. Extra carries
// dialect-specific overrides such as forcing a server version or seeding
// the exported SQL a test adapter should report.
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Socket   string
	Extra    map[string]string
}

// Dialect is the per-backend contract. Each concrete dialect
// (postgres, mysql, sqlite, mssql) implements this over its own sqlddl
// grammar subset and its own database/sql driver.
type Dialect interface {
	// Name is a stable short identifier, e.g. "postgres".
	Name() string

	// Parse splits sql into schema objects. Trailing rename annotations
	// must be attached to the preceding object; an orphan annotation (one
	// with nothing before it to attach to) is a *stateerr.ParseError.
	Parse(sql string) ([]ir.SchemaObject, error)

	// GenerateDDL renders a planned op sequence into the Statement stream
	// the executor and renderer both consume.
	GenerateDDL(ops []diff.Op) ([]stateexec.Statement, error)

	// ToSQL renders a single schema object for export. parse ∘ normalize ∘
	// ToSQL must be a fixed point on already-exported input.
	ToSQL(obj ir.SchemaObject) (string, error)

	// Normalize canonicalizes obj in place (case folding, quote handling,
	// default-expression formatting) before it is compared or rendered.
	Normalize(obj ir.SchemaObject)

	// QuoteIdent quotes an identifier per this dialect's quoting rules.
	QuoteIdent(ident string) string

	// BatchSeparator is emitted at a Statement stream's BatchBoundary
	// hints; an empty string suppresses the boundary entirely.
	BatchSeparator() string

	// EquivalencePolicy returns this dialect's shared, 'static-lifetime
	// equivalence policy.
	EquivalencePolicy() equivalence.Policy

	// Connect opens an Adapter against cfg.
	Connect(ctx context.Context, cfg ConnectionConfig) (stateexec.Adapter, error)
}
