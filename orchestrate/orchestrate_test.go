package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateexec"
)

// fakeDialect is a minimal dialect.Dialect whose "SQL" is just a literal
// table name, one per line (optionally in the `CREATE TABLE name;` form its
// own ToSQL renders), so tests can exercise the orchestrator's stage wiring
// without a real grammar.
type fakeDialect struct{}

func (fakeDialect) Name() string { return "fake" }

func (fakeDialect) Parse(sql string) ([]ir.SchemaObject, error) {
	var objs []ir.SchemaObject
	for _, line := range strings.Split(strings.TrimSpace(sql), "\n") {
		line = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(line), "CREATE TABLE "), ";")
		if line == "" {
			continue
		}
		objs = append(objs, &ir.Table{Name: ir.NewQualifiedName(line)})
	}
	return objs, nil
}

func (fakeDialect) GenerateDDL(ops []diff.Op) ([]stateexec.Statement, error) {
	var stmts []stateexec.Statement
	for _, op := range ops {
		switch v := op.(type) {
		case diff.CreateTable:
			stmts = append(stmts, stateexec.Sql{SQL: "CREATE TABLE " + v.Table.Name.String(), Transactional: true})
		case diff.DropTable:
			stmts = append(stmts, stateexec.Sql{SQL: "DROP TABLE " + v.Name.String(), Transactional: true})
		}
	}
	return stmts, nil
}

func (fakeDialect) ToSQL(obj ir.SchemaObject) (string, error) {
	t, ok := obj.(*ir.Table)
	if !ok {
		return "", fmt.Errorf("unsupported object %T", obj)
	}
	return "CREATE TABLE " + t.Name.String(), nil
}

func (fakeDialect) Normalize(obj ir.SchemaObject) {}
func (fakeDialect) QuoteIdent(ident string) string { return ident }
func (fakeDialect) BatchSeparator() string         { return "" }
func (fakeDialect) EquivalencePolicy() equivalence.Policy { return equivalence.Strict }
func (fakeDialect) Connect(ctx context.Context, cfg dialect.ConnectionConfig) (stateexec.Adapter, error) {
	return nil, fmt.Errorf("not used in these tests")
}

// fakeAdapter reports a fixed current schema and records executed SQL.
type fakeAdapter struct {
	current  string
	executed []string
}

func (a *fakeAdapter) ExportSchema(ctx context.Context) (string, error) { return a.current, nil }
func (a *fakeAdapter) Execute(ctx context.Context, sql string) error {
	a.executed = append(a.executed, sql)
	return nil
}
func (a *fakeAdapter) Begin(ctx context.Context) (stateexec.Transaction, error) {
	return &fakeTx{adapter: a}, nil
}
func (a *fakeAdapter) SchemaSearchPath(ctx context.Context) ([]string, error) { return nil, nil }
func (a *fakeAdapter) ServerVersion(ctx context.Context) (int, int, int, error) {
	return 1, 0, 0, nil
}

type fakeTx struct{ adapter *fakeAdapter }

func (t *fakeTx) Execute(ctx context.Context, sql string) error {
	t.adapter.executed = append(t.adapter.executed, sql)
	return nil
}
func (t *fakeTx) Commit(ctx context.Context) error   { return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

func TestRunDryRun(t *testing.T) {
	adapter := &fakeAdapter{current: "users\n"}
	result, err := Run(context.Background(), fakeDialect{}, adapter, "users\norders\n", Options{Mode: DryRun, EnableDrop: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.DryRunSql, "CREATE TABLE orders") {
		t.Errorf("expected the dry run output to create orders, got %q", result.DryRunSql)
	}
	if len(adapter.executed) != 0 {
		t.Error("dry run must not execute anything")
	}
}

func TestRunApply(t *testing.T) {
	adapter := &fakeAdapter{current: ""}
	result, err := Run(context.Background(), fakeDialect{}, adapter, "users\n", Options{Mode: Apply, EnableDrop: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Applied {
		t.Error("expected Applied to be true")
	}
	if len(adapter.executed) != 1 || adapter.executed[0] != "CREATE TABLE users" {
		t.Errorf("expected a single CREATE TABLE users statement, got %v", adapter.executed)
	}
}

func TestRunExport(t *testing.T) {
	adapter := &fakeAdapter{current: "users\norders\n"}
	result, err := Run(context.Background(), fakeDialect{}, adapter, "", Options{Mode: Export})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.ExportSql, "CREATE TABLE users;") || !strings.Contains(result.ExportSql, "CREATE TABLE orders;") {
		t.Errorf("expected both tables rendered, got %q", result.ExportSql)
	}
}

func TestExportRoundtripMatches(t *testing.T) {
	ok, err := ExportRoundtripMatches(fakeDialect{}, "users\norders\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected the fake dialect's export to be a fixed point")
	}
}
