// Package orchestrate wires the stages a single run exercises against an
// adapter the caller has already connected: export current SQL, parse both sides, normalize, diff, plan,
// generate, then either render (DryRun), execute (Apply), or render
// normalized objects for export (Export). Generalizes sqldef's package-level
// Run (sqldef.go), which hard-codes the same five steps for exactly one
// dialect at a time.
package orchestrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/plan"
	"github.com/sqldef/stateql/render"
	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

// Mode selects which of the three orchestrator flows Run takes.
type Mode int

const (
	DryRun Mode = iota
	Apply
	Export
)

// Options is the run configuration. EnableDrop and SchemaSearchPath become
// fields of diff.Config; the equivalence policy is not an option and comes
// from the dialect's EquivalencePolicy.
type Options struct {
	Mode             Mode
	EnableDrop       bool
	SchemaSearchPath []string
}

// Result is the closed sum Run returns: exactly one of Applied, a DryRunSql
// string, or an ExportSql string is meaningful, selected by Options.Mode.
type Result struct {
	Applied     bool
	DryRunSql   string
	ExportSql   string
	Diagnostics []diff.SkippedOpDiagnostic
}

// Run executes one orchestrator pass against an already-open adapter; the
// caller is responsible for having produced adapter via dialect.Connect.
func Run(ctx context.Context, d dialect.Dialect, adapter stateexec.Adapter, desiredSQL string, opts Options) (Result, error) {
	currentSQL, err := adapter.ExportSchema(ctx)
	if err != nil {
		return Result{}, stateerr.FromIO(fmt.Errorf("export current schema: %w", err))
	}

	if opts.Mode == Export {
		return runExport(d, currentSQL)
	}

	desired, err := d.Parse(desiredSQL)
	if err != nil {
		return Result{}, err
	}
	current, err := d.Parse(currentSQL)
	if err != nil {
		return Result{}, err
	}
	for _, obj := range desired {
		d.Normalize(obj)
	}
	for _, obj := range current {
		d.Normalize(obj)
	}

	searchPath := opts.SchemaSearchPath
	if len(searchPath) == 0 {
		if sp, err := adapter.SchemaSearchPath(ctx); err == nil {
			searchPath = sp
		}
	}

	cfg := diff.Config{
		EnableDrop:       opts.EnableDrop,
		SchemaSearchPath: searchPath,
		Policy:           d.EquivalencePolicy(),
	}
	diagnostics := diff.DiffWithDiagnostics(desired, current, cfg)
	ops := plan.Build(diagnostics.Ops)

	stmts, err := d.GenerateDDL(ops)
	if err != nil {
		return Result{}, err
	}

	if opts.Mode == DryRun {
		sql := render.Render(stmts, diagnostics.Skipped, d)
		return Result{DryRunSql: sql, Diagnostics: diagnostics.Skipped}, nil
	}

	if err := stateexec.Run(ctx, adapter, stmts); err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Diagnostics: diagnostics.Skipped}, nil
}

// runExport implements the Export flow: parse and normalize the
// adapter's exported SQL, then render each object back through
// dialect.ToSQL and concatenate with ";\n".
func runExport(d dialect.Dialect, currentSQL string) (Result, error) {
	sql, err := exportSQL(d, currentSQL)
	if err != nil {
		return Result{}, err
	}
	return Result{ExportSql: sql}, nil
}

func exportSQL(d dialect.Dialect, currentSQL string) (string, error) {
	objs, err := d.Parse(currentSQL)
	if err != nil {
		return "", err
	}
	for _, obj := range objs {
		d.Normalize(obj)
	}
	var b strings.Builder
	for _, obj := range objs {
		s, err := d.ToSQL(obj)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

// ExportRoundtripMatches verifies the idempotence claim for sql:
// parse ∘ normalize ∘ to_sql is a fixed point on already-exported input.
// It re-parses the freshly rendered export and compares the object sets
// structurally, not textually, since formatting (not semantics) may still
// legitimately differ run to run.
func ExportRoundtripMatches(d dialect.Dialect, sql string) (bool, error) {
	rendered, err := exportSQL(d, sql)
	if err != nil {
		return false, err
	}
	again, err := exportSQL(d, rendered)
	if err != nil {
		return false, err
	}
	first, err := d.Parse(rendered)
	if err != nil {
		return false, err
	}
	second, err := d.Parse(again)
	if err != nil {
		return false, err
	}
	for _, obj := range first {
		d.Normalize(obj)
	}
	for _, obj := range second {
		d.Normalize(obj)
	}
	// Reuse the diff engine itself rather than a parallel structural-equality
	// helper: two object sets are the fixed point iff diffing one against
	// the other (with drops enabled, so nothing is silently gated) is empty —
	// exactly the diff engine's own reflexivity invariant, applied to a roundtrip pair
	// instead of a single schema compared with itself.
	ops := diff.Diff(first, second, diff.Config{EnableDrop: true, Policy: d.EquivalencePolicy()})
	return len(ops) == 0, nil
}
