// Package stateexec implements the statement executor and the adapter
// contract it drives: a statement stream made of transactional
// and non-transactional SQL plus batch-boundary hints, executed against a
// synchronous Adapter with RAII-style transaction/rollback semantics.
package stateexec

import (
	"context"
	"fmt"

	"github.com/sqldef/stateql/stateerr"
)

// RebuildStep enumerates the SQLite table-rebuild phases, the one StatementContext
// variant this IR carries.
type RebuildStep int

const (
	CreateShadowTable RebuildStep = iota
	CopyData
	DropOldTable
	RenameShadowTable
	RecreateIndexes
	RecreateTriggers
)

// SqliteTableRebuild is the sole StatementContext variant; it lets an
// Execute error localize failure within a multi-step rebuild (SQLite has no
// ALTER COLUMN/DROP COLUMN-with-constraints, so dialect/sqlite rebuilds the
// table under a shadow name).
type SqliteTableRebuild struct {
	Table string
	Step  RebuildStep
}

// Statement is the closed sum generate_ddl produces: either a SQL
// statement (transactional or not, with an optional StatementContext for
// error localization) or a dialect batch-boundary hint the executor ignores
// but the renderer honors.
type Statement interface{ isStatement() }

type Sql struct {
	SQL           string
	Transactional bool
	Context       any // nil, or a StatementContext such as SqliteTableRebuild
}

type BatchBoundary struct{}

func (Sql) isStatement()           {}
func (BatchBoundary) isStatement() {}

// Transaction is the scoped handle an Adapter hands back: execute is
// passthrough, Commit consumes the handle and runs COMMIT, and a handle
// that is never committed must be rolled back by its owner (Go has no
// destructors, so the executor's defer plays the RAII role the design notes
// "Implementers without destructors must use an explicit scoped wrapper
// that invokes rollback on close unless commit has been called").
type Transaction interface {
	Execute(ctx context.Context, sql string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Adapter is the external collaborator contract.
type Adapter interface {
	ExportSchema(ctx context.Context) (string, error)
	Execute(ctx context.Context, sql string) error
	Begin(ctx context.Context) (Transaction, error)
	SchemaSearchPath(ctx context.Context) ([]string, error)
	ServerVersion(ctx context.Context) (major, minor, patch int, err error)
}

// Run executes stmts against adapter following the grouping algorithm spec
// §4.6 describes: contiguous transactional statements form one
// begin/commit group; a non-transactional statement flushes the
// in-progress group, runs standalone, then opens a fresh group for what
// follows. BatchBoundary is a renderer-only hint and is skipped entirely.
func Run(ctx context.Context, adapter Adapter, stmts []Statement) error {
	var tx Transaction
	executed := 0

	closeGroup := func(commit bool) error {
		if tx == nil {
			return nil
		}
		if commit {
			err := tx.Commit(ctx)
			tx = nil
			return err
		}
		_ = tx.Rollback(ctx)
		tx = nil
		return nil
	}

	for i, stmt := range stmts {
		sql, ok := stmt.(Sql)
		if !ok {
			continue // BatchBoundary: ignored by the executor
		}

		if sql.Transactional {
			if tx == nil {
				var err error
				tx, err = adapter.Begin(ctx)
				if err != nil {
					return stateerr.FromExecute(&stateerr.ExecuteError{
						StatementIndex: i, SQL: sql.SQL, ExecutedStatements: executed,
						Context: sql.Context, Err: fmt.Errorf("begin transaction: %w", err),
					})
				}
			}
			if err := tx.Execute(ctx, sql.SQL); err != nil {
				_ = closeGroup(false)
				return stateerr.FromExecute(&stateerr.ExecuteError{
					StatementIndex: i, SQL: sql.SQL, ExecutedStatements: executed,
					Context: sql.Context, Err: err,
				})
			}
			executed++
			continue
		}

		if err := closeGroup(true); err != nil {
			return stateerr.FromExecute(&stateerr.ExecuteError{
				StatementIndex: i, SQL: sql.SQL, ExecutedStatements: executed,
				Context: sql.Context, Err: fmt.Errorf("commit preceding group: %w", err),
			})
		}
		if err := adapter.Execute(ctx, sql.SQL); err != nil {
			return stateerr.FromExecute(&stateerr.ExecuteError{
				StatementIndex: i, SQL: sql.SQL, ExecutedStatements: executed,
				Context: sql.Context, Err: err,
			})
		}
		executed++
	}

	if err := closeGroup(true); err != nil {
		return stateerr.FromExecute(&stateerr.ExecuteError{
			StatementIndex: len(stmts), ExecutedStatements: executed, Err: fmt.Errorf("commit final group: %w", err),
		})
	}
	return nil
}
