// Package stateerr implements the four-stage error taxonomy:
// Parse, Diff, Generate, Execute, each a typed struct satisfying error and
// Unwrap, plus a closed top-level sum with variant-specific From
// conversions so callers can propagate any stage error as one type.
package stateerr

import "fmt"

// SourceLocation pinpoints a parse failure within the source SQL.
type SourceLocation struct {
	Line   int
	Column int // 0 means "not recorded"
}

// ParseError is a statement-level parse failure.
type ParseError struct {
	StatementIndex int
	SourceSQL      string
	Location       *SourceLocation
	Err            error
}

func (e *ParseError) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("[parse] statement %d, line %d: %v", e.StatementIndex, e.Location.Line, e.Err)
	}
	return fmt.Sprintf("[parse] statement %d: %v", e.StatementIndex, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// DiffError is an object-comparison mismatch. No stage of this module
// constructs one: an unresolved rename annotation falls back to plain name
// matching in the diff engine instead of raising a DiffError.
type DiffError struct {
	Target    string
	Operation string
}

func (e *DiffError) Error() string {
	return fmt.Sprintf("[diff] %s: %s", e.Target, e.Operation)
}

// GenerateError reports a diff operation a dialect cannot render.
type GenerateError struct {
	DiffOp  string
	Target  string
	Dialect string
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("[generate] %s does not support %s on %s", e.Dialect, e.DiffOp, e.Target)
}

// ExecuteError is a statement failure during execution. Context
// is an opaque StatementContext (e.g. stateexec.SqliteTableRebuild),
// carried as `any` so this package does not depend on the executor.
type ExecuteError struct {
	StatementIndex     int
	SQL                string
	ExecutedStatements int
	Location           *SourceLocation
	Context            any
	Err                error
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("[execute] statement %d (%d executed so far): %v", e.StatementIndex, e.ExecutedStatements, e.Err)
}
func (e *ExecuteError) Unwrap() error { return e.Err }

// Stage names the taxonomy member a Error wraps, for callers that want to
// branch without a type switch.
type Stage int

const (
	StageParse Stage = iota
	StageDiff
	StageGenerate
	StageExecute
	StageIO
	StageConfig
	StageUsage
)

func (s Stage) tag() string {
	switch s {
	case StageParse:
		return "parse"
	case StageDiff:
		return "diff"
	case StageGenerate:
		return "generate"
	case StageExecute:
		return "execute"
	case StageIO:
		return "io"
	case StageConfig:
		return "config"
	case StageUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Error is the top-level sum every stage error converts into.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("[%s] %v", e.Stage.tag(), e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// FromParse, FromDiff, FromGenerate, FromExecute are the variant-specific
// From conversions the error taxonomy calls for.
func FromParse(err *ParseError) *Error       { return &Error{Stage: StageParse, Err: err} }
func FromDiff(err *DiffError) *Error         { return &Error{Stage: StageDiff, Err: err} }
func FromGenerate(err *GenerateError) *Error { return &Error{Stage: StageGenerate, Err: err} }
func FromExecute(err *ExecuteError) *Error   { return &Error{Stage: StageExecute, Err: err} }

// FromIO and FromConfig wrap the CLI-level io/config/usage category tags
// the CLI layer also names, for errors that never pass through a core stage.
func FromIO(err error) *Error     { return &Error{Stage: StageIO, Err: err} }
func FromConfig(err error) *Error { return &Error{Stage: StageConfig, Err: err} }
func FromUsage(err error) *Error  { return &Error{Stage: StageUsage, Err: err} }
