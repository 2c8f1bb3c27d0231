// Package common factors the rendering and generation logic that postgres,
// mysql, sqlite, and mssql all share: walking the ir expression algebra back
// into SQL text, rendering a schema object's CREATE statement, and turning a
// planned diff.Op sequence into a stateexec.Statement stream. Each concrete
// dialect supplies a Flavor (how it quotes, how it folds case, its handful
// of genuinely divergent clauses) and gets the rest for free — mirroring how
// sqldef's schema.Generator shares one GenerateIdempotentDDLs body across
// GeneratorMode values and isolates the per-database differences behind
// small per-mode branches rather than four independent generators.
package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateexec"
)

// Flavor is the per-dialect hook set Base needs. Every field has a sensible
// ANSI-ish default a dialect can leave unset except QuoteIdent, which is
// mandatory.
type Flavor struct {
	// QuoteIdent quotes a single identifier; required.
	QuoteIdent func(string) string

	// FoldCase canonicalizes an unquoted identifier for comparison purposes
	// (e.g. MySQL lower-cases table names on case-insensitive filesystems).
	// Nil means no folding.
	FoldCase func(string) string

	// BatchSeparator is returned verbatim by Dialect.BatchSeparator.
	BatchSeparator string

	// RenameTableSQL renders a table rename; most dialects use
	// ALTER TABLE ... RENAME TO ..., but MySQL's is RENAME TABLE ... TO ... .
	RenameTableSQL func(f *Flavor, from, to ir.QualifiedName) string

	// AlterColumnSQL renders the ALTER TABLE clauses for a changed column,
	// given its already-merged new shape. ok=false means this dialect cannot
	// express the change via ALTER and the caller (sqlite) must rebuild the
	// table instead.
	AlterColumnSQL func(f *Flavor, table ir.QualifiedName, col ir.Column, changes []diff.ColumnChange) (stmts []string, ok bool)

	// AddColumnAfterClause renders the trailing " AFTER col" clause MySQL's
	// positional ADD COLUMN takes; nil (the default) means no clause, which
	// is correct for every dialect except MySQL.
	AddColumnAfterClause func(after *ir.Identifier) string

	// AutoIncrementClause renders a column's Identity as an inline column
	// clause (MySQL's AUTO_INCREMENT, SQLite's AUTOINCREMENT); empty string
	// for dialects that use a separate GENERATED ... AS IDENTITY clause
	// instead (handled generically in ColumnDefSQL).
	AutoIncrementClause func(id *ir.Identity) string

	// SupportsTransactionalDDL reports whether CREATE/ALTER/DROP statements
	// this flavor emits should be wrapped in a transaction by the executor;
	// MySQL DDL auto-commits so it answers false.
	SupportsTransactionalDDL bool
}

// Qi quotes ident through the flavor's QuoteIdent.
func (f *Flavor) Qi(ident string) string { return f.QuoteIdent(ident) }

// QName renders a possibly schema-qualified name, quoting each part.
func (f *Flavor) QName(q ir.QualifiedName) string {
	if q.HasSchema() {
		return f.Qi(q.Schema.Value) + "." + f.Qi(q.Name.Value)
	}
	return f.Qi(q.Name.Value)
}

func (f *Flavor) renameTableSQL(from, to ir.QualifiedName) string {
	if f.RenameTableSQL != nil {
		return f.RenameTableSQL(f, from, to)
	}
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", f.QName(from), f.Qi(to.Name.Value))
}

// sqlStmt is a small constructor so call sites read as one line.
func sqlStmt(text string, transactional bool) stateexec.Sql {
	return stateexec.Sql{SQL: text, Transactional: transactional}
}

// --- Expression rendering ---------------------------------------------------

// RenderExpr walks the expression algebra back into SQL text. Raw and
// opaque-subquery text is emitted verbatim; everything else is reconstructed
// structurally, since the IR carries no original source span for it.
func RenderExpr(e ir.Expr) string {
	switch e.Kind {
	case ir.ExprLiteral:
		return RenderValue(e.Literal)
	case ir.ExprIdent, ir.ExprQualifiedIdent:
		return e.Ident.String()
	case ir.ExprNull:
		return "NULL"
	case ir.ExprRaw:
		return e.Raw
	case ir.ExprBinary:
		return fmt.Sprintf("(%s %s %s)", RenderExpr(*e.Left), e.Op, RenderExpr(*e.Right))
	case ir.ExprUnary:
		return fmt.Sprintf("(%s%s)", e.Op, RenderExpr(*e.Operand))
	case ir.ExprComparison:
		rhs := RenderExpr(*e.Right)
		switch e.Quantify {
		case ir.SetQuantifierAny:
			rhs = "ANY(" + rhs + ")"
		case ir.SetQuantifierAll:
			rhs = "ALL(" + rhs + ")"
		case ir.SetQuantifierSome:
			rhs = "SOME(" + rhs + ")"
		}
		return fmt.Sprintf("(%s %s %s)", RenderExpr(*e.Left), e.Op, rhs)
	case ir.ExprLogicalAnd:
		return fmt.Sprintf("(%s AND %s)", RenderExpr(*e.Left), RenderExpr(*e.Right))
	case ir.ExprLogicalOr:
		return fmt.Sprintf("(%s OR %s)", RenderExpr(*e.Left), RenderExpr(*e.Right))
	case ir.ExprLogicalNot:
		return fmt.Sprintf("(NOT %s)", RenderExpr(*e.Not))
	case ir.ExprIsTest:
		not := ""
		if e.IsNot {
			not = "NOT "
		}
		return fmt.Sprintf("(%s IS %s%s)", RenderExpr(*e.Operand), not, e.IsWhat)
	case ir.ExprBetween:
		not := ""
		if e.BetweenNot {
			not = "NOT "
		}
		return fmt.Sprintf("(%s %sBETWEEN %s AND %s)", RenderExpr(*e.Operand), not, RenderExpr(*e.BetweenLow), RenderExpr(*e.BetweenHigh))
	case ir.ExprIn:
		not := ""
		if e.InNot {
			not = "NOT "
		}
		return fmt.Sprintf("(%s %sIN (%s))", RenderExpr(*e.Operand), not, renderExprList(e.InList))
	case ir.ExprParen:
		return "(" + renderExprList(e.Items) + ")"
	case ir.ExprTuple:
		return "(" + renderExprList(e.Items) + ")"
	case ir.ExprArrayConstructor:
		return "ARRAY[" + renderExprList(e.Items) + "]"
	case ir.ExprFuncCall:
		args := renderExprList(e.FuncArgs)
		distinct := ""
		if e.Distinct {
			distinct = "DISTINCT "
		}
		call := fmt.Sprintf("%s(%s%s)", e.FuncName, distinct, args)
		if e.Window != nil {
			call += " OVER (" + renderWindow(e.Window) + ")"
		}
		return call
	case ir.ExprCast:
		return fmt.Sprintf("CAST(%s AS %s)", RenderExpr(*e.Operand), e.CastType)
	case ir.ExprCollate:
		return fmt.Sprintf("%s COLLATE %s", RenderExpr(*e.Operand), e.Collation)
	case ir.ExprCase:
		var b strings.Builder
		b.WriteString("CASE")
		if e.CaseOperand != nil {
			b.WriteString(" " + RenderExpr(*e.CaseOperand))
		}
		for _, w := range e.CaseWhens {
			fmt.Fprintf(&b, " WHEN %s THEN %s", RenderExpr(w.When), RenderExpr(w.Then))
		}
		if e.CaseElse != nil {
			b.WriteString(" ELSE " + RenderExpr(*e.CaseElse))
		}
		b.WriteString(" END")
		return b.String()
	case ir.ExprExists:
		return "EXISTS (" + e.Subquery + ")"
	default:
		return ""
	}
}

func renderExprList(items []ir.Expr) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = RenderExpr(it)
	}
	return strings.Join(parts, ", ")
}

func renderWindow(w *ir.WindowSpec) string {
	var parts []string
	if len(w.PartitionBy) > 0 {
		parts = append(parts, "PARTITION BY "+renderExprList(w.PartitionBy))
	}
	if len(w.OrderBy) > 0 {
		parts = append(parts, "ORDER BY "+renderExprList(w.OrderBy))
	}
	return strings.Join(parts, " ")
}

// RenderValue renders a literal. Raw is preferred when present so that
// source formatting (hex/bit literal spelling, numeric precision) round-trips.
func RenderValue(v ir.Value) string {
	if v.Raw != "" {
		return v.Raw
	}
	switch v.Type {
	case ir.ValueTypeString:
		return "'" + strings.ReplaceAll(v.StrVal, "'", "''") + "'"
	case ir.ValueTypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case ir.ValueTypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	case ir.ValueTypeHexNum:
		return "0x" + v.StrVal
	case ir.ValueTypeHex:
		return "x'" + v.StrVal + "'"
	case ir.ValueTypeBit:
		return "b'" + v.StrVal + "'"
	case ir.ValueTypeBool:
		if v.BoolVal {
			return "true"
		}
		return "false"
	default:
		return v.StrVal
	}
}
