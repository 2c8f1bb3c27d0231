package ir

// Expr is the algebraic expression tree: literal |
// identifier | qualified identifier | null | raw string | binary op |
// unary op | comparison (with set quantifier) | logical and/or/not | IS
// test | between | in | paren | tuple | function call | cast | collate |
// case | array constructor | exists(subquery). Equality is structural
// (Expr.Equal); the equivalence package layers relaxations on top.
//
// Closed sum modeled as a tagged variant rather than an interface: unlike
// the dialect set (open, interface-based — see dialect.Dialect), the
// expression grammar is fixed by this specification, so every switch over
// ExprKind is expected to be exhaustive and a new kind should break every
// caller until handled.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprIdent
	ExprQualifiedIdent
	ExprNull
	ExprRaw
	ExprBinary
	ExprUnary
	ExprComparison
	ExprLogicalAnd
	ExprLogicalOr
	ExprLogicalNot
	ExprIsTest
	ExprBetween
	ExprIn
	ExprParen
	ExprTuple
	ExprFuncCall
	ExprCast
	ExprCollate
	ExprCase
	ExprArrayConstructor
	ExprExists
)

// SetQuantifier distinguishes ANY/ALL/SOME on a comparison's right-hand
// side; SetQuantifierNone means a plain scalar comparison.
type SetQuantifier int

const (
	SetQuantifierNone SetQuantifier = iota
	SetQuantifierAny
	SetQuantifierAll
	SetQuantifierSome
)

// WindowSpec is the optional OVER(...) clause on a function call. It is
// carried structurally only far enough to compare equality; stateql does
// not evaluate window semantics.
type WindowSpec struct {
	PartitionBy []Expr
	OrderBy     []Expr
}

func (w *WindowSpec) equal(o *WindowSpec) bool {
	if w == nil || o == nil {
		return w == o
	}
	if len(w.PartitionBy) != len(o.PartitionBy) || len(w.OrderBy) != len(o.OrderBy) {
		return false
	}
	for i := range w.PartitionBy {
		if !w.PartitionBy[i].Equal(o.PartitionBy[i]) {
			return false
		}
	}
	for i := range w.OrderBy {
		if !w.OrderBy[i].Equal(o.OrderBy[i]) {
			return false
		}
	}
	return true
}

// CaseBranch is one WHEN/THEN pair of a CASE expression.
type CaseBranch struct {
	When Expr
	Then Expr
}

// Expr is an immutable expression node. Only the fields relevant to Kind
// are populated; all others are the zero value. This condenses a single
// `Expr` interface with many concrete types into one struct, because
// stateql's diff engine only ever needs structural equality and textual
// re-rendering, never typechecking.
type Expr struct {
	Kind ExprKind

	// ExprLiteral
	Literal Value

	// ExprIdent / ExprQualifiedIdent
	Ident QualifiedName

	// ExprRaw: opaque dialect-specific text the engine treats atomically.
	Raw string

	// ExprBinary / ExprUnary / ExprComparison
	Op       string
	Left     *Expr
	Right    *Expr
	Operand  *Expr
	Quantify SetQuantifier

	// ExprLogicalNot
	Not *Expr

	// ExprIsTest: `<operand> IS <not> <what>`, e.g. IS NOT NULL, IS TRUE.
	IsNot  bool
	IsWhat string

	// ExprBetween
	BetweenNot  bool
	BetweenLow  *Expr
	BetweenHigh *Expr

	// ExprIn
	InNot  bool
	InList []Expr

	// ExprParen / ExprTuple / ExprArrayConstructor
	Items []Expr

	// ExprFuncCall
	FuncName string
	FuncArgs []Expr
	Distinct bool
	Window   *WindowSpec

	// ExprCast
	CastType string

	// ExprCollate
	Collation string

	// ExprCase
	CaseOperand *Expr
	CaseWhens   []CaseBranch
	CaseElse    *Expr

	// ExprExists
	Subquery string // opaque subquery text; stateql never plans across it
}

// Null is the shared singleton for the NULL literal expression.
var Null = Expr{Kind: ExprNull}

// Equal is strict structural equality over the expression tree. It is the
// baseline the equivalence package's policy.IsEquivalentExpr is layered on
// top of (see equivalence.ExprsEquivalent): strict equality always implies
// equivalence, so a dialect policy can only add equivalences, never remove
// them.
func (e Expr) Equal(o Expr) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case ExprLiteral:
		return e.Literal.Equal(o.Literal)
	case ExprIdent, ExprQualifiedIdent:
		return e.Ident.Equal(o.Ident)
	case ExprNull:
		return true
	case ExprRaw:
		return e.Raw == o.Raw
	case ExprBinary:
		return e.Op == o.Op && exprPtrEqual(e.Left, o.Left) && exprPtrEqual(e.Right, o.Right)
	case ExprUnary:
		return e.Op == o.Op && exprPtrEqual(e.Operand, o.Operand)
	case ExprComparison:
		return e.Op == o.Op && e.Quantify == o.Quantify &&
			exprPtrEqual(e.Left, o.Left) && exprPtrEqual(e.Right, o.Right)
	case ExprLogicalAnd, ExprLogicalOr:
		return exprPtrEqual(e.Left, o.Left) && exprPtrEqual(e.Right, o.Right)
	case ExprLogicalNot:
		return exprPtrEqual(e.Not, o.Not)
	case ExprIsTest:
		return e.IsNot == o.IsNot && e.IsWhat == o.IsWhat && exprPtrEqual(e.Operand, o.Operand)
	case ExprBetween:
		return e.BetweenNot == o.BetweenNot &&
			exprPtrEqual(e.Operand, o.Operand) &&
			exprPtrEqual(e.BetweenLow, o.BetweenLow) &&
			exprPtrEqual(e.BetweenHigh, o.BetweenHigh)
	case ExprIn:
		return e.InNot == o.InNot && exprPtrEqual(e.Operand, o.Operand) && exprSliceEqual(e.InList, o.InList)
	case ExprParen:
		return exprSliceEqual(e.Items, o.Items)
	case ExprTuple, ExprArrayConstructor:
		return exprSliceEqual(e.Items, o.Items)
	case ExprFuncCall:
		return e.FuncName == o.FuncName && e.Distinct == o.Distinct &&
			exprSliceEqual(e.FuncArgs, o.FuncArgs) && e.Window.equal(o.Window)
	case ExprCast:
		return e.CastType == o.CastType && exprPtrEqual(e.Operand, o.Operand)
	case ExprCollate:
		return e.Collation == o.Collation && exprPtrEqual(e.Operand, o.Operand)
	case ExprCase:
		if !exprPtrEqual(e.CaseOperand, o.CaseOperand) || !exprPtrEqual(e.CaseElse, o.CaseElse) {
			return false
		}
		if len(e.CaseWhens) != len(o.CaseWhens) {
			return false
		}
		for i := range e.CaseWhens {
			if !e.CaseWhens[i].When.Equal(o.CaseWhens[i].When) || !e.CaseWhens[i].Then.Equal(o.CaseWhens[i].Then) {
				return false
			}
		}
		return true
	case ExprExists:
		return e.Subquery == o.Subquery
	default:
		return false
	}
}

func exprPtrEqual(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func exprSliceEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
