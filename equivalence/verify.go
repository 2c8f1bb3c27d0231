package equivalence

import "github.com/sqldef/stateql/ir"

// FailureKind names which contract a Verify call found broken.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureExprNotSymmetric
	FailureExprNotStable
	FailureCustomTypeNotSymmetric
	FailureCustomTypeNotStable
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureExprNotSymmetric:
		return "expr equivalence is not symmetric"
	case FailureExprNotStable:
		return "expr equivalence is not stable across repeated calls"
	case FailureCustomTypeNotSymmetric:
		return "custom type equivalence is not symmetric"
	case FailureCustomTypeNotStable:
		return "custom type equivalence is not stable across repeated calls"
	default:
		return "unknown"
	}
}

// ExprPair and TypePair are caller-supplied example pairs fed through
// Verify in both directions, twice, to check symmetry and stability.
type ExprPair struct{ Left, Right ir.Expr }
type TypePair struct{ Left, Right string }

// Result reports the first contract violation found, if any, across all
// supplied pairs. PairIndex is the index into the pairs slice that
// failed (ExprPairs checked before TypePairs, i.e. indices < len(exprs)
// are expr-pair indices and the rest are type-pair indices offset by
// len(exprs)).
type Result struct {
	Kind          FailureKind
	PairIndex     int
}

// Verify exercises policy against the supplied examples. It returns the
// first failure found, or a zero-value Result with Kind == FailureNone if
// every pair passes.
func Verify(policy Policy, exprs []ExprPair, types []TypePair) Result {
	for i, p := range exprs {
		fwd1 := policy.IsEquivalentExpr(p.Left, p.Right)
		bwd1 := policy.IsEquivalentExpr(p.Right, p.Left)
		if fwd1 != bwd1 {
			return Result{Kind: FailureExprNotSymmetric, PairIndex: i}
		}
		fwd2 := policy.IsEquivalentExpr(p.Left, p.Right)
		bwd2 := policy.IsEquivalentExpr(p.Right, p.Left)
		if fwd1 != fwd2 || bwd1 != bwd2 {
			return Result{Kind: FailureExprNotStable, PairIndex: i}
		}
	}
	for i, p := range types {
		fwd1 := policy.IsEquivalentCustomType(p.Left, p.Right)
		bwd1 := policy.IsEquivalentCustomType(p.Right, p.Left)
		if fwd1 != bwd1 {
			return Result{Kind: FailureCustomTypeNotSymmetric, PairIndex: len(exprs) + i}
		}
		fwd2 := policy.IsEquivalentCustomType(p.Left, p.Right)
		bwd2 := policy.IsEquivalentCustomType(p.Right, p.Left)
		if fwd1 != fwd2 || bwd1 != bwd2 {
			return Result{Kind: FailureCustomTypeNotStable, PairIndex: len(exprs) + i}
		}
	}
	return Result{Kind: FailureNone}
}

// OK reports whether Verify found no violation.
func (r Result) OK() bool { return r.Kind == FailureNone }
