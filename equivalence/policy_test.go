package equivalence

import (
	"testing"

	"github.com/sqldef/stateql/ir"
)

func TestStrictPolicyRejectsDifferentLiterals(t *testing.T) {
	a := ir.Expr{Kind: ir.ExprLiteral, Literal: ir.Value{Type: ir.ValueTypeInt, IntVal: 0}}
	b := ir.Expr{Kind: ir.ExprRaw, Raw: "0"}
	if Strict.IsEquivalentExpr(a, b) {
		t.Fatal("strict policy must not equate a typed literal with a raw token")
	}
}

func TestExprsEquivalentDelegatesOnlyOnStrictMismatch(t *testing.T) {
	a := ir.Expr{Kind: ir.ExprRaw, Raw: "x"}
	calls := 0
	p := fnPolicy{expr: func(l, r ir.Expr) bool { calls++; return true }}
	if !ExprsEquivalent(p, a, a) {
		t.Fatal("strict equality should short-circuit")
	}
	if calls != 0 {
		t.Fatalf("policy should not be consulted when strict equality already holds, got %d calls", calls)
	}
}

type fnPolicy struct {
	expr func(l, r ir.Expr) bool
	typ  func(l, r string) bool
}

func (fnPolicy) Name() string { return "fn" }
func (p fnPolicy) IsEquivalentExpr(l, r ir.Expr) bool {
	if p.expr == nil {
		return false
	}
	return p.expr(l, r)
}
func (p fnPolicy) IsEquivalentCustomType(l, r string) bool {
	if p.typ == nil {
		return false
	}
	return p.typ(l, r)
}

func TestVerifyDetectsAsymmetry(t *testing.T) {
	asym := fnPolicy{expr: func(l, r ir.Expr) bool {
		return l.Raw == "a" && r.Raw == "b" // true one way, false the other
	}}
	pair := ExprPair{Left: ir.Expr{Kind: ir.ExprRaw, Raw: "a"}, Right: ir.Expr{Kind: ir.ExprRaw, Raw: "b"}}
	res := Verify(asym, []ExprPair{pair}, nil)
	if res.OK() || res.Kind != FailureExprNotSymmetric {
		t.Fatalf("expected asymmetry failure, got %+v", res)
	}
}

func TestVerifyPassesOnStrictPolicy(t *testing.T) {
	pair := ExprPair{
		Left:  ir.Expr{Kind: ir.ExprRaw, Raw: "a"},
		Right: ir.Expr{Kind: ir.ExprRaw, Raw: "a"},
	}
	typ := TypePair{Left: "int", Right: "int"}
	res := Verify(Strict, []ExprPair{pair}, []TypePair{typ})
	if !res.OK() {
		t.Fatalf("expected strict policy to pass its own examples, got %+v", res)
	}
}
