// Package equivalence implements the pluggable expression & custom-type
// equivalence policy: strict structural equality by default; a Policy can
// only add equivalences on top of that, never remove them. The package
// supplies Strict only, and every dialect in this module returns Strict,
// so no dialect-specific relaxation is applied.
package equivalence

import "github.com/sqldef/stateql/ir"

// Policy is implemented once per dialect and shared by reference — it
// must outlive any single diff run and be safe for concurrent read access
//. Both methods must
// be symmetric and stable (pure): IsEquivalentExpr(a, b) ==
// IsEquivalentExpr(b, a), always, and calling either method twice on the
// same pair yields the same result.
type Policy interface {
	// Name identifies the policy for diagnostics, e.g. "postgres-strict".
	Name() string
	IsEquivalentExpr(left, right ir.Expr) bool
	IsEquivalentCustomType(left, right string) bool
}

// Strict is the default policy: structural equality only, no relaxations.
// Dialects that have nothing special to add can embed this directly.
var Strict Policy = strictPolicy{}

type strictPolicy struct{}

func (strictPolicy) Name() string { return "strict" }
func (strictPolicy) IsEquivalentExpr(left, right ir.Expr) bool {
	return left.Equal(right)
}
func (strictPolicy) IsEquivalentCustomType(left, right string) bool {
	return left == right
}

// ExprsEquivalent checks strict structural equality first and only
// delegates to the policy if that fails, guaranteeing the policy can only
// add equivalences.
func ExprsEquivalent(policy Policy, left, right ir.Expr) bool {
	if left.Equal(right) {
		return true
	}
	if policy == nil {
		return false
	}
	return policy.IsEquivalentExpr(left, right)
}

// CustomTypesEquivalent mirrors ExprsEquivalent for type names.
func CustomTypesEquivalent(policy Policy, left, right string) bool {
	if left == right {
		return true
	}
	if policy == nil {
		return false
	}
	return policy.IsEquivalentCustomType(left, right)
}
