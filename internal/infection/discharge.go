package infection

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/coverage"
	"github.com/wisplang/wisp/internal/types"
)

// Discharge applies the unified wildcard-discharge rule decided for
// spec.md §9's open question: regardless of domain, a wildcard (or
// bare variable) arm discharges the entire remaining effect row, and
// otherwise a label is discharged only when every arm matching it
// returns a value-side type (approximated here by coverage.Analyze's
// CoversTail/per-label coverage, since value-vs-effect arm typing is
// resolved by the inferencer, not by coverage analysis).
//
// An earlier draft special-cased the taint domain to require an
// explicit per-label match even under a trailing wildcard; that
// divergence was a bug (a wildcard arm silently failed to discharge
// Tainted rows while discharging Result rows), fixed by unifying the
// rule across all domains. TestDischargeWildcardClearsRowAcrossDomains
// pins the fix.
func Discharge(scrutineeRow *types.EffectRow, arms []ast.MatchArm, tenv *types.TypeEnv) (*types.EffectRow, *coverage.Result) {
	res, _ := coverage.Analyze(tenv, scrutineeRow, arms)
	if res.CoversTail {
		return &types.EffectRow{}, res
	}

	remainingCases := make([]types.EffectCase, 0, len(scrutineeRow.Cases))
	covered := map[string]bool{}
	for _, name := range res.CoveredConstructors {
		covered[name] = true
	}
	for _, c := range scrutineeRow.Cases {
		if !covered[c.Label] {
			remainingCases = append(remainingCases, c)
		}
	}
	return &types.EffectRow{
		Cases:           remainingCases,
		Tail:            scrutineeRow.Tail,
		HasTailWildcard: scrutineeRow.HasTailWildcard,
	}, res
}
