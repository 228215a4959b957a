// Package coverage implements C2 — the pattern coverage analyzer.
// Grounded on the teacher's internal/dtree (matrix-of-patterns
// decision-tree compilation) and internal/elaborate/exhaustiveness.go
// (universe/subtract exhaustiveness check), generalized so the
// constructor universe for an ADT scrutinee is looked up from a
// declared types.TypeEnv instead of special-casing Bool, and extended
// to cover EffectRow scrutinees (row-label universe plus tail).
package coverage

import (
	"fmt"
	"sort"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/types"
)

// Result is the report spec.md §4.2 requires for one match expression.
type Result struct {
	MissingConstructors []string
	RedundantArms       []int
	CoveredConstructors []string
	CoversTail          bool
	DischargesResult    bool
	RemainingRow        *types.EffectRow
}

// Analyze inspects arms against scrutineeType and returns the coverage
// report plus any hard diagnostics (duplicate_variable,
// non_exhaustive_match).
func Analyze(tenv *types.TypeEnv, scrutineeType types.Type, arms []ast.MatchArm) (*Result, []*diag.Report) {
	var reports []*diag.Report
	for _, arm := range arms {
		if dup := findDuplicateBinding(arm.Pattern, map[string]bool{}); dup != "" {
			reports = append(reports, diag.New(diag.INF003, diag.PhaseCoverage, diag.ReasonDuplicateVariable,
				arm.Pattern.Id(), arm.Pattern.Span(),
				fmt.Sprintf("variable %q bound more than once in pattern", dup), nil))
		}
	}

	universe := buildUniverse(tenv, scrutineeType)
	res := &Result{RemainingRow: effectRowOf(scrutineeType)}

	covered := map[string]bool{}
	remaining := cloneUniverse(universe)

	for i, arm := range arms {
		labels := expand(arm.Pattern)
		if isWildcardLabels(labels) {
			res.CoversTail = true
		}
		subsumedAll := true
		for _, l := range labels {
			if l == wildcardLabel {
				if len(remaining) > 0 {
					subsumedAll = false
				}
				remaining = map[string]bool{}
				covered[wildcardLabel] = true
				continue
			}
			if !covered[l] && !covered[wildcardLabel] {
				subsumedAll = false
			}
			delete(remaining, l)
			covered[l] = true
		}
		// An arm is redundant only when everything it could match was
		// already fully covered by strictly earlier arms: a bare `_` arm
		// preceded by another `_` or by a complete constructor set, a
		// constructor an earlier arm already matched, or any arm after `_`.
		if i > 0 && subsumedAll {
			res.RedundantArms = append(res.RedundantArms, i)
		}
	}

	for l := range covered {
		if l != wildcardLabel {
			res.CoveredConstructors = append(res.CoveredConstructors, l)
		}
	}
	sort.Strings(res.CoveredConstructors)

	if !res.CoversTail {
		for l := range remaining {
			if l != wildcardLabel {
				res.MissingConstructors = append(res.MissingConstructors, l)
			}
		}
		sort.Strings(res.MissingConstructors)
	}

	if row, ok := scrutineeType.(*types.EffectRow); ok {
		res.DischargesResult = res.CoversTail || (row.Tail == nil && !row.HasTailWildcard && len(res.MissingConstructors) == 0)
		if res.DischargesResult {
			res.RemainingRow = &types.EffectRow{}
		}
	}

	if len(res.MissingConstructors) > 0 && !res.CoversTail {
		reports = append(reports, diag.New(diag.COV001, diag.PhaseCoverage, diag.ReasonNonExhaustiveMatch,
			arms[0].Pattern.Id(), arms[0].Pattern.Span(),
			fmt.Sprintf("non-exhaustive match: missing %v", res.MissingConstructors),
			map[string]any{"missing": res.MissingConstructors}))
	}

	return res, reports
}

const wildcardLabel = "_"

// buildUniverse returns the full set of labels a scrutinee type's
// values can take, or {wildcardLabel} when the type is infinite
// (numeric/string literals) or otherwise unknown.
func buildUniverse(tenv *types.TypeEnv, t types.Type) map[string]bool {
	u := map[string]bool{}
	switch t := t.(type) {
	case *types.Constructor:
		if info, ok := tenv.LookupType(t.Name); ok && len(info.Constructors) > 0 {
			for _, c := range info.Constructors {
				u[c.Name] = true
			}
			return u
		}
		u[wildcardLabel] = true
	case *types.EffectRow:
		for _, c := range t.Cases {
			u[c.Label] = true
		}
		if t.Tail != nil || t.HasTailWildcard {
			u[wildcardLabel] = true
		}
	case *types.Tuple, *types.Record, *types.TUnit:
		// A single virtual constructor of fixed arity: any one pattern
		// covers the whole universe.
		u[wildcardLabel] = true
	case *types.TBool:
		// Bool's universe is finite and declared, same as an ADT (spec.md
		// §4.2: "For ADTs and Bool, the universe is the declared
		// constructors").
		u["true"] = true
		u["false"] = true
	default:
		// Int/Char/String/Var/Unknown: infinite or unresolved, always
		// requires a catch-all.
		u[wildcardLabel] = true
	}
	return u
}

func cloneUniverse(u map[string]bool) map[string]bool {
	c := make(map[string]bool, len(u))
	for k := range u {
		c[k] = true
	}
	return c
}

func isWildcardLabels(labels []string) bool {
	return len(labels) == 1 && labels[0] == wildcardLabel
}

// expand returns the labels one top-level pattern covers: a
// constructor pattern covers just its own name, a wildcard/variable
// covers everything, a literal Bool covers true/false by value, other
// literals and structural patterns (tuple/record) cover the whole
// (infinite or single-shape) universe since C2 only discriminates on
// the scrutinee's head constructor/label, not nested shape.
func expand(p ast.Pattern) []string {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return []string{wildcardLabel}
	case *ast.VarPattern:
		return []string{wildcardLabel}
	case *ast.ConstructorPattern:
		return []string{p.Name}
	case *ast.LitPattern:
		if p.Kind == ast.LitBool {
			if b, ok := p.Value.(bool); ok {
				if b {
					return []string{"true"}
				}
				return []string{"false"}
			}
		}
		return []string{wildcardLabel}
	default:
		return []string{wildcardLabel}
	}
}

func effectRowOf(t types.Type) *types.EffectRow {
	if r, ok := t.(*types.EffectRow); ok {
		return r
	}
	return nil
}

// findDuplicateBinding walks a single pattern row depth-first looking
// for a variable name bound twice (e.g. `Pair(x, x)`), returning that
// name, or "" if none.
func findDuplicateBinding(p ast.Pattern, seen map[string]bool) string {
	switch p := p.(type) {
	case *ast.VarPattern:
		if seen[p.Name] {
			return p.Name
		}
		seen[p.Name] = true
	case *ast.ConstructorPattern:
		for _, a := range p.Args {
			if dup := findDuplicateBinding(a, seen); dup != "" {
				return dup
			}
		}
	case *ast.TuplePattern:
		for _, e := range p.Elements {
			if dup := findDuplicateBinding(e, seen); dup != "" {
				return dup
			}
		}
	case *ast.RecordPattern:
		for _, f := range p.Fields {
			if dup := findDuplicateBinding(f.Pattern, seen); dup != "" {
				return dup
			}
		}
	}
	return ""
}
