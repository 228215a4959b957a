package types

import "strings"

// Scheme is a let-bound type scheme: a type with a set of variables
// quantified over it (spec.md §4.1 generalize/instantiate). Quantified
// is sorted so String() is deterministic across runs.
type Scheme struct {
	Quantified []uint64
	Body       Type
}

func (s *Scheme) String() string {
	if len(s.Quantified) == 0 {
		return s.Body.String()
	}
	names := make([]string, len(s.Quantified))
	for i, v := range s.Quantified {
		names[i] = (&Var{ID: v}).String()
	}
	return "forall " + strings.Join(names, " ") + ". " + s.Body.String()
}

// Mono wraps a type with no quantified variables, the scheme shape
// every lambda parameter and case-arm binding receives (spec.md §4.1:
// "only let-bindings are generalized").
func Mono(t Type) *Scheme {
	return &Scheme{Body: t}
}

// FreeVars collects the free unification-variable ids of a type,
// including the row-tail variables of records and effect rows.
func FreeVars(t Type, out map[uint64]bool) {
	switch t := t.(type) {
	case *Var:
		out[t.ID] = true
	case *Func:
		FreeVars(t.From, out)
		FreeVars(t.To, out)
	case *Tuple:
		for _, e := range t.Elements {
			FreeVars(e, out)
		}
	case *Record:
		for _, f := range t.Fields {
			FreeVars(f.Type, out)
		}
		if t.Row != nil {
			out[t.Row.ID] = true
		}
	case *Constructor:
		for _, a := range t.Args {
			FreeVars(a, out)
		}
	case *Array:
		FreeVars(t.Element, out)
	case *EffectRow:
		for _, c := range t.Cases {
			if c.Payload != nil {
				FreeVars(c.Payload, out)
			}
		}
		if t.Tail != nil {
			out[t.Tail.ID] = true
		}
	}
}

// freeVarsEnv collects the free variables of everything an environment
// binds, used so generalize does not quantify over a variable still
// constrained by an enclosing scope.
func freeVarsEnv(env *ValueEnv) map[uint64]bool {
	out := map[uint64]bool{}
	for env != nil {
		for _, sch := range env.bindings {
			for _, q := range sch.Quantified {
				delete(out, q) // quantified vars of an enclosing scheme are not free there
			}
			FreeVars(sch.Body, out)
			for _, q := range sch.Quantified {
				delete(out, q)
			}
		}
		env = env.parent
	}
	return out
}

// Generalize closes over every free variable of t not free in env,
// producing a let-polymorphic scheme (spec.md §4.1). Callers apply the
// value restriction themselves: generalize is only invoked for
// syntactic values.
func Generalize(env *ValueEnv, t Type) *Scheme {
	free := map[uint64]bool{}
	FreeVars(t, free)
	bound := freeVarsEnv(env)
	quantified := make([]uint64, 0, len(free))
	for id := range free {
		if !bound[id] {
			quantified = append(quantified, id)
		}
	}
	sortUint64(quantified)
	return &Scheme{Quantified: quantified, Body: t}
}

// Instantiate replaces a scheme's quantified variables with fresh
// unification variables, producing a monotype usable at a single call
// site (spec.md §4.1).
func Instantiate(s *Scheme, fresh func() uint64) Type {
	if len(s.Quantified) == 0 {
		return s.Body
	}
	sub := Substitution{}
	for _, q := range s.Quantified {
		sub[q] = &Var{ID: fresh()}
	}
	return ApplySubstitution(sub, s.Body)
}

func sortUint64(xs []uint64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
