package types

import "fmt"

// UnifyError reports why two types could not be unified. The solver
// (C4) turns this into a diag.Report with node/span context unify
// itself does not have.
type UnifyError struct {
	Reason string
	Left   Type
	Right  Type
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("%s: %s vs %s", e.Reason, e.Left.String(), e.Right.String())
}

// Unifier accumulates a substitution across a sequence of unify calls,
// grounded on the teacher's types/unification.go Unifier which
// threads one substitution through an entire inference pass rather
// than returning a fresh one from every call.
type Unifier struct {
	Sub Substitution

	// freshRowVar mints a new unification-variable id when row
	// unification needs a tail shared by both sides (two open rows
	// each extended with the other's unique fields close over the same
	// variable, not over either side's original tail).
	freshRowVar func() uint64
}

// NewUnifier returns an empty unifier whose row unification mints new
// tail variables from freshRowVar — the same fresh-variable supplier
// (typically a pipelinectx.Context's NextVar) the rest of a pipeline
// run uses, so ids never collide with the program's own variables.
func NewUnifier(freshRowVar func() uint64) *Unifier {
	return &Unifier{Sub: Substitution{}, freshRowVar: freshRowVar}
}

func (u *Unifier) resolve(t Type) Type {
	return ApplySubstitution(u.Sub, t)
}

func (u *Unifier) bind(id uint64, t Type) error {
	if v, ok := t.(*Var); ok && v.ID == id {
		return nil
	}
	if occursIn(id, t) {
		return &UnifyError{Reason: "occurs_cycle", Left: &Var{ID: id}, Right: t}
	}
	u.Sub[id] = t
	return nil
}

func occursIn(id uint64, t Type) bool {
	switch t := t.(type) {
	case *Var:
		return t.ID == id
	case *Func:
		return occursIn(id, t.From) || occursIn(id, t.To)
	case *Tuple:
		for _, e := range t.Elements {
			if occursIn(id, e) {
				return true
			}
		}
		return false
	case *Record:
		for _, f := range t.Fields {
			if occursIn(id, f.Type) {
				return true
			}
		}
		return t.Row != nil && t.Row.ID == id
	case *Constructor:
		for _, a := range t.Args {
			if occursIn(id, a) {
				return true
			}
		}
		return false
	case *Array:
		return occursIn(id, t.Element)
	case *EffectRow:
		for _, c := range t.Cases {
			if c.Payload != nil && occursIn(id, c.Payload) {
				return true
			}
		}
		return t.Tail != nil && t.Tail.ID == id
	default:
		return false
	}
}

// Unify unifies a and b under the unifier's accumulated substitution,
// implementing spec.md §4.1's ten-case algorithm: var/var, var/T,
// T/var, matching nullary primitives, Func/Func (contravariant-free,
// both sides same direction since the language has no subtyping),
// Tuple/Tuple (arity must match), Constructor/Constructor (name and
// arity must match, args unify pairwise), Array/Array (length must
// match), Record/Record (delegated to row unification), EffectRow/
// EffectRow (delegated to row unification), and the catch-all mismatch.
func (u *Unifier) Unify(a, b Type) error {
	a = u.resolve(a)
	b = u.resolve(b)

	if Equal(a, b) {
		return nil
	}

	if av, ok := a.(*Var); ok {
		return u.bind(av.ID, b)
	}
	if bv, ok := b.(*Var); ok {
		return u.bind(bv.ID, a)
	}

	// Unknown holes unify with anything without constraining it; the
	// solver decides hole classification separately from plain unify.
	if _, ok := a.(*Unknown); ok {
		return nil
	}
	if _, ok := b.(*Unknown); ok {
		return nil
	}

	switch av := a.(type) {
	case *TUnit:
		if _, ok := b.(*TUnit); ok {
			return nil
		}
	case *TInt:
		if _, ok := b.(*TInt); ok {
			return nil
		}
	case *TBool:
		if _, ok := b.(*TBool); ok {
			return nil
		}
	case *TChar:
		if _, ok := b.(*TChar); ok {
			return nil
		}
	case *TString:
		if _, ok := b.(*TString); ok {
			return nil
		}
	case *Func:
		bv, ok := b.(*Func)
		if !ok {
			return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
		}
		if err := u.Unify(av.From, bv.From); err != nil {
			return err
		}
		return u.Unify(u.resolve(av.To), u.resolve(bv.To))
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok {
			return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
		}
		if len(av.Elements) != len(bv.Elements) {
			return &UnifyError{Reason: "arity_mismatch", Left: a, Right: b}
		}
		for i := range av.Elements {
			if err := u.Unify(u.resolve(av.Elements[i]), u.resolve(bv.Elements[i])); err != nil {
				return err
			}
		}
		return nil
	case *Constructor:
		bv, ok := b.(*Constructor)
		if !ok || bv.Name != av.Name || len(bv.Args) != len(av.Args) {
			return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
		}
		for i := range av.Args {
			if err := u.Unify(u.resolve(av.Args[i]), u.resolve(bv.Args[i])); err != nil {
				return err
			}
		}
		return nil
	case *Array:
		bv, ok := b.(*Array)
		if !ok || bv.Length != av.Length {
			return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
		}
		return u.Unify(av.Element, bv.Element)
	case *Record:
		bv, ok := b.(*Record)
		if !ok {
			return &UnifyError{Reason: "not_record", Left: a, Right: b}
		}
		return u.unifyRecordRow(av, bv)
	case *EffectRow:
		bv, ok := b.(*EffectRow)
		if !ok {
			return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
		}
		return u.unifyEffectRow(av, bv)
	}
	return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
}
