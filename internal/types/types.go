// Package types implements C1 — the type representation and unifier.
// Grounded on the teacher's internal/types/{types.go,types_v2.go}: the
// tagged-union Type interface and the *TVar2/*Row row-polymorphic
// shapes are kept, generalized to the exact Type sum spec.md §3
// prescribes (a single curried Func, a standalone EffectRow variant
// used as an ordinary value type rather than an annotation on Func,
// and an Unknown hole variant the teacher has no analogue for).
package types

import (
	"fmt"
	"strings"
)

// Type is the tagged union described in spec.md §3. Every variant is a
// pointer type satisfying this interface.
type Type interface {
	String() string
	isType()
}

// Unit, Int, Bool, Char, String are the primitive nullary types.
type (
	TUnit   struct{}
	TInt    struct{}
	TBool   struct{}
	TChar   struct{}
	TString struct{}
)

func (*TUnit) isType()   {}
func (*TInt) isType()    {}
func (*TBool) isType()   {}
func (*TChar) isType()   {}
func (*TString) isType() {}

func (*TUnit) String() string   { return "Unit" }
func (*TInt) String() string    { return "Int" }
func (*TBool) String() string   { return "Bool" }
func (*TChar) String() string   { return "Char" }
func (*TString) String() string { return "String" }

// Singletons for the primitive types; unification compares by dynamic
// type, not identity, so sharing these is purely a convenience.
var (
	Unit   Type = &TUnit{}
	Int    Type = &TInt{}
	Bool   Type = &TBool{}
	Char   Type = &TChar{}
	Str    Type = &TString{}
)

// Var is a unification variable (always a monotype).
type Var struct {
	ID uint64
}

func (*Var) isType()        {}
func (v *Var) String() string { return fmt.Sprintf("t%d", v.ID) }

// Func is a single curried function arrow (spec.md §3: "Func{from,
// to} — curried function"). A surface `(a, b) -> c` is represented as
// Func{a, Func{b, c}}, matching how CallExpr applies one argument at a
// time.
type Func struct {
	From Type
	To   Type
}

func (*Func) isType() {}
func (f *Func) String() string {
	from := f.From.String()
	if _, ok := f.From.(*Func); ok {
		from = "(" + from + ")"
	}
	return fmt.Sprintf("%s -> %s", from, f.To.String())
}

// Tuple is a fixed-arity product type.
type Tuple struct {
	Elements []Type
}

func (*Tuple) isType() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RecordField is one labeled field of a Record. Order matters: spec.md
// §3 fixes field iteration order to declaration order because row
// solving over tuples/records depends on it.
type RecordField struct {
	Name string
	Type Type
}

// Record is a row-typed record. Row is nil for a closed record.
type Record struct {
	Fields []RecordField
	Row    *Var // open-record row variable, nil if closed
}

func (*Record) isType() {}

// FieldType looks up a field by name.
func (r *Record) FieldType(name string) (Type, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	if r.Row != nil {
		parts = append(parts, "..."+r.Row.String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Constructor is a user ADT or nominal primitive (List<_>, Option<_>,
// Result<_,_>, Ptr<_,_>, ...).
type Constructor struct {
	Name string
	Args []Type
}

func (*Constructor) isType() {}
func (c *Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", c.Name, strings.Join(parts, ", "))
}

// Array is a fixed-length array type.
type Array struct {
	Length  int
	Element Type
}

func (*Array) isType() {}
func (a *Array) String() string {
	return fmt.Sprintf("[%s; %d]", a.Element.String(), a.Length)
}

// EffectCase is one labeled case of an EffectRow. Payload is nil for a
// bare label with no carried value.
type EffectCase struct {
	Label   string
	Payload Type // optional
}

// EffectRow is the row-polymorphic tagged sum used by the infection
// system (spec.md §3, §4.6). Tail, when non-nil, is a row variable the
// row can still be extended through; HasTailWildcard marks a row that
// absorbs any further label without constraint (an open "AllErrors"style
// wildcard row, spec.md §9).
type EffectRow struct {
	Cases           []EffectCase
	Tail            *Var
	HasTailWildcard bool
}

func (*EffectRow) isType() {}

// CaseType looks up a case by label.
func (r *EffectRow) CaseType(label string) (Type, bool) {
	for _, c := range r.Cases {
		if c.Label == label {
			return c.Payload, true
		}
	}
	return nil, false
}

// HasLabel reports whether label is present.
func (r *EffectRow) HasLabel(label string) bool {
	_, ok := r.CaseType(label)
	return ok
}

// IsEmpty reports whether the row carries no labels and has no open
// tail — the "no effect" sentinel used at function boundaries that
// fully discharge their effects.
func (r *EffectRow) IsEmpty() bool {
	return r == nil || (len(r.Cases) == 0 && r.Tail == nil && !r.HasTailWildcard)
}

func (r *EffectRow) String() string {
	labels := make([]string, len(r.Cases))
	for i, c := range r.Cases {
		if c.Payload != nil {
			labels[i] = fmt.Sprintf("%s(%s)", c.Label, c.Payload.String())
		} else {
			labels[i] = c.Label
		}
	}
	if r.HasTailWildcard {
		labels = append(labels, "...")
	} else if r.Tail != nil {
		labels = append(labels, "..."+r.Tail.String())
	}
	return "<" + strings.Join(labels, " | ") + ">"
}

// HoleCategory classifies why a hole exists (spec.md §3).
type HoleCategory string

const (
	HoleLocalConflict HoleCategory = "local_conflict"
	HoleUnfilled      HoleCategory = "unfilled"
	HoleExprHole      HoleCategory = "expr_hole"
	HoleUserHole       HoleCategory = "user_hole"
	HoleIncomplete     HoleCategory = "incomplete"
)

// Provenance records where/why a hole was created, for presentation.
type Provenance struct {
	NodeID uint64
	Reason string
}

// Unknown is an unfilled hole that may carry partial knowledge.
type Unknown struct {
	ID         uint64
	Category   HoleCategory
	Provenance Provenance
}

func (*Unknown) isType() {}
func (u *Unknown) String() string {
	return fmt.Sprintf("?%d", u.ID)
}

// Equal performs structural (not pointer) equality, used by unify's
// "already equal" short-circuit and by tests.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case *TUnit:
		_, ok := b.(*TUnit)
		return ok
	case *TInt:
		_, ok := b.(*TInt)
		return ok
	case *TBool:
		_, ok := b.(*TBool)
		return ok
	case *TChar:
		_, ok := b.(*TChar)
		return ok
	case *TString:
		_, ok := b.(*TString)
		return ok
	case *Var:
		o, ok := b.(*Var)
		return ok && a.ID == o.ID
	case *Func:
		o, ok := b.(*Func)
		return ok && Equal(a.From, o.From) && Equal(a.To, o.To)
	case *Tuple:
		o, ok := b.(*Tuple)
		if !ok || len(a.Elements) != len(o.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], o.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		o, ok := b.(*Record)
		if !ok || len(a.Fields) != len(o.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != o.Fields[i].Name || !Equal(a.Fields[i].Type, o.Fields[i].Type) {
				return false
			}
		}
		if (a.Row == nil) != (o.Row == nil) {
			return false
		}
		if a.Row != nil && a.Row.ID != o.Row.ID {
			return false
		}
		return true
	case *Constructor:
		o, ok := b.(*Constructor)
		if !ok || a.Name != o.Name || len(a.Args) != len(o.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], o.Args[i]) {
				return false
			}
		}
		return true
	case *Array:
		o, ok := b.(*Array)
		return ok && a.Length == o.Length && Equal(a.Element, o.Element)
	case *EffectRow:
		o, ok := b.(*EffectRow)
		if !ok || len(a.Cases) != len(o.Cases) || a.HasTailWildcard != o.HasTailWildcard {
			return false
		}
		for i := range a.Cases {
			if a.Cases[i].Label != o.Cases[i].Label {
				return false
			}
			if (a.Cases[i].Payload == nil) != (o.Cases[i].Payload == nil) {
				return false
			}
			if a.Cases[i].Payload != nil && !Equal(a.Cases[i].Payload, o.Cases[i].Payload) {
				return false
			}
		}
		if (a.Tail == nil) != (o.Tail == nil) {
			return false
		}
		if a.Tail != nil && a.Tail.ID != o.Tail.ID {
			return false
		}
		return true
	case *Unknown:
		o, ok := b.(*Unknown)
		return ok && a.ID == o.ID
	default:
		return false
	}
}
