// Package infection implements C6 — the infection registry that
// tracks declared infectious type constructors and arbitrates effect
// discharge at binding boundaries. There is no teacher analogue (the
// teacher has no effect-row system); this package is grounded on the
// teacher's types/env.go registration idiom (a name-keyed table built
// once at module load and consulted read-only during inference) and
// on dtree's/exhaustiveness.go's notion of "coverage of a universe",
// reused here as the discharge test.
package infection

import (
	"fmt"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/coverage"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/types"
)

// Info describes one declared infectious type constructor.
type Info struct {
	Domain      ast.InfectionDomain
	Name        string
	ValueCtor   string
	EffectCtor  string
}

// Registry is the per-module (then merged-across-imports) table of
// declared infectious types, seeded from the standard infection
// prelude (spec.md §4.6: "seeded from a standard infection prelude
// module and merged across imports").
type Registry struct {
	byName map[string]*Info
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: map[string]*Info{}}
}

// SeedPrelude declares the standard carriers every module sees without
// an explicit import: Result (error domain), Tainted (taint domain),
// and Ptr (mem domain, with Open as its value constructor and Closed as
// its effect constructor).
func SeedPrelude() *Registry {
	r := New()
	r.Declare(&Info{Domain: ast.DomainError, Name: "Result", ValueCtor: "Ok", EffectCtor: "Err"})
	r.Declare(&Info{Domain: ast.DomainTaint, Name: "Tainted", ValueCtor: "Clean", EffectCtor: "Dirty"})
	r.Declare(&Info{Domain: ast.DomainMem, Name: "Ptr", ValueCtor: "Open", EffectCtor: "Closed"})
	return r
}

// Declare registers one infectious type.
func (r *Registry) Declare(info *Info) {
	r.byName[info.Name] = info
}

// DeclareFromAST registers a type declared by a surface
// InfectiousDeclaration.
func (r *Registry) DeclareFromAST(d *ast.InfectiousDeclaration) {
	r.Declare(&Info{
		Domain:     d.Domain,
		Name:       d.Name,
		ValueCtor:  d.ValueCtor.Name,
		EffectCtor: d.EffectCtor.Name,
	})
}

// Lookup finds a declared infectious type by its nominal name.
func (r *Registry) Lookup(name string) (*Info, bool) {
	info, ok := r.byName[name]
	return info, ok
}

// IsInfectious reports whether name was declared infectious.
func (r *Registry) IsInfectious(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Merge returns a new registry containing both r and imported's
// entries; a name declared in both is kept from r (the importing
// module's own declaration shadows an imported one, matching the
// operator table's two-phase precedence in C7).
func (r *Registry) Merge(imported *Registry) *Registry {
	out := New()
	for k, v := range imported.byName {
		out.byName[k] = v
	}
	for k, v := range r.byName {
		out.byName[k] = v
	}
	return out
}

// BoundaryCheck applies spec.md §4.6's per-domain boundary rule at a
// function's return position: remaining is the effect row still live
// after the body's own match expressions have discharged what they
// could. returnType is the function's declared or inferred return
// type (checked for carrier shape in the error/taint domains).
func BoundaryCheck(domain ast.InfectionDomain, returnType types.Type, remaining *types.EffectRow, nodeID ast.NodeId, span ast.Span) *diag.Report {
	if remaining.IsEmpty() {
		return nil
	}
	switch domain {
	case ast.DomainError:
		if !isCarrierOf(returnType, "Result") {
			return diag.New(diag.IFX001, diag.PhaseInfection, diag.ReasonInfectiousCallResultMismatch,
				nodeID, span,
				fmt.Sprintf("return type %s does not carry the remaining error row %s", returnType.String(), remaining.String()),
				map[string]any{"domain": string(domain), "remaining": remaining.String()})
		}
	case ast.DomainTaint:
		if !isCarrierOf(returnType, "Tainted") {
			return diag.New(diag.IFX001, diag.PhaseInfection, diag.ReasonInfectiousCallResultMismatch,
				nodeID, span,
				fmt.Sprintf("return type %s does not carry the remaining taint row %s", returnType.String(), remaining.String()),
				map[string]any{"domain": string(domain), "remaining": remaining.String()})
		}
	case ast.DomainMem:
		// No MustClose/MustEnd obligation may remain; any leftover label
		// in a mem-domain row is itself the violation.
		return diag.New(diag.IFX001, diag.PhaseInfection, diag.ReasonInfectiousCallResultMismatch,
			nodeID, span,
			fmt.Sprintf("unreleased resource obligations remain: %s", remaining.String()),
			map[string]any{"domain": string(domain), "remaining": remaining.String()})
	case ast.DomainHole:
		// Permissive mode: unfilled holes are allowed to remain; the
		// caller decides whether permissive mode applies before calling
		// BoundaryCheck for this domain at all.
		return nil
	}
	return nil
}

func isCarrierOf(t types.Type, ctorName string) bool {
	c, ok := t.(*types.Constructor)
	return ok && c.Name == ctorName
}
