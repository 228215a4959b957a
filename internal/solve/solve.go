// Package solve implements the Layer-2 constraint solver (spec.md
// §4.4): a fixpoint loop over the stubs Layer-1 deferred, producing a
// fully substituted, "remarked" program plus hole classifications.
//
// Grounded on the teacher's constraint solver in
// eval/typechecker_solve.go: a worklist that re-scans every pending
// constraint until one full pass leaves the substitution unchanged,
// rather than a topologically-ordered one-shot walk — row
// unification and infection propagation both require revisiting a
// stub after an earlier one narrows a shared variable.
package solve

import (
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/types"
)

// HoleStatus classifies a hole's solution after fixpoint, per
// spec.md §4.4.
type HoleStatus string

const (
	HoleSolved     HoleStatus = "solved"
	HolePartial    HoleStatus = "partial"
	HoleConflicted HoleStatus = "conflicted"
	HoleUnsolved   HoleStatus = "unsolved"
)

// HoleSolution is the solver's final verdict for one Layer-1 hole.
type HoleSolution struct {
	ID         infer.HoleId
	Status     HoleStatus
	Type       types.Type   // best-known type, meaningful for Solved/Partial
	Conflicts  []types.Type // all mutually-incompatible types, set iff Conflicted
}

// Output is the solver's result, consumed by the presenter (C5).
type Output struct {
	Substitution  types.Substitution
	HoleSolutions map[infer.HoleId]*HoleSolution
	Diagnostics   []*diag.Report
	Remarked      *infer.MarkedProgram
}

// solver owns the mutable state of one fixpoint run.
type solver struct {
	sub         types.Substitution
	tenv        *types.TypeEnv
	reg         *infection.Registry
	diagnostics []*diag.Report

	// nextVar continues the same monotonic id sequence Layer-1 used, so
	// a row unification's freshly minted shared tail (types.Unifier's
	// freshRowVar) never collides with a program's own variable ids.
	nextVar func() uint64

	// conflicts accumulates, per hole-carrying Var id, every type it
	// was unified against that failed; used to classify holes after
	// fixpoint (a hole with >=2 distinct failed-unify partners is
	// conflicted rather than merely unsolved).
	conflicts map[uint64][]types.Type

	// holeBindings accumulates, per Unknown id, every type it was
	// unified against (successfully, since Unknown always absorbs).
	holeBindings map[uint64][]types.Type
}

// Solve runs the fixpoint loop over in.ConstraintStubs and returns the
// substituted program plus hole classifications. reg is the module's
// merged infection registry (C6), consulted by the annotation stub to
// arbitrate the per-domain boundary rule (spec.md §4.6).
func Solve(in *infer.Output, tenv *types.TypeEnv, reg *infection.Registry) *Output {
	s := &solver{
		sub:          types.Substitution{},
		tenv:         tenv,
		reg:          reg,
		nextVar:      in.Ctx.NextVar,
		conflicts:    map[uint64][]types.Type{},
		holeBindings: map[uint64][]types.Type{},
	}

	pending := make([]*infer.Stub, len(in.ConstraintStubs))
	copy(pending, in.ConstraintStubs)

	for {
		changed := false
		var next []*infer.Stub
		for _, st := range pending {
			if s.tryStub(st) {
				changed = true
				continue
			}
			next = append(next, st)
		}
		pending = next
		if !changed || len(pending) == 0 {
			break
		}
	}
	// Final pass over whatever remains: every stub that never became
	// solvable gets its terminal diagnostic now (spec.md §4.4 doesn't
	// require re-trying forever, only "while any pass changes the
	// substitution").
	for _, st := range pending {
		s.finalizeUnsolved(st)
	}

	holeSolutions := map[infer.HoleId]*HoleSolution{}
	for id, info := range in.Holes {
		holeSolutions[id] = s.classifyHole(id, info)
	}

	remarked := s.remark(in.MarkedProgram)

	return &Output{
		Substitution:  s.sub,
		HoleSolutions: holeSolutions,
		Diagnostics:   s.diagnostics,
		Remarked:      remarked,
	}
}

func (s *solver) resolve(t types.Type) types.Type {
	return types.ApplySubstitution(s.sub, t)
}

// unify merges a into the running substitution, recording any failure
// against both operands' free variables for later hole classification.
// A hole (types.Unknown) on either side never fails types.Unify — it
// absorbs silently — so holeBindings records what it was unified
// against here, since that is the only place this information exists.
func (s *solver) unify(a, b types.Type) error {
	ra, rb := s.resolve(a), s.resolve(b)
	// An unbound Var on the other side carries no information about the
	// hole (it is itself unconstrained), so recording it would read as
	// a spurious conflict; only concrete types (or a different hole)
	// are evidence worth keeping.
	if _, stillVar := rb.(*types.Var); !stillVar {
		if hu, ok := ra.(*types.Unknown); ok {
			s.holeBindings[hu.ID] = append(s.holeBindings[hu.ID], rb)
		}
	}
	if _, stillVar := ra.(*types.Var); !stillVar {
		if hu, ok := rb.(*types.Unknown); ok {
			s.holeBindings[hu.ID] = append(s.holeBindings[hu.ID], ra)
		}
	}

	u := types.NewUnifier(s.nextVar)
	u.Sub = s.sub
	err := u.Unify(a, b)
	if err != nil {
		s.recordConflict(a, b)
		return err
	}
	s.sub = u.Sub
	return nil
}

func (s *solver) recordConflict(a, b types.Type) {
	if v, ok := a.(*types.Var); ok {
		s.conflicts[v.ID] = append(s.conflicts[v.ID], s.resolve(b))
	}
	if v, ok := b.(*types.Var); ok {
		s.conflicts[v.ID] = append(s.conflicts[v.ID], s.resolve(a))
	}
}
