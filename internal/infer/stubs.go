// Package infer implements C3 — the Layer-1 inferencer. Grounded on
// the teacher's internal/elaborate (the single-pass AST walk that
// produces a parallel "core" tree while deferring what it cannot
// resolve locally) and internal/types/typechecker_*.go (environment
// threading, instantiate-at-use idiom), generalized from the
// teacher's immediate-unification style into a two-phase
// stub-then-solve pipeline per spec.md §4.3/§4.4.
package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/types"
)

// StubKind tags a deferred constraint for the solver.
type StubKind string

const (
	StubCall             StubKind = "call"
	StubAnnotation       StubKind = "annotation"
	StubBranchJoin       StubKind = "branch_join"
	StubHasField         StubKind = "has_field"
	StubNumeric          StubKind = "numeric"
	StubBoolean          StubKind = "boolean"
	StubConstraintSource StubKind = "constraint_source"
	StubConstraintRewrite StubKind = "constraint_rewrite"
	StubConstraintFlow   StubKind = "constraint_flow"
)

// Stub is one deferred constraint, carrying every field any kind might
// need; the solver switches on Kind and reads only the fields that
// kind defined (spec.md §4.3's "Constraint stub kinds" list).
type Stub struct {
	Kind   StubKind
	Origin ast.NodeId
	Span   ast.Span

	// call
	Callee           types.Type
	Argument         types.Type
	Result           types.Type
	ArgumentErrorRow *types.EffectRow

	// annotation
	Annotation types.Type
	Value      types.Type
	Subject    ast.NodeId

	// branch_join
	Scrutinee    ast.NodeId
	Branches     []types.Type
	RemainingRow *types.EffectRow

	// has_field
	Target types.Type
	Field  string

	// numeric / boolean
	Operator string
	Operands []types.Type

	// constraint_source
	Label  string
	Domain string

	// constraint_flow
	From types.Type
	To   types.Type
}
