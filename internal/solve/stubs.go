package solve

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/types"
)

// tryStub attempts one stub against the current substitution. It
// returns true when the stub made progress (and so is retired from
// the worklist), false when it should be retried on a later pass.
func (s *solver) tryStub(st *infer.Stub) bool {
	switch st.Kind {
	case infer.StubCall:
		return s.tryCall(st)
	case infer.StubAnnotation:
		return s.tryAnnotation(st)
	case infer.StubBranchJoin:
		return s.tryBranchJoin(st)
	case infer.StubHasField:
		return s.tryHasField(st)
	case infer.StubNumeric:
		return s.tryNumeric(st)
	case infer.StubBoolean:
		return s.tryBoolean(st)
	case infer.StubConstraintSource, infer.StubConstraintFlow, infer.StubConstraintRewrite:
		// Infection propagation stubs carry no unification work of
		// their own in this pipeline: the discharge rule already runs
		// during Layer-1's inferMatch, and effect rows already flow
		// through ordinary call stubs via ArgumentErrorRow. These
		// kinds exist so a richer loader-level cross-module pass (C7)
		// has something to attach to; they are always immediately
		// retired.
		return true
	default:
		return true
	}
}

func (s *solver) tryCall(st *infer.Stub) bool {
	callee := s.resolve(st.Callee)
	switch c := callee.(type) {
	case *types.Var:
		fn := &types.Func{From: s.resolve(st.Argument), To: s.resolve(st.Result)}
		if err := s.unify(c, fn); err != nil {
			s.reportUnify(err, st.Origin, st.Span)
		}
		return true
	case *types.Func:
		if err := s.unify(c.From, s.resolve(st.Argument)); err != nil {
			s.reportUnify(err, st.Origin, st.Span)
		}
		resultType := s.resolve(c.To)
		if st.ArgumentErrorRow != nil && !st.ArgumentErrorRow.IsEmpty() {
			resultType = mergeErrorRow(resultType, st.ArgumentErrorRow)
		}
		if err := s.unify(s.resolve(st.Result), resultType); err != nil {
			s.reportUnify(err, st.Origin, st.Span)
		}
		return true
	default:
		s.report(diag.SLV009, diag.PhaseSolve, diag.ReasonNotFunction, st.Origin, st.Span,
			"attempted to call a non-function value")
		return true
	}
}

// mergeErrorRow folds an argument's carried effect row into a
// Constructor-shaped result (e.g. Result<T,E>'s effect parameter),
// implementing "this is how infectious Results spread through
// ordinary calls" (spec.md §4.4).
func mergeErrorRow(result types.Type, argRow *types.EffectRow) types.Type {
	c, ok := result.(*types.Constructor)
	if !ok || len(c.Args) == 0 {
		return result
	}
	last := c.Args[len(c.Args)-1]
	row, ok := last.(*types.EffectRow)
	if !ok {
		return result
	}
	merged := &types.EffectRow{
		Cases:           append(append([]types.EffectCase{}, row.Cases...), argRow.Cases...),
		Tail:            row.Tail,
		HasTailWildcard: row.HasTailWildcard || argRow.HasTailWildcard,
	}
	newArgs := append([]types.Type{}, c.Args[:len(c.Args)-1]...)
	newArgs = append(newArgs, merged)
	return &types.Constructor{Name: c.Name, Args: newArgs}
}

// tryAnnotation checks a let-binding's declared annotation against its
// resolved body type. Before falling back to plain unification, it
// gives C6's boundary rule first refusal: a body that resolved to an
// infectious carrier (spec.md §4.6) with a non-empty remaining effect
// row gets IFX001/infectious_call_result_mismatch when the annotation
// itself isn't that same carrier shape, instead of the generic
// type_mismatch a structural unify of e.g. `Int` against
// `Result<Int, <Err(...)>>` would otherwise report.
func (s *solver) tryAnnotation(st *infer.Stub) bool {
	value := s.resolve(st.Value)
	ann := s.resolve(st.Annotation)
	if rep := s.infectionBoundary(ann, value, st.Origin, st.Span); rep != nil {
		s.diagnostics = append(s.diagnostics, rep)
		return true
	}
	if err := s.unify(st.Annotation, st.Value); err != nil {
		s.reportUnify(err, st.Origin, st.Span)
	}
	return true
}

// infectionBoundary reports whether value is an infectious carrier
// still holding a live effect row, and if so, defers the rest of the
// judgment to infection.BoundaryCheck. Returns nil when value isn't a
// declared infectious carrier at all, or carries no remaining row —
// an ordinary structural mismatch is then left to the caller's unify.
func (s *solver) infectionBoundary(ann, value types.Type, nodeID ast.NodeId, span ast.Span) *diag.Report {
	c, ok := value.(*types.Constructor)
	if !ok || len(c.Args) == 0 {
		return nil
	}
	row, ok := c.Args[len(c.Args)-1].(*types.EffectRow)
	if !ok || row.IsEmpty() {
		return nil
	}
	info, ok := s.reg.Lookup(c.Name)
	if !ok {
		return nil
	}
	return infection.BoundaryCheck(info.Domain, ann, row, nodeID, span)
}

func (s *solver) tryBranchJoin(st *infer.Stub) bool {
	if len(st.Branches) == 0 {
		return true
	}
	first := st.Branches[0]
	for _, b := range st.Branches[1:] {
		if err := s.unify(first, b); err != nil {
			s.report(diag.SLV004, diag.PhaseSolve, diag.ReasonBranchMismatch, st.Origin, st.Span,
				"branch arms disagree on type: "+err.Error())
		}
	}
	joined := s.resolve(first)
	if st.RemainingRow != nil && !st.RemainingRow.IsEmpty() {
		joined = mergeErrorRow(joined, st.RemainingRow)
	}
	if st.Result != nil {
		if err := s.unify(st.Result, joined); err != nil {
			s.reportUnify(err, st.Origin, st.Span)
		}
	}
	return true
}

func (s *solver) tryHasField(st *infer.Stub) bool {
	target := s.resolve(st.Target)
	switch rec := target.(type) {
	case *types.Record:
		ft, ok := rec.FieldType(st.Field)
		if !ok {
			if rec.Row != nil {
				// Row is still open; the field might arrive later via
				// a not-yet-resolved tail variable. Retry next pass.
				return false
			}
			s.report(diag.SLV005, diag.PhaseSolve, diag.ReasonMissingField, st.Origin, st.Span,
				"record has no field: "+st.Field)
			return true
		}
		if err := s.unify(s.resolve(st.Result), ft); err != nil {
			s.reportUnify(err, st.Origin, st.Span)
		}
		return true
	case *types.Var:
		return false
	default:
		s.report(diag.SLV006, diag.PhaseSolve, diag.ReasonNotRecord, st.Origin, st.Span,
			"projection target is not a record")
		return true
	}
}

func (s *solver) tryNumeric(st *infer.Stub) bool {
	return s.tryOperandKind(st, types.Int, diag.SLV007, diag.ReasonNotNumeric)
}

func (s *solver) tryBoolean(st *infer.Stub) bool {
	return s.tryOperandKind(st, types.Bool, diag.SLV008, diag.ReasonNotBoolean)
}

func (s *solver) tryOperandKind(st *infer.Stub, want types.Type, code string, reason diag.Reason) bool {
	if st.Operator == "==" || st.Operator == "!=" {
		return true
	}
	for _, op := range st.Operands {
		if err := s.unify(op, want); err != nil {
			s.report(code, diag.PhaseSolve, reason, st.Origin, st.Span,
				"operand is not "+want.String())
		}
	}
	return true
}

func (s *solver) finalizeUnsolved(st *infer.Stub) {
	switch st.Kind {
	case infer.StubCall:
		s.report(diag.SLV001, diag.PhaseSolve, diag.ReasonTypeMismatch, st.Origin, st.Span,
			"call never resolved to a concrete function type")
	case infer.StubHasField:
		s.report(diag.SLV006, diag.PhaseSolve, diag.ReasonNotRecord, st.Origin, st.Span,
			"field projection target never resolved")
	}
}

// reportUnify turns a *types.UnifyError into the matching code/reason
// pair, mirroring the infer package's own unify wrapper.
func (s *solver) reportUnify(err error, nodeID ast.NodeId, span ast.Span) {
	ue, ok := err.(*types.UnifyError)
	reason := diag.ReasonTypeMismatch
	code := diag.SLV001
	if ok {
		switch ue.Reason {
		case "occurs_cycle":
			reason, code = diag.ReasonOccursCycle, diag.SLV003
		case "arity_mismatch":
			reason, code = diag.ReasonArityMismatch, diag.SLV002
		case "missing_field":
			reason, code = diag.ReasonMissingField, diag.SLV005
		}
	}
	s.report(code, diag.PhaseSolve, reason, nodeID, span, err.Error())
}

func (s *solver) report(code string, phase diag.Phase, reason diag.Reason, nodeID ast.NodeId, span ast.Span, msg string) {
	s.diagnostics = append(s.diagnostics, diag.New(code, phase, reason, nodeID, span, msg, nil))
}
