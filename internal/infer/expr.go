package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/coverage"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/types"
)

// inferExpr is the core of Layer-1: one node in, one provisional Type
// out, per spec.md §4.3's expression-kind table.
func (inf *inferer) inferExpr(e ast.Expr, env *types.ValueEnv) types.Type {
	t := inf.inferExprInner(e, env)
	inf.nodeTypeByID[e.Id()] = t
	return t
}

func (inf *inferer) inferExprInner(e ast.Expr, env *types.ValueEnv) types.Type {
	switch e := e.(type) {
	case *ast.Identifier:
		sch, ok := env.Lookup(e.Name)
		if !ok {
			sch, ok = inf.env.Lookup(e.Name)
		}
		if !ok {
			inf.addMark(e.Id(), Mark{Kind: MarkFreeVar, Detail: e.Name})
			inf.report(diag.INF001, diag.PhaseInfer, diag.ReasonFreeVariable, e.Id(), e.Span(),
				"free variable: "+e.Name, nil)
			return inf.newHole(types.HoleUnfilled, e.Id(), e.Span())
		}
		return inf.instantiate(e.Name, sch, e.Id(), e.Span())

	case *ast.Literal:
		return literalType(e.Kind)

	case *ast.TupleExpr:
		elems := make([]types.Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = inf.inferExpr(el, env)
		}
		return &types.Tuple{Elements: elems}

	case *ast.RecordLiteral:
		seen := map[string]bool{}
		fields := make([]types.RecordField, 0, len(e.Fields))
		for _, f := range e.Fields {
			if seen[f.Name] {
				inf.report(diag.INF002, diag.PhaseInfer, diag.ReasonDuplicateRecordField, e.Id(), e.Span(),
					"duplicate record field: "+f.Name, nil)
				continue
			}
			seen[f.Name] = true
			fields = append(fields, types.RecordField{Name: f.Name, Type: inf.inferExpr(f.Value, env)})
		}
		return &types.Record{Fields: fields}

	case *ast.RecordProjection:
		targetType := inf.inferExpr(e.Target, env)
		result := &types.Var{ID: inf.ctx.NextVar()}
		inf.stubs = append(inf.stubs, &Stub{
			Kind: StubHasField, Origin: e.Id(), Span: e.Span(),
			Target: targetType, Field: e.Field, Result: result,
		})
		return result

	case *ast.ConstructorExpr:
		sch, ok := inf.env.Lookup(e.Name)
		if !ok {
			sch, ok = env.Lookup(e.Name)
		}
		if !ok {
			inf.addMark(e.Id(), Mark{Kind: MarkFreeVar, Detail: e.Name})
			inf.report(diag.INF001, diag.PhaseInfer, diag.ReasonFreeVariable, e.Id(), e.Span(),
				"unknown constructor: "+e.Name, nil)
			return inf.newHole(types.HoleUnfilled, e.Id(), e.Span())
		}
		ctorType := inf.instantiate(e.Name, sch, e.Id(), e.Span())
		result := ctorType
		for i, a := range e.Args {
			argType := inf.inferExpr(a, env)
			fn, ok := result.(*types.Func)
			if !ok {
				inf.addMark(e.Id(), Mark{Kind: MarkNotFunction})
				inf.report(diag.SLV009, diag.PhaseInfer, diag.ReasonNotFunction, e.Id(), e.Span(),
					"constructor over-applied", map[string]any{"argIndex": i})
				break
			}
			inf.unify(fn.From, argType, e.Id(), e.Span())
			result = fn.To
		}
		return result

	case *ast.CallExpr:
		calleeType := inf.inferExpr(e.Func, env)
		argType := inf.inferExpr(e.Arg, env)
		result := &types.Var{ID: inf.ctx.NextVar()}
		inf.stubs = append(inf.stubs, &Stub{
			Kind: StubCall, Origin: e.Id(), Span: e.Span(),
			Callee: calleeType, Argument: argType, Result: result,
			ArgumentErrorRow: effectRowOfArg(argType),
		})
		return result

	case *ast.ArrowExpr:
		local := env.Child()
		paramTypes := make([]types.Type, len(e.Params))
		for i, p := range e.Params {
			paramTypes[i] = inf.inferPattern(p.Pattern, local)
			if p.Annotation != nil {
				ann := inf.elaborateTypeExpr(p.Annotation, nil)
				inf.unify(ann, paramTypes[i], p.Pattern.Id(), p.Pattern.Span())
			}
		}
		bodyType := inf.inferBlock(e.Body, local)
		result := bodyType
		for i := len(paramTypes) - 1; i >= 0; i-- {
			result = &types.Func{From: paramTypes[i], To: result}
		}
		return result

	case *ast.MatchExpr:
		return inf.inferMatch(e.Scrutinee, e.Arms, e.Id(), e.Span(), env)

	case *ast.MatchFnExpr:
		// canonicalize() rewrites every MatchFnExpr away before
		// inference runs; reaching here means a post-canonicalization
		// tree still has one, which is a local inconsistency, not a
		// catastrophic failure.
		inf.addMark(e.Id(), Mark{Kind: MarkUnsupportedExpr, Detail: "match_fn"})
		return inf.newHole(types.HoleIncomplete, e.Id(), e.Span())

	case *ast.MatchBundleExpr:
		scrutVar := &types.Var{ID: inf.ctx.NextVar()}
		bodyType := inf.inferMatchBodyOnly(scrutVar, e.Arms, e.Id(), e.Span(), env)
		return &types.Func{From: scrutVar, To: bodyType}

	case *ast.BinaryExpr:
		return inf.inferOperatorCall("__op_"+e.Op, []ast.Expr{e.Left, e.Right}, e.Id(), e.Span(), env)

	case *ast.UnaryExpr:
		return inf.inferOperatorCall("__prefix_"+e.Op, []ast.Expr{e.Expr}, e.Id(), e.Span(), env)

	case *ast.HoleExpr:
		return inf.newHole(types.HoleUserHole, e.Id(), e.Span())

	default:
		inf.addMark(e.Id(), Mark{Kind: MarkUnsupportedExpr, Detail: "unknown"})
		return inf.newHole(types.HoleIncomplete, e.Id(), e.Span())
	}
}

// inferOperatorCall desugars `binary(op,l,r)`/`unary(op,x)` to
// `call(call(op_fn, l), r)` / `call(prefix_fn, x)` against the
// looked-up operator function, per spec.md §4.3.
func (inf *inferer) inferOperatorCall(fnName string, args []ast.Expr, nodeID ast.NodeId, span ast.Span, env *types.ValueEnv) types.Type {
	sch, ok := env.Lookup(fnName)
	if !ok {
		sch, ok = inf.env.Lookup(fnName)
	}
	if !ok {
		inf.addMark(nodeID, Mark{Kind: MarkFreeVar, Detail: fnName})
		inf.report(diag.INF001, diag.PhaseInfer, diag.ReasonFreeVariable, nodeID, span,
			"unknown operator function: "+fnName, nil)
		return inf.newHole(types.HoleUnfilled, nodeID, span)
	}
	result := inf.instantiate(fnName, sch, nodeID, span)
	for _, a := range args {
		argType := inf.inferExpr(a, env)
		fn, ok := result.(*types.Func)
		if !ok {
			inf.addMark(nodeID, Mark{Kind: MarkNotFunction})
			inf.report(diag.SLV009, diag.PhaseInfer, diag.ReasonNotFunction, nodeID, span,
				"operator function under-applied", nil)
			return inf.newHole(types.HoleIncomplete, nodeID, span)
		}
		out := &types.Var{ID: inf.ctx.NextVar()}
		inf.stubs = append(inf.stubs, &Stub{
			Kind: StubCall, Origin: nodeID, Span: span,
			Callee: fn, Argument: argType, Result: out,
			ArgumentErrorRow: effectRowOfArg(argType),
		})
		result = out
	}
	return result
}

// inferMatch infers the scrutinee, each arm, runs the coverage
// analyzer, and applies the infection discharge rule when the
// scrutinee type is an EffectRow.
func (inf *inferer) inferMatch(scrutinee ast.Expr, arms []ast.MatchArm, nodeID ast.NodeId, span ast.Span, env *types.ValueEnv) types.Type {
	scrutType := inf.inferExpr(scrutinee, env)
	return inf.inferMatchBodyOnly(scrutType, arms, nodeID, span, env)
}

func (inf *inferer) inferMatchBodyOnly(scrutType types.Type, arms []ast.MatchArm, nodeID ast.NodeId, span ast.Span, env *types.ValueEnv) types.Type {
	branches := make([]types.Type, 0, len(arms))
	for _, arm := range arms {
		local := env.Child()
		patType := inf.inferPattern(arm.Pattern, local)
		inf.unify(patType, scrutType, arm.Pattern.Id(), arm.Pattern.Span())
		if arm.Guard != nil {
			guardType := inf.inferExpr(arm.Guard, local)
			inf.unify(guardType, types.Bool, arm.Guard.Id(), arm.Guard.Span())
		}
		bodyType := inf.inferBlock(arm.Body, local)
		branches = append(branches, bodyType)
	}

	result := &types.Var{ID: inf.ctx.NextVar()}
	joinStub := &Stub{
		Kind: StubBranchJoin, Origin: nodeID, Span: span,
		Scrutinee: nodeID, Branches: branches, Result: result,
	}
	inf.stubs = append(inf.stubs, joinStub)

	if row, ok := types.ApplySubstitution(inf.unifier.Sub, scrutType).(*types.EffectRow); ok {
		_, reports := coverage.Analyze(inf.tenv, row, arms)
		inf.diagnostics = append(inf.diagnostics, reports...)
		// Whatever the arms didn't discharge is still live and must
		// propagate into the match's own result (spec.md §4.6's
		// discharge rule), same as how a call folds ArgumentErrorRow
		// into its result via mergeErrorRow.
		remaining, _ := infection.Discharge(row, arms, inf.tenv)
		joinStub.RemainingRow = remaining
	} else if tenvHasCoverage(scrutType) {
		_, reports := coverage.Analyze(inf.tenv, types.ApplySubstitution(inf.unifier.Sub, scrutType), arms)
		inf.diagnostics = append(inf.diagnostics, reports...)
	}

	return result
}

// tenvHasCoverage reports whether scrutType is resolved enough to run
// coverage analysis against. Every concrete shape (ADTs, tuples,
// records, Unit, and the primitives Bool/Int/Char/String) has a
// buildUniverse case — Bool's is finite, the rest fall back to
// "requires a wildcard" — so only a still-unresolved unification
// variable or hole is excluded, to avoid flagging non_exhaustive_match
// against a type the solver hasn't pinned down yet.
func tenvHasCoverage(t types.Type) bool {
	switch t.(type) {
	case *types.Var, *types.Unknown:
		return false
	default:
		return true
	}
}

// effectRowOfArg extracts the effect row carried by an argument's
// type, when it is an infectious carrier, so the call stub can fold it
// into the callee's result (spec.md §4.3: "propagates argument error
// rows onto the call stub").
func effectRowOfArg(t types.Type) *types.EffectRow {
	c, ok := t.(*types.Constructor)
	if !ok || len(c.Args) == 0 {
		return nil
	}
	last := c.Args[len(c.Args)-1]
	if row, ok := last.(*types.EffectRow); ok {
		return row
	}
	return nil
}
