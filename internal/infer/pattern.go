package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/types"
)

// inferPattern binds the pattern's variables into env and returns the
// pattern's type, unifying literal/constructor patterns against the
// scrutinee's shape as it goes (spec.md §4.3 "Pattern inference").
func (inf *inferer) inferPattern(p ast.Pattern, env *types.ValueEnv) types.Type {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return &types.Var{ID: inf.ctx.NextVar()}
	case *ast.VarPattern:
		v := &types.Var{ID: inf.ctx.NextVar()}
		env.Bind(p.Name, types.Mono(v))
		return v
	case *ast.LitPattern:
		return literalType(p.Kind)
	case *ast.ConstructorPattern:
		sch, ok := env.Lookup(p.Name)
		if !ok {
			sch, ok = inf.env.Lookup(p.Name)
		}
		if !ok {
			inf.addMark(p.Id(), Mark{Kind: MarkFreeVar, Detail: p.Name})
			inf.report(diag.INF001, diag.PhaseInfer, diag.ReasonFreeVariable, p.Id(), p.Span(),
				"unknown constructor: "+p.Name, nil)
			for _, a := range p.Args {
				inf.inferPattern(a, env)
			}
			return inf.newHole(types.HoleUnfilled, p.Id(), p.Span())
		}
		ctorType := inf.instantiate(p.Name, sch, p.Id(), p.Span())
		result := ctorType
		for _, a := range p.Args {
			fn, ok := result.(*types.Func)
			if !ok {
				inf.addMark(p.Id(), Mark{Kind: MarkPattern, Detail: "arity"})
				inf.inferPattern(a, env)
				continue
			}
			argType := inf.inferPattern(a, env)
			inf.unify(fn.From, argType, p.Id(), p.Span())
			result = fn.To
		}
		return result
	case *ast.TuplePattern:
		elems := make([]types.Type, len(p.Elements))
		for i, e := range p.Elements {
			elems[i] = inf.inferPattern(e, env)
		}
		return &types.Tuple{Elements: elems}
	case *ast.RecordPattern:
		fields := make([]types.RecordField, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = types.RecordField{Name: f.Name, Type: inf.inferPattern(f.Pattern, env)}
		}
		return &types.Record{Fields: fields, Row: &types.Var{ID: inf.ctx.NextVar()}}
	default:
		return inf.newHole(types.HoleUnfilled, p.Id(), p.Span())
	}
}

func literalType(k ast.LiteralKind) types.Type {
	switch k {
	case ast.LitInt:
		return types.Int
	case ast.LitBool:
		return types.Bool
	case ast.LitChar:
		return types.Char
	case ast.LitString:
		return types.Str
	default:
		return types.Unit
	}
}

// unify is a thin wrapper the whole inferer shares so a unification
// failure becomes a mark and a diagnostic instead of propagating a Go
// error up through the AST walk (spec.md §4.3 "Failure semantics").
func (inf *inferer) unify(a, b types.Type, nodeID ast.NodeId, span ast.Span) {
	if err := inf.unifier.Unify(a, b); err != nil {
		ue, ok := err.(*types.UnifyError)
		reason := diag.ReasonTypeMismatch
		code := diag.SLV001
		if ok {
			switch ue.Reason {
			case "occurs_cycle":
				reason, code = diag.ReasonOccursCycle, diag.SLV003
				inf.addMark(nodeID, Mark{Kind: MarkOccursCheck})
			case "arity_mismatch":
				reason, code = diag.ReasonArityMismatch, diag.SLV002
			case "missing_field":
				reason, code = diag.ReasonMissingField, diag.SLV005
			}
		}
		inf.addMark(nodeID, Mark{Kind: MarkInconsistent})
		inf.report(code, diag.PhaseInfer, reason, nodeID, span, err.Error(), nil)
	}
}
