package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/types"
)

// primitiveNames are the nullary built-in type names a NamedTypeExpr
// may reference without an ADT declaration.
var primitiveNames = map[string]types.Type{
	"Unit":   types.Unit,
	"Int":    types.Int,
	"Bool":   types.Bool,
	"Char":   types.Char,
	"String": types.Str,
}

// elaborateTypeExpr converts a surface TypeExpr into a types.Type,
// resolving type-parameter names through paramVars and ADT names
// through tenv. It never fails hard: unresolvable shapes become a
// mark plus an Unknown hole so the rest of inference proceeds (spec.md
// §4.3 "Local failures become marks... Unknown so downstream analysis
// continues").
func (inf *inferer) elaborateTypeExpr(te ast.TypeExpr, paramVars map[string]*types.Var) types.Type {
	switch te := te.(type) {
	case *ast.NamedTypeExpr:
		if v, ok := paramVars[te.Name]; ok {
			return v
		}
		if prim, ok := primitiveNames[te.Name]; ok && len(te.Args) == 0 {
			return prim
		}
		if info, ok := inf.tenv.LookupType(te.Name); ok {
			if len(te.Args) != len(info.Params) {
				inf.addMark(te.Id(), Mark{Kind: MarkTypeExprArity, Detail: te.Name})
				return inf.newHole(types.HoleIncomplete, te.Id(), te.Span())
			}
			args := make([]types.Type, len(te.Args))
			for i, a := range te.Args {
				args[i] = inf.elaborateTypeExpr(a, paramVars)
			}
			return &types.Constructor{Name: te.Name, Args: args}
		}
		// Unknown nominal name — still representable as a Constructor so
		// the rest of inference can unify structurally; flagged for the
		// presenter.
		inf.addMark(te.Id(), Mark{Kind: MarkTypeExprUnknown, Detail: te.Name})
		args := make([]types.Type, len(te.Args))
		for i, a := range te.Args {
			args[i] = inf.elaborateTypeExpr(a, paramVars)
		}
		return &types.Constructor{Name: te.Name, Args: args}
	case *ast.FuncTypeExpr:
		return &types.Func{From: inf.elaborateTypeExpr(te.From, paramVars), To: inf.elaborateTypeExpr(te.To, paramVars)}
	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(te.Elements))
		for i, e := range te.Elements {
			elems[i] = inf.elaborateTypeExpr(e, paramVars)
		}
		return &types.Tuple{Elements: elems}
	case *ast.RecordTypeExpr:
		fields := make([]types.RecordField, len(te.Fields))
		for i, f := range te.Fields {
			fields[i] = types.RecordField{Name: f.Name, Type: inf.elaborateTypeExpr(f.Type, paramVars)}
		}
		return &types.Record{Fields: fields}
	case *ast.ArrayTypeExpr:
		return &types.Array{Length: te.Length, Element: inf.elaborateTypeExpr(te.Element, paramVars)}
	default:
		return inf.newHole(types.HoleIncomplete, te.Id(), te.Span())
	}
}

func (inf *inferer) addMark(id ast.NodeId, m Mark) {
	inf.marks[id] = m
}

func (inf *inferer) report(code string, phase diag.Phase, reason diag.Reason, nodeID ast.NodeId, span ast.Span, msg string, data map[string]any) {
	inf.diagnostics = append(inf.diagnostics, diag.New(code, phase, reason, nodeID, span, msg, data))
}
