package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/types"
)

// processTypeDecl registers an ADT, record type, or alias, in source
// order, before any later declaration can reference it (spec.md
// §4.3's "each of the six declaration kinds ... updates the
// appropriate environment before subsequent declarations use it").
func (inf *inferer) processTypeDecl(d *ast.TypeDeclaration) {
	if _, exists := inf.tenv.LookupType(d.Name); exists {
		inf.addMark(d.Id(), Mark{Kind: MarkTypeDeclDuplicate, Detail: d.Name})
		inf.report(diag.INF005, diag.PhaseInfer, diag.ReasonTypeMismatch, d.Id(), d.Span(),
			"duplicate type declaration: "+d.Name, nil)
		return
	}

	paramVars := map[string]*types.Var{}
	var paramIDs []uint64
	for _, p := range d.Params {
		v := &types.Var{ID: inf.ctx.NextVar()}
		paramVars[p] = v
		paramIDs = append(paramIDs, v.ID)
	}

	info := &types.TypeInfo{Name: d.Name, Params: paramIDs}

	if d.IsRecord {
		fields := make([]types.RecordField, len(d.RecordFields))
		for i, f := range d.RecordFields {
			fields[i] = types.RecordField{Name: f.Name, Type: inf.elaborateTypeExpr(f.Type, paramVars)}
		}
		inf.tenv.DeclareType(info)
		recType := &types.Record{Fields: fields}
		inf.nodeTypeByID[d.Id()] = recType
		return
	}

	if d.Alias != nil {
		inf.tenv.DeclareType(info)
		inf.nodeTypeByID[d.Id()] = inf.elaborateTypeExpr(d.Alias, paramVars)
		return
	}

	for _, m := range d.Members {
		if m.Name == "" {
			inf.addMark(d.Id(), Mark{Kind: MarkTypeDeclInvalidMember, Detail: d.Name})
			continue
		}
		fieldTypes := make([]types.Type, len(m.Args))
		for i, a := range m.Args {
			fieldTypes[i] = inf.elaborateTypeExpr(a, paramVars)
		}
		info.Constructors = append(info.Constructors, &types.ConstructorInfo{
			Name:       m.Name,
			TypeName:   d.Name,
			FieldTypes: fieldTypes,
			TypeParams: paramIDs,
		})
	}
	inf.tenv.DeclareType(info)

	// Every constructor gets a scheme in the value environment so
	// ConstructorExpr/constructor patterns resolve through the normal
	// instantiate path, matching how the teacher's prelude seeds
	// built-in constructors (env.go binding idiom).
	for _, c := range info.Constructors {
		var body types.Type = &types.Constructor{Name: d.Name, Args: varsOf(paramIDs)}
		for i := len(c.FieldTypes) - 1; i >= 0; i-- {
			body = &types.Func{From: c.FieldTypes[i], To: body}
		}
		inf.env.Bind(c.Name, &types.Scheme{Quantified: paramIDs, Body: body})
	}
}

func varsOf(ids []uint64) []types.Type {
	out := make([]types.Type, len(ids))
	for i, id := range ids {
		out[i] = &types.Var{ID: id}
	}
	return out
}

func (inf *inferer) processInfixDecl(d *ast.InfixDeclaration) {
	inf.ops.DeclareInfix(&types.OperatorEntry{
		Symbol: d.Symbol, Precedence: d.Precedence, Associativity: d.Associativity,
	})
}

func (inf *inferer) processPrefixDecl(d *ast.PrefixDeclaration) {
	inf.ops.DeclarePrefix(&types.OperatorEntry{Symbol: d.Symbol, IsPrefix: true})
}

// processInfectiousDecl declares an infectious carrier type, e.g.
// `infectious error type Result<T, E> = @value Ok<T> | @effect Err<E>`.
// The carrier's second type argument is always an *types.EffectRow, not
// a bare payload type: @value's row is open with no case of its own (so
// it can still merge with an error an argument carried in, via
// mergeErrorRow), while @effect's row already carries one case labeled
// by the effect constructor's own name. Both ctors' schemes quantify
// over the same row-tail variable so a later row-unification of two
// branches (e.g. a match's Ok/Err arms) closes over a shared tail
// instead of each side's own (spec.md §4.6).
func (inf *inferer) processInfectiousDecl(d *ast.InfectiousDeclaration) {
	inf.infectionReg.DeclareFromAST(d)

	valueVar := &types.Var{ID: inf.ctx.NextVar()}
	effectPayloadVar := &types.Var{ID: inf.ctx.NextVar()}
	rowTail := &types.Var{ID: inf.ctx.NextVar()}
	paramVars := map[string]*types.Var{d.ValueParam: valueVar, d.EffectParam: effectPayloadVar}
	params := []uint64{valueVar.ID, effectPayloadVar.ID, rowTail.ID}

	valueFieldTypes := make([]types.Type, len(d.ValueCtor.Args))
	for i, a := range d.ValueCtor.Args {
		valueFieldTypes[i] = inf.elaborateTypeExpr(a, paramVars)
	}
	effectFieldTypes := make([]types.Type, len(d.EffectCtor.Args))
	for i, a := range d.EffectCtor.Args {
		effectFieldTypes[i] = inf.elaborateTypeExpr(a, paramVars)
	}
	var effectPayload types.Type
	if len(effectFieldTypes) > 0 {
		effectPayload = effectFieldTypes[0]
	}

	info := &types.TypeInfo{Name: d.Name, Params: params}
	info.Constructors = []*types.ConstructorInfo{
		{Name: d.ValueCtor.Name, TypeName: d.Name, FieldTypes: valueFieldTypes, TypeParams: params},
		{Name: d.EffectCtor.Name, TypeName: d.Name, FieldTypes: effectFieldTypes, TypeParams: params},
	}
	inf.tenv.DeclareType(info)

	valueRow := &types.EffectRow{Tail: rowTail}
	effectRow := &types.EffectRow{
		Cases: []types.EffectCase{{Label: d.EffectCtor.Name, Payload: effectPayload}},
		Tail:  rowTail,
	}

	var valueCtorType types.Type = &types.Constructor{Name: d.Name, Args: []types.Type{valueVar, valueRow}}
	for i := len(valueFieldTypes) - 1; i >= 0; i-- {
		valueCtorType = &types.Func{From: valueFieldTypes[i], To: valueCtorType}
	}
	var effectCtorType types.Type = &types.Constructor{Name: d.Name, Args: []types.Type{valueVar, effectRow}}
	for i := len(effectFieldTypes) - 1; i >= 0; i-- {
		effectCtorType = &types.Func{From: effectFieldTypes[i], To: effectCtorType}
	}

	inf.env.Bind(d.ValueCtor.Name, &types.Scheme{Quantified: params, Body: valueCtorType})
	inf.env.Bind(d.EffectCtor.Name, &types.Scheme{Quantified: params, Body: effectCtorType})
}
