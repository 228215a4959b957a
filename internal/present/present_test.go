package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/pipelinectx"
	"github.com/wisplang/wisp/internal/solve"
	"github.com/wisplang/wisp/internal/types"
)

func baseEnv() (*types.ValueEnv, *types.TypeEnv, *types.OperatorTable, *infection.Registry) {
	return types.NewValueEnv(), types.NewTypeEnv(), types.NewOperatorTable(), infection.SeedPrelude()
}

// let id = (x) => { x } presents as a generalized scheme display.
func TestPresentSummarizesPolymorphicBinding(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{
		Name:       "id",
		Parameters: []ast.Param{{Pattern: &ast.VarPattern{Name: "x"}}},
		Body:       &ast.BlockExpr{Result: &ast.Identifier{Name: "x"}},
		Export:     true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	solved := solve.Solve(out, tenv, reg)
	result := Present(out, solved)

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "id", result.Summaries[0].Name)
	assert.Contains(t, result.Summaries[0].Display, "∀")
}

// A Constructor carrying a non-empty EffectRow as its last argument
// renders with the ⚡ infection marker.
func TestDisplayTypeAppliesInfectionMarker(t *testing.T) {
	row := &types.EffectRow{Cases: []types.EffectCase{{Label: "Err", Payload: types.Str}}}
	result := &types.Constructor{Name: "Result", Args: []types.Type{types.Int, row}}

	disp := displayType(result)
	assert.Contains(t, disp, "⚡")
	assert.Contains(t, disp, "Int")
}

// A Constructor with an empty trailing row displays structurally, with
// no infection marker (nothing live to flag).
func TestDisplayTypeNoMarkerForEmptyRow(t *testing.T) {
	result := &types.Constructor{Name: "Result", Args: []types.Type{types.Int, &types.EffectRow{}}}
	disp := displayType(result)
	assert.NotContains(t, disp, "⚡")
}

// A second binding that calls the already-generalized id shows up in
// DebugInfo.Instantiations, with id's single quantifier counted and a
// monotype display reflecting the call-site's resolved argument type.
func TestPresentRecordsInstantiationOfPolymorphicBinding(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	idDecl := &ast.LetDeclaration{
		Name:       "id",
		Parameters: []ast.Param{{Pattern: &ast.VarPattern{Name: "x"}}},
		Body:       &ast.BlockExpr{Result: &ast.Identifier{Name: "x"}},
		Export:     true,
	}
	useDecl := &ast.LetDeclaration{
		Name: "one",
		Body: &ast.BlockExpr{Result: &ast.CallExpr{
			Func: &ast.Identifier{Name: "id"},
			Arg:  &ast.Literal{Kind: ast.LitInt},
		}},
		Export: true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{idDecl, useDecl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	solved := solve.Solve(out, tenv, reg)
	result := Present(out, solved)

	require.NotNil(t, result.DebugInfo)
	require.NotEmpty(t, result.DebugInfo.Instantiations)

	var found *InstantiationView
	for i := range result.DebugInfo.Instantiations {
		if result.DebugInfo.Instantiations[i].Name == "id" {
			found = &result.DebugInfo.Instantiations[i]
		}
	}
	require.NotNil(t, found, "expected an instantiation of id")
	assert.Equal(t, 1, found.Quantified)
	assert.Contains(t, found.Display, "Int")
}

func TestPresentPropagatesLayerOneDiagnostics(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{
		Name: "oops",
		Body: &ast.BlockExpr{Result: &ast.Identifier{Name: "undefined_name"}},
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	solved := solve.Solve(out, tenv, reg)
	result := Present(out, solved)

	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, "INF001", result.Diagnostics[0].Code)
}
