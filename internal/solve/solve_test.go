package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/pipelinectx"
	"github.com/wisplang/wisp/internal/types"
)

func baseEnv() (*types.ValueEnv, *types.TypeEnv, *types.OperatorTable, *infection.Registry) {
	return types.NewValueEnv(), types.NewTypeEnv(), types.NewOperatorTable(), infection.SeedPrelude()
}

// let double = (x: Int) => { x }; let useDouble = double(5)
func TestCallStubResolvesConcreteFunction(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	doubleDecl := &ast.LetDeclaration{
		Name: "double",
		Parameters: []ast.Param{{
			Pattern:    &ast.VarPattern{Name: "x"},
			Annotation: &ast.NamedTypeExpr{Name: "Int"},
		}},
		Body:   &ast.BlockExpr{Result: &ast.Identifier{Name: "x"}},
		Export: true,
	}
	callExpr := &ast.CallExpr{
		Base: ast.NewBase(100, ast.Span{}),
		Func: &ast.Identifier{Name: "double"},
		Arg:  &ast.Literal{Kind: ast.LitInt, Value: 5},
	}
	useDecl := &ast.LetDeclaration{
		Name:   "useDouble",
		Body:   &ast.BlockExpr{Result: callExpr},
		Export: true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{doubleDecl, useDecl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Empty(t, out.Diagnostics)

	solved := Solve(out, tenv, reg)
	require.Empty(t, solved.Diagnostics)

	final := solved.Remarked.NodeTypeByID[callExpr.Id()]
	assert.True(t, types.Equal(final, types.Int), "got %s", final.String())
}

// match h { _ => ? }; match h { other branch => 1 } discharges the hole
// to Int via the branch-join stub.
func TestBranchJoinSolvesHoleToConcreteType(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	matchExpr := &ast.MatchExpr{
		Scrutinee: &ast.Literal{Kind: ast.LitBool, Value: true},
		Arms: []ast.MatchArm{
			{
				Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: true},
				Body:    &ast.BlockExpr{Result: &ast.HoleExpr{}},
			},
			{
				Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: false},
				Body:    &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitInt, Value: 1}},
			},
		},
	}
	decl := &ast.LetDeclaration{
		Name:   "r",
		Body:   &ast.BlockExpr{Result: matchExpr},
		Export: true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Len(t, out.Holes, 1)

	solved := Solve(out, tenv, reg)

	var holeID infer.HoleId
	for id := range out.Holes {
		holeID = id
	}
	sol := solved.HoleSolutions[holeID]
	require.NotNil(t, sol)
	assert.Equal(t, HoleSolved, sol.Status)
	assert.True(t, types.Equal(sol.Type, types.Int))
}

// match { true => 1, false => true } never discharges: the two arms
// disagree on type, which the branch_join stub must report.
func TestBranchJoinReportsMismatch(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	matchExpr := &ast.MatchExpr{
		Scrutinee: &ast.Literal{Kind: ast.LitBool, Value: true},
		Arms: []ast.MatchArm{
			{
				Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: true},
				Body:    &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitInt, Value: 1}},
			},
			{
				Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: false},
				Body:    &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitBool, Value: true}},
			},
		},
	}
	decl := &ast.LetDeclaration{Name: "r", Body: &ast.BlockExpr{Result: matchExpr}}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	solved := Solve(out, tenv, reg)

	require.NotEmpty(t, solved.Diagnostics)
	found := false
	for _, r := range solved.Diagnostics {
		if r.Code == "SLV004" {
			found = true
		}
	}
	assert.True(t, found, "expected a branch_mismatch diagnostic")
}

// { x: 1 }.x resolves through the has_field stub.
func TestHasFieldResolvesProjection(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	proj := &ast.RecordProjection{
		Target: &ast.RecordLiteral{Fields: []ast.RecordField{
			{Name: "x", Value: &ast.Literal{Kind: ast.LitInt, Value: 1}},
		}},
		Field: "x",
	}
	decl := &ast.LetDeclaration{Name: "r", Body: &ast.BlockExpr{Result: proj}, Export: true}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	solved := Solve(out, tenv, reg)
	require.Empty(t, solved.Diagnostics)

	final := solved.Remarked.NodeTypeByID[proj.Id()]
	assert.True(t, types.Equal(final, types.Int))
}

// infectious error type Result<T, E> = @value Ok<T> | @effect Err<E>
// let forced: Int = match true { true => { Ok(1) }, false => { Err(Missing) } }
//
// spec.md §8 scenario 6: annotating a still-infectious match result with
// a bare Int must report exactly one infectious_call_result_mismatch,
// not a generic type_mismatch against the Result<Int, ...> shape.
func TestInfectiousCallResultMismatchReportedAtAnnotation(t *testing.T) {
	env, tenv, ops, reg := baseEnv()

	resultDecl := &ast.InfectiousDeclaration{
		Domain:      ast.DomainError,
		Name:        "Result",
		ValueParam:  "T",
		EffectParam: "E",
		ValueCtor:   ast.TypeMember{Name: "Ok", Args: []ast.TypeExpr{&ast.NamedTypeExpr{Name: "T"}}},
		EffectCtor:  ast.TypeMember{Name: "Err", Args: []ast.TypeExpr{&ast.NamedTypeExpr{Name: "E"}}},
	}
	parseErrorDecl := &ast.TypeDeclaration{
		Name:    "ParseError",
		Members: []ast.TypeMember{{Name: "Missing"}},
	}
	forcedDecl := &ast.LetDeclaration{
		Name:       "forced",
		Annotation: &ast.NamedTypeExpr{Name: "Int"},
		Body: &ast.BlockExpr{Result: &ast.MatchExpr{
			Scrutinee: &ast.Literal{Kind: ast.LitBool, Value: true},
			Arms: []ast.MatchArm{
				{
					Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: true},
					Body: &ast.BlockExpr{Result: &ast.ConstructorExpr{
						Name: "Ok", Args: []ast.Expr{&ast.Literal{Kind: ast.LitInt, Value: 1}},
					}},
				},
				{
					Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: false},
					Body: &ast.BlockExpr{Result: &ast.ConstructorExpr{
						Name: "Err", Args: []ast.Expr{&ast.ConstructorExpr{Name: "Missing"}},
					}},
				},
			},
		}},
		Export: true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{resultDecl, parseErrorDecl, forcedDecl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Empty(t, out.Diagnostics)

	solved := Solve(out, tenv, reg)
	require.Len(t, solved.Diagnostics, 1)
	assert.Equal(t, "IFX001", solved.Diagnostics[0].Code)
}

// A hole never touched by any stub stays classified unsolved.
func TestUnreferencedHoleStaysUnsolved(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{Name: "h", Body: &ast.BlockExpr{Result: &ast.HoleExpr{}}}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := infer.Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	solved := Solve(out, tenv, reg)

	require.Len(t, solved.HoleSolutions, 1)
	for _, sol := range solved.HoleSolutions {
		assert.Equal(t, HoleUnsolved, sol.Status)
	}
}
