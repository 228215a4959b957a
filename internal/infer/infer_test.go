package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/pipelinectx"
	"github.com/wisplang/wisp/internal/types"
)

func baseEnv() (*types.ValueEnv, *types.TypeEnv, *types.OperatorTable, *infection.Registry) {
	return types.NewValueEnv(), types.NewTypeEnv(), types.NewOperatorTable(), infection.SeedPrelude()
}

// let id = (x) => { x }
func identityDecl() *ast.LetDeclaration {
	return &ast.LetDeclaration{
		Name:       "id",
		Parameters: []ast.Param{{Pattern: &ast.VarPattern{Name: "x"}}},
		Body:       &ast.BlockExpr{Result: &ast.Identifier{Name: "x"}},
		Export:     true,
	}
}

func TestPolymorphicIdentityGeneralizes(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	prog := &ast.Program{Declarations: []ast.Decl{identityDecl()}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Empty(t, out.Diagnostics)

	sch, ok := out.Summaries["id"]
	require.True(t, ok)
	assert.Len(t, sch.Quantified, 1)
}

// let oops = f(y)  where f, y are free -> two free_variable diagnostics
func TestFreeVariableReported(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{
		Name: "oops",
		Body: &ast.BlockExpr{Result: &ast.CallExpr{
			Func: &ast.Identifier{Name: "f"},
			Arg:  &ast.Identifier{Name: "y"},
		}},
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Len(t, out.Diagnostics, 2)
	for _, r := range out.Diagnostics {
		assert.Equal(t, "INF001", r.Code)
	}
}

// match true { case true => { 1 } } over a Bool scrutinee, missing the
// false arm and no wildcard, must report non_exhaustive_match — Bool's
// universe is finite ({true, false}), not the "always requires a
// wildcard" bucket the other primitives fall into.
func TestNonExhaustiveBoolMatchReported(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{
		Name: "oops",
		Body: &ast.BlockExpr{Result: &ast.MatchExpr{
			Scrutinee: &ast.Literal{Kind: ast.LitBool, Value: true},
			Arms: []ast.MatchArm{
				{
					Pattern: &ast.LitPattern{Kind: ast.LitBool, Value: true},
					Body:    &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitInt}},
				},
			},
		}},
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.NotEmpty(t, out.Diagnostics)
	var found bool
	for _, r := range out.Diagnostics {
		if r.Code == "COV001" {
			found = true
		}
	}
	assert.True(t, found, "expected a non-exhaustive match diagnostic")
}

func TestADTConstructorDeclarationBindsCtorSchemes(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	optionDecl := &ast.TypeDeclaration{
		Name:   "Option",
		Params: []string{"a"},
		Members: []ast.TypeMember{
			{Name: "Some", Args: []ast.TypeExpr{&ast.NamedTypeExpr{Name: "a"}}},
			{Name: "None"},
		},
	}
	// let some1 = Some(1)
	someDecl := &ast.LetDeclaration{
		Name:   "some1",
		Body:   &ast.BlockExpr{Result: &ast.ConstructorExpr{Name: "Some", Args: []ast.Expr{&ast.Literal{Kind: ast.LitInt, Value: 1}}}},
		Export: true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{optionDecl, someDecl}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Empty(t, out.Diagnostics)

	info, ok := tenv.LookupType("Option")
	require.True(t, ok)
	assert.Len(t, info.Constructors, 2)

	sch := out.Summaries["some1"]
	require.NotNil(t, sch)
	resolved := types.ApplySubstitution(types.Substitution{}, sch.Body)
	ctor, ok := resolved.(*types.Constructor)
	require.True(t, ok)
	assert.Equal(t, "Option", ctor.Name)
}

func TestDuplicateRecordFieldReported(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{
		Name: "r",
		Body: &ast.BlockExpr{Result: &ast.RecordLiteral{Fields: []ast.RecordField{
			{Name: "x", Value: &ast.Literal{Kind: ast.LitInt, Value: 1}},
			{Name: "x", Value: &ast.Literal{Kind: ast.LitInt, Value: 2}},
		}}},
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, "INF002", out.Diagnostics[0].Code)
}

func TestHoleExprAllocatesHole(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	decl := &ast.LetDeclaration{
		Name: "h",
		Body: &ast.BlockExpr{Result: &ast.HoleExpr{}},
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Len(t, out.Holes, 1)
}

func TestMatchFnCanonicalizedBeforeInference(t *testing.T) {
	env, tenv, ops, reg := baseEnv()
	// let f = match(x) => { _ => 1 }, desugared by canonicalize().
	matchFn := &ast.MatchFnExpr{Arms: []ast.MatchArm{
		{Pattern: &ast.WildcardPattern{}, Body: &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitInt, Value: 1}}},
	}}
	decl := &ast.LetDeclaration{
		Name:          "f",
		Body:          &ast.BlockExpr{Result: matchFn},
		IsArrowSyntax: true,
		Export:        true,
	}
	prog := &ast.Program{Declarations: []ast.Decl{decl}}

	out := Infer(pipelinectx.New(), prog, env, tenv, ops, reg)
	require.Empty(t, out.Diagnostics)
	sch := out.Summaries["f"]
	require.NotNil(t, sch)
	fn, ok := sch.Body.(*types.Func)
	require.True(t, ok)
	// The match's result is its branch_join stub's variable, which only
	// Layer-2 resolves; the single arm's Int is carried on that stub.
	var join *Stub
	for _, st := range out.ConstraintStubs {
		if st.Kind == StubBranchJoin && types.Equal(st.Result, fn.To) {
			join = st
		}
	}
	require.NotNil(t, join)
	require.Len(t, join.Branches, 1)
	assert.True(t, types.Equal(join.Branches[0], types.Int))
}
