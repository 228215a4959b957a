package astjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
)

// let id = (x) => { x };
func identityProgram() *ast.Program {
	return &ast.Program{
		Declarations: []ast.Decl{
			&ast.LetDeclaration{
				Name:       "id",
				Parameters: []ast.Param{{Pattern: &ast.VarPattern{Name: "x"}}},
				Body:       &ast.BlockExpr{Result: &ast.Identifier{Name: "x"}},
				Export:     true,
			},
		},
	}
}

func TestEncodeDecodeRoundTripsIdentity(t *testing.T) {
	prog := identityProgram()

	data, err := Encode(prog)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, got.Declarations, 1)
	decl, ok := got.Declarations[0].(*ast.LetDeclaration)
	require.True(t, ok)
	assert.Equal(t, "id", decl.Name)
	assert.True(t, decl.Export)
	require.Len(t, decl.Parameters, 1)
	vp, ok := decl.Parameters[0].Pattern.(*ast.VarPattern)
	require.True(t, ok)
	assert.Equal(t, "x", vp.Name)
	ident, ok := decl.Body.Result.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

// type Option<T> = None | Some<T>;
// let mapOption = (f, opt) => {
//   match(opt) { Some(x) => { Some(f(x)) }, None => { None } }
// };
func mapOptionProgram() *ast.Program {
	typeDecl := &ast.TypeDeclaration{
		Name:   "Option",
		Params: []string{"T"},
		Members: []ast.TypeMember{
			{Name: "None"},
			{Name: "Some", Args: []ast.TypeExpr{&ast.NamedTypeExpr{Name: "T"}}},
		},
	}
	matchExpr := &ast.MatchExpr{
		Scrutinee: &ast.Identifier{Name: "opt"},
		Arms: []ast.MatchArm{
			{
				Pattern: &ast.ConstructorPattern{Name: "Some", Args: []ast.Pattern{&ast.VarPattern{Name: "x"}}},
				Body: &ast.BlockExpr{Result: &ast.ConstructorExpr{
					Name: "Some",
					Args: []ast.Expr{&ast.CallExpr{Func: &ast.Identifier{Name: "f"}, Arg: &ast.Identifier{Name: "x"}}},
				}},
			},
			{
				Pattern: &ast.ConstructorPattern{Name: "None"},
				Body:    &ast.BlockExpr{Result: &ast.ConstructorExpr{Name: "None"}},
			},
		},
	}
	letDecl := &ast.LetDeclaration{
		Name: "mapOption",
		Parameters: []ast.Param{
			{Pattern: &ast.VarPattern{Name: "f"}},
			{Pattern: &ast.VarPattern{Name: "opt"}},
		},
		Body:   &ast.BlockExpr{Result: matchExpr},
		Export: true,
	}
	return &ast.Program{Declarations: []ast.Decl{typeDecl, letDecl}}
}

func TestEncodeDecodeRoundTripsMatchAndADT(t *testing.T) {
	prog := mapOptionProgram()

	data, err := Encode(prog)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Declarations, 2)

	td, ok := got.Declarations[0].(*ast.TypeDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Option", td.Name)
	require.Len(t, td.Members, 2)
	assert.Equal(t, "Some", td.Members[1].Name)

	ld, ok := got.Declarations[1].(*ast.LetDeclaration)
	require.True(t, ok)
	match, ok := ld.Body.Result.(*ast.MatchExpr)
	require.True(t, ok)
	require.Len(t, match.Arms, 2)
	cp, ok := match.Arms[0].Pattern.(*ast.ConstructorPattern)
	require.True(t, ok)
	assert.Equal(t, "Some", cp.Name)
}

func TestDecodeRejectsUnknownExprKind(t *testing.T) {
	_, err := Decode([]byte(`{
		"declarations": [{
			"kind": "let_decl",
			"name": "bad",
			"body": {"kind": "block", "statements": [], "result": {"kind": "not_a_real_kind"}}
		}]
	}`))
	require.Error(t, err)
}
