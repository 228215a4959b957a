package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
)

func mathModule() *Source {
	decl := &ast.LetDeclaration{
		Name:       "addOne",
		Parameters: []ast.Param{{Pattern: &ast.VarPattern{Name: "x"}}},
		Body:       &ast.BlockExpr{Result: &ast.Identifier{Name: "x"}},
		Export:     true,
	}
	return &Source{Path: "math", Program: &ast.Program{Declarations: []ast.Decl{decl}}}
}

func TestRunSeedsImporterFromDependencyExports(t *testing.T) {
	mainProg := &ast.Program{
		Imports: []*ast.ModuleImport{{Path: "math", Symbols: []string{"addOne"}}},
		Declarations: []ast.Decl{
			&ast.LetDeclaration{
				Name: "useIt",
				Body: &ast.BlockExpr{Result: &ast.CallExpr{
					Func: &ast.Identifier{Name: "addOne"},
					Arg:  &ast.Literal{Kind: ast.LitInt, Value: 1},
				}},
			},
		},
	}
	sources := map[string]*Source{
		"math": mathModule(),
		"main": {Path: "main", Program: mainProg},
	}

	results, diagnostics := Run(sources, "main")
	require.Empty(t, diagnostics)
	require.Contains(t, results, "math")
	require.Contains(t, results, "main")
	assert.Contains(t, results["math"].Exports, "addOne")
}

func TestRunDetectsCircularImport(t *testing.T) {
	a := &Source{Path: "a", Program: &ast.Program{
		Imports: []*ast.ModuleImport{{Path: "b"}},
	}}
	b := &Source{Path: "b", Program: &ast.Program{
		Imports: []*ast.ModuleImport{{Path: "a"}},
	}}
	sources := map[string]*Source{"a": a, "b": b}

	results, diagnostics := Run(sources, "a")
	assert.Nil(t, results)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "LDR002", diagnostics[0].Code)
}

func TestRunReportsModuleNotFound(t *testing.T) {
	main := &Source{Path: "main", Program: &ast.Program{
		Imports: []*ast.ModuleImport{{Path: "missing"}},
	}}
	sources := map[string]*Source{"main": main}

	results, diagnostics := Run(sources, "main")
	assert.Nil(t, results)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "LDR001", diagnostics[0].Code)
}

func TestRunDetectsDuplicateExportCollision(t *testing.T) {
	fooA := &Source{Path: "fooA", Program: &ast.Program{Declarations: []ast.Decl{
		&ast.LetDeclaration{Name: "foo", Body: &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitInt, Value: 1}}, Export: true},
	}}}
	fooB := &Source{Path: "fooB", Program: &ast.Program{Declarations: []ast.Decl{
		&ast.LetDeclaration{Name: "foo", Body: &ast.BlockExpr{Result: &ast.Literal{Kind: ast.LitInt, Value: 2}}, Export: true},
	}}}
	main := &Source{Path: "main", Program: &ast.Program{
		Imports: []*ast.ModuleImport{
			{Path: "fooA", Symbols: []string{"foo"}},
			{Path: "fooB", Symbols: []string{"foo"}},
		},
	}}
	sources := map[string]*Source{"fooA": fooA, "fooB": fooB, "main": main}

	_, diagnostics := Run(sources, "main")
	require.NotEmpty(t, diagnostics)
	found := false
	for _, r := range diagnostics {
		if r.Code == "LDR003" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadWorkspaceConfigErrorsOnMissingExplicitFile(t *testing.T) {
	cfg, err := LoadWorkspaceConfig("/nonexistent/path/does/not/exist.yaml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadWorkspaceConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadWorkspaceConfig("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.SearchPaths)
	assert.Equal(t, "std/prelude", cfg.PreludeID)
}

func TestParseFrontmatter(t *testing.T) {
	fm, err := ParseFrontmatter("name: geometry\nexports: [area, perimeter]\n")
	require.NoError(t, err)
	assert.Equal(t, "geometry", fm.Name)
	assert.ElementsMatch(t, []string{"area", "perimeter"}, fm.Exports)
}
