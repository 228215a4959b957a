package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/types"
)

func optionEnv() *types.TypeEnv {
	tenv := types.NewTypeEnv()
	tenv.DeclareType(&types.TypeInfo{
		Name: "Option",
		Constructors: []*types.ConstructorInfo{
			{Name: "Some", TypeName: "Option"},
			{Name: "None", TypeName: "Option"},
		},
	})
	return tenv
}

func ctorArm(name string) ast.MatchArm {
	return ast.MatchArm{Pattern: &ast.ConstructorPattern{Name: name}}
}

func wildcardArm() ast.MatchArm {
	return ast.MatchArm{Pattern: &ast.WildcardPattern{}}
}

func TestExhaustiveOptionMatch(t *testing.T) {
	tenv := optionEnv()
	scrutinee := &types.Constructor{Name: "Option", Args: []types.Type{types.Int}}
	arms := []ast.MatchArm{ctorArm("Some"), ctorArm("None")}

	res, reports := Analyze(tenv, scrutinee, arms)
	assert.Empty(t, reports)
	assert.Empty(t, res.MissingConstructors)
	assert.ElementsMatch(t, []string{"None", "Some"}, res.CoveredConstructors)
}

func TestNonExhaustiveOptionMatch(t *testing.T) {
	tenv := optionEnv()
	scrutinee := &types.Constructor{Name: "Option", Args: []types.Type{types.Int}}
	arms := []ast.MatchArm{ctorArm("Some")}

	res, reports := Analyze(tenv, scrutinee, arms)
	require.Len(t, reports, 1)
	assert.Equal(t, "COV001", reports[0].Code)
	assert.Equal(t, []string{"None"}, res.MissingConstructors)
}

func TestWildcardDischargesCoverage(t *testing.T) {
	tenv := optionEnv()
	scrutinee := &types.Constructor{Name: "Option", Args: []types.Type{types.Int}}
	arms := []ast.MatchArm{ctorArm("Some"), wildcardArm()}

	res, reports := Analyze(tenv, scrutinee, arms)
	assert.Empty(t, reports)
	assert.True(t, res.CoversTail)
}

func TestDuplicateVariableBindingReported(t *testing.T) {
	tenv := types.NewTypeEnv()
	pair := &ast.ConstructorPattern{
		Name: "Pair",
		Args: []ast.Pattern{&ast.VarPattern{Name: "x"}, &ast.VarPattern{Name: "x"}},
	}
	arms := []ast.MatchArm{{Pattern: pair}, wildcardArm()}

	_, reports := Analyze(tenv, types.Int, arms)
	require.Len(t, reports, 1)
	assert.Equal(t, "INF003", reports[0].Code)
}

func TestEffectRowWildcardDischarges(t *testing.T) {
	tenv := types.NewTypeEnv()
	row := &types.EffectRow{Cases: []types.EffectCase{{Label: "DivByZero"}}, Tail: &types.Var{ID: 1}}
	arms := []ast.MatchArm{ctorArm("DivByZero"), wildcardArm()}

	res, reports := Analyze(tenv, row, arms)
	assert.Empty(t, reports)
	assert.True(t, res.DischargesResult)
}

func TestRedundantArmAfterWildcard(t *testing.T) {
	tenv := optionEnv()
	scrutinee := &types.Constructor{Name: "Option", Args: []types.Type{types.Int}}
	arms := []ast.MatchArm{wildcardArm(), ctorArm("Some")}

	res, _ := Analyze(tenv, scrutinee, arms)
	assert.Contains(t, res.RedundantArms, 1)
}
