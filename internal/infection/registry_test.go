package infection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/types"
)

func TestSeedPreludeDeclaresResultAndTainted(t *testing.T) {
	r := SeedPrelude()
	assert.True(t, r.IsInfectious("Result"))
	assert.True(t, r.IsInfectious("Tainted"))
	assert.True(t, r.IsInfectious("Ptr"))
	assert.False(t, r.IsInfectious("Option"))
}

func TestMergePrefersImportingModule(t *testing.T) {
	imported := New()
	imported.Declare(&Info{Domain: ast.DomainError, Name: "Result", ValueCtor: "Ok", EffectCtor: "Err"})

	own := New()
	own.Declare(&Info{Domain: ast.DomainTaint, Name: "Result", ValueCtor: "Fine", EffectCtor: "Bad"})

	merged := own.Merge(imported)
	info, ok := merged.Lookup("Result")
	require.True(t, ok)
	assert.Equal(t, ast.DomainTaint, info.Domain)
}

func TestBoundaryCheckErrorDomainRequiresResultCarrier(t *testing.T) {
	remaining := &types.EffectRow{Cases: []types.EffectCase{{Label: "DivByZero"}}}
	rep := BoundaryCheck(ast.DomainError, types.Int, remaining, 1, ast.Span{})
	require.NotNil(t, rep)
	assert.Equal(t, "IFX001", rep.Code)
}

func TestBoundaryCheckErrorDomainSatisfiedByResultCarrier(t *testing.T) {
	remaining := &types.EffectRow{Cases: []types.EffectCase{{Label: "DivByZero"}}}
	returnType := &types.Constructor{Name: "Result", Args: []types.Type{types.Int, remaining}}
	rep := BoundaryCheck(ast.DomainError, returnType, remaining, 1, ast.Span{})
	assert.Nil(t, rep)
}

func TestBoundaryCheckEmptyRowNeverFails(t *testing.T) {
	rep := BoundaryCheck(ast.DomainMem, types.Unit, &types.EffectRow{}, 1, ast.Span{})
	assert.Nil(t, rep)
}

func TestDischargeWildcardClearsRowAcrossDomains(t *testing.T) {
	tenv := types.NewTypeEnv()
	for _, domain := range []ast.InfectionDomain{ast.DomainError, ast.DomainTaint, ast.DomainMem} {
		row := &types.EffectRow{Cases: []types.EffectCase{{Label: "Leaked"}}}
		arms := []ast.MatchArm{
			{Pattern: &ast.ConstructorPattern{Name: "Leaked"}},
			{Pattern: &ast.WildcardPattern{}},
		}
		remaining, res := Discharge(row, arms, tenv)
		assert.Truef(t, remaining.IsEmpty(), "domain %s should discharge under wildcard", domain)
		assert.True(t, res.CoversTail)
	}
}

func TestDischargeWithoutWildcardLeavesUnmatchedLabels(t *testing.T) {
	tenv := types.NewTypeEnv()
	row := &types.EffectRow{Cases: []types.EffectCase{{Label: "A"}, {Label: "B"}}}
	arms := []ast.MatchArm{{Pattern: &ast.ConstructorPattern{Name: "A"}}}

	remaining, _ := Discharge(row, arms, tenv)
	require.Len(t, remaining.Cases, 1)
	assert.Equal(t, "B", remaining.Cases[0].Label)
}
