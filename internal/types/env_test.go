package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEnvLookupWalksParent(t *testing.T) {
	root := NewValueEnv()
	root.Bind("x", Mono(Int))
	child := root.Child()
	child.Bind("y", Mono(Bool))

	_, ok := child.Lookup("x")
	assert.True(t, ok)
	_, ok = child.Lookup("y")
	assert.True(t, ok)
	_, ok = root.Lookup("y")
	assert.False(t, ok)
}

func TestTypeEnvConstructorLookup(t *testing.T) {
	te := NewTypeEnv()
	te.DeclareType(&TypeInfo{
		Name:   "Option",
		Params: []uint64{1},
		Constructors: []*ConstructorInfo{
			{Name: "Some", TypeName: "Option", FieldTypes: []Type{&Var{ID: 1}}},
			{Name: "None", TypeName: "Option"},
		},
	})

	c, ok := te.LookupConstructor("Some")
	require.True(t, ok)
	assert.Equal(t, "Option", c.TypeName)

	info, ok := te.TypeOfConstructor("None")
	require.True(t, ok)
	assert.Len(t, info.Constructors, 2)

	_, ok = te.LookupConstructor("NotACtor")
	assert.False(t, ok)
}

func TestOperatorTableCloneIsIndependent(t *testing.T) {
	base := NewOperatorTable()
	base.DeclareInfix(&OperatorEntry{Symbol: "+", Precedence: 6})
	clone := base.Clone()
	clone.DeclareInfix(&OperatorEntry{Symbol: "*", Precedence: 7})

	_, ok := base.LookupInfix("*")
	assert.False(t, ok)
	_, ok = clone.LookupInfix("+")
	assert.True(t, ok)
}
