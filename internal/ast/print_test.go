package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringLiteral(t *testing.T) {
	lit := &Literal{Kind: LitInt, Value: 42}
	assert.Equal(t, "42", String(lit))
}

func TestStringCall(t *testing.T) {
	call := &CallExpr{
		Func: &Identifier{Name: "f"},
		Arg:  &Identifier{Name: "x"},
	}
	assert.Equal(t, "f(x)", String(call))
}

func TestStringConstructorNoArgs(t *testing.T) {
	ctor := &ConstructorExpr{Name: "None"}
	assert.Equal(t, "None", String(ctor))
}

func TestPatternStringConstructor(t *testing.T) {
	pat := &ConstructorPattern{
		Name: "Some",
		Args: []Pattern{&VarPattern{Name: "x"}},
	}
	assert.Equal(t, "Some(x)", PatternString(pat))
}
