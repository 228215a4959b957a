package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wisplang/wisp/internal/ast"
)

func TestReportToJSON(t *testing.T) {
	r := New(SLV004, PhaseSolve, ReasonBranchMismatch, 7, ast.Span{}, "branch types disagree", nil)
	out, err := r.ToJSON(true)
	assert.NoError(t, err)
	assert.Contains(t, out, `"code":"SLV004"`)
	assert.Contains(t, out, `"reason":"branch_mismatch"`)
}

func TestWrapAndAsReport(t *testing.T) {
	r := New(COV001, PhaseCoverage, ReasonNonExhaustiveMatch, 1, ast.Span{}, "missing arm", nil)
	err := Wrap(r)
	got, ok := AsReport(err)
	assert.True(t, ok)
	assert.Equal(t, r, got)
}

func TestAsReportFalseForPlainError(t *testing.T) {
	_, ok := AsReport(assert.AnError)
	assert.False(t, ok)
}
