package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestUnifier mints row-tail variables from a counter seeded well
// above any id a test hand-assigns to a *Var, so the both-open row
// reconciliation's fresh shared tail never collides with a test's own
// ids.
func newTestUnifier() *Unifier {
	next := uint64(1000)
	return NewUnifier(func() uint64 {
		next++
		return next
	})
}

func TestUnifyVarWithConcrete(t *testing.T) {
	u := newTestUnifier()
	v := &Var{ID: 1}
	require.NoError(t, u.Unify(v, Int))
	assert.True(t, Equal(ApplySubstitution(u.Sub, v), Int))
}

func TestUnifyOccursCheck(t *testing.T) {
	u := newTestUnifier()
	v := &Var{ID: 1}
	cyclic := &Tuple{Elements: []Type{v}}
	err := u.Unify(v, cyclic)
	require.Error(t, err)
	ue, ok := err.(*UnifyError)
	require.True(t, ok)
	assert.Equal(t, "occurs_cycle", ue.Reason)
}

func TestUnifyFuncArity(t *testing.T) {
	u := newTestUnifier()
	a := &Func{From: Int, To: Bool}
	b := &Func{From: Int, To: &Tuple{Elements: []Type{Int, Int}}}
	err := u.Unify(a, b)
	require.Error(t, err)
}

func TestUnifyFuncSuccess(t *testing.T) {
	u := newTestUnifier()
	va := &Var{ID: 1}
	a := &Func{From: Int, To: va}
	b := &Func{From: Int, To: Bool}
	require.NoError(t, u.Unify(a, b))
	assert.True(t, Equal(ApplySubstitution(u.Sub, va), Bool))
}

func TestUnifyConstructorNameMismatch(t *testing.T) {
	u := newTestUnifier()
	a := &Constructor{Name: "Option", Args: []Type{Int}}
	b := &Constructor{Name: "Result", Args: []Type{Int, Str}}
	err := u.Unify(a, b)
	require.Error(t, err)
}

func TestUnifyConstructorArgsPropagate(t *testing.T) {
	u := newTestUnifier()
	va := &Var{ID: 1}
	a := &Constructor{Name: "Option", Args: []Type{va}}
	b := &Constructor{Name: "Option", Args: []Type{Int}}
	require.NoError(t, u.Unify(a, b))
	assert.True(t, Equal(ApplySubstitution(u.Sub, va), Int))
}

func TestUnifyClosedRecordMissingField(t *testing.T) {
	u := newTestUnifier()
	a := &Record{Fields: []RecordField{{Name: "x", Type: Int}}}
	b := &Record{Fields: []RecordField{{Name: "x", Type: Int}, {Name: "y", Type: Bool}}}
	err := u.Unify(a, b)
	require.Error(t, err)
}

func TestUnifyOpenRecordExtendsRow(t *testing.T) {
	u := newTestUnifier()
	row := &Var{ID: 99}
	a := &Record{Fields: []RecordField{{Name: "x", Type: Int}}, Row: row}
	b := &Record{Fields: []RecordField{{Name: "x", Type: Int}, {Name: "y", Type: Bool}}}
	require.NoError(t, u.Unify(a, b))
	resolved := ApplySubstitution(u.Sub, row)
	rec, ok := resolved.(*Record)
	require.True(t, ok)
	yt, ok := rec.FieldType("y")
	require.True(t, ok)
	assert.True(t, Equal(yt, Bool))
}

// TestUnifyOpenRecordBothSidesExtend pins the row-unification shape
// row_unification.go describes: each side's tail resolves to exactly
// the fields the *other* side uniquely carries, closed over a shared
// fresh tail variable neither side's original row. testify's
// assert.Equal would need a brittle %v comparison over the resulting
// *Record (itself holding a *Var row pointer); cmp.Diff gives a
// structural diff and lets field order vary, which the row
// reconciliation doesn't promise.
func TestUnifyOpenRecordBothSidesExtend(t *testing.T) {
	u := newTestUnifier()
	rowA := &Var{ID: 1}
	rowB := &Var{ID: 2}
	a := &Record{Fields: []RecordField{{Name: "x", Type: Int}}, Row: rowA}
	b := &Record{Fields: []RecordField{{Name: "y", Type: Bool}}, Row: rowB}
	require.NoError(t, u.Unify(a, b))

	byName := cmpopts.SortSlices(func(p, q RecordField) bool { return p.Name < q.Name })

	// rowA's resolved value is what a's tail had to gain to match b: b's
	// unique field, "y".
	gotA := ApplySubstitution(u.Sub, rowA)
	recA, ok := gotA.(*Record)
	require.True(t, ok)
	if diff := cmp.Diff([]RecordField{{Name: "y", Type: Bool}}, recA.Fields, byName); diff != "" {
		t.Errorf("rowA resolved fields mismatch (-want +got):\n%s", diff)
	}

	// rowB's resolved value is symmetric: a's unique field, "x".
	gotB := ApplySubstitution(u.Sub, rowB)
	recB, ok := gotB.(*Record)
	require.True(t, ok)
	if diff := cmp.Diff([]RecordField{{Name: "x", Type: Int}}, recB.Fields, byName); diff != "" {
		t.Errorf("rowB resolved fields mismatch (-want +got):\n%s", diff)
	}

	// Both sides, viewed through their own Fields plus resolved tail,
	// now present the same full field set.
	wantFields := []RecordField{{Name: "x", Type: Int}, {Name: "y", Type: Bool}}
	combinedA := append(append([]RecordField{}, a.Fields...), recA.Fields...)
	combinedB := append(append([]RecordField{}, b.Fields...), recB.Fields...)
	if diff := cmp.Diff(wantFields, combinedA, byName); diff != "" {
		t.Errorf("a's combined view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantFields, combinedB, byName); diff != "" {
		t.Errorf("b's combined view mismatch (-want +got):\n%s", diff)
	}

	// rowA and rowB resolve to the same tail variable, freshly minted
	// rather than either side's original row.
	tailA := recA.Row
	require.NotNil(t, tailA)
	tailB := recB.Row
	require.NotNil(t, tailB)
	assert.Equal(t, tailA.ID, tailB.ID)
	assert.NotEqual(t, rowA.ID, tailA.ID)
	assert.NotEqual(t, rowB.ID, tailA.ID)
}

func TestUnifyEffectRowWildcardAbsorbs(t *testing.T) {
	u := newTestUnifier()
	a := &EffectRow{HasTailWildcard: true}
	b := &EffectRow{Cases: []EffectCase{{Label: "DivByZero"}}}
	require.NoError(t, u.Unify(a, b))
}

func TestUnifyEffectRowDisjointClosedFails(t *testing.T) {
	u := newTestUnifier()
	a := &EffectRow{Cases: []EffectCase{{Label: "DivByZero"}}}
	b := &EffectRow{Cases: []EffectCase{{Label: "Overflow"}}}
	err := u.Unify(a, b)
	require.Error(t, err)
}

func TestGeneralizeAndInstantiate(t *testing.T) {
	env := NewValueEnv()
	v := &Var{ID: 1}
	idType := &Func{From: v, To: v}
	sch := Generalize(env, idType)
	assert.Len(t, sch.Quantified, 1)

	next := uint64(100)
	fresh := func() uint64 { next++; return next }
	inst := Instantiate(sch, fresh)
	fn, ok := inst.(*Func)
	require.True(t, ok)
	assert.True(t, Equal(fn.From, fn.To))
	_, isVar := fn.From.(*Var)
	assert.True(t, isVar)
}

func TestGeneralizeExcludesEnvBoundVars(t *testing.T) {
	env := NewValueEnv()
	v := &Var{ID: 5}
	env.Bind("x", Mono(v))
	sch := Generalize(env, v)
	assert.Empty(t, sch.Quantified)
}
