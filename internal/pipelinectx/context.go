// Package pipelinectx owns the per-pipeline-run state that spec.md §5
// requires to be thread-local rather than global: the fresh-variable
// counter and hole-id counter. Grounded on the teacher's module-level
// typeVarCounter in types/types.go, generalized into an owned context
// object per the REDESIGN FLAGS note ("shared mutable counter globals
// ... a per-pipeline InferContext owns the counter").
package pipelinectx

import "github.com/google/uuid"

// Context is created once per pipeline run (one call to infer → solve
// → present for a single module) and threaded through all three
// layers. It is never shared across concurrent runs.
type Context struct {
	// RunID correlates diagnostics and logs emitted by one run; it has
	// no semantic meaning to the pipeline itself.
	RunID string

	varCounter  uint64
	holeCounter uint64
}

// New creates a pipeline context with a fresh run id.
func New() *Context {
	return &Context{RunID: uuid.NewString()}
}

// NewSeeded creates a pipeline context whose var/hole counters start
// from the given values, so a module-loader running the pipeline
// module-by-module in topological order can keep ids disjoint across
// modules without a global counter (spec.md §5: "No operation
// internally suspends ... fresh_var counter lives in a per-pipeline
// context object").
func NewSeeded(varStart, holeStart uint64) *Context {
	return &Context{RunID: uuid.NewString(), varCounter: varStart, holeCounter: holeStart}
}

// NextVar returns the next unification-variable id.
func (c *Context) NextVar() uint64 {
	c.varCounter++
	return c.varCounter
}

// NextHole returns the next hole id.
func (c *Context) NextHole() uint64 {
	c.holeCounter++
	return c.holeCounter
}

// VarCount reports how many variables have been minted so far (used by
// the loader to seed the next module's context disjointly).
func (c *Context) VarCount() uint64 { return c.varCounter }

// HoleCount reports how many holes have been minted so far.
func (c *Context) HoleCount() uint64 { return c.holeCounter }
