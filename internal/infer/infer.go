package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/pipelinectx"
	"github.com/wisplang/wisp/internal/types"
)

// inferer carries the mutable state threaded through one module's
// Layer-1 pass. Grounded on the teacher's typechecker_core.go pattern
// of a single struct owning the environment, the accumulating
// substitution, and a diagnostics slice, all mutated by pointer-receiver
// methods during one downward AST walk.
type inferer struct {
	ctx          *pipelinectx.Context
	env          *types.ValueEnv
	tenv         *types.TypeEnv
	ops          *types.OperatorTable
	infectionReg *infection.Registry
	unifier      *types.Unifier

	marks          map[ast.NodeId]Mark
	nodeTypeByID   map[ast.NodeId]types.Type
	stubs          []*Stub
	holes          map[HoleId]*UnknownInfo
	diagnostics    []*diag.Report
	summaries      map[string]*types.Scheme
	instantiations []Instantiation
}

// Instantiation records one polymorphic name's instantiation site:
// which scheme was instantiated, where, and how many quantifiers were
// replaced with fresh variables. Layer-1 only records schemes with at
// least one quantifier — instantiating a monotype is not interesting
// to a reader debugging generalization. Surfaced through
// present.Result.DebugInfo for tooling that wants to see where
// polymorphism was actually used, not just declared.
type Instantiation struct {
	Name       string
	NodeID     ast.NodeId
	Span       ast.Span
	Quantified int
	Result     types.Type
}

// Output is exactly spec.md §2's Layer-1 data-flow tuple.
type Output struct {
	MarkedProgram   *MarkedProgram
	ConstraintStubs []*Stub
	Holes           map[HoleId]*UnknownInfo
	NodeTypeByID    map[ast.NodeId]types.Type
	Summaries       map[string]*types.Scheme
	Env             *types.ValueEnv
	AdtEnv          *types.TypeEnv
	Diagnostics     []*diag.Report
	Instantiations  []Instantiation

	// Ctx is the pipeline context Layer-1 minted variable/hole ids
	// from. Layer-2 reuses its NextVar so a row unification's freshly
	// shared tail variable continues the same sequence instead of
	// risking a collision with an id either layer already assigned.
	Ctx *pipelinectx.Context
}

// Infer runs Layer-1 over one module's program. env/tenv/ops/reg are
// the module's seed environments — typically the prelude merged with
// the module's own dependency exports, built by the loader (C7).
func Infer(ctx *pipelinectx.Context, prog *ast.Program, env *types.ValueEnv, tenv *types.TypeEnv, ops *types.OperatorTable, reg *infection.Registry) *Output {
	inf := &inferer{
		ctx: ctx, env: env, tenv: tenv, ops: ops, infectionReg: reg,
		unifier:      types.NewUnifier(ctx.NextVar),
		marks:        map[ast.NodeId]Mark{},
		nodeTypeByID: map[ast.NodeId]types.Type{},
		holes:        map[HoleId]*UnknownInfo{},
		summaries:    map[string]*types.Scheme{},
	}

	inf.canonicalize(prog)

	var recGroup []*ast.LetDeclaration
	seenGroup := map[string]bool{}

	for _, d := range prog.Declarations {
		switch d := d.(type) {
		case *ast.TypeDeclaration:
			inf.processTypeDecl(d)
		case *ast.InfixDeclaration:
			inf.processInfixDecl(d)
		case *ast.PrefixDeclaration:
			inf.processPrefixDecl(d)
		case *ast.InfectiousDeclaration:
			inf.processInfectiousDecl(d)
		case *ast.LetDeclaration:
			if d.IsRecursive && len(d.MutualBindings) > 0 && !seenGroup[d.Name] {
				recGroup = collectGroup(prog, d)
				for _, n := range recGroup {
					seenGroup[n.Name] = true
				}
				inf.inferRecGroup(recGroup)
				continue
			}
			if seenGroup[d.Name] {
				continue
			}
			inf.inferLetDecl(d)
		}
	}

	return &Output{
		MarkedProgram:   &MarkedProgram{Program: prog, Marks: inf.marks, NodeTypeByID: inf.nodeTypeByID},
		ConstraintStubs: inf.stubs,
		Holes:           inf.holes,
		NodeTypeByID:    inf.nodeTypeByID,
		Summaries:       inf.summaries,
		Env:             inf.env,
		AdtEnv:          inf.tenv,
		Diagnostics:     inf.diagnostics,
		Instantiations:  inf.instantiations,
		Ctx:             ctx,
	}
}

// instantiate replaces sch's quantifiers with fresh variables and, if
// sch was actually polymorphic, records the instantiation site for
// present.Result.DebugInfo.
func (inf *inferer) instantiate(name string, sch *types.Scheme, nodeID ast.NodeId, span ast.Span) types.Type {
	result := types.Instantiate(sch, inf.ctx.NextVar)
	if len(sch.Quantified) > 0 {
		inf.instantiations = append(inf.instantiations, Instantiation{
			Name: name, NodeID: nodeID, Span: span, Quantified: len(sch.Quantified), Result: result,
		})
	}
	return result
}

func collectGroup(prog *ast.Program, first *ast.LetDeclaration) []*ast.LetDeclaration {
	names := map[string]bool{first.Name: true}
	for _, n := range first.MutualBindings {
		names[n] = true
	}
	var group []*ast.LetDeclaration
	for _, d := range prog.Declarations {
		if ld, ok := d.(*ast.LetDeclaration); ok && names[ld.Name] {
			group = append(group, ld)
		}
	}
	return group
}

// inferRecGroup binds every name in a mutually-recursive group to a
// fresh variable scheme before inferring any body, then generalizes
// each once all bodies have been walked (spec.md §4.3: "let rec f …
// and g … introduces all names with fresh variable schemes before
// inferring any body").
func (inf *inferer) inferRecGroup(group []*ast.LetDeclaration) {
	placeholders := map[string]*types.Var{}
	for _, d := range group {
		v := &types.Var{ID: inf.ctx.NextVar()}
		placeholders[d.Name] = v
		inf.env.Bind(d.Name, types.Mono(v))
	}
	bodies := make([]types.Type, len(group))
	for i, d := range group {
		bodies[i] = inf.inferLetBody(d)
		inf.unify(placeholders[d.Name], bodies[i], d.Id(), d.Span())
	}
	for i, d := range group {
		sch := types.Generalize(inf.env, types.ApplySubstitution(inf.unifier.Sub, bodies[i]))
		inf.env.Bind(d.Name, sch)
		if d.Export {
			inf.summaries[d.Name] = sch
		}
	}
}

func (inf *inferer) inferLetDecl(d *ast.LetDeclaration) {
	t := inf.inferLetBody(d)
	resolved := types.ApplySubstitution(inf.unifier.Sub, t)
	var sch *types.Scheme
	if isSyntacticValue(d) {
		sch = types.Generalize(inf.env, resolved)
	} else {
		sch = types.Mono(resolved)
	}
	inf.env.Bind(d.Name, sch)
	if d.Export {
		inf.summaries[d.Name] = sch
	}
}

// isSyntacticValue approximates HM's value restriction: a top-level
// let generalizes only if its parameter list is non-empty (it is
// already a function, hence a value) or its body's result is itself a
// syntactic value (isSyntacticValueExpr). A bare call result (e.g.
// `let x = f(y)`) does not generalize, and a match bundle generalizes
// only when every arm body's result is itself a value.
func isSyntacticValue(d *ast.LetDeclaration) bool {
	if len(d.Parameters) > 0 {
		return true
	}
	if d.Body == nil || d.Body.Result == nil {
		return true
	}
	return isSyntacticValueExpr(d.Body.Result)
}

func (inf *inferer) inferLetBody(d *ast.LetDeclaration) types.Type {
	local := inf.env.Child()
	var funcType types.Type
	if len(d.Parameters) == 0 {
		bodyType := inf.inferBlock(d.Body, local)
		funcType = bodyType
	} else {
		paramTypes := make([]types.Type, len(d.Parameters))
		for i, p := range d.Parameters {
			paramTypes[i] = inf.inferPattern(p.Pattern, local)
			if p.Annotation != nil {
				ann := inf.elaborateTypeExpr(p.Annotation, nil)
				inf.unify(ann, paramTypes[i], p.Pattern.Id(), p.Pattern.Span())
			}
		}
		bodyType := inf.inferBlock(d.Body, local)
		funcType = bodyType
		for i := len(paramTypes) - 1; i >= 0; i-- {
			funcType = &types.Func{From: paramTypes[i], To: funcType}
		}
	}
	if d.Annotation != nil {
		ann := inf.elaborateTypeExpr(d.Annotation, nil)
		// Deferred rather than unified immediately: funcType may still be
		// an unsolved call-stub result var whose infectious carrier shape
		// (and remaining effect row) only settles once Layer-2 has run
		// the call/branch-join stubs it depends on. Checking too early
		// would bind the var outright instead of letting the boundary
		// rule (spec.md §4.6) see the row that actually remains.
		inf.stubs = append(inf.stubs, &Stub{
			Kind: StubAnnotation, Origin: d.Id(), Span: d.Span(),
			Annotation: ann, Value: funcType, Subject: d.Id(),
		})
	}
	return funcType
}

func (inf *inferer) inferBlock(b *ast.BlockExpr, env *types.ValueEnv) types.Type {
	if b == nil {
		return types.Unit
	}
	local := env
	for _, s := range b.Statements {
		switch s := s.(type) {
		case *ast.LetStmt:
			vt := inf.inferExpr(s.Value, local)
			resolved := types.ApplySubstitution(inf.unifier.Sub, vt)
			var sch *types.Scheme
			if isSyntacticValueExpr(s.Value) {
				sch = types.Generalize(local, resolved)
			} else {
				sch = types.Mono(resolved)
			}
			if s.Annotation != nil {
				ann := inf.elaborateTypeExpr(s.Annotation, nil)
				// Same deferral as inferLetBody's declaration-level
				// annotation: vt (not the partially-resolved `resolved`)
				// so the stub sees whatever Layer-2 ultimately solves it
				// to.
				inf.stubs = append(inf.stubs, &Stub{
					Kind: StubAnnotation, Origin: s.Id(), Span: s.Span(),
					Annotation: ann, Value: vt, Subject: s.Id(),
				})
			}
			local = local.Child()
			local.Bind(s.Name, sch)
		case *ast.ExprStmt:
			inf.inferExpr(s.Value, local)
		}
	}
	if b.Result != nil {
		inf.nodeTypeByID[b.Id()] = inf.inferExpr(b.Result, local)
		return inf.nodeTypeByID[b.Id()]
	}
	inf.nodeTypeByID[b.Id()] = types.Unit
	return types.Unit
}

func isSyntacticValueExpr(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.CallExpr:
		return false
	case *ast.MatchBundleExpr:
		for _, a := range e.Arms {
			if a.Body != nil && a.Body.Result != nil && !isSyntacticValueExpr(a.Body.Result) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
