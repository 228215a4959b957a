package infer

import "github.com/wisplang/wisp/internal/ast"

// synthIDs hands out node ids strictly above the program's existing
// maximum, per spec.md §3's lowering-pre-pass invariant.
type synthIDs struct{ next ast.NodeId }

func newSynthIDs(prog *ast.Program) *synthIDs {
	max := ast.NodeId(0)
	var walk func(ast.Node)
	seen := map[ast.Node]bool{}
	walk = func(n ast.Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if n.Id() > max {
			max = n.Id()
		}
	}
	walkProgram(prog, walk)
	return &synthIDs{next: max + 1}
}

func (s *synthIDs) fresh(span ast.Span) ast.Base {
	b := ast.NewBase(s.next, span)
	s.next++
	return b
}

// walkProgram visits every node reachable from prog's declarations,
// calling visit on each. It is a read-only traversal used to compute
// the pre-existing maximum NodeId before lowering synthesizes new ones.
func walkProgram(prog *ast.Program, visit func(ast.Node)) {
	for _, d := range prog.Declarations {
		walkDecl(d, visit)
	}
}

func walkDecl(d ast.Decl, visit func(ast.Node)) {
	visit(d)
	switch d := d.(type) {
	case *ast.LetDeclaration:
		walkBlock(d.Body, visit)
	}
}

func walkBlock(b *ast.BlockExpr, visit func(ast.Node)) {
	if b == nil {
		return
	}
	visit(b)
	for _, s := range b.Statements {
		walkStmt(s, visit)
	}
	if b.Result != nil {
		walkExpr(b.Result, visit)
	}
}

func walkStmt(s ast.Stmt, visit func(ast.Node)) {
	visit(s)
	switch s := s.(type) {
	case *ast.LetStmt:
		walkExpr(s.Value, visit)
	case *ast.ExprStmt:
		walkExpr(s.Value, visit)
	}
}

func walkExpr(e ast.Expr, visit func(ast.Node)) {
	if e == nil {
		return
	}
	visit(e)
	switch e := e.(type) {
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			walkExpr(el, visit)
		}
	case *ast.RecordLiteral:
		for _, f := range e.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.RecordProjection:
		walkExpr(e.Target, visit)
	case *ast.ConstructorExpr:
		for _, a := range e.Args {
			walkExpr(a, visit)
		}
	case *ast.CallExpr:
		walkExpr(e.Func, visit)
		walkExpr(e.Arg, visit)
	case *ast.ArrowExpr:
		walkBlock(e.Body, visit)
	case *ast.MatchExpr:
		walkExpr(e.Scrutinee, visit)
		for _, a := range e.Arms {
			if a.Guard != nil {
				walkExpr(a.Guard, visit)
			}
			walkBlock(a.Body, visit)
		}
	case *ast.MatchFnExpr:
		for _, a := range e.Arms {
			if a.Guard != nil {
				walkExpr(a.Guard, visit)
			}
			walkBlock(a.Body, visit)
		}
	case *ast.MatchBundleExpr:
		for _, a := range e.Arms {
			if a.Guard != nil {
				walkExpr(a.Guard, visit)
			}
			walkBlock(a.Body, visit)
		}
	case *ast.BinaryExpr:
		walkExpr(e.Left, visit)
		walkExpr(e.Right, visit)
	case *ast.UnaryExpr:
		walkExpr(e.Expr, visit)
	}
}

// canonicalize rewrites every MatchFnExpr `match(x) => { arms }` into
// an ArrowExpr wrapping a MatchExpr over a fresh parameter, and lowers
// any tuple-shaped lambda parameter into a fresh variable parameter
// whose body is a synthesized match (spec.md §4.3's two pre-passes).
// It rewrites in place, and stamps IsFirstClassMatch on every
// declaration whose body result is a MatchFnExpr before lowering it.
func (inf *inferer) canonicalize(prog *ast.Program) {
	syn := newSynthIDs(prog)
	for _, d := range prog.Declarations {
		ld, ok := d.(*ast.LetDeclaration)
		if !ok {
			continue
		}
		if ld.Body != nil {
			if _, isMatchFn := ld.Body.Result.(*ast.MatchFnExpr); isMatchFn {
				ld.IsFirstClassMatch = true
			}
		}
		ld.Parameters = inf.lowerParams(syn, ld.Parameters, ld.Body)
		canonicalizeBlock(syn, ld.Body)
	}
}

func canonicalizeBlock(syn *synthIDs, b *ast.BlockExpr) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		switch s := s.(type) {
		case *ast.LetStmt:
			s.Value = canonicalizeExpr(syn, s.Value)
		case *ast.ExprStmt:
			s.Value = canonicalizeExpr(syn, s.Value)
		}
	}
	if b.Result != nil {
		b.Result = canonicalizeExpr(syn, b.Result)
	}
}

func canonicalizeExpr(syn *synthIDs, e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.MatchFnExpr:
		param := ast.VarPattern{Base: syn.fresh(e.Span()), Name: "__matchfn_arg"}
		for i := range e.Arms {
			canonicalizeBlock(syn, e.Arms[i].Body)
		}
		scrutinee := &ast.Identifier{Base: syn.fresh(e.Span()), Name: param.Name}
		match := &ast.MatchExpr{Base: e.Base, Scrutinee: scrutinee, Arms: e.Arms}
		return &ast.ArrowExpr{
			Base:   syn.fresh(e.Span()),
			Params: []ast.Param{{Pattern: &param}},
			Body:   &ast.BlockExpr{Base: syn.fresh(e.Span()), Result: match},
		}
	case *ast.CallExpr:
		e.Func = canonicalizeExpr(syn, e.Func)
		e.Arg = canonicalizeExpr(syn, e.Arg)
		return e
	case *ast.TupleExpr:
		for i := range e.Elements {
			e.Elements[i] = canonicalizeExpr(syn, e.Elements[i])
		}
		return e
	case *ast.ArrowExpr:
		e.Params = lowerParamsStatic(syn, e.Params, e.Body)
		canonicalizeBlock(syn, e.Body)
		return e
	case *ast.MatchExpr:
		e.Scrutinee = canonicalizeExpr(syn, e.Scrutinee)
		for i := range e.Arms {
			canonicalizeBlock(syn, e.Arms[i].Body)
		}
		return e
	case *ast.MatchBundleExpr:
		for i := range e.Arms {
			canonicalizeBlock(syn, e.Arms[i].Body)
		}
		return e
	case *ast.BinaryExpr:
		e.Left = canonicalizeExpr(syn, e.Left)
		e.Right = canonicalizeExpr(syn, e.Right)
		return e
	case *ast.UnaryExpr:
		e.Expr = canonicalizeExpr(syn, e.Expr)
		return e
	case *ast.RecordProjection:
		e.Target = canonicalizeExpr(syn, e.Target)
		return e
	case *ast.ConstructorExpr:
		for i := range e.Args {
			e.Args[i] = canonicalizeExpr(syn, e.Args[i])
		}
		return e
	case *ast.RecordLiteral:
		for i := range e.Fields {
			e.Fields[i].Value = canonicalizeExpr(syn, e.Fields[i].Value)
		}
		return e
	default:
		return e
	}
}

func (inf *inferer) lowerParams(syn *synthIDs, params []ast.Param, body *ast.BlockExpr) []ast.Param {
	return lowerParamsStatic(syn, params, body)
}

// lowerParamsStatic rewrites any tuple-shaped parameter pattern
// `((a,b)) => body` into a fresh variable parameter whose body becomes
// `match(p){(a,b) => body}`, leaving non-tuple patterns untouched.
func lowerParamsStatic(syn *synthIDs, params []ast.Param, body *ast.BlockExpr) []ast.Param {
	out := make([]ast.Param, len(params))
	for i, p := range params {
		tp, ok := p.Pattern.(*ast.TuplePattern)
		if !ok {
			out[i] = p
			continue
		}
		fresh := &ast.VarPattern{Base: syn.fresh(tp.Span()), Name: "__tuple_arg"}
		scrutinee := &ast.Identifier{Base: syn.fresh(tp.Span()), Name: fresh.Name}
		original := *body
		wrapped := &ast.MatchExpr{
			Base:      syn.fresh(tp.Span()),
			Scrutinee: scrutinee,
			Arms:      []ast.MatchArm{{Pattern: tp, Body: &original}},
		}
		*body = ast.BlockExpr{Base: syn.fresh(tp.Span()), Result: wrapped}
		out[i] = ast.Param{Pattern: fresh, Annotation: p.Annotation}
	}
	return out
}
