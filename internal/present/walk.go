package present

import "github.com/wisplang/wisp/internal/ast"

// spanIndex walks prog once and records every reachable node's span by
// id, so NodeView can carry a source span without Layer-1/2 needing to
// thread one through every stub and hole.
func spanIndex(prog *ast.Program) map[ast.NodeId]ast.Span {
	out := map[ast.NodeId]ast.Span{}
	visit := func(n ast.Node) {
		if n == nil {
			return
		}
		out[n.Id()] = n.Span()
	}
	for _, d := range prog.Declarations {
		walkDecl(d, visit)
	}
	return out
}

func walkDecl(d ast.Decl, visit func(ast.Node)) {
	visit(d)
	if ld, ok := d.(*ast.LetDeclaration); ok {
		for _, p := range ld.Parameters {
			walkPattern(p.Pattern, visit)
		}
		walkBlock(ld.Body, visit)
	}
}

func walkBlock(b *ast.BlockExpr, visit func(ast.Node)) {
	if b == nil {
		return
	}
	visit(b)
	for _, s := range b.Statements {
		switch s := s.(type) {
		case *ast.LetStmt:
			visit(s)
			walkExpr(s.Value, visit)
		case *ast.ExprStmt:
			visit(s)
			walkExpr(s.Value, visit)
		}
	}
	if b.Result != nil {
		walkExpr(b.Result, visit)
	}
}

func walkPattern(p ast.Pattern, visit func(ast.Node)) {
	if p == nil {
		return
	}
	visit(p)
	switch p := p.(type) {
	case *ast.ConstructorPattern:
		for _, a := range p.Args {
			walkPattern(a, visit)
		}
	case *ast.TuplePattern:
		for _, e := range p.Elements {
			walkPattern(e, visit)
		}
	case *ast.RecordPattern:
		for _, f := range p.Fields {
			walkPattern(f.Pattern, visit)
		}
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
		for _, p := range e.Params {
			walkPattern(p.Pattern, visit)
		}
		walkBlock(e.Body, visit)
	case *ast.MatchExpr:
		walkExpr(e.Scrutinee, visit)
		for _, a := range e.Arms {
			walkPattern(a.Pattern, visit)
			if a.Guard != nil {
				walkExpr(a.Guard, visit)
			}
			walkBlock(a.Body, visit)
		}
	case *ast.MatchFnExpr:
		for _, a := range e.Arms {
			walkPattern(a.Pattern, visit)
			if a.Guard != nil {
				walkExpr(a.Guard, visit)
			}
			walkBlock(a.Body, visit)
		}
	case *ast.MatchBundleExpr:
		for _, a := range e.Arms {
			walkPattern(a.Pattern, visit)
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
