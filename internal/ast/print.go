package ast

import (
	"fmt"
	"strings"
)

// String renders an expression in a debug-friendly surface-like form.
// It is used only by diagnostics and tests; it is not a formatter.
func String(e Expr) string {
	switch e := e.(type) {
	case *Identifier:
		return e.Name
	case *Literal:
		return fmt.Sprintf("%v", e.Value)
	case *TupleExpr:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = String(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *RecordLiteral:
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, String(f.Value))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *RecordProjection:
		return fmt.Sprintf("%s.%s", String(e.Target), e.Field)
	case *ConstructorExpr:
		if len(e.Args) == 0 {
			return e.Name
		}
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = String(a)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
	case *CallExpr:
		return fmt.Sprintf("%s(%s)", String(e.Func), String(e.Arg))
	case *ArrowExpr:
		names := make([]string, len(e.Params))
		for i, p := range e.Params {
			names[i] = patternString(p.Pattern)
		}
		return fmt.Sprintf("(%s) => { ... }", strings.Join(names, ", "))
	case *BlockExpr:
		return "{ ... }"
	case *MatchExpr:
		return fmt.Sprintf("match(%s) { ... }", String(e.Scrutinee))
	case *MatchFnExpr:
		return "match(_) => { ... }"
	case *MatchBundleExpr:
		return "match { ... }"
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", String(e.Left), e.Op, String(e.Right))
	case *UnaryExpr:
		return fmt.Sprintf("(%s%s)", e.Op, String(e.Expr))
	case *HoleExpr:
		return "?"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func patternString(p Pattern) string {
	switch p := p.(type) {
	case *WildcardPattern:
		return "_"
	case *VarPattern:
		return p.Name
	case *LitPattern:
		return fmt.Sprintf("%v", p.Value)
	case *ConstructorPattern:
		if len(p.Args) == 0 {
			return p.Name
		}
		parts := make([]string, len(p.Args))
		for i, a := range p.Args {
			parts[i] = patternString(a)
		}
		return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
	case *TuplePattern:
		parts := make([]string, len(p.Elements))
		for i, el := range p.Elements {
			parts[i] = patternString(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *RecordPattern:
		parts := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, patternString(f.Pattern))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return fmt.Sprintf("<%T>", p)
	}
}

// PatternString exposes patternString for other packages' diagnostics.
func PatternString(p Pattern) string { return patternString(p) }
