// Package astjson is the thin serialization boundary cmd/wispcheck uses
// to stand in for the external parser (spec.md §1 excludes lexing and
// parsing from the core; §6 says the core's wire format is otherwise
// "JSON-like in-memory data"). It encodes and decodes ast.Program as
// the tagged-union JSON shape a host would get from feeding the
// parser's AST across a process or file boundary.
//
// Grounded on the teacher's iface/json.go, which already marshals a
// type-checked module's public surface with stdlib encoding/json; this
// package generalizes the same approach to the whole surface AST
// instead of just its exported interface, since decoding now also has
// to reconstruct the Expr/Pattern/Decl/TypeExpr/Stmt interface unions
// that iface/json.go never needed to read back.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/wisplang/wisp/internal/ast"
)

// ---- encode ---------------------------------------------------------

// Encode renders prog as the wire JSON shape.
func Encode(prog *ast.Program) ([]byte, error) {
	return json.MarshalIndent(encodeProgram(prog), "", "  ")
}

func encodePos(p ast.Pos) map[string]any {
	return map[string]any{"line": p.Line, "column": p.Column, "offset": p.Offset}
}

func encodeSpan(s ast.Span) map[string]any {
	return map[string]any{"start": encodePos(s.Start), "end": encodePos(s.End)}
}

func encodeBase(b ast.Base) map[string]any {
	return map[string]any{"id": b.NodeID, "span": encodeSpan(b.SpanV)}
}

func encodeProgram(p *ast.Program) map[string]any {
	imports := make([]any, len(p.Imports))
	for i, imp := range p.Imports {
		m := encodeBase(imp.Base)
		m["path"] = imp.Path
		m["symbols"] = imp.Symbols
		m["alias"] = imp.Alias
		imports[i] = m
	}
	reexports := make([]any, len(p.Reexports))
	for i, re := range p.Reexports {
		m := encodeBase(re.Base)
		m["path"] = re.Path
		m["symbols"] = re.Symbols
		reexports[i] = m
	}
	decls := make([]any, len(p.Declarations))
	for i, d := range p.Declarations {
		decls[i] = encodeDecl(d)
	}
	m := encodeBase(p.Base)
	m["imports"] = imports
	m["reexports"] = reexports
	m["declarations"] = decls
	m["mode"] = p.Mode
	m["core"] = p.Core
	return m
}

func litKindName(k ast.LiteralKind) string {
	switch k {
	case ast.LitUnit:
		return "unit"
	case ast.LitInt:
		return "int"
	case ast.LitBool:
		return "bool"
	case ast.LitChar:
		return "char"
	case ast.LitString:
		return "string"
	default:
		return "unit"
	}
}

func litKindFromName(s string) ast.LiteralKind {
	switch s {
	case "int":
		return ast.LitInt
	case "bool":
		return ast.LitBool
	case "char":
		return ast.LitChar
	case "string":
		return ast.LitString
	default:
		return ast.LitUnit
	}
}

func assocName(a ast.Associativity) string {
	switch a {
	case ast.AssocLeft:
		return "left"
	case ast.AssocRight:
		return "right"
	default:
		return "none"
	}
}

func assocFromName(s string) ast.Associativity {
	switch s {
	case "left":
		return ast.AssocLeft
	case "right":
		return ast.AssocRight
	default:
		return ast.AssocNone
	}
}

func encodeParam(p ast.Param) map[string]any {
	m := map[string]any{"pattern": encodePattern(p.Pattern)}
	if p.Annotation != nil {
		m["annotation"] = encodeTypeExpr(p.Annotation)
	}
	return m
}

func encodeArm(a ast.MatchArm) map[string]any {
	m := map[string]any{"pattern": encodePattern(a.Pattern), "body": encodeExpr(a.Body)}
	if a.Guard != nil {
		m["guard"] = encodeExpr(a.Guard)
	}
	return m
}

func encodeExpr(e ast.Expr) map[string]any {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *ast.Identifier:
		m := encodeBase(e.Base)
		m["kind"] = "identifier"
		m["name"] = e.Name
		return m
	case *ast.Literal:
		m := encodeBase(e.Base)
		m["kind"] = "literal"
		m["litKind"] = litKindName(e.Kind)
		m["value"] = e.Value
		return m
	case *ast.TupleExpr:
		m := encodeBase(e.Base)
		m["kind"] = "tuple"
		m["elements"] = encodeExprs(e.Elements)
		return m
	case *ast.RecordLiteral:
		fields := make([]any, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = map[string]any{"name": f.Name, "value": encodeExpr(f.Value), "pos": encodePos(f.Pos)}
		}
		m := encodeBase(e.Base)
		m["kind"] = "record_literal"
		m["fields"] = fields
		m["multiline"] = e.Multiline
		return m
	case *ast.RecordProjection:
		m := encodeBase(e.Base)
		m["kind"] = "record_projection"
		m["target"] = encodeExpr(e.Target)
		m["field"] = e.Field
		return m
	case *ast.ConstructorExpr:
		m := encodeBase(e.Base)
		m["kind"] = "constructor"
		m["name"] = e.Name
		m["args"] = encodeExprs(e.Args)
		return m
	case *ast.CallExpr:
		m := encodeBase(e.Base)
		m["kind"] = "call"
		m["func"] = encodeExpr(e.Func)
		m["arg"] = encodeExpr(e.Arg)
		return m
	case *ast.ArrowExpr:
		params := make([]any, len(e.Params))
		for i, p := range e.Params {
			params[i] = encodeParam(p)
		}
		m := encodeBase(e.Base)
		m["kind"] = "arrow"
		m["params"] = params
		m["body"] = encodeExpr(e.Body)
		return m
	case *ast.BlockExpr:
		stmts := make([]any, len(e.Statements))
		for i, s := range e.Statements {
			stmts[i] = encodeStmt(s)
		}
		m := encodeBase(e.Base)
		m["kind"] = "block"
		m["statements"] = stmts
		if e.Result != nil {
			m["result"] = encodeExpr(e.Result)
		}
		return m
	case *ast.MatchExpr:
		arms := make([]any, len(e.Arms))
		for i, a := range e.Arms {
			arms[i] = encodeArm(a)
		}
		m := encodeBase(e.Base)
		m["kind"] = "match"
		m["scrutinee"] = encodeExpr(e.Scrutinee)
		m["arms"] = arms
		return m
	case *ast.MatchFnExpr:
		arms := make([]any, len(e.Arms))
		for i, a := range e.Arms {
			arms[i] = encodeArm(a)
		}
		m := encodeBase(e.Base)
		m["kind"] = "match_fn"
		m["arms"] = arms
		return m
	case *ast.MatchBundleExpr:
		arms := make([]any, len(e.Arms))
		for i, a := range e.Arms {
			arms[i] = encodeArm(a)
		}
		m := encodeBase(e.Base)
		m["kind"] = "match_bundle"
		m["arms"] = arms
		return m
	case *ast.BinaryExpr:
		m := encodeBase(e.Base)
		m["kind"] = "binary"
		m["op"] = e.Op
		m["left"] = encodeExpr(e.Left)
		m["right"] = encodeExpr(e.Right)
		return m
	case *ast.UnaryExpr:
		m := encodeBase(e.Base)
		m["kind"] = "unary"
		m["op"] = e.Op
		m["expr"] = encodeExpr(e.Expr)
		return m
	case *ast.HoleExpr:
		m := encodeBase(e.Base)
		m["kind"] = "hole"
		return m
	default:
		panic(fmt.Sprintf("astjson: unhandled expr %T", e))
	}
}

func encodeExprs(es []ast.Expr) []any {
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = encodeExpr(e)
	}
	return out
}

func encodeStmt(s ast.Stmt) map[string]any {
	switch s := s.(type) {
	case *ast.LetStmt:
		m := encodeBase(s.Base)
		m["kind"] = "let"
		m["name"] = s.Name
		if s.Annotation != nil {
			m["annotation"] = encodeTypeExpr(s.Annotation)
		}
		m["value"] = encodeExpr(s.Value)
		return m
	case *ast.ExprStmt:
		m := encodeBase(s.Base)
		m["kind"] = "expr"
		m["value"] = encodeExpr(s.Value)
		return m
	default:
		panic(fmt.Sprintf("astjson: unhandled stmt %T", s))
	}
}

func encodePattern(p ast.Pattern) map[string]any {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		m := encodeBase(p.Base)
		m["kind"] = "wildcard"
		return m
	case *ast.VarPattern:
		m := encodeBase(p.Base)
		m["kind"] = "var"
		m["name"] = p.Name
		return m
	case *ast.LitPattern:
		m := encodeBase(p.Base)
		m["kind"] = "lit"
		m["litKind"] = litKindName(p.Kind)
		m["value"] = p.Value
		return m
	case *ast.ConstructorPattern:
		args := make([]any, len(p.Args))
		for i, a := range p.Args {
			args[i] = encodePattern(a)
		}
		m := encodeBase(p.Base)
		m["kind"] = "constructor"
		m["name"] = p.Name
		m["args"] = args
		return m
	case *ast.TuplePattern:
		elems := make([]any, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = encodePattern(el)
		}
		m := encodeBase(p.Base)
		m["kind"] = "tuple"
		m["elements"] = elems
		return m
	case *ast.RecordPattern:
		fields := make([]any, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = map[string]any{"name": f.Name, "pattern": encodePattern(f.Pattern)}
		}
		m := encodeBase(p.Base)
		m["kind"] = "record"
		m["fields"] = fields
		return m
	default:
		panic(fmt.Sprintf("astjson: unhandled pattern %T", p))
	}
}

func encodeTypeExpr(t ast.TypeExpr) map[string]any {
	switch t := t.(type) {
	case *ast.NamedTypeExpr:
		args := make([]any, len(t.Args))
		for i, a := range t.Args {
			args[i] = encodeTypeExpr(a)
		}
		m := encodeBase(t.Base)
		m["kind"] = "named"
		m["name"] = t.Name
		m["args"] = args
		return m
	case *ast.FuncTypeExpr:
		m := encodeBase(t.Base)
		m["kind"] = "func"
		m["from"] = encodeTypeExpr(t.From)
		m["to"] = encodeTypeExpr(t.To)
		return m
	case *ast.TupleTypeExpr:
		elems := make([]any, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = encodeTypeExpr(e)
		}
		m := encodeBase(t.Base)
		m["kind"] = "tuple"
		m["elements"] = elems
		return m
	case *ast.RecordTypeExpr:
		fields := make([]any, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = map[string]any{"name": f.Name, "type": encodeTypeExpr(f.Type)}
		}
		m := encodeBase(t.Base)
		m["kind"] = "record"
		m["fields"] = fields
		return m
	case *ast.ArrayTypeExpr:
		m := encodeBase(t.Base)
		m["kind"] = "array"
		m["element"] = encodeTypeExpr(t.Element)
		m["length"] = t.Length
		return m
	default:
		panic(fmt.Sprintf("astjson: unhandled type expr %T", t))
	}
}

func encodeTypeMember(m ast.TypeMember) map[string]any {
	args := make([]any, len(m.Args))
	for i, a := range m.Args {
		args[i] = encodeTypeExpr(a)
	}
	return map[string]any{"name": m.Name, "args": args, "pos": encodePos(m.Pos)}
}

func encodeDecl(d ast.Decl) map[string]any {
	switch d := d.(type) {
	case *ast.LetDeclaration:
		params := make([]any, len(d.Parameters))
		for i, p := range d.Parameters {
			params[i] = encodeParam(p)
		}
		m := encodeBase(d.Base)
		m["kind"] = "let_decl"
		m["name"] = d.Name
		m["parameters"] = params
		m["body"] = encodeExpr(d.Body)
		if d.Annotation != nil {
			m["annotation"] = encodeTypeExpr(d.Annotation)
		}
		m["export"] = d.Export
		m["isRecursive"] = d.IsRecursive
		m["mutualBindings"] = d.MutualBindings
		m["isFirstClassMatch"] = d.IsFirstClassMatch
		m["isArrowSyntax"] = d.IsArrowSyntax
		return m
	case *ast.TypeDeclaration:
		members := make([]any, len(d.Members))
		for i, mem := range d.Members {
			members[i] = encodeTypeMember(mem)
		}
		fields := make([]any, len(d.RecordFields))
		for i, f := range d.RecordFields {
			fields[i] = map[string]any{"name": f.Name, "type": encodeTypeExpr(f.Type)}
		}
		m := encodeBase(d.Base)
		m["kind"] = "type_decl"
		m["name"] = d.Name
		m["params"] = d.Params
		m["members"] = members
		m["isRecord"] = d.IsRecord
		m["recordFields"] = fields
		if d.Alias != nil {
			m["alias"] = encodeTypeExpr(d.Alias)
		}
		m["export"] = d.Export
		return m
	case *ast.InfixDeclaration:
		m := encodeBase(d.Base)
		m["kind"] = "infix_decl"
		m["symbol"] = d.Symbol
		m["precedence"] = d.Precedence
		m["associativity"] = assocName(d.Associativity)
		m["function"] = d.Function
		return m
	case *ast.PrefixDeclaration:
		m := encodeBase(d.Base)
		m["kind"] = "prefix_decl"
		m["symbol"] = d.Symbol
		m["function"] = d.Function
		return m
	case *ast.InfectiousDeclaration:
		m := encodeBase(d.Base)
		m["kind"] = "infectious_decl"
		m["domain"] = string(d.Domain)
		m["name"] = d.Name
		m["valueParam"] = d.ValueParam
		m["effectParam"] = d.EffectParam
		m["valueCtor"] = encodeTypeMember(d.ValueCtor)
		m["effectCtor"] = encodeTypeMember(d.EffectCtor)
		return m
	default:
		panic(fmt.Sprintf("astjson: unhandled decl %T", d))
	}
}

// ---- decode -----------------------------------------------------------

// Decode parses the wire JSON shape Encode produces back into an
// ast.Program, reconstructing every interface union by its "kind" tag.
func Decode(data []byte) (*ast.Program, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: decoding program: %w", err)
	}
	return decodeProgram(raw)
}

func decodePos(raw json.RawMessage) ast.Pos {
	var p struct {
		Line, Column, Offset int
	}
	_ = json.Unmarshal(raw, &p)
	return ast.Pos{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func decodeSpan(raw json.RawMessage) ast.Span {
	var s struct {
		Start, End json.RawMessage
	}
	_ = json.Unmarshal(raw, &s)
	return ast.Span{Start: decodePos(s.Start), End: decodePos(s.End)}
}

func decodeBase(raw map[string]json.RawMessage) ast.Base {
	var id ast.NodeId
	if v, ok := raw["id"]; ok {
		_ = json.Unmarshal(v, &id)
	}
	var span ast.Span
	if v, ok := raw["span"]; ok {
		span = decodeSpan(v)
	}
	return ast.NewBase(id, span)
}

func field(raw map[string]json.RawMessage, key string, out any) {
	v, ok := raw[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(v, out)
}

func object(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func kindOf(m map[string]json.RawMessage) string {
	var k string
	field(m, "kind", &k)
	return k
}

func decodeProgram(raw map[string]json.RawMessage) (*ast.Program, error) {
	p := &ast.Program{Base: decodeBase(raw)}
	field(raw, "mode", &p.Mode)
	field(raw, "core", &p.Core)

	var rawImports []map[string]json.RawMessage
	field(raw, "imports", &rawImports)
	for _, ri := range rawImports {
		imp := &ast.ModuleImport{Base: decodeBase(ri)}
		field(ri, "path", &imp.Path)
		field(ri, "symbols", &imp.Symbols)
		field(ri, "alias", &imp.Alias)
		p.Imports = append(p.Imports, imp)
	}

	var rawReexports []map[string]json.RawMessage
	field(raw, "reexports", &rawReexports)
	for _, rr := range rawReexports {
		re := &ast.ModuleReexport{Base: decodeBase(rr)}
		field(rr, "path", &re.Path)
		field(rr, "symbols", &re.Symbols)
		p.Reexports = append(p.Reexports, re)
	}

	var rawDecls []json.RawMessage
	field(raw, "declarations", &rawDecls)
	for _, rd := range rawDecls {
		m, err := object(rd)
		if err != nil {
			return nil, err
		}
		d, err := decodeDecl(m)
		if err != nil {
			return nil, err
		}
		p.Declarations = append(p.Declarations, d)
	}

	return p, nil
}

func decodeParam(raw json.RawMessage) (ast.Param, error) {
	m, err := object(raw)
	if err != nil {
		return ast.Param{}, err
	}
	var patRaw json.RawMessage
	field(m, "pattern", &patRaw)
	patM, err := object(patRaw)
	if err != nil {
		return ast.Param{}, err
	}
	pat, err := decodePattern(patM)
	if err != nil {
		return ast.Param{}, err
	}
	p := ast.Param{Pattern: pat}
	if annRaw, ok := m["annotation"]; ok {
		annM, err := object(annRaw)
		if err != nil {
			return ast.Param{}, err
		}
		p.Annotation, err = decodeTypeExpr(annM)
		if err != nil {
			return ast.Param{}, err
		}
	}
	return p, nil
}

func decodeArm(raw json.RawMessage) (ast.MatchArm, error) {
	m, err := object(raw)
	if err != nil {
		return ast.MatchArm{}, err
	}
	var patRaw json.RawMessage
	field(m, "pattern", &patRaw)
	patM, err := object(patRaw)
	if err != nil {
		return ast.MatchArm{}, err
	}
	pat, err := decodePattern(patM)
	if err != nil {
		return ast.MatchArm{}, err
	}
	var bodyRaw json.RawMessage
	field(m, "body", &bodyRaw)
	bodyM, err := object(bodyRaw)
	if err != nil {
		return ast.MatchArm{}, err
	}
	body, err := decodeExpr(bodyM)
	if err != nil {
		return ast.MatchArm{}, err
	}
	block, ok := body.(*ast.BlockExpr)
	if !ok {
		return ast.MatchArm{}, fmt.Errorf("astjson: arm body must be a block, got %T", body)
	}
	arm := ast.MatchArm{Pattern: pat, Body: block}
	if guardRaw, ok := m["guard"]; ok {
		guardM, err := object(guardRaw)
		if err != nil {
			return ast.MatchArm{}, err
		}
		arm.Guard, err = decodeExpr(guardM)
		if err != nil {
			return ast.MatchArm{}, err
		}
	}
	return arm, nil
}

func decodeExprField(m map[string]json.RawMessage, key string) (ast.Expr, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	em, err := object(raw)
	if err != nil {
		return nil, err
	}
	return decodeExpr(em)
}

func decodeExpr(m map[string]json.RawMessage) (ast.Expr, error) {
	base := decodeBase(m)
	switch kindOf(m) {
	case "identifier":
		var name string
		field(m, "name", &name)
		return &ast.Identifier{Base: base, Name: name}, nil
	case "literal":
		var litKind string
		field(m, "litKind", &litKind)
		var raw any
		field(m, "value", &raw)
		return &ast.Literal{Base: base, Kind: litKindFromName(litKind), Value: raw}, nil
	case "tuple":
		elems, err := decodeExprList(m, "elements")
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Base: base, Elements: elems}, nil
	case "record_literal":
		var rawFields []map[string]json.RawMessage
		field(m, "fields", &rawFields)
		var multiline bool
		field(m, "multiline", &multiline)
		fields := make([]ast.RecordField, 0, len(rawFields))
		for _, rf := range rawFields {
			var name string
			field(rf, "name", &name)
			v, err := decodeExprField(rf, "value")
			if err != nil {
				return nil, err
			}
			var pos ast.Pos
			if p, ok := rf["pos"]; ok {
				pos = decodePos(p)
			}
			fields = append(fields, ast.RecordField{Name: name, Value: v, Pos: pos})
		}
		return &ast.RecordLiteral{Base: base, Fields: fields, Multiline: multiline}, nil
	case "record_projection":
		target, err := decodeExprField(m, "target")
		if err != nil {
			return nil, err
		}
		var fieldName string
		field(m, "field", &fieldName)
		return &ast.RecordProjection{Base: base, Target: target, Field: fieldName}, nil
	case "constructor":
		var name string
		field(m, "name", &name)
		args, err := decodeExprList(m, "args")
		if err != nil {
			return nil, err
		}
		return &ast.ConstructorExpr{Base: base, Name: name, Args: args}, nil
	case "call":
		fn, err := decodeExprField(m, "func")
		if err != nil {
			return nil, err
		}
		arg, err := decodeExprField(m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Base: base, Func: fn, Arg: arg}, nil
	case "arrow":
		var rawParams []json.RawMessage
		field(m, "params", &rawParams)
		params := make([]ast.Param, 0, len(rawParams))
		for _, rp := range rawParams {
			p, err := decodeParam(rp)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		body, err := decodeExprField(m, "body")
		if err != nil {
			return nil, err
		}
		block, ok := body.(*ast.BlockExpr)
		if !ok {
			return nil, fmt.Errorf("astjson: arrow body must be a block, got %T", body)
		}
		return &ast.ArrowExpr{Base: base, Params: params, Body: block}, nil
	case "block":
		var rawStmts []json.RawMessage
		field(m, "statements", &rawStmts)
		stmts := make([]ast.Stmt, 0, len(rawStmts))
		for _, rs := range rawStmts {
			sm, err := object(rs)
			if err != nil {
				return nil, err
			}
			s, err := decodeStmt(sm)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
		result, err := decodeExprField(m, "result")
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Base: base, Statements: stmts, Result: result}, nil
	case "match":
		scrutinee, err := decodeExprField(m, "scrutinee")
		if err != nil {
			return nil, err
		}
		arms, err := decodeArms(m)
		if err != nil {
			return nil, err
		}
		return &ast.MatchExpr{Base: base, Scrutinee: scrutinee, Arms: arms}, nil
	case "match_fn":
		arms, err := decodeArms(m)
		if err != nil {
			return nil, err
		}
		return &ast.MatchFnExpr{Base: base, Arms: arms}, nil
	case "match_bundle":
		arms, err := decodeArms(m)
		if err != nil {
			return nil, err
		}
		return &ast.MatchBundleExpr{Base: base, Arms: arms}, nil
	case "binary":
		var op string
		field(m, "op", &op)
		left, err := decodeExprField(m, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExprField(m, "right")
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Base: base, Op: op, Left: left, Right: right}, nil
	case "unary":
		var op string
		field(m, "op", &op)
		operand, err := decodeExprField(m, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: base, Op: op, Expr: operand}, nil
	case "hole":
		return &ast.HoleExpr{Base: base}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expr kind %q", kindOf(m))
	}
}

func decodeExprList(m map[string]json.RawMessage, key string) ([]ast.Expr, error) {
	var raws []json.RawMessage
	field(m, key, &raws)
	out := make([]ast.Expr, 0, len(raws))
	for _, r := range raws {
		em, err := object(r)
		if err != nil {
			return nil, err
		}
		e, err := decodeExpr(em)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeArms(m map[string]json.RawMessage) ([]ast.MatchArm, error) {
	var raws []json.RawMessage
	field(m, "arms", &raws)
	out := make([]ast.MatchArm, 0, len(raws))
	for _, r := range raws {
		a, err := decodeArm(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeStmt(m map[string]json.RawMessage) (ast.Stmt, error) {
	base := decodeBase(m)
	switch kindOf(m) {
	case "let":
		var name string
		field(m, "name", &name)
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		s := &ast.LetStmt{Base: base, Name: name, Value: value}
		if annRaw, ok := m["annotation"]; ok {
			annM, err := object(annRaw)
			if err != nil {
				return nil, err
			}
			s.Annotation, err = decodeTypeExpr(annM)
			if err != nil {
				return nil, err
			}
		}
		return s, nil
	case "expr":
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Base: base, Value: value}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown stmt kind %q", kindOf(m))
	}
}

func decodePattern(m map[string]json.RawMessage) (ast.Pattern, error) {
	base := decodeBase(m)
	switch kindOf(m) {
	case "wildcard":
		return &ast.WildcardPattern{Base: base}, nil
	case "var":
		var name string
		field(m, "name", &name)
		return &ast.VarPattern{Base: base, Name: name}, nil
	case "lit":
		var litKind string
		field(m, "litKind", &litKind)
		var value any
		field(m, "value", &value)
		return &ast.LitPattern{Base: base, Kind: litKindFromName(litKind), Value: value}, nil
	case "constructor":
		var name string
		field(m, "name", &name)
		var rawArgs []json.RawMessage
		field(m, "args", &rawArgs)
		args := make([]ast.Pattern, 0, len(rawArgs))
		for _, ra := range rawArgs {
			am, err := object(ra)
			if err != nil {
				return nil, err
			}
			p, err := decodePattern(am)
			if err != nil {
				return nil, err
			}
			args = append(args, p)
		}
		return &ast.ConstructorPattern{Base: base, Name: name, Args: args}, nil
	case "tuple":
		var rawElems []json.RawMessage
		field(m, "elements", &rawElems)
		elems := make([]ast.Pattern, 0, len(rawElems))
		for _, re := range rawElems {
			em, err := object(re)
			if err != nil {
				return nil, err
			}
			p, err := decodePattern(em)
			if err != nil {
				return nil, err
			}
			elems = append(elems, p)
		}
		return &ast.TuplePattern{Base: base, Elements: elems}, nil
	case "record":
		var rawFields []map[string]json.RawMessage
		field(m, "fields", &rawFields)
		fields := make([]ast.RecordPatternField, 0, len(rawFields))
		for _, rf := range rawFields {
			var name string
			field(rf, "name", &name)
			var patRaw json.RawMessage
			field(rf, "pattern", &patRaw)
			patM, err := object(patRaw)
			if err != nil {
				return nil, err
			}
			pat, err := decodePattern(patM)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordPatternField{Name: name, Pattern: pat})
		}
		return &ast.RecordPattern{Base: base, Fields: fields}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown pattern kind %q", kindOf(m))
	}
}

func decodeTypeExpr(m map[string]json.RawMessage) (ast.TypeExpr, error) {
	base := decodeBase(m)
	switch kindOf(m) {
	case "named":
		var name string
		field(m, "name", &name)
		var rawArgs []json.RawMessage
		field(m, "args", &rawArgs)
		args := make([]ast.TypeExpr, 0, len(rawArgs))
		for _, ra := range rawArgs {
			am, err := object(ra)
			if err != nil {
				return nil, err
			}
			a, err := decodeTypeExpr(am)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return &ast.NamedTypeExpr{Base: base, Name: name, Args: args}, nil
	case "func":
		from, err := decodeTypeExprField(m, "from")
		if err != nil {
			return nil, err
		}
		to, err := decodeTypeExprField(m, "to")
		if err != nil {
			return nil, err
		}
		return &ast.FuncTypeExpr{Base: base, From: from, To: to}, nil
	case "tuple":
		var rawElems []json.RawMessage
		field(m, "elements", &rawElems)
		elems := make([]ast.TypeExpr, 0, len(rawElems))
		for _, re := range rawElems {
			em, err := object(re)
			if err != nil {
				return nil, err
			}
			e, err := decodeTypeExpr(em)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &ast.TupleTypeExpr{Base: base, Elements: elems}, nil
	case "record":
		fields, err := decodeRecordFieldDecls(m, "fields")
		if err != nil {
			return nil, err
		}
		return &ast.RecordTypeExpr{Base: base, Fields: fields}, nil
	case "array":
		elem, err := decodeTypeExprField(m, "element")
		if err != nil {
			return nil, err
		}
		var length int
		field(m, "length", &length)
		return &ast.ArrayTypeExpr{Base: base, Element: elem, Length: length}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown type expr kind %q", kindOf(m))
	}
}

func decodeTypeExprField(m map[string]json.RawMessage, key string) (ast.TypeExpr, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	tm, err := object(raw)
	if err != nil {
		return nil, err
	}
	return decodeTypeExpr(tm)
}

func decodeRecordFieldDecls(m map[string]json.RawMessage, key string) ([]ast.RecordFieldDecl, error) {
	var raws []map[string]json.RawMessage
	field(m, key, &raws)
	out := make([]ast.RecordFieldDecl, 0, len(raws))
	for _, rf := range raws {
		var name string
		field(rf, "name", &name)
		t, err := decodeTypeExprField(rf, "type")
		if err != nil {
			return nil, err
		}
		out = append(out, ast.RecordFieldDecl{Name: name, Type: t})
	}
	return out, nil
}

func decodeTypeMember(raw json.RawMessage) (ast.TypeMember, error) {
	m, err := object(raw)
	if err != nil {
		return ast.TypeMember{}, err
	}
	var name string
	field(m, "name", &name)
	var rawArgs []json.RawMessage
	field(m, "args", &rawArgs)
	args := make([]ast.TypeExpr, 0, len(rawArgs))
	for _, ra := range rawArgs {
		am, err := object(ra)
		if err != nil {
			return ast.TypeMember{}, err
		}
		a, err := decodeTypeExpr(am)
		if err != nil {
			return ast.TypeMember{}, err
		}
		args = append(args, a)
	}
	var pos ast.Pos
	if p, ok := m["pos"]; ok {
		pos = decodePos(p)
	}
	return ast.TypeMember{Name: name, Args: args, Pos: pos}, nil
}

func decodeDecl(m map[string]json.RawMessage) (ast.Decl, error) {
	base := decodeBase(m)
	switch kindOf(m) {
	case "let_decl":
		var name string
		field(m, "name", &name)
		var rawParams []json.RawMessage
		field(m, "parameters", &rawParams)
		params := make([]ast.Param, 0, len(rawParams))
		for _, rp := range rawParams {
			p, err := decodeParam(rp)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		body, err := decodeExprField(m, "body")
		if err != nil {
			return nil, err
		}
		block, ok := body.(*ast.BlockExpr)
		if !ok {
			return nil, fmt.Errorf("astjson: let body must be a block, got %T", body)
		}
		d := &ast.LetDeclaration{Base: base, Name: name, Parameters: params, Body: block}
		field(m, "export", &d.Export)
		field(m, "isRecursive", &d.IsRecursive)
		field(m, "mutualBindings", &d.MutualBindings)
		field(m, "isFirstClassMatch", &d.IsFirstClassMatch)
		field(m, "isArrowSyntax", &d.IsArrowSyntax)
		if annRaw, ok := m["annotation"]; ok {
			annM, err := object(annRaw)
			if err != nil {
				return nil, err
			}
			d.Annotation, err = decodeTypeExpr(annM)
			if err != nil {
				return nil, err
			}
		}
		return d, nil
	case "type_decl":
		var name string
		field(m, "name", &name)
		d := &ast.TypeDeclaration{Base: base, Name: name}
		field(m, "params", &d.Params)
		field(m, "isRecord", &d.IsRecord)
		field(m, "export", &d.Export)
		var rawMembers []json.RawMessage
		field(m, "members", &rawMembers)
		for _, rm := range rawMembers {
			mem, err := decodeTypeMember(rm)
			if err != nil {
				return nil, err
			}
			d.Members = append(d.Members, mem)
		}
		fields, err := decodeRecordFieldDecls(m, "recordFields")
		if err != nil {
			return nil, err
		}
		d.RecordFields = fields
		if aliasRaw, ok := m["alias"]; ok {
			aliasM, err := object(aliasRaw)
			if err != nil {
				return nil, err
			}
			d.Alias, err = decodeTypeExpr(aliasM)
			if err != nil {
				return nil, err
			}
		}
		return d, nil
	case "infix_decl":
		d := &ast.InfixDeclaration{Base: base}
		field(m, "symbol", &d.Symbol)
		field(m, "precedence", &d.Precedence)
		field(m, "function", &d.Function)
		var assoc string
		field(m, "associativity", &assoc)
		d.Associativity = assocFromName(assoc)
		return d, nil
	case "prefix_decl":
		d := &ast.PrefixDeclaration{Base: base}
		field(m, "symbol", &d.Symbol)
		field(m, "function", &d.Function)
		return d, nil
	case "infectious_decl":
		d := &ast.InfectiousDeclaration{Base: base}
		var domain string
		field(m, "domain", &domain)
		d.Domain = ast.InfectionDomain(domain)
		field(m, "name", &d.Name)
		field(m, "valueParam", &d.ValueParam)
		field(m, "effectParam", &d.EffectParam)
		if vcRaw, ok := m["valueCtor"]; ok {
			vc, err := decodeTypeMember(vcRaw)
			if err != nil {
				return nil, err
			}
			d.ValueCtor = vc
		}
		if ecRaw, ok := m["effectCtor"]; ok {
			ec, err := decodeTypeMember(ecRaw)
			if err != nil {
				return nil, err
			}
			d.EffectCtor = ec
		}
		return d, nil
	default:
		return nil, fmt.Errorf("astjson: unknown decl kind %q", kindOf(m))
	}
}
