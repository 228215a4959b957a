// Package ast defines the surface syntax tree consumed by the wisp
// analysis core. The lexer and parser (external collaborators, see
// spec.md §1/§6) are responsible for producing these nodes; the core
// never invents or mutates a NodeId except when a lowering pre-pass
// synthesizes new nodes, in which case new ids are strictly greater
// than any pre-existing id.
package ast

import "fmt"

// NodeId stably identifies a node across the whole pipeline run.
type NodeId uint64

// Pos is a single point in source text.
type Pos struct {
	Line   int
	Column int
	Offset int
}

// Span is a source range, used verbatim by Layer-3 for presentation.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Node is the base interface every surface node satisfies.
type Node interface {
	Id() NodeId
	Span() Span
}

// Base is embedded by every concrete node to provide Id/Span. It is
// exported so lowering pre-passes in other packages can synthesize new
// nodes whose ids are strictly greater than any pre-existing id.
type Base struct {
	NodeID NodeId
	SpanV  Span
}

func (b Base) Id() NodeId { return b.NodeID }
func (b Base) Span() Span { return b.SpanV }

// NewBase constructs a Base for a synthesized node.
func NewBase(id NodeId, span Span) Base { return Base{NodeID: id, SpanV: span} }

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is any pattern node.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a surface type expression (as written by the user,
// before elaboration into a types.Type by Layer-1).
type TypeExpr interface {
	Node
	typeExprNode()
}

// Decl is any top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Program is the parser's output for a single compilation unit (§6).
type Program struct {
	Base
	Imports      []*ModuleImport
	Reexports    []*ModuleReexport
	Declarations []Decl
	Mode         string // "raw" or "" (default)
	Core         bool   // std-core module flag; skips prelude (REDESIGN FLAGS §9)
}

// ModuleImport names a dependency of this compilation unit.
type ModuleImport struct {
	Base
	Path    string
	Symbols []string // empty = import whole module
	Alias   string
}

// ModuleReexport re-exports symbols (or everything) from an import.
type ModuleReexport struct {
	Base
	Path    string
	Symbols []string
}

// ---- Expressions -----------------------------------------------------

// Identifier is a variable reference.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) exprNode() {}

// LiteralKind tags the kind of a Literal.
type LiteralKind int

const (
	LitUnit LiteralKind = iota
	LitInt
	LitBool
	LitChar
	LitString
)

// Literal is a constant value.
type Literal struct {
	Base
	Kind  LiteralKind
	Value interface{}
}

func (*Literal) exprNode() {}

// TupleExpr is a tuple construction.
type TupleExpr struct {
	Base
	Elements []Expr
}

func (*TupleExpr) exprNode() {}

// RecordField is one `name: expr` entry of a record literal.
type RecordField struct {
	Name  string
	Value Expr
	Pos   Pos
}

// RecordLiteral constructs a record value.
type RecordLiteral struct {
	Base
	Fields    []RecordField
	Multiline bool // formatter hint only, never semantically meaningful
}

func (*RecordLiteral) exprNode() {}

// RecordProjection accesses a single field of a record expression.
type RecordProjection struct {
	Base
	Target Expr
	Field  string
}

func (*RecordProjection) exprNode() {}

// ConstructorExpr references an ADT constructor, optionally applied to
// arguments already supplied at the call site.
type ConstructorExpr struct {
	Base
	Name string
	Args []Expr
}

func (*ConstructorExpr) exprNode() {}

// CallExpr applies Func to Arg (curried — multi-argument calls are a
// chain of single-argument CallExprs, matching the curried TFunc shape
// in types.Type).
type CallExpr struct {
	Base
	Func Expr
	Arg  Expr
}

func (*CallExpr) exprNode() {}

// Param is one lambda parameter; it is itself a Pattern so that
// tuple-parameter lowering (spec.md §4.3) can desugar it uniformly.
type Param struct {
	Pattern    Pattern
	Annotation TypeExpr // optional
}

// ArrowExpr is a lambda `(params) => { body }`.
type ArrowExpr struct {
	Base
	Params []Param
	Body   *BlockExpr
}

func (*ArrowExpr) exprNode() {}

// Stmt is one statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// LetStmt is a local, non-exported let binding inside a block.
type LetStmt struct {
	Base
	Name       string
	Annotation TypeExpr
	Value      Expr
}

func (*LetStmt) stmtNode() {}

// ExprStmt is a statement evaluated for effect (and discarded value).
type ExprStmt struct {
	Base
	Value Expr
}

func (*ExprStmt) stmtNode() {}

// BlockExpr sequences statements; Result (optional) gives the block's
// value, otherwise the block has type Unit.
type BlockExpr struct {
	Base
	Statements []Stmt
	Result     Expr // optional
}

func (*BlockExpr) exprNode() {}

// MatchExpr pattern-matches Scrutinee against Arms.
type MatchExpr struct {
	Base
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) exprNode() {}

// MatchArm is one `pattern => body` clause.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    *BlockExpr
}

// MatchFnExpr is surface sugar `match(x) => { arms }`; the
// canonicalization pre-pass rewrites it to an ArrowExpr wrapping a
// MatchExpr (spec.md §4.3).
type MatchFnExpr struct {
	Base
	Arms []MatchArm
}

func (*MatchFnExpr) exprNode() {}

// MatchBundleExpr is a first-class `match { arms }` value.
type MatchBundleExpr struct {
	Base
	Arms []MatchArm
}

func (*MatchBundleExpr) exprNode() {}

// BinaryExpr is `left op right`; the parser has already applied
// precedence/associativity from the operator table (spec.md §6).
type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is `op expr`.
type UnaryExpr struct {
	Base
	Op   string
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// HoleExpr is an explicit `?` placeholder.
type HoleExpr struct {
	Base
}

func (*HoleExpr) exprNode() {}

// ---- Patterns ----------------------------------------------------------

// WildcardPattern (`_`) matches anything, binds nothing.
type WildcardPattern struct{ Base }

func (*WildcardPattern) patternNode() {}

// VarPattern binds the scrutinee to Name.
type VarPattern struct {
	Base
	Name string
}

func (*VarPattern) patternNode() {}

// LitPattern matches a literal value exactly.
type LitPattern struct {
	Base
	Kind  LiteralKind
	Value interface{}
}

func (*LitPattern) patternNode() {}

// ConstructorPattern matches a specific ADT constructor.
type ConstructorPattern struct {
	Base
	Name string
	Args []Pattern
}

func (*ConstructorPattern) patternNode() {}

// TuplePattern matches a tuple's shape.
type TuplePattern struct {
	Base
	Elements []Pattern
}

func (*TuplePattern) patternNode() {}

// RecordPatternField is one `name: pattern` entry.
type RecordPatternField struct {
	Name    string
	Pattern Pattern
}

// RecordPattern matches some subset of a record's fields.
type RecordPattern struct {
	Base
	Fields []RecordPatternField
}

func (*RecordPattern) patternNode() {}

// ---- Declarations -------------------------------------------------------

// LetDeclaration is a top-level `let` (possibly `export`, `rec`, and
// part of a mutually-recursive `and` group).
type LetDeclaration struct {
	Base
	Name              string
	Parameters        []Param
	Body              *BlockExpr
	Annotation        TypeExpr
	Export            bool
	IsRecursive       bool
	MutualBindings    []string // names of sibling `and`-bound bindings
	IsFirstClassMatch bool
	IsArrowSyntax     bool
}

func (*LetDeclaration) declNode() {}

// TypeMember is one constructor of a `type` declaration.
type TypeMember struct {
	Name string
	Args []TypeExpr
	Pos  Pos
}

// RecordFieldDecl is a declared record-type field (name + its TypeExpr).
type RecordFieldDecl struct {
	Name string
	Type TypeExpr
}

// TypeDeclaration declares an ADT, a record type, or a type alias.
type TypeDeclaration struct {
	Base
	Name         string
	Params       []string
	Members      []TypeMember
	IsRecord     bool
	RecordFields []RecordFieldDecl // only when IsRecord
	Alias        TypeExpr          // only for `type N<..> = SomeType;` aliases
	Export       bool
}

func (*TypeDeclaration) declNode() {}

// Associativity of an infix operator declaration.
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

// InfixDeclaration declares a user infix operator.
type InfixDeclaration struct {
	Base
	Symbol        string
	Precedence    int
	Associativity Associativity
	Function      string
}

func (*InfixDeclaration) declNode() {}

// PrefixDeclaration declares a user prefix operator.
type PrefixDeclaration struct {
	Base
	Symbol   string
	Function string
}

func (*PrefixDeclaration) declNode() {}

// InfectionDomain names one of the arbitration domains from spec.md §4.6.
type InfectionDomain string

const (
	DomainError InfectionDomain = "error"
	DomainTaint InfectionDomain = "taint"
	DomainMem   InfectionDomain = "mem"
	DomainHole  InfectionDomain = "hole"
)

// InfectiousDeclaration declares an infectious nominal type, e.g.
// `infectious error type Result<T, E> = @value Ok<T> | @effect Err<E>`.
type InfectiousDeclaration struct {
	Base
	Domain      InfectionDomain
	Name        string
	ValueParam  string
	EffectParam string
	ValueCtor   TypeMember
	EffectCtor  TypeMember
}

func (*InfectiousDeclaration) declNode() {}

// ---- Type expressions ---------------------------------------------------

// NamedTypeExpr is `Name<arg, arg, ...>` (arity 0 args is a bare name).
type NamedTypeExpr struct {
	Base
	Name string
	Args []TypeExpr
}

func (*NamedTypeExpr) typeExprNode() {}

// FuncTypeExpr is `From -> To`.
type FuncTypeExpr struct {
	Base
	From TypeExpr
	To   TypeExpr
}

func (*FuncTypeExpr) typeExprNode() {}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	Base
	Elements []TypeExpr
}

func (*TupleTypeExpr) typeExprNode() {}

// RecordTypeExpr is `{ field: T, ... }`.
type RecordTypeExpr struct {
	Base
	Fields []RecordFieldDecl
}

func (*RecordTypeExpr) typeExprNode() {}

// ArrayTypeExpr is a fixed-length array type `[T; N]`.
type ArrayTypeExpr struct {
	Base
	Element TypeExpr
	Length  int
}

func (*ArrayTypeExpr) typeExprNode() {}
