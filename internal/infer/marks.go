package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/types"
)

// MarkKind tags the provisional classification Layer-1 assigns a node
// when it cannot (yet, or ever) assign a concrete Type — spec.md
// §4.3's markedProgram tag set.
type MarkKind string

const (
	MarkOK                   MarkKind = "ok" // node carries a concrete/var Type, no tag needed
	MarkNotFunction          MarkKind = "mark_not_function"
	MarkInconsistent         MarkKind = "mark_inconsistent"
	MarkUnsupportedExpr      MarkKind = "mark_unsupported_expr"
	MarkOccursCheck          MarkKind = "mark_occurs_check"
	MarkFreeVar              MarkKind = "mark_free_var"
	MarkPattern              MarkKind = "mark_pattern"
	MarkTypeDeclDuplicate    MarkKind = "mark_type_decl_duplicate"
	MarkTypeDeclInvalidMember MarkKind = "mark_type_decl_invalid_member"
	MarkTypeExprArity        MarkKind = "mark_type_expr_arity"
	MarkTypeExprUnknown      MarkKind = "mark_type_expr_unknown"
)

// Mark is the tag attached to one node in the marked program.
type Mark struct {
	Kind   MarkKind
	Detail string // e.g. the unsupported exprKind, or the pattern issue
}

// NodeMark pairs a node id with the mark assigned to it. The marked
// program itself is represented as the original *ast.Program plus this
// side table rather than a deep-copied mirror tree, which keeps one AST
// as the single source of spans for every later layer. The AST is not
// copied: canonicalize rewrites match functions and tuple parameters in
// place, and existing node ids are never changed.
type NodeMark struct {
	NodeID ast.NodeId
	Mark   Mark
}

// MarkedProgram is Layer-1's primary output: the original AST plus a
// side table of marks and resolved provisional types.
type MarkedProgram struct {
	Program     *ast.Program
	Marks       map[ast.NodeId]Mark
	NodeTypeByID map[ast.NodeId]types.Type
}
