package solve

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/types"
)

// remark produces the remarked program: every node's type substituted
// under σ, in freshly built side tables. The AST itself (in.Program) is
// shared with the input, not copied or mutated — only the side tables
// are rebuilt — matching the ownership discipline Layer-1 uses for
// MarkedProgram.
func (s *solver) remark(in *infer.MarkedProgram) *infer.MarkedProgram {
	resolved := make(map[ast.NodeId]types.Type, len(in.NodeTypeByID))
	for id, t := range in.NodeTypeByID {
		resolved[id] = s.resolve(t)
	}
	marks := make(map[ast.NodeId]infer.Mark, len(in.Marks))
	for id, m := range in.Marks {
		marks[id] = m
	}
	return &infer.MarkedProgram{
		Program:      in.Program,
		Marks:        marks,
		NodeTypeByID: resolved,
	}
}
