package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/types"
)

// HoleId identifies one allocated hole within a pipeline run.
type HoleId uint64

// UnknownInfo is spec.md §3's `UnknownInfo` record.
type UnknownInfo struct {
	ID           HoleId
	Category     types.HoleCategory
	RelatedNodes []ast.NodeId
	OriginNode   ast.NodeId
	OriginSpan   ast.Span
}

// newHole allocates a fresh hole, records its UnknownInfo, and returns
// the Unknown type to attach to the originating node.
func (inf *inferer) newHole(category types.HoleCategory, origin ast.NodeId, span ast.Span) *types.Unknown {
	id := HoleId(inf.ctx.NextHole())
	inf.holes[id] = &UnknownInfo{
		ID:         id,
		Category:   category,
		OriginNode: origin,
		OriginSpan: span,
	}
	return &types.Unknown{ID: uint64(id), Category: category, Provenance: types.Provenance{NodeID: uint64(origin)}}
}
