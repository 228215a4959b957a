package solve

import (
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/types"
)

// classifyHole implements spec.md §4.4's four-way hole classification,
// using what the hole was unified against (holeBindings) since a
// types.Unknown never enters the ordinary substitution map itself.
func (s *solver) classifyHole(id infer.HoleId, info *infer.UnknownInfo) *HoleSolution {
	bound := uniqueTypes(s.holeBindings[uint64(id)])

	switch len(bound) {
	case 0:
		return &HoleSolution{ID: id, Status: HoleUnsolved}
	case 1:
		if v, isVar := bound[0].(*types.Var); isVar {
			return &HoleSolution{ID: id, Status: HolePartial, Type: v}
		}
		return &HoleSolution{ID: id, Status: HoleSolved, Type: bound[0]}
	default:
		return &HoleSolution{ID: id, Status: HoleConflicted, Conflicts: bound}
	}
}

func uniqueTypes(ts []types.Type) []types.Type {
	var out []types.Type
	for _, t := range ts {
		dup := false
		for _, o := range out {
			if types.Equal(t, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
