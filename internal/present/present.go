// Package present implements the Layer-3 presenter (C5): it walks the
// solver's remarked program and renders the final, human- and
// machine-facing view spec.md §4.5 describes — per-node types,
// summaries, diagnostics, and hole solutions — applying the infection
// pretty-printer rule along the way.
//
// Grounded on the teacher's iface/builder.go + iface/json.go, which
// walk a fully type-checked module and build the public interface
// summary JSON consumers read; generalized here from "module summary
// only" to "every node's view".
package present

import (
	"encoding/json"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/solve"
	"github.com/wisplang/wisp/internal/types"
)

// PartialType is either a fully concrete type or an unresolved hole,
// carrying whatever the solver could narrow it to.
type PartialType struct {
	Concrete  string   `json:"concrete,omitempty"`
	Unknown   bool     `json:"unknown,omitempty"`
	Partial   string   `json:"partial,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// NodeView is one node's presented type, keyed by NodeId in Result.
type NodeView struct {
	FinalType  PartialType `json:"finalType"`
	SourceSpan ast.Span    `json:"sourceSpan"`
	Display    string      `json:"display"`
}

// SummaryView is one exported binding's presented scheme.
type SummaryView struct {
	Name    string `json:"name"`
	Display string `json:"display"`
}

// Result is Layer-3's complete output for one module.
type Result struct {
	NodeViews     map[ast.NodeId]*NodeView              `json:"nodeViews"`
	Summaries     []*SummaryView                        `json:"summaries"`
	Diagnostics   []*diag.Report                        `json:"diagnostics"`
	HoleSolutions map[infer.HoleId]*solve.HoleSolution   `json:"holeSolutions"`
	DebugInfo     *DebugInfo                             `json:"debugInfo,omitempty"`
}

// DebugInfo is optional tooling-facing detail that survives past
// Layer-1, not part of the core presentation contract spec.md §4.5
// names but useful for a hover/LSP-style consumer to show where
// generalization was actually exercised (the teacher's
// Instantiation/DumpInstantiations feature, generalized to every
// node instead of a CLI dump flag).
type DebugInfo struct {
	Instantiations []InstantiationView `json:"instantiations"`
}

// InstantiationView is one polymorphic-name instantiation site,
// rendered for display.
type InstantiationView struct {
	Name       string   `json:"name"`
	NodeID     ast.NodeId `json:"nodeId"`
	SourceSpan ast.Span `json:"sourceSpan"`
	Quantified int      `json:"quantified"`
	Display    string   `json:"display"`
}

// Present builds the final Result from Layer-1's diagnostics plus
// Layer-2's solved output.
func Present(inferOut *infer.Output, solveOut *solve.Output) *Result {
	spans := spanIndex(solveOut.Remarked.Program)

	views := make(map[ast.NodeId]*NodeView, len(solveOut.Remarked.NodeTypeByID))
	for id, t := range solveOut.Remarked.NodeTypeByID {
		views[id] = &NodeView{
			FinalType:  toPartialType(t, solveOut),
			SourceSpan: spans[id],
			Display:    displayType(t),
		}
	}

	summaries := make([]*SummaryView, 0, len(inferOut.Summaries))
	for name, sch := range inferOut.Summaries {
		summaries = append(summaries, &SummaryView{Name: name, Display: displayScheme(sch)})
	}

	diagnostics := make([]*diag.Report, 0, len(inferOut.Diagnostics)+len(solveOut.Diagnostics))
	diagnostics = append(diagnostics, inferOut.Diagnostics...)
	diagnostics = append(diagnostics, solveOut.Diagnostics...)

	var debug *DebugInfo
	if len(inferOut.Instantiations) > 0 {
		instViews := make([]InstantiationView, len(inferOut.Instantiations))
		for i, inst := range inferOut.Instantiations {
			// Render against the solved substitution when available so
			// the displayed monotype reflects what the site actually
			// resolved to, not just its fresh-variable skeleton.
			t := inst.Result
			if resolved, ok := solveOut.Remarked.NodeTypeByID[inst.NodeID]; ok {
				t = resolved
			}
			instViews[i] = InstantiationView{
				Name:       inst.Name,
				NodeID:     inst.NodeID,
				SourceSpan: inst.Span,
				Quantified: inst.Quantified,
				Display:    displayType(t),
			}
		}
		debug = &DebugInfo{Instantiations: instViews}
	}

	return &Result{
		NodeViews:     views,
		Summaries:     summaries,
		Diagnostics:   diagnostics,
		HoleSolutions: solveOut.HoleSolutions,
		DebugInfo:     debug,
	}
}

func toPartialType(t types.Type, solveOut *solve.Output) PartialType {
	if u, ok := t.(*types.Unknown); ok {
		sol, ok := solveOut.HoleSolutions[infer.HoleId(u.ID)]
		if !ok {
			return PartialType{Unknown: true}
		}
		switch sol.Status {
		case solve.HoleSolved:
			return PartialType{Concrete: sol.Type.String()}
		case solve.HolePartial:
			return PartialType{Partial: sol.Type.String()}
		case solve.HoleConflicted:
			cs := make([]string, len(sol.Conflicts))
			for i, c := range sol.Conflicts {
				cs[i] = c.String()
			}
			return PartialType{Unknown: true, Conflicts: cs}
		default:
			return PartialType{Unknown: true}
		}
	}
	if t == nil {
		return PartialType{Concrete: displayType(t)}
	}
	return PartialType{Concrete: t.String()}
}

// ToJSON renders r deterministically, matching the teacher's
// iface/json.go indentation convention.
func (r *Result) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
