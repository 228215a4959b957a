package loader

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
)

// topoSort returns every module reachable from entry in dependency
// order (a module always appears after everything it imports or
// re-exports from), via DFS with a recursion-stack cycle check,
// grounded on the teacher's link/topo.go.
func topoSort(sources map[string]*Source, entry string) ([]string, error) {
	var order []string
	state := map[string]int{} // 0 unvisited, 1 in-progress, 2 done
	var stack []string

	var visit func(path string) error
	visit = func(path string) error {
		switch state[path] {
		case 2:
			return nil
		case 1:
			return diag.Wrap(diag.New(diag.LDR002, diag.PhaseLoader, diag.ReasonTypeMismatch, 0, ast.Span{},
				"circular import: "+cycleTrail(stack, path), nil))
		}
		src, ok := sources[path]
		if !ok {
			return diag.Wrap(diag.New(diag.LDR001, diag.PhaseLoader, diag.ReasonFreeVariable, 0, ast.Span{},
				"module not found: "+path, nil))
		}

		state[path] = 1
		stack = append(stack, path)

		for _, dep := range dependenciesOf(src.Program) {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		state[path] = 2
		order = append(order, path)
		return nil
	}

	if err := visit(entry); err != nil {
		return nil, err
	}
	return order, nil
}

func dependenciesOf(prog *ast.Program) []string {
	var deps []string
	for _, imp := range prog.Imports {
		deps = append(deps, imp.Path)
	}
	for _, re := range prog.Reexports {
		deps = append(deps, re.Path)
	}
	return deps
}

func cycleTrail(stack []string, closing string) string {
	trail := closing
	for _, p := range stack {
		trail += " <- " + p
	}
	return trail
}
