package loader

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diag"
	"github.com/wisplang/wisp/internal/infection"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/pipelinectx"
	"github.com/wisplang/wisp/internal/present"
	"github.com/wisplang/wisp/internal/solve"
	"github.com/wisplang/wisp/internal/types"
)

// Source is one already-parsed compilation unit handed to the loader.
// Lexing/parsing is the external collaborator's job (spec.md §1, §6);
// the loader only ever sees the resulting *ast.Program.
type Source struct {
	Path    string
	Program *ast.Program
}

// ModuleResult is everything the loader produced for one module: the
// full three-layer pipeline result plus what it exports to importers.
type ModuleResult struct {
	Path     string
	Present  *present.Result
	ValueEnv *types.ValueEnv
	TypeEnv  *types.TypeEnv
	Ops      *types.OperatorTable
	Registry *infection.Registry

	// Exports are this module's own `export`-marked bindings plus the
	// symbols it re-exports from its dependencies, keyed by name.
	Exports     map[string]*types.Scheme
	TypeExports map[string]*types.TypeInfo
}

// Run loads and analyzes every module reachable from entry, in
// dependency order, seeding each module's environment from its
// dependencies' exports before running infer → solve → present.
func Run(sources map[string]*Source, entry string) (map[string]*ModuleResult, []*diag.Report) {
	order, err := topoSort(sources, entry)
	if err != nil {
		if r, ok := diag.AsReport(err); ok {
			return nil, []*diag.Report{r}
		}
		return nil, []*diag.Report{diag.New(diag.LDR001, diag.PhaseLoader, diag.ReasonFreeVariable, 0, ast.Span{}, err.Error(), nil)}
	}

	results := map[string]*ModuleResult{}
	var diagnostics []*diag.Report
	var varCursor, holeCursor uint64

	for _, path := range order {
		src := sources[path]
		env, tenv, ops, reg, seedErr := seedModuleEnv(src.Program, results)
		if seedErr != nil {
			diagnostics = append(diagnostics, seedErr)
			continue
		}

		ctx := pipelinectx.NewSeeded(varCursor, holeCursor)
		inferOut := infer.Infer(ctx, src.Program, env, tenv, ops, reg)
		solveOut := solve.Solve(inferOut, tenv, reg)
		presented := present.Present(inferOut, solveOut)

		varCursor, holeCursor = ctx.VarCount(), ctx.HoleCount()
		diagnostics = append(diagnostics, presented.Diagnostics...)

		exports := map[string]*types.Scheme{}
		for name, sch := range inferOut.Summaries {
			exports[name] = sch
		}
		for _, re := range src.Program.Reexports {
			dep, ok := results[re.Path]
			if !ok {
				continue
			}
			names := re.Symbols
			if len(names) == 0 {
				names = allKeys(dep.Exports)
			}
			for _, name := range names {
				if sch, ok := dep.Exports[name]; ok {
					exports[name] = sch
				}
			}
		}

		results[path] = &ModuleResult{
			Path:        path,
			Present:     presented,
			ValueEnv:    inferOut.Env,
			TypeEnv:     inferOut.AdtEnv,
			Ops:         ops,
			Registry:    reg,
			Exports:     exports,
			TypeExports: exportedTypes(src.Program, inferOut.AdtEnv),
		}
	}

	return results, diagnostics
}

func exportedTypes(prog *ast.Program, tenv *types.TypeEnv) map[string]*types.TypeInfo {
	out := map[string]*types.TypeInfo{}
	for _, d := range prog.Declarations {
		td, ok := d.(*ast.TypeDeclaration)
		if !ok || !td.Export {
			continue
		}
		if info, ok := tenv.LookupType(td.Name); ok {
			out[td.Name] = info
		}
	}
	return out
}

// seedModuleEnv builds a fresh module-scoped environment seeded with
// every import's exports (spec.md §4.7's "per-module environment
// seeding from dependency exports"). Re-exported symbols are folded in
// transparently, since by the time a dependency ran, its own Exports
// map already includes what it re-exported from its own dependencies
// (Run folds those in).
func seedModuleEnv(prog *ast.Program, results map[string]*ModuleResult) (*types.ValueEnv, *types.TypeEnv, *types.OperatorTable, *infection.Registry, *diag.Report) {
	env := types.NewValueEnv()
	tenv := types.NewTypeEnv()
	ops := types.NewOperatorTable()
	reg := infection.SeedPrelude()

	seen := map[string]string{} // exported name -> path it came from, for duplicate detection

	for _, imp := range prog.Imports {
		dep, ok := results[imp.Path]
		if !ok {
			continue // already reported as LDR001 by topoSort
		}
		names := imp.Symbols
		if len(names) == 0 {
			names = allKeys(dep.Exports)
		}
		for _, name := range names {
			sch, ok := dep.Exports[name]
			if !ok {
				continue
			}
			bindName := name
			if imp.Alias != "" {
				bindName = imp.Alias + "." + name
			}
			if prior, dup := seen[bindName]; dup && prior != imp.Path {
				return nil, nil, nil, nil, diag.New(diag.LDR003, diag.PhaseLoader, diag.ReasonTypeMismatch, 0, ast.Span{},
					"duplicate export binding: "+bindName, nil)
			}
			seen[bindName] = imp.Path
			env.Bind(bindName, sch)
		}
		for name, info := range dep.TypeExports {
			tenv.DeclareType(info)
			for _, c := range info.Constructors {
				var body types.Type = &types.Constructor{Name: name, Args: varsOf(info.Params)}
				for i := len(c.FieldTypes) - 1; i >= 0; i-- {
					body = &types.Func{From: c.FieldTypes[i], To: body}
				}
				env.Bind(c.Name, &types.Scheme{Quantified: info.Params, Body: body})
			}
		}
		reg = reg.Merge(dep.Registry)
	}

	for _, re := range prog.Reexports {
		dep, ok := results[re.Path]
		if !ok {
			continue
		}
		names := re.Symbols
		if len(names) == 0 {
			names = allKeys(dep.Exports)
		}
		for _, name := range names {
			if prior, dup := seen[name]; dup && prior != re.Path {
				return nil, nil, nil, nil, diag.New(diag.LDR003, diag.PhaseLoader, diag.ReasonTypeMismatch, 0, ast.Span{},
					"duplicate re-export: "+name, nil)
			}
			seen[name] = re.Path
		}
	}

	return env, tenv, ops, reg, nil
}

func allKeys(m map[string]*types.Scheme) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func varsOf(ids []uint64) []types.Type {
	out := make([]types.Type, len(ids))
	for i, id := range ids {
		out[i] = &types.Var{ID: id}
	}
	return out
}
