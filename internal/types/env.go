package types

import "github.com/wisplang/wisp/internal/ast"

// ValueEnv is a lexically-scoped chain of value bindings, mirroring
// the teacher's env.go Env with parent-chaining for let/lambda/match
// scopes.
type ValueEnv struct {
	bindings map[string]*Scheme
	parent   *ValueEnv
}

// NewValueEnv returns an empty root environment.
func NewValueEnv() *ValueEnv {
	return &ValueEnv{bindings: map[string]*Scheme{}}
}

// Child returns a new scope nested under env.
func (env *ValueEnv) Child() *ValueEnv {
	return &ValueEnv{bindings: map[string]*Scheme{}, parent: env}
}

// Bind adds a binding to the innermost scope.
func (env *ValueEnv) Bind(name string, s *Scheme) {
	env.bindings[name] = s
}

// Lookup walks outward through parent scopes.
func (env *ValueEnv) Lookup(name string) (*Scheme, bool) {
	for e := env; e != nil; e = e.parent {
		if s, ok := e.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// ConstructorInfo describes one declared data constructor, used both
// by inference (to type constructor applications) and by the
// coverage analyzer (to enumerate a type's constructor universe).
type ConstructorInfo struct {
	Name      string
	TypeName  string // the declaring TypeDeclaration's name
	FieldTypes []Type // positional constructor argument types, with any of the
	// declaring type's own params left as Var placeholders to be
	// instantiated per use
	TypeParams []uint64 // the declaring type's own quantified params
}

// TypeInfo describes one declared ADT: its full constructor universe,
// needed by C2's exhaustiveness check and C6's infection discharge
// rule to recognize "all constructors of this type are covered".
type TypeInfo struct {
	Name         string
	Params       []uint64
	Constructors []*ConstructorInfo
}

// TypeEnv holds every declared ADT in a module (plus its imports),
// keyed by type name and, separately, by constructor name so pattern
// matching can resolve `Ctor(...)` back to its owning type without a
// linear scan.
type TypeEnv struct {
	types        map[string]*TypeInfo
	constructors map[string]*ConstructorInfo
}

// NewTypeEnv returns an empty TypeEnv.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{types: map[string]*TypeInfo{}, constructors: map[string]*ConstructorInfo{}}
}

// DeclareType registers an ADT and all of its constructors.
func (te *TypeEnv) DeclareType(info *TypeInfo) {
	te.types[info.Name] = info
	for _, c := range info.Constructors {
		te.constructors[c.Name] = c
	}
}

// LookupType finds a declared ADT by name.
func (te *TypeEnv) LookupType(name string) (*TypeInfo, bool) {
	t, ok := te.types[name]
	return t, ok
}

// LookupConstructor finds the ADT owning a constructor name.
func (te *TypeEnv) LookupConstructor(name string) (*ConstructorInfo, bool) {
	c, ok := te.constructors[name]
	return c, ok
}

// TypeOfConstructor returns the full TypeInfo a constructor belongs to.
func (te *TypeEnv) TypeOfConstructor(name string) (*TypeInfo, bool) {
	c, ok := te.constructors[name]
	if !ok {
		return nil, false
	}
	return te.LookupType(c.TypeName)
}

// OperatorEntry is one operator table entry; its Associativity is the
// ast package's own ast.Associativity.
type OperatorEntry struct {
	Symbol        string
	Precedence    int
	Associativity ast.Associativity
	IsPrefix      bool
}

// OperatorTable resolves user-definable operators to their
// precedence/associativity/function binding during both the two-phase
// module-loading pass (C7) and expression parsing of binary chains
// during inference. Grounded on the teacher's two-phase operator
// registration (register declarations before resolving bodies).
type OperatorTable struct {
	infix  map[string]*OperatorEntry
	prefix map[string]*OperatorEntry
}

// NewOperatorTable returns an operator table pre-seeded with no
// entries; callers add the language's built-in operators before
// layering user declarations on top.
func NewOperatorTable() *OperatorTable {
	return &OperatorTable{infix: map[string]*OperatorEntry{}, prefix: map[string]*OperatorEntry{}}
}

// DeclareInfix registers a user infix operator.
func (ot *OperatorTable) DeclareInfix(e *OperatorEntry) {
	ot.infix[e.Symbol] = e
}

// DeclarePrefix registers a user prefix operator.
func (ot *OperatorTable) DeclarePrefix(e *OperatorEntry) {
	ot.prefix[e.Symbol] = e
}

// LookupInfix resolves an infix operator symbol.
func (ot *OperatorTable) LookupInfix(sym string) (*OperatorEntry, bool) {
	e, ok := ot.infix[sym]
	return e, ok
}

// LookupPrefix resolves a prefix operator symbol.
func (ot *OperatorTable) LookupPrefix(sym string) (*OperatorEntry, bool) {
	e, ok := ot.prefix[sym]
	return e, ok
}

// Clone returns a shallow copy of ot with independent maps, used when
// a module inherits the table from a dependency and must be free to
// add its own entries without mutating the dependency's table
// (spec.md §4.7: "two-phase operator-table threading").
func (ot *OperatorTable) Clone() *OperatorTable {
	c := NewOperatorTable()
	for k, v := range ot.infix {
		c.infix[k] = v
	}
	for k, v := range ot.prefix {
		c.prefix[k] = v
	}
	return c
}
