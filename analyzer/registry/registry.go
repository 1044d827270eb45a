package registry

import (
	"log/slog"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CollisionPolicy decides which definition survives when two of them
// map to the same qualified name.
type CollisionPolicy string

const (
	// KeepLast lets a later definition overwrite an earlier one.
	KeepLast CollisionPolicy = "last"
	// KeepFirst keeps the earlier definition and drops later ones.
	KeepFirst CollisionPolicy = "first"
)

// Param is one declared parameter: its name and the annotation text,
// or "Any" when the parameter is unannotated.
type Param struct {
	Name string
	Type string
}

// Definition is a single function or method, keyed project-wide by its
// qualified name ("module.func" or "module.Class.method").
type Definition struct {
	QualifiedName string
	File          string
	Module        string
	Class         string // empty for top-level functions
	Params        []Param
	Return        string

	// Calls holds the qualified names of project-local definitions this
	// one may invoke. Populated by BuildCallGraph; always a subset of
	// the registry keys.
	Calls map[string]struct{}

	// Body is the parsed function body, retained between the collection
	// pass and the call-graph pass. Source is the file it indexes into.
	Body   *sitter.Node
	Source []byte
}

// Registry is the project-wide definition table shared by both
// analysis passes.
type Registry struct {
	defs   map[string]*Definition
	policy CollisionPolicy
}

func NewRegistry(policy CollisionPolicy) *Registry {
	if policy == "" {
		policy = KeepLast
	}
	return &Registry{
		defs:   make(map[string]*Definition),
		policy: policy,
	}
}

// Add registers a definition under its qualified name, applying the
// collision policy when the name is already taken.
func (r *Registry) Add(def *Definition) {
	if prev, ok := r.defs[def.QualifiedName]; ok {
		slog.Warn("qualified name collision",
			"name", def.QualifiedName,
			"kept", string(r.policy),
			"first", prev.File,
			"second", def.File)
		if r.policy == KeepFirst {
			return
		}
	}
	r.defs[def.QualifiedName] = def
}

func (r *Registry) Get(qualified string) (*Definition, bool) {
	d, ok := r.defs[qualified]
	return d, ok
}

func (r *Registry) Has(qualified string) bool {
	_, ok := r.defs[qualified]
	return ok
}

func (r *Registry) Len() int { return len(r.defs) }

// Names returns all qualified names in ascending byte order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all definitions ordered by qualified name.
func (r *Registry) Definitions() []*Definition {
	defs := make([]*Definition, 0, len(r.defs))
	for _, name := range r.Names() {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// ReverseIndex maps a definition's simple trailing name segment to the
// set of qualified names ending in that segment. Built once before
// resolution begins.
type ReverseIndex map[string]map[string]struct{}

func BuildReverseIndex(r *Registry) ReverseIndex {
	idx := make(ReverseIndex)
	for name := range r.defs {
		short := simpleName(name)
		if idx[short] == nil {
			idx[short] = make(map[string]struct{})
		}
		idx[short][name] = struct{}{}
	}
	return idx
}

func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// SymbolOrigin records where a symbol import came from: the origin
// module and the symbol's original exported name.
type SymbolOrigin struct {
	Module string
	Name   string
}

// ImportTables holds, per analyzed module, the aliasing visible in its
// file: direct module imports and "from module import symbol" forms.
// Built during collection, read-only afterwards.
type ImportTables struct {
	// ModuleAliases: module -> local alias -> real module dotted name.
	ModuleAliases map[string]map[string]string
	// SymbolImports: module -> local name -> origin.
	SymbolImports map[string]map[string]SymbolOrigin
}

func NewImportTables() *ImportTables {
	return &ImportTables{
		ModuleAliases: make(map[string]map[string]string),
		SymbolImports: make(map[string]map[string]SymbolOrigin),
	}
}

// EnsureModule initializes the per-module tables so that a module with
// no imports still has empty (not missing) entries.
func (t *ImportTables) EnsureModule(module string) {
	if t.ModuleAliases[module] == nil {
		t.ModuleAliases[module] = make(map[string]string)
	}
	if t.SymbolImports[module] == nil {
		t.SymbolImports[module] = make(map[string]SymbolOrigin)
	}
}

func (t *ImportTables) AddModuleAlias(module, alias, real string) {
	t.EnsureModule(module)
	t.ModuleAliases[module][alias] = real
}

func (t *ImportTables) AddSymbolImport(module, local, originModule, originName string) {
	t.EnsureModule(module)
	t.SymbolImports[module][local] = SymbolOrigin{Module: originModule, Name: originName}
}
