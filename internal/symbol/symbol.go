// Package symbol implements interned Symbols and AstSymbol binding-site
// records shared across every phase of the Necro compiler pipeline
// (spec.md §3 "Symbols").
//
// Grounded on the teacher's github.com/sunholo/ailang/internal/sid package
// (stable hash-based identifiers) generalized from "identify an AST node"
// to "identify an interned name", and on internal/link/env.go's map-backed
// environment style for the table that owns AstSymbol metadata.
package symbol

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
)

// Symbol is a uniquely interned string plus its hash (spec.md §3).
type Symbol struct {
	name string
	hash uint64
}

func (s Symbol) String() string { return s.name }
func (s Symbol) Hash() uint64   { return s.hash }
func (s Symbol) IsZero() bool   { return s.name == "" && s.hash == 0 }

func fnv1a(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// Table is the phase-owned interning table (spec.md §5: "the intern table
// ... [modeled] as a phase-owned structure passed by mutable reference").
// It is logically immutable once the base module has compiled; the user
// module only adds fresh entries.
type Table struct {
	mu      sync.Mutex
	strings map[string]Symbol
}

// NewTable creates an empty interning table.
func NewTable() *Table {
	return &Table{strings: make(map[string]Symbol)}
}

// Intern returns the unique Symbol for name, creating it on first use.
func (t *Table) Intern(name string) Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sym, ok := t.strings[name]; ok {
		return sym
	}
	sym := Symbol{name: name, hash: fnv1a(name)}
	t.strings[name] = sym
	return sym
}

// Len reports how many distinct strings have been interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.strings)
}

// ContentDigest returns a stable digest of every interned name, taken in
// sorted order. internal/basecache does not use it; that package keys its
// cache by its own fingerprint of NecroBase's symbols.
func (t *Table) ContentDigest() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.strings))
	for name := range t.strings {
		names = append(names, name)
	}
	sort.Strings(names)
	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StateType classifies a binding's run-time storage needs (spec.md §4.K).
type StateType int

const (
	StateUnclassified StateType = iota
	StateConstant
	StatePointwise
	StateStateful
	StatePoly
)

func (s StateType) String() string {
	switch s {
	case StateConstant:
		return "Constant"
	case StatePointwise:
		return "Pointwise"
	case StateStateful:
		return "Stateful"
	case StatePoly:
		return "Poly"
	default:
		return "Unclassified"
	}
}

// ID indexes an AstSymbol inside a Module's symbol arena. Per the design
// notes (spec.md §9) the AST stores this index rather than a live pointer,
// and metadata mutation goes through Module.Get/Module.Mut.
type ID uint32

// AliasSet tracks the AstSymbols that might share storage with a given
// AstSymbol (spec.md §3 "Alias set", §4.C).
type AliasSet struct {
	members map[ID]bool
}

// NewSingletonAlias builds the trivial alias set containing only self.
func NewSingletonAlias(self ID) *AliasSet {
	return &AliasSet{members: map[ID]bool{self: true}}
}

// Contains reports whether id is a member of the set.
func (a *AliasSet) Contains(id ID) bool {
	if a == nil {
		return false
	}
	return a.members[id]
}

// Merge returns the union of two alias sets (spec.md §8 invariant 5:
// idempotent, and contains(merge(A,B),x) iff contains(A,x) or contains(B,x)).
func Merge(a, b *AliasSet) *AliasSet {
	out := &AliasSet{members: make(map[ID]bool)}
	for id := range a.members {
		out.members[id] = true
	}
	for id := range b.members {
		out.members[id] = true
	}
	return out
}

// Members returns the set contents as a sorted-by-insertion-unstable slice;
// callers that need determinism should sort by ID themselves.
func (a *AliasSet) Members() []ID {
	if a == nil {
		return nil
	}
	out := make([]ID, 0, len(a.members))
	for id := range a.members {
		out = append(out, id)
	}
	return out
}

// AstSymbol is a binding-site record shared across phases (spec.md §3).
// Its Type/AliasSet/StateType/DeclarationGroup fields start nil/zero and
// are mutated in place by later phases; earlier phases never read a field
// a later phase owns (spec.md §5).
type AstSymbol struct {
	ID ID

	SourceName string // as written in the source
	UniqueName string // possibly mangled (monomorphization suffixes)
	Module     string // declaring module name

	// Mutated by §4.E (kind & type inference). Nil until then.
	Type interface{} // *types.Scheme, kept as interface{} to avoid an import cycle

	DeclarationGroup int // back-pointer into the owning DeclarationGroupList; -1 if none
	HasSignature     bool

	MethodTypeClass string   // non-empty if this AstSymbol is a type-class method
	InstanceList    []string // instance keys ("Class@Con") this symbol participates in

	StateType StateType
	Arity     int

	IsConstructor bool
	IsEnum        bool // nullary constructor
	IsWrapper     bool // single-constructor, single-field "newtype"
	IsRecursive   bool
	IsPrimitive   bool

	AliasSet *AliasSet
}

// Module owns the AstSymbol arena for one compilation unit (the user module
// layered over NecroBase, spec.md §1/§6). It is the "SymbolTable::get_mut"
// abstraction spec.md §9 calls for.
type Module struct {
	Name    string
	Intern  *Table
	symbols []*AstSymbol
	byName  map[string]ID
}

// NewModule creates an empty symbol arena for a module named name, sharing
// intern with its parent (the NecroBase module, or nil for NecroBase
// itself). Slot 0 of the arena holds an unnamed placeholder, so the first
// Declare returns ID 1 and ID 0 stays the "unresolved" marker every phase
// tests for.
func NewModule(name string, intern *Table) *Module {
	if intern == nil {
		intern = NewTable()
	}
	placeholder := &AstSymbol{Module: name, DeclarationGroup: -1}
	return &Module{Name: name, Intern: intern, symbols: []*AstSymbol{placeholder}, byName: make(map[string]ID)}
}

// NewUserModule creates the symbol arena for a user module layered over
// base (spec.md §1/§6's single user-module-over-base-module setup). Every
// AstSymbol base already declared is pre-seeded into the new arena at the
// same ID it holds in base, so a symbol.ID resolved by internal/scope
// (which binds both base.All() and the user module's own declarations
// into one lexical scope, see internal/scope.Builder.Build) is valid
// against either module's Get/Lookup without a module tag or a separate
// parent-chasing lookup path — the two arenas are kept ID-compatible by
// construction instead.
//
// Declarations made afterward on the returned module never mutate base:
// byName is copied, not shared, so a user declaration that happens to
// reuse a base name shadows it locally (Declare/Rebind only ever touch
// the copy) without perturbing NecroBase for any other compilation unit
// built from the same base.
func NewUserModule(name string, base *Module) *Module {
	m := &Module{
		Name:    name,
		Intern:  base.Intern,
		symbols: append([]*AstSymbol(nil), base.symbols...),
		byName:  make(map[string]ID, len(base.byName)),
	}
	for k, v := range base.byName {
		m.byName[k] = v
	}
	return m
}

// Declare allocates a fresh AstSymbol for sourceName and returns its ID.
// Mirrors §4.A: "Create an AstSymbol for every declaration-form binding
// ... using the module name as the module component."
func (m *Module) Declare(sourceName string) ID {
	id := ID(len(m.symbols))
	sym := &AstSymbol{
		ID:               id,
		SourceName:       sourceName,
		UniqueName:       sourceName,
		Module:           m.Name,
		DeclarationGroup: -1,
	}
	m.symbols = append(m.symbols, sym)
	m.byName[sourceName] = id
	m.Intern.Intern(sourceName)
	return id
}

// Get returns the AstSymbol for id. Panics on an out-of-range id, the same
// contract as slice indexing — arena ids are never supposed to dangle.
func (m *Module) Get(id ID) *AstSymbol {
	return m.symbols[id]
}

// Lookup finds a top-level declaration by its current source name.
func (m *Module) Lookup(name string) (ID, bool) {
	id, ok := m.byName[name]
	return id, ok
}

// Rebind updates the name→ID mapping after monomorphization renames a
// clone (see internal/mono), so subsequent Lookups of the mangled name
// resolve to the specialized symbol.
func (m *Module) Rebind(name string, id ID) {
	m.byName[name] = id
}

// All returns every AstSymbol declared so far, in declaration order.
func (m *Module) All() []*AstSymbol {
	return m.symbols
}

// Mangle produces the specialization suffix described in spec.md §4.F:
// "name<mangled,mangled,...>" with intern-based deduplication.
func Mangle(base string, argTags []string) string {
	if len(argTags) == 0 {
		return base
	}
	out := base + "<"
	for i, tag := range argTags {
		if i > 0 {
			out += ","
		}
		out += tag
	}
	return out + ">"
}

// Clone deep-copies an AstSymbol under a new ID/unique name, used when
// monomorphization clones a declaration (spec.md §4.F step 2).
func (m *Module) Clone(id ID, newUniqueName string) ID {
	src := m.Get(id)
	clone := *src
	clone.ID = ID(len(m.symbols))
	clone.UniqueName = newUniqueName
	clone.Type = nil // re-inferred/substituted by the caller
	clone.AliasSet = nil
	m.symbols = append(m.symbols, &clone)
	m.byName[newUniqueName] = clone.ID
	m.Intern.Intern(newUniqueName)
	return clone.ID
}
