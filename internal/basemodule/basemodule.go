// Package basemodule constructs NecroBase (spec.md §6): the pre-compiled
// module every user program is scoped and type-checked against before its
// own declarations are processed — primitive types, the standard type
// classes and their instances, the arithmetic/comparison/composition
// operator table, and the FFI symbols the runtime exposes.
//
// Grounded on internal/builtins/spec.go's frozen-registry pattern
// (BuiltinSpec / specRegistry / Init's frozen flag): that shape is kept
// here almost unchanged, generalized from "register a builtin function
// implementation plus its type" to "register a NecroBase symbol plus its
// scheme", since NecroBase has no runtime implementation to carry — only
// declarations phases B onward need to see in scope.
package basemodule

import (
	"fmt"

	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// spec is one NecroBase declaration: a name, its arity (for symbol.AstSymbol.Arity,
// consulted the same way user declarations are — see internal/infer/decls.go
// apatsAssignment), and a scheme builder run once the module's own rigid
// vars are in hand.
type spec struct {
	name    string
	arity   int
	isCon   bool // true for data constructors (Cons, Nil, Just, Nothing, tuple cons)
	scheme  func() *types.Scheme
}

// specRegistry holds every NecroBase declaration, appended by the register*
// functions below. It exists only to keep construction declarative and
// table-driven instead of one giant imperative Build function.
var specRegistry []spec

// frozen mirrors internal/builtins/spec.go's guard: once Build has run
// once, registerSpec panics rather than silently accepting a late entry,
// since NecroBase must be identical across every compilation unit in a
// process.
var frozen = false

func registerSpec(s spec) {
	if frozen {
		panic(fmt.Sprintf("basemodule: cannot register %q after Build has run", s.name))
	}
	specRegistry = append(specRegistry, s)
}

func init() {
	registerPrimitiveConstructors()
	registerOperatorTable()
	registerFFISymbols()
}

// NecroBase is the frozen base module: a symbol arena, the shared kind
// table, and the shared instance table, all seeded before any user module
// is reified (internal/scope.Build takes this as its base argument).
type NecroBase struct {
	Module    *symbol.Module
	Kinds     *types.KindTable
	Instances *types.InstanceTable
}

// Build constructs NecroBase fresh. Called once per compilation unit
// (internal/pipeline.Compile); subsequent calls build an independent copy
// rather than sharing state, since symbol.ID values are arena-local and a
// shared *symbol.Module across concurrent compilations would race.
func Build() *NecroBase {
	frozen = true

	mod := symbol.NewModule("NecroBase", nil)
	kinds := types.NewKindTable()
	instances := types.NewInstanceTable()

	for _, s := range specRegistry {
		id := mod.Declare(s.name)
		sym := mod.Get(id)
		sym.Arity = s.arity
		sym.IsConstructor = s.isCon
		sym.Type = s.scheme()
	}

	registerClasses(instances)
	registerInstances(instances)

	return &NecroBase{Module: mod, Kinds: kinds, Instances: instances}
}

// rigid allocates a fresh class-bound rigid type variable at scope 0 (the
// base module's own declarations never nest inside a deeper lexical
// scope), used to build the single-variable schemes every class method
// and operator below is quantified over.
func rigid(name string) *types.Var { return types.NewRigidVar(name, 0) }

func fn(from, to types.Type) types.Type { return &types.Fun{From: from, To: to} }

func fn2(a, b, c types.Type) types.Type { return fn(a, fn(b, c)) }

// classScheme builds `forall a. (Class a) => <body built from a>`, the
// shape of every NecroBase class method and every overloaded operator
// (spec.md §6 "operators are class methods resolved the same way as any
// other method reference").
func classScheme(class string, body func(a *types.Var) types.Type) *types.Scheme {
	a := rigid("a")
	return &types.Scheme{
		Vars:        []*types.Var{a},
		Constraints: []types.Constraint{{Class: class, Type: a}},
		Body:        body(a),
	}
}
