package basemodule

import "github.com/sunholo/ailang/internal/types"

// registerFFISymbols declares spec.md §6's six foreign symbols the
// runtime provides natively: mouse input, raw pointer access, and the
// initial World token every effectful computation threads through
// (internal/infer/control.go already types FOR/WHILE loops as
// `World -> World`; these are the primitives that make that threading
// observable).
func registerFFISymbols() {
	registerSpec(spec{name: "getMouseX", arity: 1, scheme: func() *types.Scheme {
		return types.Monotype(fn(types.TWorld, types.TTuple(types.TInt, types.TWorld)))
	}})
	registerSpec(spec{name: "getMouseY", arity: 1, scheme: func() *types.Scheme {
		return types.Monotype(fn(types.TWorld, types.TTuple(types.TInt, types.TWorld)))
	}})
	registerSpec(spec{name: "unsafeMalloc", arity: 2, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: fn2(types.TInt, types.TWorld, types.TTuple(types.TPtr(a), types.TWorld))}
	}})
	registerSpec(spec{name: "unsafePeek", arity: 2, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: fn2(types.TPtr(a), types.TWorld, types.TTuple(a, types.TWorld))}
	}})
	registerSpec(spec{name: "unsafePoke", arity: 3, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: fn2(types.TPtr(a), a, fn(types.TWorld, types.TWorld))}
	}})
	// world: the single initial World token a whole program's top-level
	// effectful binding closes over (spec.md §6 "world is the FFI-provided
	// starting token"). Arity 0, not a constructor — a plain constant.
	registerSpec(spec{name: "world", arity: 0, scheme: func() *types.Scheme {
		return types.Monotype(types.TWorld)
	}})
}
