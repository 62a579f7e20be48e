package basemodule

import "github.com/sunholo/ailang/internal/types"

// registerOperatorTable declares spec.md §6's operator table. Each
// operator is a NecroBase term-level symbol exactly like any named
// function — internal/infer's inferOperator/lookupOperator resolve "+"
// the same way they resolve a bare Var, via mod.Lookup — so the class
// constraint that makes an operator overloaded (Num for "+", Eq for "==",
// ...) is attached to its scheme precisely as any other class method's is.
func registerOperatorTable() {
	// Arithmetic: Num a => a -> a -> a
	for _, op := range []string{"+", "-", "*"} {
		op := op
		registerSpec(spec{name: op, arity: 2, scheme: func() *types.Scheme {
			return classScheme("Num", func(a *types.Var) types.Type { return fn2(a, a, a) })
		}})
	}
	// negate (unary minus, desugared to a named call by the parser the
	// way the teacher's lexer/parser already reroutes unary "-").
	registerSpec(spec{name: "negate", arity: 1, scheme: func() *types.Scheme {
		return classScheme("Num", func(a *types.Var) types.Type { return fn(a, a) })
	}})

	// Division: Fractional a => a -> a -> a
	registerSpec(spec{name: "/", arity: 2, scheme: func() *types.Scheme {
		return classScheme("Fractional", func(a *types.Var) types.Type { return fn2(a, a, a) })
	}})

	// Equality: Eq a => a -> a -> Bool
	for _, op := range []string{"==", "/="} {
		op := op
		registerSpec(spec{name: op, arity: 2, scheme: func() *types.Scheme {
			return classScheme("Eq", func(a *types.Var) types.Type { return fn2(a, a, types.TBool) })
		}})
	}

	// Ordering: Ord a => a -> a -> Bool
	for _, op := range []string{"<", ">", "<=", ">="} {
		op := op
		registerSpec(spec{name: op, arity: 2, scheme: func() *types.Scheme {
			return classScheme("Ord", func(a *types.Var) types.Type { return fn2(a, a, types.TBool) })
		}})
	}

	// Boolean connectives: non-overloaded, plain Bool -> Bool -> Bool.
	for _, op := range []string{"&&", "||"} {
		op := op
		registerSpec(spec{name: op, arity: 2, scheme: func() *types.Scheme {
			return types.Monotype(fn2(types.TBool, types.TBool, types.TBool))
		}})
	}

	// Monadic bind/then: Monad m => m a -> (a -> m b) -> m b  /  m a -> m b -> m b.
	// These are fixed to the concrete Pattern head rather than a class
	// variable (spec.md §9 open-question decision: Pattern + runSeq over the
	// uniqueness alternative), although classes.go also registers Monad
	// instances for List and Maybe. internal/infer.inferDo does not use these
	// schemes: it takes the element type of any one-parameter type
	// constructor (see internal/infer/control.go).
	registerSpec(spec{name: ">>=", arity: 2, scheme: func() *types.Scheme {
		a, b := rigid("a"), rigid("b")
		ma := types.TPattern(a)
		mb := types.TPattern(b)
		return &types.Scheme{Vars: []*types.Var{a, b}, Body: fn2(ma, fn(a, mb), mb)}
	}})
	registerSpec(spec{name: ">>", arity: 2, scheme: func() *types.Scheme {
		a, b := rigid("a"), rigid("b")
		ma := types.TPattern(a)
		mb := types.TPattern(b)
		return &types.Scheme{Vars: []*types.Var{a, b}, Body: fn2(ma, mb, mb)}
	}})

	// fromInt/fromRational: the overloaded-literal desugaring targets
	// internal/reify's reifyConstant introduces (spec.md §4.A) for every
	// integer/float literal, so every literal in a program carries a
	// Num/Fractional constraint resolved the same way as any other
	// overloaded reference.
	registerSpec(spec{name: "fromInt", arity: 1, scheme: func() *types.Scheme {
		return classScheme("Num", func(a *types.Var) types.Type { return fn(types.TInt, a) })
	}})
	registerSpec(spec{name: "fromRational", arity: 1, scheme: func() *types.Scheme {
		return classScheme("Fractional", func(a *types.Var) types.Type { return fn(types.TFloat, a) })
	}})

	// Pipe/composition: non-overloaded, built purely from fresh flex-free
	// rigid vars (they work over any a/b/c, no class needed).
	registerSpec(spec{name: "|>", arity: 2, scheme: func() *types.Scheme {
		a, b := rigid("a"), rigid("b")
		return &types.Scheme{Vars: []*types.Var{a, b}, Body: fn2(a, fn(a, b), b)}
	}})
	registerSpec(spec{name: "<|", arity: 2, scheme: func() *types.Scheme {
		a, b := rigid("a"), rigid("b")
		return &types.Scheme{Vars: []*types.Var{a, b}, Body: fn2(fn(a, b), a, b)}
	}})
	registerSpec(spec{name: ".", arity: 2, scheme: func() *types.Scheme {
		a, b, c := rigid("a"), rigid("b"), rigid("c")
		return &types.Scheme{Vars: []*types.Var{a, b, c}, Body: fn2(fn(b, c), fn(a, b), fn(a, c))}
	}})
}
