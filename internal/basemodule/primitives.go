package basemodule

import (
	"fmt"

	"github.com/sunholo/ailang/internal/types"
)

// registerPrimitiveConstructors declares NecroBase's nullary/unary data
// constructors (spec.md §6): the ones spec.md's worked examples and
// internal/core/translate.go's desugaring (Cons/Nil, tuple literals) refer
// to by bare name rather than by a user data declaration. Primitive
// *types* themselves (Int, Float, Audio, Array, ...) live in
// types.NewKindTable, not here — there is no term-level symbol for a
// type, only for its value constructors.
func registerPrimitiveConstructors() {
	// List a = Nil | Cons a (List a)
	registerSpec(spec{name: "Nil", arity: 0, isCon: true, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: &types.Con{Name: "List", Args: []types.Type{a}}}
	}})
	registerSpec(spec{name: "Cons", arity: 2, isCon: true, scheme: func() *types.Scheme {
		a := rigid("a")
		list := &types.Con{Name: "List", Args: []types.Type{a}}
		return &types.Scheme{Vars: []*types.Var{a}, Body: fn2(a, list, list)}
	}})

	// Maybe a = Nothing | Just a
	registerSpec(spec{name: "Nothing", arity: 0, isCon: true, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: types.TMaybe(a)}
	}})
	registerSpec(spec{name: "Just", arity: 1, isCon: true, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: fn(a, types.TMaybe(a))}
	}})

	// Event a = NoEvent | OccEvent a — spec.md §6's reactive Event primitive.
	registerSpec(spec{name: "NoEvent", arity: 0, isCon: true, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: types.TEvent(a)}
	}})
	registerSpec(spec{name: "OccEvent", arity: 1, isCon: true, scheme: func() *types.Scheme {
		a := rigid("a")
		return &types.Scheme{Vars: []*types.Var{a}, Body: fn(a, types.TEvent(a))}
	}})

	// Tuple constructors up to arity 10 (spec.md §6), named the way
	// internal/core/translate.go's tupleConName builds call targets for
	// arity 2 and 3; higher arities are registered under their TupleN name
	// directly since tupleConName only special-cases the two that have a
	// dedicated surface syntax spelling.
	registerTupleCon("(,)", 2)
	registerTupleCon("(,,)", 3)
	for n := 4; n <= 10; n++ {
		registerTupleCon(fmt.Sprintf("Tuple%d", n), n)
	}

	// Bool = True | False. Boolean literals are still reified as
	// ast.Constant/core.Lit values; these symbols give True and False a
	// NecroBase binding like every other constructor.
	for _, name := range []string{"True", "False"} {
		registerSpec(spec{name: name, arity: 0, isCon: true, scheme: func() *types.Scheme {
			return types.Monotype(types.TBool)
		}})
	}
}

func registerTupleCon(name string, arity int) {
	registerSpec(spec{name: name, arity: arity, isCon: true, scheme: func() *types.Scheme {
		vars := make([]*types.Var, arity)
		args := make([]types.Type, arity)
		for i := range vars {
			vars[i] = rigid(fmt_varName(i))
			args[i] = vars[i]
		}
		result := &types.Con{Name: fmt.Sprintf("Tuple%d", arity), Args: args}
		body := types.Type(result)
		for i := arity - 1; i >= 0; i-- {
			body = fn(vars[i], body)
		}
		return &types.Scheme{Vars: vars, Body: body}
	}})
}

func fmt_varName(i int) string {
	letters := "abcdefghij"
	return string(letters[i%len(letters)])
}
