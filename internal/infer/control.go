package infer

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/types"
)

// inferDo type-checks a do-block as a left-to-right sequence of statements
// without full higher-kinded monad inference: the union-find unifier here
// only unifies monotypes of kind Type, so there is no way to unify "the
// monad" m across statements the way a real Monad-class dictionary pass
// would. Instead each statement's own expression is checked independently,
// and a BIND_ASSIGNMENT's bound name gets the single type argument of
// whatever one-parameter type constructor its right-hand side produced
// (List/Maybe/Pattern, the types NecroBase registers Monad instances for,
// are all Con{Args: [a]} shaped). This is recorded as a deliberate
// simplification, not an oversight: full dictionary-passing elaboration
// belongs to a later pass over resolved instances, not phase E.
func (c *Checker) inferDo(d *ast.Do, env *env) types.Type {
	denv := env.child()
	last := types.Type(types.TUnit)
	for _, stmt := range d.Stmts {
		switch s := stmt.(type) {
		case *ast.BindAssignment:
			mt := c.inferExpr(s.Expr, denv)
			denv.bindMono(s.Symbol, c.monadElemType(mt))
			last = mt
		case *ast.PatBindAssignment:
			mt := c.inferExpr(s.Expr, denv)
			c.inferPattern(s.Pat, c.monadElemType(mt), denv)
			last = mt
		case *ast.ExprStmt:
			last = c.inferExpr(s.Expr, denv)
		}
	}
	return last
}

// monadElemType extracts the type argument "a" out of a single-parameter
// type constructor `m a` (Pattern a, Event a, Maybe a, ...); anything else
// yields a fresh variable rather than failing outright, since a malformed
// bind is already reported by the surrounding unification.
func (c *Checker) monadElemType(mt types.Type) types.Type {
	if con, ok := types.Prune(mt).(*types.Con); ok && len(con.Args) == 1 {
		return con.Args[0]
	}
	return c.fresh()
}

// inferForLoop types `for ipat in range { body }` as a World state
// transformer: the loop as a whole, like the WHILE_LOOP form, has type
// `World -> World`, matching how deep-copy-synthesized array loops
// (spec.md §4.K) and the runtime's World-threaded FFI primitives
// (unsafePoke, unsafeMalloc) already use World as the real-time side-effect
// token.
func (c *Checker) inferForLoop(f *ast.ForLoop, env *env) types.Type {
	fenv := env.child()
	if f.IndexPat != nil {
		c.inferPattern(f.IndexPat, c.freshNumeric(), fenv)
	}
	rangeT := c.inferExpr(f.RangeSeq, fenv)
	c.inferPattern(f.ValuePat, c.monadElemType(rangeT), fenv)

	bodyT := c.inferExpr(f.Body, fenv)
	c.unify(f.Body, bodyT, &types.Fun{From: types.TWorld, To: types.TWorld})
	return &types.Fun{From: types.TWorld, To: types.TWorld}
}

// inferWhileLoop types `while pred { body }` the same way: a predicate that
// must be Bool and a body that is itself a World state transformer.
func (c *Checker) inferWhileLoop(w *ast.WhileLoop, env *env) types.Type {
	predT := c.inferExpr(w.Pred, env)
	c.unify(w.Pred, predT, types.TBool)

	bodyT := c.inferExpr(w.Body, env)
	c.unify(w.Body, bodyT, &types.Fun{From: types.TWorld, To: types.TWorld})
	return &types.Fun{From: types.TWorld, To: types.TWorld}
}

func (c *Checker) freshNumeric() *types.Var {
	v := c.fresh()
	v.Context = append(v.Context, "Num")
	return v
}
