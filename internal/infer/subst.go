package infer

import "github.com/sunholo/ailang/internal/types"

// substituteType rewrites every occurrence of a named variable in t per m,
// keyed by Var.Name the way internal/mono's substType keys its own
// post-generalization substitution (fresh var names are unique for the
// lifetime of a compilation, see types.NewVar's counter). Grounded on
// types.substituteVars's case structure (unexported, so reimplemented here
// against the same exported Type variants) generalized to let a quantified
// variable be replaced by an arbitrary Type rather than only another Var —
// needed both for scheme instantiation (replace with a fresh Var) and for
// specializing a class method signature to an instance's concrete head
// (replace the class variable with a ground Con).
func substituteType(t types.Type, m map[string]types.Type) types.Type {
	t = types.Prune(t)
	switch t := t.(type) {
	case *types.Var:
		if repl, ok := m[t.Name]; ok {
			return repl
		}
		return t
	case *types.Con:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substituteType(a, m)
		}
		return &types.Con{M: t.M, Name: t.Name, Args: args}
	case *types.Fun:
		return &types.Fun{M: t.M, From: substituteType(t.From, m), To: substituteType(t.To, m)}
	case *types.App:
		return &types.App{M: t.M, Func: substituteType(t.Func, m), Arg: substituteType(t.Arg, m)}
	case *types.List:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substituteType(e, m)
		}
		return &types.List{M: t.M, Elems: elems}
	case *types.For:
		return &types.For{M: t.M, Var: t.Var, Context: t.Context, Body: substituteType(t.Body, m)}
	default:
		return t
	}
}

// instantiate freshens scheme for use at the checker's current scope depth,
// recording the (quantified-name, fresh-var) pairs the caller needs to
// stash on an ast.Var's InstSubs once the enclosing group's unification
// has settled (see Checker.finalizePending), and propagating each
// constraint's class name onto its fresh variable's residual Context so
// ambiguity defaulting (spec.md §4.E) can see it later.
func (c *Checker) instantiate(scheme *types.Scheme) (body types.Type, names []string, freshVars []*types.Var) {
	m := make(map[string]types.Type, len(scheme.Vars))
	freshVars = make([]*types.Var, len(scheme.Vars))
	names = make([]string, len(scheme.Vars))
	for i, v := range scheme.Vars {
		fv := c.fresh()
		m[v.Name] = fv
		freshVars[i] = fv
		names[i] = v.Name
	}
	for _, cst := range scheme.Constraints {
		ct := substituteType(cst.Type, m)
		if v, ok := types.Prune(ct).(*types.Var); ok {
			v.Context = append(v.Context, cst.Class)
		}
	}
	body = substituteType(scheme.Body, m)
	return body, names, freshVars
}
