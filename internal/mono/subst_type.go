package mono

import "github.com/sunholo/ailang/internal/types"

// substType implements spec.md §4.F's `type_replace_with_subs`: replace
// every occurrence of a named type variable with its ground replacement.
// Grounded on _examples/vovakirdan-surge/internal/mono/subst_type.go's
// structural type-substitution switch, adapted from surge's interned
// types.TypeID representation to this package's types.Type interface tree.
func substType(t types.Type, subs map[string]types.Type) types.Type {
	if t == nil {
		return nil
	}
	switch t := t.(type) {
	case *types.Var:
		root := types.Find(t)
		if root.Bound != nil {
			return substType(types.Prune(root), subs)
		}
		if repl, ok := subs[root.Name]; ok {
			return repl
		}
		return t

	case *types.Con:
		if len(t.Args) == 0 {
			return t
		}
		out := *t
		out.Args = make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			out.Args[i] = substType(a, subs)
		}
		return &out

	case *types.App:
		out := *t
		out.Func = substType(t.Func, subs)
		out.Arg = substType(t.Arg, subs)
		return &out

	case *types.Fun:
		out := *t
		out.From = substType(t.From, subs)
		out.To = substType(t.To, subs)
		return &out

	case *types.List:
		if len(t.Elems) == 0 {
			return t
		}
		out := *t
		out.Elems = make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			out.Elems[i] = substType(e, subs)
		}
		return &out

	case *types.For:
		// A monomorphization target's substitution map is always keyed by
		// names already fully resolved to ground types (spec.md §4.F step
		// 1: "the entire substitution list is ground"), so a residual FOR
		// binder here would indicate unfinished generalization; substitute
		// the body and context only, leaving the binder untouched.
		out := *t
		out.Body = substType(t.Body, subs)
		return &out

	default:
		return t
	}
}

// substScheme substitutes a Scheme's body, used to specialize an
// AstSymbol.Type after cloning (spec.md §4.F step 3).
func substScheme(s *types.Scheme, subs map[string]types.Type) *types.Scheme {
	if s == nil {
		return nil
	}
	return &types.Scheme{
		Vars:        nil, // fully applied: no quantifiers survive a ground specialization
		Constraints: nil,
		Body:        substType(s.Body, subs),
	}
}
