package types

import "sort"

// Instantiate replaces every quantified variable of scheme with a fresh
// flex var at the given lexical scope, returning the substitution list so
// callers can re-attach any residual class context to the fresh vars
// (spec.md §4.E "Instantiation").
func Instantiate(scheme *Scheme, scope int) (Type, []Constraint) {
	subst := make(map[*Var]*Var, len(scheme.Vars))
	for _, v := range scheme.Vars {
		subst[v] = NewVar(scope)
	}
	body := substituteVars(scheme.Body, subst)
	constraints := make([]Constraint, len(scheme.Constraints))
	for i, c := range scheme.Constraints {
		constraints[i] = Constraint{Class: c.Class, Type: substituteVars(c.Type, subst)}
	}
	return body, constraints
}

func substituteVars(t Type, subst map[*Var]*Var) Type {
	t = Prune(t)
	switch t := t.(type) {
	case *Var:
		if fresh, ok := subst[t]; ok {
			return fresh
		}
		return t
	case *Con:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substituteVars(a, subst)
		}
		return &Con{M: t.M, Name: t.Name, Args: args}
	case *Fun:
		return &Fun{M: t.M, From: substituteVars(t.From, subst), To: substituteVars(t.To, subst)}
	case *App:
		return &App{M: t.M, Func: substituteVars(t.Func, subst), Arg: substituteVars(t.Arg, subst)}
	case *List:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substituteVars(e, subst)
		}
		return &List{M: t.M, Elems: elems}
	case *For:
		return &For{M: t.M, Var: t.Var, Context: t.Context, Body: substituteVars(t.Body, subst)}
	default:
		return t
	}
}

// FreeVars collects the free flex (non-rigid-scope-bound) variables of t
// that were created at a scope deeper than boundary — the set generalize
// closes over.
func FreeVars(t Type, boundary int, out map[*Var]bool) {
	t = Prune(t)
	switch t := t.(type) {
	case *Var:
		if t.Scope > boundary {
			out[t] = true
		}
	case *Con:
		for _, a := range t.Args {
			FreeVars(a, boundary, out)
		}
	case *Fun:
		FreeVars(t.From, boundary, out)
		FreeVars(t.To, boundary, out)
	case *App:
		FreeVars(t.Func, boundary, out)
		FreeVars(t.Arg, boundary, out)
	case *List:
		for _, e := range t.Elems {
			FreeVars(e, boundary, out)
		}
	case *For:
		FreeVars(t.Body, boundary, out)
	}
}

// Generalize closes a monotype over every free var not bound in an
// enclosing scope (deeper than boundary), adding a For binder per
// variable and attaching any residual class context (spec.md §4.E
// "Generalization").
func Generalize(t Type, boundary int, constraintsOf func(*Var) []string) *Scheme {
	free := make(map[*Var]bool)
	FreeVars(t, boundary, free)

	vars := make([]*Var, 0, len(free))
	for v := range free {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Order < vars[j].Order })

	var constraints []Constraint
	for _, v := range vars {
		for _, cls := range constraintsOf(v) {
			constraints = append(constraints, Constraint{Class: cls, Type: v})
		}
	}
	return &Scheme{Vars: vars, Constraints: constraints, Body: t}
}

// AmbiguityDefault implements spec.md §4.E's defaulting rule: an unbound
// flex var whose only constraints are Num/Fractional defaults to Int/Float
// respectively; a var constrained only by Eq/Ord defaults to Unit. It
// returns false (and an "ambiguous_type_variable" situation for the
// caller to report) when no rule applies.
func AmbiguityDefault(v *Var, constraints []string) (Type, bool) {
	has := func(name string) bool {
		for _, c := range constraints {
			if c == name {
				return true
			}
		}
		return false
	}
	switch {
	case len(constraints) == 0:
		return nil, false
	case has("Fractional"):
		return TFloat, true
	case has("Num"):
		return TInt, true
	case onlyEqOrd(constraints):
		return TUnit, true
	default:
		return nil, false
	}
}

func onlyEqOrd(constraints []string) bool {
	if len(constraints) == 0 {
		return false
	}
	for _, c := range constraints {
		if c != "Eq" && c != "Ord" {
			return false
		}
	}
	return true
}
