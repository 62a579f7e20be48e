package stateanalysis

import (
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

// mergeState is necro_state_analysis_merge_state_types: the lattice join,
// which for this totally ordered StateType is just max.
func mergeState(a, b symbol.StateType) symbol.StateType {
	if a > b {
		return a
	}
	return b
}

// flattenSpine walks a chain of single-arg Apps back to its head, the same
// technique internal/presimplify, internal/lambdalift and internal/defunc
// use for the same reason: Lam bundles a curried parameter list into one
// node, so a saturated call is a chain of binary Apps over one head.
func flattenSpine(e core.CoreExpr) (head core.CoreExpr, args []core.CoreExpr) {
	for {
		app, ok := e.(*core.App)
		if !ok {
			return e, args
		}
		args = append([]core.CoreExpr{app.Arg}, args...)
		e = app.Func
	}
}

// collectInitializers walks the whole program recording which symbols are
// bound by a `~ init = rhs` recursive-value Bind, so that a later Var use of
// that symbol can be classified per necro_state_analysis_var without having
// to re-walk the binding site.
func collectInitializers(prog *core.Program) map[symbol.ID]bool {
	out := make(map[symbol.ID]bool)
	for _, b := range prog.Binds {
		walkInitializers(b, out)
	}
	return out
}

func walkInitializers(e core.CoreExpr, out map[symbol.ID]bool) {
	switch e := e.(type) {
	case *core.Bind:
		if e.Initializer != nil {
			out[e.Symbol] = true
			walkInitializers(e.Initializer, out)
		}
		walkInitializers(e.Value, out)
	case *core.Lam:
		walkInitializers(e.Body, out)
	case *core.App:
		walkInitializers(e.Func, out)
		walkInitializers(e.Arg, out)
	case *core.Let:
		walkInitializers(e.Value, out)
		walkInitializers(e.Body, out)
	case *core.Case:
		walkInitializers(e.Scrutinee, out)
		for _, alt := range e.Alts {
			walkInitializers(alt.Body, out)
		}
	case *core.Loop:
		if e.RangeInit != nil {
			walkInitializers(e.RangeInit, out)
		}
		if e.MaxLoops != nil {
			walkInitializers(e.MaxLoops, out)
		}
		if e.Predicate != nil {
			walkInitializers(e.Predicate, out)
		}
		walkInitializers(e.Body, out)
	}
}
