// Package lambdalift implements phase I (spec.md §4.I): every lambda not
// already sitting directly as a top-level declaration's value is hoisted
// to a fresh top-level binding, with its free variables prepended as
// extra parameters and the original occurrence replaced by an application
// of the lifted name to those captured variables.
//
// Grounded on internal/core's node shapes; free-variable collection
// (freevars.go) reuses internal/elaborate/scc.go's findReferences
// tree-walk idiom. There is no direct teacher lambda-lifting pass to
// imitate, so the hoist-and-replace driver below is original, following
// the textbook technique (Johnsson 1985) the way spec.md §4.I describes
// it.
package lambdalift

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

// Lifter threads the owning module (for minting fresh top-level symbols)
// and the set of symbols already bound at the top level through the hoist
// pass.
type Lifter struct {
	mod      *symbol.Module
	topLevel map[symbol.ID]bool
	lifted   []core.CoreExpr
	counter  int
}

func New(mod *symbol.Module) *Lifter {
	return &Lifter{mod: mod, topLevel: make(map[symbol.ID]bool)}
}

// Run lifts every nested lambda out of prog's Binds, appending the
// hoisted declarations after the originals (dependency order doesn't
// matter for LET-free top-level Binds; phase K's deep-copy synthesis
// and the linker only care that every Bind is present).
func (l *Lifter) Run(prog *core.Program) *core.Program {
	for _, b := range prog.Binds {
		switch b := b.(type) {
		case *core.Bind:
			l.topLevel[b.Symbol] = true
		case *core.DataDecl:
			for _, con := range b.Constructors {
				l.topLevel[con.Symbol] = true
			}
		}
	}

	out := make([]core.CoreExpr, 0, len(prog.Binds))
	for _, b := range prog.Binds {
		bind, ok := b.(*core.Bind)
		if !ok {
			out = append(out, b)
			continue
		}
		if bind.Initializer != nil {
			bind.Initializer = l.liftTop(bind.Initializer)
		}
		bind.Value = l.liftTop(bind.Value)
		out = append(out, bind)
	}
	prog.Binds = append(out, l.lifted...)
	return prog
}

// liftTop handles a top-level Bind's own value: a bare LAM at this
// position is already a top-level declaration and must not be re-hoisted,
// but any lambda nested inside its body still needs lifting.
func (l *Lifter) liftTop(e core.CoreExpr) core.CoreExpr {
	lam, ok := e.(*core.Lam)
	if !ok {
		return l.liftExpr(e, map[string]bool{})
	}
	inner := extendBound(map[string]bool{}, lam.Params, lam.Names)
	return &core.Lam{CoreNode: lam.CoreNode, Params: lam.Params, Names: lam.Names, Body: l.liftExpr(lam.Body, inner)}
}

// liftExpr rewrites e bottom-up, hoisting every LAM it encounters (other
// than the special top-level case handled by liftTop) via lift.
func (l *Lifter) liftExpr(e core.CoreExpr, bound map[string]bool) core.CoreExpr {
	switch e := e.(type) {
	case *core.Var, *core.Lit:
		return e

	case *core.Lam:
		inner := extendBound(bound, e.Params, e.Names)
		newBody := l.liftExpr(e.Body, inner)
		return l.lift(&core.Lam{CoreNode: e.CoreNode, Params: e.Params, Names: e.Names, Body: newBody})

	case *core.App:
		return &core.App{CoreNode: e.CoreNode, Func: l.liftExpr(e.Func, bound), Arg: l.liftExpr(e.Arg, bound)}

	case *core.Let:
		newValue := l.liftExpr(e.Value, bound)
		inner := extendBound(bound, []symbol.ID{e.Symbol}, []string{e.Name})
		newBody := l.liftExpr(e.Body, inner)
		return &core.Let{CoreNode: e.CoreNode, Symbol: e.Symbol, Name: e.Name, Value: newValue, Body: newBody}

	case *core.Case:
		newScrut := l.liftExpr(e.Scrutinee, bound)
		alts := make([]core.CaseAlt, len(e.Alts))
		for i, a := range e.Alts {
			inner := extendBoundPattern(bound, a.Pattern)
			alts[i] = core.CaseAlt{Pattern: a.Pattern, Body: l.liftExpr(a.Body, inner)}
		}
		return &core.Case{CoreNode: e.CoreNode, Scrutinee: newScrut, Alts: alts, Exhaustive: e.Exhaustive}

	case *core.Loop:
		out := *e
		out.RangeInit = l.liftExpr(e.RangeInit, bound)
		out.MaxLoops = l.liftExpr(e.MaxLoops, bound)
		out.Predicate = l.liftExpr(e.Predicate, bound)
		inner := extendBound(bound, []symbol.ID{e.IndexSymbol, e.ValueSymbol}, []string{e.IndexName, e.ValueName})
		out.Body = l.liftExpr(e.Body, inner)
		return &out

	default:
		return e
	}
}

// lift hoists one already-body-simplified LAM to a fresh top-level Bind,
// prepending its free variables as extra leading parameters, and returns
// the replacement expression: the lifted name applied to those captured
// variables (spec.md §4.I: "replacing the original expression with an
// application over captured free variables").
func (l *Lifter) lift(lam *core.Lam) core.CoreExpr {
	ownBound := extendBound(map[string]bool{}, lam.Params, lam.Names)
	fvs := collectFreeVars(l.topLevel, ownBound, lam.Body)

	l.counter++
	name := fmt.Sprintf("lifted$%d", l.counter)
	sym := l.mod.Declare(name)

	liftedParams := make([]symbol.ID, 0, len(fvs)+len(lam.Params))
	liftedNames := make([]string, 0, len(fvs)+len(lam.Names))
	for _, fv := range fvs {
		liftedParams = append(liftedParams, fv.Symbol)
		liftedNames = append(liftedNames, fv.Name)
	}
	liftedParams = append(liftedParams, lam.Params...)
	liftedNames = append(liftedNames, lam.Names...)

	l.lifted = append(l.lifted, &core.Bind{
		Symbol: sym,
		Name:   name,
		Value:  &core.Lam{Params: liftedParams, Names: liftedNames, Body: lam.Body},
	})
	// Once lifted, this binding is itself a top-level symbol: an enclosing
	// lambda referencing it (indirectly, through its replacement
	// application below) must not treat it as something to capture.
	l.topLevel[sym] = true

	var result core.CoreExpr = &core.Var{Symbol: sym, Name: name}
	for _, fv := range fvs {
		result = &core.App{Func: result, Arg: &core.Var{Symbol: fv.Symbol, Name: fv.Name}}
	}
	return result
}
