// Package presimplify implements phase H (spec.md §4.H): a fixed-point
// rewrite over Core that strips the patterns phase G's translation
// mechanically introduces — single-field wrapper constructors, eta-expanded
// sections that turn out to be id or a pipe combinator, saturated lambda
// applications, and CASE on a variable with a single var pattern.
//
// Grounded on the teacher's internal/core package style (one function per
// node-kind switch, CoreNode embedding) generalized into a rewrite pass;
// there is no direct teacher analogue for a simplification pass, so the
// rule set is taken verbatim from spec.md §4.H and the rewrite driver
// (bottom-up rebuild, then retry rules at each node until none fire) mirrors
// internal/aliasanalysis's own expr-tree walk shape.
package presimplify

import (
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

// Simplifier holds the set of single-constructor single-field data types
// ("newtype-like") discovered in a Program, since unwrapping a constructor
// application or CASE requires knowing which constructors qualify.
type Simplifier struct {
	wrapperCons map[string]bool
}

// New scans prog's DataDecls for newtype-like constructors up front so the
// expression rewrite below never needs to consult a DataDecl mid-walk.
func New(prog *core.Program) *Simplifier {
	s := &Simplifier{wrapperCons: make(map[string]bool)}
	for _, b := range prog.Binds {
		dd, ok := b.(*core.DataDecl)
		if !ok || len(dd.Constructors) != 1 {
			continue
		}
		if con := dd.Constructors[0]; len(con.Fields) == 1 {
			s.wrapperCons[con.Name] = true
		}
	}
	return s
}

// Run rewrites every top-level Bind's Initializer/Value to its simplified
// fixed point. DataDecls pass through untouched.
func (s *Simplifier) Run(prog *core.Program) *core.Program {
	for i, b := range prog.Binds {
		bind, ok := b.(*core.Bind)
		if !ok {
			continue
		}
		if bind.Initializer != nil {
			bind.Initializer = s.fix(bind.Initializer)
		}
		bind.Value = s.fix(bind.Value)
		prog.Binds[i] = bind
	}
	return prog
}

// fix rebuilds e bottom-up (simplifying every child first), then retries
// the rule set at e's own root, repeating until no rule fires — spec.md
// §4.H: "Rewriting continues until no rule fires for a node."
func (s *Simplifier) fix(e core.CoreExpr) core.CoreExpr {
	for {
		rebuilt := s.rebuild(e)
		next, changed := s.tryRules(rebuilt)
		if !changed {
			return rebuilt
		}
		e = next
	}
}

// rebuild returns a copy of e with every child expression replaced by its
// own fixed point, leaving e's own shape untouched.
func (s *Simplifier) rebuild(e core.CoreExpr) core.CoreExpr {
	switch e := e.(type) {
	case *core.Var, *core.Lit:
		return e

	case *core.Lam:
		out := *e
		out.Body = s.fix(e.Body)
		return &out

	case *core.App:
		out := *e
		out.Func = s.fix(e.Func)
		out.Arg = s.fix(e.Arg)
		return &out

	case *core.Let:
		out := *e
		out.Value = s.fix(e.Value)
		out.Body = s.fix(e.Body)
		return &out

	case *core.Bind:
		out := *e
		if e.Initializer != nil {
			out.Initializer = s.fix(e.Initializer)
		}
		out.Value = s.fix(e.Value)
		return &out

	case *core.Case:
		out := *e
		out.Scrutinee = s.fix(e.Scrutinee)
		out.Alts = make([]core.CaseAlt, len(e.Alts))
		for i, a := range e.Alts {
			out.Alts[i] = core.CaseAlt{Pattern: a.Pattern, Body: s.fix(a.Body)}
		}
		return &out

	case *core.Loop:
		out := *e
		if e.RangeInit != nil {
			out.RangeInit = s.fix(e.RangeInit)
		}
		if e.MaxLoops != nil {
			out.MaxLoops = s.fix(e.MaxLoops)
		}
		if e.Predicate != nil {
			out.Predicate = s.fix(e.Predicate)
		}
		out.Body = s.fix(e.Body)
		return &out

	case *core.DataDecl:
		return e

	default:
		return e
	}
}

// tryRules attempts each rule in spec.md §4.H order at e's root (children
// already simplified by rebuild) and returns the first that fires.
func (s *Simplifier) tryRules(e core.CoreExpr) (core.CoreExpr, bool) {
	if out, ok := s.ruleUnwrapConApp(e); ok {
		return out, true
	}
	if out, ok := s.ruleUnwrapConCase(e); ok {
		return out, true
	}
	if out, ok := ruleInlineID(e); ok {
		return out, true
	}
	if out, ok := ruleInlinePipe(e); ok {
		return out, true
	}
	if out, ok := ruleBeta(e); ok {
		return out, true
	}
	if out, ok := ruleCaseOnVar(e); ok {
		return out, true
	}
	return e, false
}

// ruleUnwrapConApp: a saturated application of a newtype-like constructor
// disappears, leaving its argument (spec.md §4.H: "constructor application
// becomes the argument").
func (s *Simplifier) ruleUnwrapConApp(e core.CoreExpr) (core.CoreExpr, bool) {
	app, ok := e.(*core.App)
	if !ok {
		return e, false
	}
	v, ok := app.Func.(*core.Var)
	if !ok || !s.wrapperCons[v.Name] {
		return e, false
	}
	return app.Arg, true
}

// ruleUnwrapConCase: CASE scrutiny of a newtype-like constructor becomes a
// LET (spec.md §4.H: "case scrutiny over it becomes a LET").
func (s *Simplifier) ruleUnwrapConCase(e core.CoreExpr) (core.CoreExpr, bool) {
	c, ok := e.(*core.Case)
	if !ok || len(c.Alts) != 1 {
		return e, false
	}
	pcon, ok := c.Alts[0].Pattern.(*core.PCon)
	if !ok || !s.wrapperCons[pcon.ConName] || len(pcon.Fields) != 1 {
		return e, false
	}
	return &core.Let{
		CoreNode: c.CoreNode,
		Symbol:   pcon.Symbols[0],
		Name:     pcon.Fields[0],
		Value:    c.Scrutinee,
		Body:     c.Alts[0].Body,
	}, true
}

// flattenSpine walks a chain of single-arg Apps back to its head, returning
// the arguments in left-to-right application order. Core's Lam bundles a
// whole curried apats run into one node (internal/core/translate.go's
// buildLambdaChain), so a saturated call reads as nested binary Apps with
// a Lam at the bottom of the spine.
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

// ruleInlineID: (\x -> x) e → e.
func ruleInlineID(e core.CoreExpr) (core.CoreExpr, bool) {
	app, ok := e.(*core.App)
	if !ok {
		return e, false
	}
	head, args := flattenSpine(app)
	lam, ok := head.(*core.Lam)
	if !ok || len(lam.Params) != 1 || len(args) < 1 {
		return e, false
	}
	v, ok := lam.Body.(*core.Var)
	if !ok || v.Symbol != lam.Params[0] {
		return e, false
	}
	return reapplyExtra(args[0], args[1:]), true
}

// ruleInlinePipe covers both named forms in spec.md §4.H:
//   (\x f -> f x) e1 e2 → e2 e1
//   (\f x -> f x) e1 e2 → e1 e2
// Both bodies are "apply one bound param to the other"; which param plays
// which role is read off the body shape rather than hard-coded per name.
func ruleInlinePipe(e core.CoreExpr) (core.CoreExpr, bool) {
	app, ok := e.(*core.App)
	if !ok {
		return e, false
	}
	head, args := flattenSpine(app)
	lam, ok := head.(*core.Lam)
	if !ok || len(lam.Params) != 2 || len(args) < 2 {
		return e, false
	}
	body, ok := lam.Body.(*core.App)
	if !ok {
		return e, false
	}
	bf, ok1 := body.Func.(*core.Var)
	ba, ok2 := body.Arg.(*core.Var)
	if !ok1 || !ok2 {
		return e, false
	}
	paramIndex := func(id symbol.ID) int {
		for i, p := range lam.Params {
			if p == id {
				return i
			}
		}
		return -1
	}
	fi, ai := paramIndex(bf.Symbol), paramIndex(ba.Symbol)
	if fi < 0 || ai < 0 || fi == ai {
		return e, false
	}
	result := core.CoreExpr(&core.App{CoreNode: app.CoreNode, Func: args[fi], Arg: args[ai]})
	return reapplyExtra(result, args[2:]), true
}

// ruleBeta: (\x -> body) e → let x = e in body, generalized to Core's
// multi-param Lam by binding one param per arg in a nested LET chain
// (spec.md §4.H's beta rule, applied per saturated argument).
func ruleBeta(e core.CoreExpr) (core.CoreExpr, bool) {
	app, ok := e.(*core.App)
	if !ok {
		return e, false
	}
	head, args := flattenSpine(app)
	lam, ok := head.(*core.Lam)
	if !ok || len(args) < len(lam.Params) {
		return e, false
	}
	n := len(lam.Params)
	body := lam.Body
	for i := n - 1; i >= 0; i-- {
		body = &core.Let{Symbol: lam.Params[i], Name: lam.Names[i], Value: args[i], Body: body}
	}
	return reapplyExtra(body, args[n:]), true
}

// ruleCaseOnVar collapses a single-alternative CASE on a variable
// scrutinee, when that alternative's pattern is itself a variable, into a
// LET (spec.md §4.H).
func ruleCaseOnVar(e core.CoreExpr) (core.CoreExpr, bool) {
	c, ok := e.(*core.Case)
	if !ok || len(c.Alts) != 1 {
		return e, false
	}
	if _, ok := c.Scrutinee.(*core.Var); !ok {
		return e, false
	}
	pv, ok := c.Alts[0].Pattern.(*core.PVar)
	if !ok {
		return e, false
	}
	return &core.Let{
		CoreNode: c.CoreNode,
		Symbol:   pv.Symbol,
		Name:     pv.Name,
		Value:    c.Scrutinee,
		Body:     c.Alts[0].Body,
	}, true
}

// reapplyExtra re-wraps a reduced head with any leftover spine arguments
// that weren't consumed by the rule that fired (an under-saturated lambda
// chain is still fully applied, just with more args than one Lam bound).
func reapplyExtra(result core.CoreExpr, extra []core.CoreExpr) core.CoreExpr {
	for _, a := range extra {
		result = &core.App{Func: result, Arg: a}
	}
	return result
}
