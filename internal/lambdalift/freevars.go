package lambdalift

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

// capturedVar is one free variable a lifted lambda must close over. Core's
// phase G translator mints synthetic temporaries (apat/pipe-section
// helpers) via translate.go's freshName without ever declaring them in the
// symbol.Module, leaving their Var.Symbol at the zero value — so identity
// here is keyed on Symbol when non-zero, and on Name otherwise, the same
// fallback translate.go's own helpers implicitly rely on (freshName
// guarantees name uniqueness).
type capturedVar struct {
	Symbol symbol.ID
	Name   string
}

func varKey(id symbol.ID, name string) string {
	if id != 0 {
		return fmt.Sprintf("sym:%d", id)
	}
	return "name:" + name
}

func extendBound(bound map[string]bool, ids []symbol.ID, names []string) map[string]bool {
	out := make(map[string]bool, len(bound)+len(ids))
	for k, v := range bound {
		out[k] = v
	}
	for i, id := range ids {
		out[varKey(id, names[i])] = true
	}
	return out
}

func extendBoundPattern(bound map[string]bool, p core.CorePattern) map[string]bool {
	switch p := p.(type) {
	case *core.PVar:
		return extendBound(bound, []symbol.ID{p.Symbol}, []string{p.Name})
	case *core.PCon:
		return extendBound(bound, p.Symbols, p.Fields)
	default:
		return bound
	}
}

// freeVarCollector walks a Core expression collecting every VAR occurrence
// not covered by bound and not already known module-level (topLevel),
// grounded on internal/elaborate/scc.go's findReferences tree-walk shape,
// repurposed from "collect call-graph edges" to "collect a closure's
// captured variables".
type freeVarCollector struct {
	topLevel map[symbol.ID]bool
	bound    map[string]bool
	seen     map[string]bool
	order    []capturedVar
}

func collectFreeVars(topLevel map[symbol.ID]bool, bound map[string]bool, e core.CoreExpr) []capturedVar {
	c := &freeVarCollector{topLevel: topLevel, bound: bound, seen: map[string]bool{}}
	c.walk(e)
	return c.order
}

func (c *freeVarCollector) use(id symbol.ID, name string) {
	if c.topLevel[id] && id != 0 {
		return
	}
	k := varKey(id, name)
	if c.bound[k] || c.seen[k] {
		return
	}
	c.seen[k] = true
	c.order = append(c.order, capturedVar{Symbol: id, Name: name})
}

func (c *freeVarCollector) walk(e core.CoreExpr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *core.Var:
		c.use(e.Symbol, e.Name)
	case *core.Lit:
		// no variables
	case *core.Lam:
		saved := c.bound
		c.bound = extendBound(c.bound, e.Params, e.Names)
		c.walk(e.Body)
		c.bound = saved
	case *core.App:
		c.walk(e.Func)
		c.walk(e.Arg)
	case *core.Let:
		c.walk(e.Value)
		saved := c.bound
		c.bound = extendBound(c.bound, []symbol.ID{e.Symbol}, []string{e.Name})
		c.walk(e.Body)
		c.bound = saved
	case *core.Case:
		c.walk(e.Scrutinee)
		saved := c.bound
		for _, alt := range e.Alts {
			c.bound = extendBoundPattern(saved, alt.Pattern)
			c.walk(alt.Body)
		}
		c.bound = saved
	case *core.Loop:
		c.walk(e.RangeInit)
		c.walk(e.MaxLoops)
		c.walk(e.Predicate)
		saved := c.bound
		c.bound = extendBound(c.bound, []symbol.ID{e.IndexSymbol, e.ValueSymbol}, []string{e.IndexName, e.ValueName})
		c.walk(e.Body)
		c.bound = saved
	}
}
