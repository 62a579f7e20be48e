package defunc

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

// varKey identifies a binder the same way internal/lambdalift's does:
// by Symbol when resolved, falling back to Name for the zero-ID synthetic
// temporaries phase G's translate.go mints directly.
func varKey(id symbol.ID, name string) string {
	if id != 0 {
		return fmt.Sprintf("sym:%d", id)
	}
	return "name:" + name
}

func withSV(env map[string]sv, id symbol.ID, name string, s sv) map[string]sv {
	out := make(map[string]sv, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	out[varKey(id, name)] = s
	return out
}

func withPattern(env map[string]sv, p core.CorePattern) map[string]sv {
	switch p := p.(type) {
	case *core.PVar:
		return withSV(env, p.Symbol, p.Name, sv{dyn: true})
	case *core.PCon:
		out := env
		for i, fsym := range p.Symbols {
			out = withSV(out, fsym, p.Fields[i], sv{dyn: true})
		}
		return out
	default:
		return env
	}
}

// flattenSpine walks a chain of single-arg Apps back to its head, same
// technique as internal/presimplify and internal/lambdalift use for the
// same reason: Core's Lam bundles a whole curried parameter list into one
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

func rebuildSpine(head core.CoreExpr, args []core.CoreExpr) core.CoreExpr {
	result := head
	for _, a := range args {
		result = &core.App{Func: result, Arg: a}
	}
	return result
}
