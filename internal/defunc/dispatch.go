package defunc

import (
	"fmt"
	"strings"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

// expr rewrites e bottom-up under env (a map from varKey to that binder's
// current static value), returning the rewritten expression plus e's own
// static value so callers building an application spine know what they're
// calling.
func (d *Defunc) expr(e core.CoreExpr, env map[string]sv) (core.CoreExpr, sv) {
	switch e := e.(type) {
	case *core.Var:
		return d.varExpr(e, env)

	case *core.Lit:
		return e, sv{dyn: true}

	case *core.Lam:
		// By the time defunc runs, every Lam still standing is a
		// lambda-lifted top-level Bind's own direct value (phase I hoists
		// every other one away), so its body is defunctionalized in a
		// fresh, empty closure scope: its formal parameters are the only
		// names it can see that aren't already top-level.
		inner := map[string]sv{}
		for _, p := range e.Params {
			inner = withSV(inner, p, "", sv{dyn: true})
		}
		newBody, _ := d.expr(e.Body, inner)
		return &core.Lam{CoreNode: e.CoreNode, Params: e.Params, Names: e.Names, Body: newBody}, sv{dyn: true}

	case *core.App:
		return d.appExpr(e, env)

	case *core.Let:
		newValue, valSV := d.expr(e.Value, env)
		inner := withSV(env, e.Symbol, e.Name, valSV)
		newBody, bodySV := d.expr(e.Body, inner)
		return &core.Let{CoreNode: e.CoreNode, Symbol: e.Symbol, Name: e.Name, Value: newValue, Body: newBody}, bodySV

	case *core.Case:
		newScrut, _ := d.expr(e.Scrutinee, env)
		alts := make([]core.CaseAlt, len(e.Alts))
		var lastSV sv
		for i, a := range e.Alts {
			inner := withPattern(env, a.Pattern)
			newAltBody, altSV := d.expr(a.Body, inner)
			alts[i] = core.CaseAlt{Pattern: a.Pattern, Body: newAltBody}
			lastSV = altSV
		}
		return &core.Case{CoreNode: e.CoreNode, Scrutinee: newScrut, Alts: alts, Exhaustive: e.Exhaustive}, lastSV

	case *core.Loop:
		out := *e
		out.RangeInit, _ = d.expr(e.RangeInit, env)
		out.MaxLoops, _ = d.expr(e.MaxLoops, env)
		out.Predicate, _ = d.expr(e.Predicate, env)
		inner := withSV(withSV(env, e.IndexSymbol, e.IndexName, sv{dyn: true}), e.ValueSymbol, e.ValueName, sv{dyn: true})
		out.Body, _ = d.expr(e.Body, inner)
		return &out, sv{dyn: true}

	default:
		return e, sv{dyn: true}
	}
}

// varExpr resolves one VAR occurrence's static value: a locally bound name
// carries whatever sv its binder recorded; an unbound reference to a
// top-level function or constructor is, per the package doc, immediately
// reified into a zero-captured Env the moment it's observed here rather
// than at the head of a saturating App (appExpr intercepts that case
// before ever calling down into varExpr).
func (d *Defunc) varExpr(v *core.Var, env map[string]sv) (core.CoreExpr, sv) {
	if s, ok := env[varKey(v.Symbol, v.Name)]; ok {
		return v, s
	}
	if arity, ok := d.funArity[v.Symbol]; ok {
		e := d.envFor(targetID{sym: v.Symbol, name: v.Name}, arity, 0)
		return buildEnvValue(e, nil), sv{env: e}
	}
	if arity, ok := d.conArity[v.Name]; ok && arity > 0 {
		e := d.envFor(targetID{isCon: true, sym: d.conSym[v.Name], name: v.Name}, arity, 0)
		return buildEnvValue(e, nil), sv{env: e}
	}
	// Nullary constructor, base-module primitive with no captured
	// higher-order role, or a loop/pattern binder already folded to Dyn.
	return v, sv{dyn: true}
}

// appExpr defunctionalizes one application. It flattens the whole spine up
// front (Core bundles a curried parameter list into one Lam, so a
// saturated call is a chain of binary Apps over one head) and dispatches
// on the head's own static value, exactly mirroring spec.md §4.J's three
// cases per SV kind (Fun/Con vs. Env), doubled for under/over/exact
// saturation.
func (d *Defunc) appExpr(top *core.App, env map[string]sv) (core.CoreExpr, sv) {
	head, rawArgs := flattenSpine(top)

	// A bare top-level function/constructor reference at the spine's head
	// dispatches directly (Fun/Con case); anything else — a bound
	// variable, a nested application, a case/let result — is resolved to
	// an sv first and dispatched as an Env.
	if v, ok := head.(*core.Var); ok {
		if _, bound := env[varKey(v.Symbol, v.Name)]; !bound {
			if arity, ok := d.funArity[v.Symbol]; ok {
				return d.dispatchFun(targetID{sym: v.Symbol, name: v.Name}, arity, rawArgs, env)
			}
			if arity, ok := d.conArity[v.Name]; ok {
				return d.dispatchCon(targetID{isCon: true, sym: d.conSym[v.Name], name: v.Name}, arity, rawArgs, env)
			}
		}
	}

	newHead, headSV := d.expr(head, env)
	newArgs := make([]core.CoreExpr, len(rawArgs))
	for i, a := range rawArgs {
		newArgs[i], _ = d.expr(a, env)
	}
	if headSV.env == nil {
		// headSV.dyn: the callee isn't something defunc tracks (e.g. a
		// loop-bound Dyn value can never actually have function type by
		// the time type inference has run); leave the spine as ordinary
		// application.
		return rebuildSpine(newHead, newArgs), sv{dyn: true}
	}
	return d.dispatchEnv(newHead, headSV.env, newArgs, env)
}

// dispatchFun handles a call whose head is a direct reference to a
// top-level function symbol (spec.md §4.J's Fun case).
func (d *Defunc) dispatchFun(t targetID, arity int, rawArgs []core.CoreExpr, env map[string]sv) (core.CoreExpr, sv) {
	newArgs := make([]core.CoreExpr, len(rawArgs))
	argSVs := make([]sv, len(rawArgs))
	for i, a := range rawArgs {
		newArgs[i], argSVs[i] = d.expr(a, env)
	}

	switch {
	case len(rawArgs) == arity:
		calleeSym, calleeName := t.sym, t.name
		if needsSpec, specSym := d.maybeSpecialize(t, argSVs); needsSpec {
			calleeSym, calleeName = specSym, d.Module.Get(specSym).UniqueName
		}
		return rebuildSpine(&core.Var{Symbol: calleeSym, Name: calleeName}, newArgs), sv{dyn: true}

	case len(rawArgs) < arity:
		e := d.envFor(t, arity, len(rawArgs))
		return buildEnvValue(e, newArgs), sv{env: e}

	default: // over-saturated: take exactly arity now, apply the rest over
		// the (already fully defunctionalized) result. newArgs is complete
		// already, so this must not re-enter expr/appExpr: re-flattening
		// the rebuilt spine would walk straight back through the same Var
		// head and loop forever.
		calleeSym, calleeName := t.sym, t.name
		if needsSpec, specSym := d.maybeSpecialize(t, argSVs[:arity]); needsSpec {
			calleeSym, calleeName = specSym, d.Module.Get(specSym).UniqueName
		}
		inner := rebuildSpine(&core.Var{Symbol: calleeSym, Name: calleeName}, newArgs[:arity])
		return rebuildSpine(inner, newArgs[arity:]), sv{dyn: true}
	}
}

// dispatchCon mirrors dispatchFun for a partially-applied data
// constructor; constructors are never specialized (they carry no
// higher-order parameters of their own to dispatch through).
func (d *Defunc) dispatchCon(t targetID, arity int, rawArgs []core.CoreExpr, env map[string]sv) (core.CoreExpr, sv) {
	newArgs := make([]core.CoreExpr, len(rawArgs))
	for i, a := range rawArgs {
		newArgs[i], _ = d.expr(a, env)
	}
	switch {
	case len(rawArgs) == arity:
		return rebuildSpine(&core.Var{Symbol: t.sym, Name: t.name}, newArgs), sv{dyn: true}
	case len(rawArgs) < arity:
		e := d.envFor(t, arity, len(rawArgs))
		return buildEnvValue(e, newArgs), sv{env: e}
	default:
		// A saturated constructor value is ordinary data, never itself
		// callable again; unreachable once type inference has run, kept
		// only so the case split stays exhaustive.
		inner := rebuildSpine(&core.Var{Symbol: t.sym, Name: t.name}, newArgs[:arity])
		return rebuildSpine(inner, newArgs[arity:]), sv{dyn: true}
	}
}

// dispatchEnv handles a call whose head already evaluates to an EnvN
// value (spec.md §4.J's Env case): a saturated call rewrites into a CASE
// that unpacks the env's captured fields and calls through to its target
// with those fields prepended to the remaining arguments. scrut is the
// already-defunctionalized expression producing the Env value itself.
func (d *Defunc) dispatchEnv(scrut core.CoreExpr, e *envType, args []core.CoreExpr, env map[string]sv) (core.CoreExpr, sv) {
	switch {
	case len(args) == e.Remaining():
		scrutSym := d.Module.Declare("$envScrut")
		scrutVar := &core.Var{Symbol: scrutSym, Name: "$envScrut"}

		fieldVars := make([]core.CoreExpr, len(e.FieldSyms))
		for i, fs := range e.FieldSyms {
			fieldVars[i] = &core.Var{Symbol: fs, Name: e.FieldNames[i]}
		}
		allArgs := append(append([]core.CoreExpr{}, fieldVars...), args...)

		var callHead core.CoreExpr
		if e.Target.isCon {
			callHead = &core.Var{Symbol: e.Target.sym, Name: e.Target.name}
		} else {
			argSVs := make([]sv, len(allArgs))
			for i := range fieldVars {
				argSVs[i] = sv{dyn: true} // captured values are opaque data at this point
			}
			for i, a := range args {
				_, argSVs[len(fieldVars)+i] = d.expr(a, env)
			}
			calleeSym := e.Target.sym
			if needsSpec, specSym := d.maybeSpecialize(e.Target, argSVs); needsSpec {
				calleeSym = specSym
			}
			callHead = &core.Var{Symbol: calleeSym, Name: e.Target.name}
		}
		call, _ := d.expr(rebuildSpine(callHead, allArgs), withSV(env, scrutSym, "$envScrut", sv{env: e}))

		alt := core.CaseAlt{
			Pattern: &core.PCon{ConName: e.Name, Fields: e.FieldNames, Symbols: e.FieldSyms},
			Body:    call,
		}
		caseExpr := &core.Case{Scrutinee: scrutVar, Alts: []core.CaseAlt{alt}, Exhaustive: true}
		return &core.Let{Symbol: scrutSym, Name: "$envScrut", Value: scrut, Body: caseExpr}, sv{dyn: true}

	case len(args) < e.Remaining():
		// Under-saturated: extend into a bigger env carrying both the
		// already-captured fields (unpacked from scrut) and these new
		// args, same CASE-unpack shape as the saturated branch but
		// rebuilding an Env value in the alternative's body instead of
		// calling through.
		bigger := d.envFor(e.Target, e.TargetArity, e.Captured+len(args))
		scrutSym := d.Module.Declare("$envScrut")
		scrutVar := &core.Var{Symbol: scrutSym, Name: "$envScrut"}

		fieldVars := make([]core.CoreExpr, len(e.FieldSyms))
		for i, fs := range e.FieldSyms {
			fieldVars[i] = &core.Var{Symbol: fs, Name: e.FieldNames[i]}
		}
		built := buildEnvValue(bigger, append(append([]core.CoreExpr{}, fieldVars...), args...))

		alt := core.CaseAlt{
			Pattern: &core.PCon{ConName: e.Name, Fields: e.FieldNames, Symbols: e.FieldSyms},
			Body:    built,
		}
		caseExpr := &core.Case{Scrutinee: scrutVar, Alts: []core.CaseAlt{alt}, Exhaustive: true}
		return &core.Let{Symbol: scrutSym, Name: "$envScrut", Value: scrut, Body: caseExpr}, sv{env: bigger}

	default: // over-saturated: take exactly Remaining() now, apply the rest
		exact := args[:e.Remaining()]
		restArgs := args[e.Remaining():]
		satCall, _ := d.dispatchEnv(scrut, e, exact, env)
		return rebuildSpine(satCall, restArgs), sv{dyn: true}
	}
}

// maybeSpecialize implements ensureSpecialization (spec.md §4.J): when any
// argument at a saturated call site carries an Env static value, the
// callee may itself call through one of ITS OWN formal parameters
// (e.g. `pipe x f = f x`); without knowing the caller-observed shape of
// that parameter, the inner call can never be resolved to a direct call
// or Env dispatch. Cloning the callee's declaration per observed argument
// shape and re-running expr over the clone's body with that shape seeded
// into env resolves it, mirroring internal/mono's ensureSpecialization
// (mono.go): same memoize-by-key, same Module.Clone, same
// substitute-and-rewalk shape, with a static-value shape standing in for
// mono's ground type substitution.
func (d *Defunc) maybeSpecialize(t targetID, argSVs []sv) (bool, symbol.ID) {
	if t.isCon {
		return false, 0
	}
	lam, ok := d.funLam[t.sym]
	if !ok {
		return false, 0
	}
	if !anyEnv(argSVs) {
		return false, 0
	}

	shape := shapeKeyFor(argSVs)
	key := specKey{Sym: t.sym, Shape: shape}
	if existing, ok := d.specialized[key]; ok {
		return true, existing
	}

	d.counter++
	mangled := fmt.Sprintf("%s$spec%d", t.name, d.counter)
	newID := d.Module.Clone(t.sym, mangled)
	d.specialized[key] = newID

	inner := map[string]sv{}
	for i, p := range lam.Params {
		s := sv{dyn: true}
		if i < len(argSVs) && argSVs[i].env != nil {
			s = sv{env: argSVs[i].env}
		}
		inner = withSV(inner, p, lam.Names[i], s)
	}
	newBody, _ := d.expr(lam.Body, inner)

	d.newBinds = append(d.newBinds, &core.Bind{
		Symbol: newID,
		Name:   mangled,
		Value:  &core.Lam{Params: lam.Params, Names: lam.Names, Body: newBody},
	})
	return true, newID
}

func anyEnv(svs []sv) bool {
	for _, s := range svs {
		if s.env != nil {
			return true
		}
	}
	return false
}

func shapeKeyFor(svs []sv) string {
	parts := make([]string, len(svs))
	for i, s := range svs {
		if s.env != nil {
			parts[i] = s.env.Name
		} else {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, ",")
}
