// Package defunc implements phase J (spec.md §4.J): defunctionalization,
// generalized from Henriksen's "Higher-Order Defunctionalisation in
// Futhark" (2018) to cover partially-applied data constructors as well as
// functions. After this pass the only functional values left in the
// program are top-level function symbols; every expression that used to
// have a function type is either a direct call site or an EnvN value
// carried as ordinary data.
//
// EnvN naming follows original_source/source/core/defunctionalization.c's
// convention. ensureSpecialization below is structurally the same
// memoize-clone-and-substitute driver internal/mono's Monomorphizer uses
// (mono.go's ensureSpecialization), with static-value shapes standing in
// for mono's ground type arguments.
package defunc

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// sv is a static value: defunc's compile-time approximation of what a
// Core expression of function type will be at runtime. A non-functional
// (Dyn) expression carries no further information; a functional one is
// always, by the time it's at rest (bound to a LET, stored in a field,
// passed as an argument), represented by an Env — the GLOSSARY's "data
// type synthesized by defunctionalization to carry a partial
// application's captured values". There is no separate at-rest "Fun"
// kind: a bare reference to a top-level function is reified to a
// zero-field Env the moment it is observed anywhere but the head of an
// actively-saturating application (dispatchFun below).
type sv struct {
	dyn bool
	env *envType
}

// targetID names what an Env ultimately dispatches to: either a
// lambda-lifted top-level function or a data constructor.
type targetID struct {
	isCon bool
	sym   symbol.ID
	name  string
}

func (t targetID) key() string {
	if t.isCon {
		return "con:" + t.name
	}
	return fmt.Sprintf("fun:%d:%s", t.sym, t.name)
}

// envType is a synthesized EnvN data declaration: one constructor, one
// field per captured value, plus the bookkeeping defunc needs to dispatch
// a saturating application against it.
type envType struct {
	Name       string
	ConSym     symbol.ID
	FieldSyms  []symbol.ID
	FieldNames []string
	Target     targetID
	// TargetArity is the full arity of Target (lambda-lifted functions are
	// never partially curried internally, so this is just len(Params));
	// Captured is how many of those parameters this particular envType
	// already supplies.
	TargetArity int
	Captured    int
}

func (e *envType) Remaining() int { return e.TargetArity - e.Captured }

// specKey memoizes a per-call-site clone the same way mono.MonoKey does:
// one clone per (original symbol, shape of its higher-order arguments).
type specKey struct {
	Sym   symbol.ID
	Shape string
}

// Defunc threads the owning module, each top-level function/constructor's
// arity, and the specialization/env caches through the rewrite.
type Defunc struct {
	Module *symbol.Module

	funArity map[symbol.ID]int
	funLam   map[symbol.ID]*core.Lam
	conArity map[string]int
	conSym   map[string]symbol.ID

	envByKey map[string]*envType // target.key() + "#" + captured-count -> envType
	envDecls []core.CoreExpr

	specialized map[specKey]symbol.ID
	newBinds    []core.CoreExpr

	counter int
}

func New(mod *symbol.Module) *Defunc {
	return &Defunc{
		Module:      mod,
		funArity:    make(map[symbol.ID]int),
		funLam:      make(map[symbol.ID]*core.Lam),
		conArity:    make(map[string]int),
		conSym:      make(map[string]symbol.ID),
		envByKey:    make(map[string]*envType),
		specialized: make(map[specKey]symbol.ID),
	}
}

// Run defunctionalizes every top-level Bind's value, then reassembles the
// program with synthesized EnvN declarations first (spec.md §4.J: "EnvN
// data-declarations written to the top of the Core tree in creation
// order"), the original binds (each now function-value-free) next, and
// any per-call-site specializations ensureSpecialization minted along the
// way last.
func (d *Defunc) Run(prog *core.Program) *core.Program {
	for _, b := range prog.Binds {
		switch b := b.(type) {
		case *core.Bind:
			if lam, ok := b.Value.(*core.Lam); ok {
				d.funArity[b.Symbol] = len(lam.Params)
				d.funLam[b.Symbol] = lam
			}
		case *core.DataDecl:
			for _, con := range b.Constructors {
				d.conArity[con.Name] = len(con.Fields)
				d.conSym[con.Name] = con.Symbol
			}
		}
	}

	env := map[string]sv{}
	out := make([]core.CoreExpr, 0, len(prog.Binds))
	for _, b := range prog.Binds {
		bind, ok := b.(*core.Bind)
		if !ok {
			out = append(out, b)
			continue
		}
		if bind.Initializer != nil {
			bind.Initializer, _ = d.expr(bind.Initializer, env)
		}
		bind.Value, _ = d.expr(bind.Value, env)
		out = append(out, bind)
	}

	result := make([]core.CoreExpr, 0, len(d.envDecls)+len(out)+len(d.newBinds))
	result = append(result, d.envDecls...)
	result = append(result, out...)
	result = append(result, d.newBinds...)
	prog.Binds = result
	return prog
}

// envFor returns the (memoized) envType describing a partial application
// of target with exactly captured arguments already supplied, synthesizing
// a fresh EnvN DataDecl the first time this (target, captured) shape is
// seen.
func (d *Defunc) envFor(target targetID, totalArity, captured int) *envType {
	key := fmt.Sprintf("%s#%d", target.key(), captured)
	if e, ok := d.envByKey[key]; ok {
		return e
	}

	d.counter++
	name := fmt.Sprintf("Env%d_%d", captured, d.counter)
	typeSym := d.Module.Declare(name)
	conSym := d.Module.Declare(name)

	fieldSyms := make([]symbol.ID, captured)
	fieldNames := make([]string, captured)
	for i := range fieldSyms {
		fieldSyms[i] = d.Module.Declare(fmt.Sprintf("%s$f%d", name, i))
		fieldNames[i] = fmt.Sprintf("f%d", i)
	}

	e := &envType{
		Name: name, ConSym: conSym, FieldSyms: fieldSyms, FieldNames: fieldNames,
		Target: target, TargetArity: totalArity, Captured: captured,
	}
	d.envByKey[key] = e

	// Each captured field's type is left as a fresh unification variable:
	// defunc runs after phase E/F, so every captured value already has a
	// concrete ground type recorded on its own CoreNode; the EnvN
	// declaration itself only needs a placeholder kind-Type slot per field
	// for a later serialization pass to walk (phase K interns closed-over state the same way for FOR/WHILE
	// loop accumulators).
	fields := make([]types.Type, captured)
	for i := range fields {
		fields[i] = types.NewVar(0)
	}
	d.envDecls = append(d.envDecls, &core.DataDecl{
		Symbol: typeSym,
		Name:   name,
		Constructors: []*core.DataCon{{
			Symbol: conSym, Name: name, Fields: fields, Tag: 0,
		}},
	})
	return e
}

// buildEnvValue constructs the Core application of an EnvN constructor to
// its captured values: Env_k(v0, .., v(k-1)), built the same way a
// saturated constructor application is built anywhere else in Core
// (binary App spine over the constructor Var).
func buildEnvValue(e *envType, captured []core.CoreExpr) core.CoreExpr {
	var result core.CoreExpr = &core.Var{Symbol: e.ConSym, Name: e.Name}
	for _, c := range captured {
		result = &core.App{Func: result, Arg: c}
	}
	return result
}
