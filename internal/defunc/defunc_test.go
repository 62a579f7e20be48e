package defunc

import (
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

func addBind(mod *symbol.Module) (symbol.ID, *core.Bind) {
	addID := mod.Declare("add")
	a, b := symbol.ID(10), symbol.ID(11)
	lam := &core.Lam{
		Params: []symbol.ID{a, b}, Names: []string{"a", "b"},
		Body: &core.App{Func: &core.App{Func: &core.Var{Name: "+"}, Arg: &core.Var{Symbol: a, Name: "a"}}, Arg: &core.Var{Symbol: b, Name: "b"}},
	}
	return addID, &core.Bind{Symbol: addID, Name: "add", Value: lam}
}

func TestSaturatedFunCallIsUntouchedApart(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	addID, addB := addBind(mod)

	rID := mod.Declare("r")
	// r = add 1 2
	call := &core.App{
		Func: &core.App{Func: &core.Var{Symbol: addID, Name: "add"}, Arg: &core.Lit{Kind: core.IntLit, Value: int64(1)}},
		Arg:  &core.Lit{Kind: core.IntLit, Value: int64(2)},
	}
	prog := &core.Program{Binds: []core.CoreExpr{addB, &core.Bind{Symbol: rID, Name: "r", Value: call}}}

	d := New(mod)
	out := d.Run(prog)

	var rBind *core.Bind
	for _, b := range out.Binds {
		if bind, ok := b.(*core.Bind); ok && bind.Name == "r" {
			rBind = bind
		}
	}
	if rBind == nil {
		t.Fatalf("expected r to survive")
	}
	outer, ok := rBind.Value.(*core.App)
	if !ok {
		t.Fatalf("expected a saturated call to stay a plain App spine, got %T", rBind.Value)
	}
	inner, ok := outer.Func.(*core.App)
	if !ok {
		t.Fatalf("expected nested App, got %T", outer.Func)
	}
	if fn, ok := inner.Func.(*core.Var); !ok || fn.Symbol != addID {
		t.Fatalf("expected direct call to add, got %v", inner.Func)
	}
	if len(d.envDecls) != 0 {
		t.Fatalf("a fully saturated call site should synthesize no Env types, got %d", len(d.envDecls))
	}
}

func TestUnderSaturatedCallBuildsEnvValue(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	addID, addB := addBind(mod)

	rID := mod.Declare("r")
	// r = add 1   (partial application: captures one of add's two params)
	call := &core.App{Func: &core.Var{Symbol: addID, Name: "add"}, Arg: &core.Lit{Kind: core.IntLit, Value: int64(1)}}
	prog := &core.Program{Binds: []core.CoreExpr{addB, &core.Bind{Symbol: rID, Name: "r", Value: call}}}

	d := New(mod)
	out := d.Run(prog)

	if len(d.envDecls) != 1 {
		t.Fatalf("expected exactly one synthesized Env type, got %d", len(d.envDecls))
	}
	dd := d.envDecls[0].(*core.DataDecl)
	if len(dd.Constructors[0].Fields) != 1 {
		t.Fatalf("expected the env to carry exactly the one captured argument, got %d fields", len(dd.Constructors[0].Fields))
	}

	var rBind *core.Bind
	for _, b := range out.Binds {
		if bind, ok := b.(*core.Bind); ok && bind.Name == "r" {
			rBind = bind
		}
	}
	app, ok := rBind.Value.(*core.App)
	if !ok {
		t.Fatalf("expected r's value to be the Env constructor applied to the captured arg, got %T", rBind.Value)
	}
	conVar, ok := app.Func.(*core.Var)
	if !ok || conVar.Name != dd.Constructors[0].Name {
		t.Fatalf("expected the env constructor %s to head the application, got %v", dd.Constructors[0].Name, app.Func)
	}
}

func TestOverSaturatedFunCallSplitsAtArity(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	addID, addB := addBind(mod)
	// id x = x, so that `add 1 2 id` (nonsensical domain-wise, but exercises
	// the over-saturation split purely structurally: add only wants 2 args)
	idID := mod.Declare("id")
	xID := symbol.ID(50)
	idBind := &core.Bind{Symbol: idID, Name: "id", Value: &core.Lam{Params: []symbol.ID{xID}, Names: []string{"x"}, Body: &core.Var{Symbol: xID, Name: "x"}}}

	rID := mod.Declare("r")
	call := &core.App{
		Func: &core.App{
			Func: &core.App{Func: &core.Var{Symbol: addID, Name: "add"}, Arg: &core.Lit{Kind: core.IntLit, Value: int64(1)}},
			Arg:  &core.Lit{Kind: core.IntLit, Value: int64(2)},
		},
		Arg: &core.Var{Symbol: idID, Name: "id"},
	}
	prog := &core.Program{Binds: []core.CoreExpr{addB, idBind, &core.Bind{Symbol: rID, Name: "r", Value: call}}}

	d := New(mod)
	out := d.Run(prog)

	var rBind *core.Bind
	for _, b := range out.Binds {
		if bind, ok := b.(*core.Bind); ok && bind.Name == "r" {
			rBind = bind
		}
	}
	top, ok := rBind.Value.(*core.App)
	if !ok {
		t.Fatalf("expected the trailing application over the saturated call, got %T", rBind.Value)
	}
	// top.Arg is the leftover third argument (id); top.Func is the fully
	// resolved `add 1 2` call.
	if _, ok := top.Arg.(*core.App); ok {
		t.Fatalf("did not expect the leftover argument itself to be rewritten into an App spine")
	}
	inner, ok := top.Func.(*core.App)
	if !ok {
		t.Fatalf("expected add's saturated call beneath the split, got %T", top.Func)
	}
	if _, ok := inner.Func.(*core.App); !ok {
		t.Fatalf("expected add applied to both of its own args before the split, got %v", inner.Func)
	}
}

func TestBareFunctionReferenceIsReifiedToZeroFieldEnv(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	addID, addB := addBind(mod)
	justID := mod.Declare("Just")
	conDecl := &core.DataDecl{
		Name: "Maybe",
		Constructors: []*core.DataCon{
			{Symbol: justID, Name: "Just", Fields: []types.Type{types.NewVar(0)}, Tag: 0},
		},
	}

	rID := mod.Declare("maybeJustMaybe")
	// maybeJustMaybe = Just add
	call := &core.App{Func: &core.Var{Symbol: justID, Name: "Just"}, Arg: &core.Var{Symbol: addID, Name: "add"}}
	prog := &core.Program{Binds: []core.CoreExpr{addB, conDecl, &core.Bind{Symbol: rID, Name: "maybeJustMaybe", Value: call}}}

	d := New(mod)
	out := d.Run(prog)

	if len(d.envDecls) != 1 {
		t.Fatalf("expected exactly one Env type synthesized for the bare 'add' reference, got %d", len(d.envDecls))
	}
	dd := d.envDecls[0].(*core.DataDecl)
	if len(dd.Constructors[0].Fields) != 0 {
		t.Fatalf("expected a zero-field env (nothing captured yet), got %d fields", len(dd.Constructors[0].Fields))
	}

	var rBind *core.Bind
	for _, b := range out.Binds {
		if bind, ok := b.(*core.Bind); ok && bind.Name == "maybeJustMaybe" {
			rBind = bind
		}
	}
	app, ok := rBind.Value.(*core.App)
	if !ok {
		t.Fatalf("expected Just applied to the reified env value, got %T", rBind.Value)
	}
	if fn, ok := app.Func.(*core.Var); !ok || fn.Symbol != justID {
		t.Fatalf("expected Just to remain the outer constructor, got %v", app.Func)
	}
	envVal, ok := app.Arg.(*core.Var)
	if !ok || envVal.Name != dd.Constructors[0].Name {
		t.Fatalf("expected the bare 'add' reference rewritten to the env constructor %s, got %v", dd.Constructors[0].Name, app.Arg)
	}
}

func TestCallThroughParameterIsResolvedBySpecialization(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	addID, addB := addBind(mod)

	pipeID := mod.Declare("pipe")
	x, f := symbol.ID(60), symbol.ID(61)
	pipeBind := &core.Bind{Symbol: pipeID, Name: "pipe", Value: &core.Lam{
		Params: []symbol.ID{x, f}, Names: []string{"x", "f"},
		Body: &core.App{Func: &core.Var{Symbol: f, Name: "f"}, Arg: &core.Var{Symbol: x, Name: "x"}},
	}}

	rID := mod.Declare("r")
	// r = pipe 0 (add 1)
	addOne := &core.App{Func: &core.Var{Symbol: addID, Name: "add"}, Arg: &core.Lit{Kind: core.IntLit, Value: int64(1)}}
	call := &core.App{
		Func: &core.App{Func: &core.Var{Symbol: pipeID, Name: "pipe"}, Arg: &core.Lit{Kind: core.IntLit, Value: int64(0)}},
		Arg:  addOne,
	}
	prog := &core.Program{Binds: []core.CoreExpr{addB, pipeBind, &core.Bind{Symbol: rID, Name: "r", Value: call}}}

	d := New(mod)
	out := d.Run(prog)

	foundSpecialized := false
	for _, b := range out.Binds {
		bind, ok := b.(*core.Bind)
		if !ok || bind.Symbol == pipeID || bind.Symbol == addID || bind.Name == "r" {
			continue
		}
		foundSpecialized = true
		lam, ok := bind.Value.(*core.Lam)
		if !ok {
			t.Fatalf("expected the specialized pipe clone's value to be a Lam, got %T", bind.Value)
		}
		if _, ok := lam.Body.(*core.Let); !ok {
			t.Fatalf("expected the specialized body's call through f to unpack an env via a Let/Case, got %T", lam.Body)
		}
	}
	if !foundSpecialized {
		t.Fatalf("expected pipe to be cloned into a specialization once called with a partially-applied add")
	}

	var rBind *core.Bind
	for _, b := range out.Binds {
		if bind, ok := b.(*core.Bind); ok && bind.Name == "r" {
			rBind = bind
		}
	}
	top, ok := rBind.Value.(*core.App)
	if !ok {
		t.Fatalf("expected r's value to stay an application of the specialized pipe, got %T", rBind.Value)
	}
	inner, ok := top.Func.(*core.App)
	if !ok {
		t.Fatalf("expected pipe applied to 0 first, got %T", top.Func)
	}
	if fn, ok := inner.Func.(*core.Var); !ok || fn.Name == "pipe" {
		t.Fatalf("expected the call site to reference the specialized clone rather than the generic pipe, got %v", inner.Func)
	}
}
