package lambdalift

import (
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestTopLevelLambdaIsNotRehoisted(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	fID := mod.Declare("f")
	x := symbol.ID(100)

	prog := &core.Program{Binds: []core.CoreExpr{
		&core.Bind{Symbol: fID, Name: "f", Value: &core.Lam{
			Params: []symbol.ID{x}, Names: []string{"x"}, Body: &core.Var{Symbol: x, Name: "x"},
		}},
	}}

	l := New(mod)
	out := l.Run(prog)
	if len(out.Binds) != 1 {
		t.Fatalf("expected f's own top-level lambda to stay put with nothing extra lifted, got %d binds", len(out.Binds))
	}
	bind := out.Binds[0].(*core.Bind)
	if _, ok := bind.Value.(*core.Lam); !ok {
		t.Fatalf("expected f's value to remain a bare Lam, got %T", bind.Value)
	}
}

func TestNestedLambdaIsHoistedAndCapturesFreeVariable(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	addID := mod.Declare("adder")
	plusID := mod.Declare("+")
	n := symbol.ID(200)
	y := symbol.ID(201)

	// adder n = \y -> n + y   (n is free inside the nested lambda; + is a
	// module-level primitive, already a top-level Bind, so it must not be
	// captured).
	nested := &core.Lam{
		Params: []symbol.ID{y}, Names: []string{"y"},
		Body: &core.App{
			Func: &core.App{Func: &core.Var{Symbol: plusID, Name: "+"}, Arg: &core.Var{Symbol: n, Name: "n"}},
			Arg:  &core.Var{Symbol: y, Name: "y"},
		},
	}
	prog := &core.Program{Binds: []core.CoreExpr{
		&core.Bind{Symbol: plusID, Name: "+", Value: &core.Lam{Params: nil, Names: nil, Body: &core.Lit{Kind: core.UnitLit}}},
		&core.Bind{Symbol: addID, Name: "adder", Value: &core.Lam{
			Params: []symbol.ID{n}, Names: []string{"n"}, Body: nested,
		}},
	}}

	l := New(mod)
	out := l.Run(prog)
	if len(out.Binds) != 3 {
		t.Fatalf("expected the '+' bind, adder, plus one hoisted lambda, got %d", len(out.Binds))
	}

	adderBind := out.Binds[1].(*core.Bind)
	adderLam := adderBind.Value.(*core.Lam)
	replacement, ok := adderLam.Body.(*core.App)
	if !ok {
		t.Fatalf("expected the nested lambda's occurrence to become an application, got %T", adderLam.Body)
	}
	fn, ok := replacement.Func.(*core.Var)
	if !ok {
		t.Fatalf("expected the application head to be a Var, got %T", replacement.Func)
	}
	if arg, ok := replacement.Arg.(*core.Var); !ok || arg.Symbol != n {
		t.Fatalf("expected the captured free variable n to be applied, got %v", replacement.Arg)
	}

	lifted := out.Binds[2].(*core.Bind)
	if lifted.Name != fn.Name {
		t.Fatalf("expected the replacement call to reference the hoisted bind %s, got %s", lifted.Name, fn.Name)
	}
	liftedLam := lifted.Value.(*core.Lam)
	if len(liftedLam.Params) != 2 {
		t.Fatalf("expected the hoisted lambda to take the captured var plus its own param, got %d params", len(liftedLam.Params))
	}
	if liftedLam.Params[0] != n || liftedLam.Params[1] != y {
		t.Fatalf("expected captured param n before own param y, got %v", liftedLam.Params)
	}
}

func TestLambdaWithNoFreeVariablesIsHoistedBare(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	useID := mod.Declare("use")
	x := symbol.ID(300)

	// use = let g = \x -> x in g
	prog := &core.Program{Binds: []core.CoreExpr{
		&core.Bind{Symbol: useID, Name: "use", Value: &core.Let{
			Symbol: mod.Declare("g"), Name: "g",
			Value: &core.Lam{Params: []symbol.ID{x}, Names: []string{"x"}, Body: &core.Var{Symbol: x, Name: "x"}},
			Body:  &core.Var{Name: "g"},
		}},
	}}

	l := New(mod)
	out := l.Run(prog)
	if len(out.Binds) != 2 {
		t.Fatalf("expected one hoisted lambda alongside use, got %d binds", len(out.Binds))
	}
	useBind := out.Binds[0].(*core.Bind)
	let := useBind.Value.(*core.Let)
	if _, ok := let.Value.(*core.Var); !ok {
		t.Fatalf("expected the let-bound lambda to be replaced by a bare Var (no free vars to capture), got %T", let.Value)
	}
}
