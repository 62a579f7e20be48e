package presimplify

import (
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

func TestInlineIDCollapsesToArgument(t *testing.T) {
	x := symbol.ID(1)
	e := &core.App{
		Func: &core.Lam{Params: []symbol.ID{x}, Names: []string{"x"}, Body: &core.Var{Symbol: x, Name: "x"}},
		Arg:  &core.Lit{Kind: core.IntLit, Value: int64(42)},
	}
	s := New(&core.Program{})
	got := s.fix(e)
	lit, ok := got.(*core.Lit)
	if !ok || lit.Value != int64(42) {
		t.Fatalf("expected bare literal 42, got %s", got)
	}
}

func TestInlinePipeRewritesToDirectApplication(t *testing.T) {
	x, f := symbol.ID(1), symbol.ID(2)
	// (\x f -> f x) e1 e2 -> e2 e1
	pipe := &core.Lam{
		Params: []symbol.ID{x, f},
		Names:  []string{"x", "f"},
		Body:   &core.App{Func: &core.Var{Symbol: f, Name: "f"}, Arg: &core.Var{Symbol: x, Name: "x"}},
	}
	e1 := &core.Lit{Kind: core.IntLit, Value: int64(7)}
	e2 := &core.Var{Name: "double"}
	e := &core.App{Func: &core.App{Func: pipe, Arg: e1}, Arg: e2}

	s := New(&core.Program{})
	got := s.fix(e)
	app, ok := got.(*core.App)
	if !ok {
		t.Fatalf("expected App, got %T", got)
	}
	if fn, ok := app.Func.(*core.Var); !ok || fn.Name != "double" {
		t.Fatalf("expected func to be 'double', got %s", app.Func)
	}
	if arg, ok := app.Arg.(*core.Lit); !ok || arg.Value != int64(7) {
		t.Fatalf("expected arg to be 7, got %s", app.Arg)
	}
}

func TestBetaReductionProducesLetBinding(t *testing.T) {
	x := symbol.ID(1)
	lam := &core.Lam{
		Params: []symbol.ID{x},
		Names:  []string{"x"},
		Body:   &core.App{Func: &core.Var{Name: "inc"}, Arg: &core.Var{Symbol: x, Name: "x"}},
	}
	e := &core.App{Func: lam, Arg: &core.Lit{Kind: core.IntLit, Value: int64(1)}}

	s := New(&core.Program{})
	got := s.fix(e)
	let, ok := got.(*core.Let)
	if !ok {
		t.Fatalf("expected Let, got %T", got)
	}
	if let.Symbol != x || let.Name != "x" {
		t.Fatalf("expected let binding x, got %+v", let)
	}
	if lit, ok := let.Value.(*core.Lit); !ok || lit.Value != int64(1) {
		t.Fatalf("expected let value 1, got %s", let.Value)
	}
}

func TestSingleAltCaseOnVarBecomesLet(t *testing.T) {
	scrut := symbol.ID(5)
	bound := symbol.ID(6)
	e := &core.Case{
		Scrutinee: &core.Var{Symbol: scrut, Name: "s"},
		Alts: []core.CaseAlt{
			{Pattern: &core.PVar{Symbol: bound, Name: "y"}, Body: &core.Var{Symbol: bound, Name: "y"}},
		},
	}
	s := New(&core.Program{})
	got := s.fix(e)
	let, ok := got.(*core.Let)
	if !ok {
		t.Fatalf("expected Let, got %T", got)
	}
	if let.Symbol != bound || let.Name != "y" {
		t.Fatalf("expected let binding y, got %+v", let)
	}
}

func TestMultiAltCaseOnVarIsUntouched(t *testing.T) {
	e := &core.Case{
		Scrutinee: &core.Var{Name: "s"},
		Alts: []core.CaseAlt{
			{Pattern: &core.PCon{ConName: "True"}, Body: &core.Lit{Kind: core.BoolLit, Value: true}},
			{Pattern: &core.PCon{ConName: "False"}, Body: &core.Lit{Kind: core.BoolLit, Value: false}},
		},
	}
	s := New(&core.Program{})
	got := s.fix(e)
	if _, ok := got.(*core.Case); !ok {
		t.Fatalf("expected the two-alt case to survive untouched, got %T", got)
	}
}

func TestNewtypeUnwrapsConstructorApplicationAndCase(t *testing.T) {
	field := symbol.ID(9)
	prog := &core.Program{Binds: []core.CoreExpr{
		&core.DataDecl{
			Name: "Wrapper",
			Constructors: []*core.DataCon{
				{Name: "MkWrapper", Fields: []types.Type{types.TInt}},
			},
		},
	}}
	s := New(prog)

	conApp := &core.App{
		Func: &core.Var{Name: "MkWrapper"},
		Arg:  &core.Lit{Kind: core.IntLit, Value: int64(3)},
	}
	got := s.fix(conApp)
	if lit, ok := got.(*core.Lit); !ok || lit.Value != int64(3) {
		t.Fatalf("expected constructor application to unwrap to its argument, got %s", got)
	}

	caseOnWrapper := &core.Case{
		Scrutinee: &core.Var{Name: "w"},
		Alts: []core.CaseAlt{
			{
				Pattern: &core.PCon{ConName: "MkWrapper", Fields: []string{"inner"}, Symbols: []symbol.ID{field}},
				Body:    &core.Var{Symbol: field, Name: "inner"},
			},
		},
	}
	got = s.fix(caseOnWrapper)
	let, ok := got.(*core.Let)
	if !ok {
		t.Fatalf("expected case-on-wrapper to become a Let, got %T", got)
	}
	if let.Symbol != field || let.Name != "inner" {
		t.Fatalf("expected let binding inner, got %+v", let)
	}
}
