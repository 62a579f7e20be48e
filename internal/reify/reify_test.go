package reify

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/parsetree"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestReifyIntLiteralDesugarsToFromInt(t *testing.T) {
	r := New(symbol.NewModule("test", nil))
	got := r.reifyExpr(&parsetree.Constant{Kind: parsetree.IntLit, Int: 3})

	app, ok := got.(*ast.App)
	if !ok {
		t.Fatalf("expected *ast.App, got %T", got)
	}
	fn, ok := app.Func.(*ast.Var)
	if !ok || fn.Name != "fromInt" {
		t.Fatalf("expected fromInt call, got %#v", app.Func)
	}
	lit, ok := app.Arg.(*ast.Constant)
	if !ok || lit.Kind != ast.ConstInt || lit.Int != 3 {
		t.Fatalf("expected wrapped int literal 3, got %#v", app.Arg)
	}
}

func TestReifyFloatLiteralDesugarsToFromRational(t *testing.T) {
	r := New(symbol.NewModule("test", nil))
	got := r.reifyExpr(&parsetree.Constant{Kind: parsetree.FloatLit, Float: 1.5})

	app, ok := got.(*ast.App)
	if !ok {
		t.Fatalf("expected *ast.App, got %T", got)
	}
	if fn, ok := app.Func.(*ast.Var); !ok || fn.Name != "fromRational" {
		t.Fatalf("expected fromRational call, got %#v", app.Func)
	}
}

func TestReifyBoolLiteralIsNotDesugared(t *testing.T) {
	r := New(symbol.NewModule("test", nil))
	got := r.reifyExpr(&parsetree.Constant{Kind: parsetree.BoolLit, Bool: true})
	if _, ok := got.(*ast.Constant); !ok {
		t.Fatalf("expected a bare Constant for Bool, got %T", got)
	}
}

func TestReifySimpleAssignmentDeclaresSymbol(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	r := New(mod)

	decl := &parsetree.SimpleAssignment{
		Name: "x",
		Rhs:  &parsetree.Rhs{Expr: &parsetree.Constant{Kind: parsetree.BoolLit, Bool: true}},
	}
	out := r.reifyDecl(decl).(*ast.SimpleAssignment)

	id, ok := mod.Lookup("x")
	if !ok {
		t.Fatal("expected symbol \"x\" to be declared")
	}
	if out.Symbol != id {
		t.Fatalf("expected decl symbol to match declared id %d, got %d", id, out.Symbol)
	}
}

func TestReifyDataDeclarationTagsConstructors(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	r := New(mod)

	decl := &parsetree.DataDeclaration{
		ConName: "Maybe",
		VarNames: []string{"a"},
		Constructors: []parsetree.Constructor{
			{ConName: "Nothing"},
			{ConName: "Just", Args: []parsetree.Type{&parsetree.TypeVarRef{Name: "a"}}},
		},
	}
	out := r.reifyDecl(decl).(*ast.DataDeclaration)

	if len(out.Constructors) != 2 {
		t.Fatalf("expected 2 constructors, got %d", len(out.Constructors))
	}
	nothing := mod.Get(out.Constructors[0].Symbol)
	if !nothing.IsEnum || !nothing.IsConstructor {
		t.Fatalf("expected Nothing to be an enum constructor, got %#v", nothing)
	}
	just := mod.Get(out.Constructors[1].Symbol)
	if just.Arity != 1 {
		t.Fatalf("expected Just to have arity 1, got %d", just.Arity)
	}
	if just.IsWrapper {
		t.Fatal("Maybe has two constructors, Just must not be marked IsWrapper")
	}
}

func TestReifyVarOccurrenceIsUnresolved(t *testing.T) {
	r := New(symbol.NewModule("test", nil))
	got := r.reifyExpr(&parsetree.Var{Name: "y"}).(*ast.Var)
	if got.Name != "y" {
		t.Fatalf("expected name y, got %s", got.Name)
	}
	if got.Symbol != 0 {
		t.Fatalf("expected an unresolved (zero) symbol id before renaming, got %d", got.Symbol)
	}
}
