package scope

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestBuildBindsTopLevelDeclarations(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	xID := mod.Declare("x")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Symbol: xID, Name: "x", Rhs: &ast.Rhs{Expr: &ast.Constant{Kind: ast.ConstBool, Bool: true}}},
	}}

	root := New(mod).Build(top, nil)
	id, ok := root.Resolve("x")
	if !ok || id != xID {
		t.Fatalf("expected x to resolve to %d, got %d (ok=%v)", xID, id, ok)
	}
}

func TestBuildBindsLambdaParametersInNestedScope(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	yID := mod.Declare("y")

	lam := &ast.Lambda{
		Apats: []ast.Pattern{&ast.VarPattern{Symbol: yID, Name: "y"}},
		Body:  &ast.Var{Name: "y"},
	}
	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Name: "f", Rhs: &ast.Rhs{Expr: lam}},
	}}

	b := New(mod)
	root := b.Build(top, nil)
	if _, ok := root.Resolve("y"); ok {
		t.Fatal("y must not be visible in the top-level scope")
	}
	bodyScope := lam.Body.(*ast.Var).GetScope()
	if bodyScope == nil {
		t.Fatal("expected the lambda body to have a scope attached")
	}
	if id, ok := bodyScope.Resolve("y"); !ok || id != yID {
		t.Fatalf("expected y to resolve inside the lambda body, got ok=%v id=%d", ok, id)
	}
}

func TestBuildThreadsDoNotationBindersForward(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	aID := mod.Declare("a")

	stmts := []ast.DoStmt{
		&ast.BindAssignment{Symbol: aID, Name: "a", Expr: &ast.Var{Name: "action"}},
		&ast.ExprStmt{Expr: &ast.Var{Name: "a"}},
	}
	doExpr := &ast.Do{Stmts: stmts}
	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Name: "prog", Rhs: &ast.Rhs{Expr: doExpr}},
	}}

	New(mod).Build(top, nil)

	lastStmt := stmts[1].(*ast.ExprStmt)
	innerScope := lastStmt.Expr.(*ast.Var).GetScope()
	if innerScope == nil {
		t.Fatal("expected a scope on the final statement's expression")
	}
	if id, ok := innerScope.Resolve("a"); !ok || id != aID {
		t.Fatalf("expected a to resolve after the bind statement, got ok=%v id=%d", ok, id)
	}
}
