package rename

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/scope"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestRenameResolvesBoundVariable(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	xID := mod.Declare("x")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Symbol: xID, Name: "x", Rhs: &ast.Rhs{Expr: &ast.Constant{Kind: ast.ConstBool, Bool: true}}},
		&ast.SimpleAssignment{Name: "y", Rhs: &ast.Rhs{Expr: &ast.Var{Name: "x"}}},
	}}
	scope.New(mod).Build(top, nil)

	r := New()
	r.Rename(top)
	if len(r.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", r.Errors())
	}
	v := top.Decls[1].(*ast.SimpleAssignment).Rhs.Expr.(*ast.Var)
	if v.Symbol != xID {
		t.Fatalf("expected x to resolve to %d, got %d", xID, v.Symbol)
	}
}

func TestRenameReportsNotInScope(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Name: "y", Rhs: &ast.Rhs{Expr: &ast.Var{Name: "undefined"}}},
	}}
	scope.New(mod).Build(top, nil)

	r := New()
	r.Rename(top)
	if len(r.Errors()) != 1 {
		t.Fatalf("expected exactly one not_in_scope error, got %d", len(r.Errors()))
	}
	if r.Errors()[0].Kind != "not_in_scope" {
		t.Fatalf("expected not_in_scope, got %s", r.Errors()[0].Kind)
	}
}
