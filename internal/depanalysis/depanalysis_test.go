package depanalysis

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestAcyclicDeclsProduceOneGroupEach(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	xID := mod.Declare("x")
	yID := mod.Declare("y")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Symbol: xID, Name: "x", Rhs: &ast.Rhs{Expr: &ast.Constant{Kind: ast.ConstBool, Bool: true}}},
		&ast.SimpleAssignment{Symbol: yID, Name: "y", Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: xID, Name: "x"}}},
	}}

	a := New(mod)
	list := a.Build(top)
	if len(list.Groups) != 2 {
		t.Fatalf("expected 2 singleton groups, got %d", len(list.Groups))
	}
	// Topological order: x (no deps) must precede y (depends on x).
	first := list.Groups[0].Members[0].(*ast.SimpleAssignment)
	if first.Name != "x" {
		t.Fatalf("expected x first in topological order, got %s", first.Name)
	}
}

func TestMutualRecursionFormsOneGroupAndMarksRecursive(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	isEvenID := mod.Declare("isEven")
	isOddID := mod.Declare("isOdd")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.ApatsAssignment{Symbol: isEvenID, Name: "isEven",
			Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: isOddID, Name: "isOdd"}}},
		&ast.ApatsAssignment{Symbol: isOddID, Name: "isOdd",
			Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: isEvenID, Name: "isEven"}}},
	}}

	a := New(mod)
	list := a.Build(top)
	if len(list.Groups) != 1 {
		t.Fatalf("expected a single mutually-recursive group, got %d", len(list.Groups))
	}
	if len(list.Groups[0].Members) != 2 {
		t.Fatalf("expected both declarations in the group, got %d", len(list.Groups[0].Members))
	}
	if !mod.Get(isEvenID).IsRecursive || !mod.Get(isOddID).IsRecursive {
		t.Fatal("expected both mutually-recursive declarations to be marked is_recursive")
	}
}

func TestSelfRecursionIsMarkedRecursive(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	factID := mod.Declare("fact")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.ApatsAssignment{Symbol: factID, Name: "fact",
			Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: factID, Name: "fact"}}},
	}}

	a := New(mod)
	a.Build(top)
	if !mod.Get(factID).IsRecursive {
		t.Fatal("expected self-recursive declaration to be marked is_recursive")
	}
}

func TestInstanceForcesSuperclassDependency(t *testing.T) {
	mod := symbol.NewModule("test", nil)

	eqMethodID := mod.Declare("eq")
	ordMethodID := mod.Declare("compare")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.TypeClassDeclaration{ClassName: "Eq", VarName: "a"},
		&ast.TypeClassDeclaration{ClassName: "Ord", VarName: "a",
			Context: []*ast.TypeClassContext{{ClassName: "Eq", VarNames: []string{"a"}}}},
		&ast.TypeClassInstance{ClassName: "Eq", ForType: &ast.TypeCon{Name: "Point"},
			Methods: []ast.Decl{&ast.SimpleAssignment{Symbol: eqMethodID, Name: "eq",
				Rhs: &ast.Rhs{Expr: &ast.Constant{Kind: ast.ConstBool, Bool: true}}}}},
		&ast.TypeClassInstance{ClassName: "Ord", ForType: &ast.TypeCon{Name: "Point"},
			Methods: []ast.Decl{&ast.SimpleAssignment{Symbol: ordMethodID, Name: "compare",
				Rhs: &ast.Rhs{Expr: &ast.Constant{Kind: ast.ConstBool, Bool: true}}}}},
	}}

	a := New(mod)
	a.Build(top)

	ordKey := "Ord@Point"
	eqKey := "Eq@Point"
	found := false
	for _, e := range a.edges[ordKey] {
		if e == eqKey {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s to force-depend on %s, edges were %v", ordKey, eqKey, a.edges[ordKey])
	}
}
