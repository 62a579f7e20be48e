package aliasanalysis

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
)

func TestIsCopyTypeRecognizesPrimitives(t *testing.T) {
	for _, name := range []string{"Int", "Float", "Char", "Bool", "Unit"} {
		if !IsCopyType(name) {
			t.Errorf("expected %s to be a copy type", name)
		}
	}
	if IsCopyType("Maybe") {
		t.Error("expected Maybe to not be a copy type")
	}
}

func TestVarOccurrenceProducesSingletonAliasSet(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	xID := mod.Declare("x")

	a := New(mod)
	got := a.expr(&ast.Var{Symbol: xID, Name: "x"})
	if got == nil || !got.Contains(xID) {
		t.Fatalf("expected a singleton alias set containing x, got %v", got)
	}
}

func TestSimpleAssignmentMergesRhsIntoDeclaredSymbol(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	xID := mod.Declare("x")
	yID := mod.Declare("y")

	top := &ast.TopDecl{Decls: []ast.Decl{
		&ast.SimpleAssignment{Symbol: xID, Name: "x", Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: yID, Name: "y"}}},
	}}
	a := New(mod)
	a.Analyze(top)

	xSym := mod.Get(xID)
	if xSym.AliasSet == nil || !xSym.AliasSet.Contains(yID) {
		t.Fatalf("expected x's alias set to contain y, got %v", xSym.AliasSet)
	}
}

func TestIfThenElseMergesBothBranches(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	aID := mod.Declare("a")
	bID := mod.Declare("b")

	an := New(mod)
	got := an.expr(&ast.IfThenElse{
		Cond: &ast.Constant{Kind: ast.ConstBool, Bool: true},
		Then: &ast.Var{Symbol: aID, Name: "a"},
		Else: &ast.Var{Symbol: bID, Name: "b"},
	})
	if got == nil || !got.Contains(aID) || !got.Contains(bID) {
		t.Fatalf("expected merged set to contain both a and b, got %v", got)
	}
}
