package mono

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

func groundSub(varName string, t types.Type) ast.InstSub {
	return ast.InstSub{VarToReplace: varName, NewName: t.String(), NewType: &t}
}

func TestGroundInstantiationProducesSpecializedDecl(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	idID := mod.Declare("identity")
	mod.Get(idID).Type = &types.Scheme{
		Vars: []*types.Var{{Name: "a"}},
		Body: &types.Fun{From: &types.Var{Name: "a"}, To: &types.Var{Name: "a"}},
	}

	useID := mod.Declare("useIdentity")
	list := &ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{
		{Members: []ast.Decl{&ast.ApatsAssignment{Symbol: idID, Name: "identity",
			Apats: []ast.Pattern{&ast.VarPattern{Name: "x"}},
			Rhs:   &ast.Rhs{Expr: &ast.Var{Name: "x"}}}}},
		{Members: []ast.Decl{&ast.SimpleAssignment{Symbol: useID, Name: "useIdentity",
			Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: idID, Name: "identity",
				InstSubs: []ast.InstSub{groundSub("a", types.TInt)}}}}}},
	}}

	m := New(mod)
	out := m.Run(list)
	if len(m.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", m.Errors())
	}
	if len(out.Groups) != 3 {
		t.Fatalf("expected the original 2 groups plus 1 specialization, got %d", len(out.Groups))
	}

	useDecl := out.Groups[1].Members[0].(*ast.SimpleAssignment)
	callVar := useDecl.Rhs.Expr.(*ast.Var)
	if callVar.Symbol == idID {
		t.Fatal("expected the use site to be rewritten to the specialized symbol")
	}
	specialized := mod.Get(callVar.Symbol)
	if specialized.SourceName != "identity" {
		t.Fatalf("expected cloned symbol to retain source name, got %s", specialized.SourceName)
	}
	if specialized.UniqueName != "identity<Int>" {
		t.Fatalf("expected mangled unique name identity<Int>, got %s", specialized.UniqueName)
	}
}

func TestAmbiguousSubstitutionIsReported(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	idID := mod.Declare("identity")

	list := &ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{
		{Members: []ast.Decl{&ast.SimpleAssignment{Symbol: mod.Declare("use"), Name: "use",
			Rhs: &ast.Rhs{Expr: &ast.Var{Symbol: idID, Name: "identity",
				InstSubs: []ast.InstSub{{VarToReplace: "a", NewType: nil}}}}}}},
	}}

	m := New(mod)
	m.Run(list)
	if len(m.Errors()) != 1 || m.Errors()[0].Kind != "ambiguous_type_variable" {
		t.Fatalf("expected one ambiguous_type_variable error, got %v", m.Errors())
	}
}

func TestNonRecursiveInitializerIsRejected(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	xID := mod.Declare("x")

	list := &ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{
		{Members: []ast.Decl{&ast.SimpleAssignment{Symbol: xID, Name: "x",
			Initializer: &ast.Constant{Kind: ast.ConstBool, Bool: true},
			Rhs:         &ast.Rhs{Expr: &ast.Constant{Kind: ast.ConstBool, Bool: true}}}}},
	}}

	m := New(mod)
	m.Run(list)
	if len(m.Errors()) != 1 || m.Errors()[0].Kind != "non_recursive_initialized_value" {
		t.Fatalf("expected one non_recursive_initialized_value error, got %v", m.Errors())
	}
}
