package infer

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

func newTestChecker() (*Checker, *symbol.Module) {
	mod := symbol.NewModule("test", nil)
	c := New(mod, types.NewKindTable(), types.NewInstanceTable())
	return c, mod
}

func constInt(v int64) *ast.Constant { return &ast.Constant{Kind: ast.ConstInt, Int: v} }

// identity = \x -> x  generalizes to forall t. t -> t.
func TestLambdaGeneralizesOverItsParameter(t *testing.T) {
	c, mod := newTestChecker()
	idID := mod.Declare("identity")
	xID := mod.Declare("x")

	lam := &ast.Lambda{
		Apats: []ast.Pattern{&ast.VarPattern{Symbol: xID, Name: "x"}},
		Body:  &ast.Var{Symbol: xID, Name: "x"},
	}
	decl := &ast.SimpleAssignment{Symbol: idID, Name: "identity", Rhs: &ast.Rhs{Expr: lam}}
	group := &ast.DeclarationGroup{Members: []ast.Decl{decl}, InfoIndex: 0}

	c.Run(&ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{group}})

	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	scheme, ok := mod.Get(idID).Type.(*types.Scheme)
	if !ok {
		t.Fatalf("identity has no scheme, got %#v", mod.Get(idID).Type)
	}
	if !scheme.IsPolymorphic() {
		t.Fatalf("expected identity to generalize to a polymorphic scheme, got %s", scheme)
	}
	fn, ok := types.Prune(scheme.Body).(*types.Fun)
	if !ok {
		t.Fatalf("expected identity's body to be a function type, got %s", scheme.Body)
	}
	if !fn.From.Equals(fn.To) {
		t.Fatalf("expected identity :: t -> t, got %s", scheme)
	}
}

// countdown n = if n == 0 then 0 else countdown (n - 1)   (self-recursive,
// checked via the letrec placeholder; infers to a concrete numeric type,
// not a polymorphic scheme, since the recursive call pins the parameter.)
func TestRecursiveFunctionChecksAgainstItsOwnPlaceholder(t *testing.T) {
	c, mod := newTestChecker()
	fID := mod.Declare("countdown")
	nID := mod.Declare("n")

	// == :: forall a. Eq a => a -> a -> Bool
	eqID := mod.Declare("==")
	eqVar := types.NewRigidVar("a", 0)
	mod.Get(eqID).Type = &types.Scheme{
		Vars:        []*types.Var{eqVar},
		Constraints: []types.Constraint{{Class: "Eq", Type: eqVar}},
		Body:        &types.Fun{From: eqVar, To: &types.Fun{From: eqVar, To: types.TBool}},
	}

	minusID := mod.Declare("-")
	mod.Get(minusID).Type = types.Monotype(&types.Fun{From: types.TInt, To: &types.Fun{From: types.TInt, To: types.TInt}})

	nVar := &ast.Var{Symbol: nID, Name: "n"}
	cond := &ast.BinOp{Op: "==", OpSymbol: eqID, Left: nVar, Right: constInt(0)}
	rec := &ast.App{Func: &ast.Var{Symbol: fID, Name: "countdown"},
		Arg: &ast.BinOp{Op: "-", OpSymbol: minusID, Left: nVar, Right: constInt(1)}}
	body := &ast.IfThenElse{Cond: cond, Then: constInt(0), Else: rec}

	decl := &ast.ApatsAssignment{
		Symbol: fID, Name: "countdown",
		Apats: []ast.Pattern{&ast.VarPattern{Symbol: nID, Name: "n"}},
		Rhs:   &ast.Rhs{Expr: body},
	}
	group := &ast.DeclarationGroup{Members: []ast.Decl{decl}, InfoIndex: 0}

	c.Run(&ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{group}})

	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	if got := mod.Get(fID).Arity; got != 1 {
		t.Fatalf("expected countdown's Arity to be set to 1, got %d", got)
	}
	scheme, ok := mod.Get(fID).Type.(*types.Scheme)
	if !ok {
		t.Fatalf("countdown has no scheme")
	}
	fn, ok := types.Prune(scheme.Body).(*types.Fun)
	if !ok {
		t.Fatalf("expected countdown :: _ -> _, got %s", scheme.Body)
	}
	if !types.Prune(fn.From).Equals(types.TInt) {
		t.Fatalf("expected countdown's parameter to be pinned to Int by -, got %s", fn.From)
	}
}

// data Box a = MkBox a   gives MkBox the scheme  forall a. a -> Box a.
func TestDataDeclarationBuildsConstructorScheme(t *testing.T) {
	c, mod := newTestChecker()
	boxID := mod.Declare("Box")
	mkBoxID := mod.Declare("MkBox")

	dd := &ast.DataDeclaration{
		Symbol:     boxID,
		SimpleType: &ast.SimpleType{ConName: "Box", VarNames: []string{"a"}},
		Constructors: []*ast.Constructor{
			{Symbol: mkBoxID, ConName: "MkBox", Args: []ast.Type{&ast.TypeVarRef{Name: "a"}}},
		},
	}
	group := &ast.DeclarationGroup{Members: []ast.Decl{dd}, InfoIndex: 0}

	c.Run(&ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{group}})

	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	scheme, ok := mod.Get(mkBoxID).Type.(*types.Scheme)
	if !ok {
		t.Fatalf("MkBox has no scheme")
	}
	if len(scheme.Vars) != 1 {
		t.Fatalf("expected MkBox to quantify over exactly one var, got %d", len(scheme.Vars))
	}
	fn, ok := types.Prune(scheme.Body).(*types.Fun)
	if !ok {
		t.Fatalf("expected MkBox :: a -> Box a, got %s", scheme.Body)
	}
	result, ok := types.Prune(fn.To).(*types.Con)
	if !ok || result.Name != "Box" {
		t.Fatalf("expected MkBox's result to be Box a, got %s", fn.To)
	}
}

// An unconstrained literal left over after checking (no Num/Fractional/Eq/Ord
// context at all) is reported ambiguous rather than silently defaulted.
func TestAmbiguousVarWithNoConstraintsIsReported(t *testing.T) {
	c, _ := newTestChecker()
	v := c.fresh()
	resolved := c.defaultAmbiguous(v)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected an ambiguous_type_variable error for a contextless flex var")
	}
	if _, ok := types.Prune(resolved).(*types.Var); !ok {
		t.Fatalf("expected the unresolved var back unchanged, got %s", resolved)
	}
}

// A var constrained only by Num defaults to Int (spec.md §4.E defaulting).
func TestAmbiguousNumVarDefaultsToInt(t *testing.T) {
	c, _ := newTestChecker()
	v := c.fresh()
	v.Context = append(v.Context, "Num")
	resolved := c.defaultAmbiguous(v)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors defaulting a Num var: %v", c.Errors())
	}
	if !types.Prune(resolved).Equals(types.TInt) {
		t.Fatalf("expected Num var to default to Int, got %s", resolved)
	}
}
