package stateanalysis

import (
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

func findBind(prog *core.Program, name string) *core.Bind {
	for _, b := range prog.Binds {
		if bind, ok := b.(*core.Bind); ok && bind.Name == name {
			return bind
		}
	}
	return nil
}

func TestTopLevelRecursiveInitializerIsPointwiseNotStateful(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	accID := mod.Declare("acc")
	// acc ~ 0 = acc   (a top-level accumulator read-back, structurally)
	bind := &core.Bind{
		Symbol: accID, Name: "acc",
		Initializer: &core.Lit{Kind: core.IntLit, Value: int64(0)},
		Value:       &core.Var{Symbol: accID, Name: "acc"},
	}
	prog := &core.Program{Binds: []core.CoreExpr{bind}}

	s := New(mod)
	s.Run(prog)

	if got := mod.Get(accID).StateType; got != symbol.StatePointwise {
		t.Fatalf("expected a true top-level recursive binding to be Pointwise (global storage), got %s", got)
	}
}

func TestNestedInitializerMarksEnclosingBindStatefulButOuterTopLevelStaysPointwise(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	innerID := mod.Declare("innerAcc")
	innerBind := &core.Bind{
		Symbol: innerID, Name: "innerAcc",
		Initializer: &core.Lit{Kind: core.IntLit, Value: int64(0)},
		Value:       &core.Var{Symbol: innerID, Name: "innerAcc"},
	}
	outerID := mod.Declare("outerAcc")
	outerBind := &core.Bind{
		Symbol: outerID, Name: "outerAcc",
		Initializer: innerBind, // nested recursive bind inside the outer one's initializer
		Value:       &core.Var{Symbol: outerID, Name: "outerAcc"},
	}
	prog := &core.Program{Binds: []core.CoreExpr{outerBind}}

	s := New(mod)
	s.Run(prog)

	if got := mod.Get(innerID).StateType; got != symbol.StateStateful {
		t.Fatalf("expected the nested bind (which does have an enclosing bind) to stay Stateful, got %s", got)
	}
	if got := mod.Get(outerID).StateType; got != symbol.StatePointwise {
		t.Fatalf("expected the true top-level outer bind to be downgraded to Pointwise despite nested propagation, got %s", got)
	}
}

func TestAppWithPolyHeadLetsArgumentClassDominate(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	mkPairID := mod.Declare("MkPair")
	mod.Get(mkPairID).IsConstructor = true

	statefulID := mod.Declare("statefulVal")
	mod.Get(statefulID).Arity = 1 // non-zero arity: stays Stateful, not downgraded

	s := New(mod)
	s.hasInit = map[symbol.ID]bool{statefulID: true}

	app := &core.App{
		Func: &core.App{Func: &core.Var{Symbol: mkPairID, Name: "MkPair"}, Arg: &core.Lit{Kind: core.IntLit, Value: int64(1)}},
		Arg:  &core.Var{Symbol: statefulID, Name: "statefulVal"},
	}

	got := s.appExpr(app, nil)
	if got != symbol.StateStateful {
		t.Fatalf("expected the stateful argument to dominate past the Poly constructor head, got %s", got)
	}
}

func TestRecursiveInitializerWrapsValueInDeepCopyForProductType(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	mkPairID := mod.Declare("MkPair")
	pairDecl := &core.DataDecl{
		Name: "Pair",
		Constructors: []*core.DataCon{
			{Symbol: mkPairID, Name: "MkPair", Fields: []types.Type{types.TInt, types.TInt}, Tag: 0},
		},
	}

	pairType := &types.Con{Name: "Pair"}
	stateID := mod.Declare("state")
	bind := &core.Bind{
		Symbol: stateID, Name: "state",
		Initializer: &core.Lit{Kind: core.IntLit, Value: int64(0)},
		Value:       &core.Var{CoreNode: core.CoreNode{Type: pairType}, Symbol: stateID, Name: "state"},
	}
	prog := &core.Program{Binds: []core.CoreExpr{pairDecl, bind}}

	s := New(mod)
	out := s.Run(prog)

	copyBind := findBind(out, "deepCopy$Pair")
	if copyBind == nil {
		t.Fatalf("expected a synthesized deepCopy$Pair binding, binds were: %v", out.Binds)
	}
	lam, ok := copyBind.Value.(*core.Lam)
	if !ok {
		t.Fatalf("expected deepCopy$Pair's value to be a Lam, got %T", copyBind.Value)
	}
	caseExpr, ok := lam.Body.(*core.Case)
	if !ok {
		t.Fatalf("expected the deep copy function body to be a Case, got %T", lam.Body)
	}
	if len(caseExpr.Alts) != 1 || caseExpr.Alts[0].Pattern.(*core.PCon).ConName != "MkPair" {
		t.Fatalf("expected exactly one MkPair alternative, got %v", caseExpr.Alts)
	}

	stateBind := findBind(out, "state")
	app, ok := stateBind.Value.(*core.App)
	if !ok {
		t.Fatalf("expected state's value to be wrapped in a deep-copy call, got %T", stateBind.Value)
	}
	fnVar, ok := app.Func.(*core.Var)
	if !ok || fnVar.Symbol != copyBind.Symbol {
		t.Fatalf("expected the wrapping call to reference deepCopy$Pair, got %v", app.Func)
	}
}

func TestEnumTypeNeedsNoDeepCopyFunction(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	trueID, falseID := mod.Declare("BTrue"), mod.Declare("BFalse")
	boolDecl := &core.DataDecl{
		Name: "Bit",
		Constructors: []*core.DataCon{
			{Symbol: trueID, Name: "BTrue", Fields: nil, Tag: 0},
			{Symbol: falseID, Name: "BFalse", Fields: nil, Tag: 1},
		},
	}

	bitType := &types.Con{Name: "Bit"}
	stateID := mod.Declare("flag")
	bind := &core.Bind{
		Symbol: stateID, Name: "flag",
		Initializer: &core.Var{Symbol: trueID, Name: "BTrue"},
		Value:       &core.Var{CoreNode: core.CoreNode{Type: bitType}, Symbol: stateID, Name: "flag"},
	}
	prog := &core.Program{Binds: []core.CoreExpr{boolDecl, bind}}

	s := New(mod)
	out := s.Run(prog)

	if findBind(out, "deepCopy$Bit") != nil {
		t.Fatalf("an enum type should synthesize no deep-copy function")
	}
	stateBind := findBind(out, "flag")
	if _, ok := stateBind.Value.(*core.App); ok {
		t.Fatalf("an enum-typed value should not be wrapped in a deep-copy call, got %T", stateBind.Value)
	}
}

func TestWhileLoopBodyIsDeepCopiedButForLoopBodyIsNot(t *testing.T) {
	mod := symbol.NewModule("test", nil)
	mkPairID := mod.Declare("MkPair")
	pairDecl := &core.DataDecl{
		Name: "Pair",
		Constructors: []*core.DataCon{
			{Symbol: mkPairID, Name: "MkPair", Fields: []types.Type{types.TInt, types.TInt}, Tag: 0},
		},
	}
	pairType := &types.Con{Name: "Pair"}
	bodyID := mod.Declare("acc")

	whileLoop := &core.Loop{
		Kind:      core.WhileLoop,
		Predicate: &core.Lit{Kind: core.BoolLit, Value: true},
		Body:      &core.Var{CoreNode: core.CoreNode{Type: pairType}, Symbol: bodyID, Name: "acc"},
	}
	forLoop := &core.Loop{
		Kind:        core.ForLoop,
		IndexSymbol: mod.Declare("i"), IndexName: "i",
		ValueSymbol: mod.Declare("v"), ValueName: "v",
		RangeInit: &core.Lit{Kind: core.IntLit, Value: int64(0)},
		MaxLoops:  &core.Lit{Kind: core.IntLit, Value: int64(10)},
		Body:      &core.Var{CoreNode: core.CoreNode{Type: pairType}, Symbol: bodyID, Name: "acc"},
	}
	prog := &core.Program{Binds: []core.CoreExpr{
		pairDecl,
		&core.Bind{Symbol: mod.Declare("w"), Name: "w", Value: whileLoop},
		&core.Bind{Symbol: mod.Declare("f"), Name: "f", Value: forLoop},
	}}

	s := New(mod)
	out := s.Run(prog)

	if got := findBind(out, "w").StateType; got != symbol.StateStateful {
		t.Fatalf("LOOP must always classify Stateful, got %s", got)
	}
	if _, ok := whileLoop.Body.(*core.App); !ok {
		t.Fatalf("expected the WHILE loop's body to be deep-copied, got %T", whileLoop.Body)
	}
	if _, ok := forLoop.Body.(*core.App); ok {
		t.Fatalf("a FOR loop's body should not be wrapped in a deep-copy call, got %T", forLoop.Body)
	}
}
