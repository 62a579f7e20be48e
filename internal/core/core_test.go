package core

import (
	"testing"

	"github.com/sunholo/ailang/internal/types"
)

func TestLitString(t *testing.T) {
	l := &Lit{Kind: IntLit, Value: int64(3)}
	if l.String() != "3" {
		t.Fatalf("expected 3, got %s", l.String())
	}
}

func TestBindRecursiveFlag(t *testing.T) {
	// spec.md open question: BIND_REC is realized as BIND + IsRecursive.
	b := &Bind{Name: "x", IsRecursive: true, Value: &Lit{Kind: IntLit, Value: int64(0)}}
	if !b.IsRecursive {
		t.Fatal("expected IsRecursive to be true")
	}
	if b.Initializer != nil {
		t.Fatal("expected nil initializer for a plain recursive bind")
	}
}

func TestCaseString(t *testing.T) {
	c := &Case{
		Scrutinee: &Var{Name: "x"},
		Alts: []CaseAlt{
			{Pattern: &PCon{ConName: "True"}, Body: &Lit{Kind: BoolLit, Value: true}},
			{Pattern: &PWildcard{}, Body: &Lit{Kind: BoolLit, Value: false}},
		},
	}
	got := c.String()
	if got == "" {
		t.Fatal("expected non-empty rendering")
	}
}

func TestLoopKinds(t *testing.T) {
	forLoop := &Loop{Kind: ForLoop, ValueName: "i", RangeInit: &Lit{Kind: IntLit, Value: int64(0)}, MaxLoops: &Lit{Kind: IntLit, Value: int64(10)}, Body: &Var{Name: "i"}}
	if forLoop.Kind != ForLoop {
		t.Fatal("expected ForLoop kind")
	}
	whileLoop := &Loop{Kind: WhileLoop, Predicate: &Var{Name: "p"}, Body: &Var{Name: "b"}}
	if whileLoop.Kind != WhileLoop {
		t.Fatal("expected WhileLoop kind")
	}
}

func TestDataDeclConstructors(t *testing.T) {
	d := &DataDecl{
		Name: "Maybe",
		Constructors: []*DataCon{
			{Name: "Nothing", Tag: 0},
			{Name: "Just", Fields: []types.Type{types.TInt}, Tag: 1},
		},
	}
	if len(d.Constructors) != 2 {
		t.Fatalf("expected 2 constructors, got %d", len(d.Constructors))
	}
}
