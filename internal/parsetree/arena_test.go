package parsetree

import (
	"bytes"
	"testing"
)

// A round-trip through Encode/Decode must reproduce every field and
// every concrete variant reachable from Module.Decls, since each variant
// needs its own gob.Register call and a missed one fails at decode time.
func TestArenaRoundTrip(t *testing.T) {
	m := &Module{
		Decls: []Decl{
			&ApatsAssignment{
				Name:  "add",
				Apats: []Pattern{&VarPattern{Name: "x"}, &VarPattern{Name: "y"}},
				Rhs: &Rhs{Expr: &BinOp{
					Op:    "+",
					Left:  &Var{Name: "x"},
					Right: &Var{Name: "y"},
				}},
			},
			&DataDeclaration{
				ConName:  "Pair",
				VarNames: []string{"a", "b"},
				Constructors: []Constructor{
					{ConName: "MkPair", Args: []Type{&TypeVarRef{Name: "a"}, &TypeVarRef{Name: "b"}}},
				},
			},
			&SimpleAssignment{
				Name: "fortyTwo",
				Rhs:  &Rhs{Expr: &Constant{Kind: IntLit, Int: 42}},
			},
			&TypeSignature{
				Names: []string{"add"},
				Ty: &FunctionType{
					From: &ConId{Name: "Int"},
					To:   &FunctionType{From: &ConId{Name: "Int"}, To: &ConId{Name: "Int"}},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Decls) != len(m.Decls) {
		t.Fatalf("decoded %d decls, want %d", len(got.Decls), len(m.Decls))
	}

	apats, ok := got.Decls[0].(*ApatsAssignment)
	if !ok {
		t.Fatalf("decls[0] = %T, want *ApatsAssignment", got.Decls[0])
	}
	if apats.Name != "add" || len(apats.Apats) != 2 {
		t.Fatalf("unexpected ApatsAssignment: %+v", apats)
	}
	bin, ok := apats.Rhs.Expr.(*BinOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("unexpected rhs expr: %+v", apats.Rhs.Expr)
	}

	data, ok := got.Decls[1].(*DataDeclaration)
	if !ok || data.ConName != "Pair" || len(data.Constructors) != 1 {
		t.Fatalf("unexpected DataDeclaration: %+v", data)
	}

	simple, ok := got.Decls[2].(*SimpleAssignment)
	if !ok {
		t.Fatalf("decls[2] = %T, want *SimpleAssignment", got.Decls[2])
	}
	lit, ok := simple.Rhs.Expr.(*Constant)
	if !ok || lit.Kind != IntLit || lit.Int != 42 {
		t.Fatalf("unexpected literal: %+v", simple.Rhs.Expr)
	}

	sig, ok := got.Decls[3].(*TypeSignature)
	if !ok {
		t.Fatalf("decls[3] = %T, want *TypeSignature", got.Decls[3])
	}
	if _, ok := sig.Ty.(*FunctionType); !ok {
		t.Fatalf("unexpected signature type: %+v", sig.Ty)
	}
}
