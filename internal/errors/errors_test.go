package errors

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
)

func loc(line, col int) ast.Pos {
	return ast.Pos{File: "test.nec", Line: line, Column: col}
}

func TestNewSetsPhaseFromKind(t *testing.T) {
	tests := []struct {
		kind  Kind
		phase string
	}{
		{NotInScope, "rename"},
		{MismatchedType, "infer"},
		{MissingInstance, "infer"},
		{UniquenessViolation, "alias"},
		{NonExhaustivePatterns, "core"},
	}
	for _, tt := range tests {
		e := New(tt.kind, loc(1, 1), loc(1, 2), "boom")
		if e.Phase != tt.phase {
			t.Errorf("kind %s: expected phase %s, got %s", tt.kind, tt.phase, e.Phase)
		}
	}
}

func TestWithTypesAndFix(t *testing.T) {
	e := New(MismatchedType, loc(1, 1), loc(1, 2), "type mismatch").
		WithTypes("Int", "Bool").
		WithFix("check the literal", 0.5)

	if e.Type1 != "Int" || e.Type2 != "Bool" {
		t.Fatalf("expected operands Int/Bool, got %s/%s", e.Type1, e.Type2)
	}
	if e.Fix == nil || e.Fix.Suggestion != "check the literal" {
		t.Fatal("expected a fix suggestion to be attached")
	}
}

func TestToJSONIsDeterministic(t *testing.T) {
	e := New(NotInScope, loc(3, 4), loc(3, 5), "undefined variable foo")
	a, err := e.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := e.ToJSON()
	if string(a) != string(b) {
		t.Fatal("expected identical JSON across repeated calls")
	}
}

func TestAsExtractsCompileError(t *testing.T) {
	var err error = New(OccursCheck, loc(0, 0), loc(0, 0), "infinite type")
	ce, ok := As(err)
	if !ok || ce.Kind != OccursCheck {
		t.Fatal("expected As to extract the CompileError")
	}
}
