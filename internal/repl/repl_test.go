package repl

import "testing"

func TestTypeOfSimpleArithmetic(t *testing.T) {
	r := New()
	got, err := r.typeOf("1 + 2")
	if err != nil {
		t.Fatalf("typeOf: %v", err)
	}
	if got == "" {
		t.Fatalf("expected a non-empty type string")
	}
}

func TestTypeOfReportsNotInScope(t *testing.T) {
	r := New()
	if _, err := r.typeOf("nowhere"); err == nil {
		t.Fatalf("expected a not-in-scope error for an unbound identifier")
	}
}

func TestTypeOfReportsParseError(t *testing.T) {
	r := New()
	if _, err := r.typeOf("1 +"); err == nil {
		t.Fatalf("expected a parse error for a dangling operator")
	}
}

func TestHandleCommandHistory(t *testing.T) {
	r := New()
	r.history = []string{"1 + 2"}
	var buf fakeWriter
	r.HandleCommand(":history", &buf)
	if buf.String() == "" {
		t.Fatalf("expected :history to print something")
	}
}

type fakeWriter struct {
	data []byte
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *fakeWriter) String() string { return string(w.data) }
