package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
)

func TestPrintRendersKindLocAndMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.DisableColor()

	err := &nerrors.CompileError{
		Kind:    nerrors.NotInScope,
		Message: "nowhere is not in scope",
		Loc:     ast.Pos{File: "expr.necro", Line: 1, Column: 1},
	}
	p.Print(err, "")

	out := buf.String()
	if !strings.Contains(out, "not_in_scope") {
		t.Fatalf("expected the error kind in output, got %q", out)
	}
	if !strings.Contains(out, "nowhere is not in scope") {
		t.Fatalf("expected the message in output, got %q", out)
	}
	if !strings.Contains(out, "expr.necro:1:1") {
		t.Fatalf("expected the location in output, got %q", out)
	}
}

func TestPrintDrawsCaretUnderOffendingColumn(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.DisableColor()

	err := &nerrors.CompileError{
		Kind:    nerrors.MismatchedType,
		Message: "type mismatch",
		Loc:     ast.Pos{File: "f.necro", Line: 2, Column: 5},
		Type1:   "Int",
		Type2:   "Bool",
	}
	p.Print(err, "let x = 1\nfoo True")

	out := buf.String()
	if !strings.Contains(out, "foo True") {
		t.Fatalf("expected the source line to be printed, got %q", out)
	}
	if !strings.Contains(out, "expected:") || !strings.Contains(out, "found:") {
		t.Fatalf("expected type1/type2 hints in output, got %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	caretLine := lines[len(lines)-1]
	if strings.Count(caretLine, "^") != 1 {
		t.Fatalf("expected exactly one caret in the final line, got %q", caretLine)
	}
}

func TestDisableColorProducesPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.DisableColor()

	err := &nerrors.CompileError{Kind: nerrors.OccursCheck, Message: "infinite type", Loc: ast.Pos{File: "a", Line: 1, Column: 1}}
	p.Print(err, "")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes after DisableColor, got %q", buf.String())
	}
}
