// Package diagnostic renders CompileErrors for cmd/necro: ANSI-coloured
// when stdout is a terminal, plain otherwise, with a source-line caret
// truncated to terminal width.
//
// Grounded on cmd/ailang/main.go and internal/repl/repl.go's
// color.New(...).SprintFunc() palette (green/red/yellow/cyan/bold/dim),
// generalized here from ad-hoc package-level color funcs used inline to a
// Printer value so cmd/necro can gate colour on go-isatty.IsTerminal
// instead of always-on.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"

	nerrors "github.com/sunholo/ailang/internal/errors"
)

// Printer renders CompileErrors to an io.Writer, colouring output only
// when isTerminal reports true (spec.md's driver is explicitly "thin":
// all presentation policy lives here, not scattered across cmd/necro).
type Printer struct {
	w          io.Writer
	color      bool
	maxCaretWidth int

	red, yellow, cyan, bold, dim func(a ...interface{}) string
}

// NewPrinter builds a Printer for w, auto-detecting colour support via
// go-isatty when w is an *os.File (the same check cmd/ailang/main.go and
// internal/repl/repl.go would need but never perform — they colour
// unconditionally; the driver fixes that for piped/CI output).
func NewPrinter(w io.Writer) *Printer {
	isTerm := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		isTerm = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	p := &Printer{w: w, color: isTerm, maxCaretWidth: 100}
	id := func(a ...interface{}) string { return fmt.Sprint(a...) }
	if isTerm {
		p.red = color.New(color.FgRed, color.Bold).SprintFunc()
		p.yellow = color.New(color.FgYellow).SprintFunc()
		p.cyan = color.New(color.FgCyan).SprintFunc()
		p.bold = color.New(color.Bold).SprintFunc()
		p.dim = color.New(color.Faint).SprintFunc()
	} else {
		p.red, p.yellow, p.cyan, p.bold, p.dim = id, id, id, id, id
	}
	return p
}

// DisableColor forces plain-text output regardless of what NewPrinter's
// isatty probe found, for --no-color and for redirecting into a file that
// happens to share a terminal's fd (e.g. `necro check foo.pta > out.txt`
// under a shell that still reports a tty on fd 1 in some CI runners).
func (p *Printer) DisableColor() {
	p.color = false
	id := func(a ...interface{}) string { return fmt.Sprint(a...) }
	p.red, p.yellow, p.cyan, p.bold, p.dim = id, id, id, id, id
}

// Print renders one CompileError: a "phase/kind at loc: message" header,
// plus a source caret line when src is non-empty.
func (p *Printer) Print(err *nerrors.CompileError, src string) {
	fmt.Fprintf(p.w, "%s %s: %s\n", p.red("error["+string(err.Kind)+"]"), p.dim(err.Loc.String()), err.Message)
	if err.Type1 != "" {
		fmt.Fprintf(p.w, "  %s %s\n", p.cyan("expected:"), err.Type1)
	}
	if err.Type2 != "" {
		fmt.Fprintf(p.w, "  %s %s\n", p.cyan("found:   "), err.Type2)
	}
	if src != "" {
		p.printCaret(src, err.Loc.Line, err.Loc.Column)
	}
	if err.Fix != nil {
		fmt.Fprintf(p.w, "  %s %s (%.0f%% confidence)\n", p.yellow("help:"), err.Fix.Suggestion, err.Fix.Confidence*100)
	}
}

// printCaret prints the offending source line, truncated to
// maxCaretWidth measured in terminal display columns (not bytes or
// runes) via golang.org/x/text/width — a wide CJK character consumes two
// columns, so a naive len()-based truncation would misplace the caret on
// any line mixing wide and narrow runes.
func (p *Printer) printCaret(src string, line, col int) {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return
	}
	text := lines[line-1]
	truncated, caretCol := truncateToWidth(text, col, p.maxCaretWidth)
	fmt.Fprintf(p.w, "  %s\n", truncated)
	fmt.Fprintf(p.w, "  %s%s\n", strings.Repeat(" ", caretCol), p.bold("^"))
}

// truncateToWidth trims s so its display width fits max columns, keeping
// a window around caretCol (1-based) and returning the caret's new
// (width-measured) column inside the trimmed string.
func truncateToWidth(s string, caretCol, max int) (string, int) {
	runeWidth := func(r rune) int {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			return 2
		default:
			return 1
		}
	}
	runes := []rune(s)
	total := 0
	for _, r := range runes {
		total += runeWidth(r)
	}
	if total <= max {
		return s, caretColumnOf(runes, caretCol, runeWidth)
	}
	// Keep a window of `max` columns centered on the caret.
	start := caretCol - max/2
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	col := 0
	caretOut := 0
	for i, r := range runes {
		if i < start {
			continue
		}
		w := runeWidth(r)
		if col+w > max {
			break
		}
		if i+1 == caretCol {
			caretOut = col
		}
		b.WriteRune(r)
		col += w
	}
	return b.String(), caretOut
}

func caretColumnOf(runes []rune, caretCol int, runeWidth func(rune) int) int {
	col := 0
	for i, r := range runes {
		if i+1 == caretCol {
			return col
		}
		col += runeWidth(r)
	}
	return col
}
