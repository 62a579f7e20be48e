// Package repl implements "necro repl" (SPEC_FULL.md §1.4): a
// read-eval-print loop that pushes each typed-in expression through
// phases A-E only (reify, scope, rename/alias, depanalysis, infer) and
// reports its principal type, the way `ghci`'s `:type` or a plain
// top-level REPL would. It never monomorphizes or lowers to Core — a
// REPL line has no notion of a linked program to specialize against.
//
// Grounded on the teacher's internal/repl/repl.go: the github.com/
// peterh/liner read loop, history file, and color palette are kept
// close to verbatim (they are ambient REPL plumbing, not AILANG
// semantics); everything downstream of "parse a line" is rebuilt
// against internal/pipeline instead of the teacher's eval/elaborate/
// effects stack, since Necro stops at a typed Core IR rather than
// evaluating anything.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/diagnostic"
	"github.com/sunholo/ailang/internal/parsetree"
	"github.com/sunholo/ailang/internal/pipeline"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL is a stateless-between-lines type-checking loop: it carries no
// evaluator and no persistent bindings beyond what's shown via :let
// (history is kept for readline, not for rebinding later expressions).
type REPL struct {
	info    *config.CompileInfo
	printer *diagnostic.Printer
	history []string
	version string
}

// New creates a REPL against a default CompileInfo.
func New() *REPL { return NewWithVersion("") }

// NewWithVersion creates a REPL, stamping version into the banner.
func NewWithVersion(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	info := config.Default()
	info.CompilationPhase = config.PhaseInfer
	return &REPL{info: info, version: version, printer: diagnostic.NewPrinter(os.Stderr)}
}

func (r *REPL) prompt() string { return "necro> " }

// Start runs the read loop against in/out until EOF or :quit.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	r.printer = diagnostic.NewPrinter(out)

	historyFile := filepath.Join(os.TempDir(), ".necro_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(false)

	fmt.Fprintf(out, "%s %s\n", bold("Necro"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":help", ":quit", ":type", ":history", ":clear"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt(r.prompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if strings.HasPrefix(input, ":quit") || strings.HasPrefix(input, ":q") || strings.HasPrefix(input, ":exit") {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.HandleCommand(input, out)
			continue
		}

		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// evalLine parses one expression, runs it through phases A-E against a
// fresh NecroBase, and prints its principal type or the diagnostics that
// stopped it.
func (r *REPL) evalLine(input string, out io.Writer) {
	t, err := r.typeOf(input)
	if err != nil {
		if _, wasDiagnosed := err.(diagnosedErr); !wasDiagnosed {
			fmt.Fprintf(out, "%s %v\n", red("parse error:"), err)
		}
		return
	}
	fmt.Fprintf(out, "%s\n", t)
}

// diagnosedErr marks an error whose detail was already printed through
// r.printer, so evalLine doesn't repeat it in a second, plainer line.
type diagnosedErr struct{ n int }

func (e diagnosedErr) Error() string { return fmt.Sprintf("%d error(s)", e.n) }

// typeOf wraps expr in a synthetic top-level binding named "it" (the
// REPL's only declaration), compiles it through phase E, and reads back
// "it"'s inferred scheme.
func (r *REPL) typeOf(line string) (string, error) {
	expr, err := ReadExpr(line)
	if err != nil {
		return "", err
	}
	pm := &parsetree.Module{
		Decls: []parsetree.Decl{
			&parsetree.SimpleAssignment{Name: "it", Rhs: &parsetree.Rhs{Expr: expr}},
		},
	}

	res := pipeline.Compile(pm, "repl", r.info)
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			r.printer.Print(e, line)
		}
		return "", diagnosedErr{len(res.Errors)}
	}

	id, ok := res.Module.Lookup("it")
	if !ok {
		return "", fmt.Errorf("internal: \"it\" was not declared")
	}
	sym := res.Module.Get(id)
	scheme, ok := sym.Type.(interface{ String() string })
	if !ok || scheme == nil {
		return "", fmt.Errorf("internal: \"it\" has no inferred type")
	}
	return fmt.Sprintf("it :: %s", scheme.String()), nil
}
