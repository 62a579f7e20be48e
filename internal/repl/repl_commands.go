package repl

import (
	"fmt"
	"io"
	"strings"
)

// HandleCommand processes a ":"-prefixed REPL command.
func (r *REPL) HandleCommand(cmd string, out io.Writer) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ":help", ":h":
		r.printHelp(out)

	case ":type", ":t":
		if len(parts) < 2 {
			fmt.Fprintln(out, "Usage: :type <expression>")
			return
		}
		r.evalLine(strings.Join(parts[1:], " "), out)

	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%4d  %s\n", i+1, h)
		}

	case ":clear":
		r.history = nil
		fmt.Fprintln(out, yellow("history cleared"))

	default:
		fmt.Fprintf(out, "%s unknown command %q (try :help)\n", red("Error:"), parts[0])
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Necro REPL commands"))
	fmt.Fprintln(out, "  :help, :h             show this help")
	fmt.Fprintln(out, "  :type, :t <expr>      infer and print an expression's type")
	fmt.Fprintln(out, "  :history              list this session's input")
	fmt.Fprintln(out, "  :clear                clear the input history")
	fmt.Fprintln(out, "  :quit, :q, :exit      leave the REPL")
	fmt.Fprintln(out)
	fmt.Fprintln(out, dim("Anything not starting with \":\" is type-checked through phases A-E"))
	fmt.Fprintln(out, dim("(reify, scope, rename/alias, dependency analysis, inference) and its"))
	fmt.Fprintln(out, dim("principal type is printed; no monomorphization or Core lowering runs."))
}
