// Command necro is the Necro compiler driver: it loads a parse-tree arena
// (the out-of-scope parser's output, spec.md §1/§6), runs it through
// internal/pipeline's phases A-K, and reports diagnostics or emits a Core
// artifact depending on the subcommand.
//
// Grounded on _examples/vovakirdan-surge/cmd/surge's cobra root command +
// one-file-per-subcommand layout; the teacher's own cmd/ailang/main.go
// uses the stdlib flag package with a single giant switch, which doesn't
// generalize cleanly to three independent subcommands with their own
// flag sets.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by -ldflags at release build time; "dev" otherwise.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "necro",
	Short:   "Necro compiler front-end/middle-end driver",
	Long:    "necro drives a Necro parse-tree arena through reification, inference, monomorphization, Core translation, defunctionalization, and state analysis.",
	Version: Version,
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCoreCmd)
	rootCmd.AddCommand(replCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a YAML CompileInfo config (see internal/config)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored diagnostic output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
