package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive type-checking REPL (phases A-E only)",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	repl.NewWithVersion(Version).Start(os.Stdin, cmd.OutOrStdout())
	return nil
}
