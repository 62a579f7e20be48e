package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check <arena-file>",
	Short: "Run inference (phases A-E) and report diagnostics without emitting Core",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("module", "main", "name of the user module being compiled")
}

func runCheck(cmd *cobra.Command, args []string) error {
	info, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// check never runs past inference — it has nothing to say about
	// monomorphization or Core, regardless of what --config's own
	// compilation_phase requests.
	info.CompilationPhase = config.PhaseInfer

	modName, err := cmd.Flags().GetString("module")
	if err != nil {
		return err
	}

	pm, err := loadArena(args[0])
	if err != nil {
		return err
	}

	res := pipeline.Compile(pm, modName, info)

	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		printer.Print(e, "")
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
	if len(res.Errors) > 0 {
		return fmt.Errorf("necro: check failed")
	}
	return nil
}
