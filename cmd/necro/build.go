package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/coreartifact"
	"github.com/sunholo/ailang/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build <arena-file>",
	Short: "Compile a parse-tree arena through phases A-K and write a .ncore artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("out", "", "output .ncore path (default: <arena-file>.ncore)")
	buildCmd.Flags().String("module", "main", "name of the user module being compiled")
}

func runBuild(cmd *cobra.Command, args []string) error {
	info, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	modName, err := cmd.Flags().GetString("module")
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		out = args[0] + ".ncore"
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
	if len(res.Errors) > 0 {
		return fmt.Errorf("necro: %s", res.Summary())
	}
	if res.Core == nil {
		return fmt.Errorf("necro: %s (no Core program produced — check --config's compilation_phase)", res.Summary())
	}

	artifact := coreartifact.Build(res.Core)
	if err := coreartifact.WriteFile(out, artifact); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Summary(), out)
	return nil
}
