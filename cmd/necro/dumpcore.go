package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/pipeline"
)

var dumpCoreCmd = &cobra.Command{
	Use:   "dump-core <arena-file>",
	Short: "Compile through phase K and print the final Core IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpCore,
}

func init() {
	dumpCoreCmd.Flags().String("module", "main", "name of the user module being compiled")
}

func runDumpCore(cmd *cobra.Command, args []string) error {
	info, err := loadConfig(cmd)
	if err != nil {
		return err
	}
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
	if len(res.Errors) > 0 {
		return fmt.Errorf("necro: %s", res.Summary())
	}
	if res.Core == nil {
		return fmt.Errorf("necro: %s", res.Summary())
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Core.String())
	return nil
}
