package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/diagnostic"
	"github.com/sunholo/ailang/internal/parsetree"
)

// loadConfig resolves --config into a CompileInfo, falling back to
// config.Default() when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.CompileInfo, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// loadArena opens path and decodes the gob-encoded parse-tree arena the
// (out-of-scope) parser produced (internal/parsetree.Decode).
func loadArena(path string) (*parsetree.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("necro: open arena %s: %w", path, err)
	}
	defer f.Close()
	return parsetree.Decode(f)
}

// newPrinter builds a diagnostic.Printer honoring --no-color.
func newPrinter(cmd *cobra.Command) (*diagnostic.Printer, error) {
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}
	p := diagnostic.NewPrinter(os.Stderr)
	if noColor {
		p.DisableColor()
	}
	return p, nil
}
