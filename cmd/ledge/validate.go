package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgegame/ledge/internal/level"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check level files without playing them",
	Long: `Parse and validate level files. Each argument is a path to a level
file; ids relative to the level directory are not resolved here, since
validate is for the file you are editing.

Exits non-zero if any file fails.

Examples:
  ledge validate levels/start.yaml
  ledge validate levels/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) {
	// An empty root makes Load treat ids as plain paths.
	source := level.FileSource{}

	failed := false
	for _, path := range args {
		lvl, err := source.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}

		name := lvl.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s: ok - %s, %d platforms, spawn (%g, %g)\n",
			path, name, len(lvl.Platforms), lvl.Spawn.X(), lvl.Spawn.Y())
	}

	if failed {
		os.Exit(1)
	}
}
