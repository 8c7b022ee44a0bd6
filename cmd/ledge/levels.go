package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgegame/ledge/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long:  `Shows every level file found in the level directory.`,
	Run:   runLevels,
}

func runLevels(cmd *cobra.Command, args []string) {
	source := level.FileSource{Root: flagLevelsDir}

	ids, err := source.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(ids) == 0 {
		fmt.Printf("No levels found in %s.\n", flagLevelsDir)
		return
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, id := range ids {
		if len(id) > maxIDLen {
			maxIDLen = len(id)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "ID", "Platforms", "Name")
	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "--", "---------", "----")

	// Print levels; broken files are listed with their problem instead
	// of being hidden.
	for _, id := range ids {
		lvl, loadErr := source.Load(id)
		if loadErr != nil {
			fmt.Printf("  %-*s  %-10s  (invalid: %v)\n", maxIDLen, id, "-", loadErr)
			continue
		}
		fmt.Printf("  %-*s  %-10d  %s\n", maxIDLen, id, len(lvl.Platforms), lvl.Name)
	}

	fmt.Println()
	fmt.Println("Run 'ledge play <id>' to play a level.")
}
