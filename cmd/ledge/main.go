// ledge is a small platformer that runs in the terminal, over SSH and in
// a desktop window. Levels are plain YAML files and can be reloaded
// mid-session while you edit them.
//
// Usage:
//
//	ledge play [level]       - Play in the terminal (level picker without an argument)
//	ledge desktop <level>    - Play in a desktop window
//	ledge levels             - List available levels
//	ledge runs               - Browse the run history
//	ledge validate <file>    - Check level files without playing them
//	ledge serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--db <path>       - Set run history database (default: ~/.ledge/runs.db)
//	--config <path>   - Set tuning config YAML
//	--levels <dir>    - Set level directory (default: levels)
//	--log-file <path> - Append logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS       int
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagLogFile   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledge",
	Short: "ledge - A tiny platformer for terminal, SSH and desktop",
	Long: `ledge is a platformer about standing on rectangles. It runs in your
terminal, over SSH for remote players, and in a desktop window.

Levels are YAML files. Edit one while playing and press R to reload it
in place: the player keeps their position, the new geometry appears
around them.

Available commands:
  play      - Play in the terminal (level picker without an argument)
  desktop   - Play in a desktop window
  levels    - Show all available levels
  runs      - Browse the run history
  validate  - Check level files without playing them
  serve     - Start SSH server for remote play

Examples:
  ledge play
  ledge play start.yaml
  ledge play start.yaml --broadcast :8080
  ledge desktop start.yaml
  ledge serve --ssh :2222
  ledge validate levels/start.yaml`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ledge/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "levels", "Directory with level files")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(desktopCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
}

// openLogger builds the logger for the interactive commands. Bubble Tea
// owns the terminal, so logs go to a file when requested and nowhere
// otherwise.
func openLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}
	}

	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "ledge",
	})
	return logger, func() { f.Close() }
}
