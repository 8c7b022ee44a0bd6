package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ledgegame/ledge/internal/level"
	"github.com/ledgegame/ledge/internal/platform/tui"
	"github.com/ledgegame/ledge/internal/storage"
)

var (
	flagRunsPlain bool
	flagRunsLevel string
	flagRunsLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse the run history",
	Long: `Show past runs: which level, how the session ended, how long it lasted
and how many jumps and reloads it took.

By default an interactive browser opens. With --plain the runs are
printed to stdout instead, which is handy for piping.

Examples:
  ledge runs
  ledge runs --plain
  ledge runs --plain --level start.yaml --limit 5`,
	Run: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsPlain, "plain", false, "Print runs to stdout instead of the interactive browser")
	runsCmd.Flags().StringVar(&flagRunsLevel, "level", "", "Only show runs of this level (plain mode)")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to print (plain mode)")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunsPlain {
		printRuns(store)
		return
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The sidebar filter lists the known levels; a missing directory just
	// means no filters besides "all".
	levels, _ := level.FileSource{Root: flagLevelsDir}.List()

	if _, err := tui.RunRunsBrowser(store, levels, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRuns(store *storage.Store) {
	var (
		runs []storage.Run
		err  error
	)
	if flagRunsLevel != "" {
		runs, err = store.LevelRuns(flagRunsLevel, flagRunsLimit)
	} else {
		runs, err = store.RecentRuns(flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ledge play <level>' to start the history!")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-24s  %-13s  %-8s  %-6s  %s\n", "When", "Level", "Outcome", "Time", "Jumps", "Reloads")
	fmt.Printf("  %-16s  %-24s  %-13s  %-8s  %-6s  %s\n", "----", "-----", "-------", "----", "-----", "-------")

	// Print runs
	for _, r := range runs {
		fmt.Printf("  %-16s  %-24s  %-13s  %-8s  %-6d  %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Level,
			r.Outcome,
			r.Duration.Round(time.Second).String(),
			r.Jumps,
			r.Reloads,
		)
	}
}
