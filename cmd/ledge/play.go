package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ledgegame/ledge/internal/config"
	"github.com/ledgegame/ledge/internal/game"
	"github.com/ledgegame/ledge/internal/level"
	"github.com/ledgegame/ledge/internal/platform/tui"
	"github.com/ledgegame/ledge/internal/spectate"
	"github.com/ledgegame/ledge/internal/storage"
)

var flagBroadcast string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play in the terminal",
	Long: `Play a level in the terminal. Without an argument a picker lists every
level in the level directory; with one, the named level starts directly.

Controls:
  A/D, Left/Right - Move
  Space/W/Up      - Jump
  R               - Reload the level file in place
  P/Esc           - Pause
  Q/Ctrl+C        - Quit

Level ids are paths relative to the level directory (--levels).

Examples:
  ledge play
  ledge play start.yaml
  ledge play start.yaml --fps 30
  ledge play start.yaml --broadcast :8080`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBroadcast, "broadcast", "", "Serve a browser spectator view on this address (e.g. :8080)")
}

func runPlay(cmd *cobra.Command, args []string) {
	tuning, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := openLogger()
	defer closeLog()

	// Open run history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	source := &level.FileSource{Root: flagLevelsDir}

	// Optional spectator server
	var hub *spectate.Hub
	if flagBroadcast != "" {
		srv := spectate.NewServer(spectate.Config{Addr: flagBroadcast, Logger: logger})
		go func() {
			if serveErr := srv.Start(); serveErr != nil {
				logger.Error("spectator server failed", "err", serveErr)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			//nolint:errcheck // Best-effort shutdown on the way out
			srv.Shutdown(ctx)
		}()
		hub = srv.Hub()
	}

	// Direct play: one level, then exit.
	if len(args) == 1 {
		summary, reloadErr, playErr := playLevel(args[0], source, tuning, store, hub, logger, width, height)
		if store != nil {
			store.Close()
		}
		if playErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", playErr)
			os.Exit(1)
		}
		fmt.Println(summary)
		if reloadErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", reloadErr)
			os.Exit(1)
		}
		return
	}

	// Picker loop
	status := ""
	for {
		result, pickErr := tui.RunPicker(source, store, width, height, status)
		if pickErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", pickErr)
			break
		}

		if result.Quit {
			break
		}

		if result.WantsRuns {
			levels, _ := source.List()
			goBack, runsErr := tui.RunRunsBrowser(store, levels, width, height)
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				status = ""
				continue // Back to picker
			}
			break // User quit from the run history
		}

		summary, reloadErr, playErr := playLevel(result.Level, source, tuning, store, hub, logger, width, height)
		switch {
		case playErr != nil:
			status = fmt.Sprintf("cannot start %s: %v", result.Level, playErr)
		case reloadErr != nil:
			status = fmt.Sprintf("session ended: %v", reloadErr)
		default:
			status = summary
		}

		// Loop back to the picker
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}

// playLevel runs one session in the terminal and summarizes the outcome.
// reloadErr is set when a failed hot reload killed the session.
func playLevel(id string, source level.Source, tuning config.Tuning, store *storage.Store, hub *spectate.Hub, logger *log.Logger, width, height int) (summary string, reloadErr, err error) {
	session, err := game.NewSession(game.Config{
		Source: source,
		Level:  id,
		Tuning: tuning,
		Logger: logger,
	})
	if err != nil {
		return "", nil, err
	}

	model, runErr := tui.Run(session, tui.Config{
		FPS:    flagFPS,
		Width:  width,
		Height: height,
		Store:  store,
		Hub:    hub,
		Logger: logger,
	})

	stats := session.Stats()
	session.Close()

	if runErr != nil {
		return "", nil, runErr
	}

	summary = fmt.Sprintf("last run: %s, %s after %s, %d jumps",
		stats.Level, stats.Outcome, stats.Duration.Round(time.Second), stats.Jumps)
	return summary, model.ReloadErr(), nil
}
