package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgegame/ledge/internal/config"
	"github.com/ledgegame/ledge/internal/game"
	"github.com/ledgegame/ledge/internal/level"
	"github.com/ledgegame/ledge/internal/platform/desktop"
	"github.com/ledgegame/ledge/internal/spectate"
	"github.com/ledgegame/ledge/internal/storage"
)

var (
	flagWindowW int
	flagWindowH int
)

var desktopCmd = &cobra.Command{
	Use:   "desktop <level>",
	Short: "Play in a desktop window",
	Long: `Play a level in a native window instead of the terminal. The same
session runs behind it; only the pixels differ.

Controls:
  A/D, Left/Right - Move (or the gamepad left stick)
  Space/W/Up      - Jump (or the bottom face button)
  R               - Reload the level file in place
  P/Esc           - Pause
  Q               - Quit

Examples:
  ledge desktop start.yaml
  ledge desktop start.yaml --width 1280 --height 720
  ledge desktop start.yaml --broadcast :8080`,
	Args: cobra.ExactArgs(1),
	Run:  runDesktop,
}

func init() {
	desktopCmd.Flags().IntVar(&flagWindowW, "width", 960, "Window width in pixels")
	desktopCmd.Flags().IntVar(&flagWindowH, "height", 540, "Window height in pixels")
	desktopCmd.Flags().StringVar(&flagBroadcast, "broadcast", "", "Serve a browser spectator view on this address (e.g. :8080)")
}

func runDesktop(cmd *cobra.Command, args []string) {
	tuning, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := openLogger()
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		store = nil
	}

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

	source := &level.FileSource{Root: flagLevelsDir}

	session, err := game.NewSession(game.Config{
		Source: source,
		Level:  args[0],
		Tuning: tuning,
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}

	app := desktop.NewApp(session, desktop.Config{
		Width:  flagWindowW,
		Height: flagWindowH,
		Title:  "ledge",
		Store:  store,
		Hub:    hub,
		Logger: logger,
	})

	runErr := desktop.RunWindow(app)

	stats := session.Stats()
	session.Close()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	fmt.Printf("last run: %s, %s after %s, %d jumps\n",
		stats.Level, stats.Outcome, stats.Duration.Round(time.Second), stats.Jumps)
	if reloadErr := app.ReloadErr(); reloadErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", reloadErr)
		os.Exit(1)
	}
}
