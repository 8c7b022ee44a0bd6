package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/ledgegame/ledge/internal/core"
	"github.com/ledgegame/ledge/internal/game"
	"github.com/ledgegame/ledge/internal/spectate"
	"github.com/ledgegame/ledge/internal/storage"
)

const (
	defaultFPS = 60

	// maxFrameDelta caps the simulated step after a stall (laptop
	// suspend, stopped process) so the player does not tunnel through
	// platforms on the first frame back.
	maxFrameDelta = 250 * time.Millisecond
)

// Config holds the knobs for a game model.
type Config struct {
	// FPS is the frame rate. 0 means 60.
	FPS int

	// Width and Height are the initial terminal dimensions; the first
	// WindowSizeMsg corrects them.
	Width, Height int

	// Store records finished runs. nil disables run history.
	Store *storage.Store

	// Hub receives a snapshot per frame for spectators. nil disables
	// broadcasting.
	Hub *spectate.Hub

	// Logger receives frame loop events. nil discards them.
	Logger *log.Logger

	// ExitWhenDone makes the program quit when the session terminates.
	// The SSH flow leaves it false and returns to the level picker
	// instead.
	ExitWhenDone bool
}

// Model is the Bubble Tea model driving one game session.
type Model struct {
	session      *game.Session
	renderer     *ScreenRenderer
	mapper       *KeyMapper
	keys         *KeyTracker
	store        *storage.Store
	hub          *spectate.Hub
	logger       *log.Logger
	fps          int
	exitWhenDone bool

	lastTick  time.Time
	reloadErr error
	runSaved  bool
	finished  bool
	quitting  bool
}

// NewModel creates a Bubble Tea model around an already created session.
// The caller keeps ownership of the session and closes it after the
// program finishes.
func NewModel(session *game.Session, cfg Config) Model {
	fps := cfg.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		session:      session,
		renderer:     NewScreenRenderer(width, height),
		mapper:       NewKeyMapper(),
		keys:         NewKeyTracker(),
		store:        cfg.Store,
		hub:          cfg.Hub,
		logger:       logger,
		fps:          fps,
		exitWhenDone: cfg.ExitWhenDone,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.renderer.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	// Movement keys feed the held-state tracker, everything else becomes
	// a session event.
	if m.keys.Press(msg, time.Now()) {
		return m, nil
	}

	ev := m.mapper.MapKey(msg)
	if ev == nil {
		return m, nil
	}

	if err := m.session.HandleEvent(ev); err != nil {
		// The only event that can fail is a reload, and a failed reload
		// terminates the session. The next tick winds the run down.
		m.reloadErr = err
		m.logger.Error("session terminated", "err", err)
	}

	return m, nil
}

// handleTick advances the session by one frame.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	now := time.Time(msg)

	if m.session.Done() {
		m.finishRun()
		m.finished = true
		if m.exitWhenDone {
			m.quitting = true
			return m, tea.Quit
		}
		// Stop ticking; the enclosing model takes over.
		return m, nil
	}

	// Step by wall-clock time so physics speed does not depend on the
	// frame rate. The first frame and clock jumps fall back to the
	// nominal step.
	dt := time.Second / time.Duration(m.fps)
	if !m.lastTick.IsZero() {
		if measured := now.Sub(m.lastTick); measured > 0 {
			dt = measured
		}
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	m.lastTick = now

	m.session.HandleInput(m.keys.State(now), nil)
	m.session.Update(dt)

	if err := m.session.Render(m.renderer); err != nil {
		m.logger.Error("render failed", "err", err)
	}
	m.drawHUD()

	if m.hub != nil {
		m.hub.Broadcast(m.session.Snapshot())
	}

	return m, tickCmd(m.fps)
}

// drawHUD overlays the status line and, when paused, the pause banner on
// the rendered frame.
func (m *Model) drawHUD() {
	s := m.renderer.Screen()
	snap := m.session.Snapshot()

	name := snap.LevelName
	if name == "" {
		name = snap.Level
	}
	hud := fmt.Sprintf(" %s  [%s]  reloads:%d ", name, snap.State, snap.Reloads)
	s.DrawText(0, 0, hud, core.ColorGray)

	if m.session.State() == game.StatePaused {
		boxW, boxH := 26, 4
		x := (s.Width() - boxW) / 2
		y := (s.Height() - boxH) / 2
		s.DrawRect(x, y, boxW, boxH, ' ', core.Color{})
		s.DrawBox(x, y, boxW, boxH, core.ColorYellow)
		s.DrawTextCentered(y+1, "PAUSED", core.ColorYellow)
		s.DrawTextCentered(y+2, "p: resume   q: quit", core.ColorGray)
	}
}

// finishRun records the ended session in the run history, once.
func (m *Model) finishRun() {
	if m.runSaved {
		return
	}
	m.runSaved = true

	stats := m.session.Stats()
	m.logger.Info("session over",
		"level", stats.Level,
		"outcome", stats.Outcome,
		"duration", stats.Duration.Round(time.Second),
		"jumps", stats.Jumps,
		"reloads", stats.Reloads,
	)

	if m.store == nil {
		return
	}
	if _, err := m.store.SaveRun(storage.Run{
		Level:    stats.Level,
		Outcome:  stats.Outcome,
		Duration: stats.Duration,
		Jumps:    stats.Jumps,
		Reloads:  stats.Reloads,
	}); err != nil {
		m.logger.Warn("could not record run", "error", err)
	}
}

// saveScreenshot saves the current frame to a file.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".ledge", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := filepath.Base(m.session.Snapshot().Level)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		name = "ledge"
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, timestamp))

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.renderer.Screen().String()), 0o600)
	m.logger.Debug("screenshot saved", "path", path)
}

// View renders the current frame to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderScreen(m.renderer.Screen())
}

// Session returns the session this model drives.
func (m Model) Session() *game.Session {
	return m.session
}

// Finished reports whether the session has terminated and its run has
// been recorded.
func (m Model) Finished() bool {
	return m.finished
}

// ReloadErr returns the error of the reload that killed the session, or
// nil if the session ended normally.
func (m Model) ReloadErr() error {
	return m.reloadErr
}

// Run drives a session in the local terminal until it terminates. The
// final model is returned so the caller can inspect the outcome.
func Run(session *game.Session, cfg Config) (Model, error) {
	cfg.ExitWhenDone = true
	model := NewModel(session, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}
	if m, ok := finalModel.(Model); ok {
		return m, nil
	}
	return model, nil
}
