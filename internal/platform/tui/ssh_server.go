package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/ledgegame/ledge/internal/config"
	"github.com/ledgegame/ledge/internal/game"
	"github.com/ledgegame/ledge/internal/level"
	"github.com/ledgegame/ledge/internal/lifetime"
	"github.com/ledgegame/ledge/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ledge/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database.
	DBPath string

	// LevelsDir is the directory the picker lists levels from.
	LevelsDir string

	// Level, when set, drops connecting players straight into this level
	// instead of the picker.
	Level string

	// FPS is the frame rate for game sessions. 0 means 60.
	FPS int

	// Tuning holds the physics and camera settings for sessions.
	Tuning config.Tuning

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.ledge/runs.db",
		LevelsDir:   "levels",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server that serves the game over SSH. Every
// connection gets its own session; the run store is shared.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	source *level.FileSource
	logger *log.Logger
	lt     *lifetime.Tracker
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ledge-ssh",
	})

	// Server-scoped resources tear down in reverse order on shutdown.
	lt := lifetime.New()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		// Continue without storage
		store = nil
	} else {
		lt.Register(store, func(v any) {
			logger.Debug("released run store")
			v.(*storage.Store).Close()
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		source: &level.FileSource{Root: cfg.LevelsDir},
		logger: logger,
		lt:     lt,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			lt.Close()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".ledge", "host_key")
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		lt.Close()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		lt.Close()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	logger := s.logger.With("user", sshSession.User())

	model := NewSessionModel(SessionModelConfig{
		Store:        s.store,
		Source:       s.source,
		Tuning:       s.config.Tuning,
		Logger:       logger,
		FPS:          s.config.FPS,
		Width:        pty.Window.Width,
		Height:       pty.Window.Height,
		InitialLevel: s.config.Level,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server and releases its resources.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.lt.Close()
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sshScreen identifies which screen a connection is on.
type sshScreen int

const (
	screenPicker sshScreen = iota
	screenRuns
	screenGame
)

// SessionModelConfig holds the dependencies for a per-connection model.
type SessionModelConfig struct {
	Store        *storage.Store
	Source       *level.FileSource
	Tuning       config.Tuning
	Logger       *log.Logger
	FPS          int
	Width        int
	Height       int
	InitialLevel string
}

// SessionModel manages the flow of one SSH connection: level picker to
// game and back, with the run history browser on the side. Each finished
// game tears its session down and returns to a fresh picker.
type SessionModel struct {
	store  *storage.Store
	source *level.FileSource
	tuning config.Tuning
	logger *log.Logger
	fps    int
	width  int
	height int

	screen   sshScreen
	picker   PickerModel
	runs     RunsBrowserModel
	game     *Model
	status   string
	quitting bool
}

// NewSessionModel creates a per-connection model.
func NewSessionModel(cfg SessionModelConfig) SessionModel {
	m := SessionModel{
		store:  cfg.Store,
		source: cfg.Source,
		tuning: cfg.Tuning,
		logger: cfg.Logger,
		fps:    cfg.FPS,
		width:  cfg.Width,
		height: cfg.Height,
		screen: screenPicker,
	}
	m.picker = NewPickerModel(m.source, m.store, m.width, m.height, "")

	if cfg.InitialLevel != "" {
		m.startGame(cfg.InitialLevel)
	}

	return m
}

// startGame creates a session for the given level and switches to the
// game screen. On failure it stays on the picker with the error shown.
func (m *SessionModel) startGame(levelID string) tea.Cmd {
	sess, err := game.NewSession(game.Config{
		Source: m.source,
		Level:  levelID,
		Tuning: m.tuning,
		Logger: m.logger,
	})
	if err != nil {
		m.logger.Error("cannot start session", "level", levelID, "error", err)
		m.status = fmt.Sprintf("cannot start %s: %v", levelID, err)
		m.picker = NewPickerModel(m.source, m.store, m.width, m.height, m.status)
		m.screen = screenPicker
		return nil
	}

	gm := NewModel(sess, Config{
		FPS:    m.fps,
		Width:  m.width,
		Height: m.height,
		Store:  m.store,
		Logger: m.logger,
	})
	m.game = &gm
	m.screen = screenGame
	return m.game.Init()
}

// Init initializes the connection flow.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenGame && m.game != nil {
		return m.game.Init()
	}
	return m.picker.Init()
}

// Update handles messages for the connection.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenRuns:
		return m.updateRuns(msg)
	default:
		return m.updatePicker(msg)
	}
}

// updatePicker handles updates while on the level picker.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if picker, ok := newPicker.(PickerModel); ok {
		m.picker = picker
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picker.WantsRuns() {
		m.runs = NewRunsBrowserModel(m.store, m.picker.items, m.width, m.height)
		m.screen = screenRuns
		return m, m.runs.Init()
	}

	if selected := m.picker.Selected(); selected != "" {
		return m, m.startGame(selected)
	}

	return m, cmd
}

// updateRuns handles updates while on the run history browser.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newRuns, cmd := m.runs.Update(msg)
	if runs, ok := newRuns.(RunsBrowserModel); ok {
		m.runs = runs
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.runs.IsGoingBack() {
		m.screen = screenPicker
		m.picker = NewPickerModel(m.source, m.store, m.width, m.height, m.status)
		return m, m.picker.Init()
	}

	return m, cmd
}

// updateGame handles updates while in a game session.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gm, ok := newModel.(Model); ok {
		m.game = &gm
	}

	if m.game.Finished() {
		stats := m.game.Session().Stats()
		m.status = fmt.Sprintf("last run: %s, %s after %s, %d jumps",
			stats.Level, stats.Outcome, stats.Duration.Round(time.Second), stats.Jumps)
		if reloadErr := m.game.ReloadErr(); reloadErr != nil {
			m.status = fmt.Sprintf("session ended: %v", reloadErr)
		}

		m.game.Session().Close()
		m.game = nil
		m.screen = screenPicker
		m.picker = NewPickerModel(m.source, m.store, m.width, m.height, m.status)
		return m, m.picker.Init()
	}

	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
		return ""
	case screenRuns:
		return m.runs.View()
	default:
		return m.picker.View()
	}
}
