package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ledgegame/ledge/internal/config"
	"github.com/ledgegame/ledge/internal/core"
	"github.com/ledgegame/ledge/internal/level"
	"github.com/ledgegame/ledge/internal/lifetime"
)

// Config carries everything a session needs. Source and Level are
// required; zero Tuning means config.Default() and nil Logger discards.
type Config struct {
	Source level.Source
	Level  string
	Tuning config.Tuning
	Logger *log.Logger
}

// Session is one playthrough of one level. It owns its resources through a
// lifetime tracker, registered in creation order: player, level geometry,
// camera, level id. Close releases them in reverse.
type Session struct {
	lt     *lifetime.Tracker
	source level.Source
	tuning config.Tuning
	logger *log.Logger

	hPlayer  lifetime.Handle
	hLevel   lifetime.Handle
	hCamera  lifetime.Handle
	hLevelID lifetime.Handle

	state        State
	tick         uint64
	jumps        int
	reloads      int
	reloadFailed bool
	started      time.Time
}

// NewSession loads the level and acquires the session's resources. On a
// load failure nothing is retained and the error is returned wrapped.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("game: no level source")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tuning := cfg.Tuning
	if tuning == (config.Tuning{}) {
		tuning = config.Default()
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("game: bad tuning: %w", err)
	}

	lvl, err := cfg.Source.Load(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("game: cannot load level %q: %w", cfg.Level, err)
	}

	s := &Session{
		lt:      lifetime.New(),
		source:  cfg.Source,
		tuning:  tuning,
		logger:  logger,
		state:   StateRunning,
		started: time.Now(),
	}

	s.hPlayer = s.lt.Register(NewPlayer(lvl.Spawn, tuning.Player), func(v any) {
		logger.Debug("released player", "pos", v.(*Player).Pos())
	})
	s.hLevel = s.lt.Register(lvl, func(v any) {
		l := v.(*level.Level)
		logger.Debug("released level geometry", "level", l.Name, "platforms", len(l.Platforms))
	})
	s.hCamera = s.lt.Register(NewCamera(core.Vec{}, tuning.Camera), func(v any) {
		logger.Debug("released camera", "center", v.(*Camera).Center())
	})
	s.hLevelID = s.lt.Register(cfg.Level, func(v any) {
		logger.Debug("released level id", "id", v.(string))
	})

	logger.Info("session created", "level", cfg.Level, "name", lvl.Name, "platforms", len(lvl.Platforms))

	return s, nil
}

// Resources are always re-fetched through the tracker so a reload is
// observed transparently. Nothing caches them across calls.

func (s *Session) player() *Player {
	return s.lt.Value(s.hPlayer).(*Player)
}

func (s *Session) geometry() *level.Level {
	v := s.lt.Value(s.hLevel)
	if v == nil {
		return nil
	}
	return v.(*level.Level)
}

func (s *Session) camera() *Camera {
	return s.lt.Value(s.hCamera).(*Camera)
}

func (s *Session) levelID() string {
	return s.lt.Value(s.hLevelID).(string)
}

// Update advances the simulation by dt. A non-positive dt is a contract
// violation in the host's frame loop and panics no matter the state.
// Paused and quit sessions skip simulation entirely.
func (s *Session) Update(dt time.Duration) {
	if dt <= 0 {
		panic(fmt.Sprintf("game: non-positive frame delta %v", dt))
	}

	if s.state != StateRunning {
		return
	}

	s.tick++
	p := s.player()
	p.Update(dt.Seconds(), s.geometry())
	s.camera().Focus(p.Rect().Center())
}

// Render draws the frame: clear, player, platforms, present. The paused
// state still renders (the frozen frame stays up); quit renders nothing
// and returns nil. The first backend error aborts the frame.
func (s *Session) Render(r Renderer) error {
	if s.state == StateQuit {
		return nil
	}

	if err := r.Clear(); err != nil {
		return fmt.Errorf("game: cannot clear frame: %w", err)
	}

	cam := s.camera()
	if err := s.player().Render(r, cam); err != nil {
		return fmt.Errorf("game: cannot draw player: %w", err)
	}

	for i, p := range s.geometry().Platforms {
		if err := cam.FillRect(r, p.Rect, p.Color); err != nil {
			return fmt.Errorf("game: cannot draw platform %d: %w", i, err)
		}
	}

	if err := r.Present(); err != nil {
		return fmt.Errorf("game: cannot present frame: %w", err)
	}

	return nil
}

// HandleEvent applies one discrete event. Which events matter depends on
// the state; everything else is ignored without error. The only failure
// mode is a reload that could not produce a level.
func (s *Session) HandleEvent(ev Event) error {
	switch s.state {
	case StateRunning:
		return s.handleRunningEvent(ev)
	case StatePaused:
		s.handlePausedEvent(ev)
	}
	// Quit absorbs everything.
	return nil
}

func (s *Session) handleRunningEvent(ev Event) error {
	switch ev := ev.(type) {
	case QuitEvent:
		s.quit()
	case KeyDownEvent:
		switch ev.Key {
		case KeySpace:
			s.jump()
		case KeyP:
			s.state = StatePaused
			s.logger.Debug("session paused", "tick", s.tick)
		case KeyR:
			return s.reload()
		}
	case ButtonDownEvent:
		if ev.Button == JumpButton {
			s.jump()
		}
	}
	return nil
}

func (s *Session) handlePausedEvent(ev Event) {
	switch ev := ev.(type) {
	case QuitEvent:
		s.quit()
	case KeyDownEvent:
		if ev.Key == KeyP {
			s.state = StateRunning
			s.logger.Debug("session resumed", "tick", s.tick)
		}
	}
}

func (s *Session) jump() {
	if s.player().Jump() {
		s.jumps++
	}
}

func (s *Session) quit() {
	s.state = StateQuit
	s.logger.Info("session quit", "tick", s.tick)
}

// reload re-parses the level from its source and swaps the geometry under
// its unchanged handle. The player and camera are untouched, so position
// and view survive the swap. On failure the geometry slot is cleared, the
// session quits and the error is surfaced; there is no rollback or retry.
func (s *Session) reload() error {
	id := s.levelID()

	fresh, err := s.source.Load(id)
	if err != nil {
		s.lt.Reset(s.hLevel, nil)
		s.state = StateQuit
		s.reloadFailed = true
		s.logger.Error("level reload failed", "level", id, "err", err)
		return fmt.Errorf("game: cannot reload level %q: %w", id, err)
	}

	s.lt.Reset(s.hLevel, fresh)
	s.reloads++
	s.logger.Info("level reloaded", "level", id, "platforms", len(fresh.Platforms))

	return nil
}

// HandleInput applies the held-input snapshot. Exactly one movement
// decision is made per call, first match wins: digital left, digital
// right, stick left, stick right, stop. Paused and quit sessions ignore
// input.
func (s *Session) HandleInput(keys KeyState, stick Stick) {
	if s.state != StateRunning {
		return
	}

	p := s.player()
	switch {
	case keys.Left:
		p.MoveLeft()
	case keys.Right:
		p.MoveRight()
	case stick != nil && stick.Axis() < 0:
		p.MoveLeft()
	case stick != nil && stick.Axis() > 0:
		p.MoveRight()
	default:
		p.Stop()
	}
}

// Done reports whether the session reached its terminal state.
func (s *Session) Done() bool {
	return s.state == StateQuit
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Close releases every owned resource in reverse acquisition order. It
// must be called exactly once; the host owns that discipline.
func (s *Session) Close() {
	s.logger.Info("session closed",
		"duration", time.Since(s.started).Round(time.Millisecond),
		"jumps", s.jumps,
		"reloads", s.reloads)
	s.lt.Close()
}
