package game

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ledgegame/ledge/internal/core"
	"github.com/ledgegame/ledge/internal/level"
)

// sourceFunc adapts a closure to level.Source.
type sourceFunc func(id string) (*level.Level, error)

func (f sourceFunc) Load(id string) (*level.Level, error) { return f(id) }

// staticSource always returns a copy of the same geometry.
func staticSource(lvl *level.Level) sourceFunc {
	return func(string) (*level.Level, error) {
		cp := *lvl
		return &cp, nil
	}
}

// testLevel builds a level with a wide floor platform under the default
// spawn so the player lands quickly.
func testLevel(name string) *level.Level {
	return &level.Level{
		Name:  name,
		Spawn: core.Vec{100, 240},
		Platforms: []level.Platform{
			{Rect: core.NewRect(-200, 300, 800, 24), Color: core.ColorGray},
		},
	}
}

func newTestSession(t *testing.T, src level.Source) *Session {
	t.Helper()
	s, err := NewSession(Config{Source: src, Level: "test.yaml"})
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	return s
}

// settle runs updates until the player lands.
func settle(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 120; i++ {
		s.Update(16 * time.Millisecond)
		if s.player().Grounded() {
			return
		}
	}
	t.Fatalf("player never landed: pos %v", s.player().Pos())
}

// recordRenderer records the draw sequence and can be told to fail.
type recordRenderer struct {
	w, h        int
	ops         []string
	rects       []core.Rect
	failPresent error
}

func newRecordRenderer() *recordRenderer {
	return &recordRenderer{w: 80, h: 24}
}

func (r *recordRenderer) Size() (int, int) { return r.w, r.h }

func (r *recordRenderer) Clear() error {
	r.ops = append(r.ops, "clear")
	return nil
}

func (r *recordRenderer) FillRect(rect core.Rect, _ core.Color) error {
	r.ops = append(r.ops, "rect")
	r.rects = append(r.rects, rect)
	return nil
}

func (r *recordRenderer) Present() error {
	r.ops = append(r.ops, "present")
	return r.failPresent
}

// fixedStick is a Stick with a constant deflection.
type fixedStick float64

func (s fixedStick) Axis() float64 { return float64(s) }

func TestNewSessionLoadFailure(t *testing.T) {
	src := sourceFunc(func(id string) (*level.Level, error) {
		return nil, errors.New("boom")
	})

	_, err := NewSession(Config{Source: src, Level: "broken.yaml"})
	if err == nil {
		t.Fatalf("NewSession succeeded, expected error")
	}
	if !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("error %q does not name the level", err)
	}
}

func TestSessionStartsRunning(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("start")))
	defer s.Close()

	if s.State() != StateRunning {
		t.Errorf("State() = %v, expected running", s.State())
	}
	if s.Done() {
		t.Errorf("Done() = true on a fresh session")
	}
}

func TestPauseResumeToggle(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("pause")))
	defer s.Close()

	if err := s.HandleEvent(KeyDownEvent{Key: KeyP}); err != nil {
		t.Fatalf("pause event: %v", err)
	}
	if s.State() != StatePaused {
		t.Fatalf("State() = %v, expected paused", s.State())
	}

	if err := s.HandleEvent(KeyDownEvent{Key: KeyP}); err != nil {
		t.Fatalf("resume event: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("State() = %v, expected running after resume", s.State())
	}
}

func TestPausedSessionIgnoresPlay(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("paused")))
	defer s.Close()
	settle(t, s)

	if err := s.HandleEvent(KeyDownEvent{Key: KeyP}); err != nil {
		t.Fatal(err)
	}

	before := s.player().Pos()

	// Jump and movement must have no effect while paused.
	if err := s.HandleEvent(KeyDownEvent{Key: KeySpace}); err != nil {
		t.Fatal(err)
	}
	s.HandleInput(KeyState{Right: true}, nil)
	s.Update(16 * time.Millisecond)

	if got := s.player().Pos(); got != before {
		t.Errorf("player moved while paused: %v -> %v", before, got)
	}

	// After resuming, the same inputs work again.
	if err := s.HandleEvent(KeyDownEvent{Key: KeyP}); err != nil {
		t.Fatal(err)
	}
	if err := s.HandleEvent(KeyDownEvent{Key: KeySpace}); err != nil {
		t.Fatal(err)
	}
	s.Update(16 * time.Millisecond)

	if got := s.player().Vel().Y(); got >= 0 {
		t.Errorf("vertical velocity = %g after resume+jump, expected upward", got)
	}
}

func TestQuitIsAbsorbing(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("quit")))
	defer s.Close()

	if err := s.HandleEvent(QuitEvent{}); err != nil {
		t.Fatal(err)
	}
	if !s.Done() {
		t.Fatalf("Done() = false after quit event")
	}

	// No event leaves the quit state, and none errors.
	for _, ev := range []Event{
		KeyDownEvent{Key: KeyP},
		KeyDownEvent{Key: KeySpace},
		KeyDownEvent{Key: KeyR},
		ButtonDownEvent{Button: JumpButton},
		QuitEvent{},
	} {
		if err := s.HandleEvent(ev); err != nil {
			t.Errorf("HandleEvent(%T) after quit = %v, expected nil", ev, err)
		}
	}
	if s.State() != StateQuit {
		t.Errorf("State() = %v, expected quit", s.State())
	}

	// Update and input are no-ops, render draws nothing.
	pos := s.player().Pos()
	s.HandleInput(KeyState{Left: true}, nil)
	s.Update(16 * time.Millisecond)
	if got := s.player().Pos(); got != pos {
		t.Errorf("player moved after quit: %v -> %v", pos, got)
	}

	r := newRecordRenderer()
	if err := s.Render(r); err != nil {
		t.Errorf("Render after quit = %v, expected nil", err)
	}
	if len(r.ops) != 0 {
		t.Errorf("Render after quit touched the backend: %v", r.ops)
	}
}

func TestGamepadButtonJumps(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("pad")))
	defer s.Close()
	settle(t, s)

	if err := s.HandleEvent(ButtonDownEvent{Button: JumpButton}); err != nil {
		t.Fatal(err)
	}
	if got := s.player().Vel().Y(); got >= 0 {
		t.Errorf("vertical velocity = %g after jump button, expected upward", got)
	}

	// Other buttons do nothing.
	s2 := newTestSession(t, staticSource(testLevel("pad2")))
	defer s2.Close()
	settle(t, s2)

	if err := s2.HandleEvent(ButtonDownEvent{Button: 3}); err != nil {
		t.Fatal(err)
	}
	if got := s2.player().Vel().Y(); got < 0 {
		t.Errorf("unmapped button caused a jump")
	}
}

func TestInputPriority(t *testing.T) {
	tests := []struct {
		name  string
		keys  KeyState
		stick Stick
		want  float64 // sign of the resulting horizontal velocity
	}{
		{"digital left wins over everything", KeyState{Left: true, Right: true}, fixedStick(1), -1},
		{"digital right beats stick", KeyState{Right: true}, fixedStick(-1), 1},
		{"stick left", KeyState{}, fixedStick(-0.4), -1},
		{"stick right", KeyState{}, fixedStick(0.7), 1},
		{"centered stick stops", KeyState{}, fixedStick(0), 0},
		{"no input stops", KeyState{}, nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, staticSource(testLevel("input")))
			defer s.Close()

			// Start from a moving state so "stop" is observable.
			s.player().MoveRight()

			s.HandleInput(tc.keys, tc.stick)

			got := s.player().Vel().X()
			switch {
			case tc.want < 0 && got >= 0:
				t.Errorf("vel.X = %g, expected negative", got)
			case tc.want > 0 && got <= 0:
				t.Errorf("vel.X = %g, expected positive", got)
			case tc.want == 0 && got != 0:
				t.Errorf("vel.X = %g, expected 0", got)
			}
		})
	}
}

func TestUpdateNonPositiveDeltaPanics(t *testing.T) {
	tests := []struct {
		name string
		dt   time.Duration
	}{
		{"zero", 0},
		{"negative", -5 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, staticSource(testLevel("dt")))
			defer s.Close()

			defer func() {
				if recover() == nil {
					t.Errorf("Update(%v) did not panic", tc.dt)
				}
			}()
			s.Update(tc.dt)
		})
	}

	// The contract holds even when paused.
	t.Run("paused", func(t *testing.T) {
		s := newTestSession(t, staticSource(testLevel("dt-paused")))
		defer s.Close()
		if err := s.HandleEvent(KeyDownEvent{Key: KeyP}); err != nil {
			t.Fatal(err)
		}

		defer func() {
			if recover() == nil {
				t.Errorf("Update(0) while paused did not panic")
			}
		}()
		s.Update(0)
	})
}

func TestRenderOrder(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("render")))
	defer s.Close()

	r := newRecordRenderer()
	if err := s.Render(r); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	// clear, player rect, one platform rect, present.
	want := []string{"clear", "rect", "rect", "present"}
	if len(r.ops) != len(want) {
		t.Fatalf("ops = %v, expected %v", r.ops, want)
	}
	for i := range want {
		if r.ops[i] != want[i] {
			t.Fatalf("ops = %v, expected %v", r.ops, want)
		}
	}
}

func TestRenderBackendFailure(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("renderfail")))
	defer s.Close()

	r := newRecordRenderer()
	r.failPresent = errors.New("surface lost")

	err := s.Render(r)
	if err == nil {
		t.Fatalf("Render succeeded, expected present failure")
	}
	if !strings.Contains(err.Error(), "present") {
		t.Errorf("error %q does not mention presenting", err)
	}
	// A render failure is not a state transition.
	if s.Done() {
		t.Errorf("render failure terminated the session")
	}
}

func TestReloadSwapsGeometry(t *testing.T) {
	loads := 0
	src := sourceFunc(func(id string) (*level.Level, error) {
		loads++
		lvl := testLevel("v1")
		if loads > 1 {
			lvl.Name = "v2"
			lvl.Platforms = append(lvl.Platforms, level.Platform{
				Rect: core.NewRect(0, 200, 60, 10), Color: core.ColorGray,
			})
		}
		return lvl, nil
	})

	s := newTestSession(t, src)
	defer s.Close()
	settle(t, s)

	posBefore := s.player().Pos()

	if err := s.HandleEvent(KeyDownEvent{Key: KeyR}); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if loads != 2 {
		t.Errorf("source loaded %d times, expected 2", loads)
	}
	if s.State() != StateRunning {
		t.Errorf("State() = %v after reload, expected running", s.State())
	}
	// The player is not recreated by a reload.
	if got := s.player().Pos(); got != posBefore {
		t.Errorf("player moved on reload: %v -> %v", posBefore, got)
	}

	snap := s.Snapshot()
	if snap.LevelName != "v2" || snap.Platforms != 2 {
		t.Errorf("snapshot after reload = %+v, expected the new geometry", snap)
	}
	if snap.Reloads != 1 {
		t.Errorf("Reloads = %d, expected 1", snap.Reloads)
	}
}

func TestReloadFailureTerminatesSession(t *testing.T) {
	loads := 0
	src := sourceFunc(func(id string) (*level.Level, error) {
		loads++
		if loads > 1 {
			return nil, errors.New("file vanished")
		}
		return testLevel("doomed"), nil
	})

	s := newTestSession(t, src)
	settle(t, s)

	err := s.HandleEvent(KeyDownEvent{Key: KeyR})
	if err == nil {
		t.Fatalf("reload succeeded, expected error")
	}
	if !strings.Contains(err.Error(), "test.yaml") || !strings.Contains(err.Error(), "file vanished") {
		t.Errorf("error %q should name the level and the cause", err)
	}

	if !s.Done() {
		t.Errorf("Done() = false after failed reload")
	}

	// Rendering after the failure touches nothing.
	r := newRecordRenderer()
	if err := s.Render(r); err != nil {
		t.Errorf("Render = %v, expected nil", err)
	}
	if len(r.ops) != 0 {
		t.Errorf("Render touched the backend after failed reload: %v", r.ops)
	}

	if got := s.Stats().Outcome; got != "reload-failed" {
		t.Errorf("Outcome = %q, expected reload-failed", got)
	}

	// Teardown stays safe with the cleared geometry slot.
	s.Close()
}

func TestCloseReleasesInReverseOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	s, err := NewSession(Config{
		Source: staticSource(testLevel("teardown")),
		Level:  "test.yaml",
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}

	s.Close()

	out := buf.String()
	order := []string{
		"released level id",
		"released camera",
		"released level geometry",
		"released player",
	}

	last := -1
	for _, msg := range order {
		idx := strings.Index(out, msg)
		if idx < 0 {
			t.Fatalf("log output missing %q:\n%s", msg, out)
		}
		if idx < last {
			t.Fatalf("release order wrong, %q came too early:\n%s", msg, out)
		}
		last = idx
	}
}

func TestSnapshotWhileRunning(t *testing.T) {
	s := newTestSession(t, staticSource(testLevel("snap")))
	defer s.Close()
	settle(t, s)

	snap := s.Snapshot()

	if snap.State != "running" {
		t.Errorf("State = %q, expected running", snap.State)
	}
	if snap.Level != "test.yaml" || snap.LevelName != "snap" {
		t.Errorf("snapshot level = %q/%q", snap.Level, snap.LevelName)
	}
	if !snap.Grounded {
		t.Errorf("Grounded = false after settling")
	}
	if snap.Platforms != 1 {
		t.Errorf("Platforms = %d, expected 1", snap.Platforms)
	}
	if snap.Tick == 0 {
		t.Errorf("Tick = 0 after updates")
	}
	// The camera follows the player once the simulation ran.
	if snap.CamX != snap.PlayerX+12 {
		t.Errorf("CamX = %g, expected player center %g", snap.CamX, snap.PlayerX+12)
	}
}
