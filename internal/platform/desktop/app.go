// Package desktop hosts a session in a native window through Ebitengine.
// It is the pixel twin of the terminal frontend: same session, same
// camera, a real gamepad instead of key-repeat heuristics.
package desktop

import (
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ledgegame/ledge/internal/game"
	"github.com/ledgegame/ledge/internal/spectate"
	"github.com/ledgegame/ledge/internal/storage"
)

const (
	defaultWidth  = 960
	defaultHeight = 540

	// maxFrameDelta caps the simulated step after a stall so the player
	// does not tunnel through platforms on the first frame back.
	maxFrameDelta = 250 * time.Millisecond

	// stickDeadZone is the deflection below which the left stick reads
	// as centered.
	stickDeadZone = 0.25
)

// Config holds the knobs for the desktop host.
type Config struct {
	// Width and Height are the logical window size in pixels. Zero
	// means 960x540.
	Width, Height int

	// Title is the window title. Empty means "ledge".
	Title string

	// Store records finished runs. nil disables run history.
	Store *storage.Store

	// Hub receives a snapshot per frame for spectators. nil disables
	// broadcasting.
	Hub *spectate.Hub

	// Logger receives frame loop events. nil discards them.
	Logger *log.Logger
}

// App is the ebiten game driving one session.
type App struct {
	session  *game.Session
	renderer *ImageRenderer
	store    *storage.Store
	hub      *spectate.Hub
	logger   *log.Logger

	width, height int
	title         string

	pads      []ebiten.GamepadID
	stick     *gamepadStick
	lastFrame time.Time
	reloadErr error
	runSaved  bool
}

// NewApp creates the desktop host around an already created session.
// The caller keeps ownership of the session and closes it after the
// window closes.
func NewApp(session *game.Session, cfg Config) *App {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	title := cfg.Title
	if title == "" {
		title = "ledge"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &App{
		session:  session,
		renderer: &ImageRenderer{},
		store:    cfg.Store,
		hub:      cfg.Hub,
		logger:   logger,
		width:    width,
		height:   height,
		title:    title,
		stick:    &gamepadStick{},
	}
}

// Update advances the session by one frame.
func (a *App) Update() error {
	if a.session.Done() {
		a.finishRun()
		return ebiten.Termination
	}

	if ebiten.IsWindowBeingClosed() {
		a.handleEvent(game.QuitEvent{})
	}

	a.pollKeys()
	a.pollGamepad()

	// Step by wall-clock time; the first frame falls back to the
	// nominal 60Hz step and coarse clocks can report the same instant
	// twice, so the delta is clamped to stay positive.
	now := time.Now()
	dt := time.Second / 60
	if !a.lastFrame.IsZero() {
		dt = now.Sub(a.lastFrame)
	}
	if dt < time.Millisecond {
		dt = time.Millisecond
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	a.lastFrame = now

	a.session.HandleInput(a.keyState(), a.currentStick())
	a.session.Update(dt)

	if a.hub != nil {
		a.hub.Broadcast(a.session.Snapshot())
	}

	return nil
}

// pollKeys turns this frame's key presses into session events.
func (a *App) pollKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		a.handleEvent(game.QuitEvent{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		a.handleEvent(game.KeyDownEvent{Key: game.KeySpace})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.handleEvent(game.KeyDownEvent{Key: game.KeyP})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.handleEvent(game.KeyDownEvent{Key: game.KeyR})
	}
}

// pollGamepad reads the first standard-layout gamepad: bottom face
// button jumps, the left stick steers.
func (a *App) pollGamepad() {
	a.pads = ebiten.AppendGamepadIDs(a.pads[:0])
	a.stick.active = false

	for _, id := range a.pads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			a.handleEvent(game.ButtonDownEvent{Button: game.JumpButton})
		}
		a.stick.active = true
		a.stick.value = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		break
	}
}

func (a *App) keyState() game.KeyState {
	return game.KeyState{
		Left:  ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}
}

func (a *App) currentStick() game.Stick {
	if !a.stick.active {
		return nil
	}
	return a.stick
}

func (a *App) handleEvent(ev game.Event) {
	if err := a.session.HandleEvent(ev); err != nil {
		// The only event that can fail is a reload, and a failed reload
		// terminates the session. The next Update winds the run down.
		a.reloadErr = err
		a.logger.Error("session terminated", "err", err)
	}
}

// finishRun records the ended session in the run history, once.
func (a *App) finishRun() {
	if a.runSaved {
		return
	}
	a.runSaved = true

	stats := a.session.Stats()
	a.logger.Info("session over",
		"level", stats.Level,
		"outcome", stats.Outcome,
		"duration", stats.Duration.Round(time.Second),
		"jumps", stats.Jumps,
		"reloads", stats.Reloads,
	)

	if a.store == nil {
		return
	}
	if _, err := a.store.SaveRun(storage.Run{
		Level:    stats.Level,
		Outcome:  stats.Outcome,
		Duration: stats.Duration,
		Jumps:    stats.Jumps,
		Reloads:  stats.Reloads,
	}); err != nil {
		a.logger.Warn("could not record run", "error", err)
	}
}

// Draw renders the current frame.
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.SetTarget(screen)
	if err := a.session.Render(a.renderer); err != nil {
		a.logger.Error("render failed", "err", err)
	}
	a.drawHUD(screen)
}

// drawHUD overlays the status line and, when paused, a dimmed banner.
func (a *App) drawHUD(screen *ebiten.Image) {
	snap := a.session.Snapshot()

	name := snap.LevelName
	if name == "" {
		name = snap.Level
	}
	ebitenutil.DebugPrintAt(screen,
		name+"  ["+snap.State+"]", 8, 8)

	if a.session.State() == game.StatePaused {
		w, h := a.renderer.Size()
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h),
			color.RGBA{A: 0x80}, false)
		ebitenutil.DebugPrintAt(screen, "PAUSED", w/2-20, h/2-10)
		ebitenutil.DebugPrintAt(screen, "P: resume   Q: quit", w/2-60, h/2+6)
	}
}

// Layout returns the fixed logical screen size; ebiten scales it to the
// window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// ReloadErr returns the error of the reload that killed the session, or
// nil if the session ended normally.
func (a *App) ReloadErr() error {
	return a.reloadErr
}

// gamepadStick adapts the left stick to the session's analog input.
// Deflections inside the dead zone read as centered.
type gamepadStick struct {
	active bool
	value  float64
}

func (s *gamepadStick) Axis() float64 {
	if s.value > -stickDeadZone && s.value < stickDeadZone {
		return 0
	}
	return s.value
}

// RunWindow opens the window and drives the app until the session
// terminates or the window closes.
func RunWindow(app *App) error {
	ebiten.SetWindowSize(app.width, app.height)
	ebiten.SetWindowTitle(app.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	return ebiten.RunGame(app)
}
