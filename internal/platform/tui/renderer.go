package tui

import (
	"math"

	"github.com/ledgegame/ledge/internal/core"
)

// fillRune is what solid rectangles are drawn with.
const fillRune = '█'

// ScreenRenderer adapts a Screen cell buffer to the session's drawing
// interface. Screen-space rectangles are snapped to whole cells; anything
// visible keeps at least one cell so thin platforms do not vanish on
// small terminals.
type ScreenRenderer struct {
	screen *Screen
}

// NewScreenRenderer creates a renderer over a fresh screen buffer.
func NewScreenRenderer(width, height int) *ScreenRenderer {
	return &ScreenRenderer{screen: NewScreen(width, height)}
}

// Screen exposes the underlying buffer so the model can overlay HUD text
// and stringify the frame.
func (r *ScreenRenderer) Screen() *Screen {
	return r.screen
}

// Resize adjusts the buffer to a new terminal size.
func (r *ScreenRenderer) Resize(width, height int) {
	r.screen.Resize(width, height)
}

// Size returns the buffer dimensions in cells.
func (r *ScreenRenderer) Size() (int, int) {
	return r.screen.Width(), r.screen.Height()
}

// Clear blanks the buffer.
func (r *ScreenRenderer) Clear() error {
	r.screen.Clear()
	return nil
}

// FillRect fills the cells covered by a screen-space rectangle.
func (r *ScreenRenderer) FillRect(rect core.Rect, c core.Color) error {
	if rect.W <= 0 || rect.H <= 0 {
		return nil
	}

	x0 := int(math.Round(rect.X))
	y0 := int(math.Round(rect.Y))
	x1 := int(math.Round(rect.X + rect.W))
	y1 := int(math.Round(rect.Y + rect.H))

	// Sub-cell rects still occupy one cell.
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	r.screen.DrawRect(x0, y0, x1-x0, y1-y0, fillRune, c)
	return nil
}

// Present is a no-op: Bubble Tea pulls the finished frame from the buffer
// through View after the tick that drew it.
func (r *ScreenRenderer) Present() error {
	return nil
}
