package game

import "github.com/ledgegame/ledge/internal/core"

// Renderer is the drawing backend a frontend hands to Session.Render every
// frame. Coordinates passed to FillRect are screen-space: the camera has
// already projected world units onto the renderer's current size.
//
// Any method may fail (a terminal resize race, a lost window surface); the
// session aborts the frame on the first error and surfaces it.
type Renderer interface {
	// Size returns the current target dimensions in the backend's own
	// units (cells for a terminal, pixels for a window).
	Size() (w, h int)

	// Clear fills the target with the background color.
	Clear() error

	// FillRect fills a screen-space rectangle.
	FillRect(r core.Rect, c core.Color) error

	// Present commits the prepared frame to the screen.
	Present() error
}
