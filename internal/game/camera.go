package game

import (
	"github.com/ledgegame/ledge/internal/config"
	"github.com/ledgegame/ledge/internal/core"
)

// Camera owns the viewport: a world-space center plus the extent of world
// the view frames. Everything the session draws goes through it, so
// entities never know about screen sizes or aspect ratios.
type Camera struct {
	center core.Vec
	view   core.Vec
}

// NewCamera creates a camera centered on the given world point.
func NewCamera(center core.Vec, cfg config.CameraTuning) *Camera {
	return &Camera{
		center: center,
		view:   core.Vec{cfg.ViewW, cfg.ViewH},
	}
}

// Focus recenters the view on a world point. The follow is hard: no lag,
// no easing.
func (c *Camera) Focus(target core.Vec) {
	c.center = target
}

// Center returns the current world-space center.
func (c *Camera) Center() core.Vec {
	return c.center
}

// View returns the extent of world the camera frames, in world units.
func (c *Camera) View() core.Vec {
	return c.view
}

// Project maps a world rectangle to screen space for a target of the given
// size. Each axis scales independently, so squashed terminal cells and
// square window pixels both come out right.
func (c *Camera) Project(world core.Rect, w, h int) core.Rect {
	sx := float64(w) / c.view.X()
	sy := float64(h) / c.view.Y()

	return core.Rect{
		X: (world.X-c.center.X())*sx + float64(w)/2,
		Y: (world.Y-c.center.Y())*sy + float64(h)/2,
		W: world.W * sx,
		H: world.H * sy,
	}
}

// FillRect projects a world rectangle onto the renderer and fills it.
func (c *Camera) FillRect(r Renderer, world core.Rect, col core.Color) error {
	w, h := r.Size()
	return r.FillRect(c.Project(world, w, h), col)
}
