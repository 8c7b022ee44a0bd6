// Package level provides platform geometry and the data sources that
// produce it. The game session depends on the Source interface only, so
// tests can feed geometry from stubs and the session never touches the
// filesystem itself.
package level

import (
	"fmt"

	"github.com/ledgegame/ledge/internal/core"
)

// DefaultSpawn is the player start used when a level file does not set one.
var DefaultSpawn = core.Vec{100, 0}

// DefaultPlatformColor is used for platforms that do not set a color.
var DefaultPlatformColor = core.RGB(0x8a, 0x71, 0x5a)

// Platform is a single static solid in world space.
type Platform struct {
	Rect  core.Rect
	Color core.Color
}

// Level is parsed, validated level geometry. It is immutable once loaded;
// a hot reload produces a fresh Level rather than mutating the old one.
type Level struct {
	Name      string
	Spawn     core.Vec
	Platforms []Platform
}

// Validate checks the geometry for structural problems. Levels coming out
// of a Source are already validated; this is exported for the validate
// command and for hand-built levels in tests.
func (l *Level) Validate() error {
	if len(l.Platforms) == 0 {
		return fmt.Errorf("level: no platforms")
	}

	for i, p := range l.Platforms {
		if p.Rect.W <= 0 || p.Rect.H <= 0 {
			return fmt.Errorf("level: platform %d has non-positive size %gx%g", i, p.Rect.W, p.Rect.H)
		}
	}

	return nil
}

// SolidAt returns the rect of the first platform intersecting r. The
// second return is false when r touches nothing.
func (l *Level) SolidAt(r core.Rect) (core.Rect, bool) {
	for _, p := range l.Platforms {
		if p.Rect.Intersects(r) {
			return p.Rect, true
		}
	}
	return core.Rect{}, false
}
