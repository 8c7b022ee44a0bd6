package game

import (
	"github.com/ledgegame/ledge/internal/config"
	"github.com/ledgegame/ledge/internal/core"
	"github.com/ledgegame/ledge/internal/level"
)

// Player is the controllable body: an AABB with velocity, gravity and
// platform collision. It knows nothing about states, events or reloads;
// the session decides when it moves.
type Player struct {
	pos      core.Vec // top-left corner
	vel      core.Vec
	size     core.Vec
	grounded bool
	color    core.Color
	tuning   config.PlayerTuning
}

// NewPlayer creates a player with its top-left corner at spawn, at rest.
func NewPlayer(spawn core.Vec, tuning config.PlayerTuning) *Player {
	return &Player{
		pos:    spawn,
		size:   core.Vec{tuning.Width, tuning.Height},
		color:  core.ColorRed,
		tuning: tuning,
	}
}

// Jump launches the player upward if it is standing on something. Returns
// true when a jump actually happened.
func (p *Player) Jump() bool {
	if !p.grounded {
		return false
	}
	p.vel[1] = -p.tuning.JumpImpulse
	p.grounded = false
	return true
}

// MoveLeft sets horizontal velocity to full speed leftward.
func (p *Player) MoveLeft() {
	p.vel[0] = -p.tuning.MoveSpeed
}

// MoveRight sets horizontal velocity to full speed rightward.
func (p *Player) MoveRight() {
	p.vel[0] = p.tuning.MoveSpeed
}

// Stop zeroes horizontal velocity.
func (p *Player) Stop() {
	p.vel[0] = 0
}

// Update advances physics by dt seconds against the given geometry. Axes
// resolve separately: horizontal movement first, then gravity-driven
// vertical movement. Landing on a platform grounds the player; bumping a
// ceiling kills upward velocity. There is no floor below the level, the
// player can fall forever.
func (p *Player) Update(dt float64, lvl *level.Level) {
	p.vel[1] = core.MinF(p.vel.Y()+p.tuning.Gravity*dt, p.tuning.MaxFallSpeed)

	p.pos[0] += p.vel.X() * dt
	if hit, ok := lvl.SolidAt(p.Rect()); ok {
		if p.vel.X() > 0 {
			p.pos[0] = hit.X - p.size.X()
		} else if p.vel.X() < 0 {
			p.pos[0] = hit.Right()
		}
		p.vel[0] = 0
	}

	p.grounded = false
	p.pos[1] += p.vel.Y() * dt
	if hit, ok := lvl.SolidAt(p.Rect()); ok {
		if p.vel.Y() > 0 {
			p.pos[1] = hit.Y - p.size.Y()
			p.grounded = true
		} else if p.vel.Y() < 0 {
			p.pos[1] = hit.Bottom()
		}
		p.vel[1] = 0
	}
}

// Render draws the player through the camera.
func (p *Player) Render(r Renderer, cam *Camera) error {
	return cam.FillRect(r, p.Rect(), p.color)
}

// Rect returns the player's bounding box in world space.
func (p *Player) Rect() core.Rect {
	return core.Rect{X: p.pos.X(), Y: p.pos.Y(), W: p.size.X(), H: p.size.Y()}
}

// Pos returns the top-left corner.
func (p *Player) Pos() core.Vec {
	return p.pos
}

// Vel returns the current velocity.
func (p *Player) Vel() core.Vec {
	return p.vel
}

// Grounded reports whether the player is standing on a platform.
func (p *Player) Grounded() bool {
	return p.grounded
}

// Color returns the player's fill color.
func (p *Player) Color() core.Color {
	return p.color
}
