// Package game implements the session controller: a single playthrough of
// one level, owning the player, the level geometry, the camera and the
// copy of the level id used for hot reloads. All owned resources live in a
// lifetime.Tracker so teardown releases them in reverse acquisition order.
//
// The session consumes three narrow collaborator interfaces: Renderer
// (drawing backend), level.Source (geometry) and Stick (optional analog
// input). Frontends implement them; the session never imports a frontend.
//
// Sessions are not safe for concurrent use. A host drives one session from
// one loop: drain events, feed input, update, render.
package game

// State is the session's lifecycle state. It gates every per-frame
// operation.
type State int

const (
	// StateRunning is normal play: simulation advances, input steers the
	// player, events are handled in full.
	StateRunning State = iota

	// StatePaused freezes the simulation. Rendering continues (the frozen
	// frame stays visible); only quit and resume events are honored.
	StatePaused

	// StateQuit is terminal and absorbing. Nothing transitions out of it
	// and every operation becomes a no-op.
	StateQuit
)

// String returns the state name for logs and snapshots.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}
