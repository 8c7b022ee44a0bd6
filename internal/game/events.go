package game

// Event is a discrete input event drained from the host's backend queue.
// The set is sealed: hosts translate whatever their backend produces into
// one of the variants below and the session ignores anything it does not
// care about in its current state.
type Event interface {
	isEvent()
}

// QuitEvent reports a request to end the session: window close, ctrl+c,
// SSH disconnect.
type QuitEvent struct{}

// KeyDownEvent reports a symbolic key press. Frontends own the physical
// binding; the session only sees the symbol.
type KeyDownEvent struct {
	Key Key
}

// ButtonDownEvent reports a gamepad button press.
type ButtonDownEvent struct {
	Button int
}

func (QuitEvent) isEvent()       {}
func (KeyDownEvent) isEvent()    {}
func (ButtonDownEvent) isEvent() {}

// Key identifies the symbolic keys the session reacts to.
type Key int

const (
	// KeySpace makes the player jump.
	KeySpace Key = iota

	// KeyP toggles pause.
	KeyP

	// KeyR hot-reloads the level from its source.
	KeyR
)

// JumpButton is the gamepad button mapped to jump.
const JumpButton = 1
