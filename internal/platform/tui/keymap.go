package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgegame/ledge/internal/game"
)

// keyHold is how long a movement key counts as held after its last
// press. Terminals deliver auto-repeats rather than release events, so a
// key is considered down until its repeats stop arriving.
const keyHold = 150 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to session events.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a session event. Movement keys are
// not events; they go through the KeyTracker. Returns nil for keys the
// session has no use for.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) game.Event {
	switch msg.String() {
	case "ctrl+c", "q":
		return game.QuitEvent{}
	case " ", "up", "w":
		return game.KeyDownEvent{Key: game.KeySpace}
	case "p", "esc":
		return game.KeyDownEvent{Key: game.KeyP}
	case "r":
		return game.KeyDownEvent{Key: game.KeyR}
	}
	return nil
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionRuns
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionRuns
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}

// KeyTracker derives held key state from press timestamps. The session
// wants "is left held right now", and a terminal can only answer with the
// stream of presses and auto-repeats; each press keeps the key held for
// keyHold.
type KeyTracker struct {
	left  time.Time
	right time.Time
}

// NewKeyTracker creates an empty tracker.
func NewKeyTracker() *KeyTracker {
	return &KeyTracker{}
}

// Press records a movement key press at the given time. Returns true if
// the key was a movement key and has been consumed.
func (t *KeyTracker) Press(msg tea.KeyMsg, now time.Time) bool {
	switch msg.String() {
	case "a", "left":
		t.left = now
		return true
	case "d", "right":
		t.right = now
		return true
	}
	return false
}

// State reports which movement keys count as held at the given time.
func (t *KeyTracker) State(now time.Time) game.KeyState {
	return game.KeyState{
		Left:  !t.left.IsZero() && now.Sub(t.left) < keyHold,
		Right: !t.right.IsZero() && now.Sub(t.right) < keyHold,
	}
}
