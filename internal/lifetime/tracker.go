// Package lifetime provides an ordered registry of resources paired with
// their release operations. Resources are released in strict reverse
// registration order on teardown, which lets a session acquire resources
// top-down and guarantee dependents are released before their dependencies.
//
// A single slot can be replaced in place with Reset, keeping its position
// and handle. That is the mechanism behind hot level reload: the level
// geometry is swapped under a stable handle while every other resource
// stays untouched.
//
// The tracker is not safe for concurrent use. Hosts drive it from a single
// loop, same as the session that owns it.
package lifetime

import "fmt"

// Handle identifies a tracked entry. It stays valid across Reset calls on
// the same entry (the occupant changes, the handle does not) and becomes
// dead only when the entry is cleared or the tracker is closed.
type Handle int

// ReleaseFunc releases a resource. It is bound once at Register time and
// applied to whichever value occupies the slot when release happens, so
// after a Reset the replacement is released with the original operation.
type ReleaseFunc func(value any)

type entry struct {
	value   any
	release ReleaseFunc
	live    bool
}

// Tracker is an ordered resource registry. The zero value is not usable;
// call New.
type Tracker struct {
	entries []entry
	closed  bool
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Register appends a resource and its release operation, returning a handle
// for later access. release may be nil for plain values that need no
// cleanup (they still occupy a position in the teardown order).
func (t *Tracker) Register(value any, release ReleaseFunc) Handle {
	t.mustBeOpen("Register")

	t.entries = append(t.entries, entry{
		value:   value,
		release: release,
		live:    true,
	})

	return Handle(len(t.entries) - 1)
}

// Value returns the current occupant of the entry, or nil if the entry was
// cleared by a failed replacement. Callers must not hold the returned value
// across a Reset of the same entry; re-fetch it instead.
func (t *Tracker) Value(h Handle) any {
	t.mustBeOpen("Value")
	t.mustBeInRange(h, "Value")

	e := t.entries[h]
	if !e.live {
		return nil
	}

	return e.value
}

// Reset replaces the occupant of a live entry in place: the stored release
// operation runs on the current occupant, then value is stored at the same
// position under the same handle. Entries before and after are untouched,
// and the teardown order is preserved.
//
// A nil value clears the entry instead: the handle goes dead, Value returns
// nil, and Close skips the slot. This is the path for a replacement whose
// construction failed.
//
// Resetting a dead entry is a programmer error and panics.
func (t *Tracker) Reset(h Handle, value any) {
	t.mustBeOpen("Reset")
	t.mustBeInRange(h, "Reset")

	e := &t.entries[h]
	if !e.live {
		panic(fmt.Sprintf("lifetime: Reset of dead handle %d", h))
	}

	if e.release != nil && e.value != nil {
		e.release(e.value)
	}

	if value == nil {
		e.value = nil
		e.live = false
		return
	}

	e.value = value
}

// Close releases every live entry in reverse registration order and marks
// the tracker closed. It must be called exactly once; any use of the
// tracker afterwards, including a second Close, panics.
func (t *Tracker) Close() {
	t.mustBeOpen("Close")

	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if !e.live {
			continue
		}
		if e.release != nil && e.value != nil {
			e.release(e.value)
		}
	}

	t.entries = nil
	t.closed = true
}

// Len reports the number of live entries.
func (t *Tracker) Len() int {
	t.mustBeOpen("Len")

	n := 0
	for _, e := range t.entries {
		if e.live {
			n++
		}
	}

	return n
}

func (t *Tracker) mustBeOpen(op string) {
	if t.closed {
		panic(fmt.Sprintf("lifetime: %s on closed tracker", op))
	}
}

func (t *Tracker) mustBeInRange(h Handle, op string) {
	if h < 0 || int(h) >= len(t.entries) {
		panic(fmt.Sprintf("lifetime: %s with unknown handle %d", op, h))
	}
}
