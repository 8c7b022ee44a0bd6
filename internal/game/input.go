package game

// KeyState is a snapshot of the held movement keys, taken by the host once
// per frame. It is deliberately tiny; everything discrete goes through
// events instead.
type KeyState struct {
	Left  bool
	Right bool
}

// Stick is an optional analog input. Axis reports the horizontal deflection
// with negative values meaning left; anything outside the backend's dead
// zone counts as intent. Hosts pass nil when no stick is attached.
type Stick interface {
	Axis() float64
}
