// Package config provides YAML-based tuning for the game runtime: player
// physics and camera framing. Level geometry is not configured here; it
// lives in level files.
package config

import "fmt"

// Tuning contains every tunable parameter of a session. All values are in
// world units and seconds, independent of any frontend's resolution.
type Tuning struct {
	Player PlayerTuning `yaml:"player"`
	Camera CameraTuning `yaml:"camera"`
}

// PlayerTuning defines the player's physics parameters.
type PlayerTuning struct {
	Gravity      float64 `yaml:"gravity"`        // downward acceleration, units/s^2
	MoveSpeed    float64 `yaml:"move_speed"`     // horizontal speed, units/s
	JumpImpulse  float64 `yaml:"jump_impulse"`   // upward launch speed, units/s
	MaxFallSpeed float64 `yaml:"max_fall_speed"` // terminal velocity, units/s
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
}

// CameraTuning defines how much of the world the camera frames. The
// renderer's aspect ratio does not have to match; projection scales each
// axis independently.
type CameraTuning struct {
	ViewW float64 `yaml:"view_w"`
	ViewH float64 `yaml:"view_h"`
}

// Validate checks that every parameter is positive.
func (t Tuning) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"player.gravity", t.Player.Gravity},
		{"player.move_speed", t.Player.MoveSpeed},
		{"player.jump_impulse", t.Player.JumpImpulse},
		{"player.max_fall_speed", t.Player.MaxFallSpeed},
		{"player.width", t.Player.Width},
		{"player.height", t.Player.Height},
		{"camera.view_w", t.Camera.ViewW},
		{"camera.view_h", t.Camera.ViewH},
	}

	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %g", c.name, c.value)
		}
	}

	return nil
}
