package config

import (
	_ "embed"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// Default returns the baseline tuning. It matches the embedded YAML; the
// hardcoded copy exists so a broken embed cannot take the game down.
func Default() Tuning {
	return Tuning{
		Player: PlayerTuning{
			Gravity:      2000,
			MoveSpeed:    320,
			JumpImpulse:  880,
			MaxFallSpeed: 1200,
			Width:        24,
			Height:       24,
		},
		Camera: CameraTuning{
			ViewW: 640,
			ViewH: 360,
		},
	}
}
