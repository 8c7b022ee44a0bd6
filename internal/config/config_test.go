package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// Guard against the embedded YAML drifting from the hardcoded baseline.
	// Skip when a local or user config overrides the chain.
	if _, err := os.Stat("ledge.yaml"); err == nil {
		t.Skip("local ledge.yaml present")
	}

	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, expected %+v", cfg, Default())
	}
}

func TestLoadCustomPathOverridesPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	content := "player:\n  gravity: 1500\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Player.Gravity != 1500 {
		t.Errorf("Gravity = %g, expected 1500", cfg.Player.Gravity)
	}
	// Untouched fields keep their defaults.
	if cfg.Player.MoveSpeed != Default().Player.MoveSpeed {
		t.Errorf("MoveSpeed = %g, expected default %g", cfg.Player.MoveSpeed, Default().Player.MoveSpeed)
	}
	if cfg.Camera != Default().Camera {
		t.Errorf("Camera = %+v, expected default", cfg.Camera)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Errorf("Load succeeded, expected error")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("player: ["), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("Load succeeded, expected error")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "zero.yaml")
		if err := os.WriteFile(path, []byte("player:\n  gravity: -5\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("Load succeeded, expected error")
		}
	})
}

func TestValidateReportsOffendingField(t *testing.T) {
	cfg := Default()
	cfg.Camera.ViewH = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Validate() = nil, expected error")
	}
	if !strings.Contains(err.Error(), "camera.view_h") {
		t.Errorf("error %q does not name camera.view_h", err)
	}
}
