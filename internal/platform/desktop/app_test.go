package desktop

import "testing"

func TestGamepadStickDeadZone(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{0, 0},
		{0.1, 0},
		{-0.2, 0},
		{0.3, 0.3},
		{-0.6, -0.6},
		{1, 1},
	}

	for _, tt := range tests {
		s := &gamepadStick{active: true, value: tt.value}
		if got := s.Axis(); got != tt.want {
			t.Errorf("Axis() with deflection %g = %g, expected %g", tt.value, got, tt.want)
		}
	}
}

func TestNewAppDefaults(t *testing.T) {
	app := NewApp(nil, Config{})

	w, h := app.Layout(1920, 1080)
	if w != defaultWidth || h != defaultHeight {
		t.Errorf("Layout() = %dx%d, expected %dx%d", w, h, defaultWidth, defaultHeight)
	}
	if app.title != "ledge" {
		t.Errorf("title = %q, expected ledge", app.title)
	}
	if app.logger == nil {
		t.Error("logger should default to a discard logger")
	}

	app = NewApp(nil, Config{Width: 1280, Height: 720, Title: "custom"})
	w, h = app.Layout(0, 0)
	if w != 1280 || h != 720 {
		t.Errorf("Layout() = %dx%d, expected 1280x720", w, h)
	}
}
