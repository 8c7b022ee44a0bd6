package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color. Level files specify colors as hex strings; the
// terminal backend converts them to 256-color styles, the window backend
// uses them directly.
type Color struct {
	R, G, B, A uint8
}

// Predefined colors for game elements.
var (
	ColorBlack  = Color{0x00, 0x00, 0x00, 0xff}
	ColorWhite  = Color{0xff, 0xff, 0xff, 0xff}
	ColorRed    = Color{0xd8, 0x3a, 0x3a, 0xff}
	ColorGreen  = Color{0x3a, 0xd8, 0x6a, 0xff}
	ColorBlue   = Color{0x3a, 0x6a, 0xd8, 0xff}
	ColorYellow = Color{0xd8, 0xc8, 0x3a, 0xff}
	ColorGray   = Color{0x88, 0x88, 0x88, 0xff}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// Hex returns the color as "#rrggbb". Alpha is not included; the terminal
// backend has no use for it and the window backend reads the struct field.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor converts a hex string to a Color. Accepted forms are "#rgb",
// "#rrggbb" and "#rrggbbaa"; the leading "#" is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3:
		r, err1 := hexNibble(hex[0])
		g, err2 := hexNibble(hex[1])
		b, err3 := hexNibble(hex[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return Color{}, fmt.Errorf("core: invalid color %q", s)
		}
		return Color{R: r * 0x11, G: g * 0x11, B: b * 0x11, A: 0xff}, nil

	case 6, 8:
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return Color{}, fmt.Errorf("core: invalid color %q", s)
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return Color{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: uint8(v),
		}, nil

	default:
		return Color{}, fmt.Errorf("core: invalid color %q", s)
	}
}

func hexNibble(c byte) (uint8, error) {
	v, err := strconv.ParseUint(string(c), 16, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
