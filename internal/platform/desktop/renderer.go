package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ledgegame/ledge/internal/core"
)

// background is the window clear color, a near-black that keeps the
// level colors readable.
var background = color.RGBA{R: 0x12, G: 0x12, B: 0x16, A: 0xff}

// ImageRenderer draws onto the ebiten image of the current frame. The
// target is swapped in by Draw each frame; calls outside a draw pass
// fail.
type ImageRenderer struct {
	target *ebiten.Image
}

// SetTarget points the renderer at this frame's image.
func (r *ImageRenderer) SetTarget(img *ebiten.Image) {
	r.target = img
}

// Size returns the target dimensions in pixels.
func (r *ImageRenderer) Size() (int, int) {
	if r.target == nil {
		return 0, 0
	}
	b := r.target.Bounds()
	return b.Dx(), b.Dy()
}

// Clear fills the target with the background color.
func (r *ImageRenderer) Clear() error {
	if r.target == nil {
		return fmt.Errorf("desktop: no draw target")
	}
	r.target.Fill(background)
	return nil
}

// FillRect fills a screen-space rectangle.
func (r *ImageRenderer) FillRect(rect core.Rect, c core.Color) error {
	if r.target == nil {
		return fmt.Errorf("desktop: no draw target")
	}
	vector.DrawFilledRect(r.target,
		float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H),
		color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}, false)
	return nil
}

// Present is a no-op; ebiten flips the frame itself after Draw returns.
func (r *ImageRenderer) Present() error {
	return nil
}
