package blend

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/poisson-blend/internal/mask"
	"github.com/ironsheep/poisson-blend/internal/pixel"
)

// ErrOutOfBounds is returned when the blended region does not fit the images.
var ErrOutOfBounds = errors.New("region outside image bounds")

// Composite writes the solved interior pixels into dst at
// insert + m.Offset + local coordinate. Border and exterior pixels are left
// untouched.
func Composite(dst *image.RGBA, m *mask.Mask, insert image.Point, solved []pixel.Vector) error {
	if len(solved) != m.Len() {
		return fmt.Errorf("got %d solved pixels for %d interior pixels", len(solved), m.Len())
	}
	for i, v := range solved {
		p := m.Pixel(i).Add(m.Offset).Add(insert)
		c := v.Color()
		dst.SetRGBA(p.X, p.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return nil
}

// canvas copies img into an RGBA image whose bounds start at (0,0), so that
// pixel coordinates are always relative to the image origin.
func canvas(img image.Image) *image.RGBA {
	c := clone.AsRGBA(img)
	c.Rect = c.Rect.Sub(c.Rect.Min)
	return c
}

// checkBounds verifies that the mask rectangle lies inside the overlay and
// that its insertion into the base stays inside the base.
func checkBounds(base, overlay image.Rectangle, m *mask.Mask, insert image.Point) error {
	region := m.Bounds().Add(m.Offset)
	if region.Empty() {
		return nil
	}
	if !region.In(overlay) {
		return fmt.Errorf("%w: region %v exceeds overlay %v", ErrOutOfBounds, region, overlay)
	}
	if target := region.Add(insert); !target.In(base) {
		return fmt.Errorf("%w: insertion %v exceeds base %v", ErrOutOfBounds, target, base)
	}
	return nil
}
