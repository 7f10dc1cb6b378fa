package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/poisson-blend/internal/pixel"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = fully opaque
}

// ModelValues is a color expressed in one blend color model.
type ModelValues struct {
	Model    string             `json:"model"`
	Channels map[string]float64 `json:"channels"`
}

// ColorResult contains a pixel color in every representation a blend can
// work in.
type ColorResult struct {
	Hex    string        `json:"hex"` // "#RRGGBB" (no alpha)
	RGBA   RGBAColor     `json:"rgba"`
	Models []ModelValues `json:"models"`
}

// SampleColor reads the color at (x, y) and converts it to every supported
// color model. Coordinates are relative to the image bounds origin.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	p := image.Pt(x, y).Add(bounds.Min)
	if !p.In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
	res := &ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
	}
	for _, m := range pixel.Models() {
		v := m.FromRGB(c.R, c.G, c.B)
		channels := make(map[string]float64, m.Len())
		for i, name := range m.Channels() {
			channels[name] = v.At(i)
		}
		res.Models = append(res.Models, ModelValues{Model: m.String(), Channels: channels})
	}
	return res, nil
}

// LabeledPoint is a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int
	Y     int
	Label string
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples several points. On error no partial result is
// returned.
func SampleColorsMulti(img image.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}
