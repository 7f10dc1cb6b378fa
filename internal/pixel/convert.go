package pixel

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// FromColor converts a device color to a vector of model m. Alpha is
// discarded after un-premultiplying.
func (m Model) FromColor(c color.Color) Vector {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return m.FromRGB(n.R, n.G, n.B)
}

// FromRGB converts 8-bit RGB components to a vector of model m.
func (m Model) FromRGB(r, g, b uint8) Vector {
	v := Vector{model: m}
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255

	switch m {
	case RGB:
		v.c = [MaxChannels]float64{float64(r), float64(g), float64(b)}
	case HSL:
		h, s, l := colorful.Color{R: rf, G: gf, B: bf}.Hsl()
		v.c = [MaxChannels]float64{h / 360, s, l}
	case CMY:
		v.c = [MaxChannels]float64{1 - rf, 1 - gf, 1 - bf}
	case CMYK:
		k := 1 - math.Max(rf, math.Max(gf, bf))
		if k >= 1 {
			v.c = [MaxChannels]float64{0, 0, 0, 1}
			break
		}
		v.c = [MaxChannels]float64{
			(1 - rf - k) / (1 - k),
			(1 - gf - k) / (1 - k),
			(1 - bf - k) / (1 - k),
			k,
		}
	}
	return v
}

// Color converts the vector to an opaque device color. Every channel is
// clamped to the model's valid range first.
func (v Vector) Color() color.NRGBA {
	var r, g, b uint8

	switch v.model {
	case RGB:
		r, g, b = toByte(v.c[0]), toByte(v.c[1]), toByte(v.c[2])
	case HSL:
		c := colorful.Hsl(clamp01(v.c[0])*360, clamp01(v.c[1]), clamp01(v.c[2]))
		r, g, b = c.Clamped().RGB255()
	case CMY:
		r = toByte((1 - clamp01(v.c[0])) * 255)
		g = toByte((1 - clamp01(v.c[1])) * 255)
		b = toByte((1 - clamp01(v.c[2])) * 255)
	case CMYK:
		k := 1 - clamp01(v.c[3])
		r = toByte((1 - clamp01(v.c[0])) * k * 255)
		g = toByte((1 - clamp01(v.c[1])) * k * 255)
		b = toByte((1 - clamp01(v.c[2])) * k * 255)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// toByte rounds a 0-255 value to the nearest representable component.
func toByte(x float64) uint8 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(math.Round(x))
}
