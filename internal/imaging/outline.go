package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/poisson-blend/internal/mask"
)

// DefaultOutlineColor is used when the outline color is missing or invalid.
var DefaultOutlineColor = color.RGBA{255, 0, 0, 255}

// Outline draws the insertion region on a copy of base so a placement can be
// checked before blending. The polygon is in overlay coordinates and is moved
// by insert; with fewer than 3 points the whole overlay rectangle of the
// given size is outlined. With labels set, every vertex is tagged with its
// base-image coordinates.
func Outline(base image.Image, polygon []image.Point, insert, overlaySize image.Point, colorHex string, labels bool) *image.RGBA {
	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		lineColor = DefaultOutlineColor
	}

	result := clone.AsRGBA(base)
	result.Rect = result.Rect.Sub(result.Rect.Min)
	bounds := result.Bounds()

	vertices := polygon
	if len(vertices) < 3 {
		w, h := overlaySize.X-1, overlaySize.Y-1
		vertices = []image.Point{{0, 0}, {w, 0}, {w, h}, {0, h}}
	}

	for i, v := range vertices {
		next := vertices[(i+1)%len(vertices)]
		for _, p := range mask.Line(v.Add(insert), next.Add(insert)) {
			if p.In(bounds) {
				result.SetRGBA(p.X, p.Y, lineColor)
			}
		}
	}

	if labels {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}
		for _, v := range vertices {
			p := v.Add(insert)
			drawLabel(result, p.X+2, p.Y+2, fmt.Sprintf("%d,%d", p.X, p.Y), labelColor, bgColor)
		}
	}

	return result
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// glyphs is a 3x5 pixel font for coordinate labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text on a filled background. Unknown characters leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	const charWidth, labelHeight = 4, 7
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.SetRGBA(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, bit := range line {
				if bit != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.SetRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
