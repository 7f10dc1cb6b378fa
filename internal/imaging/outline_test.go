package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestOutline_Polygon(t *testing.T) {
	base := createInMemoryImage(50, 50, color.RGBA{0, 0, 0, 255})
	polygon := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	out := Outline(base, polygon, image.Pt(5, 5), image.Pt(20, 20), "#00FF00", false)

	green := color.RGBA{0, 255, 0, 255}
	for _, p := range []image.Point{{5, 5}, {15, 5}, {15, 15}, {5, 15}, {10, 5}, {15, 10}} {
		if got := out.RGBAAt(p.X, p.Y); got != green {
			t.Errorf("edge pixel %v = %v, want green", p, got)
		}
	}
	if got := out.RGBAAt(10, 10); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("inside pixel changed to %v", got)
	}
	if got := base.At(5, 5); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("base image was modified: %v", got)
	}
}

func TestOutline_WholeOverlay(t *testing.T) {
	base := createInMemoryImage(30, 30, color.RGBA{0, 0, 0, 255})

	out := Outline(base, nil, image.Pt(2, 3), image.Pt(8, 6), "", false)

	// The overlay occupies (2,3)-(9,8) inclusive.
	for _, p := range []image.Point{{2, 3}, {9, 3}, {9, 8}, {2, 8}} {
		if got := out.RGBAAt(p.X, p.Y); got != DefaultOutlineColor {
			t.Errorf("corner %v = %v, want default outline color", p, got)
		}
	}
	if got := out.RGBAAt(10, 3); got == DefaultOutlineColor {
		t.Error("outline extends past the overlay")
	}
}

func TestOutline_ClipsAndLabels(t *testing.T) {
	base := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})
	polygon := []image.Point{{0, 0}, {40, 0}, {0, 40}}

	// Should not panic even though the polygon leaves the image.
	out := Outline(base, polygon, image.Pt(-5, -5), image.Pt(0, 0), "#FF0000", true)
	if out.Bounds() != base.Bounds() {
		t.Errorf("bounds changed to %v", out.Bounds())
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"#00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"0000FF", color.RGBA{0, 0, 255, 255}, false},
		{"#FF000080", color.RGBA{255, 0, 0, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := parseHexColor(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c != tt.want {
				t.Errorf("got %v, want %v", c, tt.want)
			}
		})
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}
	drawLabel(img, 10, 10, "50,-5", fg, bg)

	hasText, hasBackground := false, false
	for y := 9; y < 20; y++ {
		for x := 9; x < 40; x++ {
			switch img.RGBAAt(x, y) {
			case fg:
				hasText = true
			case bg:
				hasBackground = true
			}
		}
	}
	if !hasText {
		t.Error("label should have text pixels")
	}
	if !hasBackground {
		t.Error("label should have background pixels")
	}

	// Near or past the edges: must not panic.
	drawLabel(img, 95, 95, "100,100", fg, bg)
	drawLabel(img, -5, -5, "abc", fg, bg)
	drawLabel(img, 10, 10, "", fg, bg)
}
