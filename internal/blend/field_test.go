package blend

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/poisson-blend/internal/mask"
	"github.com/ironsheep/poisson-blend/internal/pixel"
)

// centerImage creates a 3x3 image with value v at the center and 0 around it.
func centerImage(v uint8) *image.RGBA {
	img := solidImage(3, 3, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 1, color.RGBA{v, v, v, 255})
	return img
}

func TestAccumulator_GuidanceField(t *testing.T) {
	m := mask.Build(nil, 3, 3)
	if m.Len() != 1 {
		t.Fatalf("expected one interior pixel, got %d", m.Len())
	}

	tests := []struct {
		name    string
		overlay uint8
		base    uint8
		mode    FieldMode
		want    float64
	}{
		{"normal ignores base", 100, 150, Normal, 400},
		{"linear averages", 100, 50, LinearCombination, 300},
		{"mixed keeps overlay", 100, 50, Mixed, 400},
		{"mixed keeps base", 100, 150, Mixed, 600},
		{"mixed tie keeps base", 100, 100, Mixed, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator(m, pixel.RGB)
			err := acc.AddGuidanceField(centerImage(tt.base), centerImage(tt.overlay), m, image.Pt(0, 0), tt.mode)
			if err != nil {
				t.Fatalf("AddGuidanceField failed: %v", err)
			}
			for c := 0; c < 3; c++ {
				if got := acc.At(0).At(c); got != tt.want {
					t.Errorf("channel %d: got %v, want %v", c, got, tt.want)
				}
			}
		})
	}
}

func TestAccumulator_LinearRampHasNoLaplacian(t *testing.T) {
	overlay := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			overlay.SetRGBA(x, y, color.RGBA{uint8(10 * x), uint8(20 * y), uint8(5*x + 5*y), 255})
		}
	}
	m := mask.Build(nil, 8, 6)
	acc := NewAccumulator(m, pixel.RGB)
	if err := acc.AddGuidanceField(overlay, overlay, m, image.Pt(0, 0), Normal); err != nil {
		t.Fatalf("AddGuidanceField failed: %v", err)
	}
	for i := 0; i < acc.Len(); i++ {
		if v := acc.At(i); v.Norm() != 0 {
			t.Errorf("pixel %v: expected zero field, got %v", m.Pixel(i), v)
		}
	}
}

func TestAccumulator_BorderColors(t *testing.T) {
	base := solidImage(9, 9, color.RGBA{10, 20, 30, 255})

	t.Run("single pixel", func(t *testing.T) {
		m := mask.Build(nil, 3, 3)
		acc := NewAccumulator(m, pixel.RGB)
		if err := acc.AddBorderColors(base, m, image.Pt(2, 2)); err != nil {
			t.Fatalf("AddBorderColors failed: %v", err)
		}
		want := []float64{40, 80, 120}
		for c, w := range want {
			if got := acc.At(0).At(c); got != w {
				t.Errorf("channel %d: got %v, want %v", c, got, w)
			}
		}
	})

	t.Run("counts border neighbors", func(t *testing.T) {
		m := mask.Build(nil, 5, 5)
		acc := NewAccumulator(m, pixel.RGB)
		if err := acc.AddBorderColors(base, m, image.Pt(0, 0)); err != nil {
			t.Fatalf("AddBorderColors failed: %v", err)
		}
		for i := 0; i < acc.Len(); i++ {
			p := m.Pixel(i)
			n := 0
			for _, q := range mask.Neighbors4(p) {
				if m.IsBorder(q.X, q.Y) {
					n++
				}
			}
			if got := acc.At(i).At(0); got != float64(10*n) {
				t.Errorf("pixel %v: got %v, want %v", p, got, 10*n)
			}
		}
		// The center of a 5x5 block touches no border.
		i, ok := m.Index(image.Pt(2, 2))
		if !ok || acc.At(i).At(0) != 0 {
			t.Errorf("center pixel should have no border contribution")
		}
	})

	t.Run("mask mismatch", func(t *testing.T) {
		acc := NewAccumulator(mask.Build(nil, 5, 5), pixel.RGB)
		if err := acc.AddBorderColors(base, mask.Build(nil, 3, 3), image.Pt(0, 0)); err == nil {
			t.Error("expected error for mismatched mask")
		}
	})
}

func TestAccumulator_Channels(t *testing.T) {
	m := mask.Build(nil, 4, 3)
	acc := NewAccumulator(m, pixel.CMYK)
	chans := acc.Channels()
	if len(chans) != 4 {
		t.Fatalf("expected 4 channels, got %d", len(chans))
	}
	for c, name := range []string{"C", "M", "Y", "K"} {
		if chans[c].Name != name {
			t.Errorf("channel %d = %q, want %q", c, chans[c].Name, name)
		}
		if len(chans[c].RHS) != m.Len() {
			t.Errorf("channel %s: %d values, want %d", name, len(chans[c].RHS), m.Len())
		}
	}
}

func TestParseFieldMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldMode
		wantErr bool
	}{
		{"", Normal, false},
		{"normal", Normal, false},
		{"Linear", LinearCombination, false},
		{"linear-combination", LinearCombination, false},
		{"MIXED", Mixed, false},
		{"average", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFieldMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFieldMode(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFieldMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
