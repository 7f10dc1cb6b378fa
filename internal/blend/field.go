package blend

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/poisson-blend/internal/mask"
	"github.com/ironsheep/poisson-blend/internal/pixel"
	"github.com/ironsheep/poisson-blend/internal/solver"
)

// FieldMode selects how the guidance field is derived.
type FieldMode int

const (
	// Normal follows the overlay gradient only.
	Normal FieldMode = iota
	// LinearCombination averages the overlay and base gradients.
	LinearCombination
	// Mixed keeps whichever of the two gradients is stronger per direction.
	Mixed
)

func (f FieldMode) String() string {
	switch f {
	case Normal:
		return "normal"
	case LinearCombination:
		return "linear"
	case Mixed:
		return "mixed"
	}
	return fmt.Sprintf("FieldMode(%d)", int(f))
}

// ParseFieldMode accepts "normal", "linear" (or "linear-combination") and "mixed".
func ParseFieldMode(s string) (FieldMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return Normal, nil
	case "linear", "linear-combination", "linearcombination":
		return LinearCombination, nil
	case "mixed":
		return Mixed, nil
	}
	return 0, fmt.Errorf("unknown guidance field %q", s)
}

// Accumulator holds the right-hand side of the linear system, one channel
// vector per interior pixel of a mask, in compact index order.
type Accumulator struct {
	model  pixel.Model
	values []pixel.Vector
}

// NewAccumulator returns a zeroed accumulator for every interior pixel of m.
func NewAccumulator(m *mask.Mask, model pixel.Model) *Accumulator {
	values := make([]pixel.Vector, m.Len())
	for i := range values {
		values[i] = pixel.Zero(model)
	}
	return &Accumulator{model: model, values: values}
}

// Len returns the number of accumulated pixels.
func (a *Accumulator) Len() int { return len(a.values) }

// At returns the accumulated vector of compact index i.
func (a *Accumulator) At(i int) pixel.Vector { return a.values[i] }

// AddGuidanceField adds, for every interior pixel p and each of its four grid
// neighbors q, the projection overlay[p] - overlay[q]. Overlay coordinates are
// the mask's local coordinates shifted by its offset; base coordinates are
// further shifted by insert.
func (a *Accumulator) AddGuidanceField(base, overlay *image.RGBA, m *mask.Mask, insert image.Point, mode FieldMode) error {
	if m.Len() != len(a.values) {
		return fmt.Errorf("accumulator holds %d pixels, mask has %d", len(a.values), m.Len())
	}

	for i := range a.values {
		p := m.Pixel(i)
		op := p.Add(m.Offset)
		bp := op.Add(insert)

		ov := sample(overlay, a.model, op)
		bv := pixel.Zero(a.model)
		if mode != Normal {
			bv = sample(base, a.model, bp)
		}

		sum := a.values[i]
		for _, q := range mask.Neighbors4(p) {
			oq := q.Add(m.Offset)
			proj, err := ov.Sub(sample(overlay, a.model, oq))
			if err != nil {
				return err
			}

			if mode != Normal {
				baseProj, err := bv.Sub(sample(base, a.model, oq.Add(insert)))
				if err != nil {
					return err
				}
				switch mode {
				case LinearCombination:
					proj, err = proj.Scale(0.5).Add(baseProj.Scale(0.5))
					if err != nil {
						return err
					}
				case Mixed:
					if !(proj.Norm() > baseProj.Norm()) {
						proj = baseProj
					}
				}
			}

			if sum, err = sum.Add(proj); err != nil {
				return err
			}
		}
		a.values[i] = sum
	}
	return nil
}

// AddBorderColors moves the known border values to the right-hand side: every
// border neighbor of an interior pixel contributes its base-image color.
func (a *Accumulator) AddBorderColors(base *image.RGBA, m *mask.Mask, insert image.Point) error {
	if m.Len() != len(a.values) {
		return fmt.Errorf("accumulator holds %d pixels, mask has %d", len(a.values), m.Len())
	}

	for i := range a.values {
		sum := a.values[i]
		for _, q := range mask.Neighbors4(m.Pixel(i)) {
			if !m.IsBorder(q.X, q.Y) {
				continue
			}
			var err error
			sum, err = sum.Add(sample(base, a.model, q.Add(m.Offset).Add(insert)))
			if err != nil {
				return err
			}
		}
		a.values[i] = sum
	}
	return nil
}

// Channels splits the accumulator into one scalar right-hand side per channel.
func (a *Accumulator) Channels() []solver.Channel {
	names := a.model.Channels()
	out := make([]solver.Channel, len(names))
	for c, name := range names {
		rhs := make([]float64, len(a.values))
		for i, v := range a.values {
			rhs[i] = v.At(c)
		}
		out[c] = solver.Channel{Name: name, RHS: rhs}
	}
	return out
}

// sample reads img at p, clamping p to the image bounds.
func sample(img *image.RGBA, model pixel.Model, p image.Point) pixel.Vector {
	b := img.Bounds()
	x := clamp(p.X, b.Min.X, b.Max.X-1)
	y := clamp(p.Y, b.Min.Y, b.Max.Y-1)
	return model.FromColor(img.RGBAAt(x, y))
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
