package blend

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/poisson-blend/internal/mask"
	"github.com/ironsheep/poisson-blend/internal/pixel"
)

// Stats summarizes how far the blend moved away from its two sources. The
// border band is the set of interior pixels with at least one border
// neighbor; the core is the rest of the interior. Averages are per channel in
// model order and are zero for an empty set.
type Stats struct {
	Channels []string `json:"channels"`

	// BorderBase averages the base image along the mask border.
	BorderBase []float64 `json:"border_base"`
	// BorderSolved averages the solved border band.
	BorderSolved []float64 `json:"border_solved"`
	// CoreOverlay averages the overlay over the core.
	CoreOverlay []float64 `json:"core_overlay"`
	// CoreSolved averages the solved core.
	CoreSolved []float64 `json:"core_solved"`

	// BorderChange is the mean over channels of (BorderSolved - BorderBase)
	// relative to the channel range.
	BorderChange float64 `json:"border_change"`
	// CoreChange is the mean over channels of (CoreSolved - CoreOverlay)
	// relative to the channel range.
	CoreChange float64 `json:"core_change"`
}

// computeStats must run before the solved pixels are composited into base.
func computeStats(base, overlay *image.RGBA, m *mask.Mask, insert image.Point, model pixel.Model, solved []pixel.Vector) Stats {
	n := model.Len()
	borderBase := make([][]float64, n)
	borderSolved := make([][]float64, n)
	coreOverlay := make([][]float64, n)
	coreSolved := make([][]float64, n)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.IsBorder(x, y) {
				continue
			}
			v := sample(base, model, image.Pt(x, y).Add(m.Offset).Add(insert))
			for c := 0; c < n; c++ {
				borderBase[c] = append(borderBase[c], v.At(c))
			}
		}
	}

	for i, v := range solved {
		p := m.Pixel(i)
		band := false
		for _, q := range mask.Neighbors4(p) {
			if m.IsBorder(q.X, q.Y) {
				band = true
				break
			}
		}
		if band {
			for c := 0; c < n; c++ {
				borderSolved[c] = append(borderSolved[c], v.At(c))
			}
			continue
		}
		o := sample(overlay, model, p.Add(m.Offset))
		for c := 0; c < n; c++ {
			coreSolved[c] = append(coreSolved[c], v.At(c))
			coreOverlay[c] = append(coreOverlay[c], o.At(c))
		}
	}

	s := Stats{
		Channels:     model.Channels(),
		BorderBase:   means(borderBase),
		BorderSolved: means(borderSolved),
		CoreOverlay:  means(coreOverlay),
		CoreSolved:   means(coreSolved),
	}
	if n == 0 {
		return s
	}
	if len(borderSolved[0]) > 0 && len(borderBase[0]) > 0 {
		for c := 0; c < n; c++ {
			s.BorderChange += (s.BorderSolved[c] - s.BorderBase[c]) / model.Max()
		}
		s.BorderChange /= float64(n)
	}
	if len(coreSolved[0]) > 0 {
		for c := 0; c < n; c++ {
			s.CoreChange += (s.CoreSolved[c] - s.CoreOverlay[c]) / model.Max()
		}
		s.CoreChange /= float64(n)
	}
	return s
}

func means(samples [][]float64) []float64 {
	out := make([]float64, len(samples))
	for c, xs := range samples {
		if len(xs) > 0 {
			out[c] = stat.Mean(xs, nil)
		}
	}
	return out
}
