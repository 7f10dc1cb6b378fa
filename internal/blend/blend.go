package blend

import (
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/poisson-blend/internal/mask"
	"github.com/ironsheep/poisson-blend/internal/pixel"
	"github.com/ironsheep/poisson-blend/internal/solver"
)

// Options configures a blend.
type Options struct {
	// Model is the channel representation the system is solved in.
	Model pixel.Model

	// Solver selects the iteration. A zero Threshold is replaced by
	// solver.DefaultThreshold for the method and model.
	Solver solver.Config

	// Field selects the guidance field.
	Field FieldMode

	// Parallel solves every channel in its own goroutine.
	Parallel bool

	// Log receives human-readable progress messages. May be nil.
	Log func(string)

	// Verbose adds one message per solver iteration.
	Verbose bool
}

// DefaultOptions returns an RGB Jacobi blend with the normal guidance field.
func DefaultOptions() Options {
	return Options{
		Model:  pixel.RGB,
		Solver: solver.Config{Method: solver.Jacobi},
		Field:  Normal,
	}
}

// ChannelStat reports the solve of one channel.
type ChannelStat struct {
	Name       string        `json:"name"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Result is the outcome of a blend.
type Result struct {
	// Image is the base image with the blended region written in.
	Image *image.RGBA

	// Mask is the region that was blended.
	Mask *mask.Mask

	// Solved holds the solution of every interior pixel in compact order.
	Solved []pixel.Vector

	Elapsed  time.Duration
	Channels []ChannelStat
	Stats    Stats
}

// Blend inserts the polygon region of overlay into base at insert so that
// the region keeps the overlay's gradients while its boundary takes the base
// colors. A polygon with fewer than 3 points selects the whole overlay.
// Neither input image is modified.
func Blend(base, overlay image.Image, insert image.Point, polygon []image.Point, opts Options) (*Result, error) {
	if !opts.Model.Valid() {
		return nil, fmt.Errorf("%w: %d", pixel.ErrUnknownModel, int(opts.Model))
	}
	cfg := opts.Solver
	if cfg.Threshold == 0 {
		t, err := solver.DefaultThreshold(cfg.Method, opts.Model)
		if err != nil {
			return nil, err
		}
		cfg.Threshold = t
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs := newLogService(opts.Log, opts.Verbose)
	logs.started(opts.Model, opts.Parallel)
	start := time.Now()

	dst := canvas(base)
	src := canvas(overlay)

	m := mask.Build(polygon, src.Rect.Dx(), src.Rect.Dy())
	if err := checkBounds(dst.Rect, src.Rect, m, insert); err != nil {
		return nil, err
	}
	Logger().Debug("mask built",
		"width", m.Width, "height", m.Height, "offset", m.Offset,
		"interior", m.Len(), "border", m.BorderCount())

	acc := NewAccumulator(m, opts.Model)
	if err := acc.AddGuidanceField(dst, src, m, insert, opts.Field); err != nil {
		return nil, fmt.Errorf("guidance field: %w", err)
	}
	if err := acc.AddBorderColors(dst, m, insert); err != nil {
		return nil, fmt.Errorf("border colors: %w", err)
	}

	Logger().Debug("solving",
		"model", opts.Model, "method", cfg.Method, "threshold", cfg.Threshold,
		"metric", cfg.Metric, "field", opts.Field, "parallel", opts.Parallel)
	results, err := solver.SolveChannels(acc.Channels(), m.Adjacency(), cfg, logs, opts.Parallel)
	if err != nil {
		return nil, err
	}

	solved, err := assemble(opts.Model, m.Len(), results)
	if err != nil {
		return nil, err
	}

	stats := computeStats(dst, src, m, insert, opts.Model, solved)
	if err := Composite(dst, m, insert, solved); err != nil {
		return nil, err
	}

	res := &Result{
		Image:   dst,
		Mask:    m,
		Solved:  solved,
		Elapsed: time.Since(start),
		Stats:   stats,
	}
	for _, r := range results {
		res.Channels = append(res.Channels, ChannelStat{Name: r.Channel, Iterations: r.Iterations, Elapsed: r.Elapsed})
	}
	logs.finished(res.Elapsed)
	return res, nil
}

// assemble zips the per-channel solutions back into channel vectors.
func assemble(model pixel.Model, n int, results []solver.Result) ([]pixel.Vector, error) {
	solved := make([]pixel.Vector, n)
	values := make([]float64, len(results))
	for i := 0; i < n; i++ {
		for c, r := range results {
			values[c] = r.Values[i]
		}
		v, err := pixel.New(model, values...)
		if err != nil {
			return nil, err
		}
		solved[i] = v
	}
	return solved, nil
}

// Paste copies every pixel of the region straight from overlay into base,
// without solving. It uses the same region and offsets as Blend.
func Paste(base, overlay image.Image, insert image.Point, polygon []image.Point) (*image.RGBA, error) {
	dst := canvas(base)
	src := canvas(overlay)

	m := mask.Build(polygon, src.Rect.Dx(), src.Rect.Dy())
	if err := checkBounds(dst.Rect, src.Rect, m, insert); err != nil {
		return nil, err
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.IsFull(x, y) {
				continue
			}
			p := image.Pt(x, y).Add(m.Offset)
			q := p.Add(insert)
			dst.SetRGBA(q.X, q.Y, src.RGBAAt(p.X, p.Y))
		}
	}
	return dst, nil
}
