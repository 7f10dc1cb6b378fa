package cli

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/poisson-blend/internal/blend"
	"github.com/ironsheep/poisson-blend/internal/imaging"
	"github.com/ironsheep/poisson-blend/internal/pixel"
	"github.com/ironsheep/poisson-blend/internal/solver"
)

// ErrUsage marks every argument validation failure.
var ErrUsage = errors.New("invalid arguments")

// Config holds the parsed CLI arguments.
type Config struct {
	BasePath    string
	OverlayPath string
	OutPath     string

	// Insert is where the overlay origin lands in the base image.
	Insert image.Point

	// Polygon outlines the region in overlay coordinates. Empty selects the
	// whole overlay.
	Polygon []image.Point

	// Save writes the result to OutPath.
	Save bool

	// Paste copies the region without blending.
	Paste bool

	// Repeat runs the blend this many times and averages the timings.
	Repeat int

	Blend blend.Options
}

const (
	defaultOut    = "result.jpg"
	programName   = "poisson-blend"
	exampleInvoke = programName + " -base=beach.jpg -overlay=boat.png -x=120 -y=80 -polygon=\"10,10;90,12;85,60;12,58\" -solver=sor -out=result.jpg"
)

func newFlagSet() (*flag.FlagSet, *rawFlags) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	r := &rawFlags{}
	fs.StringVar(&r.base, "base", "", "Path to the base (background) image (required)")
	fs.StringVar(&r.overlay, "overlay", "", "Path to the overlay image (required)")
	fs.IntVar(&r.x, "x", 0, "X position of the overlay origin in the base image")
	fs.IntVar(&r.y, "y", 0, "Y position of the overlay origin in the base image")
	fs.StringVar(&r.polygon, "polygon", "", "Region to insert as \"x,y;x,y;...\" in overlay coordinates (empty = whole overlay)")
	fs.StringVar(&r.out, "out", defaultOut, "Path of the result image (png, jpg, gif, bmp, tiff)")
	fs.BoolVar(&r.save, "save", true, "Write the result to -out")
	fs.StringVar(&r.model, "model", "rgb", "Color model: rgb, hsl, cmy or cmyk")
	fs.StringVar(&r.method, "solver", "jacobi", "Solver: jacobi, gauss-seidel or sor")
	fs.Float64Var(&r.relaxation, "relaxation", solver.DefaultRelaxation, "SOR relaxation factor, strictly between 0 and 2")
	fs.StringVar(&r.field, "field", "normal", "Guidance field: normal, linear or mixed")
	fs.Float64Var(&r.threshold, "threshold", 0, "Accepted error (0 = default for the solver and model)")
	fs.StringVar(&r.metric, "metric", "max", "Error metric: max or euclidean")
	fs.IntVar(&r.maxIterations, "max-iterations", 0, "Stop with an error after this many sweeps (0 = unlimited)")
	fs.BoolVar(&r.parallel, "parallel", false, "Solve every color channel in its own goroutine")
	fs.BoolVar(&r.verbose, "verbose", false, "Log every solver iteration")
	fs.BoolVar(&r.noBlend, "no-blend", false, "Paste the region without blending")
	fs.IntVar(&r.repeat, "repeat", 1, "Run the blend N times and report averaged timings")
	return fs, r
}

type rawFlags struct {
	base, overlay, polygon, out  string
	x, y                         int
	save                         bool
	model, method, field, metric string
	relaxation, threshold        float64
	maxIterations, repeat        int
	parallel, verbose, noBlend   bool
}

// Usage writes the flag documentation to w.
func Usage(w io.Writer) {
	fs, _ := newFlagSet()
	fs.SetOutput(w)
	fmt.Fprintf(w, "Usage: %s [options]\n\nOptions:\n", programName)
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExample:\n  %s\n", exampleInvoke)
}

// Parse parses CLI arguments (without the program name) and returns a
// validated Config. -h and -help return flag.ErrHelp.
func Parse(args []string) (Config, error) {
	fs, r := newFlagSet()
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	if r.base == "" {
		return Config{}, fmt.Errorf("%w: -base is required", ErrUsage)
	}
	if r.overlay == "" {
		return Config{}, fmt.Errorf("%w: -overlay is required", ErrUsage)
	}
	if r.save {
		switch imaging.FormatFromExt(r.out) {
		case "unknown", "webp":
			return Config{}, fmt.Errorf("%w: -out has unsupported extension: %q", ErrUsage, r.out)
		}
	}
	if r.repeat < 1 {
		return Config{}, fmt.Errorf("%w: -repeat must be >= 1, got %d", ErrUsage, r.repeat)
	}
	if r.threshold < 0 {
		return Config{}, fmt.Errorf("%w: -threshold must be >= 0, got %g", ErrUsage, r.threshold)
	}
	if r.maxIterations < 0 {
		return Config{}, fmt.Errorf("%w: -max-iterations must be >= 0, got %d", ErrUsage, r.maxIterations)
	}

	polygon, err := ParsePolygon(r.polygon)
	if err != nil {
		return Config{}, fmt.Errorf("%w: -polygon: %v", ErrUsage, err)
	}

	model, err := pixel.ParseModel(r.model)
	if err != nil {
		return Config{}, fmt.Errorf("%w: -model: %v", ErrUsage, err)
	}
	method, err := solver.ParseMethod(r.method)
	if err != nil {
		return Config{}, fmt.Errorf("%w: -solver: %v", ErrUsage, err)
	}
	metric, err := solver.ParseMetric(r.metric)
	if err != nil {
		return Config{}, fmt.Errorf("%w: -metric: %v", ErrUsage, err)
	}
	field, err := blend.ParseFieldMode(r.field)
	if err != nil {
		return Config{}, fmt.Errorf("%w: -field: %v", ErrUsage, err)
	}
	if method == solver.SOR && !(r.relaxation > 0 && r.relaxation < 2) {
		return Config{}, fmt.Errorf("%w: -relaxation must be strictly between 0 and 2, got %g", ErrUsage, r.relaxation)
	}

	return Config{
		BasePath:    r.base,
		OverlayPath: r.overlay,
		OutPath:     r.out,
		Insert:      image.Pt(r.x, r.y),
		Polygon:     polygon,
		Save:        r.save,
		Paste:       r.noBlend,
		Repeat:      r.repeat,
		Blend: blend.Options{
			Model: model,
			Solver: solver.Config{
				Method:        method,
				Relaxation:    r.relaxation,
				Threshold:     r.threshold,
				Metric:        metric,
				MaxIterations: r.maxIterations,
			},
			Field:    field,
			Parallel: r.parallel,
			Verbose:  r.verbose,
		},
	}, nil
}

// ParsePolygon parses "x,y;x,y;..." into points. Whitespace around numbers
// and a trailing separator are allowed. An empty string yields no points.
func ParsePolygon(s string) ([]image.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var points []image.Point
	for _, part := range strings.Split(strings.TrimSuffix(s, ";"), ";") {
		p, err := ParsePoint(part)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("a polygon needs at least 3 points, got %d", len(points))
	}
	return points, nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("point %q is not in x,y form", strings.TrimSpace(s))
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("point %q: bad x: %w", strings.TrimSpace(s), err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("point %q: bad y: %w", strings.TrimSpace(s), err)
	}
	return image.Pt(x, y), nil
}
