package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/poisson-blend/internal/pixel"
)

// Method selects the iteration scheme.
type Method int

const (
	Jacobi Method = iota
	GaussSeidel
	SOR
)

// DefaultRelaxation is the SOR factor used when Config.Relaxation is zero.
const DefaultRelaxation = 1.9

var (
	ErrUnknownMethod      = errors.New("unknown solver")
	ErrUnknownMetric      = errors.New("unknown error metric")
	ErrUnsupportedPairing = errors.New("unknown solver or color model")
	ErrInvalidThreshold   = errors.New("threshold must be positive")
	ErrInvalidRelaxation  = errors.New("relaxation factor must be in (0, 2)")
	ErrNotConverged       = errors.New("solver did not converge")
)

var methodNames = map[Method]string{
	Jacobi:      "jacobi",
	GaussSeidel: "gauss-seidel",
	SOR:         "sor",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts "jacobi", "gauss-seidel" (or "seidel", "zeidel") and "sor".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jacobi":
		return Jacobi, nil
	case "gauss-seidel", "gaussseidel", "seidel", "zeidel":
		return GaussSeidel, nil
	case "sor":
		return SOR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Metric measures the change between two consecutive sweeps.
type Metric int

const (
	// MaxDelta is the largest absolute change of any single pixel.
	MaxDelta Metric = iota
	// Euclidean is the L2 norm of the change vector.
	Euclidean
)

func (m Metric) String() string {
	switch m {
	case MaxDelta:
		return "max"
	case Euclidean:
		return "euclidean"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric accepts "max" and "euclidean".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "max-delta":
		return MaxDelta, nil
	case "euclidean", "l2":
		return Euclidean, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Distance returns the metric between x and next, which must have equal length.
func (m Metric) Distance(x, next []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	if m == Euclidean {
		return floats.Distance(next, x, 2)
	}
	return floats.Distance(next, x, math.Inf(1))
}

// Config parameterizes a solve.
type Config struct {
	Method Method

	// Relaxation is the SOR factor K. Zero means DefaultRelaxation.
	// Ignored by the other methods.
	Relaxation float64

	// Threshold is the accepted error; iteration stops once the metric
	// drops below it.
	Threshold float64

	Metric Metric

	// MaxIterations caps the number of sweeps. Zero means unlimited.
	MaxIterations int
}

func (c Config) relaxation() float64 {
	if c.Relaxation == 0 {
		return DefaultRelaxation
	}
	return c.Relaxation
}

// Validate reports configuration errors before any work starts.
func (c Config) Validate() error {
	if _, ok := methodNames[c.Method]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMethod, int(c.Method))
	}
	if c.Metric != MaxDelta && c.Metric != Euclidean {
		return fmt.Errorf("%w: %d", ErrUnknownMetric, int(c.Metric))
	}
	if !(c.Threshold > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Threshold)
	}
	if c.Method == SOR {
		if k := c.relaxation(); !(k > 0 && k < 2) {
			return fmt.Errorf("%w: %v", ErrInvalidRelaxation, k)
		}
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max iterations must be >= 0, got %d", c.MaxIterations)
	}
	return nil
}

// Accepted errors by solver and color model. The 0-255 RGB range tolerates a
// looser threshold than the unit-range models.
var thresholds = map[Method]map[pixel.Model]float64{
	Jacobi: {
		pixel.RGB:  0.003,
		pixel.HSL:  0.000001,
		pixel.CMY:  0.000001,
		pixel.CMYK: 0.000001,
	},
	GaussSeidel: {
		pixel.RGB:  0.003,
		pixel.HSL:  0.000001,
		pixel.CMY:  0.000001,
		pixel.CMYK: 0.000001,
	},
	SOR: {
		pixel.RGB:  0.003,
		pixel.HSL:  0.000001,
		pixel.CMY:  0.000001,
		pixel.CMYK: 0.000001,
	},
}

// DefaultThreshold returns the accepted error for a solver and color model.
func DefaultThreshold(method Method, model pixel.Model) (float64, error) {
	if t, ok := thresholds[method][model]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %s with %s", ErrUnsupportedPairing, method, model)
}
