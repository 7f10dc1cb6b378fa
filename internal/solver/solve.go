package solver

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Observer receives advisory progress from a running solve. It never
// influences control flow. With parallel channels it is called from several
// goroutines at once and must be safe for concurrent use.
type Observer interface {
	// Iteration is called after every sweep.
	Iteration(channel string, iteration int, err float64)

	// Done is called once when the channel finishes, converged or not.
	Done(channel string, iterations int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Iteration(string, int, float64)  {}
func (nopObserver) Done(string, int, time.Duration) {}

// Result is the outcome of one channel.
type Result struct {
	Channel    string
	Values     []float64
	Iterations int
	Error      float64
	Elapsed    time.Duration
}

// Channel is the right-hand side of one scalar system.
type Channel struct {
	Name string
	RHS  []float64
}

// sweep computes next from x in place. rhs and neighbors are read-only.
type sweep func(x, next, rhs []float64, neighbors [][]int)

func jacobiSweep(x, next, rhs []float64, neighbors [][]int) {
	for i := range next {
		s := rhs[i]
		for _, j := range neighbors[i] {
			s += x[j]
		}
		next[i] = s / 4
	}
}

func gaussSeidelSweep(_, next, rhs []float64, neighbors [][]int) {
	for i := range next {
		s := rhs[i]
		for _, j := range neighbors[i] {
			s += next[j]
		}
		next[i] = s / 4
	}
}

func sorSweep(k float64) sweep {
	return func(x, next, rhs []float64, neighbors [][]int) {
		for i := range next {
			s := rhs[i] / 4
			for _, j := range neighbors[i] {
				s += (k*next[j] + (1-k)*x[j]) / 4
			}
			next[i] = s
		}
	}
}

// Solve iterates one channel from x = 0 until the error between consecutive
// sweeps drops below cfg.Threshold. obs may be nil.
func Solve(channel string, rhs []float64, neighbors [][]int, cfg Config, obs Observer) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(rhs) != len(neighbors) {
		return Result{}, fmt.Errorf("channel %s: %d values but %d neighbor lists", channel, len(rhs), len(neighbors))
	}
	if obs == nil {
		obs = nopObserver{}
	}

	start := time.Now()
	n := len(rhs)
	x := make([]float64, n)
	next := make([]float64, n)

	res := Result{Channel: channel}
	if n == 0 {
		res.Values = x
		res.Elapsed = time.Since(start)
		obs.Done(channel, 0, res.Elapsed)
		return res, nil
	}

	var step sweep
	switch cfg.Method {
	case Jacobi:
		step = jacobiSweep
	case GaussSeidel:
		step = gaussSeidelSweep
	case SOR:
		step = sorSweep(cfg.relaxation())
	}

	for it := 1; ; it++ {
		step(x, next, rhs, neighbors)
		e := cfg.Metric.Distance(x, next)

		// Gauss-Seidel and SOR read next for neighbors not yet refreshed, so
		// both buffers must agree at the start of a sweep.
		if cfg.Method == Jacobi {
			x, next = next, x
		} else {
			copy(x, next)
		}

		obs.Iteration(channel, it, e)
		res.Iterations = it
		res.Error = e

		if e < cfg.Threshold {
			break
		}
		if cfg.MaxIterations > 0 && it >= cfg.MaxIterations {
			res.Values = x
			res.Elapsed = time.Since(start)
			obs.Done(channel, it, res.Elapsed)
			return res, fmt.Errorf("%w: channel %s after %d iterations, error %g", ErrNotConverged, channel, it, e)
		}
	}

	res.Values = x
	res.Elapsed = time.Since(start)
	obs.Done(channel, res.Iterations, res.Elapsed)
	return res, nil
}

// SolveChannels solves every channel against the same adjacency. With
// parallel set each channel runs in its own goroutine; the call returns once
// all of them finish. Results keep the order of channels.
func SolveChannels(channels []Channel, neighbors [][]int, cfg Config, obs Observer, parallel bool) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, len(channels))
	errs := make([]error, len(channels))

	if !parallel {
		for i, ch := range channels {
			results[i], errs[i] = Solve(ch.Name, ch.RHS, neighbors, cfg, obs)
		}
		return results, errors.Join(errs...)
	}

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			results[i], errs[i] = Solve(ch.Name, ch.RHS, neighbors, cfg, obs)
		}(i, ch)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
