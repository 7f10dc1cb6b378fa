// Package solver computes the fixed point of the discrete Poisson system of
// one scalar channel:
//
//	4*x[i] - sum(x[j] for j in neighbors[i]) = rhs[i]
//
// # Methods
//
// Three interchangeable iterations share one loop and one convergence test:
//   - Jacobi: every update reads the previous sweep only.
//   - GaussSeidel: updates read values already refreshed in the same sweep.
//   - SOR: like GaussSeidel, but refreshed neighbors are extrapolated by the
//     relaxation factor K, which must lie strictly between 0 and 2.
//
// # Convergence
//
// After each sweep the distance between the previous and the new estimate is
// measured with the configured Metric (maximum absolute delta by default) and
// the loop stops once it drops below Config.Threshold. Without an iteration
// cap a diverging configuration never returns.
//
// # Concurrency
//
// Channels never share mutable state. SolveChannels can run one goroutine per
// channel; the results are identical to a sequential run.
package solver
