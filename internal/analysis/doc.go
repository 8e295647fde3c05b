// Package analysis measures how far the numerical schemes stray from the
// exact oscillator solution.
//
//   - [GlobalError]: signed analytic minus numeric difference per sample
//   - [TruncationError]: maximum position error over a halving step-size sweep
//   - [ConvergenceOrder]: observed order from a truncation sweep
//   - [PhasePoints]: (x, v) pairs for phase-space plots
//
// # Convergence
//
// Explicit Euler is first order, so halving the step roughly halves the
// maximum error once h is small:
//
//	samples, _ := analysis.TruncationError(0.1, 20, 1, 0)
//	order := analysis.ConvergenceOrder(samples) // close to 1
package analysis
