// Package physics holds the model integrated by the lab: the unit harmonic
// oscillator, with its derivative, linear coefficients, energy and exact
// solution.
package physics
