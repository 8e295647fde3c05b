package physics

import (
	"math"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

// Oscillator is a unit mass on a unit spring: dx/dt = v, dv/dt = -x.
// State layout is [position, velocity].
type Oscillator struct{}

func NewOscillator() *Oscillator {
	return &Oscillator{}
}

func (o *Oscillator) StateDim() int { return 2 }

func (o *Oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

// Coefficients returns A = [[0, 1], [-1, 0]].
func (o *Oscillator) Coefficients() (a, b, c, d float64) {
	return 0, 1, -1, 0
}

// Energy is the normalized energy x² + v², constant at x0² + v0² along the
// exact solution.
func (o *Oscillator) Energy(x dynamo.State) float64 {
	return x[0]*x[0] + x[1]*x[1]
}

// Exact evaluates the closed-form solution through (x0, v0) at time t.
func (o *Oscillator) Exact(x0, v0, t float64) dynamo.State {
	if t == 0 {
		return dynamo.State{x0, v0}
	}
	sin, cos := math.Sincos(t)
	return dynamo.State{
		x0*cos + v0*sin,
		-x0*sin + v0*cos,
	}
}
