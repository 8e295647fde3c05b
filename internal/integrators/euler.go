package integrators

import "github.com/san-kum/eulerlab/internal/dynamo"

// Explicit is forward Euler: every component advances from the derivative
// at the start of the step.
type Explicit struct{}

func NewExplicit() *Explicit {
	return &Explicit{}
}

func (e *Explicit) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) (dynamo.State, error) {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result, nil
}
