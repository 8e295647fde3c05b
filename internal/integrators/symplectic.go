package integrators

import "github.com/san-kum/eulerlab/internal/dynamo"

// Symplectic is semi-implicit Euler for separable systems laid out as
// [positions..., velocities...]. Positions move with the current velocity,
// then velocities move with the acceleration at the updated positions.
type Symplectic struct {
	scratch dynamo.State
}

func NewSymplectic() *Symplectic {
	return &Symplectic{}
}

func (s *Symplectic) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) (dynamo.State, error) {
	n := len(x)
	if n%2 != 0 {
		return nil, dynamo.ErrInvalidState
	}
	half := n / 2

	if len(s.scratch) != n {
		s.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := dyn.Derive(x, t)

	for i := 0; i < half; i++ {
		result[i] = x[i] + dt*dx[i]
		s.scratch[i] = result[i]
		s.scratch[half+i] = x[half+i]
	}

	dxNew := dyn.Derive(s.scratch, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dt*dxNew[half+i]
	}

	return result, nil
}
