package integrators

import (
	"math"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

// Implicit is backward Euler for 2-dimensional linear systems. The update
// x' = x + dt*A*x' is solved in closed form as (I - dt*A) x' = x.
type Implicit struct{}

func NewImplicit() *Implicit {
	return &Implicit{}
}

func (m *Implicit) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) (dynamo.State, error) {
	lin, ok := dyn.(dynamo.Linear)
	if !ok || len(x) != 2 {
		return nil, dynamo.ErrNotLinear
	}
	a, b, c, d := lin.Coefficients()

	m11, m12 := 1-dt*a, -dt*b
	m21, m22 := -dt*c, 1-dt*d

	det := m11*m22 - m12*m21
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, &dynamo.DomainError{Op: "implicit", Field: "det", Value: det, Wrapped: dynamo.ErrSingular}
	}

	return dynamo.State{
		(m22*x[0] - m12*x[1]) / det,
		(m11*x[1] - m21*x[0]) / det,
	}, nil
}
