// Package solver exposes the trajectory operations of the lab: the exact
// solution of the unit oscillator and the three fixed-step Euler schemes.
//
// Every function takes the complete configuration (time range, step size and
// initial condition) as arguments and returns a freshly allocated
// trajectory on the grid built by dynamo.NewGrid, so trajectories for the
// same inputs always have equal length.
package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/integrators"
	"github.com/san-kum/eulerlab/internal/physics"
	"github.com/san-kum/eulerlab/internal/sim"
)

type Scheme string

const (
	SchemeAnalytic   Scheme = "analytic"
	SchemeExplicit   Scheme = "explicit"
	SchemeImplicit   Scheme = "implicit"
	SchemeSymplectic Scheme = "symplectic"
	SchemeRK4        Scheme = "rk4"
)

// Func is the shared signature of every trajectory operation.
type Func func(r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error)

var schemes = map[Scheme]Func{
	SchemeAnalytic:   Analytic,
	SchemeExplicit:   Explicit,
	SchemeImplicit:   Implicit,
	SchemeSymplectic: Symplectic,
	SchemeRK4:        RK4,
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := schemes[Scheme(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownScheme, name)
	}
	return fn, nil
}

// Solve runs the named scheme.
func Solve(name string, r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	fn, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return fn(r, h, x0, v0)
}

// Names lists registered schemes in sorted order.
func Names() []string {
	names := make([]string, 0, len(schemes))
	for s := range schemes {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// Analytic evaluates x(t) = x0 cos t + v0 sin t, v(t) = -x0 sin t + v0 cos t
// independently at every grid sample.
func Analytic(r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	grid, err := setup("analytic", r, h, x0, v0)
	if err != nil {
		return nil, err
	}

	osc := physics.NewOscillator()
	traj := dynamo.NewTrajectory(grid)
	for i := range traj.Times {
		traj.Set(i, osc.Exact(x0, v0, traj.Times[i]-grid.Start))
	}
	return traj, nil
}

// Explicit integrates with forward Euler.
func Explicit(r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	return integrate("explicit", integrators.NewExplicit(), r, h, x0, v0)
}

// Implicit integrates with backward Euler.
func Implicit(r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	return integrate("implicit", integrators.NewImplicit(), r, h, x0, v0)
}

// Symplectic integrates with semi-implicit Euler.
func Symplectic(r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	return integrate("symplectic", integrators.NewSymplectic(), r, h, x0, v0)
}

// RK4 integrates with fourth-order Runge-Kutta.
func RK4(r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	return integrate("rk4", integrators.NewRK4(), r, h, x0, v0)
}

func integrate(op string, integ dynamo.Integrator, r dynamo.TimeRange, h, x0, v0 float64) (*dynamo.Trajectory, error) {
	grid, err := setup(op, r, h, x0, v0)
	if err != nil {
		return nil, err
	}

	result, err := sim.New(physics.NewOscillator(), integ).Run(dynamo.State{x0, v0}, grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result.Trajectory, nil
}

func setup(op string, r dynamo.TimeRange, h, x0, v0 float64) (dynamo.Grid, error) {
	for _, ic := range []struct {
		field string
		value float64
	}{{"x0", x0}, {"v0", v0}} {
		if math.IsNaN(ic.value) || math.IsInf(ic.value, 0) {
			return dynamo.Grid{}, &dynamo.DomainError{Op: op, Field: ic.field, Value: ic.value, Wrapped: dynamo.ErrInvalidState}
		}
	}

	grid, err := dynamo.NewGrid(r, h)
	if err != nil {
		return dynamo.Grid{}, fmt.Errorf("%s: %w", op, err)
	}
	return grid, nil
}
