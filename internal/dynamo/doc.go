// Package dynamo provides the core primitives shared by the oscillator lab.
//
// The package defines the fundamental interfaces and types for fixed-step
// integration of the unit harmonic oscillator:
//
//   - [State]: phase-space vector (position, velocity)
//   - [Grid]: evenly spaced sample times built from a [TimeRange] and a step size
//   - [Trajectory]: positions and velocities sampled in lockstep with a [Grid]
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step time stepper interface
//
// # Grid convention
//
// Every component builds its sample times through [NewGrid]. The grid is
// inclusive: steps = floor((End-Start)/Step) and Len = steps+1, so the last
// sample sits at or before End and never past it. Trajectories produced for
// the same range and step therefore always have equal length.
//
// # Example
//
//	grid, err := dynamo.NewGrid(dynamo.TimeRange{Start: 0, End: 20}, 0.1)
//	if err != nil {
//		return err
//	}
//	fmt.Println(grid.Len()) // 201
package dynamo
