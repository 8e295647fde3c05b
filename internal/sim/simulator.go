package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run seeds a trajectory with x0 at grid sample 0 and fills every later
// sample with one integrator step. Sample times come from the grid, not
// from an accumulated clock.
func (s *Simulator) Run(x0 dynamo.State, grid dynamo.Grid) (*dynamo.Result, error) {
	if err := s.validate(x0, grid); err != nil {
		return nil, err
	}

	traj := dynamo.NewTrajectory(grid)
	result := &dynamo.Result{
		Trajectory: traj,
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	traj.Set(0, x)
	s.notify(0, x, grid.At(0))

	initialEnergy := s.computeEnergy(x)

	for i := 0; i < grid.Steps; i++ {
		t := grid.At(i)

		newX, err := s.integrator.Step(s.dyn, x, t, grid.Step)
		if err != nil {
			return nil, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		if !newX.IsValid() {
			return nil, dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
		}

		x = newX
		traj.Set(i+1, x)
		result.StepsTaken++
		s.notify(i+1, x, grid.At(i+1))
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) notify(step int, x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, x, t)
	}
}

func (s *Simulator) validate(x0 dynamo.State, grid dynamo.Grid) error {
	if grid.Steps < 1 || grid.Step <= 0 {
		return &dynamo.DomainError{Op: "simulate", Field: "step_size", Value: grid.Step, Wrapped: dynamo.ErrInvalidStep}
	}
	if len(x0) != 2 || s.dyn.StateDim() != 2 {
		return fmt.Errorf("simulate: state has %d components, system %d: %w", len(x0), s.dyn.StateDim(), dynamo.ErrInvalidState)
	}
	if !x0.IsValid() {
		return fmt.Errorf("simulate: initial condition %v: %w", x0, dynamo.ErrInvalidState)
	}
	return nil
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if h, ok := s.dyn.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
