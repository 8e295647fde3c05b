package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an autonomous or time-dependent ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Linear is implemented by 2-dimensional systems dX/dt = A X. Coefficients
// returns A row-major as (a, b, c, d).
type Linear interface {
	Coefficients() (a, b, c, d float64)
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) (State, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, x State, t float64)
}

// TimeRange is the closed interval [Start, End] a run covers.
type TimeRange struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

func (r TimeRange) Span() float64 { return r.End - r.Start }

func (r TimeRange) Validate() error {
	if math.IsNaN(r.Start) || math.IsInf(r.Start, 0) {
		return &DomainError{Op: "range", Field: "start", Value: r.Start, Wrapped: ErrInvalidRange}
	}
	if math.IsNaN(r.End) || math.IsInf(r.End, 0) || r.End <= r.Start {
		return &DomainError{Op: "range", Field: "end", Value: r.End, Wrapped: ErrInvalidRange}
	}
	return nil
}

// gridSlack absorbs representation error in (End-Start)/Step so that
// 20/0.1 counts 200 whole steps.
const gridSlack = 1e-9

// maxGridSteps bounds a grid so the step count fits an int on every platform.
const maxGridSteps = math.MaxInt32 - 1

// Grid is an evenly spaced, inclusive sequence of sample times.
type Grid struct {
	Start float64
	Step  float64
	Steps int
}

// NewGrid builds the sample grid for r at spacing h.
func NewGrid(r TimeRange, h float64) (Grid, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return Grid{}, &DomainError{Op: "grid", Field: "step_size", Value: h, Wrapped: ErrInvalidStep}
	}
	if err := r.Validate(); err != nil {
		return Grid{}, err
	}

	q := math.Floor(r.Span()/h + gridSlack)
	if q > maxGridSteps {
		return Grid{}, &DomainError{Op: "grid", Field: "step_size", Value: h, Wrapped: ErrInvalidStep}
	}
	steps := int(q)
	if steps < 1 {
		return Grid{}, &DomainError{Op: "grid", Field: "step_size", Value: h, Wrapped: ErrInvalidStep}
	}
	return Grid{Start: r.Start, Step: h, Steps: steps}, nil
}

// Len is the number of samples, Steps+1.
func (g Grid) Len() int { return g.Steps + 1 }

func (g Grid) At(i int) float64 { return g.Start + float64(i)*g.Step }

func (g Grid) End() float64 { return g.At(g.Steps) }

func (g Grid) Times() []float64 {
	times := make([]float64, g.Len())
	for i := range times {
		times[i] = g.At(i)
	}
	return times
}

// Trajectory holds positions and velocities sampled on a Grid. Index 0 is
// the initial condition.
type Trajectory struct {
	Times    []float64 `json:"times"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
}

// NewTrajectory allocates a trajectory for g with its times filled in.
func NewTrajectory(g Grid) *Trajectory {
	n := g.Len()
	return &Trajectory{
		Times:    g.Times(),
		Position: make([]float64, n),
		Velocity: make([]float64, n),
	}
}

func (t *Trajectory) Len() int { return len(t.Times) }

func (t *Trajectory) State(i int) State {
	return State{t.Position[i], t.Velocity[i]}
}

func (t *Trajectory) Set(i int, x State) {
	t.Position[i] = x[0]
	t.Velocity[i] = x[1]
}

func (t *Trajectory) Final() State { return t.State(t.Len() - 1) }

// Validate checks that all three sequences share one length.
func (t *Trajectory) Validate() error {
	if t == nil || len(t.Times) == 0 {
		return ErrInvalidTrajectory
	}
	if len(t.Position) != len(t.Times) || len(t.Velocity) != len(t.Times) {
		return LengthError("trajectory", len(t.Times), len(t.Position))
	}
	return nil
}

// ErrorTrajectory is analytic minus numeric per sample.
type ErrorTrajectory struct {
	Times    []float64 `json:"times"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
}

func (e *ErrorTrajectory) Len() int { return len(e.Position) }

type Result struct {
	Trajectory  *Trajectory
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}
