package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

// Energy returns x[i]² + v[i]² for every sample of traj. The length comes
// from the trajectory alone; a trajectory that fails Validate yields nil.
func Energy(traj *dynamo.Trajectory) []float64 {
	if traj.Validate() != nil {
		return nil
	}
	energy := make([]float64, traj.Len())
	for i := range energy {
		x, v := traj.Position[i], traj.Velocity[i]
		energy[i] = x*x + v*v
	}
	return energy
}

// Band returns the smallest and largest values of an energy sequence.
func Band(energy []float64) (lo, hi float64) {
	if len(energy) == 0 {
		return 0, 0
	}
	return floats.Min(energy), floats.Max(energy)
}

// RelativeDrift is (E[last] - E[0]) / E[0]; positive means growth.
func RelativeDrift(energy []float64) float64 {
	if len(energy) == 0 || energy[0] == 0 {
		return 0
	}
	return (energy[len(energy)-1] - energy[0]) / energy[0]
}

// EnergyDrift tracks the largest relative deviation |E - E0| / E0 seen
// during a run.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.Hamiltonian
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
