package metrics

import (
	"math"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

// Stability is the fraction of samples whose energy stays within
// tolerance (relative) of the first observed energy.
type Stability struct {
	name       string
	tolerance  float64
	dyn        dynamo.Hamiltonian
	reference  float64
	violations int
	samples    int
}

func NewStability(dyn dynamo.Hamiltonian, tolerance float64) *Stability {
	return &Stability{
		name:      "stability",
		tolerance: tolerance,
		dyn:       dyn,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, t float64) {
	energy := s.dyn.Energy(x)
	if s.samples == 0 {
		s.reference = energy
	}
	s.samples++

	if s.reference == 0 {
		return
	}
	if math.Abs(energy-s.reference)/math.Abs(s.reference) > s.tolerance {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.reference = 0
	s.violations = 0
	s.samples = 0
}
