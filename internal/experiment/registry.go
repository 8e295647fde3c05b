package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/integrators"
	"github.com/san-kum/eulerlab/internal/metrics"
)

// StabilityTolerance is the relative energy deviation a sample may have
// and still count as stable.
const StabilityTolerance = 0.05

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["explicit"] = func() dynamo.Integrator { return integrators.NewExplicit() }
	r.integrators["implicit"] = func() dynamo.Integrator { return integrators.NewImplicit() }
	r.integrators["symplectic"] = func() dynamo.Integrator { return integrators.NewSymplectic() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownScheme, name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(dyn dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(dyn),
		metrics.NewStability(dyn, StabilityTolerance),
	}
}
