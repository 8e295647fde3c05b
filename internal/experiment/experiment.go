package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/config"
	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/logger"
	"github.com/san-kum/eulerlab/internal/metrics"
	"github.com/san-kum/eulerlab/internal/physics"
	"github.com/san-kum/eulerlab/internal/sim"
	"github.com/san-kum/eulerlab/internal/solver"
)

// SchemeRun is one numerical scheme measured against the analytic solution.
type SchemeRun struct {
	Scheme     string                  `json:"scheme"`
	Trajectory *dynamo.Trajectory      `json:"trajectory"`
	Error      *dynamo.ErrorTrajectory `json:"error"`
	Energy     []float64               `json:"energy"`
	Metrics    map[string]float64      `json:"metrics"`

	EnergyDrift   float64 `json:"energy_drift"`
	EnergyMin     float64 `json:"energy_min"`
	EnergyMax     float64 `json:"energy_max"`
	FinalError    float64 `json:"final_error"`
	MaxPosError   float64 `json:"max_position_error"`
	ElapsedMillis float64 `json:"elapsed_ms"`
}

type Report struct {
	Config         *config.Config              `json:"config"`
	Analytic       *dynamo.Trajectory          `json:"analytic"`
	AnalyticEnergy []float64                   `json:"analytic_energy"`
	Runs           []SchemeRun                 `json:"runs"`
	Truncation     *analysis.TruncationSamples `json:"truncation,omitempty"`
	Order          float64                     `json:"order"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// Run returns the run for scheme, or nil.
func (r *Report) Run(scheme string) *SchemeRun {
	for i := range r.Runs {
		if r.Runs[i].Scheme == scheme {
			return &r.Runs[i]
		}
	}
	return nil
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	osc      *physics.Oscillator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		osc:      physics.NewOscillator(),
	}
}

// Run integrates every configured scheme on one grid, compares each to the
// analytic solution and, when truncation samples are configured, sweeps the
// step size for explicit Euler.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.L()

	grid, err := dynamo.NewGrid(e.cfg.Range(), e.cfg.Dt)
	if err != nil {
		return nil, err
	}
	log.Info("experiment.run", "start", grid.Start, "end", grid.End(), "dt", grid.Step, "samples", grid.Len(), "schemes", e.cfg.Schemes)

	analytic, err := solver.Analytic(e.cfg.Range(), e.cfg.Dt, e.cfg.X0, e.cfg.V0)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Config:         e.cfg,
		Analytic:       analytic,
		AnalyticEnergy: metrics.Energy(analytic),
		Runs:           make([]SchemeRun, 0, len(e.cfg.Schemes)),
		CreatedAt:      time.Now(),
	}

	for _, scheme := range e.cfg.Schemes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run, err := e.runScheme(scheme, grid, analytic)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", scheme, err)
		}
		log.Info("experiment.scheme", "scheme", scheme, "final_error", run.FinalError, "energy_drift", run.EnergyDrift)
		report.Runs = append(report.Runs, *run)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tc := e.cfg.Truncation
	samples, err := analysis.TruncationError(tc.H0, tc.Duration, e.cfg.X0, e.cfg.V0, analysis.WithSamples(tc.Samples))
	if err != nil {
		return nil, err
	}
	report.Truncation = samples
	report.Order = analysis.ConvergenceOrder(samples)
	log.Info("experiment.truncation", "samples", samples.Len(), "order", report.Order)

	return report, nil
}

func (e *Experiment) runScheme(scheme string, grid dynamo.Grid, analytic *dynamo.Trajectory) (*SchemeRun, error) {
	integ, err := e.registry.GetIntegrator(scheme)
	if err != nil {
		return nil, err
	}

	s := sim.New(e.osc, integ)
	for _, m := range e.registry.DefaultMetrics(e.osc) {
		s.AddMetric(m)
	}

	began := time.Now()
	result, err := s.Run(dynamo.State{e.cfg.X0, e.cfg.V0}, grid)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(began)

	diff, err := analysis.GlobalError(analytic, result.Trajectory)
	if err != nil {
		return nil, err
	}

	energy := metrics.Energy(result.Trajectory)
	lo, hi := metrics.Band(energy)
	return &SchemeRun{
		Scheme:        scheme,
		Trajectory:    result.Trajectory,
		Error:         diff,
		Energy:        energy,
		Metrics:       result.Metrics,
		EnergyDrift:   metrics.RelativeDrift(energy),
		EnergyMin:     lo,
		EnergyMax:     hi,
		FinalError:    analysis.FinalError(diff),
		MaxPosError:   analysis.MaxPositionError(diff),
		ElapsedMillis: float64(elapsed.Microseconds()) / 1000,
	}, nil
}
