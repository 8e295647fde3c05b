package storage

import (
	"errors"

	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/config"
	"github.com/san-kum/eulerlab/internal/experiment"
	"github.com/san-kum/eulerlab/internal/metrics"
)

// LoadReport rebuilds a report from a saved run. Errors and energies are
// recomputed from the stored trajectories.
func (s *Store) LoadReport(runID string) (*experiment.Report, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	named, err := s.LoadTrajectories(runID)
	if err != nil {
		return nil, err
	}
	if named[0].Name != AnalyticName {
		return nil, errors.New("storage: first trajectory is not analytic")
	}

	cfg := config.DefaultConfig()
	cfg.Start, cfg.End, cfg.Dt = meta.Start, meta.End, meta.Dt
	cfg.X0, cfg.V0 = meta.X0, meta.V0
	cfg.Schemes = meta.Schemes

	analytic := named[0].Trajectory
	report := &experiment.Report{
		Config:         cfg,
		Analytic:       analytic,
		AnalyticEnergy: metrics.Energy(analytic),
		Order:          meta.Order,
		CreatedAt:      meta.Timestamp,
	}

	summaries := make(map[string]SchemeSummary, len(meta.Summaries))
	for _, sum := range meta.Summaries {
		summaries[sum.Scheme] = sum
	}

	for _, nt := range named[1:] {
		diff, err := analysis.GlobalError(analytic, nt.Trajectory)
		if err != nil {
			return nil, err
		}
		energy := metrics.Energy(nt.Trajectory)
		lo, hi := metrics.Band(energy)

		report.Runs = append(report.Runs, experiment.SchemeRun{
			Scheme:      nt.Name,
			Trajectory:  nt.Trajectory,
			Error:       diff,
			Energy:      energy,
			Metrics:     summaries[nt.Name].Metrics,
			EnergyDrift: metrics.RelativeDrift(energy),
			EnergyMin:   lo,
			EnergyMax:   hi,
			FinalError:  analysis.FinalError(diff),
			MaxPosError: analysis.MaxPositionError(diff),
		})
	}

	if samples, err := s.LoadTruncation(runID); err == nil {
		report.Truncation = samples
	} else if !errors.Is(err, ErrRunNotFound) {
		return nil, err
	}
	return report, nil
}
