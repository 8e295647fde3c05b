package viz

import (
	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/config"
	"github.com/san-kum/eulerlab/internal/experiment"
)

type Kind int

const (
	KindLine Kind = iota
	KindScatter
)

type Series struct {
	Name string
	X, Y []float64
}

// Figure is one plot. Name is used as the file stem when rendered.
type Figure struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	Kind   Kind
	LogXY  bool
	Series []Series
}

// Figures builds the plots enabled in toggles from report.
func Figures(report *experiment.Report, toggles config.PlotConfig) []Figure {
	if report == nil || report.Analytic == nil {
		return nil
	}
	times := report.Analytic.Times

	var figs []Figure
	if toggles.Position {
		fig := Figure{Name: "position", Title: "Position vs time", XLabel: "t", YLabel: "x"}
		fig.Series = append(fig.Series, Series{Name: "analytic", X: times, Y: report.Analytic.Position})
		for _, run := range report.Runs {
			fig.Series = append(fig.Series, Series{Name: run.Scheme, X: times, Y: run.Trajectory.Position})
		}
		figs = append(figs, fig)
	}
	if toggles.Velocity {
		fig := Figure{Name: "velocity", Title: "Velocity vs time", XLabel: "t", YLabel: "v"}
		fig.Series = append(fig.Series, Series{Name: "analytic", X: times, Y: report.Analytic.Velocity})
		for _, run := range report.Runs {
			fig.Series = append(fig.Series, Series{Name: run.Scheme, X: times, Y: run.Trajectory.Velocity})
		}
		figs = append(figs, fig)
	}
	if toggles.Error {
		fig := Figure{Name: "error", Title: "Global error in position", XLabel: "t", YLabel: "x_exact - x"}
		for _, run := range report.Runs {
			fig.Series = append(fig.Series, Series{Name: run.Scheme, X: times, Y: run.Error.Position})
		}
		figs = append(figs, fig)

		fig = Figure{Name: "error_v", Title: "Global error in velocity", XLabel: "t", YLabel: "v_exact - v"}
		for _, run := range report.Runs {
			fig.Series = append(fig.Series, Series{Name: run.Scheme, X: times, Y: run.Error.Velocity})
		}
		figs = append(figs, fig)
	}
	if toggles.Energy {
		fig := Figure{Name: "energy", Title: "Energy x² + v²", XLabel: "t", YLabel: "E"}
		fig.Series = append(fig.Series, Series{Name: "analytic", X: times, Y: report.AnalyticEnergy})
		for _, run := range report.Runs {
			fig.Series = append(fig.Series, Series{Name: run.Scheme, X: times, Y: run.Energy})
		}
		figs = append(figs, fig)
	}
	if toggles.Phase {
		fig := Figure{Name: "phase", Title: "Phase space", XLabel: "x", YLabel: "v"}
		fig.Series = append(fig.Series, Series{Name: "analytic", X: report.Analytic.Position, Y: report.Analytic.Velocity})
		for _, run := range report.Runs {
			fig.Series = append(fig.Series, Series{Name: run.Scheme, X: run.Trajectory.Position, Y: run.Trajectory.Velocity})
		}
		figs = append(figs, fig)
	}
	if toggles.Truncation && report.Truncation != nil {
		figs = append(figs, TruncationFigure(report.Truncation))
	}
	return figs
}

// TruncationFigure plots maximum error against step size on log axes.
func TruncationFigure(samples *analysis.TruncationSamples) Figure {
	return Figure{
		Name:   "truncation",
		Title:  "Truncation error (" + samples.Scheme + ")",
		XLabel: "h",
		YLabel: "max |error|",
		Kind:   KindScatter,
		LogXY:  true,
		Series: []Series{{Name: samples.Scheme, X: samples.StepSizes, Y: samples.MaxErrors}},
	}
}

// PhaseSeries converts a phase figure for analysis.PhaseToASCII. Marks
// cycle through a fixed set.
func PhaseSeries(fig Figure) []analysis.PhaseSeries {
	marks := []rune{'·', 'e', 'i', 's', 'r'}
	out := make([]analysis.PhaseSeries, 0, len(fig.Series))
	for k, s := range fig.Series {
		ps := analysis.PhaseSeries{Name: s.Name, Mark: marks[k%len(marks)]}
		for i := range s.X {
			if i >= len(s.Y) {
				break
			}
			ps.Points = append(ps.Points, analysis.PhasePoint{X: s.X[i], V: s.Y[i]})
		}
		out = append(out, ps)
	}
	return out
}
