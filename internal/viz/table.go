package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/storage"
)

// driftBand is the relative energy drift treated as conserved.
const driftBand = 0.06

// SchemeTable summarizes each scheme of a run.
func SchemeTable(summaries []storage.SchemeSummary) string {
	t := newTable("scheme", "final error", "max |Δx|", "energy drift", "energy band", "stability")
	for _, s := range summaries {
		t.Row(
			s.Scheme,
			fmt.Sprintf("%.3e", s.FinalError),
			fmt.Sprintf("%.3e", s.MaxPosError),
			driftStyle(s.EnergyDrift).Render(fmt.Sprintf("%+.4f", s.EnergyDrift)),
			fmt.Sprintf("[%.4f, %.4f]", s.EnergyMin, s.EnergyMax),
			fmt.Sprintf("%.2f", s.Metrics["stability"]),
		)
	}
	return t.String()
}

// TruncationTable lists step size, maximum error and the ratio to the
// previous sample.
func TruncationTable(samples *analysis.TruncationSamples) string {
	t := newTable("k", "h", "max |error|", "ratio")
	ratios := analysis.Ratios(samples)
	for k := 0; k < samples.Len(); k++ {
		ratio := "-"
		if k > 0 {
			ratio = fmt.Sprintf("%.3f", ratios[k-1])
		}
		t.Row(fmt.Sprint(k), fmt.Sprintf("%g", samples.StepSizes[k]), fmt.Sprintf("%.4e", samples.MaxErrors[k]), ratio)
	}
	return t.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
}

func driftStyle(drift float64) lipgloss.Style {
	switch {
	case drift > driftBand:
		return Growing
	case drift < -driftBand:
		return Decaying
	default:
		return Conserved
	}
}
