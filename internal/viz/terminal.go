package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/eulerlab/internal/analysis"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.White,
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
}

// TerminalPlot draws fig with asciigraph. Phase figures are drawn as a
// scatter of marks instead, since asciigraph only plots y against index.
func TerminalPlot(fig Figure, width, height int) string {
	if fig.Name == "phase" {
		var sb strings.Builder
		sb.WriteString(fig.Title + "\n")
		sb.WriteString(analysis.PhaseToASCII(width, height, PhaseSeries(fig)...))
		for _, s := range PhaseSeries(fig) {
			fmt.Fprintf(&sb, "  %c %s", s.Mark, s.Name)
		}
		sb.WriteString("\n")
		return sb.String()
	}

	data := make([][]float64, 0, len(fig.Series))
	names := make([]string, 0, len(fig.Series))
	for _, s := range fig.Series {
		if len(s.Y) == 0 {
			continue
		}
		data = append(data, s.Y)
		names = append(names, s.Name)
	}
	if len(data) == 0 {
		return ""
	}

	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fig.Title),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
	) + "\n"
}

// TruncationPlot draws the maximum error against the halving index k.
func TruncationPlot(samples *analysis.TruncationSamples, height int) string {
	if samples == nil || samples.Len() == 0 {
		return ""
	}
	return asciigraph.Plot(samples.MaxErrors,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("max |error| vs k (h = %g / 2^k)", samples.StepSizes[0])),
		asciigraph.Precision(4),
	) + "\n"
}
