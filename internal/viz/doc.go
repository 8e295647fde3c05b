// Package viz renders oscillator experiments.
//
// A [Figure] is a titled set of (x, y) series built from a report by
// [Figures]. Figures can be written as PNG or SVG images with gonum/plot,
// collected into one interactive HTML page with go-echarts, or drawn in the
// terminal with asciigraph. Summary tables are styled with lipgloss.
//
//	figs := viz.Figures(report, cfg.Plots)
//	paths, err := viz.Render(dir, "png", figs)
package viz
