package viz

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/eulerlab/internal/logger"
)

const (
	imageWidth  = 8 * vg.Inch
	imageHeight = 5 * vg.Inch
)

// SaveImage writes fig to path. The extension picks the format (.png,
// .svg, ...).
func SaveImage(fig Figure, path string) error {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if fig.LogXY {
		p.X.Scale = plot.LogScale{}
		p.Y.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	args := make([]any, 0, 2*len(fig.Series))
	for _, s := range fig.Series {
		xys, err := toXYs(s)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", fig.Name, s.Name, err)
		}
		args = append(args, s.Name, xys)
	}

	var err error
	switch fig.Kind {
	case KindScatter:
		err = plotutil.AddLinePoints(p, args...)
	default:
		err = plotutil.AddLines(p, args...)
	}
	if err != nil {
		return err
	}

	return p.Save(imageWidth, imageHeight, path)
}

// Render writes figs into dir. For "png" and "svg" each figure gets its own
// file; "html" produces a single report.html.
func Render(dir, format string, figs []Figure) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	switch format {
	case "png", "svg":
		paths := make([]string, 0, len(figs))
		for _, fig := range figs {
			path := filepath.Join(dir, fig.Name+"."+format)
			if err := SaveImage(fig, path); err != nil {
				return paths, err
			}
			logger.L().Debug("viz.saved", "path", path)
			paths = append(paths, path)
		}
		return paths, nil
	case "html":
		path := filepath.Join(dir, "report.html")
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if err := WriteHTML(f, "Harmonic oscillator", figs); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		logger.L().Debug("viz.saved", "path", path)
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func toXYs(s Series) (plotter.XYs, error) {
	if len(s.X) != len(s.Y) {
		return nil, fmt.Errorf("series has %d x and %d y values", len(s.X), len(s.Y))
	}
	xys := make(plotter.XYs, len(s.X))
	for i := range s.X {
		xys[i].X = s.X[i]
		xys[i].Y = s.Y[i]
	}
	return xys, nil
}
