package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

type PhasePoint struct {
	X, V float64
}

// PhaseSeries is one trajectory in the (x, v) plane. Mark is the rune used
// when the series is drawn as text.
type PhaseSeries struct {
	Name   string
	Mark   rune
	Points []PhasePoint
}

// PhasePoints returns the (position, velocity) pair of every sample, or nil
// when traj fails Validate.
func PhasePoints(traj *dynamo.Trajectory) []PhasePoint {
	if traj.Validate() != nil {
		return nil
	}
	points := make([]PhasePoint, traj.Len())
	for i := range points {
		points[i] = PhasePoint{X: traj.Position[i], V: traj.Velocity[i]}
	}
	return points
}

// PhaseToASCII draws every series onto one width x height canvas. Later
// series overwrite earlier ones where they overlap. Axes are drawn when the
// origin is in view.
func PhaseToASCII(width, height int, series ...PhaseSeries) string {
	if width < 2 || height < 2 {
		return ""
	}

	var xs, vs []float64
	for _, s := range series {
		for _, p := range s.Points {
			xs = append(xs, p.X)
			vs = append(vs, p.V)
		}
	}
	if len(xs) == 0 {
		return ""
	}

	minX, maxX := padded(floats.Min(xs), floats.Max(xs))
	minV, maxV := padded(floats.Min(vs), floats.Max(vs))
	rangeX := maxX - minX
	rangeV := maxV - minV

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minV <= 0 && maxV >= 0 {
		row := height - 1 - int(-minV/rangeV*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
				continue
			}
			canvas[row][col] = '─'
		}
	}

	for _, s := range series {
		mark := s.Mark
		if mark == 0 {
			mark = '•'
		}
		for _, p := range s.Points {
			col := int((p.X - minX) / rangeX * float64(width-1))
			row := height - 1 - int((p.V-minV)/rangeV*float64(height-1))
			if row >= 0 && row < height && col >= 0 && col < width {
				canvas[row][col] = mark
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// padded widens [lo, hi] by 10% on each side, treating a flat range as
// unit width.
func padded(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}
