package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var euler = dynamo.TimeRange{Start: 0, End: 20}

func TestGlobalErrorIdentical(t *testing.T) {
	a, err := solver.Analytic(euler, 0.1, 1, 0)
	require.NoError(t, err)

	diff, err := GlobalError(a, a)
	require.NoError(t, err)
	require.Equal(t, a.Len(), diff.Len())
	for i := 0; i < diff.Len(); i++ {
		assert.Zero(t, diff.Position[i])
		assert.Zero(t, diff.Velocity[i])
	}
	assert.Equal(t, a.Times, diff.Times)
}

func TestGlobalErrorStartsAtZero(t *testing.T) {
	a, err := solver.Analytic(euler, 0.1, 1, 0)
	require.NoError(t, err)

	for _, name := range []string{"explicit", "implicit", "symplectic"} {
		t.Run(name, func(t *testing.T) {
			n, err := solver.Solve(name, euler, 0.1, 1, 0)
			require.NoError(t, err)

			diff, err := GlobalError(a, n)
			require.NoError(t, err)
			assert.Equal(t, 0.0, diff.Position[0])
			assert.Equal(t, 0.0, diff.Velocity[0])
		})
	}
}

func TestGlobalErrorSigned(t *testing.T) {
	a := &dynamo.Trajectory{Times: []float64{0, 1}, Position: []float64{1, 2}, Velocity: []float64{0, 0}}
	n := &dynamo.Trajectory{Times: []float64{0, 1}, Position: []float64{1, 3}, Velocity: []float64{0.5, 0}}

	diff, err := GlobalError(a, n)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, -1}, diff.Position)
	assert.Equal(t, []float64{-0.5, 0}, diff.Velocity)
}

func TestGlobalErrorInvalid(t *testing.T) {
	a, err := solver.Analytic(euler, 0.1, 1, 0)
	require.NoError(t, err)
	short, err := solver.Explicit(dynamo.TimeRange{Start: 0, End: 2}, 0.1, 1, 0)
	require.NoError(t, err)

	_, err = GlobalError(a, short)
	assert.ErrorIs(t, err, dynamo.ErrLengthMismatch)
	assert.Contains(t, err.Error(), "201 vs 21")

	_, err = GlobalError(nil, a)
	assert.ErrorIs(t, err, dynamo.ErrInvalidTrajectory)

	broken := &dynamo.Trajectory{Times: []float64{0, 1}, Position: []float64{0}, Velocity: []float64{0, 0}}
	_, err = GlobalError(broken, broken)
	assert.ErrorIs(t, err, dynamo.ErrLengthMismatch)

	empty := &dynamo.Trajectory{}
	_, err = GlobalError(empty, empty)
	assert.ErrorIs(t, err, dynamo.ErrInvalidTrajectory)
}

func TestFinalAndMaxError(t *testing.T) {
	diff := &dynamo.ErrorTrajectory{
		Times:    []float64{0, 1, 2},
		Position: []float64{0, -4, 3},
		Velocity: []float64{0, 1, 4},
	}
	assert.Equal(t, 5.0, FinalError(diff))
	assert.Equal(t, 4.0, MaxPositionError(diff))

	assert.Zero(t, FinalError(&dynamo.ErrorTrajectory{}))
	assert.Zero(t, MaxPositionError(nil))
}

func TestTruncationErrorExplicit(t *testing.T) {
	samples, err := TruncationError(0.1, 20, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 5, samples.Len())
	assert.Equal(t, "explicit", samples.Scheme)

	for k, h := range samples.StepSizes {
		assert.Equal(t, 0.1/math.Pow(2, float64(k)), h)
	}
	for k := 1; k < samples.Len(); k++ {
		assert.LessOrEqual(t, samples.MaxErrors[k], samples.MaxErrors[k-1])
	}
	for _, r := range Ratios(samples) {
		assert.Greater(t, r, 0.3)
		assert.Less(t, r, 0.7)
	}

	order := ConvergenceOrder(samples)
	assert.InDelta(t, 1.0, order, 0.5)
}

func TestTruncationErrorOptions(t *testing.T) {
	samples, err := TruncationError(0.1, 2, 1, 0, WithSamples(3), WithScheme("rk4"))
	require.NoError(t, err)
	assert.Equal(t, 3, samples.Len())
	assert.Equal(t, "rk4", samples.Scheme)
	assert.Less(t, samples.MaxErrors[0], 1e-5)

	_, err = TruncationError(0.1, 20, 1, 0, WithSamples(1))
	assert.ErrorIs(t, err, dynamo.ErrInvalidStep)

	_, err = TruncationError(0, 20, 1, 0)
	assert.ErrorIs(t, err, dynamo.ErrInvalidStep)

	_, err = TruncationError(0.1, 0, 1, 0)
	assert.ErrorIs(t, err, dynamo.ErrInvalidRange)

	_, err = TruncationError(0.1, 20, 1, 0, WithScheme("heun"))
	assert.ErrorIs(t, err, dynamo.ErrUnknownScheme)
}

func TestRatiosAndOrder(t *testing.T) {
	s := &TruncationSamples{
		StepSizes: []float64{0.4, 0.2, 0.1},
		MaxErrors: []float64{1.6, 0.4, 0.1},
	}
	assert.Equal(t, []float64{0.25, 0.25}, Ratios(s))
	assert.InDelta(t, 2.0, ConvergenceOrder(s), 1e-9)

	assert.Nil(t, Ratios(&TruncationSamples{MaxErrors: []float64{1}}))
	assert.True(t, math.IsNaN(ConvergenceOrder(&TruncationSamples{StepSizes: []float64{1}, MaxErrors: []float64{0}})))
}

func TestPhasePoints(t *testing.T) {
	traj, err := solver.Symplectic(dynamo.TimeRange{Start: 0, End: 2}, 0.1, 1, 0)
	require.NoError(t, err)

	points := PhasePoints(traj)
	require.Len(t, points, traj.Len())
	assert.Equal(t, PhasePoint{X: 1, V: 0}, points[0])
	assert.Equal(t, PhasePoint{X: traj.Position[5], V: traj.Velocity[5]}, points[5])
	assert.Nil(t, PhasePoints(nil))

	traj.Velocity = traj.Velocity[:3]
	assert.Nil(t, PhasePoints(traj))
}

func TestPhaseToASCII(t *testing.T) {
	circle, err := solver.Analytic(dynamo.TimeRange{Start: 0, End: 7}, 0.05, 1, 0)
	require.NoError(t, err)

	out := PhaseToASCII(40, 20, PhaseSeries{Name: "analytic", Mark: '*', Points: PhasePoints(circle)})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.Equal(t, 40, len([]rune(line)))
	}
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "┼")

	assert.Empty(t, PhaseToASCII(40, 20))
	assert.Empty(t, PhaseToASCII(1, 20, PhaseSeries{Points: []PhasePoint{{1, 1}}}))
}
