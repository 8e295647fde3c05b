package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

// GlobalError returns analytic[i] - numeric[i] for position and velocity.
// Both trajectories must share one length; nothing is truncated or padded.
func GlobalError(analytic, numeric *dynamo.Trajectory) (*dynamo.ErrorTrajectory, error) {
	if analytic == nil || numeric == nil {
		return nil, dynamo.ErrInvalidTrajectory
	}
	if err := analytic.Validate(); err != nil {
		return nil, err
	}
	if err := numeric.Validate(); err != nil {
		return nil, err
	}
	if analytic.Len() != numeric.Len() {
		return nil, dynamo.LengthError("global error", analytic.Len(), numeric.Len())
	}

	n := analytic.Len()
	out := &dynamo.ErrorTrajectory{
		Times:    make([]float64, n),
		Position: make([]float64, n),
		Velocity: make([]float64, n),
	}
	copy(out.Times, analytic.Times)
	floats.SubTo(out.Position, analytic.Position, numeric.Position)
	floats.SubTo(out.Velocity, analytic.Velocity, numeric.Velocity)
	return out, nil
}

// FinalError is the magnitude of the error vector at the last sample.
func FinalError(diff *dynamo.ErrorTrajectory) float64 {
	if diff == nil || diff.Len() == 0 {
		return 0
	}
	last := diff.Len() - 1
	return math.Hypot(diff.Position[last], diff.Velocity[last])
}

// MaxPositionError is max |analytic - numeric| over the position samples.
func MaxPositionError(diff *dynamo.ErrorTrajectory) float64 {
	if diff == nil || diff.Len() == 0 {
		return 0
	}
	return floats.Norm(diff.Position, math.Inf(1))
}
