package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for oscillator computations.
var (
	// ErrInvalidStep indicates a non-positive, non-finite, or oversized step size.
	ErrInvalidStep = errors.New("dynamo: step size must be positive and fit the time range")

	// ErrInvalidRange indicates an empty or non-finite time range (end <= start).
	ErrInvalidRange = errors.New("dynamo: time range must satisfy end > start")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrLengthMismatch indicates trajectories that do not share a grid.
	ErrLengthMismatch = errors.New("dynamo: trajectory length mismatch")

	// ErrInvalidTrajectory indicates a nil or internally inconsistent trajectory.
	ErrInvalidTrajectory = errors.New("dynamo: invalid trajectory")

	// ErrNotLinear indicates an implicit solve on a system without linear coefficients.
	ErrNotLinear = errors.New("dynamo: system does not expose linear coefficients")

	// ErrSingular indicates the implicit update matrix I - hA has no inverse.
	ErrSingular = errors.New("dynamo: implicit update matrix is singular")

	// ErrUnknownScheme indicates a scheme name that is not registered.
	ErrUnknownScheme = errors.New("dynamo: unknown integration scheme")
)

// DomainError wraps an error with the operation and input that caused it.
type DomainError struct {
	Op      string
	Field   string
	Value   float64
	Wrapped error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %v", e.Op, e.Field, e.Value, e.Wrapped)
}

func (e *DomainError) Unwrap() error {
	return e.Wrapped
}

// LengthError reports two trajectories whose lengths differ.
func LengthError(op string, want, got int) error {
	return fmt.Errorf("%s: %w (%d vs %d)", op, ErrLengthMismatch, want, got)
}

// SimError reports a step that produced an unusable state.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrInvalidState
}
