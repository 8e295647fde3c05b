package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/solver"
)

const defaultTruncationSamples = 5

// TruncationSamples pairs each step size with the maximum absolute position
// error it produced. StepSizes[k] = h0 / 2^k.
type TruncationSamples struct {
	Scheme    string    `json:"scheme"`
	StepSizes []float64 `json:"step_sizes"`
	MaxErrors []float64 `json:"max_errors"`
}

func (s *TruncationSamples) Len() int { return len(s.StepSizes) }

type truncationConfig struct {
	samples int
	scheme  string
}

type TruncationOption func(*truncationConfig)

// WithSamples sets how many halvings of h0 are measured. Values below 2
// are rejected by TruncationError.
func WithSamples(n int) TruncationOption {
	return func(c *truncationConfig) { c.samples = n }
}

// WithScheme measures a scheme other than explicit Euler.
func WithScheme(name string) TruncationOption {
	return func(c *truncationConfig) { c.scheme = name }
}

// TruncationError integrates over [0, duration] at h0, h0/2, h0/4, ... and
// records max |analytic - numeric| in position for each step size. Step
// sizes are evaluated concurrently; the result is ordered by k.
func TruncationError(h0, duration, x0, v0 float64, opts ...TruncationOption) (*TruncationSamples, error) {
	cfg := truncationConfig{samples: defaultTruncationSamples, scheme: string(solver.SchemeExplicit)}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.samples < 2 {
		return nil, &dynamo.DomainError{Op: "truncation", Field: "samples", Value: float64(cfg.samples), Wrapped: dynamo.ErrInvalidStep}
	}
	if math.IsNaN(h0) || h0 <= 0 {
		return nil, &dynamo.DomainError{Op: "truncation", Field: "h0", Value: h0, Wrapped: dynamo.ErrInvalidStep}
	}
	numeric, err := solver.Lookup(cfg.scheme)
	if err != nil {
		return nil, fmt.Errorf("truncation: %w", err)
	}

	r := dynamo.TimeRange{Start: 0, End: duration}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("truncation: %w", err)
	}

	samples := &TruncationSamples{
		Scheme:    cfg.scheme,
		StepSizes: make([]float64, cfg.samples),
		MaxErrors: make([]float64, cfg.samples),
	}
	errs := make([]error, cfg.samples)

	dynamo.ParallelFor(cfg.samples, 1, func(start, end int) {
		for k := start; k < end; k++ {
			h := h0 / math.Pow(2, float64(k))
			samples.StepSizes[k] = h
			samples.MaxErrors[k], errs[k] = maxPositionError(numeric, r, h, x0, v0)
		}
	})

	for k, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("truncation: h=%g: %w", samples.StepSizes[k], err)
		}
	}
	return samples, nil
}

func maxPositionError(numeric solver.Func, r dynamo.TimeRange, h, x0, v0 float64) (float64, error) {
	exact, err := solver.Analytic(r, h, x0, v0)
	if err != nil {
		return 0, err
	}
	approx, err := numeric(r, h, x0, v0)
	if err != nil {
		return 0, err
	}
	diff, err := GlobalError(exact, approx)
	if err != nil {
		return 0, err
	}
	return floats.Norm(diff.Position, math.Inf(1)), nil
}

// Ratios returns MaxErrors[k+1] / MaxErrors[k]. A first-order method tends
// to 0.5.
func Ratios(s *TruncationSamples) []float64 {
	if s == nil || len(s.MaxErrors) < 2 {
		return nil
	}
	ratios := make([]float64, len(s.MaxErrors)-1)
	for k := range ratios {
		if s.MaxErrors[k] == 0 {
			ratios[k] = math.NaN()
			continue
		}
		ratios[k] = s.MaxErrors[k+1] / s.MaxErrors[k]
	}
	return ratios
}

// ConvergenceOrder is the least-squares slope of log(max error) against
// log(h). Samples with zero error are skipped; NaN means fewer than two
// usable samples.
func ConvergenceOrder(s *TruncationSamples) float64 {
	if s == nil {
		return math.NaN()
	}
	var logH, logErr []float64
	for k, e := range s.MaxErrors {
		if e <= 0 || s.StepSizes[k] <= 0 {
			continue
		}
		logH = append(logH, math.Log(s.StepSizes[k]))
		logErr = append(logErr, math.Log(e))
	}
	if len(logH) < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(logH, logErr, nil, false)
	return slope
}
