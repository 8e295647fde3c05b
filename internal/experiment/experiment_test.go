package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/eulerlab/internal/config"
	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"explicit", "implicit", "rk4", "symplectic"}, r.ListIntegrators())

	for _, name := range r.ListIntegrators() {
		integ, err := r.GetIntegrator(name)
		require.NoError(t, err)
		assert.NotNil(t, integ)
	}

	_, err := r.GetIntegrator("analytic")
	assert.ErrorIs(t, err, dynamo.ErrUnknownScheme)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("euler")
	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 201, report.Analytic.Len())
	require.Len(t, report.Runs, 3)

	explicit := report.Run("explicit")
	implicit := report.Run("implicit")
	symplectic := report.Run("symplectic")
	require.NotNil(t, explicit)
	require.NotNil(t, implicit)
	require.NotNil(t, symplectic)
	assert.Nil(t, report.Run("rk4"))

	for _, run := range report.Runs {
		assert.Equal(t, 201, run.Trajectory.Len())
		assert.Equal(t, 201, run.Error.Len())
		assert.Len(t, run.Energy, 201)
		assert.Zero(t, run.Error.Position[0])
		assert.Contains(t, run.Metrics, "energy_drift")
		assert.Contains(t, run.Metrics, "stability")
	}

	assert.Greater(t, explicit.EnergyDrift, 0.0)
	assert.Less(t, implicit.EnergyDrift, 0.0)
	assert.Less(t, math.Abs(symplectic.EnergyDrift), 0.06)
	assert.Greater(t, explicit.FinalError, symplectic.FinalError)
	assert.Greater(t, symplectic.Metrics["stability"], explicit.Metrics["stability"])

	require.NotNil(t, report.Truncation)
	assert.Equal(t, 5, report.Truncation.Len())
	assert.InDelta(t, 1.0, report.Order, 0.5)

	for _, e := range report.AnalyticEnergy {
		assert.InDelta(t, 1.0, e, 1e-12)
	}
}

func TestExperimentRunErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Schemes = []string{"explicit", "heun"}
	_, err := New(cfg).Run(context.Background())
	assert.ErrorIs(t, err, dynamo.ErrUnknownScheme)

	cfg = config.DefaultConfig()
	cfg.Dt = -1
	_, err = New(cfg).Run(context.Background())
	assert.ErrorIs(t, err, dynamo.ErrInvalidStep)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(config.DefaultConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
