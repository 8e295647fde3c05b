package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eulerlab/internal/dynamo"
)

const (
	DefaultStart    = 0.0
	DefaultEnd      = 20.0
	DefaultDt       = 0.1
	DefaultX0       = 1.0
	DefaultV0       = 0.0
	DefaultSamples  = 5
	DefaultDataDir  = ".eulerlab"
	DefaultFormat   = "png"
	DefaultDuration = 20.0
)

// Formats accepted for rendered plots.
var Formats = []string{"png", "svg", "html"}

type Config struct {
	Start      float64          `yaml:"start"`
	End        float64          `yaml:"end"`
	Dt         float64          `yaml:"dt"`
	X0         float64          `yaml:"x0"`
	V0         float64          `yaml:"v0"`
	Schemes    []string         `yaml:"schemes"`
	Truncation TruncationConfig `yaml:"truncation"`
	Plots      PlotConfig       `yaml:"plots"`
	Output     OutputConfig     `yaml:"output"`
}

type TruncationConfig struct {
	H0       float64 `yaml:"h0"`
	Duration float64 `yaml:"duration"`
	Samples  int     `yaml:"samples"`
}

// PlotConfig toggles each family of curves.
type PlotConfig struct {
	Position   bool `yaml:"position"`
	Velocity   bool `yaml:"velocity"`
	Error      bool `yaml:"error"`
	Energy     bool `yaml:"energy"`
	Phase      bool `yaml:"phase"`
	Truncation bool `yaml:"truncation"`
}

type OutputConfig struct {
	Dir     string `yaml:"dir"`
	DataDir string `yaml:"data_dir"`
	Format  string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Start:   DefaultStart,
		End:     DefaultEnd,
		Dt:      DefaultDt,
		X0:      DefaultX0,
		V0:      DefaultV0,
		Schemes: []string{"explicit", "implicit", "symplectic"},
		Truncation: TruncationConfig{
			H0:       DefaultDt,
			Duration: DefaultDuration,
			Samples:  DefaultSamples,
		},
		Plots: PlotConfig{
			Position:   true,
			Error:      true,
			Energy:     true,
			Truncation: true,
		},
		Output: OutputConfig{
			Dir:     "plots",
			DataDir: DefaultDataDir,
			Format:  DefaultFormat,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Range() dynamo.TimeRange {
	return dynamo.TimeRange{Start: c.Start, End: c.End}
}

// Validate checks the run parameters before any integration happens.
func (c *Config) Validate() error {
	if _, err := dynamo.NewGrid(c.Range(), c.Dt); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for name, v := range map[string]float64{"x0": c.X0, "v0": c.V0} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: %w", &dynamo.DomainError{Op: "config", Field: name, Value: v, Wrapped: dynamo.ErrInvalidState})
		}
	}
	if len(c.Schemes) == 0 {
		return fmt.Errorf("config: no schemes: %w", dynamo.ErrUnknownScheme)
	}
	if c.Truncation.Samples < 2 {
		return fmt.Errorf("config: truncation samples %d, need at least 2: %w", c.Truncation.Samples, dynamo.ErrInvalidStep)
	}
	if _, err := dynamo.NewGrid(dynamo.TimeRange{End: c.Truncation.Duration}, c.Truncation.H0); err != nil {
		return fmt.Errorf("config: truncation: %w", err)
	}
	if !validFormat(c.Output.Format) {
		return fmt.Errorf("config: unknown format %q (want %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// EnablePlots switches on the named plot families, replacing the current
// selection. "all" enables every family.
func (c *Config) EnablePlots(names []string) error {
	var p PlotConfig
	for _, name := range names {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "position":
			p.Position = true
		case "velocity":
			p.Velocity = true
		case "error":
			p.Error = true
		case "energy":
			p.Energy = true
		case "phase":
			p.Phase = true
		case "truncation":
			p.Truncation = true
		case "all":
			p = PlotConfig{true, true, true, true, true, true}
		case "":
		default:
			return fmt.Errorf("unknown plot %q", name)
		}
	}
	c.Plots = p
	return nil
}

func validFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
