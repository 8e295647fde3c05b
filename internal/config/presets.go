package config

import "sort"

// Presets are complete configurations for common runs. "euler" and
// "phasespace" reproduce the two classic oscillator studies.
var Presets = map[string]*Config{
	"euler": {
		Start: 0, End: 20, Dt: 0.1, X0: 1, V0: 0,
		Schemes:    []string{"explicit", "implicit", "symplectic"},
		Truncation: TruncationConfig{H0: 0.1, Duration: 20, Samples: 5},
		Plots:      PlotConfig{Position: true, Error: true, Energy: true, Truncation: true},
	},
	"phasespace": {
		Start: 0, End: 2, Dt: 0.1, X0: 1, V0: 0,
		Schemes:    []string{"explicit", "implicit", "symplectic"},
		Truncation: TruncationConfig{H0: 0.1, Duration: 2, Samples: 5},
		Plots:      PlotConfig{Phase: true, Energy: true},
	},
	"fine": {
		Start: 0, End: 20, Dt: 0.01, X0: 1, V0: 0,
		Schemes:    []string{"explicit", "implicit", "symplectic", "rk4"},
		Truncation: TruncationConfig{H0: 0.01, Duration: 20, Samples: 4},
		Plots:      PlotConfig{Position: true, Error: true, Energy: true},
	},
	"coarse": {
		Start: 0, End: 20, Dt: 0.5, X0: 1, V0: 0,
		Schemes:    []string{"explicit", "implicit", "symplectic"},
		Truncation: TruncationConfig{H0: 0.5, Duration: 20, Samples: 6},
		Plots:      PlotConfig{Position: true, Energy: true, Phase: true, Truncation: true},
	},
}

// GetPreset returns a copy of the named preset with default output
// settings, or nil.
func GetPreset(name string) *Config {
	preset, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *preset
	cfg.Schemes = append([]string(nil), preset.Schemes...)
	cfg.Output = DefaultConfig().Output
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
