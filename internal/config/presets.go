package config

import "sort"

// Presets are named scenarios layered over DefaultConfig. Each builder
// returns a fresh Config so callers can mutate freely.
var Presets = map[string]func() *Config{
	"argon": func() *Config {
		cfg := DefaultConfig()
		cfg.NumParticles = 200
		cfg.BoxWidth, cfg.BoxHeight = 80, 80
		cfg.Temperature = 90
		cfg.Thermostat = ThermostatConfig{Kind: "berendsen", Tau: 0.5}
		return cfg
	},
	"mixture": func() *Config {
		cfg := DefaultConfig()
		cfg.NumParticles = 300
		cfg.NumTypes = 2
		cfg.TypeRatio = 0.5
		cfg.Layout = "separated-lr"
		cfg.BoxWidth, cfg.BoxHeight = 100, 100
		cfg.Temperature = 120
		cfg.Masses = []float64{39.948, 20.18}
		cfg.Potential.Epsilon = [][]float64{
			{0.0104, 0.0060},
			{0.0060, 0.0031},
		}
		cfg.Potential.Sigma = [][]float64{
			{3.40, 3.08},
			{3.08, 2.75},
		}
		cfg.Potential.Charges = []float64{0, 0}
		cfg.Thermostat = ThermostatConfig{Kind: "langevin", Gamma: 0.5}
		return cfg
	},
	"salt": func() *Config {
		cfg := DefaultConfig()
		cfg.NumParticles = 128
		cfg.NumTypes = 2
		cfg.TypeRatio = 0.5
		cfg.Layout = "random"
		cfg.BoxWidth, cfg.BoxHeight = 50, 50
		cfg.Temperature = 300
		cfg.Masses = []float64{22.99, 35.45}
		cfg.Potential.Epsilon = [][]float64{
			{0.005, 0.005},
			{0.005, 0.005},
		}
		cfg.Potential.Sigma = [][]float64{
			{2.35, 2.80},
			{2.80, 3.30},
		}
		cfg.Potential.Charges = []float64{1, -1}
		cfg.Potential.Cutoff = 12
		cfg.Thermostat = ThermostatConfig{Kind: "langevin", Gamma: 1.0, Adaptive: true}
		return cfg
	},
	"gas": func() *Config {
		cfg := DefaultConfig()
		cfg.NumParticles = 150
		cfg.BoxWidth, cfg.BoxHeight = 150, 150
		cfg.Temperature = 400
		cfg.Boundary = "reflective"
		cfg.Relax.Enabled = false
		return cfg
	},
	"npt": func() *Config {
		cfg := DefaultConfig()
		cfg.NumParticles = 200
		cfg.BoxWidth, cfg.BoxHeight = 90, 90
		cfg.Temperature = 120
		cfg.Thermostat = ThermostatConfig{Kind: "berendsen", Tau: 0.5}
		cfg.Barostat = BarostatConfig{Kind: "berendsen", Pressure: 1e-4, Tau: 2.0, Kappa: 10, Stride: 20}
		return cfg
	},
	"cluster": func() *Config {
		cfg := DefaultConfig()
		cfg.NumParticles = 80
		cfg.Layout = "center-cluster"
		cfg.BoxWidth, cfg.BoxHeight = 120, 120
		cfg.Temperature = 30
		cfg.Boundary = "reflective"
		cfg.Thermostat = ThermostatConfig{Kind: "rescale", Coupling: 0.05}
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
