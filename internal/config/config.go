package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = 0.005
	DefaultSteps         = 2000
	DefaultStepsPerFrame = 5
	DefaultCutoff        = 8.5
	DefaultSkin          = 1.0
	DefaultHistoryLen    = 600
	DefaultRDFBins       = 100
)

type Config struct {
	NumParticles  int     `yaml:"num_particles"`
	NumTypes      int     `yaml:"num_types"`
	TypeRatio     float64 `yaml:"type_ratio"` // fraction assigned type 1
	Layout        string  `yaml:"layout"`
	Temperature   float64 `yaml:"temperature"` // Kelvin
	BoxWidth      float64 `yaml:"box_width"`   // angstroms
	BoxHeight     float64 `yaml:"box_height"`
	Dt            float64 `yaml:"dt"` // internal time units
	Steps         int     `yaml:"steps"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
	Seed          int64   `yaml:"seed"`

	Masses []float64 `yaml:"masses"` // per type, amu
	Radius float64   `yaml:"radius"` // placement margin, angstroms

	Potential  PotentialConfig  `yaml:"potential"`
	Boundary   string           `yaml:"boundary"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
	Barostat   BarostatConfig   `yaml:"barostat"`
	Sampling   SamplingConfig   `yaml:"sampling"`
	Relax      RelaxConfig      `yaml:"relax"`

	MinDistance float64 `yaml:"min_distance"`
	MaxSpeed    float64 `yaml:"max_speed"`
}

type PotentialConfig struct {
	Epsilon      [][]float64 `yaml:"epsilon"` // NumTypes x NumTypes, eV
	Sigma        [][]float64 `yaml:"sigma"`   // NumTypes x NumTypes, angstroms
	EpsilonScale float64     `yaml:"epsilon_scale"`
	SigmaScale   float64     `yaml:"sigma_scale"`
	Cutoff       float64     `yaml:"cutoff"`
	Skin         float64     `yaml:"skin"`

	Charges     []float64 `yaml:"charges"` // per type, elementary charge
	ChargeScale float64   `yaml:"charge_scale"`
}

type ThermostatConfig struct {
	Kind     string  `yaml:"kind"` // none|rescale|langevin|berendsen|nose-hoover
	Coupling float64 `yaml:"coupling"`
	Gamma    float64 `yaml:"gamma"`
	Adaptive bool    `yaml:"adaptive"`
	Tau      float64 `yaml:"tau"`
	Q        float64 `yaml:"q"`
}

type BarostatConfig struct {
	Kind     string  `yaml:"kind"`     // none|berendsen|parrinello-rahman|monte-carlo
	Pressure float64 `yaml:"pressure"` // eV per square angstrom
	Tau      float64 `yaml:"tau"`
	Kappa    float64 `yaml:"kappa"`
	BoxMass  float64 `yaml:"box_mass"`
	MaxLnV   float64 `yaml:"max_ln_v"`
	Stride   int     `yaml:"stride"`
}

type SamplingConfig struct {
	Interval   float64 `yaml:"interval"` // time units between samples
	HistoryLen int     `yaml:"history_len"`
	RDFBins    int     `yaml:"rdf_bins"`
	RDFRMax    float64 `yaml:"rdf_rmax"`
}

type RelaxConfig struct {
	Enabled  bool    `yaml:"enabled"`
	MaxSteps int     `yaml:"max_steps"`
	ForceTol float64 `yaml:"force_tol"`
}

// DefaultConfig returns the single-species argon baseline.
func DefaultConfig() *Config {
	return &Config{
		NumParticles:  100,
		NumTypes:      1,
		Layout:        "random",
		Temperature:   90,
		BoxWidth:      60,
		BoxHeight:     60,
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		StepsPerFrame: DefaultStepsPerFrame,
		Seed:          1,
		Masses:        []float64{39.948},
		Radius:        1.7,
		Potential: PotentialConfig{
			Epsilon:      [][]float64{{0.0104}},
			Sigma:        [][]float64{{3.4}},
			EpsilonScale: 1,
			SigmaScale:   1,
			Cutoff:       DefaultCutoff,
			Skin:         DefaultSkin,
			Charges:      []float64{0},
			ChargeScale:  1,
		},
		Boundary:   "periodic",
		Thermostat: ThermostatConfig{Kind: "none", Coupling: 0.1, Gamma: 1.0, Tau: 0.5, Q: 10},
		Barostat:   BarostatConfig{Kind: "none", Tau: 1.0, Kappa: 10, BoxMass: 1e4, MaxLnV: 0.02, Stride: 20},
		Sampling: SamplingConfig{
			Interval:   0.05,
			HistoryLen: DefaultHistoryLen,
			RDFBins:    DefaultRDFBins,
			RDFRMax:    15,
		},
		Relax:       RelaxConfig{Enabled: true, MaxSteps: 2000, ForceTol: 5e-3},
		MinDistance: 1.0,
		MaxSpeed:    50,
	}
}

// Load reads a yaml config layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Charged reports whether any particle type carries a nonzero charge.
func (c *Config) Charged() bool {
	for _, q := range c.Potential.Charges {
		if q != 0 {
			return true
		}
	}
	return false
}

// Validate checks construction-time invariants. The engine does not
// re-validate per step, so malformed configs must be rejected here.
func (c *Config) Validate() error {
	if c.NumParticles <= 0 {
		return fmt.Errorf("num_particles must be positive, got %d", c.NumParticles)
	}
	if c.NumTypes <= 0 {
		return fmt.Errorf("num_types must be positive, got %d", c.NumTypes)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.BoxWidth <= 0 || c.BoxHeight <= 0 {
		return fmt.Errorf("box must have positive extent, got %.2f x %.2f", c.BoxWidth, c.BoxHeight)
	}
	if len(c.Masses) != c.NumTypes {
		return fmt.Errorf("masses: expected %d entries, got %d", c.NumTypes, len(c.Masses))
	}
	for i, m := range c.Masses {
		if m <= 0 {
			return fmt.Errorf("masses[%d] must be positive, got %g", i, m)
		}
	}
	if len(c.Potential.Charges) != c.NumTypes {
		return fmt.Errorf("charges: expected %d entries, got %d", c.NumTypes, len(c.Potential.Charges))
	}
	if err := checkMatrix("epsilon", c.Potential.Epsilon, c.NumTypes); err != nil {
		return err
	}
	if err := checkMatrix("sigma", c.Potential.Sigma, c.NumTypes); err != nil {
		return err
	}
	if c.Potential.Cutoff <= 0 {
		return fmt.Errorf("cutoff must be positive, got %g", c.Potential.Cutoff)
	}
	if c.Sampling.Interval < 0 {
		return fmt.Errorf("sampling interval must be non-negative, got %g", c.Sampling.Interval)
	}
	if c.Sampling.HistoryLen <= 0 {
		return fmt.Errorf("history_len must be positive, got %d", c.Sampling.HistoryLen)
	}
	if c.Sampling.RDFBins <= 0 {
		return fmt.Errorf("rdf_bins must be positive, got %d", c.Sampling.RDFBins)
	}
	return nil
}

func checkMatrix(name string, m [][]float64, n int) error {
	if len(m) != n {
		return fmt.Errorf("%s: expected %dx%d matrix, got %d rows", name, n, n, len(m))
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("%s: row %d has %d entries, expected %d", name, i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] != m[j][i] {
				return fmt.Errorf("%s: matrix not symmetric at [%d][%d]", name, i, j)
			}
		}
	}
	return nil
}
