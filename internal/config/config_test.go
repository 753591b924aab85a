package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NumParticles <= 0 {
		t.Error("num_particles should be positive")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("salt")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.NumTypes != 2 {
		t.Errorf("expected 2 types, got %d", cfg.NumTypes)
	}
	if cfg.Potential.Charges[0] != 1 || cfg.Potential.Charges[1] != -1 {
		t.Errorf("expected opposite unit charges, got %v", cfg.Potential.Charges)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s: nil config", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestPresetsFresh(t *testing.T) {
	a := GetPreset("argon")
	a.NumParticles = 7
	b := GetPreset("argon")
	if b.NumParticles == 7 {
		t.Error("presets should not share state between calls")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] >= presets[i] {
			t.Error("preset names should be sorted")
		}
	}
}

func TestCharged(t *testing.T) {
	// neutral species declare all-zero charges, which is not "charged"
	if DefaultConfig().Charged() {
		t.Error("default argon config should be neutral")
	}
	if !GetPreset("salt").Charged() {
		t.Error("salt preset should be charged")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.NumParticles = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"zero box", func(c *Config) { c.BoxWidth = 0 }},
		{"mass count mismatch", func(c *Config) { c.Masses = []float64{1, 2} }},
		{"negative mass", func(c *Config) { c.Masses = []float64{-1} }},
		{"charge count mismatch", func(c *Config) { c.Potential.Charges = nil }},
		{"epsilon wrong size", func(c *Config) { c.Potential.Epsilon = [][]float64{{1}, {2}} }},
		{"asymmetric sigma", func(c *Config) {
			c.NumTypes = 2
			c.Masses = []float64{1, 1}
			c.Potential.Charges = []float64{0, 0}
			c.Potential.Epsilon = [][]float64{{1, 1}, {1, 1}}
			c.Potential.Sigma = [][]float64{{3, 2}, {4, 3}}
		}},
		{"zero cutoff", func(c *Config) { c.Potential.Cutoff = 0 }},
		{"zero history_len", func(c *Config) { c.Sampling.HistoryLen = 0 }},
		{"zero rdf_bins", func(c *Config) { c.Sampling.RDFBins = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	cfg := GetPreset("mixture")
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.NumTypes != 2 {
		t.Errorf("expected 2 types, got %d", loaded.NumTypes)
	}
	if loaded.Potential.Sigma[0][1] != cfg.Potential.Sigma[0][1] {
		t.Error("sigma matrix should survive round trip")
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("num_particles: 50\ntemperature: 200\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NumParticles != 50 {
		t.Errorf("expected 50 particles, got %d", cfg.NumParticles)
	}
	if cfg.Temperature != 200 {
		t.Errorf("expected 200 K, got %g", cfg.Temperature)
	}
	if cfg.Potential.Cutoff != DefaultCutoff {
		t.Error("unset fields should keep defaults")
	}
}
