package viz

import (
	"testing"

	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/experiment"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.NumParticles = 20
	cfg.BoxWidth = 30
	cfg.BoxHeight = 30
	cfg.Relax.Enabled = false
	e, err := experiment.Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return NewModel(e)
}

func setDots(c *Canvas) int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				n++
			}
		}
	}
	return n
}

func TestVelocityOverlayAddsLines(t *testing.T) {
	m := testModel(t)

	m.draw()
	plain := setDots(m.canvas)
	if plain == 0 {
		t.Fatal("expected particle dots on the canvas")
	}

	m.showVel = true
	m.draw()
	overlaid := setDots(m.canvas)
	if overlaid <= plain {
		t.Errorf("velocity overlay should mark extra cells: %d -> %d", plain, overlaid)
	}
}

func TestVelocityOverlayZeroVelocities(t *testing.T) {
	m := testModel(t)
	vel := m.ex.System().Vel
	for i := range vel {
		vel[i] = 0
	}

	m.showVel = true
	m.draw() // must not divide by a zero max speed
	if setDots(m.canvas) == 0 {
		t.Error("expected particle dots even with zero velocities")
	}
}
