package experiment

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/mdlab/internal/barostat"
	"github.com/san-kum/mdlab/internal/boundary"
	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/thermostat"
)

func buildBoundary(kind string) (md.Boundary, error) {
	switch kind {
	case "", "periodic":
		return boundary.NewPeriodic(), nil
	case "reflective":
		return boundary.NewReflective(), nil
	case "absorbing":
		return boundary.NewAbsorbing(), nil
	case "elastic":
		return boundary.NewElastic(), nil
	default:
		return nil, fmt.Errorf("unknown boundary: %s", kind)
	}
}

func buildThermostat(cfg config.ThermostatConfig, tempK, dt float64, rng *rand.Rand) (md.Thermostat, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "rescale":
		return thermostat.NewVelocityRescale(tempK, cfg.Coupling), nil
	case "langevin":
		ts := thermostat.NewLangevin(tempK, cfg.Gamma, dt, rng)
		ts.Adaptive = cfg.Adaptive
		return ts, nil
	case "berendsen":
		return thermostat.NewBerendsen(tempK, cfg.Tau, dt), nil
	case "nose-hoover":
		return thermostat.NewNoseHoover(tempK, cfg.Q, dt), nil
	default:
		return nil, fmt.Errorf("unknown thermostat: %s", cfg.Kind)
	}
}

func buildBarostat(cfg config.BarostatConfig, tempK, dt float64, energy func() float64, rng *rand.Rand) (md.Barostat, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "berendsen":
		return barostat.NewBerendsen(cfg.Pressure, cfg.Tau, cfg.Kappa, dt), nil
	case "parrinello-rahman":
		return barostat.NewParrinelloRahman(cfg.Pressure, cfg.BoxMass, dt), nil
	case "monte-carlo":
		return barostat.NewMonteCarlo(cfg.Pressure, tempK, cfg.MaxLnV, energy, rng), nil
	default:
		return nil, fmt.Errorf("unknown barostat: %s", cfg.Kind)
	}
}

func parseLayout(s string) (md.Layout, error) {
	switch md.Layout(s) {
	case "", md.LayoutRandom:
		return md.LayoutRandom, nil
	case md.LayoutSeparatedLR, md.LayoutSeparatedTB, md.LayoutCenterCluster:
		return md.Layout(s), nil
	default:
		return "", fmt.Errorf("unknown layout: %s", s)
	}
}
