// Package experiment assembles a runnable simulation from a config: the
// particle system, potential stack, neighbor list, boundary, optional
// thermostat and barostat, analytics, and the integrator.
package experiment

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/mdlab/internal/analysis"
	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/integrate"
	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/neighbor"
	"github.com/san-kum/mdlab/internal/potential"
)

type Experiment struct {
	cfg      *config.Config
	sys      *md.System
	pots     *potential.Manager
	nl       *neighbor.List
	vv       *integrate.VelocityVerlet
	engine   *analysis.Engine
	rng      *rand.Rand
	periodic bool

	relaxed    bool
	relaxSteps int
}

type Result struct {
	Steps           int
	Elapsed         time.Duration
	Aborted         bool
	Temperature     float64
	Pressure        float64
	KineticEnergy   float64
	PotentialEnergy float64
	TotalEnergy     float64
	Density         float64
	BoxWidth        float64
	BoxHeight       float64
	Relaxed         bool
	RelaxSteps      int
}

// Build validates the config and constructs the full simulation. Initial
// positions are placed by layout, optionally relaxed with the minimizer,
// and velocities drawn from the Maxwell-Boltzmann distribution.
func Build(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout, err := parseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	bc, err := buildBoundary(cfg.Boundary)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	periodic := cfg.Boundary == "" || cfg.Boundary == "periodic"

	sys := md.NewSystem(cfg.NumParticles, cfg.NumTypes, md.Box{W: cfg.BoxWidth, H: cfg.BoxHeight})
	md.InitPositions(sys, rng, cfg.TypeRatio, cfg.Radius, layout)
	for i := 0; i < sys.N; i++ {
		sys.Mass[i] = cfg.Masses[sys.Type[i]]
	}

	pots := buildPotentials(cfg)

	e := &Experiment{
		cfg:      cfg,
		sys:      sys,
		pots:     pots,
		rng:      rng,
		periodic: periodic,
	}

	if cfg.Relax.Enabled {
		fire := integrate.NewFIRE(sys, pots)
		e.relaxed, e.relaxSteps = fire.Run(cfg.Relax.MaxSteps, cfg.Relax.ForceTol)
	}

	md.InitVelocities(sys, rng, cfg.Temperature)

	e.nl = neighbor.NewList(cfg.Potential.Cutoff, cfg.Potential.Skin, periodic)
	e.vv = integrate.NewVelocityVerlet(sys, pots, e.nl, bc, cfg.Dt)
	if cfg.MinDistance > 0 {
		e.vv.SetMinDistance(cfg.MinDistance)
	}
	if cfg.MaxSpeed > 0 {
		e.vv.SetMaxSpeed(cfg.MaxSpeed)
	}

	thermo, err := buildThermostat(cfg.Thermostat, cfg.Temperature, cfg.Dt, rng)
	if err != nil {
		return nil, err
	}
	if thermo != nil {
		e.vv.SetThermostat(thermo)
	}

	baro, err := buildBarostat(cfg.Barostat, cfg.Temperature, cfg.Dt, e.potentialEnergyDirect, rng)
	if err != nil {
		return nil, err
	}
	if baro != nil {
		stride := cfg.Barostat.Stride
		if stride <= 0 {
			stride = 20
		}
		e.vv.SetBarostat(baro, stride)
	}

	rmax := cfg.Sampling.RDFRMax
	if rmax <= 0 {
		rmax = math.Min(cfg.BoxWidth, cfg.BoxHeight) / 2
	}
	e.engine = analysis.NewEngine(cfg.Sampling.Interval, cfg.Sampling.HistoryLen,
		cfg.Sampling.RDFBins, rmax, periodic)
	e.vv.SetAnalytics(e.engine)

	e.vv.ComputeForces()
	return e, nil
}

func buildPotentials(cfg *config.Config) *potential.Manager {
	n := cfg.NumTypes
	eps := potential.NewPairTable(n)
	sig := potential.NewPairTable(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			eps.Set(i, j, cfg.Potential.Epsilon[i][j])
			sig.Set(i, j, cfg.Potential.Sigma[i][j])
		}
	}

	lj := potential.NewLennardJones(eps, sig, cfg.Potential.Cutoff)
	if cfg.Potential.EpsilonScale > 0 {
		lj.EpsScale = cfg.Potential.EpsilonScale
	}
	if cfg.Potential.SigmaScale > 0 {
		lj.SigScale = cfg.Potential.SigmaScale
	}

	m := potential.NewManager()
	m.Add(lj, 1)

	if cfg.Charged() {
		c := potential.NewCoulomb(cfg.Potential.Charges)
		if cfg.Potential.ChargeScale > 0 {
			c.Scale = cfg.Potential.ChargeScale
		}
		c.Cutoff = cfg.Potential.Cutoff
		m.Add(c, 1)
	}
	return m
}

// potentialEnergyDirect recomputes the total pair energy by direct
// summation. The Monte Carlo barostat needs energies at trial box sizes
// where the neighbor list is stale, so it cannot reuse the integrator's
// cached value.
func (e *Experiment) potentialEnergyDirect() float64 {
	s := e.sys
	cutoff := e.cfg.Potential.Cutoff
	minDist := e.cfg.MinDistance
	pe := 0.0
	for i := 0; i < s.N; i++ {
		for j := i + 1; j < s.N; j++ {
			dx := s.Pos[2*j] - s.Pos[2*i]
			dy := s.Pos[2*j+1] - s.Pos[2*i+1]
			if e.periodic {
				dx = minImage(dx, s.Box.W)
				dy = minImage(dy, s.Box.H)
			}
			r := math.Sqrt(dx*dx + dy*dy)
			if cutoff > 0 && r > cutoff {
				continue
			}
			if r < minDist {
				r = minDist
			}
			u, _ := e.pots.Eval(r, s.Type[i], s.Type[j])
			if !math.IsNaN(u) && !math.IsInf(u, 0) {
				pe += u
			}
		}
	}
	return pe
}

func minImage(d, ext float64) float64 {
	if d > ext/2 {
		d -= ext
	} else if d < -ext/2 {
		d += ext
	}
	return d
}

func (e *Experiment) System() *md.System                    { return e.sys }
func (e *Experiment) Integrator() *integrate.VelocityVerlet { return e.vv }
func (e *Experiment) Engine() *analysis.Engine              { return e.engine }
func (e *Experiment) Config() *config.Config                { return e.cfg }
func (e *Experiment) Relaxed() (bool, int)                  { return e.relaxed, e.relaxSteps }

// Run advances the simulation the configured number of steps, checking
// for cancellation between frames.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	return e.RunSteps(ctx, e.cfg.Steps)
}

func (e *Experiment) RunSteps(ctx context.Context, steps int) (*Result, error) {
	chunk := e.cfg.StepsPerFrame
	if chunk <= 0 {
		chunk = 1
	}

	start := time.Now()
	done := 0
	aborted := false
	for done < steps {
		select {
		case <-ctx.Done():
			aborted = true
		default:
		}
		if aborted {
			break
		}
		n := chunk
		if steps-done < n {
			n = steps - done
		}
		e.vv.StepN(n)
		done += n
	}

	res := e.Snapshot()
	res.Steps = done
	res.Elapsed = time.Since(start)
	res.Aborted = aborted
	if aborted {
		return res, ctx.Err()
	}
	return res, nil
}

// Snapshot captures the instantaneous observables without stepping.
func (e *Experiment) Snapshot() *Result {
	ke := e.sys.KineticEnergy()
	pe := e.vv.PotentialEnergy()
	return &Result{
		Temperature:     e.sys.Temperature(),
		Pressure:        (ke + e.vv.Virial()) / e.sys.Box.Area(),
		KineticEnergy:   ke,
		PotentialEnergy: pe,
		TotalEnergy:     ke + pe,
		Density:         e.sys.Density(),
		BoxWidth:        e.sys.Box.W,
		BoxHeight:       e.sys.Box.H,
		Relaxed:         e.relaxed,
		RelaxSteps:      e.relaxSteps,
	}
}
