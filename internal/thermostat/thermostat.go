// Package thermostat implements velocity-adjustment strategies that steer
// the system toward a target temperature. Temperature uses the 2D
// convention T = KE/(N·kB) throughout.
package thermostat

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/units"
)

// Kind names a thermostat for configs and factories.
type Kind string

const (
	KindNone       Kind = "none"
	KindRescale    Kind = "rescale"
	KindLangevin   Kind = "langevin"
	KindBerendsen  Kind = "berendsen"
	KindNoseHoover Kind = "nose-hoover"
)

// VelocityRescale scales all velocities by 1 + c·(√(T_target/T) − 1).
// The coupling damps the rescale so the system is not shocked to the
// target in one step.
type VelocityRescale struct {
	TargetT  float64
	Coupling float64
}

func NewVelocityRescale(targetT, coupling float64) *VelocityRescale {
	return &VelocityRescale{TargetT: targetT, Coupling: coupling}
}

func (ts *VelocityRescale) Apply(s *md.System) {
	t := s.Temperature()
	if t <= 0 {
		return
	}
	scale := 1 + ts.Coupling*(math.Sqrt(ts.TargetT/t)-1)
	for i := range s.Vel {
		s.Vel[i] *= scale
	}
}

// Langevin applies per-particle friction −γv plus a Gaussian random force
// of variance 2γ·kB·T_target·m/dt. When Adaptive is set, the friction
// (only the friction) is scaled up to min(T/T_target, 20)× once the
// current temperature exceeds 1.5× target, recovering faster from runaway
// heating; the noise always uses the base friction so the equilibrium
// temperature is unaffected.
type Langevin struct {
	TargetT  float64
	Gamma    float64
	Dt       float64
	Adaptive bool

	rng *rand.Rand
}

func NewLangevin(targetT, gamma, dt float64, rng *rand.Rand) *Langevin {
	return &Langevin{TargetT: targetT, Gamma: gamma, Dt: dt, rng: rng}
}

func (ts *Langevin) Apply(s *md.System) {
	gammaDamp := ts.Gamma
	if ts.Adaptive {
		t := s.Temperature()
		if ts.TargetT > 0 && t > 1.5*ts.TargetT {
			gammaDamp = ts.Gamma * math.Min(t/ts.TargetT, 20)
		}
	}
	for i := 0; i < s.N; i++ {
		// Δv from noise: sqrt(2γ·kB·T·dt/m)·ξ, base γ by construction
		sigma := math.Sqrt(2 * ts.Gamma * units.Boltzmann * ts.TargetT * ts.Dt / s.Mass[i])
		s.Vel[2*i] += -gammaDamp*s.Vel[2*i]*ts.Dt + sigma*ts.rng.NormFloat64()
		s.Vel[2*i+1] += -gammaDamp*s.Vel[2*i+1]*ts.Dt + sigma*ts.rng.NormFloat64()
	}
}

// Berendsen relaxes the temperature exponentially toward the target with
// time constant Tau: scale = √(1 + (dt/τ)(T_target/T − 1)).
type Berendsen struct {
	TargetT float64
	Tau     float64
	Dt      float64
}

func NewBerendsen(targetT, tau, dt float64) *Berendsen {
	return &Berendsen{TargetT: targetT, Tau: tau, Dt: dt}
}

func (ts *Berendsen) Apply(s *md.System) {
	t := s.Temperature()
	if t <= 0 {
		return
	}
	arg := 1 + (ts.Dt/ts.Tau)*(ts.TargetT/t-1)
	if arg <= 0 {
		return
	}
	scale := math.Sqrt(arg)
	for i := range s.Vel {
		s.Vel[i] *= scale
	}
}

// NoseHoover is the extended-system thermostat: an auxiliary friction
// coefficient ξ integrated by dξ/dt = (2KE − dof·kB·T_target)/Q, applied
// as the velocity scale exp(−ξ·dt). Deterministic, with better
// canonical-ensemble fidelity than plain rescaling.
type NoseHoover struct {
	TargetT float64
	Q       float64
	Dt      float64

	xi float64
}

func NewNoseHoover(targetT, q, dt float64) *NoseHoover {
	return &NoseHoover{TargetT: targetT, Q: q, Dt: dt}
}

// Xi exposes the friction variable for diagnostics.
func (ts *NoseHoover) Xi() float64 { return ts.xi }

func (ts *NoseHoover) Apply(s *md.System) {
	dof := float64(2 * s.N)
	ke := s.KineticEnergy()
	ts.xi += ts.Dt * (2*ke - dof*units.Boltzmann*ts.TargetT) / ts.Q
	scale := math.Exp(-ts.xi * ts.Dt)
	for i := range s.Vel {
		s.Vel[i] *= scale
	}
}
