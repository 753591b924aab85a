// Package barostat implements box-volume control strategies. Barostats
// run at a lower cadence than the integration step; when a volume change
// is accepted, all particle positions are rescaled affinely with the box.
package barostat

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/units"
)

// Kind names a barostat for configs and factories.
type Kind string

const (
	KindNone             Kind = "none"
	KindBerendsen        Kind = "berendsen"
	KindParrinelloRahman Kind = "parrinello-rahman"
	KindMonteCarlo       Kind = "monte-carlo"
)

// Pressure estimates the 2D pressure from kinetic and virial
// contributions: P = (KE + Σ F·r) / area, in eV/Å².
func Pressure(s *md.System, virial float64) float64 {
	a := s.Box.Area()
	if a == 0 {
		return 0
	}
	return (s.KineticEnergy() + virial) / a
}

// Berendsen relaxes the box volume exponentially toward the target
// pressure with time constant Tau and compressibility Kappa.
type Berendsen struct {
	TargetP float64
	Tau     float64
	Kappa   float64
	Dt      float64
}

func NewBerendsen(targetP, tau, kappa, dt float64) *Berendsen {
	return &Berendsen{TargetP: targetP, Tau: tau, Kappa: kappa, Dt: dt}
}

func (b *Berendsen) Apply(s *md.System, virial float64) md.BoxChange {
	p := Pressure(s, virial)
	mu := 1 - b.Kappa*(b.Dt/b.Tau)*(b.TargetP-p)
	// volume step clamp keeps a single application from crushing the box
	if mu < 0.9 {
		mu = 0.9
	} else if mu > 1.1 {
		mu = 1.1
	}
	scale := math.Sqrt(mu)
	s.ScalePositions(scale, scale)
	return md.BoxChange{Box: s.Box, ScaleX: scale, ScaleY: scale, Accepted: true}
}

// ParrinelloRahman integrates an isotropic box strain with its own
// equation of motion: the strain rate is accelerated by
// (P − P_target)·area/W, where W is the fictitious box mass.
type ParrinelloRahman struct {
	TargetP float64
	W       float64
	Dt      float64

	strainRate float64
}

func NewParrinelloRahman(targetP, w, dt float64) *ParrinelloRahman {
	return &ParrinelloRahman{TargetP: targetP, W: w, Dt: dt}
}

func (b *ParrinelloRahman) Apply(s *md.System, virial float64) md.BoxChange {
	p := Pressure(s, virial)
	accel := (p - b.TargetP) * s.Box.Area() / b.W
	b.strainRate += accel * b.Dt
	// half the area strain on each axis
	scale := math.Exp(b.strainRate * b.Dt / 2)
	s.ScalePositions(scale, scale)
	return md.BoxChange{Box: s.Box, ScaleX: scale, ScaleY: scale, Accepted: true}
}

// MonteCarlo performs randomized ln-volume trial moves accepted by the
// Metropolis criterion on ΔA = ΔU + P_target·ΔV − N·kB·T·ln(V'/V). The
// potential-energy evaluator is injected so the barostat can re-score the
// rescaled configuration.
type MonteCarlo struct {
	TargetP float64
	TempK   float64
	MaxLnV  float64

	Energy func() float64

	rng     *rand.Rand
	trials  int
	accepts int
}

func NewMonteCarlo(targetP, tempK, maxLnV float64, energy func() float64, rng *rand.Rand) *MonteCarlo {
	return &MonteCarlo{TargetP: targetP, TempK: tempK, MaxLnV: maxLnV, Energy: energy, rng: rng}
}

// AcceptanceRatio reports the fraction of accepted trial moves.
func (b *MonteCarlo) AcceptanceRatio() float64 {
	if b.trials == 0 {
		return 0
	}
	return float64(b.accepts) / float64(b.trials)
}

func (b *MonteCarlo) Apply(s *md.System, virial float64) md.BoxChange {
	b.trials++

	uOld := b.Energy()
	areaOld := s.Box.Area()

	lnV := math.Log(areaOld) + (2*b.rng.Float64()-1)*b.MaxLnV
	areaNew := math.Exp(lnV)
	scale := math.Sqrt(areaNew / areaOld)

	s.ScalePositions(scale, scale)
	uNew := b.Energy()

	kt := units.Boltzmann * b.TempK
	dA := (uNew - uOld) + b.TargetP*(areaNew-areaOld) - float64(s.N)*kt*math.Log(areaNew/areaOld)

	if dA <= 0 || b.rng.Float64() < math.Exp(-dA/kt) {
		b.accepts++
		return md.BoxChange{Box: s.Box, ScaleX: scale, ScaleY: scale, Accepted: true}
	}

	// rejected: undo the affine rescale
	s.ScalePositions(1/scale, 1/scale)
	return md.BoxChange{Box: s.Box, ScaleX: 1, ScaleY: 1, Accepted: false}
}
