package integrate

import (
	"math"

	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/potential"
)

// FIRE relaxes bad initial contacts with the Fast Inertial Relaxation
// Engine: damped pseudo-dynamics with an adaptive timestep and velocity
// mixing driven by the sign of the power P = F·v. Force evaluation is a
// direct O(N²) pass; run it only once at initialization, never during
// live simulation.
type FIRE struct {
	sys     *md.System
	pots    *potential.Manager
	minDist float64

	dtInit float64
	dtMax  float64

	vel   []float64
	force []float64
}

func NewFIRE(sys *md.System, pots *potential.Manager) *FIRE {
	return &FIRE{
		sys:     sys,
		pots:    pots,
		minDist: DefaultMinDistance,
		dtInit:  0.001,
		dtMax:   0.01,
		vel:     make([]float64, 2*sys.N),
		force:   make([]float64, 2*sys.N),
	}
}

// Run iterates until the maximum per-particle force magnitude drops below
// fTol or maxSteps is exhausted. Returns whether it converged and the
// number of iterations used. The system's real velocities are untouched;
// only positions move.
func (f *FIRE) Run(maxSteps int, fTol float64) (bool, int) {
	const (
		nMin       = 5
		fInc       = 1.1
		fDec       = 0.5
		alphaStart = 0.1
		fAlpha     = 0.99
	)

	s := f.sys
	dt := f.dtInit
	alpha := alphaStart
	sincePositive := 0

	for i := range f.vel {
		f.vel[i] = 0
	}

	for step := 1; step <= maxSteps; step++ {
		maxF := f.computeForces()
		if maxF < fTol {
			return true, step
		}

		power := 0.0
		for i := range f.vel {
			power += f.force[i] * f.vel[i]
		}

		if power > 0 {
			sincePositive++
			// steer velocity toward the force direction
			vNorm := norm(f.vel)
			fNorm := norm(f.force)
			if fNorm > 0 {
				for i := range f.vel {
					f.vel[i] = (1-alpha)*f.vel[i] + alpha*vNorm*f.force[i]/fNorm
				}
			}
			if sincePositive > nMin {
				dt = math.Min(dt*fInc, f.dtMax)
				alpha *= fAlpha
			}
		} else {
			sincePositive = 0
			dt *= fDec
			alpha = alphaStart
			for i := range f.vel {
				f.vel[i] = 0
			}
		}

		for i := 0; i < s.N; i++ {
			f.vel[2*i] += f.force[2*i] / s.Mass[i] * dt
			f.vel[2*i+1] += f.force[2*i+1] / s.Mass[i] * dt
			s.Pos[2*i] += f.vel[2*i] * dt
			s.Pos[2*i+1] += f.vel[2*i+1] * dt

			// keep relaxation inside the box
			s.Pos[2*i] = clamp(s.Pos[2*i], 0, s.Box.W)
			s.Pos[2*i+1] = clamp(s.Pos[2*i+1], 0, s.Box.H)
		}
	}

	return false, maxSteps
}

// computeForces fills f.force from a direct pair sweep and returns the
// maximum per-particle force magnitude.
func (f *FIRE) computeForces() float64 {
	s := f.sys
	for i := range f.force {
		f.force[i] = 0
	}

	for i := 0; i < s.N; i++ {
		xi, yi := s.Pos[2*i], s.Pos[2*i+1]
		for j := i + 1; j < s.N; j++ {
			dx := s.Pos[2*j] - xi
			dy := s.Pos[2*j+1] - yi
			r := math.Hypot(dx, dy)
			if r <= 0 {
				continue
			}
			rEval := r
			if rEval < f.minDist {
				rEval = f.minDist
			}
			_, grad := f.pots.Eval(rEval, s.Type[i], s.Type[j])
			if !finite(grad) {
				continue
			}
			fx := grad * dx / r
			fy := grad * dy / r
			f.force[2*i] += fx
			f.force[2*i+1] += fy
			f.force[2*j] -= fx
			f.force[2*j+1] -= fy
		}
	}

	maxF := 0.0
	for i := 0; i < s.N; i++ {
		mag := math.Hypot(f.force[2*i], f.force[2*i+1])
		if mag > maxF {
			maxF = mag
		}
	}
	return maxF
}

func norm(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
