package md

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdlab/internal/units"
)

// Layout selects the initial spatial arrangement of particles.
type Layout string

const (
	LayoutRandom        Layout = "random"
	LayoutSeparatedLR   Layout = "separated-lr"
	LayoutSeparatedTB   Layout = "separated-tb"
	LayoutCenterCluster Layout = "center-cluster"
)

// InitPositions assigns types by ratio (fraction of particles given type 1
// when NumTypes > 1) and places particles according to the layout, keeping
// a margin of radius from the walls. Overlaps are possible; callers relax
// bad contacts with the FIRE minimizer before integrating.
func InitPositions(s *System, rng *rand.Rand, typeRatio, radius float64, layout Layout) {
	w, h := s.Box.W, s.Box.H
	margin := radius
	spanW := w - 2*margin
	spanH := h - 2*margin
	if spanW < 0 {
		spanW, margin = w, 0
	}
	if spanH < 0 {
		spanH = h
	}

	for i := 0; i < s.N; i++ {
		if s.NumTypes > 1 && float64(i) < typeRatio*float64(s.N) {
			s.Type[i] = 1
		} else {
			s.Type[i] = 0
		}
	}

	for i := 0; i < s.N; i++ {
		var x, y float64
		switch layout {
		case LayoutSeparatedLR:
			x = margin + rng.Float64()*spanW/2
			if s.Type[i] == 1 {
				x += spanW / 2
			}
			y = margin + rng.Float64()*spanH
		case LayoutSeparatedTB:
			x = margin + rng.Float64()*spanW
			y = margin + rng.Float64()*spanH/2
			if s.Type[i] == 1 {
				y += spanH / 2
			}
		case LayoutCenterCluster:
			if s.Type[i] == 1 {
				// minority species packed into a central disc
				r := (math.Min(w, h) / 6) * math.Sqrt(rng.Float64())
				phi := 2 * math.Pi * rng.Float64()
				x = w/2 + r*math.Cos(phi)
				y = h/2 + r*math.Sin(phi)
			} else {
				x = margin + rng.Float64()*spanW
				y = margin + rng.Float64()*spanH
			}
		default:
			x = margin + rng.Float64()*spanW
			y = margin + rng.Float64()*spanH
		}
		s.Pos[2*i] = x
		s.Pos[2*i+1] = y
	}
}

// InitVelocities draws velocities from the Maxwell-Boltzmann distribution
// at temperature tempK: each component is Gaussian with variance kB·T/m.
func InitVelocities(s *System, rng *rand.Rand, tempK float64) {
	for i := 0; i < s.N; i++ {
		sigma := math.Sqrt(units.Boltzmann * tempK / s.Mass[i])
		s.Vel[2*i] = sigma * rng.NormFloat64()
		s.Vel[2*i+1] = sigma * rng.NormFloat64()
	}
}
