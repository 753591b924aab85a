package md

import (
	"math"

	"github.com/san-kum/mdlab/internal/units"
)

// Box is the rectangular simulation region [0,W]×[0,H] in Ångström.
type Box struct {
	W, H float64
}

func (b Box) Area() float64 { return b.W * b.H }

// System holds the mutable particle state as parallel arrays. Position,
// velocity and acceleration components are interleaved (x0,y0,x1,y1,...).
// All arrays are sized for exactly N particles and are reallocated
// wholesale on any structural change; they are never partially resized.
type System struct {
	N        int
	NumTypes int
	Box      Box

	Pos    []float64
	Vel    []float64
	Acc    []float64
	OldAcc []float64
	Mass   []float64
	Type   []int
}

// NewSystem allocates a System for n particles of numTypes species.
// Masses default to 1 amu and all particles to type 0.
func NewSystem(n, numTypes int, box Box) *System {
	s := &System{
		N:        n,
		NumTypes: numTypes,
		Box:      box,
		Pos:      make([]float64, 2*n),
		Vel:      make([]float64, 2*n),
		Acc:      make([]float64, 2*n),
		OldAcc:   make([]float64, 2*n),
		Mass:     make([]float64, n),
		Type:     make([]int, n),
	}
	for i := range s.Mass {
		s.Mass[i] = 1.0
	}
	return s
}

// Valid reports whether every position and velocity component is finite.
func (s *System) Valid() bool {
	for i := 0; i < 2*s.N; i++ {
		if math.IsNaN(s.Pos[i]) || math.IsInf(s.Pos[i], 0) {
			return false
		}
		if math.IsNaN(s.Vel[i]) || math.IsInf(s.Vel[i], 0) {
			return false
		}
	}
	return true
}

// KineticEnergy returns Σ ½mv² in eV.
func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for i := 0; i < s.N; i++ {
		vx, vy := s.Vel[2*i], s.Vel[2*i+1]
		ke += 0.5 * s.Mass[i] * (vx*vx + vy*vy)
	}
	return ke
}

// Temperature returns the instantaneous temperature in Kelvin using the
// 2D convention T = KE/(N·kB): the two degrees of freedom per particle
// cancel against the two halves of the equipartition theorem.
func (s *System) Temperature() float64 {
	if s.N == 0 {
		return 0
	}
	return s.KineticEnergy() / (float64(s.N) * units.Boltzmann)
}

// Momentum returns the total momentum Σ m·v.
func (s *System) Momentum() (px, py float64) {
	for i := 0; i < s.N; i++ {
		px += s.Mass[i] * s.Vel[2*i]
		py += s.Mass[i] * s.Vel[2*i+1]
	}
	return
}

// ScalePositions applies an affine rescale to all positions and the box,
// used by barostats when a volume change is accepted.
func (s *System) ScalePositions(sx, sy float64) {
	for i := 0; i < s.N; i++ {
		s.Pos[2*i] *= sx
		s.Pos[2*i+1] *= sy
	}
	s.Box.W *= sx
	s.Box.H *= sy
}

// Density returns particles per Å².
func (s *System) Density() float64 {
	a := s.Box.Area()
	if a == 0 {
		return 0
	}
	return float64(s.N) / a
}
