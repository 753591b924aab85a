// Package potential provides pairwise non-bonded potentials. Every
// potential returns the energy U(r) and the radial gradient dU/dr for a
// separation r and a pair of particle types. Callers project the gradient
// onto the pair displacement unit vector to obtain force components; the
// unit vector carries the sign, so no negation is applied here.
//
// Evaluation assumes r > 0. Near-singular separations are the caller's
// problem: the integrator clamps r to a minimum distance before calling.
package potential

import (
	"math"

	"github.com/san-kum/mdlab/internal/units"
)

// Potential evaluates energy and radial gradient for one type pair.
type Potential interface {
	Eval(r float64, ti, tj int) (u, dudr float64)
}

// PairTable is a symmetric NumTypes×NumTypes parameter matrix. Symmetry
// is enforced by Set, not by the storage.
type PairTable struct {
	n int
	v []float64
}

func NewPairTable(n int) *PairTable {
	return &PairTable{n: n, v: make([]float64, n*n)}
}

// NewUniformTable returns an n×n table with every entry set to val.
func NewUniformTable(n int, val float64) *PairTable {
	t := NewPairTable(n)
	for i := range t.v {
		t.v[i] = val
	}
	return t
}

func (t *PairTable) Size() int { return t.n }

func (t *PairTable) Get(i, j int) float64 { return t.v[i*t.n+j] }

// Set assigns both (i,j) and (j,i).
func (t *PairTable) Set(i, j int, val float64) {
	t.v[i*t.n+j] = val
	t.v[j*t.n+i] = val
}

// LennardJones is the 12-6 potential U = 4ε[(σ/r)¹² − (σ/r)⁶] with
// per-type-pair ε and σ tables. Global scale multipliers apply to ε and σ
// independently at evaluation time. Zero beyond Cutoff when Cutoff > 0.
type LennardJones struct {
	Epsilon  *PairTable
	Sigma    *PairTable
	EpsScale float64
	SigScale float64
	Cutoff   float64
}

func NewLennardJones(eps, sigma *PairTable, cutoff float64) *LennardJones {
	return &LennardJones{Epsilon: eps, Sigma: sigma, EpsScale: 1, SigScale: 1, Cutoff: cutoff}
}

func (lj *LennardJones) Eval(r float64, ti, tj int) (float64, float64) {
	if lj.Cutoff > 0 && r > lj.Cutoff {
		return 0, 0
	}
	eps := lj.Epsilon.Get(ti, tj) * lj.EpsScale
	sig := lj.Sigma.Get(ti, tj) * lj.SigScale
	sr := sig / r
	sr2 := sr * sr
	sr6 := sr2 * sr2 * sr2
	sr12 := sr6 * sr6
	u := 4 * eps * (sr12 - sr6)
	dudr := 24 * eps * (sr6 - 2*sr12) / r
	return u, dudr
}

// Coulomb is U = k·qᵢ·qⱼ/r with per-type charges in elementary units and
// a global charge-product scale. Cutoff <= 0 means infinite range.
type Coulomb struct {
	Charge []float64
	Scale  float64
	Cutoff float64
}

func NewCoulomb(charge []float64) *Coulomb {
	return &Coulomb{Charge: charge, Scale: 1}
}

func (c *Coulomb) Eval(r float64, ti, tj int) (float64, float64) {
	if c.Cutoff > 0 && r > c.Cutoff {
		return 0, 0
	}
	qq := units.Coulomb * c.Charge[ti] * c.Charge[tj] * c.Scale
	return qq / r, -qq / (r * r)
}

// Harmonic is the bonded-style spring U = ½k(r−r₀)². Part of the library
// even though the default scenarios do not use it.
type Harmonic struct {
	K  float64
	R0 float64
}

func (h *Harmonic) Eval(r float64, ti, tj int) (float64, float64) {
	d := r - h.R0
	return 0.5 * h.K * d * d, h.K * d
}

// Morse is U = De·(1 − exp(−a(r−r₀)))².
type Morse struct {
	De float64
	A  float64
	R0 float64
}

func (m *Morse) Eval(r float64, ti, tj int) (float64, float64) {
	e := math.Exp(-m.A * (r - m.R0))
	u := m.De * (1 - e) * (1 - e)
	dudr := 2 * m.De * m.A * (1 - e) * e
	return u, dudr
}
