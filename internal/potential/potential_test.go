package potential

import (
	"math"
	"testing"
)

// finite-difference check of dU/dr against the analytic gradient
func gradientError(p Potential, r float64) float64 {
	const h = 1e-6
	up, _ := p.Eval(r+h, 0, 0)
	um, _ := p.Eval(r-h, 0, 0)
	numeric := (up - um) / (2 * h)
	_, analytic := p.Eval(r, 0, 0)
	return math.Abs(numeric - analytic)
}

func TestGradientsMatchFiniteDifference(t *testing.T) {
	lj := NewLennardJones(NewUniformTable(1, 0.0104), NewUniformTable(1, 3.4), 0)
	coul := NewCoulomb([]float64{1.0})
	harm := &Harmonic{K: 2.0, R0: 3.0}
	morse := &Morse{De: 0.5, A: 1.2, R0: 2.5}

	tests := []struct {
		name string
		p    Potential
		rs   []float64
	}{
		{"lennard-jones", lj, []float64{3.0, 3.4 * math.Pow(2, 1.0/6.0), 5.0}},
		{"coulomb", coul, []float64{1.5, 3.0, 8.0}},
		{"harmonic", harm, []float64{2.0, 3.0, 4.5}},
		{"morse", morse, []float64{2.0, 2.5, 4.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range tt.rs {
				if err := gradientError(tt.p, r); err > 1e-4 {
					t.Errorf("gradient mismatch at r=%.4f: error %.2e", r, err)
				}
			}
		})
	}
}

func TestLennardJonesMinimum(t *testing.T) {
	eps, sig := 0.0104, 3.4
	lj := NewLennardJones(NewUniformTable(1, eps), NewUniformTable(1, sig), 0)

	rEq := sig * math.Pow(2, 1.0/6.0)
	u, dudr := lj.Eval(rEq, 0, 0)

	if math.Abs(u+eps) > 1e-9 {
		t.Errorf("expected U(r_eq) = -eps = %.6f, got %.6f", -eps, u)
	}
	if math.Abs(dudr) > 1e-9 {
		t.Errorf("expected zero gradient at equilibrium, got %.2e", dudr)
	}
}

func TestCutoff(t *testing.T) {
	cutoff := 8.0
	lj := NewLennardJones(NewUniformTable(1, 0.0104), NewUniformTable(1, 3.4), cutoff)

	u, g := lj.Eval(cutoff+0.01, 0, 0)
	if u != 0 || g != 0 {
		t.Errorf("expected zero beyond cutoff, got u=%.2e g=%.2e", u, g)
	}

	u, g = lj.Eval(cutoff-0.01, 0, 0)
	if u == 0 && g == 0 {
		t.Error("expected nonzero just inside cutoff")
	}
}

func TestCoulombSign(t *testing.T) {
	// like charges repel: positive energy, negative gradient
	c := NewCoulomb([]float64{1.0, -1.0})

	u, g := c.Eval(2.0, 0, 0)
	if u <= 0 || g >= 0 {
		t.Errorf("like charges: want u>0, dU/dr<0; got u=%.4f g=%.4f", u, g)
	}

	u, g = c.Eval(2.0, 0, 1)
	if u >= 0 || g <= 0 {
		t.Errorf("opposite charges: want u<0, dU/dr>0; got u=%.4f g=%.4f", u, g)
	}
}

func TestPairTableSymmetry(t *testing.T) {
	tab := NewPairTable(3)
	tab.Set(0, 2, 1.5)
	if tab.Get(2, 0) != 1.5 {
		t.Errorf("expected symmetric entry, got %.4f", tab.Get(2, 0))
	}
}

func TestManagerWeightedSum(t *testing.T) {
	lj := NewLennardJones(NewUniformTable(1, 0.0104), NewUniformTable(1, 3.4), 0)
	c := NewCoulomb([]float64{0.5})

	m := NewManager()
	m.Add(lj, 1.0)
	m.Add(c, 2.0)

	r := 3.0
	lu, lg := lj.Eval(r, 0, 0)
	cu, cg := c.Eval(r, 0, 0)
	mu, mg := m.Eval(r, 0, 0)

	if math.Abs(mu-(lu+2*cu)) > 1e-12 {
		t.Errorf("energy sum mismatch: got %.6f want %.6f", mu, lu+2*cu)
	}
	if math.Abs(mg-(lg+2*cg)) > 1e-12 {
		t.Errorf("gradient sum mismatch: got %.6f want %.6f", mg, lg+2*cg)
	}
}

func TestFiniteAtSmallSeparation(t *testing.T) {
	lj := NewLennardJones(NewUniformTable(1, 0.0104), NewUniformTable(1, 3.4), 0)
	u, g := lj.Eval(0.5, 0, 0)
	if math.IsNaN(u) || math.IsInf(u, 0) || math.IsNaN(g) || math.IsInf(g, 0) {
		t.Errorf("expected finite values at r=0.5, got u=%v g=%v", u, g)
	}
}
