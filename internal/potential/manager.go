package potential

type term struct {
	p      Potential
	weight float64
}

// Manager combines an ordered list of weighted potentials into one
// effective force field. This is how Lennard-Jones and Coulomb sum into a
// single energy/gradient pair per neighbor.
type Manager struct {
	terms []term
}

func NewManager() *Manager {
	return &Manager{}
}

// Add appends a potential with the given weight. Order is preserved.
func (m *Manager) Add(p Potential, weight float64) {
	m.terms = append(m.terms, term{p: p, weight: weight})
}

func (m *Manager) Len() int { return len(m.terms) }

// Eval returns the weighted sum of energy and radial gradient over all
// registered potentials.
func (m *Manager) Eval(r float64, ti, tj int) (u, dudr float64) {
	for _, t := range m.terms {
		pu, pg := t.p.Eval(r, ti, tj)
		u += t.weight * pu
		dudr += t.weight * pg
	}
	return u, dudr
}
