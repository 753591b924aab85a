// Package boundary implements the wall policies applied to positions and
// velocities after each position update.
package boundary

import "github.com/san-kum/mdlab/internal/md"

// Kind names a boundary policy for configs and factories.
type Kind string

const (
	KindReflective Kind = "reflective"
	KindPeriodic   Kind = "periodic"
	KindAbsorbing  Kind = "absorbing"
	KindElastic    Kind = "elastic"
)

// Reflective mirrors out-of-bounds coordinates back across the wall and
// negates the corresponding velocity component, damped by Damping.
type Reflective struct {
	Damping float64
}

func NewReflective() *Reflective {
	return &Reflective{Damping: 0.95}
}

func (b *Reflective) Apply(s *md.System) {
	for i := 0; i < s.N; i++ {
		reflectAxis(&s.Pos[2*i], &s.Vel[2*i], s.Box.W, b.Damping)
		reflectAxis(&s.Pos[2*i+1], &s.Vel[2*i+1], s.Box.H, b.Damping)
	}
}

func reflectAxis(p, v *float64, ext, damping float64) {
	if *p < 0 {
		*p = -*p
		*v = -*v * damping
	} else if *p > ext {
		*p = 2*ext - *p
		*v = -*v * damping
	}
}

// Periodic wraps out-of-bounds coordinates modulo the box extent. Used
// together with minimum-image neighbor search.
type Periodic struct{}

func NewPeriodic() *Periodic { return &Periodic{} }

func (b *Periodic) Apply(s *md.System) {
	for i := 0; i < s.N; i++ {
		s.Pos[2*i] = wrap(s.Pos[2*i], s.Box.W)
		s.Pos[2*i+1] = wrap(s.Pos[2*i+1], s.Box.H)
	}
}

func wrap(p, ext float64) float64 {
	for p < 0 {
		p += ext
	}
	for p >= ext {
		p -= ext
	}
	return p
}

// Absorbing stops a particle permanently on first wall contact: velocity
// zeroed, position clamped to the wall, and the particle skipped on every
// later call.
type Absorbing struct {
	absorbed []bool
}

func NewAbsorbing() *Absorbing { return &Absorbing{} }

// Absorbed reports whether particle i has been captured by a wall.
func (b *Absorbing) Absorbed(i int) bool {
	return i < len(b.absorbed) && b.absorbed[i]
}

func (b *Absorbing) Apply(s *md.System) {
	if len(b.absorbed) != s.N {
		b.absorbed = make([]bool, s.N)
	}
	for i := 0; i < s.N; i++ {
		if b.absorbed[i] {
			s.Vel[2*i], s.Vel[2*i+1] = 0, 0
			continue
		}
		x, y := s.Pos[2*i], s.Pos[2*i+1]
		hit := false
		if x < 0 {
			x, hit = 0, true
		} else if x > s.Box.W {
			x, hit = s.Box.W, true
		}
		if y < 0 {
			y, hit = 0, true
		} else if y > s.Box.H {
			y, hit = s.Box.H, true
		}
		if hit {
			b.absorbed[i] = true
			s.Pos[2*i], s.Pos[2*i+1] = x, y
			s.Vel[2*i], s.Vel[2*i+1] = 0, 0
		}
	}
}

// Elastic pushes particles away from walls with a soft velocity nudge
// proportional to penetration into a margin zone, falling back to a hard
// reflection exactly at the wall.
type Elastic struct {
	Margin   float64
	Strength float64
}

func NewElastic() *Elastic {
	return &Elastic{Margin: 2.0, Strength: 0.5}
}

func (b *Elastic) Apply(s *md.System) {
	for i := 0; i < s.N; i++ {
		b.elasticAxis(&s.Pos[2*i], &s.Vel[2*i], s.Box.W)
		b.elasticAxis(&s.Pos[2*i+1], &s.Vel[2*i+1], s.Box.H)
	}
}

func (b *Elastic) elasticAxis(p, v *float64, ext float64) {
	// hard fallback exactly at the wall
	if *p < 0 {
		*p = -*p
		*v = -*v
	} else if *p > ext {
		*p = 2*ext - *p
		*v = -*v
	}
	if *p < b.Margin {
		depth := b.Margin - *p
		*v += b.Strength * depth
	} else if *p > ext-b.Margin {
		depth := *p - (ext - b.Margin)
		*v -= b.Strength * depth
	}
}
