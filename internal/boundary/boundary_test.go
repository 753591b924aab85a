package boundary

import (
	"math"
	"testing"

	"github.com/san-kum/mdlab/internal/md"
)

func oneParticle(x, y, vx, vy float64) *md.System {
	s := md.NewSystem(1, 1, md.Box{W: 10, H: 10})
	s.Pos[0], s.Pos[1] = x, y
	s.Vel[0], s.Vel[1] = vx, vy
	return s
}

func TestReflectiveMirrorsAndDamps(t *testing.T) {
	s := oneParticle(-0.5, 5, -2.0, 1.0)
	NewReflective().Apply(s)

	if s.Pos[0] != 0.5 {
		t.Errorf("expected mirrored x=0.5, got %.4f", s.Pos[0])
	}
	if math.Abs(s.Vel[0]-2.0*0.95) > 1e-12 {
		t.Errorf("expected damped reversed vx=%.4f, got %.4f", 2.0*0.95, s.Vel[0])
	}
	if s.Vel[1] != 1.0 {
		t.Errorf("vy must be untouched, got %.4f", s.Vel[1])
	}
}

func TestPeriodicWraps(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{-1.0, 9.0},
		{10.5, 0.5},
		{4.0, 4.0},
	}
	for _, tt := range tests {
		s := oneParticle(tt.x, 5, 1, 0)
		NewPeriodic().Apply(s)
		if math.Abs(s.Pos[0]-tt.want) > 1e-12 {
			t.Errorf("wrap(%.2f): expected %.2f, got %.4f", tt.x, tt.want, s.Pos[0])
		}
	}
}

func TestAbsorbingIsSticky(t *testing.T) {
	s := oneParticle(10.8, 5, 3.0, -1.0)
	b := NewAbsorbing()
	b.Apply(s)

	if s.Pos[0] != 10 || s.Vel[0] != 0 || s.Vel[1] != 0 {
		t.Errorf("expected clamp+stop, got pos=%.2f vel=(%.2f,%.2f)", s.Pos[0], s.Vel[0], s.Vel[1])
	}
	if !b.Absorbed(0) {
		t.Error("particle should be marked absorbed")
	}

	// later steps may drag the velocity; the boundary keeps it dead
	s.Vel[0] = 5.0
	b.Apply(s)
	if s.Vel[0] != 0 {
		t.Errorf("absorbed particle regained velocity %.2f", s.Vel[0])
	}
}

func TestElasticNudgeAndHardFallback(t *testing.T) {
	// inside the margin zone: soft push away from the wall
	s := oneParticle(1.0, 5, 0, 0)
	b := NewElastic()
	b.Apply(s)
	if s.Vel[0] <= 0 {
		t.Errorf("expected positive nudge near left wall, got %.4f", s.Vel[0])
	}

	// past the wall: hard reflection
	s = oneParticle(-0.3, 5, -1.0, 0)
	b.Apply(s)
	if s.Pos[0] != 0.3 || s.Vel[0] <= 0 {
		t.Errorf("expected hard reflect, got pos=%.4f vel=%.4f", s.Pos[0], s.Vel[0])
	}
}
