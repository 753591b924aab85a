package thermostat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mdlab/internal/md"
)

func gasAt(t *testing.T, n int, tempK float64, seed int64) *md.System {
	t.Helper()
	s := md.NewSystem(n, 1, md.Box{W: 100, H: 100})
	for i := range s.Mass {
		s.Mass[i] = 39.948
	}
	rng := rand.New(rand.NewSource(seed))
	md.InitPositions(s, rng, 0, 1, md.LayoutRandom)
	md.InitVelocities(s, rng, tempK)
	return s
}

func TestRescaleApproachesTarget(t *testing.T) {
	s := gasAt(t, 100, 300, 1)
	ts := NewVelocityRescale(90, 0.2)

	for k := 0; k < 200; k++ {
		ts.Apply(s)
	}
	if got := s.Temperature(); math.Abs(got-90) > 1 {
		t.Errorf("expected T near 90K, got %.2f", got)
	}
}

func TestBerendsenRelaxation(t *testing.T) {
	s := gasAt(t, 100, 30, 2)
	ts := NewBerendsen(90, 0.5, 0.01)

	before := math.Abs(s.Temperature() - 90)
	for k := 0; k < 500; k++ {
		ts.Apply(s)
	}
	after := math.Abs(s.Temperature() - 90)

	if after >= before {
		t.Errorf("temperature error did not shrink: before %.2f after %.2f", before, after)
	}
	if after > 2 {
		t.Errorf("expected T close to 90K after relaxation, got error %.2f", after)
	}
}

func TestLangevinEquilibrates(t *testing.T) {
	s := gasAt(t, 200, 300, 3)
	rng := rand.New(rand.NewSource(4))
	ts := NewLangevin(90, 1.0, 0.01, rng)

	// discard the transient, then time-average
	for k := 0; k < 2000; k++ {
		ts.Apply(s)
	}
	sum := 0.0
	samples := 2000
	for k := 0; k < samples; k++ {
		ts.Apply(s)
		sum += s.Temperature()
	}
	mean := sum / float64(samples)
	if math.Abs(mean-90) > 10 {
		t.Errorf("expected mean T near 90K, got %.2f", mean)
	}
}

func TestLangevinAdaptiveFriction(t *testing.T) {
	// runaway-hot system: adaptive friction must cool faster than base
	cool := func(adaptive bool) float64 {
		s := gasAt(t, 100, 2000, 5)
		rng := rand.New(rand.NewSource(6))
		ts := NewLangevin(90, 0.5, 0.01, rng)
		ts.Adaptive = adaptive
		for k := 0; k < 50; k++ {
			ts.Apply(s)
		}
		return s.Temperature()
	}

	plain := cool(false)
	adapted := cool(true)
	if adapted >= plain {
		t.Errorf("adaptive friction should cool faster: adaptive %.1fK vs base %.1fK", adapted, plain)
	}
}

func TestNoseHooverSteersTemperature(t *testing.T) {
	s := gasAt(t, 100, 300, 7)
	ts := NewNoseHoover(90, 10.0, 0.01)

	minT, maxT := math.Inf(1), math.Inf(-1)
	for k := 0; k < 5000; k++ {
		ts.Apply(s)
		cur := s.Temperature()
		minT = math.Min(minT, cur)
		maxT = math.Max(maxT, cur)
	}
	if !s.Valid() {
		t.Fatal("non-finite velocities")
	}
	// without forces the extended system oscillates; the trajectory must
	// cross the target rather than diverge
	if minT > 90 || maxT < 90 {
		t.Errorf("expected oscillation through 90K, got range [%.1f, %.1f]", minT, maxT)
	}
}

func TestNoseHooverDeterministic(t *testing.T) {
	run := func() float64 {
		s := gasAt(t, 50, 200, 9)
		ts := NewNoseHoover(90, 10.0, 0.01)
		for k := 0; k < 100; k++ {
			ts.Apply(s)
		}
		return s.Temperature()
	}
	if run() != run() {
		t.Error("expected identical trajectories from identical seeds")
	}
}
