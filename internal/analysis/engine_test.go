package analysis

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/mdlab/internal/md"
)

func uniformGas(n int, box md.Box, seed int64) *md.System {
	s := md.NewSystem(n, 1, box)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		s.Pos[2*i] = rng.Float64() * box.W
		s.Pos[2*i+1] = rng.Float64() * box.H
		s.Vel[2*i] = rng.NormFloat64() * 0.1
		s.Vel[2*i+1] = rng.NormFloat64() * 0.1
		s.Mass[i] = 39.948
	}
	return s
}

func TestSeriesEvictsOldest(t *testing.T) {
	g := NewWithT(t)

	s := newSeries(3)
	for i := 0; i < 5; i++ {
		s.Append(float64(i), float64(i)*10)
	}

	g.Expect(s.Len()).To(Equal(3))
	g.Expect(s.At(0).Value).To(Equal(20.0))
	g.Expect(s.Last().Value).To(Equal(40.0))
}

func TestDegenerateCapacitiesKeepLatest(t *testing.T) {
	g := NewWithT(t)

	sys := uniformGas(10, md.Box{W: 30, H: 30}, 1)
	e := NewEngine(0.1, 0, 0, 10, false)

	for k := 0; k < 3; k++ {
		e.UpdateTime(0.2)
		e.CalculateAndSample(sys, float64(k), 0)
	}

	g.Expect(e.SampleCount()).To(Equal(3))
	pe := e.History(ObsPotentialEnergy)
	g.Expect(pe.Len()).To(Equal(1))
	g.Expect(pe.Last().Value).To(Equal(2.0))
	g.Expect(e.RDF().Bins()).To(Equal(1))
}

func TestSamplingCadence(t *testing.T) {
	g := NewWithT(t)

	sys := uniformGas(10, md.Box{W: 30, H: 30}, 1)
	e := NewEngine(1.0, 100, 50, 10, false)

	// first call always samples
	g.Expect(e.CalculateAndSample(sys, 0, 0)).To(BeTrue())

	// within the interval: no-op
	e.UpdateTime(0.4)
	g.Expect(e.CalculateAndSample(sys, 0, 0)).To(BeFalse())

	e.UpdateTime(0.7)
	g.Expect(e.CalculateAndSample(sys, 0, 0)).To(BeTrue())
	g.Expect(e.SampleCount()).To(Equal(2))
}

func TestObservablesRecorded(t *testing.T) {
	g := NewWithT(t)

	sys := uniformGas(20, md.Box{W: 30, H: 30}, 2)
	e := NewEngine(0.1, 100, 50, 10, false)
	e.CalculateAndSample(sys, -1.5, 0.2)

	ke := e.History(ObsKineticEnergy).Last().Value
	total := e.History(ObsTotalEnergy).Last().Value
	g.Expect(total).To(BeNumerically("~", ke-1.5, 1e-12))

	pressure := e.History(ObsPressure).Last().Value
	g.Expect(pressure).To(BeNumerically("~", (ke+0.2)/900, 1e-12))

	g.Expect(e.History(ObsDiffusion).Last().Value).To(BeZero())
	g.Expect(e.History(ObsDensity).Last().Value).To(BeNumerically("~", 20.0/900, 1e-12))
}

func TestHeatCapacityNeedsVariance(t *testing.T) {
	g := NewWithT(t)

	sys := uniformGas(20, md.Box{W: 30, H: 30}, 3)
	e := NewEngine(0.0, 100, 50, 10, false)

	e.CalculateAndSample(sys, 0, 0)
	g.Expect(e.History(ObsHeatCapacity).Last().Value).To(BeZero())

	// perturb energies across samples so the window has variance
	for k := 0; k < 10; k++ {
		e.UpdateTime(0.1)
		e.CalculateAndSample(sys, float64(k)*0.01, 0)
	}
	g.Expect(e.History(ObsHeatCapacity).Last().Value).To(BeNumerically(">", 0))
}

func TestResetClearsEverything(t *testing.T) {
	g := NewWithT(t)

	sys := uniformGas(20, md.Box{W: 30, H: 30}, 4)
	e := NewEngine(0.1, 100, 50, 10, false)
	e.UpdateTime(0.5)
	e.CalculateAndSample(sys, 0, 0)

	e.Reset()
	g.Expect(e.Clock()).To(BeZero())
	g.Expect(e.SampleCount()).To(BeZero())
	g.Expect(e.History(ObsTemperature)).To(BeNil())
	g.Expect(e.RDF().Samples()).To(BeZero())
}

func TestRDFApproachesOneForUniformGas(t *testing.T) {
	g := NewWithT(t)

	box := md.Box{W: 100, H: 100}
	rdf := NewRDF(40, 20, true)

	// several decorrelated uniform snapshots
	for seed := int64(0); seed < 8; seed++ {
		rdf.Accumulate(uniformGas(400, box, seed))
	}

	gr := rdf.Global()
	// average over the outer half of the range
	sum, count := 0.0, 0
	for b := rdf.Bins() / 2; b < rdf.Bins(); b++ {
		sum += gr[b]
		count++
	}
	g.Expect(sum / float64(count)).To(BeNumerically("~", 1.0, 0.1))
}

func TestRDFPerTypePair(t *testing.T) {
	g := NewWithT(t)

	box := md.Box{W: 100, H: 100}
	sys := uniformGas(400, box, 9)
	sys.NumTypes = 2
	for i := 0; i < sys.N; i++ {
		sys.Type[i] = i % 2
	}

	rdf := NewRDF(40, 20, true)
	for k := 0; k < 6; k++ {
		rdf.Accumulate(sys)
		// re-randomize positions between samples
		rng := rand.New(rand.NewSource(int64(k + 100)))
		for i := 0; i < sys.N; i++ {
			sys.Pos[2*i] = rng.Float64() * box.W
			sys.Pos[2*i+1] = rng.Float64() * box.H
		}
	}

	g.Expect(rdf.Pairs()).To(HaveLen(3)) // (0,0), (0,1), (1,1)

	cross := rdf.Pair(0, 1)
	g.Expect(cross).NotTo(BeNil())
	g.Expect(rdf.Pair(1, 0)).To(Equal(cross), "unordered pair lookup")

	sum, count := 0.0, 0
	for b := rdf.Bins() / 2; b < rdf.Bins(); b++ {
		sum += cross[b]
		count++
	}
	g.Expect(sum / float64(count)).To(BeNumerically("~", 1.0, 0.15))
}

func TestPowerSpectrumFindsDominantFrequency(t *testing.T) {
	g := NewWithT(t)

	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 16 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	maxIdx := 0
	for i := range ps {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	g.Expect(maxIdx).To(Equal(16))
}
