// Package analysis turns raw per-step force-evaluation outputs into
// bounded time-series observables and structural statistics. Sampling is
// decoupled from the integration timestep by an internal clock; between
// samples everything is a no-op.
package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/units"
)

// Observable names recorded by the engine.
const (
	ObsKineticEnergy   = "kinetic_energy"
	ObsPotentialEnergy = "potential_energy"
	ObsTotalEnergy     = "total_energy"
	ObsTemperature     = "temperature"
	ObsPressure        = "pressure"
	ObsDensity         = "density"
	ObsHeatCapacity    = "heat_capacity"
	ObsDiffusion       = "diffusion"
)

// heatCapacityWindow is the number of trailing samples used for the
// variance-based heat-capacity estimate.
const heatCapacityWindow = 50

// Sample is one observable reading with its sample time.
type Sample struct {
	Time  float64
	Value float64
}

// Series is a bounded time series: appending past the capacity evicts the
// oldest sample.
type Series struct {
	maxLen  int
	samples []Sample
}

func newSeries(maxLen int) *Series {
	return &Series{maxLen: maxLen, samples: make([]Sample, 0, maxLen)}
}

func (s *Series) Append(t, v float64) {
	if len(s.samples) == s.maxLen {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:s.maxLen-1]
	}
	s.samples = append(s.samples, Sample{Time: t, Value: v})
}

func (s *Series) Len() int { return len(s.samples) }

func (s *Series) At(i int) Sample { return s.samples[i] }

func (s *Series) Last() Sample {
	return s.samples[len(s.samples)-1]
}

// Values copies out the value column, for plotting.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.samples))
	for i, smp := range s.samples {
		out[i] = smp.Value
	}
	return out
}

// Engine samples thermodynamic observables at a fixed cadence and keeps a
// rolling history per observable plus a running-average radial
// distribution function.
type Engine struct {
	interval float64
	maxLen   int

	clock      float64
	lastSample float64
	count      int

	history map[string]*Series
	rdf     *RDF

	energyWin []float64
	tempWin   []float64
}

// NewEngine creates an engine that samples every interval time units and
// keeps at most maxLen points per observable. The RDF accumulates rdfBins
// bins out to rMax; periodic selects minimum-image pair distances.
// Non-positive maxLen is clamped to 1 so sampling stays panic-free.
func NewEngine(interval float64, maxLen, rdfBins int, rMax float64, periodic bool) *Engine {
	if maxLen < 1 {
		maxLen = 1
	}
	return &Engine{
		interval: interval,
		maxLen:   maxLen,
		history:  make(map[string]*Series),
		rdf:      NewRDF(rdfBins, rMax, periodic),
	}
}

// UpdateTime advances the sampling clock by one integration step.
func (e *Engine) UpdateTime(dt float64) { e.clock += dt }

// Clock returns the elapsed sample-clock time.
func (e *Engine) Clock() float64 { return e.clock }

// SampleCount returns the number of samples taken since the last reset.
func (e *Engine) SampleCount() int { return e.count }

// CalculateAndSample records all observables if at least the sampling
// interval has elapsed since the last sample. Returns whether a sample
// was taken.
func (e *Engine) CalculateAndSample(s *md.System, potentialEnergy, virial float64) bool {
	if e.count > 0 && e.clock-e.lastSample < e.interval {
		return false
	}
	e.lastSample = e.clock
	e.count++

	ke := s.KineticEnergy()
	temp := s.Temperature()
	total := ke + potentialEnergy
	pressure := 0.0
	if a := s.Box.Area(); a > 0 {
		pressure = (ke + virial) / a
	}

	e.record(ObsKineticEnergy, ke)
	e.record(ObsPotentialEnergy, potentialEnergy)
	e.record(ObsTotalEnergy, total)
	e.record(ObsTemperature, temp)
	e.record(ObsPressure, pressure)
	e.record(ObsDensity, s.Density())

	e.energyWin = pushWindow(e.energyWin, total, heatCapacityWindow)
	e.tempWin = pushWindow(e.tempWin, temp, heatCapacityWindow)
	e.record(ObsHeatCapacity, e.heatCapacity(s.N))

	// diffusion coefficient is a placeholder: no trajectory-based MSD
	// tracking exists, matching the known gap in the original engine
	e.record(ObsDiffusion, 0)

	e.rdf.Accumulate(s)
	return true
}

func (e *Engine) record(name string, v float64) {
	ser, ok := e.history[name]
	if !ok {
		ser = newSeries(e.maxLen)
		e.history[name] = ser
	}
	ser.Append(e.clock, v)
}

// History returns the series for an observable, or nil when nothing has
// been recorded under that name.
func (e *Engine) History(name string) *Series { return e.history[name] }

// Names lists observables with recorded history, sorted.
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.history))
	for k := range e.history {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RDF exposes the radial distribution accumulator.
func (e *Engine) RDF() *RDF { return e.rdf }

// Reset clears all history, the RDF accumulators, and the clock. Invoked
// whenever the particle population is regenerated.
func (e *Engine) Reset() {
	e.clock = 0
	e.lastSample = 0
	e.count = 0
	e.history = make(map[string]*Series)
	e.energyWin = e.energyWin[:0]
	e.tempWin = e.tempWin[:0]
	e.rdf.Reset()
}

func pushWindow(w []float64, v float64, max int) []float64 {
	if len(w) == max {
		copy(w, w[1:])
		w = w[:max-1]
	}
	return append(w, v)
}

// heatCapacity estimates Cv per particle from the energy variance over
// the trailing window: Cv ≈ Var(E)/(kB·T̄²·N).
func (e *Engine) heatCapacity(n int) float64 {
	if len(e.energyWin) < 2 || n == 0 {
		return 0
	}
	meanT := mean(e.tempWin)
	if meanT <= 0 {
		return 0
	}
	varE := variance(e.energyWin)
	return varE / (units.Boltzmann * meanT * meanT * float64(n))
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// Finite reports whether every recorded sample is finite, for end-to-end
// sanity checks.
func (e *Engine) Finite() bool {
	for _, ser := range e.history {
		for _, smp := range ser.samples {
			if math.IsNaN(smp.Value) || math.IsInf(smp.Value, 0) {
				return false
			}
		}
	}
	return true
}
