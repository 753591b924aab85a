package analysis

import (
	"math"

	"github.com/san-kum/mdlab/internal/md"
)

// TypePair is an unordered species pair, stored with A <= B.
type TypePair struct {
	A, B int
}

func makePair(a, b int) TypePair {
	if a > b {
		a, b = b, a
	}
	return TypePair{A: a, B: b}
}

// RDF accumulates the radial distribution function g(r) as a running
// average over samples: each sample builds a full O(N²) pairwise
// histogram, normalizes it against the 2D ideal-gas shell count, and
// blends it in with weight 1/(sampleCount+1). That is a cumulative mean,
// so all samples carry equal long-run weight while partial results are
// available immediately.
type RDF struct {
	bins     int
	rMax     float64
	dr       float64
	periodic bool

	samples int
	global  []float64
	byPair  map[TypePair][]float64

	scratch     []float64
	pairScratch map[TypePair][]float64
}

func NewRDF(bins int, rMax float64, periodic bool) *RDF {
	if bins < 1 {
		bins = 1
	}
	return &RDF{
		bins:        bins,
		rMax:        rMax,
		dr:          rMax / float64(bins),
		periodic:    periodic,
		global:      make([]float64, bins),
		byPair:      make(map[TypePair][]float64),
		scratch:     make([]float64, bins),
		pairScratch: make(map[TypePair][]float64),
	}
}

func (r *RDF) Bins() int       { return r.bins }
func (r *RDF) RMax() float64   { return r.rMax }
func (r *RDF) Samples() int    { return r.samples }
func (r *RDF) BinWidth() float64 { return r.dr }

// R returns the center radius of bin i.
func (r *RDF) R(i int) float64 { return (float64(i) + 0.5) * r.dr }

// Global returns the running-average total g(r).
func (r *RDF) Global() []float64 { return r.global }

// Pair returns the running-average g(r) for an unordered type pair, or
// nil if that pair never occurred.
func (r *RDF) Pair(a, b int) []float64 { return r.byPair[makePair(a, b)] }

// Pairs lists the type pairs with accumulated data.
func (r *RDF) Pairs() []TypePair {
	out := make([]TypePair, 0, len(r.byPair))
	for k := range r.byPair {
		out = append(out, k)
	}
	return out
}

func (r *RDF) Reset() {
	r.samples = 0
	for i := range r.global {
		r.global[i] = 0
	}
	r.byPair = make(map[TypePair][]float64)
	r.pairScratch = make(map[TypePair][]float64)
}

// Accumulate histograms all pairwise distances of the current snapshot
// and folds the normalized result into the running averages.
func (r *RDF) Accumulate(s *md.System) {
	if s.N < 2 {
		return
	}

	for i := range r.scratch {
		r.scratch[i] = 0
	}
	for k := range r.pairScratch {
		h := r.pairScratch[k]
		for i := range h {
			h[i] = 0
		}
	}

	typeCount := make([]float64, s.NumTypes)
	for i := 0; i < s.N; i++ {
		typeCount[s.Type[i]]++
	}

	for i := 0; i < s.N; i++ {
		xi, yi := s.Pos[2*i], s.Pos[2*i+1]
		for j := i + 1; j < s.N; j++ {
			dx := s.Pos[2*j] - xi
			dy := s.Pos[2*j+1] - yi
			if r.periodic {
				dx = wrapHalf(dx, s.Box.W)
				dy = wrapHalf(dy, s.Box.H)
			}
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= r.rMax {
				continue
			}
			bin := int(dist / r.dr)
			r.scratch[bin]++

			key := makePair(s.Type[i], s.Type[j])
			h, ok := r.pairScratch[key]
			if !ok {
				h = make([]float64, r.bins)
				r.pairScratch[key] = h
			}
			h[bin]++
		}
	}

	area := s.Box.Area()
	density := float64(s.N) / area
	w := 1.0 / float64(r.samples+1)

	for b := 0; b < r.bins; b++ {
		// each unordered pair counted once; ×2 restores the per-particle
		// neighbor count the ideal-gas shell normalization expects
		shell := density * 2 * math.Pi * r.R(b) * r.dr * float64(s.N)
		g := 0.0
		if shell > 0 {
			g = 2 * r.scratch[b] / shell
		}
		r.global[b] += (g - r.global[b]) * w
	}

	for key, h := range r.pairScratch {
		avg, ok := r.byPair[key]
		if !ok {
			avg = make([]float64, r.bins)
			r.byPair[key] = avg
		}
		na, nb := typeCount[key.A], typeCount[key.B]
		if na == 0 || nb == 0 {
			continue
		}
		rhoB := nb / area
		for b := 0; b < r.bins; b++ {
			shell := rhoB * 2 * math.Pi * r.R(b) * r.dr * na
			g := 0.0
			if shell > 0 {
				count := h[b]
				if key.A == key.B {
					count *= 2
				}
				g = count / shell
			}
			avg[b] += (g - avg[b]) * w
		}
	}

	r.samples++
}

func wrapHalf(d, ext float64) float64 {
	if d > ext/2 {
		d -= ext
	} else if d < -ext/2 {
		d += ext
	}
	return d
}
