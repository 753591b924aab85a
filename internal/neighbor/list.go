// Package neighbor provides an O(N) neighbor search built from a uniform
// cell grid and a Verlet skin. The list over-includes pairs out to
// cutoff+skin at build time; ForEachPair re-checks the true cutoff so
// consumers never see skin-only pairs.
package neighbor

import (
	"math"

	"github.com/san-kum/mdlab/internal/md"
)

const (
	// DefaultCapacity is the fixed per-particle neighbor slot count.
	// Overflowing pairs are dropped silently; size this generously for
	// the intended densities rather than relying on graceful degradation.
	DefaultCapacity = 64

	// DefaultRebuildEvery forces a full rebuild after this many Update
	// calls even when no particle moved far.
	DefaultRebuildEvery = 20
)

type entry struct {
	j      int
	dx, dy float64
	r2     float64
}

// List caches, for each particle, the indices of all others within
// cutoff+skin together with their minimum-image displacement and squared
// distance at the last refresh.
type List struct {
	cutoff       float64
	skin         float64
	periodic     bool
	capacity     int
	rebuildEvery int

	n      int
	box    md.Box
	nx, ny int
	cellW  float64
	cellH  float64
	head   []int
	next   []int

	counts   []int
	entries  []entry
	entryCap int // capacity entries was sized with

	refPos    []float64
	step      int
	lastBuild int
	invalid   bool
	built     bool
}

// NewList creates a neighbor list for the given interaction cutoff and
// skin radius. Periodic selects minimum-image displacement and wrapped
// cell adjacency.
func NewList(cutoff, skin float64, periodic bool) *List {
	return &List{
		cutoff:       cutoff,
		skin:         skin,
		periodic:     periodic,
		capacity:     DefaultCapacity,
		rebuildEvery: DefaultRebuildEvery,
		invalid:      true,
	}
}

func (l *List) SetCapacity(c int)     { l.capacity = c; l.invalid = true }
func (l *List) SetRebuildEvery(k int) { l.rebuildEvery = k }

// SetCutoff changes the interaction cutoff and invalidates the list.
func (l *List) SetCutoff(cutoff float64) {
	l.cutoff = cutoff
	l.invalid = true
}

// Invalidate forces a full rebuild on the next Update. Call after any
// structural change (particle count, cutoff, box edits outside a step).
func (l *List) Invalidate() { l.invalid = true }

func (l *List) Cutoff() float64 { return l.cutoff }

// minImage wraps a displacement component into (-ext/2, ext/2].
func minImage(d, ext float64) float64 {
	if d > ext/2 {
		d -= ext
	} else if d < -ext/2 {
		d += ext
	}
	return d
}

func (l *List) displacement(xi, yi, xj, yj float64) (float64, float64) {
	dx := xj - xi
	dy := yj - yi
	if l.periodic {
		dx = minImage(dx, l.box.W)
		dy = minImage(dy, l.box.H)
	}
	return dx, dy
}

func (l *List) resize(n int) {
	if n == l.n && l.entryCap == l.capacity && l.entries != nil {
		return
	}
	l.n = n
	l.entryCap = l.capacity
	l.counts = make([]int, n)
	l.entries = make([]entry, n*l.capacity)
	l.next = make([]int, n)
	l.refPos = make([]float64, 2*n)
}

func (l *List) setupGrid(box md.Box) {
	l.box = box
	reach := l.cutoff + l.skin
	nx := int(box.W / reach)
	ny := int(box.H / reach)
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	l.nx, l.ny = nx, ny
	l.cellW = box.W / float64(nx)
	l.cellH = box.H / float64(ny)
	if len(l.head) != nx*ny {
		l.head = make([]int, nx*ny)
	}
}

func (l *List) cellIndex(x, y float64) (int, int) {
	cx := int(x / l.cellW)
	cy := int(y / l.cellH)
	if cx < 0 {
		cx = 0
	} else if cx >= l.nx {
		cx = l.nx - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= l.ny {
		cy = l.ny - 1
	}
	return cx, cy
}

// Build rebuckets all particles and repopulates every neighbor slot out
// to cutoff+skin.
func (l *List) Build(pos []float64, n int, box md.Box) {
	l.resize(n)
	l.setupGrid(box)

	for c := range l.head {
		l.head[c] = -1
	}
	for i := 0; i < n; i++ {
		cx, cy := l.cellIndex(pos[2*i], pos[2*i+1])
		c := cy*l.nx + cx
		l.next[i] = l.head[c]
		l.head[c] = i
	}

	reach2 := (l.cutoff + l.skin) * (l.cutoff + l.skin)
	var visited [9]int

	for i := 0; i < n; i++ {
		l.counts[i] = 0
		xi, yi := pos[2*i], pos[2*i+1]
		cx, cy := l.cellIndex(xi, yi)

		nv := 0
		for oy := -1; oy <= 1; oy++ {
			for ox := -1; ox <= 1; ox++ {
				gx, gy := cx+ox, cy+oy
				if l.periodic {
					gx = (gx + l.nx) % l.nx
					gy = (gy + l.ny) % l.ny
				} else if gx < 0 || gx >= l.nx || gy < 0 || gy >= l.ny {
					continue
				}
				c := gy*l.nx + gx
				// a box under 3 cells wide aliases cells in the 3x3
				// block; skip cells already scanned for this particle
				dup := false
				for k := 0; k < nv; k++ {
					if visited[k] == c {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				visited[nv] = c
				nv++

				for j := l.head[c]; j >= 0; j = l.next[j] {
					if j <= i {
						continue
					}
					dx, dy := l.displacement(xi, yi, pos[2*j], pos[2*j+1])
					r2 := dx*dx + dy*dy
					if r2 > reach2 {
						continue
					}
					if l.counts[i] < l.entryCap {
						l.entries[i*l.entryCap+l.counts[i]] = entry{j: j, dx: dx, dy: dy, r2: r2}
						l.counts[i]++
					}
					// capacity ceiling: excess pairs dropped
				}
			}
		}
	}

	copy(l.refPos, pos[:2*n])
	l.lastBuild = l.step
	l.invalid = false
	l.built = true
}

// Update advances the step counter and either rebuilds (when invalidated,
// when the rebuild interval elapsed, or when any particle drifted more
// than skin/4 from its build position) or cheaply refreshes the cached
// displacements of the existing pairs. The skin/4 margin, not skin/2,
// covers two particles approaching each other head-on.
func (l *List) Update(pos []float64, n int, box md.Box) {
	l.step++

	if l.invalid || !l.built || n != l.n || l.step-l.lastBuild >= l.rebuildEvery || l.maxDriftExceeded(pos, n, box) {
		l.Build(pos, n, box)
		return
	}

	l.box = box
	for i := 0; i < n; i++ {
		xi, yi := pos[2*i], pos[2*i+1]
		base := i * l.entryCap
		for k := 0; k < l.counts[i]; k++ {
			e := &l.entries[base+k]
			dx, dy := l.displacement(xi, yi, pos[2*e.j], pos[2*e.j+1])
			e.dx, e.dy = dx, dy
			e.r2 = dx*dx + dy*dy
		}
	}
}

func (l *List) maxDriftExceeded(pos []float64, n int, box md.Box) bool {
	limit := l.skin / 4
	limit2 := limit * limit
	for i := 0; i < n; i++ {
		dx := pos[2*i] - l.refPos[2*i]
		dy := pos[2*i+1] - l.refPos[2*i+1]
		if l.periodic {
			dx = minImage(dx, box.W)
			dy = minImage(dy, box.H)
		}
		if dx*dx+dy*dy > limit2 {
			return true
		}
	}
	return false
}

// ForEachPair invokes fn once per cached pair within the true cutoff,
// passing the minimum-image displacement from i to j and its square.
func (l *List) ForEachPair(n int, fn func(i, j int, dx, dy, r2 float64)) {
	cut2 := l.cutoff * l.cutoff
	for i := 0; i < n; i++ {
		base := i * l.entryCap
		for k := 0; k < l.counts[i]; k++ {
			e := l.entries[base+k]
			if e.r2 <= cut2 {
				fn(i, e.j, e.dx, e.dy, e.r2)
			}
		}
	}
}

// PairCount returns the number of cached pairs inside the true cutoff.
func (l *List) PairCount(n int) int {
	count := 0
	l.ForEachPair(n, func(int, int, float64, float64, float64) { count++ })
	return count
}

// MaxDrift reports the largest particle displacement since the last
// build, for diagnostics.
func (l *List) MaxDrift(pos []float64, n int, box md.Box) float64 {
	max2 := 0.0
	for i := 0; i < n && 2*i+1 < len(l.refPos); i++ {
		dx := pos[2*i] - l.refPos[2*i]
		dy := pos[2*i+1] - l.refPos[2*i+1]
		if l.periodic {
			dx = minImage(dx, box.W)
			dy = minImage(dy, box.H)
		}
		if d2 := dx*dx + dy*dy; d2 > max2 {
			max2 = d2
		}
	}
	return math.Sqrt(max2)
}
