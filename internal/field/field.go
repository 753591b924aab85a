// Package field provides user-paintable scalar/vector grids sampled by
// the integrator as O(1) per-particle external force contributions. Only
// the sampling side lives here; painting UIs fill grids through the cell
// setters or the preset fills.
package field

import (
	"math"

	"github.com/san-kum/mdlab/internal/md"
)

// grid is a node-centered lattice spanning the box.
type grid struct {
	nx, ny int
	w, h   float64
}

func (g *grid) index(x, y float64) (int, int) {
	i := int(x / g.w * float64(g.nx-1))
	j := int(y / g.h * float64(g.ny-1))
	if i < 0 {
		i = 0
	} else if i >= g.nx {
		i = g.nx - 1
	}
	if j < 0 {
		j = 0
	} else if j >= g.ny {
		j = g.ny - 1
	}
	return i, j
}

// bilinear returns the interpolation corners and weights for (x, y).
func (g *grid) bilinear(x, y float64) (i0, j0, i1, j1 int, tx, ty float64) {
	fx := x / g.w * float64(g.nx-1)
	fy := y / g.h * float64(g.ny-1)
	fx = math.Max(0, math.Min(fx, float64(g.nx-1)))
	fy = math.Max(0, math.Min(fy, float64(g.ny-1)))
	i0 = int(fx)
	j0 = int(fy)
	i1 = i0 + 1
	j1 = j0 + 1
	if i1 >= g.nx {
		i1 = g.nx - 1
	}
	if j1 >= g.ny {
		j1 = g.ny - 1
	}
	return i0, j0, i1, j1, fx - float64(i0), fy - float64(j0)
}

func (g *grid) at(data []float64, i, j int) float64 { return data[j*g.nx+i] }

func (g *grid) sample(data []float64, x, y float64, interpolate bool) float64 {
	if !interpolate {
		i, j := g.index(x, y)
		return g.at(data, i, j)
	}
	i0, j0, i1, j1, tx, ty := g.bilinear(x, y)
	top := g.at(data, i0, j0)*(1-tx) + g.at(data, i1, j0)*tx
	bot := g.at(data, i0, j1)*(1-tx) + g.at(data, i1, j1)*tx
	return top*(1-ty) + bot*ty
}

// ForceGrid stores a force vector and a potential scalar per node.
type ForceGrid struct {
	grid
	fx, fy, pot []float64
}

func NewForceGrid(nx, ny int, box md.Box) *ForceGrid {
	return &ForceGrid{
		grid: grid{nx: nx, ny: ny, w: box.W, h: box.H},
		fx:   make([]float64, nx*ny),
		fy:   make([]float64, nx*ny),
		pot:  make([]float64, nx*ny),
	}
}

func (g *ForceGrid) SetForce(i, j int, fx, fy float64) {
	g.fx[j*g.nx+i] = fx
	g.fy[j*g.nx+i] = fy
}

func (g *ForceGrid) SetPotential(i, j int, u float64) { g.pot[j*g.nx+i] = u }

// GetForce samples the force vector at (x, y), bilinearly when
// interpolate is set, nearest-node otherwise.
func (g *ForceGrid) GetForce(x, y float64, interpolate bool) (float64, float64) {
	return g.sample(g.fx, x, y, interpolate), g.sample(g.fy, x, y, interpolate)
}

func (g *ForceGrid) GetPotential(x, y float64, interpolate bool) float64 {
	return g.sample(g.pot, x, y, interpolate)
}

// FillUniform sets a constant force everywhere.
func (g *ForceGrid) FillUniform(fx, fy float64) {
	for k := range g.fx {
		g.fx[k] = fx
		g.fy[k] = fy
	}
}

// FillRadial points every node's force at (or away from, for negative
// strength) the box center.
func (g *ForceGrid) FillRadial(strength float64) {
	cx, cy := g.w/2, g.h/2
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			x := float64(i) / float64(g.nx-1) * g.w
			y := float64(j) / float64(g.ny-1) * g.h
			dx, dy := cx-x, cy-y
			r := math.Hypot(dx, dy)
			if r < 1e-9 {
				continue
			}
			g.fx[j*g.nx+i] = strength * dx / r
			g.fy[j*g.nx+i] = strength * dy / r
			g.pot[j*g.nx+i] = strength * r
		}
	}
}

// FillVortex sets a solenoidal force circulating around the box center.
func (g *ForceGrid) FillVortex(strength float64) {
	cx, cy := g.w/2, g.h/2
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			x := float64(i) / float64(g.nx-1) * g.w
			y := float64(j) / float64(g.ny-1) * g.h
			dx, dy := x-cx, y-cy
			r := math.Hypot(dx, dy)
			if r < 1e-9 {
				continue
			}
			g.fx[j*g.nx+i] = -strength * dy / r
			g.fy[j*g.nx+i] = strength * dx / r
		}
	}
}

// ElectricGrid stores a field vector per node. The integrator multiplies
// the sampled field by particle charge (sign-flipped per type in charge
// mode), so the grid itself is charge-agnostic.
type ElectricGrid struct {
	grid
	ex, ey []float64
}

func NewElectricGrid(nx, ny int, box md.Box) *ElectricGrid {
	return &ElectricGrid{
		grid: grid{nx: nx, ny: ny, w: box.W, h: box.H},
		ex:   make([]float64, nx*ny),
		ey:   make([]float64, nx*ny),
	}
}

func (g *ElectricGrid) SetField(i, j int, ex, ey float64) {
	g.ex[j*g.nx+i] = ex
	g.ey[j*g.nx+i] = ey
}

func (g *ElectricGrid) GetField(x, y float64, interpolate bool) (float64, float64) {
	return g.sample(g.ex, x, y, interpolate), g.sample(g.ey, x, y, interpolate)
}

func (g *ElectricGrid) FillUniform(ex, ey float64) {
	for k := range g.ex {
		g.ex[k] = ex
		g.ey[k] = ey
	}
}
