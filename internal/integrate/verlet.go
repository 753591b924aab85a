// Package integrate drives the simulation: velocity-Verlet time stepping
// over neighbor-list pair forces, plus the FIRE minimizer used to relax
// bad initial contacts.
package integrate

import (
	"math"

	"github.com/san-kum/mdlab/internal/analysis"
	"github.com/san-kum/mdlab/internal/field"
	"github.com/san-kum/mdlab/internal/md"
	"github.com/san-kum/mdlab/internal/neighbor"
	"github.com/san-kum/mdlab/internal/potential"
)

const (
	// DefaultMinDistance clamps the separation passed into potentials so
	// overlapping particles produce large-but-finite forces. Direction is
	// still taken from the true displacement.
	DefaultMinDistance = 1.0

	// DefaultMaxSpeed caps the velocity magnitude after each step. Not
	// physically principled: it trades strict energy conservation in
	// pathological close approaches for never corrupting the whole
	// system in one step.
	DefaultMaxSpeed = 50.0
)

// VelocityVerlet owns the particle arrays for the duration of each Step
// and orchestrates the fixed per-step sequence: cache accelerations →
// position update → boundary → force recomputation → velocity update →
// thermostat → analytics.
type VelocityVerlet struct {
	sys  *md.System
	pots *potential.Manager
	nl   *neighbor.List
	bc   md.Boundary
	dt   float64

	thermo     md.Thermostat
	baro       md.Barostat
	baroStride int

	force      *field.ForceGrid
	efield     *field.ElectricGrid
	charges    []float64
	chargeMode bool

	engine *analysis.Engine

	minDist  float64
	maxSpeed float64

	steps           int
	potentialEnergy float64
	virial          float64
}

func NewVelocityVerlet(sys *md.System, pots *potential.Manager, nl *neighbor.List, bc md.Boundary, dt float64) *VelocityVerlet {
	return &VelocityVerlet{
		sys:      sys,
		pots:     pots,
		nl:       nl,
		bc:       bc,
		dt:       dt,
		minDist:  DefaultMinDistance,
		maxSpeed: DefaultMaxSpeed,
	}
}

func (vv *VelocityVerlet) SetThermostat(t md.Thermostat) { vv.thermo = t }

// SetBarostat installs a barostat applied every stride steps.
func (vv *VelocityVerlet) SetBarostat(b md.Barostat, stride int) {
	vv.baro = b
	vv.baroStride = stride
}

func (vv *VelocityVerlet) SetForceField(g *field.ForceGrid) { vv.force = g }

// SetElectricField installs a field grid coupled through per-type
// charges: force = q·E per particle.
func (vv *VelocityVerlet) SetElectricField(g *field.ElectricGrid, charges []float64) {
	vv.efield = g
	vv.charges = charges
}

// SetChargeMode flips the sign of force-grid contributions for particles
// whose type charge is negative.
func (vv *VelocityVerlet) SetChargeMode(on bool, charges []float64) {
	vv.chargeMode = on
	if charges != nil {
		vv.charges = charges
	}
}

func (vv *VelocityVerlet) SetAnalytics(e *analysis.Engine) { vv.engine = e }

func (vv *VelocityVerlet) SetMinDistance(d float64) { vv.minDist = d }
func (vv *VelocityVerlet) SetMaxSpeed(v float64)    { vv.maxSpeed = v }

func (vv *VelocityVerlet) Dt() float64              { return vv.dt }
func (vv *VelocityVerlet) Steps() int               { return vv.steps }
func (vv *VelocityVerlet) PotentialEnergy() float64 { return vv.potentialEnergy }
func (vv *VelocityVerlet) Virial() float64          { return vv.virial }
func (vv *VelocityVerlet) System() *md.System       { return vv.sys }

// TotalEnergy returns KE + PE as of the last force evaluation.
func (vv *VelocityVerlet) TotalEnergy() float64 {
	return vv.sys.KineticEnergy() + vv.potentialEnergy
}

// ComputeForces evaluates forces for the current positions without
// advancing time. Call once after initialization so the first Step has
// valid accelerations.
func (vv *VelocityVerlet) ComputeForces() {
	vv.computeForces()
}

// Step advances the system by one timestep.
func (vv *VelocityVerlet) Step() {
	s := vv.sys
	dt := vv.dt
	half := 0.5 * dt * dt

	copy(s.OldAcc, s.Acc)

	for i := 0; i < 2*s.N; i++ {
		s.Pos[i] += s.Vel[i]*dt + s.Acc[i]*half
	}

	// boundary before force evaluation so wrapped/reflected positions
	// feed the neighbor search
	vv.bc.Apply(s)

	vv.computeForces()

	halfDt := 0.5 * dt
	for i := 0; i < 2*s.N; i++ {
		s.Vel[i] += (s.OldAcc[i] + s.Acc[i]) * halfDt
	}
	vv.clampSpeeds()

	if vv.thermo != nil {
		vv.thermo.Apply(s)
	}

	vv.steps++
	if vv.baro != nil && vv.baroStride > 0 && vv.steps%vv.baroStride == 0 {
		change := vv.baro.Apply(s, vv.virial)
		if change.Accepted && (change.ScaleX != 1 || change.ScaleY != 1) {
			vv.nl.Invalidate()
		}
	}

	if vv.engine != nil {
		vv.engine.UpdateTime(dt)
		vv.engine.CalculateAndSample(s, vv.potentialEnergy, vv.virial)
	}
}

// StepN runs n consecutive steps; the sequential batching that decouples
// the physical timestep from the host frame rate.
func (vv *VelocityVerlet) StepN(n int) {
	for i := 0; i < n; i++ {
		vv.Step()
	}
}

func (vv *VelocityVerlet) computeForces() {
	s := vv.sys
	for i := range s.Acc {
		s.Acc[i] = 0
	}
	vv.potentialEnergy = 0
	vv.virial = 0

	vv.nl.Update(s.Pos, s.N, s.Box)
	vv.nl.ForEachPair(s.N, func(i, j int, dx, dy, r2 float64) {
		r := math.Sqrt(r2)
		if r <= 0 {
			return
		}
		// clamp evaluation distance, keep true direction
		rEval := r
		if rEval < vv.minDist {
			rEval = vv.minDist
		}
		u, grad := vv.pots.Eval(rEval, s.Type[i], s.Type[j])
		if !finite(u) || !finite(grad) {
			return
		}

		// dx points i→j, so projecting dU/dr onto it gives the force on i
		fx := grad * dx / r
		fy := grad * dy / r
		s.Acc[2*i] += fx / s.Mass[i]
		s.Acc[2*i+1] += fy / s.Mass[i]
		s.Acc[2*j] -= fx / s.Mass[j]
		s.Acc[2*j+1] -= fy / s.Mass[j]

		vv.potentialEnergy += u
		vv.virial += -grad * rEval
	})

	if vv.force != nil || vv.efield != nil {
		vv.applyFields()
	}
}

func (vv *VelocityVerlet) applyFields() {
	s := vv.sys
	for i := 0; i < s.N; i++ {
		x, y := s.Pos[2*i], s.Pos[2*i+1]
		m := s.Mass[i]

		if vv.force != nil {
			fx, fy := vv.force.GetForce(x, y, true)
			if vv.chargeMode && vv.charges != nil && vv.charges[s.Type[i]] < 0 {
				fx, fy = -fx, -fy
			}
			if finite(fx) && finite(fy) {
				s.Acc[2*i] += fx / m
				s.Acc[2*i+1] += fy / m
			}
			vv.potentialEnergy += vv.force.GetPotential(x, y, true)
		}

		if vv.efield != nil && vv.charges != nil {
			ex, ey := vv.efield.GetField(x, y, true)
			q := vv.charges[s.Type[i]]
			if finite(ex) && finite(ey) {
				s.Acc[2*i] += q * ex / m
				s.Acc[2*i+1] += q * ey / m
			}
		}
	}
}

func (vv *VelocityVerlet) clampSpeeds() {
	s := vv.sys
	max2 := vv.maxSpeed * vv.maxSpeed
	for i := 0; i < s.N; i++ {
		vx, vy := s.Vel[2*i], s.Vel[2*i+1]
		v2 := vx*vx + vy*vy
		if v2 > max2 {
			scale := vv.maxSpeed / math.Sqrt(v2)
			s.Vel[2*i] = vx * scale
			s.Vel[2*i+1] = vy * scale
		}
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
