package md

// Boundary mutates positions and velocities in place after each position
// update, enforcing the wall policy of the box.
type Boundary interface {
	Apply(s *System)
}

// Thermostat adjusts velocities in place to steer the system toward its
// target temperature. Applied exactly once per full integration step,
// after the velocity update.
type Thermostat interface {
	Apply(s *System)
}

// BoxChange reports the outcome of a barostat application.
type BoxChange struct {
	Box      Box
	ScaleX   float64
	ScaleY   float64
	Accepted bool
}

// Barostat adjusts the box size toward a target pressure given the
// current pairwise virial Σ F·r. Decoupled from the per-step loop; the
// integrator applies it at a configurable stride. When a change is
// accepted the barostat has already rescaled the particle positions.
type Barostat interface {
	Apply(s *System, virial float64) BoxChange
}
