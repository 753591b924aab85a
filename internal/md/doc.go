// Package md provides the core primitives for the 2D molecular dynamics
// engine:
//
//   - [System]: structure-of-arrays particle state (positions, velocities,
//     accelerations, masses, types)
//   - [Box]: rectangular simulation box
//   - [Boundary], [Thermostat], [Barostat]: strategy interfaces applied by
//     the integrator after each step
//
// # Ownership
//
// The integrator exclusively owns the particle arrays for the duration of
// a step. Strategies receive the *System for the call only and must not
// retain a reference across calls. There is a single execution path; no
// locking is needed because there is no concurrent writer, and each full
// step leaves the System self-consistent before any reader observes it.
//
// # Randomness
//
// All stochastic components (velocity initialization, Langevin noise,
// Monte-Carlo volume moves) draw from an explicit *rand.Rand threaded in
// at construction, so runs are reproducible from a seed.
package md
