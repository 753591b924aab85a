// Package units fixes the unit system used throughout the simulation:
// length in Ångström, energy in eV, mass in amu, temperature in Kelvin,
// charge in elementary charges. Time is an internal unit chosen so that
// acceleration = force/mass holds with no conversion factor:
// 1 time unit = sqrt(amu·Å²/eV) ≈ 10.1805 fs.
package units

const (
	// Boltzmann is the Boltzmann constant in eV/K.
	Boltzmann = 8.617333262e-5

	// Coulomb is the Coulomb constant k in eV·Å/e².
	Coulomb = 14.3996

	// TimeUnitFs is the duration of one internal time unit in femtoseconds.
	TimeUnitFs = 10.1805
)
