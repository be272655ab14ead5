package dynamo

import "math"

const (
	// AstronomicalUnit in meters.
	AstronomicalUnit = 149_597_870_700.0

	// GravitationalConstant, CODATA 2022 recommended value [m^3 kg^-1 s^-2].
	GravitationalConstant = 6.6743015e-11

	SecondsInHour = 3600.0
	SecondsInDay  = 24 * SecondsInHour

	MassOfSun     = 1_988_550e24  // kg
	DiameterOfSun = 1_392_700_000 // m

	MassOfEarth     = 5.97e24    // kg
	DiameterOfEarth = 12_756_000 // m
)

// Deg2Rad and Rad2Deg convert between degrees and radians.
const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)
