package ephemeris

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// epochJD is 1999-12-31 0h UT, day zero of the element tables.
const epochJD = 2451543.5

// DayNumber returns days since 1999-12-31 0h UT, fractional part included.
func DayNumber(t time.Time) float64 {
	return julian.TimeToJD(t.UTC()) - epochJD
}

// TimeOf converts a day number back to a UTC time.
func TimeOf(d float64) time.Time {
	return julian.JDToTime(d + epochJD).UTC()
}
