package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// FormatSimulationTime renders t seconds as "+N day(s) HH:MM:SS"; the day
// part is omitted during the first day.
func FormatSimulationTime(t float64) string {
	s := ""
	if t >= dynamo.SecondsInDay {
		s = fmt.Sprintf("+%d day(s) ", int(math.Floor(t/dynamo.SecondsInDay)))
	}
	within := int(t) % dynamo.SecondsInDay
	return s + fmt.Sprintf("%02d:%02d:%02d", within/3600, within%3600/60, within%60)
}

// FormatSpeed renders a simulation speed in simulated seconds per second.
func FormatSpeed(speed float64) string {
	if speed <= 0 {
		return "Speed: paused"
	}
	value, unit := speed, "s"
	switch {
	case speed < 60:
	case speed < dynamo.SecondsInHour:
		value, unit = speed/60, "min"
	case speed < dynamo.SecondsInDay:
		value, unit = speed/dynamo.SecondsInHour, "h"
	default:
		value, unit = speed/dynamo.SecondsInDay, "days"
	}
	return fmt.Sprintf("Speed: +%.1f %s/s", value, unit)
}

// FormatDistance picks AU for large distances and km otherwise.
func FormatDistance(m float64) string {
	if math.Abs(m) >= 0.01*dynamo.AstronomicalUnit {
		return fmt.Sprintf("%.3f AU", m/dynamo.AstronomicalUnit)
	}
	return fmt.Sprintf("%.0f km", m/1000)
}
