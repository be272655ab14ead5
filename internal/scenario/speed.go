package scenario

import "math"

const day = 24 * 3600

// DefaultSpeedIntervals are the slider stops in simulated seconds per real
// second, from paused to a hundred days per second.
var DefaultSpeedIntervals = []int{0, 1, 10, 60, 600, 3600, 6 * 3600, day, 7 * day, 30 * day, 100 * day}

// SpeedIntervals returns s's intervals or the defaults.
func SpeedIntervals(s Scenario) []int {
	if iv := s.SpeedIntervals(); len(iv) > 0 {
		return iv
	}
	return DefaultSpeedIntervals
}

// InterpolateSpeed maps a slider position in [0, len(intervals)-1] to a
// speed, interpolating linearly between stops. Out of range positions are
// clamped.
func InterpolateSpeed(intervals []int, slider float64) float64 {
	if len(intervals) == 0 {
		return 0
	}
	top := float64(len(intervals) - 1)
	if math.IsNaN(slider) || slider < 0 {
		slider = 0
	}
	if slider > top {
		slider = top
	}

	lo := int(math.Floor(slider))
	hi := int(math.Ceil(slider))
	if lo == hi {
		return float64(intervals[lo])
	}
	a, b := float64(intervals[lo]), float64(intervals[hi])
	return a + (b-a)*(slider-float64(lo))
}

// SliderFor is the inverse of InterpolateSpeed for speeds within range.
func SliderFor(intervals []int, speed float64) float64 {
	if len(intervals) == 0 || speed <= float64(intervals[0]) {
		return 0
	}
	for i := 1; i < len(intervals); i++ {
		a, b := float64(intervals[i-1]), float64(intervals[i])
		if speed <= b {
			if b == a {
				return float64(i)
			}
			return float64(i-1) + (speed-a)/(b-a)
		}
	}
	return float64(len(intervals) - 1)
}
