package rig

import "math"

// speedSnapThreshold is the distance below which a smoothed value jumps
// straight to its target.
const speedSnapThreshold = 0.01

// AdvanceTowards moves current towards target by at most rate*dt without
// overshooting.
func AdvanceTowards(current, target, rate, dt float64) float64 {
	maxDelta := rate * dt
	diff := target - current
	if math.Abs(diff) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, diff)
}

// SpeedSmoother eases a scalar towards a moving target once per tick.
type SpeedSmoother struct {
	Rate    float64
	current float64
}

// Step advances one tick and returns the new value.
func (s *SpeedSmoother) Step(target, dt float64) float64 {
	if math.Abs(s.current-target) > speedSnapThreshold {
		s.current = AdvanceTowards(s.current, target, s.Rate, dt)
	} else {
		s.current = target
	}
	return s.current
}

func (s *SpeedSmoother) Value() float64 {
	return s.current
}
