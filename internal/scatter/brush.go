package scatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Brush makes count attempts at uniformly distributed points inside the
// horizontal disc of radius around center. Only center's X and Z are used.
func (s *Scatterer) Brush(surface Surface, center mgl64.Vec3, radius float64, count int, rng Random) Result {
	result := Result{Requested: max(count, 0), Budget: max(count, 0)}
	if radius < 0 {
		radius = 0
	}
	for i := 0; i < result.Budget; i++ {
		result.Attempts++
		dx, dz := insideDisc(rng, radius)
		placement, verdict := s.TryPlace(surface, center.X()+dx, center.Z()+dz, rng)
		if verdict != Accepted {
			result.record(verdict)
			continue
		}
		result.Placements = append(result.Placements, placement)
	}
	return result
}

func insideDisc(rng Random, radius float64) (float64, float64) {
	r := radius * math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	return r * math.Cos(theta), r * math.Sin(theta)
}
