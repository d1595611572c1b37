package scatter

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidConstraints is wrapped by every constraint validation failure.
var ErrInvalidConstraints = errors.New("invalid placement constraints")

// Constraints limits where placements may land and how they are scaled.
// Build values through NewScatterer, which validates them once.
type Constraints struct {
	MinHeightFraction float64 `json:"minHeightFraction" yaml:"min_height_fraction"`
	MaxHeightFraction float64 `json:"maxHeightFraction" yaml:"max_height_fraction"`
	MaxSlopeDegrees   float64 `json:"maxSlopeDegrees" yaml:"max_slope_degrees"`
	MinScale          float64 `json:"minScale" yaml:"min_scale"`
	MaxScale          float64 `json:"maxScale" yaml:"max_scale"`
}

// DefaultConstraints mirrors the stock tree placer settings.
func DefaultConstraints() Constraints {
	return Constraints{
		MinHeightFraction: 0,
		MaxHeightFraction: 0.7,
		MaxSlopeDegrees:   30,
		MinScale:          0.8,
		MaxScale:          1.2,
	}
}

func (c Constraints) Validate() error {
	values := []struct {
		name  string
		value float64
	}{
		{"minHeightFraction", c.MinHeightFraction},
		{"maxHeightFraction", c.MaxHeightFraction},
		{"maxSlopeDegrees", c.MaxSlopeDegrees},
		{"minScale", c.MinScale},
		{"maxScale", c.MaxScale},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConstraints, v.name)
		}
	}

	if c.MinHeightFraction < 0 || c.MinHeightFraction > 1 {
		return fmt.Errorf("%w: minHeightFraction %v must be within [0,1]", ErrInvalidConstraints, c.MinHeightFraction)
	}
	if c.MaxHeightFraction < 0 || c.MaxHeightFraction > 1 {
		return fmt.Errorf("%w: maxHeightFraction %v must be within [0,1]", ErrInvalidConstraints, c.MaxHeightFraction)
	}
	if c.MinHeightFraction > c.MaxHeightFraction {
		return fmt.Errorf("%w: minHeightFraction %v exceeds maxHeightFraction %v", ErrInvalidConstraints, c.MinHeightFraction, c.MaxHeightFraction)
	}
	if c.MaxSlopeDegrees < 0 || c.MaxSlopeDegrees > 90 {
		return fmt.Errorf("%w: maxSlopeDegrees %v must be within [0,90]", ErrInvalidConstraints, c.MaxSlopeDegrees)
	}
	if c.MinScale <= 0 || c.MaxScale <= 0 {
		return fmt.Errorf("%w: scale bounds must be positive", ErrInvalidConstraints)
	}
	if c.MinScale > c.MaxScale {
		return fmt.Errorf("%w: minScale %v exceeds maxScale %v", ErrInvalidConstraints, c.MinScale, c.MaxScale)
	}
	return nil
}

// HeightBand returns the opposite corners of the box that holds every height
// the constraints accept over the given bounds.
func (c Constraints) HeightBand(b Bounds) (min, max mgl64.Vec3) {
	min = mgl64.Vec3{0, b.MaxHeight * c.MinHeightFraction, 0}
	max = mgl64.Vec3{b.Width, b.MaxHeight * c.MaxHeightFraction, b.Depth}
	return min, max
}
