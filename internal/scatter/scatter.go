// Package scatter places objects over a terrain surface by rejection
// sampling against height and slope limits.
package scatter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultAttemptMultiplier bounds the attempts of a scatter run to
// DesiredCount times this value when the request leaves it unset.
const DefaultAttemptMultiplier = 10

// maxPreallocated caps the placement slice reserved up front; larger runs
// grow it as placements are accepted.
const maxPreallocated = 1 << 16

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

// Bounds describes the sampled extent of a surface. X spans [0, Width),
// Z spans [0, Depth) and heights are normalised against MaxHeight.
type Bounds struct {
	Width     float64
	Depth     float64
	MaxHeight float64
}

func (b Bounds) valid() bool {
	return b.Width > 0 && b.Depth > 0 && b.MaxHeight > 0
}

// Contains reports whether (x, z) lies inside the horizontal extent.
func (b Bounds) Contains(x, z float64) bool {
	return x >= 0 && x < b.Width && z >= 0 && z < b.Depth
}

// Surface is the terrain oracle consulted for every candidate. Implementations
// must tolerate concurrent reads.
type Surface interface {
	Height(x, z float64) float64
	Normal(x, z float64) mgl64.Vec3
	Bounds() Bounds
}

// Random supplies uniform draws. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// Placement is one accepted object instance.
type Placement struct {
	Position  mgl64.Vec3 `json:"position" yaml:"position"`
	RotationY float64    `json:"rotationY" yaml:"rotation_y"`
	Scale     float64    `json:"scale" yaml:"scale"`
	Prefab    string     `json:"prefab,omitempty" yaml:"prefab,omitempty"`
}

// Request sizes a single scatter run.
type Request struct {
	DesiredCount         int
	MaxAttemptMultiplier int
}

func (r Request) attemptBudget() int {
	if r.DesiredCount <= 0 {
		return 0
	}
	multiplier := r.MaxAttemptMultiplier
	if multiplier <= 0 {
		multiplier = DefaultAttemptMultiplier
	}
	if multiplier > math.MaxInt/r.DesiredCount {
		return math.MaxInt
	}
	return r.DesiredCount * multiplier
}

// Verdict is the outcome of evaluating one candidate position.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedBounds
	RejectedHeight
	RejectedSlope
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedBounds:
		return "out of bounds"
	case RejectedHeight:
		return "height out of range"
	case RejectedSlope:
		return "slope too steep"
	default:
		return "unknown"
	}
}

// Result reports what a scatter or brush run produced. A run that exhausts
// its attempt budget returns a short Placements slice; that is not an error.
type Result struct {
	Placements     []Placement
	Requested      int
	Attempts       int
	Budget         int
	RejectedBounds int
	RejectedHeight int
	RejectedSlope  int
}

func (r Result) Accepted() int {
	return len(r.Placements)
}

// Shortfall is the number of requested placements that were not produced.
func (r Result) Shortfall() int {
	if missing := r.Requested - len(r.Placements); missing > 0 {
		return missing
	}
	return 0
}

func (r *Result) record(v Verdict) {
	switch v {
	case RejectedBounds:
		r.RejectedBounds++
	case RejectedHeight:
		r.RejectedHeight++
	case RejectedSlope:
		r.RejectedSlope++
	}
}

// Scatterer holds validated constraints and the prefab pool. It carries no
// mutable state and may be shared between goroutines.
type Scatterer struct {
	constraints Constraints
	prefabs     []string
}

// NewScatterer validates the constraints once. Prefabs are optional; when
// present every placement names one chosen uniformly.
func NewScatterer(c Constraints, prefabs ...string) (*Scatterer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Scatterer{
		constraints: c,
		prefabs:     append([]string(nil), prefabs...),
	}, nil
}

// Scatter validates c and runs a single scatter pass.
func Scatter(surface Surface, c Constraints, req Request, rng Random) (Result, error) {
	s, err := NewScatterer(c)
	if err != nil {
		return Result{}, err
	}
	return s.Scatter(surface, req, rng), nil
}

func (s *Scatterer) Constraints() Constraints {
	return s.constraints
}

func (s *Scatterer) Scatter(surface Surface, req Request, rng Random) Result {
	result := Result{Requested: max(req.DesiredCount, 0)}
	bounds := surface.Bounds()
	if !bounds.valid() {
		return result
	}

	result.Budget = req.attemptBudget()
	result.Placements = make([]Placement, 0, min(result.Requested, result.Budget, maxPreallocated))
	for result.Attempts < result.Budget && len(result.Placements) < result.Requested {
		result.Attempts++
		x := rng.Float64() * bounds.Width
		z := rng.Float64() * bounds.Depth
		placement, verdict := s.TryPlace(surface, x, z, rng)
		if verdict != Accepted {
			result.record(verdict)
			continue
		}
		result.Placements = append(result.Placements, placement)
	}
	return result
}

// Evaluate samples the surface at (x, z) and checks it against the
// constraints without consuming randomness.
func (s *Scatterer) Evaluate(surface Surface, x, z float64) (float64, Verdict) {
	bounds := surface.Bounds()
	if !bounds.valid() || !bounds.Contains(x, z) {
		return 0, RejectedBounds
	}

	y := surface.Height(x, z)
	h := y / bounds.MaxHeight
	if !(h >= s.constraints.MinHeightFraction && h <= s.constraints.MaxHeightFraction) {
		return y, RejectedHeight
	}

	if SlopeDegrees(surface.Normal(x, z)) > s.constraints.MaxSlopeDegrees {
		return y, RejectedSlope
	}
	return y, Accepted
}

// TryPlace evaluates (x, z) and, when accepted, draws rotation, scale and
// prefab for the new placement. Scale is drawn from [MinScale, MaxScale).
func (s *Scatterer) TryPlace(surface Surface, x, z float64, rng Random) (Placement, Verdict) {
	y, verdict := s.Evaluate(surface, x, z)
	if verdict != Accepted {
		return Placement{}, verdict
	}

	placement := Placement{
		Position:  mgl64.Vec3{x, y, z},
		RotationY: rng.Float64() * 360,
		Scale:     s.constraints.MinScale + rng.Float64()*(s.constraints.MaxScale-s.constraints.MinScale),
	}
	if len(s.prefabs) > 0 {
		placement.Prefab = s.prefabs[rng.Intn(len(s.prefabs))]
	}
	return placement, Accepted
}

// SlopeDegrees returns the angle between n and Up. A zero normal reads as flat.
func SlopeDegrees(n mgl64.Vec3) float64 {
	length := n.Len()
	if length < 1e-15 {
		return 0
	}
	cos := mgl64.Clamp(n.Dot(Up)/length, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}
