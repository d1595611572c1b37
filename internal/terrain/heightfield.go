package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"treeplacer/internal/scatter"
)

// Heightfield is a square grid of height samples stretched over the terrain
// bounds. It is read-only after construction and safe for concurrent use.
type Heightfield struct {
	bounds     scatter.Bounds
	resolution int
	heights    []float64
	cellX      float64
	cellZ      float64
}

var _ scatter.Surface = (*Heightfield)(nil)

// NewHeightfield wraps resolution*resolution samples laid out row by row
// (index z*resolution + x). Sample (0,0) sits at the origin and sample
// (resolution-1, resolution-1) at (Width, Depth).
func NewHeightfield(bounds scatter.Bounds, resolution int, heights []float64) (*Heightfield, error) {
	if bounds.Width <= 0 || bounds.Depth <= 0 || bounds.MaxHeight <= 0 {
		return nil, fmt.Errorf("heightfield bounds must be positive: %+v", bounds)
	}
	if resolution < 2 {
		return nil, fmt.Errorf("heightfield resolution %d must be at least 2", resolution)
	}
	if len(heights) != resolution*resolution {
		return nil, fmt.Errorf("heightfield expects %d samples, got %d", resolution*resolution, len(heights))
	}
	return &Heightfield{
		bounds:     bounds,
		resolution: resolution,
		heights:    append([]float64(nil), heights...),
		cellX:      bounds.Width / float64(resolution-1),
		cellZ:      bounds.Depth / float64(resolution-1),
	}, nil
}

func (h *Heightfield) Bounds() scatter.Bounds {
	return h.bounds
}

func (h *Heightfield) Resolution() int {
	return h.resolution
}

// At returns the raw sample at grid index (ix, iz), clamped to the grid.
func (h *Heightfield) At(ix, iz int) float64 {
	ix = clampInt(ix, 0, h.resolution-1)
	iz = clampInt(iz, 0, h.resolution-1)
	return h.heights[iz*h.resolution+ix]
}

// Height bilinearly interpolates the surface at (x, z). Points outside the
// bounds read the nearest edge.
func (h *Heightfield) Height(x, z float64) float64 {
	gx := clampFloat(x/h.cellX, 0, float64(h.resolution-1))
	gz := clampFloat(z/h.cellZ, 0, float64(h.resolution-1))

	ix := clampInt(int(math.Floor(gx)), 0, h.resolution-2)
	iz := clampInt(int(math.Floor(gz)), 0, h.resolution-2)
	tx := gx - float64(ix)
	tz := gz - float64(iz)

	h00 := h.At(ix, iz)
	h10 := h.At(ix+1, iz)
	h01 := h.At(ix, iz+1)
	h11 := h.At(ix+1, iz+1)

	return lerp(lerp(h00, h10, tx), lerp(h01, h11, tx), tz)
}

// Normal estimates the unit surface normal at (x, z) from central
// differences one cell apart.
func (h *Heightfield) Normal(x, z float64) mgl64.Vec3 {
	dhdx := (h.Height(x+h.cellX, z) - h.Height(x-h.cellX, z)) / (2 * h.cellX)
	dhdz := (h.Height(x, z+h.cellZ) - h.Height(x, z-h.cellZ)) / (2 * h.cellZ)
	return mgl64.Vec3{-dhdx, 1, -dhdz}.Normalize()
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
