package rig

import (
	"github.com/go-gl/mathgl/mgl64"

	"treeplacer/internal/scatter"
)

// SurfaceCollider keeps a character on top of a terrain surface.
type SurfaceCollider struct {
	Surface scatter.Surface
}

func (c SurfaceCollider) Grounded(position mgl64.Vec3, distance float64) bool {
	return position.Y()-c.Surface.Height(position.X(), position.Z()) <= distance
}

func (c SurfaceCollider) Move(position, delta mgl64.Vec3) mgl64.Vec3 {
	next := position.Add(delta)
	if ground := c.Surface.Height(next.X(), next.Z()); next.Y() < ground {
		next[1] = ground
	}
	return next
}
