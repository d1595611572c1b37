package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"treeplacer/internal/config"
)

// Camera follows a body in first or third person. Mouse X turns the body,
// mouse Y pitches the camera within the clamp angle.
type Camera struct {
	cfg         config.CameraConfig
	pitch       float64
	thirdPerson bool
	position    mgl64.Vec3
}

func NewCamera(cfg config.CameraConfig) *Camera {
	return &Camera{
		cfg:         cfg,
		thirdPerson: cfg.ThirdPerson,
	}
}

func (c *Camera) Update(body *Body, in Input) {
	body.Yaw = math.Mod(body.Yaw+in.MouseX*c.cfg.MouseSensitivity, 360)

	c.pitch -= in.MouseY * c.cfg.MouseSensitivity
	c.pitch = mgl64.Clamp(c.pitch, -c.cfg.ClampAngle, c.cfg.ClampAngle)

	if in.ToggleView {
		c.thirdPerson = !c.thirdPerson
	}

	if c.thirdPerson {
		c.position = body.Position.Sub(c.Forward(*body).Mul(c.cfg.ThirdPersonDistance)).Add(c.cfg.ThirdPersonOffset)
	} else {
		c.position = body.Position.Add(c.cfg.ThirdPersonOffset)
	}
}

// Forward is the view direction; positive pitch looks down.
func (c *Camera) Forward(body Body) mgl64.Vec3 {
	yaw := mgl64.DegToRad(body.Yaw)
	pitch := mgl64.DegToRad(c.pitch)
	return mgl64.Vec3{
		math.Sin(yaw) * math.Cos(pitch),
		-math.Sin(pitch),
		math.Cos(yaw) * math.Cos(pitch),
	}
}

func (c *Camera) Pitch() float64 {
	return c.pitch
}

func (c *Camera) ThirdPerson() bool {
	return c.thirdPerson
}

func (c *Camera) Position() mgl64.Vec3 {
	return c.position
}
