// Package rig drives the first/third-person camera and the character
// controller from explicit per-tick input.
package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Input is the device state sampled for one tick. Pressed flags are true only
// on the tick the button went down.
type Input struct {
	MouseX     float64
	MouseY     float64
	Horizontal float64
	Vertical   float64
	Run        bool
	Jump       bool
	ToggleView bool
}

// InputSource yields the input for the next tick.
type InputSource interface {
	Poll() Input
}

// Script replays a fixed input sequence, holding the last frame once
// exhausted with its pressed flags cleared.
type Script struct {
	frames []Input
	next   int
}

func NewScript(frames ...Input) *Script {
	return &Script{frames: frames}
}

func (s *Script) Poll() Input {
	if len(s.frames) == 0 {
		return Input{}
	}
	if s.next < len(s.frames) {
		in := s.frames[s.next]
		s.next++
		return in
	}
	in := s.frames[len(s.frames)-1]
	in.Jump = false
	in.ToggleView = false
	in.MouseX, in.MouseY = 0, 0
	return in
}

// Body is the player transform the controllers act on. Yaw is in degrees
// around the vertical axis.
type Body struct {
	Position mgl64.Vec3
	Yaw      float64
}

func (b Body) Forward() mgl64.Vec3 {
	yaw := mgl64.DegToRad(b.Yaw)
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

func (b Body) Right() mgl64.Vec3 {
	yaw := mgl64.DegToRad(b.Yaw)
	return mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
}
