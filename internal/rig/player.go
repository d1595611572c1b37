package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"treeplacer/internal/config"
)

// Animator parameter names written by the player controller.
const (
	ParamSpeed     = "Speed"
	ParamIsRunning = "IsRunning"
	ParamIsJumping = "IsJumping"
	TriggerJump    = "Jump"
)

// groundedVelocity holds the character against the ground while standing.
const groundedVelocity = -2.0

// Animator receives animation parameter writes.
type Animator interface {
	SetFloat(name string, value float64)
	SetBool(name string, value bool)
	SetTrigger(name string)
}

// Collider answers ground probes and resolves movement against the world.
type Collider interface {
	Grounded(position mgl64.Vec3, distance float64) bool
	Move(position, delta mgl64.Vec3) mgl64.Vec3
}

type Player struct {
	cfg      config.PlayerConfig
	collider Collider
	animator Animator
	speed    SpeedSmoother

	Body         Body
	VelocityY    float64
	Grounded     bool
	Running      bool
	Jumping      bool
	ModelVisible bool
}

func NewPlayer(cfg config.PlayerConfig, body Body, collider Collider, animator Animator) *Player {
	return &Player{
		cfg:      cfg,
		collider: collider,
		animator: animator,
		speed:    SpeedSmoother{Rate: cfg.SpeedChangeRate},
		Body:     body,
	}
}

// Update advances the character by dt seconds.
func (p *Player) Update(in Input, dt float64) {
	p.Grounded = p.collider.Grounded(p.Body.Position, p.cfg.GroundCheckDistance)
	if p.Grounded && p.VelocityY < 0 {
		p.VelocityY = groundedVelocity
		if p.Jumping {
			p.Jumping = false
			p.animator.SetBool(ParamIsJumping, false)
		}
	}

	move := p.Body.Right().Mul(in.Horizontal).Add(p.Body.Forward().Mul(in.Vertical))
	p.Running = in.Run

	speed := p.speed.Step(math.Hypot(in.Horizontal, in.Vertical), dt)
	p.animator.SetFloat(ParamSpeed, speed)
	p.animator.SetBool(ParamIsRunning, p.Running)

	moveSpeed := p.cfg.MoveSpeed
	if p.Running {
		moveSpeed = p.cfg.RunSpeed
	}
	p.Body.Position = p.collider.Move(p.Body.Position, move.Mul(moveSpeed*dt))

	if in.Jump && p.Grounded {
		p.VelocityY = math.Sqrt(p.cfg.JumpForce * -2 * p.cfg.Gravity)
		p.Jumping = true
		p.animator.SetTrigger(TriggerJump)
	}

	p.VelocityY += p.cfg.Gravity * dt
	p.Body.Position = p.collider.Move(p.Body.Position, mgl64.Vec3{0, p.VelocityY * dt, 0})
}

// AnimationSpeed is the smoothed value last written to the Speed parameter.
func (p *Player) AnimationSpeed() float64 {
	return p.speed.Value()
}
