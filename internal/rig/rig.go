package rig

import (
	"sync"
	"time"
)

// Rig ties the camera and the player to one input source so a Loop can drive
// them together.
type Rig struct {
	mu     sync.Mutex
	input  InputSource
	camera *Camera
	player *Player
	ticks  int
}

func New(input InputSource, camera *Camera, player *Player) *Rig {
	return &Rig{
		input:  input,
		camera: camera,
		player: player,
	}
}

// Tick polls one input frame and advances both controllers.
func (r *Rig) Tick(delta time.Duration) {
	r.Step(r.input.Poll(), delta.Seconds())
}

// Step applies one input frame. The camera turns the body before the player
// moves so mouse yaw steers the same tick's movement.
func (r *Rig) Step(in Input, dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.camera.Update(&r.player.Body, in)
	r.player.Update(in, dt)
	r.player.ModelVisible = r.camera.ThirdPerson()
	r.ticks++
}

// Snapshot describes the rig after the most recent tick.
type Snapshot struct {
	Ticks          int
	Body           Body
	Grounded       bool
	Jumping        bool
	ThirdPerson    bool
	CameraPitch    float64
	AnimationSpeed float64
}

func (r *Rig) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Ticks:          r.ticks,
		Body:           r.player.Body,
		Grounded:       r.player.Grounded,
		Jumping:        r.player.Jumping,
		ThirdPerson:    r.camera.ThirdPerson(),
		CameraPitch:    r.camera.Pitch(),
		AnimationSpeed: r.player.AnimationSpeed(),
	}
}
