package rig

import "sync"

// Parameters is an Animator that records the latest value of every
// parameter and counts triggers.
type Parameters struct {
	mu       sync.Mutex
	floats   map[string]float64
	bools    map[string]bool
	triggers map[string]int
}

func NewParameters() *Parameters {
	return &Parameters{
		floats:   make(map[string]float64),
		bools:    make(map[string]bool),
		triggers: make(map[string]int),
	}
}

func (p *Parameters) SetFloat(name string, value float64) {
	p.mu.Lock()
	p.floats[name] = value
	p.mu.Unlock()
}

func (p *Parameters) SetBool(name string, value bool) {
	p.mu.Lock()
	p.bools[name] = value
	p.mu.Unlock()
}

func (p *Parameters) SetTrigger(name string) {
	p.mu.Lock()
	p.triggers[name]++
	p.mu.Unlock()
}

func (p *Parameters) Float(name string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.floats[name]
}

func (p *Parameters) Bool(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bools[name]
}

func (p *Parameters) Triggered(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers[name]
}
