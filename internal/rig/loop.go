package rig

import (
	"context"
	"sync"
	"time"
)

// Ticker is advanced once per loop tick with the elapsed time.
type Ticker interface {
	Tick(delta time.Duration)
}

type tickerFactory func(time.Duration) (<-chan time.Time, func())

type timeSource func() time.Time

// Loop calls its target at a fixed rate until the context ends. Deltas that
// are non-positive or longer than ten ticks are replaced with one tick.
type Loop struct {
	target    Ticker
	tick      time.Duration
	wg        sync.WaitGroup
	newTicker tickerFactory
	now       timeSource
}

func defaultTickerFactory() tickerFactory {
	return func(d time.Duration) (<-chan time.Time, func()) {
		ticker := time.NewTicker(d)
		return ticker.C, ticker.Stop
	}
}

func NewLoop(target Ticker, tick time.Duration) *Loop {
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	return &Loop{
		target:    target,
		tick:      tick,
		newTicker: defaultTickerFactory(),
		now:       time.Now,
	}
}

func (l *Loop) Start(ctx context.Context) {
	if l == nil || l.target == nil {
		return
	}
	l.wg.Add(1)
	go l.run(ctx)
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()

	tickerC, stop := l.newTicker(l.tick)
	defer stop()

	last := l.now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tickerC:
			delta := now.Sub(last)
			if delta <= 0 || delta > 10*l.tick {
				delta = l.tick
			}
			last = now
			l.target.Tick(delta)
		}
	}
}

func (l *Loop) Wait() {
	if l == nil {
		return
	}
	l.wg.Wait()
}
