package uiloop

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRefreshRate is the tick rate of a display link when none is given.
const DefaultRefreshRate = 60

// Subscription is a handle to a repeating frame callback.
type Subscription interface {
	// Cancel stops the callback. Once Cancel returns the callback is never
	// invoked again. Cancel is idempotent.
	Cancel()
}

// FrameScheduler delivers a repeating tick at the display refresh rate.
type FrameScheduler interface {
	Schedule(fn func()) Subscription
}

// DisplayLink ticks at a fixed refresh rate and delivers every tick on the
// loop. Ticks are coalesced: a tick that arrives while the previous one is
// still queued is dropped.
type DisplayLink struct {
	loop     *Loop
	interval time.Duration
}

// NewDisplayLink returns a scheduler ticking hz times per second on loop.
func NewDisplayLink(loop *Loop, hz int) *DisplayLink {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	return &DisplayLink{loop: loop, interval: time.Second / time.Duration(hz)}
}

type linkSub struct {
	cancelled atomic.Bool
	pending   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
	once      sync.Once
}

// Schedule implements FrameScheduler.
func (d *DisplayLink) Schedule(fn func()) Subscription {
	sub := &linkSub{stop: make(chan struct{}), done: make(chan struct{})}
	tick := func() {
		sub.pending.Store(false)
		if sub.cancelled.Load() {
			return
		}
		fn()
	}
	go func() {
		defer close(sub.done)
		t := time.NewTicker(d.interval)
		defer t.Stop()
		for {
			select {
			case <-sub.stop:
				return
			case <-d.loop.Stopped():
				return
			case <-t.C:
				if !sub.pending.CompareAndSwap(false, true) {
					continue
				}
				if !d.loop.post(tick, sub.stop) {
					sub.pending.Store(false)
				}
			}
		}
	}()
	return sub
}

func (s *linkSub) Cancel() {
	s.once.Do(func() {
		s.cancelled.Store(true)
		close(s.stop)
	})
	<-s.done
}

// ManualFrames is a FrameScheduler driven explicitly by Tick.
type ManualFrames struct {
	next int
	subs map[int]func()
}

// NewManualFrames returns an idle manual scheduler.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{subs: make(map[int]func())}
}

type manualSub struct {
	m  *ManualFrames
	id int
}

func (s manualSub) Cancel() { delete(s.m.subs, s.id) }

// Schedule implements FrameScheduler.
func (m *ManualFrames) Schedule(fn func()) Subscription {
	id := m.next
	m.next++
	m.subs[id] = fn
	return manualSub{m: m, id: id}
}

// Tick runs every live callback once, in subscription order. A callback
// cancelled earlier in the same tick does not run.
func (m *ManualFrames) Tick() {
	for id := 0; id < m.next; id++ {
		if fn, ok := m.subs[id]; ok {
			fn()
		}
	}
}

// Active returns the number of live subscriptions.
func (m *ManualFrames) Active() int { return len(m.subs) }
