package matching

import (
	"sync"
	"time"
)

// ActionKind identifies a delayed transition the host must schedule.
type ActionKind int

const (
	// ActionRevertMismatch returns wrong cards to idle and releases both
	// selections.
	ActionRevertMismatch ActionKind = iota
	// ActionSignalComplete invokes the completion callback.
	ActionSignalComplete
	// ActionReveal turns newly introduced cards face up.
	ActionReveal
)

func (k ActionKind) String() string {
	switch k {
	case ActionRevertMismatch:
		return "revert-mismatch"
	case ActionSignalComplete:
		return "signal-complete"
	case ActionReveal:
		return "reveal"
	}
	return "unknown"
}

// Deferred is an action the host runs with Engine.Fire once Delay has
// elapsed. Deferred actions of a replaced round are ignored.
type Deferred struct {
	Kind       ActionKind
	Delay      time.Duration
	generation uint64
	batch      uint64
}

// Scheduler runs f after d. Hosts back it with real timers, a UI event loop
// or a virtual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Schedule hands every deferred action to s, firing it on e when due.
func Schedule(s Scheduler, e *Engine, actions []Deferred) {
	for _, a := range actions {
		s.AfterFunc(a.Delay, func() { e.Fire(a) })
	}
}

// LoopScheduler waits on real timers and delivers due callbacks on C. The
// owner of the engine receives from C and runs each callback on its own
// goroutine, so Fire never races with taps.
type LoopScheduler struct {
	c    chan func()
	done chan struct{}
	stop sync.Once
}

// NewLoopScheduler returns a running LoopScheduler.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{c: make(chan func()), done: make(chan struct{})}
}

// C returns the channel due callbacks arrive on.
func (s *LoopScheduler) C() <-chan func() {
	return s.c
}

// AfterFunc implements Scheduler.
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		select {
		case <-s.done:
			return
		default:
		}
		select {
		case s.c <- f:
		case <-s.done:
		}
	})
}

// Stop drops every callback not yet delivered.
func (s *LoopScheduler) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// ManualClock is a virtual-time Scheduler. Nothing runs until Advance.
type ManualClock struct {
	now     time.Duration
	pending []scheduled
}

type scheduled struct {
	at time.Duration
	f  func()
}

// AfterFunc implements Scheduler.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) {
	c.pending = append(c.pending, scheduled{at: c.now + d, f: f})
}

// Advance moves virtual time forward by d and runs every callback that
// became due, earliest first.
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
	for {
		next := -1
		for i, s := range c.pending {
			if s.at <= c.now && (next < 0 || s.at < c.pending[next].at) {
				next = i
			}
		}
		if next < 0 {
			return
		}
		f := c.pending[next].f
		c.pending = append(c.pending[:next], c.pending[next+1:]...)
		f()
	}
}

// Pending returns the number of callbacks not yet run.
func (c *ManualClock) Pending() int {
	return len(c.pending)
}
