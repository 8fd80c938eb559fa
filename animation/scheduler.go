package animation

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler keeps timers until the test fires them. It tracks a virtual
// clock that only moves through Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Duration
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns an empty scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{s: s, due: s.now + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.s.compactLocked()
	return true
}

// Pending returns the number of timers that have neither fired nor stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Advance moves the virtual clock by d and runs every timer that became due,
// in due order. Callbacks run without the scheduler lock held, so they may
// schedule again; timers scheduled that way fire in the same call only if
// they are due by the new virtual time. It returns the number of callbacks
// run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		sort.SliceStable(s.pending, func(i, j int) bool {
			return s.pending[i].due < s.pending[j].due
		})
		if len(s.pending) == 0 || s.pending[0].due > target {
			if target > s.now {
				s.now = target
			}
			s.mu.Unlock()
			return fired
		}
		t := s.pending[0]
		s.pending = s.pending[1:]
		t.fired = true
		if t.due > s.now {
			s.now = t.due
		}
		s.mu.Unlock()

		t.f()
		fired++
	}
}

// FireNext runs the earliest pending timer regardless of its due time and
// reports whether one existed.
func (s *ManualScheduler) FireNext() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	due := s.pending[0].due
	for _, t := range s.pending[1:] {
		if t.due < due {
			due = t.due
		}
	}
	d := due - s.now
	s.mu.Unlock()

	if d < 0 {
		d = 0
	}
	return s.advanceOne(d)
}

func (s *ManualScheduler) advanceOne(d time.Duration) bool {
	s.mu.Lock()
	target := s.now + d
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].due < s.pending[j].due
	})
	if len(s.pending) == 0 || s.pending[0].due > target {
		s.mu.Unlock()
		return false
	}
	t := s.pending[0]
	s.pending = s.pending[1:]
	t.fired = true
	if target > s.now {
		s.now = target
	}
	s.mu.Unlock()

	t.f()
	return true
}

func (s *ManualScheduler) compactLocked() {
	kept := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	s.pending = kept
}
