package animation

import (
	"sync"
	"time"

	"timeslider/timerange"
)

// DefaultPeriod is the wall-clock interval between two ticks.
const DefaultPeriod = time.Second

// NextStart returns where the selection starts after one tick of period at
// speed. Playing forward wraps to the window start once the selection would
// end past the window; playing backward wraps so the selection ends at the
// window end. A selection left outside a window that shrank re-enters it the
// same way.
func NextStart(sel, win timerange.Range, speed timerange.Speed, period time.Duration) time.Time {
	inc := time.Duration(float64(speed.Abs()) * period.Seconds())

	if speed.Forward() {
		next := sel.Start.Add(inc)
		if next.Add(sel.Duration).After(win.End()) || next.Before(win.Start) {
			return win.Start
		}
		return next
	}

	next := sel.Start.Add(-inc)
	if next.Before(win.Start) || next.Add(sel.Duration).After(win.End()) {
		return win.End().Add(-sel.Duration)
	}
	return next
}

// Driver keeps at most one tick pending. Every Start and Stop begins a new
// generation; a callback holding an older generation is stale.
type Driver struct {
	mu     sync.Mutex
	sched  Scheduler
	period time.Duration
	timer  Timer
	gen    uint64
}

// NewDriver returns a driver ticking every period on sched. A nil scheduler
// means RealScheduler and a non-positive period means DefaultPeriod.
func NewDriver(sched Scheduler, period time.Duration) *Driver {
	if sched == nil {
		sched = RealScheduler{}
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Driver{sched: sched, period: period}
}

// Period returns the tick interval.
func (d *Driver) Period() time.Duration {
	return d.period
}

// Start cancels any pending tick and arms a new one. fn receives the
// generation it was armed with and runs without the driver lock held.
func (d *Driver) Start(fn func(gen uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.period, func() {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn(gen)
	})
}

// Stop cancels the pending tick. A tick that already started running sees a
// stale generation through Current.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Current reports whether gen is still the live generation.
func (d *Driver) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == gen
}

// Pending reports whether a tick is armed.
func (d *Driver) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Driver) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
