package control

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeslider/animation"
	"timeslider/timerange"
)

// ErrClosed is returned by every transition after Close.
var ErrClosed = errors.New("control closed")

// Snapshot is a read-only copy of a control for rendering.
type Snapshot struct {
	ID       string
	State    timerange.State
	TimeZone TimeZoneMode
}

// Initialized reports whether there is anything to render.
func (s Snapshot) Initialized() bool {
	return s.State.Initialized()
}

// Location returns the zone labels should be rendered in.
func (s Snapshot) Location() *time.Location {
	return s.TimeZone.Location()
}

// Control is one selection control instance.
type Control struct {
	mu     sync.Mutex
	id     string
	state  timerange.State
	tz     TimeZoneMode
	closed bool

	autoPlay bool
	clock    Clock
	sched    animation.Scheduler
	period   time.Duration
	driver   *animation.Driver
	log      *slog.Logger

	onSelected func(timerange.Notification)
	onTimeZone func(TimeZoneMode)
	onState    func(Snapshot)
}

// New builds a control from props.
func New(props timerange.Props, opts ...Option) *Control {
	c := &Control{
		id:    uuid.NewString(),
		clock: realClock{},
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("control_id", c.id)
	c.driver = animation.NewDriver(c.sched, c.period)
	c.state = timerange.NewState(props, c.clock.Now())

	c.log.Debug("control created",
		"selected", c.state.Selected.String(),
		"clamp", c.state.Boundary.Clamp,
	)
	return c
}

// ID returns the instance id.
func (c *Control) ID() string {
	return c.id
}

// Snapshot returns the committed state.
func (c *Control) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops playback. Later transitions return ErrClosed.
func (c *Control) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.driver.Stop()
	c.log.Debug("control closed")
	return nil
}

// SetViewStart scrolls the view to start, floored to five minutes.
func (c *Control) SetViewStart(start time.Time) error {
	return c.dispatch(timerange.SetViewStart{Start: start})
}

// ScrollView moves the view by delta.
func (c *Control) ScrollView(delta time.Duration) error {
	return c.update(func(s timerange.State) timerange.Action {
		return timerange.SetViewStart{Start: s.View.Start.Add(delta)}
	})
}

// SetViewDuration sets the view length.
func (c *Control) SetViewDuration(d time.Duration) error {
	return c.dispatch(timerange.SetViewDuration{Duration: timerange.NormalizeDuration(d)})
}

// Resize maps a pixel width to a view duration. A width that maps to the
// current duration is a no-op.
func (c *Control) Resize(px int) error {
	d := timerange.WidthToViewDuration(px)
	return c.update(func(s timerange.State) timerange.Action {
		if s.View.Duration == d {
			return nil
		}
		return timerange.SetViewDuration{Duration: d}
	})
}

// SetSelectedRange selects [start, start+d) on behalf of the user.
func (c *Control) SetSelectedRange(start time.Time, d time.Duration) error {
	return c.dispatch(timerange.SetSelectedRange{
		Start:    start,
		Duration: timerange.NormalizeDuration(d),
		Origin:   timerange.OriginUser,
	})
}

// SelectAt moves the selection to start at t, floored to five minutes,
// keeping its duration.
func (c *Control) SelectAt(t time.Time) error {
	return c.update(func(s timerange.State) timerange.Action {
		return timerange.SetSelectedRange{
			Start:    timerange.RoundDownToFiveMinutes(t),
			Duration: s.Selected.Duration,
			Origin:   timerange.OriginUser,
		}
	})
}

// MoveSelection shifts the selection by delta.
func (c *Control) MoveSelection(delta time.Duration) error {
	return c.update(func(s timerange.State) timerange.Action {
		return timerange.SetSelectedRange{
			Start:    s.Selected.Start.Add(delta),
			Duration: s.Selected.Duration,
			Origin:   timerange.OriginUser,
		}
	})
}

// ResizeSelection grows or shrinks the selection end by delta. The result
// never drops below the one-minute floor.
func (c *Control) ResizeSelection(delta time.Duration) error {
	return c.update(func(s timerange.State) timerange.Action {
		return timerange.SetSelectedRange{
			Start:    s.Selected.Start,
			Duration: timerange.NormalizeDuration(s.Selected.Duration + delta),
			Origin:   timerange.OriginUser,
		}
	})
}

// SetResetBoundary replaces the boundary and turns clamping on.
func (c *Control) SetResetBoundary(start time.Time, d time.Duration) error {
	return c.dispatch(timerange.SetResetBoundary{Start: start, Duration: timerange.NormalizeDuration(d)})
}

// SetAnimationMode enters or leaves animation mode.
func (c *Control) SetAnimationMode(enabled bool) error {
	return c.dispatch(timerange.SetAnimationMode{Enabled: enabled, AutoPlay: c.autoPlay})
}

// ToggleAnimationMode flips between step and animation mode.
func (c *Control) ToggleAnimationMode() error {
	return c.update(func(s timerange.State) timerange.Action {
		return timerange.SetAnimationMode{Enabled: s.Mode != timerange.ModeAnimation, AutoPlay: c.autoPlay}
	})
}

// SetAnimationWindow updates the non-nil fields of the animation window.
func (c *Control) SetAnimationWindow(start *time.Time, d *time.Duration) error {
	a := timerange.SetAnimationWindow{Start: start}
	if d != nil {
		n := timerange.NormalizeDuration(*d)
		a.Duration = &n
	}
	return c.dispatch(a)
}

// SetAnimationSpeed sets the playback speed. Zero is ignored.
func (c *Control) SetAnimationSpeed(s timerange.Speed) error {
	if s == 0 {
		return nil
	}
	return c.dispatch(timerange.SetAnimationSpeed{Speed: s})
}

// CycleSpeed moves to the next or previous speed.
func (c *Control) CycleSpeed(up bool) error {
	return c.dispatch(timerange.CycleSpeed{Up: up})
}

// SetPlayMode starts or pauses playback. Ignored in step mode.
func (c *Control) SetPlayMode(playing bool) error {
	return c.dispatch(timerange.SetPlayMode{Playing: playing})
}

// TogglePlay flips playback.
func (c *Control) TogglePlay() error {
	return c.update(func(s timerange.State) timerange.Action {
		return timerange.SetPlayMode{Playing: !s.Animation.Playing}
	})
}

// ResetAll restores the boundary as the selection.
func (c *Control) ResetAll() error {
	return c.dispatch(timerange.ResetAll{})
}

// Step shifts the selection by its own duration.
func (c *Control) Step(forward bool) error {
	return c.dispatch(timerange.Step{Forward: forward})
}

// SyncSelectedRange reconciles a selection pushed by the host.
func (c *Control) SyncSelectedRange(in *timerange.Span) (timerange.SyncDecision, error) {
	decision := timerange.SyncAbsent
	err := c.update(func(s timerange.State) timerange.Action {
		var a timerange.Action
		decision, a = timerange.ReconcileSelection(s, in, c.clock.Now())
		return a
	})
	if err == nil {
		c.log.Info("external selection", "decision", decision.String())
	}
	return decision, err
}

// SyncResetBoundary reconciles a boundary pushed by the host.
func (c *Control) SyncResetBoundary(in *timerange.Span) (timerange.SyncDecision, error) {
	decision := timerange.SyncAbsent
	err := c.update(func(s timerange.State) timerange.Action {
		var a timerange.Action
		decision, a = timerange.ReconcileBoundary(s, in)
		return a
	})
	if err == nil {
		c.log.Info("external boundary", "decision", decision.String())
	}
	return decision, err
}

// SetTimeZoneMode changes the display zone and tells the host.
func (c *Control) SetTimeZoneMode(m TimeZoneMode) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	changed := c.tz != m
	c.tz = m
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if !changed {
		return nil
	}
	c.log.Debug("timezone mode", "mode", m.String())
	if c.onTimeZone != nil {
		c.onTimeZone(m)
	}
	if c.onState != nil {
		c.onState(snap)
	}
	return nil
}

// ToggleTimeZoneMode flips between local and UTC.
func (c *Control) ToggleTimeZoneMode() error {
	return c.SetTimeZoneMode(c.Snapshot().TimeZone.Toggle())
}

func (c *Control) dispatch(a timerange.Action) error {
	return c.update(func(timerange.State) timerange.Action { return a })
}

// update builds an action from the committed state and applies it in one
// critical section. A nil action is a no-op.
func (c *Control) update(build func(timerange.State) timerange.Action) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	a := build(c.state)
	if a == nil {
		c.mu.Unlock()
		return nil
	}

	controlsPlayback := drivesPlayback(a)
	if controlsPlayback {
		c.driver.Stop()
	}

	prev := c.state
	res, err := timerange.Reduce(prev, a)
	if err != nil {
		if controlsPlayback && prev.Playing() {
			c.driver.Start(c.tick)
		}
		c.mu.Unlock()
		return err
	}
	c.state = res.State
	if controlsPlayback && c.state.Playing() {
		c.driver.Start(c.tick)
	}
	changed := !prev.Equal(c.state)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug("transition", "action", a.Name(), "changed", changed)
	c.emit(res.Notification, snap, changed)
	return nil
}

// tick advances playback by one period. Ticks from a stopped generation and
// ticks arriving after playback ended are dropped.
func (c *Control) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || !c.driver.Current(gen) || !c.state.Playing() {
		c.mu.Unlock()
		return
	}

	prev := c.state
	next := animation.NextStart(prev.Selected, prev.Animation.Range, prev.Animation.Speed, c.driver.Period())
	res, err := timerange.Reduce(prev, timerange.AnimationTick{Start: next})
	if err != nil {
		c.mu.Unlock()
		c.log.Error("animation tick", "error", err)
		return
	}
	c.state = res.State
	if c.state.Playing() {
		c.driver.Start(c.tick)
	}
	changed := !prev.Equal(c.state)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(res.Notification, snap, changed)
}

func (c *Control) emit(n *timerange.Notification, snap Snapshot, changed bool) {
	if n != nil && c.onSelected != nil {
		c.onSelected(*n)
	}
	if changed && c.onState != nil {
		c.onState(snap)
	}
}

func (c *Control) snapshotLocked() Snapshot {
	return Snapshot{ID: c.id, State: c.state, TimeZone: c.tz}
}

func drivesPlayback(a timerange.Action) bool {
	switch a.(type) {
	case timerange.SetAnimationMode, timerange.SetAnimationWindow,
		timerange.SetAnimationSpeed, timerange.SetPlayMode, timerange.ResetAll,
		timerange.SetResetBoundary:
		return true
	default:
		return false
	}
}
