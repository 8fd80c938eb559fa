package control

import (
	"log/slog"
	"time"

	"timeslider/animation"
	"timeslider/timerange"
)

// Clock supplies the current time for defaults and debouncing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Option configures a Control.
type Option func(*Control)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(ctl *Control) { ctl.clock = c }
}

// WithScheduler replaces the scheduler playback ticks run on.
func WithScheduler(s animation.Scheduler) Option {
	return func(ctl *Control) { ctl.sched = s }
}

// WithPeriod sets the wall-clock interval between ticks.
func WithPeriod(d time.Duration) Option {
	return func(ctl *Control) { ctl.period = d }
}

// WithLogger sets the logger. The control adds its own id attribute.
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Control) { ctl.log = l }
}

// WithAutoPlay starts playback as soon as animation mode is entered.
func WithAutoPlay(on bool) Option {
	return func(ctl *Control) { ctl.autoPlay = on }
}

// WithTimeZone sets the initial display zone.
func WithTimeZone(m TimeZoneMode) Option {
	return func(ctl *Control) { ctl.tz = m }
}

// OnSelectedRangeChanged registers the host callback for selections made by
// the user or by playback.
func OnSelectedRangeChanged(fn func(timerange.Notification)) Option {
	return func(ctl *Control) { ctl.onSelected = fn }
}

// OnTimeZoneModeChanged registers the host callback for zone toggles.
func OnTimeZoneModeChanged(fn func(TimeZoneMode)) Option {
	return func(ctl *Control) { ctl.onTimeZone = fn }
}

// OnStateChange registers a renderer callback, called with every committed
// snapshot that differs from the previous one.
func OnStateChange(fn func(Snapshot)) Option {
	return func(ctl *Control) { ctl.onState = fn }
}
