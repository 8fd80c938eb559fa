package repl

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeslider/animation"
	"timeslider/control"
	"timeslider/timerange"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestShell(t *testing.T) (*Shell, *control.Control, *bytes.Buffer) {
	t.Helper()
	sel := timerange.Span{Start: base, End: base.Add(30 * time.Minute)}
	ctl := control.New(timerange.Props{SelectedRange: &sel},
		control.WithClock(fixedClock{now: base}),
		control.WithScheduler(animation.NewManualScheduler()),
		control.WithTimeZone(control.TimeZoneUTC),
	)
	t.Cleanup(func() { _ = ctl.Close() })

	var out bytes.Buffer
	s := newShell(ctl, &out)
	s.now = func() time.Time { return base }
	return s, ctl, &out
}

func exec(t *testing.T, s *Shell, line string) {
	t.Helper()
	quit, err := s.Exec(line)
	require.NoError(t, err, line)
	require.False(t, quit, line)
}

func selected(ctl *control.Control) timerange.Range {
	return ctl.Snapshot().State.Selected
}

func TestExecStepping(t *testing.T) {
	s, ctl, out := newTestShell(t)

	exec(t, s, "")
	assert.Empty(t, out.String())

	exec(t, s, "step 2")
	assert.True(t, selected(ctl).Start.Equal(base.Add(time.Hour)))
	assert.Contains(t, out.String(), "STEP  2024-03-01 13:00 → 13:30  (30m)")

	exec(t, s, "back")
	assert.True(t, selected(ctl).Start.Equal(base.Add(30*time.Minute)))

	_, err := s.Exec("step zero")
	assert.ErrorIs(t, err, errUsage)
}

func TestExecSelection(t *testing.T) {
	s, ctl, _ := newTestShell(t)

	exec(t, s, "select 13:00 +45m")
	assert.True(t, selected(ctl).Equal(timerange.Range{Start: base.Add(time.Hour), Duration: 45 * time.Minute}))

	exec(t, s, "at 14:07")
	assert.True(t, selected(ctl).Start.Equal(base.Add(2*time.Hour+5*time.Minute)))
	assert.Equal(t, 45*time.Minute, selected(ctl).Duration)

	exec(t, s, "move -5m")
	exec(t, s, "grow 15m")
	assert.True(t, selected(ctl).Equal(timerange.Range{Start: base.Add(2 * time.Hour), Duration: time.Hour}))

	_, err := s.Exec("select 13:00 12:00")
	assert.Error(t, err)
	_, err = s.Exec("move")
	assert.ErrorIs(t, err, errUsage)
}

func TestExecView(t *testing.T) {
	s, ctl, _ := newTestShell(t)

	exec(t, s, "resize 1000")
	assert.Equal(t, 10*time.Hour, ctl.Snapshot().State.View.Duration)

	exec(t, s, "view 2h")
	assert.Equal(t, 2*time.Hour, ctl.Snapshot().State.View.Duration)

	exec(t, s, "view start 11:02")
	assert.True(t, ctl.Snapshot().State.View.Start.Equal(base.Add(-time.Hour)))

	exec(t, s, "scroll 30m")
	assert.True(t, ctl.Snapshot().State.View.Start.Equal(base.Add(-30*time.Minute)))

	_, err := s.Exec("resize wide")
	assert.Error(t, err)
}

func TestExecAnimation(t *testing.T) {
	s, ctl, _ := newTestShell(t)

	exec(t, s, "anim on")
	exec(t, s, "window 12:00 3h")
	exec(t, s, "speed up")
	exec(t, s, "play")

	st := ctl.Snapshot().State
	assert.True(t, st.Playing())
	assert.Equal(t, 3*time.Hour, st.Animation.Duration)
	assert.Equal(t, timerange.Speed(10*time.Minute), st.Animation.Speed)

	exec(t, s, "speed -30m/s")
	assert.Equal(t, timerange.Speed(-30*time.Minute), ctl.Snapshot().State.Animation.Speed)

	exec(t, s, "pause")
	assert.False(t, ctl.Snapshot().State.Playing())

	exec(t, s, "anim")
	assert.Equal(t, timerange.ModeStep, ctl.Snapshot().State.Mode)

	_, err := s.Exec("anim maybe")
	assert.Error(t, err)
	_, err = s.Exec("speed 0s")
	assert.Error(t, err)
}

func TestExecSync(t *testing.T) {
	s, ctl, out := newTestShell(t)

	exec(t, s, "sync 18:00 19:00")
	assert.Contains(t, out.String(), "sync: applied")
	assert.True(t, selected(ctl).Start.Equal(base.Add(6*time.Hour)))

	exec(t, s, "sync none")
	assert.Contains(t, out.String(), "sync: absent")

	exec(t, s, "boundary 11:00 20:00")
	assert.True(t, ctl.Snapshot().State.Boundary.Clamp)

	exec(t, s, "reset")
	assert.True(t, selected(ctl).Equal(timerange.Range{Start: base.Add(-time.Hour), Duration: 9 * time.Hour}))

	_, err := s.Exec("sync 18:00")
	assert.ErrorIs(t, err, errUsage)
}

func TestExecTimeZone(t *testing.T) {
	s, ctl, _ := newTestShell(t)

	exec(t, s, "tz")
	assert.Equal(t, control.TimeZoneLocal, ctl.Snapshot().TimeZone)
	exec(t, s, "tz UTC")
	assert.Equal(t, control.TimeZoneUTC, ctl.Snapshot().TimeZone)

	_, err := s.Exec("tz mars")
	assert.Error(t, err)
}

func TestExecQuitAndUnknown(t *testing.T) {
	s, _, out := newTestShell(t)

	quit, err := s.Exec("quit")
	require.NoError(t, err)
	assert.True(t, quit)

	_, err = s.Exec("dance")
	assert.ErrorContains(t, err, "unknown command: dance")

	exec(t, s, "help")
	assert.Contains(t, out.String(), "Animation:")
}

func TestNotifyPrintsPlaybackOnly(t *testing.T) {
	s, _, out := newTestShell(t)
	span := timerange.Span{Start: base, End: base.Add(30 * time.Minute)}

	s.Notify(timerange.Notification{Range: span, Origin: timerange.OriginUser})
	assert.Empty(t, out.String())

	s.Notify(timerange.Notification{Range: span, Origin: timerange.OriginAnimation})
	assert.Equal(t, "animation 2024-03-01 12:00 → 12:30\n", out.String())
}
