package animation

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeslider/timerange"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNextStart(t *testing.T) {
	win := timerange.NewRange(base, 2*time.Hour)

	tests := []struct {
		name  string
		sel   timerange.Range
		speed timerange.Speed
		want  time.Time
	}{
		{
			name:  "forward five minutes per second",
			sel:   timerange.NewRange(base, 10*time.Minute),
			speed: timerange.Speed(5 * time.Minute),
			want:  base.Add(5 * time.Minute),
		},
		{
			name:  "forward lands exactly on window end",
			sel:   timerange.NewRange(base.Add(100*time.Minute), 10*time.Minute),
			speed: timerange.Speed(10 * time.Minute),
			want:  base.Add(110 * time.Minute),
		},
		{
			name:  "forward wraps to window start",
			sel:   timerange.NewRange(base.Add(110*time.Minute), 10*time.Minute),
			speed: timerange.Speed(time.Minute),
			want:  base,
		},
		{
			name:  "backward",
			sel:   timerange.NewRange(base.Add(time.Hour), 10*time.Minute),
			speed: timerange.Speed(-30 * time.Minute),
			want:  base.Add(30 * time.Minute),
		},
		{
			name:  "backward wraps to window end",
			sel:   timerange.NewRange(base.Add(5*time.Minute), 10*time.Minute),
			speed: timerange.Speed(-10 * time.Minute),
			want:  base.Add(110 * time.Minute),
		},
		{
			name:  "forward from before the window",
			sel:   timerange.NewRange(base.Add(-time.Hour), 10*time.Minute),
			speed: timerange.Speed(5 * time.Minute),
			want:  base,
		},
		{
			name:  "backward from past the window",
			sel:   timerange.NewRange(base.Add(3*time.Hour), 10*time.Minute),
			speed: timerange.Speed(-5 * time.Minute),
			want:  base.Add(110 * time.Minute),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStart(tt.sel, win, tt.speed, time.Second)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestNextStartScalesWithPeriod(t *testing.T) {
	win := timerange.NewRange(base, 4*time.Hour)
	sel := timerange.NewRange(base, 10*time.Minute)

	got := NextStart(sel, win, timerange.DefaultSpeed, 500*time.Millisecond)
	assert.True(t, got.Equal(base.Add(150*time.Second)))
}

func TestDriverFiresOnce(t *testing.T) {
	sched := NewManualScheduler()
	d := NewDriver(sched, time.Second)

	var calls atomic.Int32
	d.Start(func(gen uint64) {
		assert.True(t, d.Current(gen))
		calls.Add(1)
	})
	require.True(t, d.Pending())

	assert.Equal(t, 0, sched.Advance(999*time.Millisecond))
	assert.Equal(t, 1, sched.Advance(time.Millisecond))
	assert.Equal(t, 0, sched.Advance(time.Hour))
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDriverStopCancels(t *testing.T) {
	sched := NewManualScheduler()
	d := NewDriver(sched, time.Second)

	d.Start(func(uint64) { t.Fatal("stopped tick must not run") })
	d.Stop()

	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, 0, sched.Advance(time.Minute))
	assert.False(t, d.Pending())
}

func TestDriverRestartReplacesTick(t *testing.T) {
	sched := NewManualScheduler()
	d := NewDriver(sched, time.Second)

	var first, second atomic.Int32
	d.Start(func(uint64) { first.Add(1) })
	d.Start(func(uint64) { second.Add(1) })

	assert.Equal(t, 1, sched.Pending())
	sched.Advance(time.Second)
	assert.Zero(t, first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestDriverStaleGeneration(t *testing.T) {
	sched := NewManualScheduler()
	d := NewDriver(sched, time.Second)

	var stale bool
	d.Start(func(gen uint64) {
		// Stop arriving between dispatch and handling.
		d.Stop()
		stale = !d.Current(gen)
	})
	sched.Advance(time.Second)
	assert.True(t, stale)
}

func TestDriverRearmFromCallback(t *testing.T) {
	sched := NewManualScheduler()
	d := NewDriver(sched, time.Second)

	var ticks int
	var tick func(uint64)
	tick = func(uint64) {
		ticks++
		if ticks < 3 {
			d.Start(tick)
		}
	}
	d.Start(tick)

	assert.Equal(t, 3, sched.Advance(10*time.Second))
	assert.Equal(t, 3, ticks)
}

func TestNewDriverDefaults(t *testing.T) {
	d := NewDriver(nil, 0)
	assert.Equal(t, DefaultPeriod, d.Period())
	assert.IsType(t, RealScheduler{}, d.sched)
}

func TestRealSchedulerStop(t *testing.T) {
	timer := RealScheduler{}.AfterFunc(time.Hour, func() {})
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
}

func TestManualSchedulerFireNext(t *testing.T) {
	sched := NewManualScheduler()
	var order []int
	sched.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	sched.AfterFunc(time.Second, func() { order = append(order, 1) })

	require.True(t, sched.FireNext())
	require.True(t, sched.FireNext())
	assert.False(t, sched.FireNext())
	assert.Equal(t, []int{1, 2}, order)
}
