package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, s State, a Action) State {
	t.Helper()
	return reduce(t, s, a).State
}

func TestReconcileSelectionAbsent(t *testing.T) {
	s := newTestState(t, nil)

	d, a := ReconcileSelection(s, nil, base)
	assert.Equal(t, SyncAbsent, d)
	assert.Nil(t, a)

	d, _ = ReconcileSelection(s, &Span{Start: base}, base)
	assert.Equal(t, SyncAbsent, d)
}

func TestReconcileSelectionEqualScenarioD(t *testing.T) {
	s := newTestState(t, nil)
	incoming := s.Selected.Span()

	d, a := ReconcileSelection(s, &incoming, base)
	assert.Equal(t, SyncEqual, d)
	assert.Nil(t, a)
}

func TestReconcileSelectionApplied(t *testing.T) {
	s := newTestState(t, nil)
	now := base.Add(time.Minute)
	incoming := Span{Start: base.Add(6 * time.Hour), End: base.Add(7 * time.Hour)}

	d, a := ReconcileSelection(s, &incoming, now)
	require.Equal(t, SyncApplied, d)

	res := reduce(t, s, a)
	assert.Nil(t, res.Notification, "external updates must not be echoed to the host")
	assert.True(t, res.State.Selected.Equal(incoming.Range()))
	assert.True(t, res.State.LastExternalUpdate.Equal(now))
	assert.True(t, res.State.View.Contains(res.State.Selected))
}

func TestReconcileSelectionDebounce(t *testing.T) {
	s := newTestState(t, nil)
	now := base.Add(time.Minute)

	first := Span{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	d, a := ReconcileSelection(s, &first, now)
	require.Equal(t, SyncApplied, d)
	s = apply(t, s, a)

	second := Span{Start: base.Add(3 * time.Hour), End: base.Add(4 * time.Hour)}
	d, a = ReconcileSelection(s, &second, now.Add(999*time.Millisecond))
	assert.Equal(t, SyncDebounced, d)
	assert.Nil(t, a)
	assert.True(t, s.Selected.Equal(first.Range()))

	d, _ = ReconcileSelection(s, &second, now.Add(time.Second))
	assert.Equal(t, SyncApplied, d)
}

func TestReconcileSelectionDebouncedAttemptsDoNotExtendWindow(t *testing.T) {
	s := newTestState(t, nil)
	now := base.Add(time.Minute)

	first := Span{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	_, a := ReconcileSelection(s, &first, now)
	s = apply(t, s, a)

	for i := 1; i <= 5; i++ {
		storm := Span{Start: base.Add(time.Duration(i) * 3 * time.Hour), End: base.Add(time.Duration(i)*3*time.Hour + time.Hour)}
		d, _ := ReconcileSelection(s, &storm, now.Add(time.Duration(i)*150*time.Millisecond))
		require.Equal(t, SyncDebounced, d)
	}

	later := Span{Start: base.Add(20 * time.Hour), End: base.Add(21 * time.Hour)}
	d, _ := ReconcileSelection(s, &later, now.Add(time.Second))
	assert.Equal(t, SyncApplied, d)
}

func TestReconcileSelectionSubMinuteRepeatIsEqual(t *testing.T) {
	s := newTestState(t, nil)
	now := base.Add(time.Minute)
	short := Span{Start: base.Add(time.Hour), End: base.Add(time.Hour + 30*time.Second)}

	d, a := ReconcileSelection(s, &short, now)
	require.Equal(t, SyncApplied, d)
	s = apply(t, s, a)
	assert.Equal(t, MinDuration, s.Selected.Duration)

	d, a = ReconcileSelection(s, &short, now.Add(5*time.Second))
	assert.Equal(t, SyncEqual, d)
	assert.Nil(t, a)
}

func TestReconcileSelectionWhilePlaying(t *testing.T) {
	s := newTestState(t, nil)
	s = apply(t, s, SetAnimationMode{Enabled: true, AutoPlay: true})

	incoming := Span{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	d, a := ReconcileSelection(s, &incoming, base.Add(time.Hour))
	assert.Equal(t, SyncPlaying, d)
	assert.Nil(t, a)

	s = apply(t, s, SetPlayMode{Playing: false})
	d, _ = ReconcileSelection(s, &incoming, base.Add(time.Hour))
	assert.Equal(t, SyncApplied, d)
}

func TestReconcileBoundary(t *testing.T) {
	s := newTestState(t, nil)

	d, _ := ReconcileBoundary(s, nil)
	assert.Equal(t, SyncAbsent, d)

	// The default boundary equals the selection but does not clamp, so an
	// identical external boundary still turns clamping on.
	same := s.Selected.Span()
	d, a := ReconcileBoundary(s, &same)
	require.Equal(t, SyncApplied, d)
	s = apply(t, s, a)
	assert.True(t, s.Boundary.Clamp)

	d, a = ReconcileBoundary(s, &same)
	assert.Equal(t, SyncEqual, d)
	assert.Nil(t, a)

	wider := Span{Start: base.Add(-time.Hour), End: base.Add(time.Hour)}
	d, a = ReconcileBoundary(s, &wider)
	require.Equal(t, SyncApplied, d)
	s = apply(t, s, a)
	assert.True(t, s.Boundary.Equal(wider.Range()))
}

func TestSyncDecisionString(t *testing.T) {
	assert.Equal(t, "debounced", SyncDebounced.String())
	assert.Equal(t, "applied", SyncApplied.String())
	assert.Equal(t, "unknown", SyncDecision(99).String())
}
