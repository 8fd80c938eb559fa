package timerange

import "time"

// SyncDecision is the outcome of reconciling an external prop.
type SyncDecision uint8

const (
	// SyncApplied means the returned action must be dispatched.
	SyncApplied SyncDecision = iota

	// SyncAbsent means no value was supplied.
	SyncAbsent

	// SyncEqual means the value matches current state.
	SyncEqual

	// SyncPlaying means playback owns the selection.
	SyncPlaying

	// SyncDebounced means the previous accepted update is too recent.
	SyncDebounced
)

func (d SyncDecision) String() string {
	switch d {
	case SyncApplied:
		return "applied"
	case SyncAbsent:
		return "absent"
	case SyncEqual:
		return "equal"
	case SyncPlaying:
		return "playing"
	case SyncDebounced:
		return "debounced"
	default:
		return "unknown"
	}
}

// ReconcileSelection decides whether an external selection should be applied.
// Rules run in order: absent, equal, playing, debounced. Only an applied
// update moves LastExternalUpdate, through the returned SyncSelectedRange.
func ReconcileSelection(s State, incoming *Span, now time.Time) (SyncDecision, Action) {
	if incoming == nil || incoming.Start.IsZero() || incoming.End.IsZero() {
		return SyncAbsent, nil
	}
	if incoming.Range().Equal(s.Selected) {
		return SyncEqual, nil
	}
	if s.Playing() {
		return SyncPlaying, nil
	}
	if !s.LastExternalUpdate.IsZero() && now.Sub(s.LastExternalUpdate) < s.Settings.ExternalDebounce {
		return SyncDebounced, nil
	}

	r := incoming.Range()
	return SyncApplied, SyncSelectedRange{Start: r.Start, Duration: r.Duration, At: now}
}

// ReconcileBoundary applies an external boundary whenever it is present and
// differs from the current clamping boundary. Boundary changes never feed back
// into outbound notifications, so there is no debounce.
func ReconcileBoundary(s State, incoming *Span) (SyncDecision, Action) {
	if incoming == nil || incoming.Start.IsZero() || incoming.End.IsZero() {
		return SyncAbsent, nil
	}
	r := incoming.Range()
	if s.Boundary.Clamp && s.Boundary.Equal(r) {
		return SyncEqual, nil
	}
	return SyncApplied, SetResetBoundary{Start: r.Start, Duration: r.Duration}
}
