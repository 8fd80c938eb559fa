// Package timerange implements the state machine behind the time range slider.
//
// A State bundles four temporal entities that must stay mutually consistent:
//
//   - the selected range reported to the host,
//   - the view window currently visible on the strip,
//   - the reset boundary, which optionally clamps view and animation windows,
//   - the animation window across which playback loops.
//
// # Transitions
//
// State is only changed through Reduce, which takes one Action and returns a
// fresh State plus an optional Notification. The caller commits the State
// first and dispatches the Notification afterwards, so a host reacting to the
// notification always observes committed state.
//
// # Origins
//
// Selection changes caused by the user or by playback notify the host.
// Changes applied from external props never do; this is what keeps an echoing
// host from looping forever. ReconcileSelection additionally drops external
// updates that are redundant, arrive during playback, or arrive within the
// debounce interval of the previous accepted update.
//
// # Alignment
//
// The view window start is floored to five minutes on every write. The
// selection itself is never rounded.
package timerange
