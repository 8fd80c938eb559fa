package timerange

import "time"

const alignment = 5 * time.Minute

// ComputeViewStart returns where the view window should start after the
// selection becomes sel. The view only moves when sel escapes it; it is then
// recentered on the selection midpoint, pulled inside clamp when one is given,
// and floored to five minutes. Duration-only changes run the same check, so a
// growing end can still push the view.
func ComputeViewStart(sel Range, view Range, clamp *Range) time.Time {
	if view.Contains(sel) {
		return view.Start
	}
	return CenterViewStart(sel, view.Duration, clamp)
}

// CenterViewStart returns the aligned start of a window of length viewDur
// centered on sel.
func CenterViewStart(sel Range, viewDur time.Duration, clamp *Range) time.Time {
	candidate := sel.Midpoint().Add(-viewDur / 2)
	if clamp != nil {
		candidate = fitStart(candidate, viewDur, *clamp)
	}
	start := RoundDownToFiveMinutes(candidate)
	if clamp != nil && start.Before(clamp.Start) {
		start = start.Add(alignment)
	}

	// Flooring can shave the tail of a selection that nearly fills the view.
	if start.Add(viewDur).Before(sel.End()) && !start.Add(alignment).After(sel.Start) {
		start = start.Add(alignment)
	}
	return start
}

// fitStart pulls a window [start, start+d) back inside bound. The end is
// corrected first, then the start, so a window longer than bound keeps
// bound.Start.
func fitStart(start time.Time, d time.Duration, bound Range) time.Time {
	if start.Add(d).After(bound.End()) {
		start = bound.End().Add(-d)
	}
	if start.Before(bound.Start) {
		start = bound.Start
	}
	return start
}

// FitWindow pulls w inside bound. When w is longer than bound it is shrunk so
// that its end never passes bound.End().
func FitWindow(w Range, bound Range) Range {
	w.Start = fitStart(w.Start, w.Duration, bound)
	if w.End().After(bound.End()) {
		w.Duration = bound.End().Sub(w.Start)
	}
	return w
}
