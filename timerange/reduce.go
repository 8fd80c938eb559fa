package timerange

import "fmt"

// Notification is the outbound "selection changed" event produced by a
// transition. It is delivered by the caller after the new State is committed.
type Notification struct {
	Range  Span
	Origin Origin
}

// Result is the outcome of one transition.
type Result struct {
	State        State
	Notification *Notification
}

// Reduce applies a to s and returns the next state. s is never modified.
func Reduce(s State, a Action) (Result, error) {
	switch a := a.(type) {
	case SetViewStart:
		s.View.Start = RoundDownToFiveMinutes(a.Start)
		return Result{State: s}, nil

	case SetViewDuration:
		if a.Duration <= 0 {
			return Result{State: s}, invalidDuration(a, a.Duration)
		}
		s.View.Duration = a.Duration
		s.View.Start = ComputeViewStart(s.Selected, s.View, s.Boundary.ClampRange())
		return Result{State: s}, nil

	case SetSelectedRange:
		if a.Duration <= 0 {
			return Result{State: s}, invalidDuration(a, a.Duration)
		}
		return selectRange(s, NewRange(a.Start, a.Duration), a.Origin), nil

	case SyncSelectedRange:
		if a.Duration <= 0 {
			return Result{State: s}, invalidDuration(a, a.Duration)
		}
		res := selectRange(s, NewRange(a.Start, a.Duration), OriginExternal)
		res.State.LastExternalUpdate = a.At
		return res, nil

	case SetResetBoundary:
		if a.Duration <= 0 {
			return Result{State: s}, invalidDuration(a, a.Duration)
		}
		s.Boundary = Boundary{Range: NewRange(a.Start, a.Duration), Clamp: true}
		if s.Mode == ModeAnimation {
			s.Animation.Range = s.fitAnimation(s.Animation.Range)
		}
		return Result{State: s}, nil

	case SetAnimationMode:
		if !a.Enabled {
			s.Mode = ModeStep
			s.Animation.Playing = false
			return Result{State: s}, nil
		}
		if s.Mode != ModeAnimation {
			s.Mode = ModeAnimation
			s.Animation.Range = s.fitAnimation(Range{Start: s.Selected.Start, Duration: s.Animation.Duration})
		}
		if a.AutoPlay {
			s.Animation.Playing = true
		}
		return Result{State: s}, nil

	case SetAnimationWindow:
		w := s.Animation.Range
		if a.Start != nil {
			w.Start = *a.Start
		}
		if a.Duration != nil {
			if *a.Duration <= 0 {
				return Result{State: s}, invalidDuration(a, *a.Duration)
			}
			w.Duration = *a.Duration
		}
		s.Animation.Range = s.fitAnimation(w)
		return Result{State: s}, nil

	case SetAnimationSpeed:
		if a.Speed == 0 {
			return Result{State: s}, fmt.Errorf("%s: %w: zero", a.Name(), ErrInvalidSpeed)
		}
		s.Animation.Speed = a.Speed
		return Result{State: s}, nil

	case CycleSpeed:
		s.Animation.Speed = NextSpeed(s.Animation.Speed, a.Up)
		return Result{State: s}, nil

	case SetPlayMode:
		if s.Mode != ModeAnimation {
			return Result{State: s}, nil
		}
		s.Animation.Playing = a.Playing
		return Result{State: s}, nil

	case ResetAll:
		s.Mode = ModeStep
		s.Animation.Playing = false
		s.Animation.Speed = s.Settings.Speed
		res := selectRange(s, s.Boundary.Range, OriginUser)
		res.State.Animation.Range = res.State.fitAnimation(Range{
			Start:    res.State.Selected.Start,
			Duration: s.Settings.AnimationDuration,
		})
		return res, nil

	case Step:
		if s.Mode == ModeAnimation {
			return Result{State: s}, nil
		}
		delta := s.Selected.Duration
		if !a.Forward {
			delta = -delta
		}
		next := s.Selected.Shift(delta)
		if s.Boundary.Clamp {
			if a.Forward && next.End().After(s.Boundary.End()) {
				return Result{State: s}, nil
			}
			if !a.Forward && next.Start.Before(s.Boundary.Start) {
				return Result{State: s}, nil
			}
		}
		return selectRange(s, next, OriginUser), nil

	case AnimationTick:
		if !s.Playing() {
			return Result{State: s}, nil
		}
		return selectRange(s, Range{Start: a.Start, Duration: s.Selected.Duration}, OriginAnimation), nil

	default:
		return Result{State: s}, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

// selectRange moves the selection to r, scrolling the view when r escapes it.
// Only a real change with a notifying origin yields a Notification.
func selectRange(s State, r Range, origin Origin) Result {
	prev := s.Selected
	s.View.Start = ComputeViewStart(r, s.View, s.Boundary.ClampRange())
	s.Selected = r

	res := Result{State: s}
	if origin.Notifies() && !prev.Equal(r) {
		res.Notification = &Notification{Range: r.Span(), Origin: origin}
	}
	return res
}

func invalidDuration(a Action, d fmt.Stringer) error {
	return fmt.Errorf("%s: %w: %s", a.Name(), ErrInvalidDuration, d)
}
