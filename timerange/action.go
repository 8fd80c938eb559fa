package timerange

import "time"

// Action is one state transition. The set is closed: only types in this
// package implement it, and Reduce handles each of them.
type Action interface {
	// Name identifies the action in logs.
	Name() string

	action()
}

// SetViewStart scrolls the view. The start is floored to five minutes.
type SetViewStart struct {
	Start time.Time
}

// SetViewDuration changes the view length, normally after a resize. The view
// scrolls if the selection no longer fits.
type SetViewDuration struct {
	Duration time.Duration
}

// SetSelectedRange replaces the selection and scrolls the view if the new
// selection escapes it.
type SetSelectedRange struct {
	Start    time.Time
	Duration time.Duration
	Origin   Origin
}

// SyncSelectedRange applies an accepted external selection and records when
// it was accepted. Produced by ReconcileSelection.
type SyncSelectedRange struct {
	Start    time.Time
	Duration time.Duration
	At       time.Time
}

// SetResetBoundary replaces the reset boundary and turns on clamping. It does
// not move the selection or the view.
type SetResetBoundary struct {
	Start    time.Time
	Duration time.Duration
}

// SetAnimationMode switches between step and animation mode. AutoPlay starts
// playback right away when entering animation mode.
type SetAnimationMode struct {
	Enabled  bool
	AutoPlay bool
}

// SetAnimationWindow updates the fields that are non-nil.
type SetAnimationWindow struct {
	Start    *time.Time
	Duration *time.Duration
}

// SetAnimationSpeed replaces the playback speed.
type SetAnimationSpeed struct {
	Speed Speed
}

// CycleSpeed moves to the next or previous entry of Speeds.
type CycleSpeed struct {
	Up bool
}

// SetPlayMode starts or pauses playback. Ignored in step mode.
type SetPlayMode struct {
	Playing bool
}

// ResetAll restores the boundary as selection and returns to step mode.
type ResetAll struct{}

// Step shifts the selection by its own duration. Ignored in animation mode.
type Step struct {
	Forward bool
}

// AnimationTick moves the selection to Start on behalf of playback. It is
// discarded when playback stopped after the tick was computed.
type AnimationTick struct {
	Start time.Time
}

func (SetViewStart) Name() string       { return "set_view_start" }
func (SetViewDuration) Name() string    { return "set_view_duration" }
func (SetSelectedRange) Name() string   { return "set_selected_range" }
func (SyncSelectedRange) Name() string  { return "sync_selected_range" }
func (SetResetBoundary) Name() string   { return "set_reset_boundary" }
func (SetAnimationMode) Name() string   { return "set_animation_mode" }
func (SetAnimationWindow) Name() string { return "set_animation_window" }
func (SetAnimationSpeed) Name() string  { return "set_animation_speed" }
func (CycleSpeed) Name() string         { return "cycle_speed" }
func (SetPlayMode) Name() string        { return "set_play_mode" }
func (ResetAll) Name() string           { return "reset_all" }
func (Step) Name() string               { return "step" }
func (AnimationTick) Name() string      { return "animation_tick" }

func (SetViewStart) action()       {}
func (SetViewDuration) action()    {}
func (SetSelectedRange) action()   {}
func (SyncSelectedRange) action()  {}
func (SetResetBoundary) action()   {}
func (SetAnimationMode) action()   {}
func (SetAnimationWindow) action() {}
func (SetAnimationSpeed) action()  {}
func (CycleSpeed) action()         {}
func (SetPlayMode) action()        {}
func (ResetAll) action()           {}
func (Step) action()               {}
func (AnimationTick) action()      {}
