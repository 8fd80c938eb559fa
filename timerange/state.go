package timerange

import "time"

// Mode selects how the selection is moved: by discrete steps or by playback.
type Mode uint8

const (
	ModeStep Mode = iota
	ModeAnimation
)

func (m Mode) String() string {
	switch m {
	case ModeStep:
		return "step"
	case ModeAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

// Origin records what caused a selection change.
type Origin uint8

const (
	// OriginUser is direct interaction: clicks, drags, keys, steps, reset.
	OriginUser Origin = iota + 1

	// OriginAnimation is a playback tick.
	OriginAnimation

	// OriginExternal is a selection pushed in by the host.
	OriginExternal
)

// Notifies reports whether changes with this origin are forwarded to the host.
func (o Origin) Notifies() bool {
	return o == OriginUser || o == OriginAnimation
}

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginAnimation:
		return "animation"
	case OriginExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Boundary is the range restored by ResetAll. When Clamp is set it also
// bounds view and animation windows.
type Boundary struct {
	Range
	Clamp bool
}

// ClampRange returns the boundary as a clamp, or nil when it does not clamp.
func (b Boundary) ClampRange() *Range {
	if !b.Clamp {
		return nil
	}
	r := b.Range
	return &r
}

// AnimationWindow is the span playback loops across.
type AnimationWindow struct {
	Range
	Speed   Speed
	Playing bool
}

// Settings holds the defaults a State is built and reset with.
type Settings struct {
	SelectionDuration time.Duration
	ViewDuration      time.Duration
	AnimationDuration time.Duration
	Speed             Speed
	ExternalDebounce  time.Duration
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		SelectionDuration: 5 * time.Minute,
		ViewDuration:      4 * time.Hour,
		AnimationDuration: 2 * time.Hour,
		Speed:             DefaultSpeed,
		ExternalDebounce:  time.Second,
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.SelectionDuration <= 0 {
		s.SelectionDuration = def.SelectionDuration
	}
	if s.ViewDuration <= 0 {
		s.ViewDuration = def.ViewDuration
	}
	if s.AnimationDuration <= 0 {
		s.AnimationDuration = def.AnimationDuration
	}
	if s.Speed == 0 {
		s.Speed = def.Speed
	}
	if s.ExternalDebounce <= 0 {
		s.ExternalDebounce = def.ExternalDebounce
	}
	return s
}

// Props are the initial inputs of a control instance.
type Props struct {
	// SelectedRange is the externally supplied selection, if any.
	SelectedRange *Span

	// ResetBoundary is the externally supplied boundary, if any. Only an
	// external boundary clamps.
	ResetBoundary *Span

	Settings Settings
}

// State is the complete state of one control instance.
type State struct {
	Selected           Range
	View               Range
	Boundary           Boundary
	Animation          AnimationWindow
	Mode               Mode
	LastExternalUpdate time.Time
	Settings           Settings
}

// NewState builds the initial state from props. Without an external
// selection the selection starts at now, floored to five minutes.
func NewState(p Props, now time.Time) State {
	settings := p.Settings.withDefaults()

	selected := NewRange(RoundDownToFiveMinutes(now), settings.SelectionDuration)
	if p.SelectedRange != nil {
		selected = p.SelectedRange.Range()
	}

	boundary := Boundary{Range: selected}
	if p.ResetBoundary != nil {
		boundary = Boundary{Range: p.ResetBoundary.Range(), Clamp: true}
	}

	s := State{
		Selected: selected,
		View: Range{
			Start:    CenterViewStart(selected, settings.ViewDuration, boundary.ClampRange()),
			Duration: settings.ViewDuration,
		},
		Boundary: boundary,
		Animation: AnimationWindow{
			Speed: settings.Speed,
		},
		Mode:     ModeStep,
		Settings: settings,
	}
	s.Animation.Range = s.fitAnimation(Range{Start: selected.Start, Duration: settings.AnimationDuration})
	return s
}

// Initialized reports whether the state was built by NewState.
func (s State) Initialized() bool {
	return !s.Selected.IsZero()
}

// Playing reports whether playback currently owns the selection.
func (s State) Playing() bool {
	return s.Mode == ModeAnimation && s.Animation.Playing
}

// Equal compares two states field by field using instant equality.
func (s State) Equal(o State) bool {
	return s.Selected.Equal(o.Selected) &&
		s.View.Equal(o.View) &&
		s.Boundary.Equal(o.Boundary.Range) && s.Boundary.Clamp == o.Boundary.Clamp &&
		s.Animation.Equal(o.Animation.Range) &&
		s.Animation.Speed == o.Animation.Speed &&
		s.Animation.Playing == o.Animation.Playing &&
		s.Mode == o.Mode &&
		s.LastExternalUpdate.Equal(o.LastExternalUpdate) &&
		s.Settings == o.Settings
}

// fitAnimation keeps the animation window at least as long as the selection
// and, with a clamping boundary, pulls it back so it never ends past it.
func (s State) fitAnimation(w Range) Range {
	if w.Duration < s.Selected.Duration {
		w.Duration = s.Selected.Duration
	}
	if clamp := s.Boundary.ClampRange(); clamp != nil {
		w = FitWindow(w, *clamp)
	}
	return w
}
