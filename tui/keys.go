package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"timeslider/control"
)

// scrollFraction is how much of the view one scroll key moves it.
const scrollFraction = 4

// resizeStep is how much one grow or shrink key changes the selection.
const resizeStep = 5 * time.Minute

type keyMap struct {
	StepBack      key.Binding
	StepForward   key.Binding
	ScrollBack    key.Binding
	ScrollForward key.Binding
	Grow          key.Binding
	Shrink        key.Binding
	Animation     key.Binding
	Play          key.Binding
	Faster        key.Binding
	Slower        key.Binding
	Reset         key.Binding
	TimeZone      key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		StepBack:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "step back")),
		StepForward:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "step forward")),
		ScrollBack:    key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "scroll back")),
		ScrollForward: key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "scroll forward")),
		Grow:          key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "grow")),
		Shrink:        key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "shrink")),
		Animation:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "animation")),
		Play:          key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "play/pause")),
		Faster:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s/S", "speed")),
		Slower:        key.NewBinding(key.WithKeys("S")),
		Reset:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		TimeZone:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "local/utc")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StepBack, k.StepForward, k.Animation, k.Play, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StepBack, k.StepForward, k.ScrollBack, k.ScrollForward},
		{k.Grow, k.Shrink, k.Reset, k.TimeZone},
		{k.Animation, k.Play, k.Faster},
		{k.Help, k.Quit},
	}
}

type outcome uint8

const (
	outcomeNone outcome = iota
	outcomeHandled
	outcomeHelp
	outcomeQuit
)

// apply runs the transition bound to pressed. The returned message, if any,
// is feedback for the status line.
func (k keyMap) apply(ctl *control.Control, pressed tea.KeyMsg) (outcome, string, error) {
	var err error
	switch {
	case key.Matches(pressed, k.Quit):
		return outcomeQuit, "", nil
	case key.Matches(pressed, k.Help):
		return outcomeHelp, "", nil
	case key.Matches(pressed, k.StepBack):
		err = ctl.Step(false)
	case key.Matches(pressed, k.StepForward):
		err = ctl.Step(true)
	case key.Matches(pressed, k.ScrollBack):
		err = ctl.ScrollView(-ctl.Snapshot().State.View.Duration / scrollFraction)
	case key.Matches(pressed, k.ScrollForward):
		err = ctl.ScrollView(ctl.Snapshot().State.View.Duration / scrollFraction)
	case key.Matches(pressed, k.Grow):
		err = ctl.ResizeSelection(resizeStep)
	case key.Matches(pressed, k.Shrink):
		err = ctl.ResizeSelection(-resizeStep)
	case key.Matches(pressed, k.Animation):
		err = ctl.ToggleAnimationMode()
	case key.Matches(pressed, k.Play):
		err = ctl.TogglePlay()
	case key.Matches(pressed, k.Faster), key.Matches(pressed, k.Slower):
		if err = ctl.CycleSpeed(key.Matches(pressed, k.Faster)); err == nil {
			return outcomeHandled, "speed " + ctl.Snapshot().State.Animation.Speed.String(), nil
		}
	case key.Matches(pressed, k.Reset):
		err = ctl.ResetAll()
	case key.Matches(pressed, k.TimeZone):
		if err = ctl.ToggleTimeZoneMode(); err == nil {
			return outcomeHandled, "times in " + ctl.Snapshot().TimeZone.String(), nil
		}
	default:
		return outcomeNone, "", nil
	}
	return outcomeHandled, "", err
}
