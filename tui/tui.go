package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"timeslider/control"
)

// PixelsPerColumn converts terminal columns to the pixel widths the view
// calculator is tuned for.
const PixelsPerColumn = 10

// Options configure both full-screen adapters.
type Options struct {
	Mouse bool
}

// Changes coalesces control state changes into at most one pending wakeup.
// Pass Notify to control.OnStateChange; renderers re-read the snapshot when
// woken, so dropped wakeups lose nothing.
type Changes struct {
	ch chan struct{}
}

// NewChanges returns an empty change signal.
func NewChanges() *Changes {
	return &Changes{ch: make(chan struct{}, 1)}
}

// Notify records that the control changed. It never blocks.
func (c *Changes) Notify(control.Snapshot) {
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

// C returns the wakeup channel.
func (c *Changes) C() <-chan struct{} {
	return c.ch
}

type changedMsg struct{}

func (c *Changes) wait() tea.Cmd {
	return func() tea.Msg {
		<-c.ch
		return changedMsg{}
	}
}

// LaunchTUI runs the bubbletea adapter until the user quits or ctx ends.
func LaunchTUI(ctx context.Context, ctl *control.Control, changes *Changes, opts Options) error {
	m := NewModel(ctl, changes)
	popts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Mouse {
		popts = append(popts, tea.WithMouseCellMotion())
	}
	_, err := tea.NewProgram(m, popts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
