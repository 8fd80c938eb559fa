// Package repl provides a line-oriented shell over a selection control.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"timeslider/control"
	"timeslider/storage"
	"timeslider/timerange"
	"timeslider/tui"
	"timeslider/tui/components"
)

// errUsage marks a malformed command line.
var errUsage = errors.New("usage")

// Shell reads commands and issues the matching control transitions.
type Shell struct {
	ctl *control.Control
	out io.Writer
	now func() time.Time
	rl  *readline.Instance
}

// New creates a shell reading from the terminal.
func New(ctl *control.Control) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "timeslider> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s := newShell(ctl, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(ctl *control.Control, out io.Writer) *Shell {
	return &Shell{ctl: ctl, out: out, now: time.Now}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Notify prints selection changes that did not come from a typed command,
// such as playback ticks.
func (s *Shell) Notify(n timerange.Notification) {
	if n.Origin != timerange.OriginAnimation {
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", n.Origin, components.FormatRange(n.Range.Range(), s.ctl.Snapshot().Location()))
}

// Run starts the interactive command loop. It returns when the user quits,
// input ends, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()
	stop := context.AfterFunc(ctx, func() { _ = s.rl.Close() })
	defer stop()

	s.printHelp()
	s.printStatus()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return nil
		}

		quit, err := s.Exec(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}
	}
}

// Exec runs one command line. It reports whether the user asked to quit.
func (s *Shell) Exec(line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
		return false, nil
	case "show", "status":
		s.printStatus()
		return false, nil
	case "quit", "exit", "q":
		return true, nil

	case "step", "next", "n":
		err = s.repeat(args, func() error { return s.ctl.Step(true) })
	case "back", "prev", "b":
		err = s.repeat(args, func() error { return s.ctl.Step(false) })
	case "select":
		err = s.cmdSelect(args)
	case "at":
		err = s.cmdAt(args)
	case "move":
		err = withDuration(args, "move <±duration>", s.ctl.MoveSelection)
	case "grow":
		err = withDuration(args, "grow <±duration>", s.ctl.ResizeSelection)
	case "view":
		err = s.cmdView(args)
	case "scroll":
		err = withDuration(args, "scroll <±duration>", s.ctl.ScrollView)
	case "resize":
		err = s.cmdResize(args)
	case "anim", "animation":
		err = s.cmdAnimation(args)
	case "window":
		err = s.cmdWindow(args)
	case "play":
		err = s.ctl.SetPlayMode(true)
	case "pause":
		err = s.ctl.SetPlayMode(false)
	case "speed":
		err = s.cmdSpeed(args)
	case "reset":
		err = s.ctl.ResetAll()
	case "tz":
		err = s.cmdTimeZone(args)
	case "sync":
		err = s.cmdSync(args, s.ctl.SyncSelectedRange)
	case "boundary":
		err = s.cmdSync(args, s.ctl.SyncResetBoundary)
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
	if err != nil {
		return false, err
	}
	s.printStatus()
	return false, nil
}

// fallback anchors relative and zone-less times in the display zone.
func (s *Shell) fallback() time.Time {
	return s.now().In(s.ctl.Snapshot().Location())
}

func (s *Shell) repeat(args []string, fn func() error) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("%w: step [count]", errUsage)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func withDuration(args []string, usage string, fn func(time.Duration) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	return fn(d)
}

func (s *Shell) cmdSelect(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: select <start> <end|+duration>", errUsage)
	}
	span, err := storage.ParseSpan(args[0], args[1], s.fallback())
	if err != nil {
		return err
	}
	return s.ctl.SetSelectedRange(span.Start, span.End.Sub(span.Start))
}

func (s *Shell) cmdAt(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: at <time>", errUsage)
	}
	t, err := storage.ParseWhen(args[0], s.fallback())
	if err != nil {
		return err
	}
	return s.ctl.SelectAt(t)
}

func (s *Shell) cmdView(args []string) error {
	if len(args) == 2 && args[0] == "start" {
		t, err := storage.ParseWhen(args[1], s.fallback())
		if err != nil {
			return err
		}
		return s.ctl.SetViewStart(t)
	}
	return withDuration(args, "view <duration> | view start <time>", s.ctl.SetViewDuration)
}

func (s *Shell) cmdResize(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: resize <pixels>", errUsage)
	}
	px, err := strconv.Atoi(args[0])
	if err != nil || px < 0 {
		return fmt.Errorf("invalid width: %s", args[0])
	}
	return s.ctl.Resize(px)
}

func (s *Shell) cmdAnimation(args []string) error {
	if len(args) == 0 {
		return s.ctl.ToggleAnimationMode()
	}
	on, err := parseSwitch(args[0])
	if err != nil {
		return err
	}
	return s.ctl.SetAnimationMode(on)
}

func (s *Shell) cmdWindow(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: window <start|-> [duration]", errUsage)
	}
	var start *time.Time
	if args[0] != "-" {
		t, err := storage.ParseWhen(args[0], s.fallback())
		if err != nil {
			return err
		}
		start = &t
	}
	var d *time.Duration
	if len(args) == 2 {
		v, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		d = &v
	}
	return s.ctl.SetAnimationWindow(start, d)
}

func (s *Shell) cmdSpeed(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: speed up|down|<duration>", errUsage)
	}
	switch args[0] {
	case "up", "+":
		return s.ctl.CycleSpeed(true)
	case "down", "-":
		return s.ctl.CycleSpeed(false)
	}
	speed, err := timerange.ParseSpeed(args[0])
	if err != nil {
		return err
	}
	return s.ctl.SetAnimationSpeed(speed)
}

func (s *Shell) cmdTimeZone(args []string) error {
	if len(args) == 0 {
		return s.ctl.ToggleTimeZoneMode()
	}
	m, err := control.ParseTimeZoneMode(args[0])
	if err != nil {
		return err
	}
	return s.ctl.SetTimeZoneMode(m)
}

// cmdSync pushes a span through a host sync entry point. "none" pushes an
// absent value.
func (s *Shell) cmdSync(args []string, push func(*timerange.Span) (timerange.SyncDecision, error)) error {
	var in *timerange.Span
	switch {
	case len(args) == 1 && args[0] == "none":
	case len(args) == 2:
		span, err := storage.ParseSpan(args[0], args[1], s.fallback())
		if err != nil {
			return err
		}
		in = &span
	default:
		return fmt.Errorf("%w: sync|boundary <start> <end|+duration> | none", errUsage)
	}
	decision, err := push(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "sync: %s\n", decision)
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}

func (s *Shell) printStatus() {
	snap := s.ctl.Snapshot()
	if !snap.Initialized() {
		return
	}
	fmt.Fprintln(s.out, components.StatusLine(snap.State, snap.Location(), tui.ZoneLabel(snap), tui.FormatDurationShort))
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Selection:
  step [n] / back [n]          - Step the selection by its own length
  select <start> <end|+dur>    - Select a range
  at <time>                    - Move the selection to start at time
  move <±dur> / grow <±dur>    - Shift or resize the selection
  reset                        - Restore the reset boundary

View:
  view <dur> / view start <t>  - Set the view length or start
  scroll <±dur>                - Scroll the view
  resize <px>                  - Fit the view to a strip width

Animation:
  anim [on|off]                - Toggle animation mode
  window <start|-> [dur]       - Set the animation window
  play / pause                 - Start or pause playback
  speed up|down|<dur>          - Change playback speed

Other:
  tz [local|utc]               - Switch label time zone
  sync <start> <end> | none    - Push a host selection
  boundary <start> <end>       - Push a host reset boundary
  show                         - Print the current state
  quit                         - Exit`)
}
