package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"timeslider/control"
	"timeslider/timerange"
	"timeslider/tui/components"
)

// Screen rows used by the tcell adapter.
const (
	rowStatus   = 0
	rowLabels   = 2
	rowStrip    = 3
	rowProgress = rowStrip + stripRows + 1
	rowMessage  = rowProgress + 1
)

// TerminalUI drives a control from a raw tcell screen.
type TerminalUI struct {
	screen       tcell.Screen
	ctl          *control.Control
	keys         keyMap
	message      string
	messageError bool
	showHelp     bool
	dragging     bool
}

// quitEvent asks the event loop to return.
type quitEvent struct{}

// NewTerminalUI creates a TerminalUI on an initialized screen.
func NewTerminalUI(s tcell.Screen, ctl *control.Control, mouse bool) *TerminalUI {
	s.SetStyle(tcell.StyleDefault)
	if mouse {
		s.EnableMouse()
	}
	s.Clear()
	return &TerminalUI{
		screen: s,
		ctl:    ctl,
		keys:   defaultKeyMap(),
	}
}

// LaunchTerminal runs the tcell adapter until the user quits or ctx ends.
func LaunchTerminal(ctx context.Context, ctl *control.Control, changes *Changes, opts Options) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer s.Fini()

	var wake <-chan struct{}
	if changes != nil {
		wake = changes.C()
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = s.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
				return
			case <-wake:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	return NewTerminalUI(s, ctl, opts.Mouse).Loop()
}

// Loop draws and handles events until quit.
func (ui *TerminalUI) Loop() error {
	ui.resize()
	for {
		ui.Draw()
		switch ev := ui.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			ui.screen.Sync()
			ui.resize()
		case *tcell.EventKey:
			if ui.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			ui.handleMouse(ev)
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitEvent); ok {
				return nil
			}
		}
	}
}

func (ui *TerminalUI) stripWidth() int {
	w, _ := ui.screen.Size()
	w -= 2 * stripMargin
	if w < minStrip {
		return minStrip
	}
	return w
}

func (ui *TerminalUI) resize() {
	ui.notify("", ui.ctl.Resize(ui.stripWidth()*PixelsPerColumn))
}

// handleKey reports whether the user asked to quit.
func (ui *TerminalUI) handleKey(ev *tcell.EventKey) bool {
	out, text, err := ui.keys.apply(ui.ctl, teaKey(ev))
	switch out {
	case outcomeQuit:
		return true
	case outcomeHelp:
		ui.showHelp = !ui.showHelp
	case outcomeHandled:
		ui.notify(text, err)
	}
	return false
}

// teaKey translates a tcell key event into the key message the shared key
// map matches against.
func teaKey(ev *tcell.EventKey) tea.KeyMsg {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{ev.Rune()}}
	case tcell.KeyLeft:
		return tea.KeyMsg{Type: tea.KeyLeft}
	case tcell.KeyRight:
		return tea.KeyMsg{Type: tea.KeyRight}
	case tcell.KeyPgUp:
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case tcell.KeyPgDn:
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case tcell.KeyEscape:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case tcell.KeyCtrlC:
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{}
	}
}

func (ui *TerminalUI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if ev.Buttons()&tcell.Button1 == 0 {
		ui.dragging = false
		return
	}
	col := x - stripMargin
	if !ui.dragging {
		if y < rowStrip || y >= rowStrip+stripRows || col < 0 || col >= ui.stripWidth() {
			return
		}
		ui.dragging = true
	}
	view := ui.ctl.Snapshot().State.View
	ui.notify("", ui.ctl.SelectAt(components.StripTimeAt(view, ui.stripWidth(), col)))
}

func (ui *TerminalUI) notify(text string, err error) {
	if err != nil {
		ui.message = err.Error()
		ui.messageError = true
		return
	}
	ui.message = text
	ui.messageError = false
}

// Draw renders the current snapshot.
func (ui *TerminalUI) Draw() {
	ui.screen.Clear()
	defer ui.screen.Show()

	snap := ui.ctl.Snapshot()
	if !snap.Initialized() {
		return
	}
	st := snap.State
	loc := snap.Location()
	width, height := ui.screen.Size()
	sw := ui.stripWidth()

	ui.drawString(rowStatus, stripMargin, components.StatusLine(st, loc, ZoneLabel(snap), FormatDurationShort), statusStyle(st))
	ui.drawString(rowLabels, stripMargin, components.StripLabels(st.View, loc, sw), tcell.StyleDefault.Dim(true))
	cells := components.StripCells(st, sw)
	for row := 0; row < stripRows; row++ {
		for i, c := range cells {
			ui.screen.SetContent(stripMargin+i, rowStrip+row, c.Glyph(), nil, cellStyle(c))
		}
	}
	if bar := components.RenderPlayback(st, sw, lipgloss.NewStyle()); bar != "" {
		ui.drawString(rowProgress, stripMargin, bar, tcell.StyleDefault.Foreground(tcell.ColorBlue))
	}
	if ui.message != "" {
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if ui.messageError {
			style = tcell.StyleDefault.Foreground(tcell.ColorRed)
		}
		ui.drawString(rowMessage, stripMargin, ui.message, style)
	}

	bindings := ui.keys.ShortHelp()
	if ui.showHelp {
		bindings = nil
		for _, group := range ui.keys.FullHelp() {
			bindings = append(bindings, group...)
		}
	}
	ui.drawWrapped(height-1, helpLine(bindings), width, tcell.StyleDefault.Dim(true))
}

// drawString draws text from column x, stopping at the screen edge. Wide
// runes take two cells.
func (ui *TerminalUI) drawString(y, x int, text string, style tcell.Style) {
	width, _ := ui.screen.Size()
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if x+w > width {
			return
		}
		ui.screen.SetContent(x, y, r, nil, style)
		x += w
	}
}

// drawWrapped draws text upward from the bottom row so the last line ends
// at row bottom.
func (ui *TerminalUI) drawWrapped(bottom int, text string, width int, style tcell.Style) {
	lines := wrapWords(text, width-2*stripMargin)
	for i, line := range lines {
		ui.drawString(bottom-len(lines)+1+i, stripMargin, line, style)
	}
}

func wrapWords(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur string
	for _, item := range strings.Split(text, "  ") {
		switch {
		case cur == "":
			cur = item
		case runewidth.StringWidth(cur)+2+runewidth.StringWidth(item) <= width:
			cur += "  " + item
		default:
			lines = append(lines, cur)
			cur = item
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func helpLine(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func statusStyle(st timerange.State) tcell.Style {
	style := tcell.StyleDefault.Bold(true)
	switch {
	case st.Playing():
		return style.Foreground(tcell.ColorGreen)
	case st.Mode == timerange.ModeAnimation:
		return style.Foreground(tcell.ColorYellow)
	default:
		return style
	}
}

func cellStyle(c components.Cell) tcell.Style {
	switch c {
	case components.CellSelected:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case components.CellAnimation:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case components.CellOutside:
		return tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}
