package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timeslider/control"
	"timeslider/tui/components"
)

const (
	defaultWidth = 80
	stripMargin  = 1
	stripRows    = 2
	minStrip     = 10
)

// Model is the bubbletea adapter over one control.
type Model struct {
	ctl     *control.Control
	changes *Changes
	snap    control.Snapshot
	keys    keyMap
	help    help.Model

	// Window size
	width  int
	height int

	message      string
	messageError bool
	dragging     bool
}

// NewModel creates a model rendering ctl. changes may be nil when nothing
// but this model drives the control.
func NewModel(ctl *control.Control, changes *Changes) Model {
	return Model{
		ctl:     ctl,
		changes: changes,
		snap:    ctl.Snapshot(),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init initializes the model (required by Bubbletea).
func (m Model) Init() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return m.changes.wait()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.snap = m.ctl.Snapshot()
		return m, m.changes.wait()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.notify("", m.ctl.Resize(m.stripWidth()*PixelsPerColumn))

	case tea.KeyMsg:
		out, text, err := m.keys.apply(m.ctl, msg)
		switch out {
		case outcomeQuit:
			return m, tea.Quit
		case outcomeHelp:
			m.help.ShowAll = !m.help.ShowAll
		case outcomeHandled:
			m.notify(text, err)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	m.snap = m.ctl.Snapshot()
	return m, nil
}

// handleMouse selects at the pressed strip column and follows drags, even
// when they leave the strip sideways.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, onStrip := m.stripColumn(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onStrip {
			return
		}
		m.dragging = true
	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
	case tea.MouseActionRelease:
		m.dragging = false
		return
	default:
		return
	}
	at := components.StripTimeAt(m.snap.State.View, m.stripWidth(), col)
	m.notify("", m.ctl.SelectAt(at))
}

func (m *Model) notify(text string, err error) {
	if err != nil {
		m.message = err.Error()
		m.messageError = true
		return
	}
	m.message = text
	m.messageError = false
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) stripWidth() int {
	w := m.contentWidth() - 2*stripMargin
	if w < minStrip {
		return minStrip
	}
	return w
}

// stripTop is the first screen row of strip cells, below the header and the
// label row.
func (m Model) stripTop() int {
	return lipgloss.Height(m.renderHero()) + 1
}

// stripColumn maps a screen position to a strip column.
func (m Model) stripColumn(x, y int) (int, bool) {
	col := x - stripMargin
	top := m.stripTop()
	on := y >= top && y < top+stripRows && col >= 0 && col < m.stripWidth()
	return col, on
}
