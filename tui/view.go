package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"timeslider/control"
	"timeslider/tui/components"
)

// ZoneLabel names the zone labels are rendered in, using the abbreviation
// in effect at the selection start.
func ZoneLabel(snap control.Snapshot) string {
	if snap.TimeZone == control.TimeZoneUTC {
		return "UTC"
	}
	name, _ := snap.State.Selected.Start.In(time.Local).Zone()
	return name
}

func (m Model) renderHero() string {
	// Border adds one column on each side.
	return components.RenderHero(m.snap.State, m.snap.Location(), ZoneLabel(m.snap),
		m.contentWidth()-2, heroStyles(), FormatDurationShort)
}

// View renders the header, the strip, playback progress, the status message
// and the help footer. An uninitialized control renders nothing.
func (m Model) View() string {
	if !m.snap.Initialized() {
		return ""
	}
	st := m.snap.State
	width := m.contentWidth()
	indent := lipgloss.NewStyle().MarginLeft(stripMargin)

	sections := []string{
		m.renderHero(),
		indent.Render(components.RenderStrip(st, m.snap.Location(), m.stripWidth(), stripRows, stripStyles())),
	}
	if bar := components.RenderPlayback(st, m.stripWidth(), ProgressStyle); bar != "" {
		sections = append(sections, indent.Render(bar))
	}
	if m.message != "" {
		style := SuccessStyle
		if m.messageError {
			style = ErrorStyle
		}
		sections = append(sections, style.Render(wordwrap.String(m.message, width)))
	}
	sections = append(sections, "", FooterStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
