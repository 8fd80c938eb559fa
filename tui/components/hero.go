package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"timeslider/timerange"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	timeLayout     = "15:04"
)

// HeroStyles are the styles RenderHero paints with. The border follows the
// playback state.
type HeroStyles struct {
	BorderStep    lipgloss.Style
	BorderPlaying lipgloss.Style
	BorderPaused  lipgloss.Style
	Badge         lipgloss.Style
	Range         lipgloss.Style
	Detail        lipgloss.Style
}

// FormatRange renders r in loc, dropping the end date when both ends fall on
// the same day.
func FormatRange(r timerange.Range, loc *time.Location) string {
	start := r.Start.In(loc)
	end := r.End().In(loc)
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return start.Format(dateTimeLayout) + " → " + end.Format(timeLayout)
	}
	return start.Format(dateTimeLayout) + " → " + end.Format(dateTimeLayout)
}

// Badge names the current mode and playback state.
func Badge(st timerange.State) string {
	switch {
	case st.Mode == timerange.ModeStep:
		return "STEP"
	case st.Animation.Playing:
		return "▶ PLAYING"
	default:
		return "⏸ PAUSED"
	}
}

// StatusLine is the unstyled single-line status used by plain renderers.
func StatusLine(st timerange.State, loc *time.Location, zone string, formatDuration func(time.Duration) string) string {
	parts := []string{
		Badge(st),
		FormatRange(st.Selected, loc),
		"(" + formatDuration(st.Selected.Duration) + ")",
	}
	if st.Mode == timerange.ModeAnimation {
		parts = append(parts, st.Animation.Speed.String())
	}
	if st.Boundary.Clamp {
		parts = append(parts, "bounded")
	}
	parts = append(parts, zone)
	return strings.Join(parts, "  ")
}

// RenderHero renders the boxed header: mode badge and selection on the first
// line, view and animation details on the second.
func RenderHero(st timerange.State, loc *time.Location, zone string, width int, styles HeroStyles, formatDuration func(time.Duration) string) string {
	if !st.Initialized() {
		return ""
	}

	border := styles.BorderStep
	if st.Mode == timerange.ModeAnimation {
		border = styles.BorderPaused
		if st.Animation.Playing {
			border = styles.BorderPlaying
		}
	}

	badge := styles.Badge.Render(Badge(st))
	selection := styles.Range.Render(FormatRange(st.Selected, loc) + "  " + formatDuration(st.Selected.Duration))

	details := []string{"view " + formatDuration(st.View.Duration)}
	if st.Mode == timerange.ModeAnimation {
		details = append(details,
			"window "+FormatRange(st.Animation.Range, loc),
			"speed "+st.Animation.Speed.String(),
		)
	}
	if st.Boundary.Clamp {
		details = append(details, "bounded "+FormatRange(st.Boundary.Range, loc))
	}
	details = append(details, zone)

	// Account for border padding (2 chars on each side).
	available := width - 4
	top := badge + "  " + selection
	if lipgloss.Width(top) > available && available > 0 {
		top = lipgloss.Place(available, 1, lipgloss.Left, lipgloss.Top, top)
	}
	bottom := styles.Detail.Render(strings.Join(details, " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	return border.Width(width).Render(content)
}
