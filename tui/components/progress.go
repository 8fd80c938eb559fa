package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"timeslider/timerange"
)

// PlaybackFraction reports how far the selection has travelled through the
// animation window, from 0 at the window start to 1 at the last position
// where the selection still fits.
func PlaybackFraction(st timerange.State) float64 {
	span := st.Animation.Duration - st.Selected.Duration
	if span <= 0 {
		return 0
	}
	f := float64(st.Selected.Start.Sub(st.Animation.Start)) / float64(span)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// RenderProgressBar renders label, a bar filled to fraction, and the percent.
func RenderProgressBar(fraction float64, label string, width int, progressStyle lipgloss.Style) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	barWidth := width - lipgloss.Width(label) - 6 // " " + bar + " 100%"
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(float64(barWidth) * fraction)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return label + " " + progressStyle.Render(bar) + fmt.Sprintf(" %3d%%", int(fraction*100))
}

// RenderPlayback renders the playback bar, or nothing outside animation mode.
func RenderPlayback(st timerange.State, width int, progressStyle lipgloss.Style) string {
	if st.Mode != timerange.ModeAnimation {
		return ""
	}
	label := "⏸"
	if st.Animation.Playing {
		label = "▶"
	}
	if !st.Animation.Speed.Forward() {
		label += " ◀"
	}
	return RenderProgressBar(PlaybackFraction(st), label, width, progressStyle)
}
