package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"timeslider/tui/components"
)

// Style definitions
var (
	// Border styles
	BorderPlaying = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00ff00")).
			Padding(0, 2)
	BorderStep = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 2)
	BorderPaused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffff00")).
			Padding(0, 2)

	// Header
	BadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0088ff")).
			Padding(0, 1)
	RangeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff00"))
	DetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	// Strip
	StripEmpty     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	StripOutside   = lipgloss.NewStyle().Foreground(lipgloss.Color("#662222"))
	StripAnimation = lipgloss.NewStyle().Foreground(lipgloss.Color("#0088ff"))
	StripSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
	StripLabel     = lipgloss.NewStyle().Foreground(lipgloss.Color("#cccccc"))

	ProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0088ff"))

	// Footer
	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	// Error/Success messages
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
)

// heroStyles bundles the header styles for the components package.
func heroStyles() components.HeroStyles {
	return components.HeroStyles{
		BorderStep:    BorderStep,
		BorderPlaying: BorderPlaying,
		BorderPaused:  BorderPaused,
		Badge:         BadgeStyle,
		Range:         RangeStyle,
		Detail:        DetailStyle,
	}
}

func stripStyles() components.StripStyles {
	return components.StripStyles{
		Empty:     StripEmpty,
		Outside:   StripOutside,
		Animation: StripAnimation,
		Selected:  StripSelected,
		Label:     StripLabel,
	}
}

// DisableColor renders every style without color.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// FormatDurationShort formats duration as compact string (e.g., "4h 30m").
func FormatDurationShort(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", totalSeconds)
}
