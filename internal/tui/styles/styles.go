// Package styles holds the Lipgloss palette and styles shared by the plain
// and interactive build output.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Adaptive colors keep the output readable on light terminals.
var (
	Primary = lipgloss.AdaptiveColor{Light: "#0077B6", Dark: "#00BFFF"}
	Accent  = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"}
	Danger  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6347"}
	Muted   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#808080"}
	Success = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#00FF7F"}
	Warning = lipgloss.AdaptiveColor{Light: "#CA6F1E", Dark: "#FFA500"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	TitleStyle    = fg(Primary).Bold(true).MarginBottom(1)
	SubtitleStyle = fg(Muted).Italic(true)

	// One row per form in the progress view.
	PendingStyle = fg(Muted).PaddingLeft(2)
	ActiveStyle  = fg(Primary).Bold(true).PaddingLeft(2)

	SuccessStyle = fg(Success).Bold(true)
	ErrorStyle   = fg(Danger).Bold(true)
	WarningStyle = fg(Warning).Bold(true)

	FooterStyle   = fg(Muted).MarginTop(1)
	HelpKeyStyle  = fg(Accent)
	HelpDescStyle = fg(Muted)

	CheckMark = fg(Success).SetString("✓")
	CrossMark = fg(Danger).SetString("✗")

	// ErrorBoxStyle frames compiler output in the progress view.
	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Danger).
			Padding(0, 1).
			MarginTop(1)
)

// ProgressBar renders a bar width cells wide with the given fraction
// (0 to 1) filled.
func ProgressBar(fraction float64, width int) string {
	filled := max(0, min(width, int(fraction*float64(width))))
	return fg(Primary).Render(strings.Repeat("█", filled)) +
		fg(Muted).Render(strings.Repeat("░", width-filled))
}

// RenderHelp renders key bindings as "[key] description" pairs, in order.
func RenderHelp(bindings ...[2]string) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = HelpKeyStyle.Render("["+b[0]+"]") + " " + HelpDescStyle.Render(b[1])
	}
	return strings.Join(parts, "  ")
}

// MutedStyle returns a style for secondary text.
func MutedStyle() lipgloss.Style {
	return fg(Muted)
}
