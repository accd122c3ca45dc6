package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	primary = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#5EEAD4"}
	danger  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

type styles struct {
	title    lipgloss.Style
	user     lipgloss.Style
	bot      lipgloss.Style
	text     lipgloss.Style
	errText  lipgloss.Style
	hint     lipgloss.Style
	spinner  lipgloss.Style
	input    lipgloss.Style
	inputOff lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		user:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		bot:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		text:     lipgloss.NewStyle(),
		errText:  lipgloss.NewStyle().Foreground(danger),
		hint:     lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		spinner:  lipgloss.NewStyle().Foreground(accent),
		input:    border.BorderForeground(accent),
		inputOff: border.BorderForeground(muted),
	}
}
