package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Messages  lipgloss.Style
	Label     lipgloss.Style
	Input     lipgloss.Style
	InputErr  lipgloss.Style
	Endpoint  lipgloss.Style
	Operator  lipgloss.Style
	Peer      lipgloss.Style
	SendError lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.RoundedBorder()
	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header:    lipgloss.NewStyle().Border(border).Align(lipgloss.Center),
		Messages:  lipgloss.NewStyle().Border(border),
		Label:     lipgloss.NewStyle().Bold(true),
		Input:     lipgloss.NewStyle().Border(border),
		InputErr:  lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("9")),
		Endpoint:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		Operator:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Peer:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		SendError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}
