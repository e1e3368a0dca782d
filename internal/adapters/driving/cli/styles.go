package cli

import "github.com/charmbracelet/lipgloss"

// Command output styles. lipgloss degrades these to plain text when
// stdout is not a terminal.
var (
	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleProvider = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	styleSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)
