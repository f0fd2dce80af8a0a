package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#E50914")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F9FAFB")
	colorSpinner = lipgloss.Color("#F59E0B")
	colorScore   = lipgloss.Color("#10B981")
	colorAlert   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	inputFocusedStyle = inputStyle.BorderForeground(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	resultStyle         = lipgloss.NewStyle().Foreground(colorText)
	resultSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	resultChosenStyle   = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	genreStyle          = lipgloss.NewStyle().Foreground(colorMuted)

	chipStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorText).
			Background(lipgloss.Color("#374151"))

	chipFocusedStyle = chipStyle.Background(colorAccent)

	buttonStyle         = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(colorText).Background(colorAccent)
	buttonDisabledStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted).Background(lipgloss.Color("#1F2937"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			MarginBottom(1)

	scoreStyle = lipgloss.NewStyle().Bold(true).Foreground(colorScore)
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAlert)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)
