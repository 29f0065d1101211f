package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	muted   = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	warning = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	success = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#35D79C"}
	surface = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(10)
	hintStyle     = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Foreground(warning).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(success).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(surface).Background(accent).Bold(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(accent)
	disabledStyle = buttonStyle.BorderForeground(muted).Foreground(muted)
	focusedButton = buttonStyle.Foreground(surface).Background(accent)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(muted).Padding(0, 1)
)
