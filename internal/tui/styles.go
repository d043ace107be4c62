package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E6EDF3")).
			Background(lipgloss.Color("#238636")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#8B949E"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("#3FB950"))

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950")).Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#8B949E"))
	draftStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#D29922"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3FB950")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3FB950")).
			PaddingLeft(1)
	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F85149")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#F85149")).
			PaddingLeft(1)
)
