package ui

import "github.com/charmbracelet/lipgloss"

var (
	sheetStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#1E1E1E"})

	handleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5F87AF", Dark: "#87AFD7"})
)
