package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4a90e2"))
	emptyStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBranchFalse))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBranchTrue))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#4a90e2"))
	tabStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#aaaaaa"))
	cardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).Padding(0, 1)
	chipStyle = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#4a90e2"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cccccc")).Background(lipgloss.Color("#333333"))
)

// paint applies style only when output is styled; plain output is used by
// exports and tests.
func paint(style lipgloss.Style, s string, styled bool) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

func sectionTitle(title string, styled bool) string {
	return paint(titleStyle, title, styled)
}

func emptyState(message string, styled bool) string {
	return paint(emptyStyle, message, styled)
}
