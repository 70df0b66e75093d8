package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaklit/internal/streak"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("255"))

	// Background per day status
	statusColors = map[streak.DayStatus]lipgloss.Color{
		streak.StatusCompleted: lipgloss.Color("28"),
		streak.StatusMissed:    lipgloss.Color("124"),
		streak.StatusPending:   lipgloss.Color("208"),
		streak.StatusEmpty:     lipgloss.Color("238"),
	}
)

func dayCellStyle(status streak.DayStatus, isToday bool) lipgloss.Style {
	s := cellStyle.Background(statusColors[status])
	if isToday {
		s = s.Bold(true).Underline(true)
	}
	return s
}
