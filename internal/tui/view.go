package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/streak"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.state == StateEditGoal && m.form != nil:
		content = m.form.View()
	case !m.loaded && m.err != nil:
		content = dangerStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case !m.loaded:
		content = labelStyle.Render("Loading...")
	default:
		content = m.viewStreak()
	}

	sections := []string{titleStyle.Render(constants.AppName), "", content, ""}
	if m.loaded && m.err != nil {
		sections = append(sections, dangerStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.toast != "" {
		sections = append(sections, toastStyle.Render(m.toast))
	}
	sections = append(sections, m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewStreak() string {
	goal := m.snapshot.Goal

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Current streak:"), streakStyle.Render(days(goal.CurrentStreakDays)))
	if goal.Reached() {
		fmt.Fprintf(&b, "%s %s, reached!\n", labelStyle.Render("Goal:"), days(goal.TargetDays))
	} else {
		fmt.Fprintf(&b, "%s %s, %s to go\n", labelStyle.Render("Goal:"), days(goal.TargetDays), days(goal.DaysRemaining()))
	}
	fmt.Fprintf(&b, "%s\n", m.progress.ViewAs(goal.Progress()))

	if m.snapshot.TodayCompleted {
		fmt.Fprintf(&b, "%s ✓ completed\n", labelStyle.Render("Today:"))
	} else {
		fmt.Fprintf(&b, "%s not marked yet\n", labelStyle.Render("Today:"))
	}

	b.WriteString("\n")
	b.WriteString(m.viewWeek())
	return b.String()
}

func (m Model) viewWeek() string {
	week := streak.Week(m.snapshot.Records, m.snapshot.Today)
	cells := make([]string, len(week))
	for i, cell := range week {
		cells[i] = dayCellStyle(cell.Status, cell.IsToday).Render(cell.Date.Format("Mon"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
