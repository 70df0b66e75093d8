package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(maxProgressWidth, max(msg.Width-docStyle.GetHorizontalPadding()-8, 10))
		return m, nil

	case loadedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil || msg.state.Goal.ID != "" {
			m.snapshot = msg.state
			m.loaded = true
		}
		m.drainToasts()
		return m, nil

	case markedMsg:
		m.busy = false
		if msg.err == nil {
			m.snapshot = msg.state
		} else {
			m.snapshot = m.tracker.State()
		}
		m.err = msg.err
		m.drainToasts()
		return m, nil

	case goalSavedMsg:
		m.busy = false
		m.err = msg.err
		m.snapshot = m.tracker.State()
		m.drainToasts()
		return m, nil

	case reconciledMsg:
		m.busy = false
		m.err = msg.err
		m.snapshot = m.tracker.State()
		m.drainToasts()
		return m, nil
	}

	if m.state == StateEditGoal {
		return m.updateGoalForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.busy || !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Mark):
		m.busy = true
		return m, markCmd(m.tracker)

	case key.Matches(msg, m.keys.Goal):
		m.goalForm = &GoalFormModel{Target: strconv.Itoa(m.snapshot.Goal.TargetDays)}
		m.form = newGoalForm(m.goalForm)
		m.state = StateEditGoal
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, reconcileCmd(m.tracker)
	}
	return m, nil
}

func (m Model) updateGoalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateMain
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.applyGoal(m.goalForm.Target)
	case huh.StateAborted:
		m.state = StateMain
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// applyGoal leaves the form and saves the target entered as raw.
func (m Model) applyGoal(raw string) (tea.Model, tea.Cmd) {
	m.state = StateMain
	m.form = nil

	n, err := validation.ParseTarget(raw)
	if err != nil {
		m.toast = constants.MsgInvalidTarget
		return m, nil
	}
	m.busy = true
	return m, setTargetCmd(m.tracker, n)
}

func newGoalForm(fm *GoalFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal (days)").
				Description("How many consecutive days are you aiming for?").
				Value(&fm.Target).
				Validate(func(s string) error {
					_, err := validation.ParseTarget(s)
					return err
				}),
		),
	)
}
