package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/notifier"
	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/tracker"
)

// SessionState is the screen the TUI is showing.
type SessionState int

const (
	StateMain SessionState = iota
	StateEditGoal
)

const maxProgressWidth = 50

type GoalFormModel struct {
	Target string
}

type loadedMsg struct {
	state tracker.State
	err   error
}

type markedMsg struct {
	state tracker.State
	err   error
}

type goalSavedMsg struct {
	goal models.GoalState
	err  error
}

type reconciledMsg struct {
	decision streak.Decision
	err      error
}

// Model drives a Tracker. The tracker's sink must be toasts (or fan out to
// it) so notifications show up in the view.
type Model struct {
	tracker  *tracker.Tracker
	toasts   *notifier.Recorder
	state    SessionState
	keys     KeyMap
	help     help.Model
	progress progress.Model
	form     *huh.Form
	goalForm *GoalFormModel
	snapshot tracker.State
	toast    string
	err      error
	loaded   bool
	// busy is set while a tracker operation runs; input that would start
	// another one is ignored until it finishes.
	busy     bool
	quitting bool
	width    int
	height   int
}

func NewModel(tr *tracker.Tracker, toasts *notifier.Recorder) Model {
	if toasts == nil {
		toasts = &notifier.Recorder{}
	}
	return Model{
		tracker:  tr,
		toasts:   toasts,
		state:    StateMain,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxProgressWidth)),
		busy:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.tracker)
}

// loadCmd loads the tracker and reconciles right away so a stale cached
// streak is corrected before it is first shown.
func loadCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := tr.Load(ctx); err != nil {
			return loadedMsg{err: err}
		}
		if _, err := tr.Reconcile(ctx); err != nil {
			return loadedMsg{state: tr.State(), err: err}
		}
		return loadedMsg{state: tr.State()}
	}
}

func markCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		state, err := tr.MarkToday(context.Background())
		return markedMsg{state: state, err: err}
	}
}

func setTargetCmd(tr *tracker.Tracker, n int) tea.Cmd {
	return func() tea.Msg {
		goal, err := tr.SetTarget(context.Background(), n)
		return goalSavedMsg{goal: goal, err: err}
	}
}

func reconcileCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		d, err := tr.Reconcile(context.Background())
		return reconciledMsg{decision: d, err: err}
	}
}

// drainToasts moves pending notifications into the toast line.
func (m *Model) drainToasts() {
	if msgs := m.toasts.Drain(); len(msgs) > 0 {
		m.toast = strings.Join(msgs, " ")
	}
}
