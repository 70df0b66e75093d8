package models

import (
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
)

// DailyRecord is the completion state of the habit for one calendar day.
// At most one record exists per day; Date is always local midnight.
type DailyRecord struct {
	ID          string    `json:"id" validate:"required"`
	Date        time.Time `json:"date" validate:"required,midnight"`
	IsCompleted bool      `json:"is_completed"`
}

// Day returns the record's day key (YYYY-MM-DD)
func (r DailyRecord) Day() string {
	return r.Date.Format(constants.DateFormat)
}

// GoalState is the singleton goal record. CurrentStreakDays is a cache of the
// last persisted streak and may be stale until reconciled.
type GoalState struct {
	ID                string     `json:"id" validate:"required"`
	TargetDays        int        `json:"target_days" validate:"gt=0"`
	CurrentStreakDays int        `json:"current_streak_days" validate:"gte=0"`
	LastStreakUpdate  *time.Time `json:"last_streak_update,omitempty"`
}

// DefaultGoal returns the goal persisted on first run.
func DefaultGoal() GoalState {
	return GoalState{
		ID:                constants.GoalID,
		TargetDays:        constants.DefaultTargetDays,
		CurrentStreakDays: 0,
		LastStreakUpdate:  nil,
	}
}

// Progress returns the fraction of the target reached, clamped to [0, 1].
func (g GoalState) Progress() float64 {
	if g.TargetDays <= 0 {
		return 0
	}
	p := float64(g.CurrentStreakDays) / float64(g.TargetDays)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Reached reports whether the current streak meets the target
func (g GoalState) Reached() bool {
	return g.TargetDays > 0 && g.CurrentStreakDays >= g.TargetDays
}

// DaysRemaining returns how many more days are needed to hit the target.
func (g GoalState) DaysRemaining() int {
	if g.TargetDays <= 0 || g.Reached() {
		return 0
	}
	return g.TargetDays - g.CurrentStreakDays
}
