package streak

import (
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

// Reason explains why a cached streak was corrected.
type Reason string

const (
	ReasonMissedDay   Reason = "missed_day"
	ReasonGapDetected Reason = "gap_detected"
	ReasonNoData      Reason = "no_data"
)

// Message returns the user-facing text for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonMissedDay:
		return constants.MsgMissedDay
	case ReasonGapDetected:
		return constants.MsgGapDetected
	case ReasonNoData:
		return constants.MsgStreakDataCleared
	default:
		return string(r)
	}
}

// Silent reports whether the reason is persisted without notifying the user.
func (r Reason) Silent() bool {
	return r == ReasonNoData
}

// Decision is the outcome of reconciling a cached goal against the records.
type Decision struct {
	// Changed is true when Goal differs from the cached goal and must be persisted.
	Changed bool
	// Goal is the corrected goal. Equal to the input goal when Changed is false.
	Goal models.GoalState
	// Reasons lists the resets that fired, in evaluation order.
	Reasons []Reason
	// Calculated is the raw Calculate result before any reset was forced.
	Calculated int
}

// Reconcile compares the cached streak in goal with a fresh calculation over
// records and returns the corrected goal. It never advances LastStreakUpdate;
// only marking a day does that.
func Reconcile(records []models.DailyRecord, goal models.GoalState, today time.Time) Decision {
	d := Decision{Goal: goal}

	if len(records) == 0 {
		if goal.CurrentStreakDays != 0 {
			d.Changed = true
			d.Goal.CurrentStreakDays = 0
			d.Goal.LastStreakUpdate = nil
			d.Reasons = []Reason{ReasonNoData}
		}
		return d
	}

	today = utils.StartOfDay(today)
	yesterday := utils.PreviousDay(today)
	todayCompleted := CompletedOn(records, today)

	newStreak := Calculate(records, goal.LastStreakUpdate, today)
	d.Calculated = newStreak

	if goal.CurrentStreakDays > 0 {
		if !todayCompleted && goal.LastStreakUpdate != nil && utils.SameDay(*goal.LastStreakUpdate, yesterday) {
			newStreak = 0
			d.Reasons = append(d.Reasons, ReasonMissedDay)
		}
		if newStreak < goal.CurrentStreakDays && !todayCompleted {
			newStreak = 0
			d.Reasons = append(d.Reasons, ReasonGapDetected)
		}
	}

	if newStreak != goal.CurrentStreakDays {
		d.Changed = true
		d.Goal.CurrentStreakDays = newStreak
	}

	return d
}
