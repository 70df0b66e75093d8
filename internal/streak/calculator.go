// Package streak derives the current streak from daily records and decides
// when a cached streak must be corrected. Everything here is pure: "today" is
// always passed in.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

// Calculate returns the length of the consecutive-day streak ending today or
// yesterday. lastUpdate is the day the cached streak was last confirmed (nil
// if never).
//
// When today is not yet completed and lastUpdate is yesterday, the streak is
// reported as 0 even if it reaches back through yesterday.
func Calculate(records []models.DailyRecord, lastUpdate *time.Time, today time.Time) int {
	today = utils.StartOfDay(today)
	yesterday := utils.PreviousDay(today)

	days := completedDays(records)
	if len(days) == 0 {
		return 0
	}

	latest := days[len(days)-1]
	if !utils.SameDay(latest, today) && !utils.SameDay(latest, yesterday) {
		return 0
	}

	count := 1
	prev := latest
	for i := len(days) - 2; i >= 0; i-- {
		if !utils.SameDay(days[i], utils.PreviousDay(prev)) {
			break
		}
		count++
		prev = days[i]
	}

	if !CompletedOn(records, today) && lastUpdate != nil && utils.SameDay(*lastUpdate, yesterday) {
		return 0
	}

	return count
}

// CompletedOn reports whether the record for day exists and is completed.
func CompletedOn(records []models.DailyRecord, day time.Time) bool {
	rec, ok := RecordFor(records, day)
	return ok && rec.IsCompleted
}

// RecordFor returns the record for the given calendar day, if any.
func RecordFor(records []models.DailyRecord, day time.Time) (models.DailyRecord, bool) {
	for _, r := range records {
		if utils.SameDay(r.Date, day) {
			return r, true
		}
	}
	return models.DailyRecord{}, false
}

// completedDays returns the normalized days of completed records, ascending.
// The input slice is not modified.
func completedDays(records []models.DailyRecord) []time.Time {
	days := make([]time.Time, 0, len(records))
	for _, r := range records {
		if r.IsCompleted {
			days = append(days, utils.StartOfDay(r.Date))
		}
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}
