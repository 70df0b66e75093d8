package streak

import (
	"time"

	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

// DayStatus is the display state of a single day.
type DayStatus string

const (
	StatusCompleted DayStatus = "completed"
	StatusMissed    DayStatus = "missed"
	StatusPending   DayStatus = "pending"
	StatusEmpty     DayStatus = "empty"
)

type DayCell struct {
	Date    time.Time
	Status  DayStatus
	IsToday bool
}

// Week returns seven cells, Sunday through Saturday, for the week containing today.
func Week(records []models.DailyRecord, today time.Time) []DayCell {
	today = utils.StartOfDay(today)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return cells(records, start, 7, today)
}

// History returns one cell per day for the last n days ending today, oldest first.
func History(records []models.DailyRecord, today time.Time, n int) []DayCell {
	if n <= 0 {
		return nil
	}
	today = utils.StartOfDay(today)
	start := today.AddDate(0, 0, -(n - 1))
	return cells(records, start, n, today)
}

func cells(records []models.DailyRecord, start time.Time, n int, today time.Time) []DayCell {
	byDay := make(map[string]models.DailyRecord, len(records))
	for _, r := range records {
		byDay[utils.FormatDay(r.Date)] = r
	}

	out := make([]DayCell, n)
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		cell := DayCell{Date: day, IsToday: utils.SameDay(day, today)}
		if rec, ok := byDay[utils.FormatDay(day)]; ok {
			if rec.IsCompleted {
				cell.Status = StatusCompleted
			} else {
				cell.Status = StatusMissed
			}
		} else if cell.IsToday {
			cell.Status = StatusPending
		} else {
			cell.Status = StatusEmpty
		}
		out[i] = cell
	}
	return out
}
