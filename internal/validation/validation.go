package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/julianstephens/streaklit/internal/errors"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateDay  ConflictType = "duplicate_day"
	ConflictFutureRecord  ConflictType = "future_record"
	ConflictInvalidRecord ConflictType = "invalid_record"
	ConflictInvalidGoal   ConflictType = "invalid_goal"
	ConflictStaleStreak   ConflictType = "stale_streak"
)

// Conflict represents a problem detected in the stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD (if applicable)
	RecordIDs   []string // records involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks goals and records, both field by field and as a set.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("midnight", isMidnight)
	return &Validator{validate: v}
}

// isMidnight accepts times with no time-of-day component.
func isMidnight(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

var fieldMessages = map[string]string{
	"required": "is required",
	"gt":       "must be a positive integer",
	"gte":      "must not be negative",
	"midnight": "must be a calendar day with no time of day",
}

// toValidationError converts the first validator failure into a ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	msg, ok := fieldMessages[e.Tag()]
	if !ok {
		msg = "is invalid"
	}
	return &apperrors.ValidationError{
		Field:   e.StructNamespace(),
		Value:   fmt.Sprintf("%v", e.Value()),
		Message: msg,
	}
}

func (v *Validator) ValidateGoal(goal models.GoalState) error {
	if err := v.validate.Struct(goal); err != nil {
		return toValidationError(err)
	}
	return nil
}

func (v *Validator) ValidateRecord(rec models.DailyRecord) error {
	if err := v.validate.Struct(rec); err != nil {
		return toValidationError(err)
	}
	return nil
}

// ValidateTarget rejects targets that are not positive.
func ValidateTarget(n int) error {
	if n <= 0 {
		return &apperrors.ValidationError{
			Field:   "target",
			Value:   strconv.Itoa(n),
			Message: "must be a positive integer",
		}
	}
	return nil
}

// ParseTarget parses raw user input into a goal target.
func ParseTarget(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &apperrors.ValidationError{
			Field:   "target",
			Value:   s,
			Message: "must be a positive integer",
		}
	}
	if err := ValidateTarget(n); err != nil {
		return 0, err
	}
	return n, nil
}

// CheckRecords inspects the full dataset as of today.
func (v *Validator) CheckRecords(records []models.DailyRecord, goal models.GoalState, today time.Time) ValidationResult {
	var result ValidationResult
	today = utils.StartOfDay(today)

	if err := v.ValidateGoal(goal); err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidGoal,
			Description: fmt.Sprintf("Goal %s: %v", goal.ID, err),
		})
	}

	byDay := make(map[string][]string)
	var order []string
	for _, rec := range records {
		day := utils.FormatDay(rec.Date)
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] = append(byDay[day], rec.ID)

		if err := v.ValidateRecord(rec); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRecord,
				Description: fmt.Sprintf("Record %q on %s: %v", rec.ID, day, err),
				Date:        day,
				RecordIDs:   []string{rec.ID},
			})
		}
		if utils.StartOfDay(rec.Date).After(today) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureRecord,
				Description: fmt.Sprintf("Record %q is dated in the future (%s)", rec.ID, day),
				Date:        day,
				RecordIDs:   []string{rec.ID},
			})
		}
	}

	for _, day := range order {
		if ids := byDay[day]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateDay,
				Description: fmt.Sprintf("%d records exist for %s", len(ids), day),
				Date:        day,
				RecordIDs:   ids,
			})
		}
	}

	if d := streak.Reconcile(records, goal, today); d.Changed {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: ConflictStaleStreak,
			Description: fmt.Sprintf("Cached streak is %d days but the records give %d; run reconcile",
				goal.CurrentStreakDays, d.Goal.CurrentStreakDays),
		})
	}

	return result
}
