// Package tracker owns the in-memory record set and goal and drives every
// state change: bootstrap, marking today, editing the target and
// reconciliation. A Tracker is not safe for concurrent use; callers run one
// operation at a time.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streaklit/internal/constants"
	apperrors "github.com/julianstephens/streaklit/internal/errors"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/notifier"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/utils"
	"github.com/julianstephens/streaklit/internal/validation"
)

// ErrNotLoaded is returned by operations attempted before a successful Load.
var ErrNotLoaded = errors.New("tracker not loaded")

// State is a snapshot of the tracker after an operation.
type State struct {
	Records        []models.DailyRecord
	Goal           models.GoalState
	Today          time.Time
	TodayCompleted bool
}

type Tracker struct {
	store storage.Provider
	sink  notifier.Sink
	now   func() time.Time
	loc   *time.Location
	newID func() string

	records []models.DailyRecord
	goal    models.GoalState
	loading bool
	loaded  bool
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLocation sets the timezone that decides where one day ends.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithIDGenerator replaces the UUID generator for new records.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		t.newID = fn
	}
}

func New(store storage.Provider, sink notifier.Sink, opts ...Option) *Tracker {
	if sink == nil {
		sink = notifier.Discard
	}
	t := &Tracker{
		store: store,
		sink:  sink,
		now:   time.Now,
		loc:   time.Local,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns local midnight of the current day.
func (t *Tracker) Today() time.Time {
	return utils.TodayIn(t.now(), t.loc)
}

// Loading reports whether Load is in progress.
func (t *Tracker) Loading() bool { return t.loading }

// Loaded reports whether a Load has completed successfully.
func (t *Tracker) Loaded() bool { return t.loaded }

// Load reads all records and the goal, persisting the default goal on first
// run. The loading gate is released whether or not Load succeeds.
func (t *Tracker) Load(ctx context.Context) (State, error) {
	t.loading = true
	defer func() { t.loading = false }()

	records, err := t.store.GetAllRecords(ctx)
	if err != nil {
		return State{}, t.storeFailure("load records", err, constants.MsgStorageError)
	}

	goal, err := t.store.GetGoal(ctx, constants.GoalID)
	if errors.Is(err, storage.ErrNotFound) {
		goal = models.DefaultGoal()
		if err := t.store.PutGoal(ctx, goal); err != nil {
			return State{}, t.storeFailure("create default goal", err, constants.MsgStorageError)
		}
		logger.Info("Created default goal", "target_days", goal.TargetDays)
	} else if err != nil {
		return State{}, t.storeFailure("load goal", err, constants.MsgStorageError)
	}

	t.records = make([]models.DailyRecord, 0, len(records))
	for _, r := range records {
		r.Date = utils.DayIn(r.Date, t.loc)
		t.records = append(t.records, r)
	}
	if goal.LastStreakUpdate != nil {
		last := utils.DayIn(*goal.LastStreakUpdate, t.loc)
		goal.LastStreakUpdate = &last
	}
	t.goal = goal
	t.loaded = true

	logger.Debug("Tracker loaded", "records", len(t.records), "streak", t.goal.CurrentStreakDays)
	return t.State(), nil
}

// State returns a snapshot of the current in-memory state.
func (t *Tracker) State() State {
	today := t.Today()
	records := make([]models.DailyRecord, len(t.records))
	copy(records, t.records)
	return State{
		Records:        records,
		Goal:           t.goal,
		Today:          today,
		TodayCompleted: streak.CompletedOn(t.records, today),
	}
}

// MarkToday records today as completed, recalculates the streak and confirms
// it as of today. On any store failure the in-memory state is left as it was.
// A successful mark is followed by reconciliation.
func (t *Tracker) MarkToday(ctx context.Context) (State, error) {
	if !t.loaded {
		return State{}, ErrNotLoaded
	}

	today := t.Today()
	rec := models.DailyRecord{Date: today, IsCompleted: true}
	if existing, ok := streak.RecordFor(t.records, today); ok {
		rec.ID = existing.ID
	} else {
		rec.ID = t.newID()
	}

	updated := upsert(t.records, rec)
	if err := t.store.PutRecord(ctx, rec); err != nil {
		return State{}, t.storeFailure("put record", err, constants.MsgMarkFailed)
	}

	goal := t.goal
	goal.CurrentStreakDays = streak.Calculate(updated, &today, today)
	goal.LastStreakUpdate = &today
	if err := t.store.PutGoal(ctx, goal); err != nil {
		return State{}, t.storeFailure("put goal", err, constants.MsgMarkFailed)
	}

	t.records = updated
	t.goal = goal
	t.sink.Notify(constants.MsgMarked)
	logger.Info("Marked today", "day", utils.FormatDay(today), "streak", goal.CurrentStreakDays)

	if _, err := t.Reconcile(ctx); err != nil {
		return t.State(), err
	}
	return t.State(), nil
}

// SetTarget changes the goal target. The streak fields are carried over and
// then reconciled, so a stale cached streak is corrected on the same call.
func (t *Tracker) SetTarget(ctx context.Context, n int) (models.GoalState, error) {
	if err := validation.ValidateTarget(n); err != nil {
		t.sink.Notify(constants.MsgInvalidTarget)
		return t.goal, err
	}
	if !t.loaded {
		return models.GoalState{}, ErrNotLoaded
	}

	goal := t.goal
	goal.TargetDays = n
	if err := t.store.PutGoal(ctx, goal); err != nil {
		return t.goal, t.storeFailure("put goal", err, constants.MsgGoalUpdateFailed)
	}

	t.goal = goal
	t.sink.Notify(constants.MsgGoalUpdated)
	logger.Info("Goal target updated", "target_days", n)

	if _, err := t.Reconcile(ctx); err != nil {
		return t.goal, err
	}
	return t.goal, nil
}

// Reconcile corrects a stale cached streak and persists the result. It is a
// no-op returning ErrNotLoaded while loading or before Load succeeded.
func (t *Tracker) Reconcile(ctx context.Context) (streak.Decision, error) {
	if t.loading || !t.loaded {
		return streak.Decision{Goal: t.goal}, ErrNotLoaded
	}

	d := streak.Reconcile(t.records, t.goal, t.Today())
	if !d.Changed {
		return d, nil
	}

	if err := t.store.PutGoal(ctx, d.Goal); err != nil {
		return d, t.storeFailure("reconcile goal", err, constants.MsgGoalUpdateFailed)
	}

	logger.Info("Streak reconciled",
		"from", t.goal.CurrentStreakDays,
		"to", d.Goal.CurrentStreakDays,
		"reasons", fmt.Sprint(d.Reasons),
	)
	t.goal = d.Goal
	for _, r := range d.Reasons {
		if !r.Silent() {
			t.sink.Notify(r.Message())
		}
	}
	return d, nil
}

func (t *Tracker) storeFailure(op string, err error, msg string) error {
	logger.Error("Storage operation failed", "op", op, "error", err)
	t.sink.Notify(msg)
	return apperrors.NewStoreError(op, err)
}

// upsert returns a copy of records with rec replacing any record on the same day.
func upsert(records []models.DailyRecord, rec models.DailyRecord) []models.DailyRecord {
	out := make([]models.DailyRecord, 0, len(records)+1)
	replaced := false
	for _, r := range records {
		if utils.SameDay(r.Date, rec.Date) {
			if !replaced {
				out = append(out, rec)
				replaced = true
			}
			continue
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, rec)
	}
	return out
}
