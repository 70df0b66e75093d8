package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/utils"
)

func (s *Store) GetAllRecords(ctx context.Context) ([]models.DailyRecord, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, day, is_completed FROM daily_records ORDER BY day")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailyRecord
	for rows.Next() {
		var (
			rec       models.DailyRecord
			day       string
			completed int
		)
		if err := rows.Scan(&rec.ID, &day, &completed); err != nil {
			return nil, err
		}
		rec.Date, err = utils.ParseDayInLocation(day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		rec.IsCompleted = completed != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) PutRecord(ctx context.Context, rec models.DailyRecord) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	now := time.Now().UTC().Format(time.RFC3339)
	completed := 0
	if rec.IsCompleted {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_records (day, id, is_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			id = excluded.id,
			is_completed = excluded.is_completed,
			updated_at = excluded.updated_at
	`, utils.FormatDay(rec.Date), rec.ID, completed, now, now)
	return err
}

func (s *Store) GetGoal(ctx context.Context, id string) (models.GoalState, error) {
	if s.db == nil {
		return models.GoalState{}, storage.ErrNotLoaded
	}

	var (
		goal models.GoalState
		last sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, target_days, current_streak_days, last_streak_update FROM goals WHERE id = ?", id,
	).Scan(&goal.ID, &goal.TargetDays, &goal.CurrentStreakDays, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GoalState{}, storage.ErrNotFound
	}
	if err != nil {
		return models.GoalState{}, err
	}

	if last.Valid && last.String != "" {
		t, err := utils.ParseDayInLocation(last.String, time.Local)
		if err != nil {
			return models.GoalState{}, fmt.Errorf("goal %s: %w", id, err)
		}
		goal.LastStreakUpdate = &t
	}
	return goal, nil
}

func (s *Store) PutGoal(ctx context.Context, goal models.GoalState) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	var last sql.NullString
	if goal.LastStreakUpdate != nil {
		last = sql.NullString{String: utils.FormatDay(*goal.LastStreakUpdate), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, target_days, current_streak_days, last_streak_update, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_days = excluded.target_days,
			current_streak_days = excluded.current_streak_days,
			last_streak_update = excluded.last_streak_update,
			updated_at = excluded.updated_at
	`, goal.ID, goal.TargetDays, goal.CurrentStreakDays, last, time.Now().UTC().Format(time.RFC3339))
	return err
}
