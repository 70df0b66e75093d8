package postgres

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
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id, day, is_completed FROM daily_records ORDER BY day")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailyRecord
	for rows.Next() {
		var (
			rec models.DailyRecord
			day string
		)
		if err := rows.Scan(&rec.ID, &day, &rec.IsCompleted); err != nil {
			return nil, err
		}
		rec.Date, err = utils.ParseDayInLocation(day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) PutRecord(ctx context.Context, rec models.DailyRecord) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_records (day, id, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day) DO UPDATE SET
			id = EXCLUDED.id,
			is_completed = EXCLUDED.is_completed,
			updated_at = EXCLUDED.updated_at
	`, utils.FormatDay(rec.Date), rec.ID, rec.IsCompleted, now, now)
	return err
}

func (s *Store) GetGoal(ctx context.Context, id string) (models.GoalState, error) {
	if s.db == nil {
		return models.GoalState{}, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		goal models.GoalState
		last sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, target_days, current_streak_days, last_streak_update FROM goals WHERE id = $1", id,
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
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var last sql.NullString
	if goal.LastStreakUpdate != nil {
		last = sql.NullString{String: utils.FormatDay(*goal.LastStreakUpdate), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, target_days, current_streak_days, last_streak_update, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			target_days = EXCLUDED.target_days,
			current_streak_days = EXCLUDED.current_streak_days,
			last_streak_update = EXCLUDED.last_streak_update,
			updated_at = EXCLUDED.updated_at
	`, goal.ID, goal.TargetDays, goal.CurrentStreakDays, last, time.Now().UTC().Format(time.RFC3339))
	return err
}
