// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
)

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// RunProviderTests exercises a freshly initialized provider returned by newStore.
func RunProviderTests(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		store := newStore(t)

		records, err := store.GetAllRecords(ctx)
		if err != nil {
			t.Fatalf("GetAllRecords() error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("GetAllRecords() = %d records, want 0", len(records))
		}

		if _, err := store.GetGoal(ctx, constants.GoalID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGoal() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("record round trip", func(t *testing.T) {
		store := newStore(t)

		in := []models.DailyRecord{
			{ID: "b", Date: localDay(2024, time.March, 2), IsCompleted: false},
			{ID: "a", Date: localDay(2024, time.March, 1), IsCompleted: true},
		}
		for _, r := range in {
			if err := store.PutRecord(ctx, r); err != nil {
				t.Fatalf("PutRecord(%s) error: %v", r.ID, err)
			}
		}

		out, err := store.GetAllRecords(ctx)
		if err != nil {
			t.Fatalf("GetAllRecords() error: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("GetAllRecords() = %d records, want 2", len(out))
		}
		if out[0].ID != "a" || !out[0].IsCompleted || !out[0].Date.Equal(in[1].Date) {
			t.Errorf("first record = %+v", out[0])
		}
		if out[1].ID != "b" || out[1].IsCompleted {
			t.Errorf("second record = %+v", out[1])
		}
		if h, m, s := out[0].Date.Clock(); h != 0 || m != 0 || s != 0 {
			t.Errorf("record date not at midnight: %s", out[0].Date)
		}
	})

	t.Run("put record replaces same day", func(t *testing.T) {
		store := newStore(t)
		day := localDay(2024, time.June, 9)

		if err := store.PutRecord(ctx, models.DailyRecord{ID: "first", Date: day}); err != nil {
			t.Fatal(err)
		}
		if err := store.PutRecord(ctx, models.DailyRecord{ID: "first", Date: day.Add(20 * time.Hour), IsCompleted: true}); err != nil {
			t.Fatal(err)
		}

		out, err := store.GetAllRecords(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 {
			t.Fatalf("GetAllRecords() = %d records, want 1", len(out))
		}
		if !out[0].IsCompleted {
			t.Error("record was not updated")
		}
	})

	t.Run("goal round trip", func(t *testing.T) {
		store := newStore(t)

		goal := models.DefaultGoal()
		if err := store.PutGoal(ctx, goal); err != nil {
			t.Fatalf("PutGoal() error: %v", err)
		}
		got, err := store.GetGoal(ctx, goal.ID)
		if err != nil {
			t.Fatalf("GetGoal() error: %v", err)
		}
		if got.TargetDays != constants.DefaultTargetDays || got.CurrentStreakDays != 0 || got.LastStreakUpdate != nil {
			t.Errorf("GetGoal() = %+v", got)
		}

		last := localDay(2024, time.July, 4)
		goal.TargetDays = 30
		goal.CurrentStreakDays = 12
		goal.LastStreakUpdate = &last
		if err := store.PutGoal(ctx, goal); err != nil {
			t.Fatalf("PutGoal() update error: %v", err)
		}
		got, err = store.GetGoal(ctx, goal.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.TargetDays != 30 || got.CurrentStreakDays != 12 {
			t.Errorf("GetGoal() after update = %+v", got)
		}
		if got.LastStreakUpdate == nil || !got.LastStreakUpdate.Equal(last) {
			t.Errorf("LastStreakUpdate = %v, want %v", got.LastStreakUpdate, last)
		}

		goal.LastStreakUpdate = nil
		if err := store.PutGoal(ctx, goal); err != nil {
			t.Fatal(err)
		}
		got, _ = store.GetGoal(ctx, goal.ID)
		if got.LastStreakUpdate != nil {
			t.Errorf("LastStreakUpdate = %v, want nil", got.LastStreakUpdate)
		}
	})

	t.Run("data survives reload", func(t *testing.T) {
		store := newStore(t)
		if err := store.PutRecord(ctx, models.DailyRecord{ID: "keep", Date: localDay(2024, time.May, 5), IsCompleted: true}); err != nil {
			t.Fatal(err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}
		if err := store.Load(); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		out, err := store.GetAllRecords(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].ID != "keep" {
			t.Errorf("records after reload = %+v", out)
		}
	})
}
