package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

const jsonStoreVersion = 1

type jsonRecord struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	IsCompleted bool   `json:"is_completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type jsonGoal struct {
	ID                string  `json:"id"`
	TargetDays        int     `json:"target_days"`
	CurrentStreakDays int     `json:"current_streak_days"`
	LastStreakUpdate  *string `json:"last_streak_update,omitempty"`
	UpdatedAt         string  `json:"updated_at"`
}

// Store is the on-disk JSON document.
type Store struct {
	Version int                   `json:"version"`
	Records map[string]jsonRecord `json:"records"` // day -> record
	Goals   map[string]jsonGoal   `json:"goals"`
}

// JSONStore keeps the whole dataset in a single JSON file, rewritten on every put.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version: jsonStoreVersion,
		Records: make(map[string]jsonRecord),
		Goals:   make(map[string]jsonGoal),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	store := &Store{}
	if err := json.Unmarshal(data, store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if store.Version > jsonStoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", store.Version, jsonStoreVersion)
	}
	if store.Records == nil {
		store.Records = make(map[string]jsonRecord)
	}
	if store.Goals == nil {
		store.Goals = make(map[string]jsonGoal)
	}
	s.store = store

	return nil
}

func (s *JSONStore) Close() error {
	s.store = nil
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	// Write through a temp file so a crash never leaves a truncated document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetAllRecords(ctx context.Context) ([]models.DailyRecord, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}

	records := make([]models.DailyRecord, 0, len(s.store.Records))
	for day, r := range s.store.Records {
		date, err := utils.ParseDayInLocation(day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		records = append(records, models.DailyRecord{
			ID:          r.ID,
			Date:        date,
			IsCompleted: r.IsCompleted,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (s *JSONStore) PutRecord(ctx context.Context, rec models.DailyRecord) error {
	if s.store == nil {
		return ErrNotLoaded
	}

	day := utils.FormatDay(rec.Date)
	now := time.Now().UTC().Format(time.RFC3339)
	created := now
	prev, existed := s.store.Records[day]
	if existed && prev.CreatedAt != "" {
		created = prev.CreatedAt
	}
	s.store.Records[day] = jsonRecord{
		ID:          rec.ID,
		Day:         day,
		IsCompleted: rec.IsCompleted,
		CreatedAt:   created,
		UpdatedAt:   now,
	}
	if err := s.save(); err != nil {
		if existed {
			s.store.Records[day] = prev
		} else {
			delete(s.store.Records, day)
		}
		return err
	}
	return nil
}

func (s *JSONStore) GetGoal(ctx context.Context, id string) (models.GoalState, error) {
	if s.store == nil {
		return models.GoalState{}, ErrNotLoaded
	}

	g, ok := s.store.Goals[id]
	if !ok {
		return models.GoalState{}, ErrNotFound
	}
	goal := models.GoalState{
		ID:                g.ID,
		TargetDays:        g.TargetDays,
		CurrentStreakDays: g.CurrentStreakDays,
	}
	if g.LastStreakUpdate != nil {
		last, err := utils.ParseDayInLocation(*g.LastStreakUpdate, time.Local)
		if err != nil {
			return models.GoalState{}, fmt.Errorf("goal %s: %w", id, err)
		}
		goal.LastStreakUpdate = &last
	}
	return goal, nil
}

func (s *JSONStore) PutGoal(ctx context.Context, goal models.GoalState) error {
	if s.store == nil {
		return ErrNotLoaded
	}

	g := jsonGoal{
		ID:                goal.ID,
		TargetDays:        goal.TargetDays,
		CurrentStreakDays: goal.CurrentStreakDays,
		UpdatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if goal.LastStreakUpdate != nil {
		day := utils.FormatDay(*goal.LastStreakUpdate)
		g.LastStreakUpdate = &day
	}
	prev, existed := s.store.Goals[goal.ID]
	s.store.Goals[goal.ID] = g
	if err := s.save(); err != nil {
		if existed {
			s.store.Goals[goal.ID] = prev
		} else {
			delete(s.store.Goals, goal.ID)
		}
		return err
	}
	return nil
}
