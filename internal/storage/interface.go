package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/streaklit/internal/models"
)

// ErrNotFound is returned by GetGoal when no goal has been persisted yet.
var ErrNotFound = errors.New("not found")

// ErrNotLoaded is returned by data methods called before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records are keyed by their normalized day; PutRecord replaces any
	// record already stored for that day.
	GetAllRecords(ctx context.Context) ([]models.DailyRecord, error)
	PutRecord(ctx context.Context, rec models.DailyRecord) error

	// Goals
	GetGoal(ctx context.Context, id string) (models.GoalState, error)
	PutGoal(ctx context.Context, goal models.GoalState) error

	// Utils
	GetConfigPath() string
}
