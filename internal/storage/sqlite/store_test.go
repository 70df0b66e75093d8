package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProvider(t *testing.T) {
	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	for i := 0; i < 2; i++ {
		store := NewStore(path)
		if err := store.Init(); err != nil {
			t.Fatalf("Init() #%d error: %v", i+1, err)
		}
		store.Close()
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("Load() error = %v, want not initialized", err)
	}
}

func TestLoadRejectsNewerSchema(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened := NewStore(store.GetConfigPath())
	defer reopened.Close()
	if err := reopened.Load(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Load() error = %v, want newer schema error", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	store := setupTestStore(t)
	current, latest, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if current != latest || latest < 1 {
		t.Errorf("SchemaVersion() = %d, %d", current, latest)
	}
}

func TestClosedStore(t *testing.T) {
	store := setupTestStore(t)
	store.Close()

	if _, err := store.GetAllRecords(context.Background()); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("GetAllRecords() after Close error = %v", err)
	}
	if err := store.PutRecord(context.Background(), models.DailyRecord{ID: "x"}); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("PutRecord() after Close error = %v", err)
	}
	if store.GetDB() != nil {
		t.Error("GetDB() should be nil after Close")
	}
}

func TestTargetCheckConstraint(t *testing.T) {
	store := setupTestStore(t)
	goal := models.DefaultGoal()
	goal.TargetDays = 0
	if err := store.PutGoal(context.Background(), goal); err == nil {
		t.Error("PutGoal() with zero target should violate the check constraint")
	}
}
