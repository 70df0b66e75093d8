package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/storagetest"
)

// Set STREAKLIT_TEST_POSTGRES to run, e.g.
// STREAKLIT_TEST_POSTGRES="postgres://streaklit@localhost:5432/streaklit_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("STREAKLIT_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("STREAKLIT_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		store := New(connStr)
		if err := store.Init(); err != nil {
			t.Fatalf("Failed to initialize store: %v", err)
		}
		// Each subtest starts from an empty dataset.
		if _, err := store.db.Exec("TRUNCATE daily_records, goals"); err != nil {
			t.Fatalf("Failed to truncate tables: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	})

	t.Run("schema version", func(t *testing.T) {
		store := New(connStr)
		if err := store.Load(); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		defer store.Close()
		current, latest, err := store.SchemaVersion(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if current != latest {
			t.Errorf("SchemaVersion() = %d, %d", current, latest)
		}
	})
}
