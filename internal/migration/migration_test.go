package migration

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/streaklit/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func memFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestCurrentVersionFreshDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), memFS(nil))

	version, err := runner.CurrentVersion(context.Background())
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestReadMigrations(t *testing.T) {
	runner := NewRunner(setupTestDB(t), memFS(map[string]string{
		"002_second.sql": "CREATE TABLE b (id INTEGER);",
		"001_first.sql":  "CREATE TABLE a (id INTEGER);",
		"README.md":      "ignored",
	}))

	got, err := runner.ReadMigrations()
	if err != nil {
		t.Fatalf("ReadMigrations failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" || got[1].Version != 2 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestReadMigrationsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"missing underscore", map[string]string{"001.sql": ""}, "invalid migration filename"},
		{"non numeric version", map[string]string{"abc_init.sql": ""}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": ""}, "at least 1"},
		{"duplicate version", map[string]string{"001_a.sql": "", "01_b.sql": ""}, "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(setupTestDB(t), memFS(tt.files)).ReadMigrations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ReadMigrations() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, memFS(map[string]string{
		"001_create.sql": "CREATE TABLE items (id INTEGER PRIMARY KEY);",
		"002_seed.sql":   "INSERT INTO items (id) VALUES (1);",
	}))

	var logs []string
	applied, err := runner.Apply(ctx, func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, _ := runner.CurrentVersion(ctx)
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	applied, err = runner.Apply(ctx, nil)
	if err != nil || applied != 0 {
		t.Errorf("second Apply() = %d, %v; want 0, nil", applied, err)
	}

	var count int
	if err := db.QueryRow("SELECT count(*) FROM items").Scan(&count); err != nil || count != 1 {
		t.Errorf("items count = %d (%v), want 1", count, err)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(setupTestDB(t), memFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLBROKEN;",
	}))

	applied, err := runner.Apply(ctx, nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	version, _ := runner.CurrentVersion(ctx)
	if version != 1 {
		t.Errorf("version = %d, want 1 after failed migration", version)
	}
}

func TestValidateVersionNewerSchema(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, memFS(map[string]string{"001_init.sql": "SELECT 1;"}))

	if _, err := runner.Apply(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := runner.ValidateVersion(ctx); err != nil {
		t.Errorf("ValidateVersion() = %v, want nil", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatal(err)
	}
	if err := runner.ValidateVersion(ctx); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() = %v, want newer schema error", err)
	}
	if _, err := runner.Pending(ctx); err == nil {
		t.Error("Pending() should fail on a newer schema")
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	ctx := context.Background()
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	db := setupTestDB(t)
	runner := NewRunner(db, sub)

	if _, err := runner.Apply(ctx, nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	current, _ := runner.CurrentVersion(ctx)
	if current != latest {
		t.Errorf("current = %d, latest = %d", current, latest)
	}

	for _, table := range []string{"daily_records", "goals"} {
		var n int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s missing (%v)", table, err)
		}
	}
}

func TestEmbeddedMigrationsMatchAcrossDialects(t *testing.T) {
	lite, _ := fs.Sub(migrations.FS, "sqlite")
	pg, _ := fs.Sub(migrations.FS, "postgres")

	liteVer, err := NewRunner(nil, lite).LatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	pgVer, err := NewRunner(nil, pg, WithPlaceholder("$1")).LatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	if liteVer != pgVer {
		t.Errorf("sqlite latest %d != postgres latest %d", liteVer, pgVer)
	}
}
