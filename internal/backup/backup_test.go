package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage/sqlite"
)

// setupTestDB creates an initialized streaklit database holding one goal.
func setupTestDB(t *testing.T, target int) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "streaklit.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	defer store.Close()

	goal := models.DefaultGoal()
	goal.TargetDays = target
	if err := store.PutGoal(context.Background(), goal); err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}
	return dbPath
}

func readTarget(t *testing.T, dbPath string) int {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load database: %v", err)
	}
	defer store.Close()
	goal, err := store.GetGoal(context.Background(), constants.GoalID)
	if err != nil {
		t.Fatalf("failed to read goal: %v", err)
	}
	return goal.TargetDays
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, 42)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.BackupDir() {
		t.Errorf("backup written to %s, want under %s", backupPath, mgr.BackupDir())
	}
	if !strings.HasPrefix(filepath.Base(backupPath), constants.BackupFilePrefix) {
		t.Errorf("unexpected backup name %s", filepath.Base(backupPath))
	}
	if got := readTarget(t, backupPath); got != 42 {
		t.Errorf("backup target = %d, want 42", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("CreateBackup should fail without a database")
	}
}

func TestCreateBackupSameSecondGetsUniqueNames(t *testing.T) {
	mgr := NewManager(setupTestDB(t, 10))
	mgr.now = fixedClock(time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local))

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatal(err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("ListBackups() = %d, want 3", len(backups))
	}
	if !strings.HasSuffix(backups[0].Name(), "-2"+constants.BackupFileSuffix) {
		t.Errorf("newest backup = %s, want the -2 suffix", backups[0].Name())
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t, 10))
	if err := os.MkdirAll(mgr.BackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.db", constants.BackupFilePrefix + "20240101-000000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("ListBackups() = %v, want none", backups)
	}
}

func TestListBackupsNoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "streaklit.db"))
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Errorf("ListBackups() = %v, %v", backups, err)
	}
}

func TestRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t, 10))
	mgr.keep = 3

	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		mgr.now = fixedClock(base.Add(time.Duration(i) * time.Minute))
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("after rotation %d backups remain, want 3", len(backups))
	}
	if !backups[2].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("oldest kept backup = %s, want %s", backups[2].Timestamp, base.Add(2*time.Minute))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, 30)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, time.May, 1, 9, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	// Change the live database after the backup.
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	goal := models.DefaultGoal()
	goal.TargetDays = 99
	if err := store.PutGoal(context.Background(), goal); err != nil {
		t.Fatal(err)
	}
	store.Close()

	mgr.now = fixedClock(time.Date(2024, time.May, 1, 10, 0, 0, 0, time.Local))
	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readTarget(t, dbPath); got != 30 {
		t.Errorf("restored target = %d, want 30", got)
	}
	if previous == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if got := readTarget(t, previous); got != 99 {
		t.Errorf("pre-restore backup target = %d, want 99", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreBackupRejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t, 30)
	mgr := NewManager(dbPath)
	dir := t.TempDir()

	if _, err := mgr.RestoreBackup(filepath.Join(dir, "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	junk := filepath.Join(dir, "junk.db")
	if err := os.WriteFile(junk, []byte("definitely not sqlite"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(junk); err == nil {
		t.Error("expected error for corrupt backup")
	}

	if got := readTarget(t, dbPath); got != 30 {
		t.Errorf("database changed after failed restore: target %d", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{constants.BackupFilePrefix + "20240314-080000.db", true},
		{constants.BackupFilePrefix + "20240314-080000-12.db", true},
		{constants.BackupFilePrefix + "20240314-0800.db", false},
		{constants.BackupFilePrefix + "20240314-080000.sqlite", false},
		{"other-20240314-080000.db", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "streaklit.db"))
	name := constants.BackupFilePrefix + "20240314-080000.db"
	if got := mgr.Resolve(name); got != filepath.Join(mgr.BackupDir(), name) {
		t.Errorf("Resolve(name) = %s", got)
	}
	abs := filepath.Join(t.TempDir(), name)
	if got := mgr.Resolve(abs); got != abs {
		t.Errorf("Resolve(path) = %s", got)
	}
}
