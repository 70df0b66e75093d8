package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/streaklit/internal/backup"
	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/keyring"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/postgres"
	"github.com/julianstephens/streaklit/internal/storage/sqlite"
	"github.com/julianstephens/streaklit/internal/utils"
	"github.com/julianstephens/streaklit/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is not reachable.
	needsDB bool
	// warnOnly failures do not fail the run.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Goal present", needsDB: true, run: checkGoal},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Log file", warnOnly: true, run: checkLogFile},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	// For SQLite, also try a simple query
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	versioned, ok := ctx.Store.(schemaVersioner)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}

	current, latest, err := versioned.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func checkGoal(ctx *cli.Context) error {
	goal, err := ctx.Store.GetGoal(context.Background(), constants.GoalID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no goal found - run '%s init' or '%s status' to create the default goal", constants.AppName, constants.AppName)
	}
	if err != nil {
		return fmt.Errorf("failed to get goal: %w", err)
	}
	return validation.New().ValidateGoal(goal)
}

func checkValidation(ctx *cli.Context) error {
	background := context.Background()
	records, err := ctx.Store.GetAllRecords(background)
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}
	goal, err := ctx.Store.GetGoal(background, constants.GoalID)
	if errors.Is(err, storage.ErrNotFound) {
		goal = models.DefaultGoal()
	} else if err != nil {
		return fmt.Errorf("failed to get goal: %w", err)
	}

	result := validation.New().CheckRecords(records, goal, utils.TodayIn(time.Now(), ctx.Location))
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found - run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("backups are only supported for SQLite storage")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return fmt.Errorf("no timezone configured")
	}
	if !utils.ValidateTimezone(ctx.Location.String()) {
		return fmt.Errorf("timezone %q cannot be loaded", ctx.Location.String())
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return fmt.Errorf("OS keyring is not available; use %s for PostgreSQL credentials", constants.EnvDBConnection)
		}
		return fmt.Errorf("OS keyring is not available")
	}
	return nil
}

func checkLogFile(ctx *cli.Context) error {
	path := logger.Path()
	if path == "" {
		return fmt.Errorf("logging is not initialized; diagnostics are not being recorded")
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("log directory unavailable: %w", err)
	}
	ctx.Printf("   Logging to %s\n", path)
	return nil
}
