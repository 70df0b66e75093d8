package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	// Persists the default goal when none was migrated.
	state, err := ctx.Tracker.Load(context.Background())
	if err != nil {
		return err
	}
	ctx.Printf("Goal: %d days, current streak: %d\n", state.Goal.TargetDays, state.Goal.CurrentStreakDays)
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return errors.New("--force is not supported for PostgreSQL storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first to release the file
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := cli.OpenProvider(source)
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	background := context.Background()

	ctx.Println("  Migrating daily records...")
	records, err := sourceStore.GetAllRecords(background)
	if err != nil {
		return fmt.Errorf("failed to get records from source: %w", err)
	}
	for _, rec := range records {
		if err := ctx.Store.PutRecord(background, rec); err != nil {
			return fmt.Errorf("failed to save record for %s: %w", rec.Day(), err)
		}
	}
	ctx.Printf("    Migrated %d records\n", len(records))

	ctx.Println("  Migrating goal...")
	goal, err := sourceStore.GetGoal(background, constants.GoalID)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.Println("    No goal in source, keeping default")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get goal from source: %w", err)
	}
	if err := ctx.Store.PutGoal(background, goal); err != nil {
		return fmt.Errorf("failed to save goal to destination: %w", err)
	}
	ctx.Printf("    Migrated goal (%d day target)\n", goal.TargetDays)
	return nil
}
