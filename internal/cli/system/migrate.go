package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/streaklit/internal/cli"
)

// schemaVersioner is implemented by the SQL-backed stores.
type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	versioned, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return fmt.Errorf("migrate command only supports SQL storage")
	}

	before, latest, err := versioned.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if before >= latest {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	// Init applies every pending migration on an existing database.
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	after, _, err := versioned.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	ctx.Printf("Successfully applied %d migration(s). Schema version: %d\n", after-before, after)
	return nil
}
