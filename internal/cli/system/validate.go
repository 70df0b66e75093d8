package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/validation"
)

type ValidateCmd struct{}

// Run reports conflicts in the stored data without reconciling it first, so a
// stale cached streak shows up in the report.
func (c *ValidateCmd) Run(ctx *cli.Context) error {
	state, err := ctx.Tracker.Load(context.Background())
	if err != nil {
		return err
	}

	result := validation.New().CheckRecords(state.Records, state.Goal, state.Today)
	ctx.Println(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
	}
	return nil
}
