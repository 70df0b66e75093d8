package streaks

import (
	"context"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/utils"
	"github.com/julianstephens/streaklit/internal/validation"
)

type GoalCmd struct {
	Show GoalShowCmd `cmd:"" help:"Show the current goal." default:"1"`
	Set  GoalSetCmd  `cmd:"" help:"Set the target number of days."`
}

type GoalSetCmd struct {
	Target string `arg:"" help:"Target streak length in days (positive integer)."`
}

func (c *GoalSetCmd) Run(ctx *cli.Context) error {
	n, err := validation.ParseTarget(c.Target)
	if err != nil {
		ctx.Notify(constants.MsgInvalidTarget)
		return err
	}

	background := context.Background()
	if _, err := ctx.Tracker.Load(background); err != nil {
		return err
	}

	goal, err := ctx.Tracker.SetTarget(background, n)
	if err != nil {
		return err
	}

	ctx.Printf("Goal set to %s. Current streak: %s\n", days(goal.TargetDays), days(goal.CurrentStreakDays))
	return nil
}

type GoalShowCmd struct{}

func (c *GoalShowCmd) Run(ctx *cli.Context) error {
	state, err := ctx.LoadState()
	if err != nil {
		return err
	}

	goal := state.Goal
	ctx.Printf("Target:         %s\n", days(goal.TargetDays))
	ctx.Printf("Current streak: %s\n", days(goal.CurrentStreakDays))
	ctx.Printf("Remaining:      %s\n", days(goal.DaysRemaining()))
	if goal.LastStreakUpdate != nil {
		ctx.Printf("Last update:    %s\n", utils.FormatDay(*goal.LastStreakUpdate))
	}
	return nil
}
