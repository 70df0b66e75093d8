package streaks

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/utils"
)

const progressWidth = 30

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	state, err := ctx.LoadState()
	if err != nil {
		return err
	}

	goal := state.Goal
	ctx.Printf("Current streak: %s\n", days(goal.CurrentStreakDays))
	if goal.Reached() {
		ctx.Printf("Goal:           %s (reached!)\n", days(goal.TargetDays))
	} else {
		ctx.Printf("Goal:           %s (%s to go)\n", days(goal.TargetDays), days(goal.DaysRemaining()))
	}
	ctx.Printf("Progress:       %s %3.0f%%\n", progressBar(goal, progressWidth), goal.Progress()*100)

	if state.TodayCompleted {
		ctx.Println("Today:          completed")
	} else {
		ctx.Println("Today:          not marked yet (run '" + constants.AppName + " mark')")
	}

	if goal.LastStreakUpdate != nil {
		ctx.Printf("Last marked:    %s (%s)\n", utils.FormatDay(*goal.LastStreakUpdate), humanize.Time(*goal.LastStreakUpdate))
	} else {
		ctx.Println("Last marked:    never")
	}
	return nil
}

type MarkCmd struct{}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	if _, err := ctx.Tracker.Load(background); err != nil {
		return err
	}

	state, err := ctx.Tracker.MarkToday(background)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	ctx.Printf("Marked %s as completed. Current streak: %s\n",
		utils.FormatDay(state.Today), days(state.Goal.CurrentStreakDays))
	if state.Goal.Reached() {
		ctx.Printf("Goal of %s reached!\n", days(state.Goal.TargetDays))
	}
	return nil
}

type ReconcileCmd struct{}

func (c *ReconcileCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	before, err := ctx.Tracker.Load(background)
	if err != nil {
		return err
	}

	d, err := ctx.Tracker.Reconcile(background)
	if err != nil {
		return err
	}

	if !d.Changed {
		ctx.Printf("Streak is up to date: %s\n", days(d.Goal.CurrentStreakDays))
		return nil
	}

	reasons := make([]string, len(d.Reasons))
	for i, r := range d.Reasons {
		reasons[i] = string(r)
	}
	ctx.Printf("Streak corrected: %d -> %d (%s)\n",
		before.Goal.CurrentStreakDays, d.Goal.CurrentStreakDays, strings.Join(reasons, ", "))
	return nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func progressBar(goal models.GoalState, width int) string {
	filled := int(goal.Progress() * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
