package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/utils"
)

type DebugCmd struct {
	DBPath DebugDBPathCmd `cmd:"" help:"Show database path."`
	Dump   DebugDumpCmd   `cmd:"" help:"Dump records and goal as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpCmd struct{}

type dumpRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	IsCompleted bool   `json:"is_completed"`
}

type dumpGoal struct {
	ID                string  `json:"id"`
	TargetDays        int     `json:"target_days"`
	CurrentStreakDays int     `json:"current_streak_days"`
	LastStreakUpdate  *string `json:"last_streak_update"`
	CalculatedStreak  int     `json:"calculated_streak"`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	state, err := ctx.Tracker.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	records := make([]dumpRecord, len(state.Records))
	for i, r := range state.Records {
		records[i] = dumpRecord{ID: r.ID, Date: r.Day(), IsCompleted: r.IsCompleted}
	}

	goal := dumpGoal{
		ID:                state.Goal.ID,
		TargetDays:        state.Goal.TargetDays,
		CurrentStreakDays: state.Goal.CurrentStreakDays,
		CalculatedStreak:  streak.Calculate(state.Records, state.Goal.LastStreakUpdate, state.Today),
	}
	if state.Goal.LastStreakUpdate != nil {
		day := utils.FormatDay(*state.Goal.LastStreakUpdate)
		goal.LastStreakUpdate = &day
	}

	return printJSON(ctx, map[string]interface{}{
		"today":   utils.FormatDay(state.Today),
		"records": records,
		"goal":    goal,
	})
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
