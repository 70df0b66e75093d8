package streaks

import (
	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/streak"
	"github.com/julianstephens/streaklit/internal/utils"
)

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	state, err := ctx.LoadState()
	if err != nil {
		return err
	}

	week := streak.Week(state.Records, state.Today)
	for _, cell := range week {
		ctx.Printf(" %s ", cell.Date.Format("Mon"))
	}
	ctx.Println()
	for _, cell := range week {
		marker := " "
		if cell.IsToday {
			marker = "*"
		}
		ctx.Printf(" %s%s  ", statusSymbol(cell.Status), marker)
	}
	ctx.Println()
	ctx.Println()
	ctx.Println(legend)
	return nil
}

type LogCmd struct {
	Days int `help:"Number of days to show." default:"14"`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	state, err := ctx.LoadState()
	if err != nil {
		return err
	}

	history := streak.History(state.Records, state.Today, c.Days)
	if len(history) == 0 {
		ctx.Println("Nothing to show.")
		return nil
	}

	completed := 0
	for _, cell := range history {
		if cell.Status == streak.StatusCompleted {
			completed++
		}
		ctx.Printf("%s %s  %s %s\n", utils.FormatDay(cell.Date), cell.Date.Format("Mon"), statusSymbol(cell.Status), cell.Status)
	}
	ctx.Printf("\n%d of %d days completed\n", completed, len(history))
	return nil
}

const legend = "✓ completed  ✗ missed  ○ pending  · no record  * today"

func statusSymbol(s streak.DayStatus) string {
	switch s {
	case streak.StatusCompleted:
		return "✓"
	case streak.StatusMissed:
		return "✗"
	case streak.StatusPending:
		return "○"
	default:
		return "·"
	}
}
