package system

import (
	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/notifier"
)

type NotifyCmd struct {
	Message string `arg:"" help:"Notification text."`
	DryRun  bool   `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		ctx.Println("[DryRun] " + c.Message)
		return nil
	}
	return notifier.NewTray().Send(c.Message)
}
