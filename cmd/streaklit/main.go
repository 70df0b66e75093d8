package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/cli/backups"
	"github.com/julianstephens/streaklit/internal/cli/streaks"
	"github.com/julianstephens/streaklit/internal/cli/system"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/errors"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/notifier"
	"github.com/julianstephens/streaklit/internal/storage/postgres"
	"github.com/julianstephens/streaklit/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path (.db for SQLite, .json for a JSON file), 'postgres' to use the stored connection string, or a PostgreSQL connection string without a password." type:"string" default:"${default_config}" env:"STREAKLIT_CONFIG"`
	Verbose  bool   `help:"Mirror debug logs to stderr." short:"v"`
	LogLevel string `help:"Log file level: debug, info, warn or error." default:"warn" env:"STREAKLIT_LOG_LEVEL"`
	Timezone string `help:"IANA timezone that decides where a day ends." default:"Local" env:"STREAKLIT_TIMEZONE"`
	NoTray   bool   `help:"Do not send desktop notifications to the tray app." name:"no-tray"`

	Init      system.InitCmd       `cmd:"" help:"Initialize streaklit storage."`
	Migrate   system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Validate  system.ValidateCmd   `cmd:"" help:"Check stored records for conflicts."`
	Tui       system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status    streaks.StatusCmd    `cmd:"" help:"Show the current streak and goal progress."`
	Mark      streaks.MarkCmd      `cmd:"" help:"Mark today as completed."`
	Goal      streaks.GoalCmd      `cmd:"" help:"Show or set the streak goal."`
	Reconcile streaks.ReconcileCmd `cmd:"" help:"Correct a stale streak against the records."`
	Week      streaks.WeekCmd      `cmd:"" help:"Show this week's completion bar."`
	Log       streaks.LogCmd       `cmd:"" help:"Show completion history."`
	Backup    struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Debug   system.DebugCmd   `cmd:"" help:"Debug commands for troubleshooting."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a notification to the tray app (used internally)."`
}

// selfLoading commands open storage on their own, or never touch it.
var selfLoading = map[string]bool{
	"init":    true,
	"doctor":  true,
	"tui":     true,
	"keyring": true,
	"notify":  true,
}

func main() {
	// A missing .env is fine; variables already set always win.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track a daily habit streak toward a goal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Verbose,
		ConfigDir: configDir(CLI.Config),
		Level:     CLI.LogLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	store, err := cli.OpenProvider(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	var tray notifier.Sink
	sinks := []notifier.Sink{notifier.NewConsole(os.Stderr)}
	if !CLI.NoTray {
		tray = notifier.NewTray()
		sinks = append(sinks, tray)
	}

	appCtx := cli.NewContext(store, notifier.Multi(sinks...), loc)
	appCtx.Tray = tray

	// Load the store before running the command unless it manages storage itself
	if !selfLoading[strings.Fields(ctx.Command())[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	if err != nil {
		errors.Fatal(err)
	}
	_ = logger.Close()
}

// configDir is where logs live: next to a file database, or the user config
// directory for PostgreSQL.
func configDir(config string) string {
	if config != "postgres" && config != "postgresql" && !postgres.IsConnString(config) {
		return filepath.Dir(utils.ExpandHome(config))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return filepath.Join(os.TempDir(), constants.AppName)
}
