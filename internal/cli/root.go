package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/streaklit/internal/backup"
	"github.com/julianstephens/streaklit/internal/constants"
	"github.com/julianstephens/streaklit/internal/keyring"
	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/notifier"
	"github.com/julianstephens/streaklit/internal/storage"
	"github.com/julianstephens/streaklit/internal/storage/postgres"
	"github.com/julianstephens/streaklit/internal/storage/sqlite"
	"github.com/julianstephens/streaklit/internal/tracker"
	"github.com/julianstephens/streaklit/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Tracker  *tracker.Tracker
	Sink     notifier.Sink
	Location *time.Location

	// Tray is the desktop notification sink, or nil when disabled.
	Tray notifier.Sink

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
	// In is read by confirmation prompts. Defaults to os.Stdin.
	In io.Reader
}

// NewContext wires a tracker over store. Notifications go to sink.
func NewContext(store storage.Provider, sink notifier.Sink, loc *time.Location, opts ...tracker.Option) *Context {
	if loc == nil {
		loc = time.Local
	}
	opts = append([]tracker.Option{tracker.WithLocation(loc)}, opts...)
	return &Context{
		Store:    store,
		Tracker:  tracker.New(store, sink, opts...),
		Sink:     sink,
		Location: loc,
		Out:      os.Stdout,
		In:       os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) input() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Notify forwards text to the notification sink, if any.
func (c *Context) Notify(text string) {
	if c.Sink != nil {
		c.Sink.Notify(text)
	}
}

// LoadState loads the tracker and reconciles the cached streak so the
// returned state reflects today.
func (c *Context) LoadState() (tracker.State, error) {
	ctx := context.Background()
	if _, err := c.Tracker.Load(ctx); err != nil {
		return tracker.State{}, err
	}
	if _, err := c.Tracker.Reconcile(ctx); err != nil {
		return tracker.State{}, err
	}
	return c.Tracker.State(), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only SQLite stores are backed up.
func (c *Context) PerformAutomaticBackup() {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	mgr := backup.NewManager(s.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on Out and reads the answer from In.
func (c *Context) Confirm(question string) bool {
	c.Printf("%s (y/N): ", question)
	var answer string
	if _, err := fmt.Fscanln(c.input(), &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// OpenProvider selects a storage backend from the --config value:
//   - "postgres" or "postgresql" use the connection string from the
//     environment or the OS keyring
//   - a PostgreSQL URL or DSN is used directly and must not embed a password
//   - a path ending in .json uses the JSON file store
//   - anything else is a SQLite database path
func OpenProvider(config string) (storage.Provider, error) {
	switch {
	case config == "postgres" || config == "postgresql":
		connStr, err := ResolveConnString()
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil

	case isPostgresDSN(config):
		if err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w. Store it with '%s keyring set', export %s, or use .pgpass",
					err, constants.AppName, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(config), nil

	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return storage.NewJSONStore(utils.ExpandHome(config)), nil

	default:
		return sqlite.NewStore(utils.ExpandHome(config)), nil
	}
}

// ResolveConnString returns the PostgreSQL connection string from the
// environment, falling back to the OS keyring. Credentials from either source
// may include a password.
func ResolveConnString() (string, error) {
	if connStr := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); connStr != "" {
		return connStr, nil
	}

	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection string configured: set %s or run '%s keyring set'",
				constants.EnvDBConnection, constants.AppName)
		}
		return "", fmt.Errorf("failed to read connection string from keyring: %w", err)
	}
	return connStr, nil
}

func isPostgresDSN(s string) bool {
	return postgres.IsConnString(s) || strings.Contains(s, "host=") || strings.Contains(s, "dbname=")
}
