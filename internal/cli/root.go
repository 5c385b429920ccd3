package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/daypoints/internal/app"
	"github.com/julianstephens/daypoints/internal/backup"
	"github.com/julianstephens/daypoints/internal/cache"
	"github.com/julianstephens/daypoints/internal/clock"
	"github.com/julianstephens/daypoints/internal/config"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Store  storage.Provider
	Out    io.Writer

	// ClockOpts are passed to the app's clock. Tests pin "today" here.
	ClockOpts []clock.Option
	// Assume yes for confirmations (global --yes).
	Yes bool

	app *app.App
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Context returns the command's context, never nil.
func (c *Context) Context() context.Context {
	return c.context()
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Services returns the wired services, building them on first use. The
// store must already be loaded.
func (c *Context) Services() (*app.App, error) {
	return c.ServicesWith(app.Options{})
}

// ServicesWith is Services with extra collaborators (a chat generator or
// metrics). Options only take effect on the first call.
func (c *Context) ServicesWith(opts app.Options) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg := c.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	if opts.Cache == nil && cfg.Redis.Enabled() {
		client, err := cache.Connect(c.context(), cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, trend cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			opts.Cache = cache.New(client, cfg.Redis.CacheTTL)
		}
	}
	opts.ClockOpts = append(opts.ClockOpts, c.ClockOpts...)

	a, err := app.New(c.context(), cfg, c.Store, opts)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// Close releases the services and the store.
func (c *Context) Close() {
	if c.app != nil {
		if err := c.app.Cache.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}
}

// IsSQLite reports whether the store is a local sqlite file.
func (c *Context) IsSQLite() bool {
	return c.Store != nil && c.Store.Backend() == "sqlite"
}

// PerformAutomaticBackup creates a backup for sqlite stores and only logs
// failures.
func (c *Context) PerformAutomaticBackup() string {
	if !c.IsSQLite() {
		return ""
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	path, err := mgr.CreateBackup(c.context())
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return ""
	}
	return path
}

// ResolveDate turns "", "today" or "yesterday" into a day key in the
// effective timezone and validates anything else.
func (c *Context) ResolveDate(date string) (string, error) {
	a, err := c.Services()
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "", "today":
		return a.Clock.Today(), nil
	case "yesterday":
		return a.Clock.AddDays(a.Clock.Today(), -1)
	}
	if _, err := a.Clock.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// ResolveHabit finds a habit by id, then by exact name, then by
// case-insensitive name. Inactive habits match too.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	const op = "cli.ResolveHabit"
	a, err := c.Services()
	if err != nil {
		return models.Habit{}, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, apperrors.Validation(op, "habit name or id is required")
	}

	habits, err := a.Registry.ListAll(c.context())
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.ID == ref || h.Name == ref {
			return h, nil
		}
	}
	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperrors.NotFound(op, "habit", ref)
	case 1:
		return matches[0], nil
	}
	return models.Habit{}, apperrors.Validation(op, "%q matches %d habits, use the id", ref, len(matches))
}

// Print writes to the command output without a trailing newline.
func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.out(), args...)
}
