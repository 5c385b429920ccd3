package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/cli/backups"
	"github.com/julianstephens/daypoints/internal/cli/charts"
	"github.com/julianstephens/daypoints/internal/cli/chats"
	"github.com/julianstephens/daypoints/internal/cli/habits"
	"github.com/julianstephens/daypoints/internal/cli/scores"
	"github.com/julianstephens/daypoints/internal/cli/settings"
	"github.com/julianstephens/daypoints/internal/cli/system"
	"github.com/julianstephens/daypoints/internal/cli/tracking"
	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/storage/backend"
)

var CLI struct {
	Version  kong.VersionFlag
	DB       string `help:"SQLite path, PostgreSQL connection string (no password) or 'keyring'."`
	Timezone string `help:"Timezone override (IANA name)."`
	Config   string `help:"Optional config file (yaml, json or toml)." type:"path"`
	EnvFile  string `name:"env-file" help:"Dotenv file to load." default:".env"`
	Debug    bool   `help:"Enable debug logging."`
	Yes      bool   `short:"y" help:"Answer yes to confirmations."`

	Init     system.InitCmd     `cmd:"" help:"Initialize daypoints storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored scores against the tracking ledger."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive day dashboard." default:"1"`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the JSON HTTP API."`

	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Track    tracking.TrackCmd    `cmd:"" help:"Record habit completions."`
	Score    scores.ScoreCmd      `cmd:"" help:"Daily scores and notes."`
	Streak   charts.StreakCmd     `cmd:"" help:"Show a habit's current streak."`
	Chart    charts.ChartCmd      `cmd:"" help:"Chart points over recent days."`
	Chat     chats.ChatCmd        `cmd:"" help:"Talk to the companion."`
	Tz       settings.TzCmd       `cmd:"" help:"Show or override the timezone."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage secrets in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit points tracker: score your day, keep your streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"colors":  colorNames(),
		},
	)

	cfg, err := config.Load(config.LoadOptions{EnvFile: CLI.EnvFile, ConfigFile: CLI.Config})
	if err != nil {
		apperrors.Fatal(fmt.Errorf("loading configuration: %w", err))
	}
	if CLI.DB != "" {
		cfg.DB = CLI.DB
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	resolved, _, err := backend.Resolve(cfg.DB)
	if err != nil {
		apperrors.Fatal(err)
	}
	isServe := kctx.Command() == "serve"
	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: config.Dir(resolved, backend.IsPostgres(resolved)),
		Stderr:    isServe,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := backend.Open(cfg.DB)
	if err != nil {
		apperrors.Fatal(err)
	}

	ctx := context.Background()
	appCtx := &cli.Context{
		Ctx:    ctx,
		Config: cfg,
		Store:  store,
		Yes:    CLI.Yes,
	}
	defer appCtx.Close()

	// Init opens the store itself; everything else needs it loaded.
	if !strings.HasPrefix(kctx.Command(), "init") {
		if err := store.Load(ctx); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		appCtx.Close()
		apperrors.Fatal(err)
	}
}

func colorNames() string {
	names := make([]string, 0, len(constants.PaletteNames))
	for name := range constants.PaletteNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
