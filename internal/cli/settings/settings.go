package settings

import (
	"fmt"
	"time"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/clock"
	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	TrendDays         *int  `help:"Default number of days in trend charts."`
	IncludeNotePoints *bool `help:"Add note points to daily trend totals."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List || (c.TrendDays == nil && c.IncludeNotePoints == nil) {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:            %s\n", settings.Timezone)
		ctx.Printf("  Trend Days:          %d\n", settings.TrendDays)
		ctx.Printf("  Include Note Points: %v\n", settings.IncludeNotePoints)
		if !c.List {
			ctx.Println("\nUse --trend-days or --include-note-points to change them.")
		}
		return nil
	}

	if c.TrendDays != nil {
		if *c.TrendDays < 1 || *c.TrendDays > constants.MaxSeriesDays {
			return apperrors.Validation("settings", "trend days must be between 1 and %d", constants.MaxSeriesDays)
		}
		settings.TrendDays = *c.TrendDays
	}
	if c.IncludeNotePoints != nil {
		settings.IncludeNotePoints = *c.IncludeNotePoints
	}

	if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

type TzCmd struct {
	Show  TzShowCmd  `cmd:"" help:"Show the effective timezone and today's date." default:"1"`
	Set   TzSetCmd   `cmd:"" help:"Persist a timezone override."`
	Clear TzClearCmd `cmd:"" help:"Remove the override and use the host timezone."`
}

type TzShowCmd struct{}

func (c *TzShowCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	clk := a.Clock
	ctx.Printf("Effective timezone: %s (from %s)\n", clk.EffectiveTimezone(), clk.Source())
	ctx.Printf("Host timezone:      %s\n", clk.HostZone())
	ctx.Printf("Today:              %s\n", clk.Today())
	ctx.Printf("Local time:         %s\n", clk.Now().Format("2006-01-02 15:04:05 MST"))
	ctx.Printf("UTC:                %s\n", clk.Now().UTC().Format(time.RFC3339))
	if clk.Source() == clock.SourceConfig {
		ctx.Println(cli.MutedStyle.Render("DAYPOINTS_TIMEZONE or --timezone overrides the stored setting."))
	}
	return nil
}

type TzSetCmd struct {
	Zone string `arg:"" help:"IANA timezone name, e.g. America/Santiago."`
}

func (c *TzSetCmd) Run(ctx *cli.Context) error {
	if !utils.ValidateTimezone(c.Zone) {
		return apperrors.Validation("tz.set", "unknown timezone %q", c.Zone)
	}
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Timezone = c.Zone
	if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	loc, err := utils.LoadLocation(c.Zone)
	if err != nil {
		return err
	}
	ctx.Printf("Timezone set to %s. Today is %s there.\n", c.Zone, utils.TodayInLocation(time.Now(), loc))
	return nil
}

type TzClearCmd struct{}

func (c *TzClearCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Timezone = constants.DefaultTimezone
	if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Timezone override cleared. Using the host timezone.")
	return nil
}
