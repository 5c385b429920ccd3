package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/storage"
	"github.com/julianstephens/daypoints/internal/storage/backend"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting an existing sqlite database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.IsSQLite() {
			return fmt.Errorf("--force only applies to sqlite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return err
	}
	ctx.Printf("Initialized daypoints storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		source, err := backend.Open(c.Source)
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if err := source.Load(ctx.Context()); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer source.Close()

		if err := copyData(ctx, source, ctx.Store); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// copyData copies every record from src into dst. Stores assign fresh
// ids, so tracking entries are re-pointed at the new habit ids.
func copyData(ctx *cli.Context, src, dst storage.Provider) error {
	c := ctx.Context()

	ctx.Println("  Copying settings...")
	settings, err := src.GetSettings(c)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(c, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Copying habits...")
	habits, err := src.GetAllHabits(c, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	ids := make(map[string]string, len(habits))
	for _, h := range habits {
		added, err := dst.AddHabit(c, h)
		if err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
		ids[h.ID] = added.ID
	}
	ctx.Printf("    Copied %d habits\n", len(habits))

	ctx.Println("  Copying tracking entries...")
	entries, err := src.GetTrackingEntriesInRange(c, constants.EarliestDate, constants.LatestDate)
	if err != nil {
		return fmt.Errorf("failed to get tracking entries from source: %w", err)
	}
	for _, e := range entries {
		habitID, ok := ids[e.HabitID]
		if !ok {
			return fmt.Errorf("tracking entry %s references unknown habit %s", e.ID, e.HabitID)
		}
		e.HabitID = habitID
		if _, err := dst.AddTrackingEntry(c, e); err != nil {
			return fmt.Errorf("failed to add tracking entry %s: %w", e.ID, err)
		}
	}
	ctx.Printf("    Copied %d tracking entries\n", len(entries))

	ctx.Println("  Copying daily scores...")
	scores, err := src.GetDailyScores(c, constants.EarliestDate, constants.LatestDate)
	if err != nil {
		return fmt.Errorf("failed to get daily scores from source: %w", err)
	}
	for _, s := range scores {
		if err := dst.UpsertDailyScore(c, s); err != nil {
			return fmt.Errorf("failed to save daily score %s: %w", s.Date, err)
		}
	}
	ctx.Printf("    Copied %d daily scores\n", len(scores))

	ctx.Println("  Copying conversations...")
	convs, err := src.GetConversations(c, storage.ConversationFilter{})
	if err != nil {
		return fmt.Errorf("failed to get conversations from source: %w", err)
	}
	for i := len(convs) - 1; i >= 0; i-- {
		if _, err := dst.AddConversation(c, convs[i]); err != nil {
			return fmt.Errorf("failed to add conversation %s: %w", convs[i].ID, err)
		}
	}
	ctx.Printf("    Copied %d conversations\n", len(convs))
	return nil
}
