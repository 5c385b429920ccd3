package system

import (
	"fmt"

	"github.com/julianstephens/daypoints/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Only report pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Store.SchemaStatus(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to read schema status: %w", err)
	}

	if st.UpToDate() {
		ctx.Printf("No migrations to apply. Database is up to date (version %d).\n", st.Current)
		return nil
	}

	ctx.Printf("Schema version %d, latest %d, %d pending:\n", st.Current, st.Latest, len(st.Pending))
	for _, m := range st.Pending {
		ctx.Printf("  %03d %s\n", m.Version, m.Name)
	}
	if c.Status {
		return nil
	}

	// Init applies pending migrations and leaves existing settings alone.
	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	after, err := ctx.Store.SchemaStatus(ctx.Context())
	if err != nil {
		return err
	}
	ctx.Printf("\nSuccessfully applied %d migration(s). Schema version is now %d.\n", after.Current-st.Current, after.Current)
	return nil
}
