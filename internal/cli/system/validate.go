package system

import (
	"fmt"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Recompute days whose stored scores have drifted."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := collectConflicts(ctx)
	if err != nil {
		return err
	}

	if !result.HasConflicts() {
		ctx.Println(result.FormatReport())
		return nil
	}

	ctx.Print(result.FormatReport())
	if !c.Fix {
		fixable := 0
		for _, conflict := range result.Conflicts {
			if conflict.Fixable() {
				fixable++
			}
		}
		if fixable > 0 {
			ctx.Printf("\n%d conflict(s) can be repaired with --fix.\n", fixable)
		}
		return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
	}

	a, err := ctx.Services()
	if err != nil {
		return err
	}
	actions := validation.AutoFix(ctx.Context(), result.Conflicts, a.Aggregator)
	ctx.Println("\nFixes:")
	for _, action := range actions {
		ctx.Printf("- %s\n", action.Action)
	}

	after, err := collectConflicts(ctx)
	if err != nil {
		return err
	}
	if after.HasConflicts() {
		return fmt.Errorf("%d conflict(s) remain after fixing", len(after.Conflicts))
	}
	ctx.Println("\nAll conflicts resolved.")
	return nil
}

// collectConflicts validates the whole history.
func collectConflicts(ctx *cli.Context) (validation.ValidationResult, error) {
	a, err := ctx.Services()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	habits, err := a.Registry.ListAll(ctx.Context())
	if err != nil {
		return validation.ValidationResult{}, err
	}
	entries, err := a.Ledger.EntriesInRange(ctx.Context(), constants.EarliestDate, constants.LatestDate)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	scores, err := a.Aggregator.ScoresInRange(ctx.Context(), constants.EarliestDate, constants.LatestDate)
	if err != nil {
		return validation.ValidationResult{}, err
	}

	v := validation.New(a.Config.Limits.MaxNoteLength)
	result := v.ValidateHabits(habits)
	days := v.ValidateDays(habits, entries, scores)
	result.Conflicts = append(result.Conflicts, days.Conflicts...)
	return result, nil
}
