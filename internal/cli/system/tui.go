package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Services()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Context(), a), tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	_, err = p.Run()
	return err
}
