package system

import (
	"bytes"
	"testing"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/cli/clitest"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage/sqlite"
)

var testConfig = clitest.Config

func newTestContext(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	return clitest.NewContext(t)
}

func addHabit(t *testing.T, store *sqlite.Store, name string, score int) models.Habit {
	return clitest.AddHabit(t, store, name, score)
}

func addEntry(t *testing.T, store *sqlite.Store, habitID, date string) {
	clitest.AddEntry(t, store, habitID, date)
}
