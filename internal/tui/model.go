// Package tui is the interactive day dashboard: the habits for one date with
// their counts and points, the day's note and running total.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daypoints/internal/app"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/tui/components/habits"
)

type sessionState int

const (
	stateDay sessionState = iota
	stateAddHabit
	stateNote
)

type HabitFormModel struct {
	Name       string
	Impact     int
	Difficulty int
	TimeEffort int
	Color      string
}

type NoteFormModel struct {
	Text string
}

type Model struct {
	ctx         context.Context
	app         *app.App
	state       sessionState
	keys        KeyMap
	help        help.Model
	habitsModel habits.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	noteForm    *NoteFormModel
	date        string
	rows        []habits.Row
	score       *models.DailyScore
	status      string
	err         error
	quitting    bool
	width       int
	height      int
}

func NewModel(ctx context.Context, a *app.App) Model {
	return Model{
		ctx:         ctx,
		app:         a,
		state:       stateDay,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(0, 0),
		date:        a.Clock.Today(),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Note, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Help, m.keys.Quit, m.keys.Refresh}
	days := []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Today, m.keys.Note}
	hk := habits.DefaultKeyMap()
	actions := []key.Binding{m.keys.Up, m.keys.Down, hk.Increment, hk.Decrement, hk.Add}
	return [][]key.Binding{global, days, actions}
}

func (m Model) Init() tea.Cmd {
	return m.loadDay(m.date, "")
}

// Date is the day on display.
func (m Model) Date() string {
	return m.date
}

// Rows are the habit rows on display.
func (m Model) Rows() []habits.Row {
	return m.rows
}

// Total is the day's habit points plus its note points.
func (m Model) Total() (habitTotal, notePoints int) {
	for _, r := range m.rows {
		habitTotal += r.Points()
	}
	if m.score != nil {
		notePoints = m.score.NotePoints
	}
	return habitTotal, notePoints
}
