package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daypoints/internal/app"
	habitcmd "github.com/julianstephens/daypoints/internal/cli/habits"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/registry"
	"github.com/julianstephens/daypoints/internal/tui/components/habits"
)

type dayLoadedMsg struct {
	date   string
	rows   []habits.Row
	score  *models.DailyScore
	status string
}

type errMsg struct {
	err error
}

// headerHeight covers the title, summary box and help lines.
const headerHeight = 9

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		m.help.Width = msg.Width - h
		m.habitsModel.SetSize(msg.Width-h, max(msg.Height-v-headerHeight, 3))
		return m, nil
	}

	switch m.state {
	case stateAddHabit, stateNote:
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dayLoadedMsg:
		if msg.date != m.date {
			return m, nil
		}
		m.rows = msg.rows
		m.score = msg.score
		m.status = msg.status
		m.err = nil
		m.habitsModel.SetRows(msg.rows)
		return m, nil

	case errMsg:
		logger.Debug("Dashboard action failed", "date", m.date, "error", msg.err)
		m.err = msg.err
		m.status = ""
		return m, nil

	case habits.AddHabitMsg:
		return m.openHabitForm()

	case habits.AddInstanceMsg:
		id, name, date := msg.ID, msg.Name, m.date
		return m, m.mutate(date, true, func(ctx context.Context, a *app.App) (string, error) {
			if _, err := a.Ledger.AddInstance(ctx, id, date); err != nil {
				return "", err
			}
			counts, err := a.Ledger.CountByDate(ctx, date)
			if err != nil {
				return "", err
			}
			if n := counts[id]; n > constants.MaxInstancesPerDay {
				return fmt.Sprintf("Tracked %s (%d today, past the usual %d)", name, n, constants.MaxInstancesPerDay), nil
			}
			return "Tracked " + name, nil
		})

	case habits.RemoveInstanceMsg:
		id, name, date := msg.ID, msg.Name, m.date
		return m, m.mutate(date, true, func(ctx context.Context, a *app.App) (string, error) {
			if err := a.Ledger.RemoveLastInstance(ctx, id, date); err != nil {
				return "", err
			}
			return "Removed one " + name, nil
		})

	case tea.KeyMsg:
		if m.habitsModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			return m.moveDay(-1)
		case key.Matches(msg, m.keys.NextDay):
			return m.moveDay(1)
		case key.Matches(msg, m.keys.Today):
			m.date = m.app.Clock.Today()
			return m, m.loadDay(m.date, "")
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadDay(m.date, "Refreshed")
		case key.Matches(msg, m.keys.Note):
			return m.openNoteForm()
		}
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

// moveDay steps the dashboard by n days. Days after today are not shown.
func (m Model) moveDay(n int) (tea.Model, tea.Cmd) {
	next, err := m.app.Clock.AddDays(m.date, n)
	if err != nil {
		m.err = err
		return m, nil
	}
	if next > m.app.Clock.Today() {
		return m, nil
	}
	m.date = next
	m.status = ""
	return m, m.loadDay(next, "")
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = stateDay
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		switch m.state {
		case stateAddHabit:
			cmds = append(cmds, m.createHabit(*m.habitForm))
		case stateNote:
			cmds = append(cmds, m.saveNote(m.date, m.noteForm.Text))
		}
		m.state = stateDay
	case huh.StateAborted:
		m.state = stateDay
	}
	return m, tea.Batch(cmds...)
}

func (m Model) openHabitForm() (tea.Model, tea.Cmd) {
	m.habitForm = &HabitFormModel{
		Impact:     3,
		Difficulty: 3,
		TimeEffort: 3,
		Color:      string(constants.Palette[0]),
	}
	rating := huh.NewOptions(1, 2, 3, 4, 5)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&m.habitForm.Name).
				Validate(huh.ValidateNotEmpty()),
			huh.NewSelect[int]().Title("Impact").Options(rating...).Value(&m.habitForm.Impact),
			huh.NewSelect[int]().Title("Difficulty").Options(rating...).Value(&m.habitForm.Difficulty),
			huh.NewSelect[int]().Title("Time / effort").Options(rating...).Value(&m.habitForm.TimeEffort),
			huh.NewSelect[string]().Title("Colour").Options(habitcmd.ColorOptions()...).Value(&m.habitForm.Color),
		),
	).WithShowHelp(true)
	m.state = stateAddHabit
	return m, m.form.Init()
}

func (m Model) openNoteForm() (tea.Model, tea.Cmd) {
	m.noteForm = &NoteFormModel{}
	if m.score != nil {
		m.noteForm.Text = m.score.DailyNote
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note for " + m.date).
				Description("One point per 20 characters.").
				CharLimit(m.app.Config.Limits.MaxNoteLength).
				Value(&m.noteForm.Text),
		),
	).WithShowHelp(true)
	m.state = stateNote
	return m, m.form.Init()
}

func (m Model) createHabit(f HabitFormModel) tea.Cmd {
	return m.mutate(m.date, false, func(ctx context.Context, a *app.App) (string, error) {
		h, err := a.Registry.Create(ctx, registry.CreateHabitRequest{
			Name:       f.Name,
			Impact:     f.Impact,
			Difficulty: f.Difficulty,
			TimeEffort: f.TimeEffort,
			ColorTag:   f.Color,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s (%d points per completion)", h.Name, h.PriorityScore), nil
	})
}

func (m Model) saveNote(date, text string) tea.Cmd {
	return m.mutate(date, false, func(ctx context.Context, a *app.App) (string, error) {
		res, err := a.Aggregator.SaveNote(ctx, date, text)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Note saved: %d characters, %d point(s)", res.TotalCharacters, res.NotePoints), nil
	})
}

// mutate runs fn, optionally recomputes the day's stored score and reloads
// the day.
func (m Model) mutate(date string, recompute bool, fn func(ctx context.Context, a *app.App) (string, error)) tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		status, err := fn(ctx, a)
		if err != nil {
			return errMsg{err: err}
		}
		if recompute {
			if _, err := a.Aggregator.ComputeAndPersist(ctx, date); err != nil {
				return errMsg{err: err}
			}
		}
		msg, err := fetchDay(ctx, a, date)
		if err != nil {
			return errMsg{err: err}
		}
		msg.status = status
		return msg
	}
}

func (m Model) loadDay(date, status string) tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		msg, err := fetchDay(ctx, a, date)
		if err != nil {
			return errMsg{err: err}
		}
		msg.status = status
		return msg
	}
}

func fetchDay(ctx context.Context, a *app.App, date string) (dayLoadedMsg, error) {
	all, err := a.Registry.ListAll(ctx)
	if err != nil {
		return dayLoadedMsg{}, err
	}
	instances, err := a.Ledger.ListByDate(ctx, date)
	if err != nil {
		return dayLoadedMsg{}, err
	}
	score, err := a.Aggregator.GetDailyScore(ctx, date)
	if err != nil {
		return dayLoadedMsg{}, err
	}
	return dayLoadedMsg{date: date, rows: habits.Rows(all, instances), score: score}, nil
}
