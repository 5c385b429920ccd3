package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/scoring"
)

type AddHabitMsg struct{}

type AddInstanceMsg struct {
	ID   string
	Name string
}

type RemoveInstanceMsg struct {
	ID   string
	Name string
}

// Row is one habit with its completion count for the day on display.
type Row struct {
	Habit models.Habit
	Count int
}

// Points is the row's contribution to the day.
func (r Row) Points() int {
	return r.Habit.PriorityScore * r.Count
}

// Rows pairs habits with their counts. Inactive habits are listed only
// when they were tracked that day.
func Rows(habits []models.Habit, instances []models.TrackedInstance) []Row {
	counts := map[string]int{}
	for _, inst := range instances {
		counts[inst.HabitID]++
	}
	rows := make([]Row, 0, len(habits))
	for _, h := range habits {
		if !h.Active && counts[h.ID] == 0 {
			continue
		}
		rows = append(rows, Row{Habit: h, Count: counts[h.ID]})
	}
	return rows
}

type Item struct {
	Row
}

func (i Item) Title() string {
	title := cli.Swatch(i.Habit.ColorTag) + " " + i.Habit.Name
	if !i.Habit.Active {
		title += " (inactive)"
	}
	return title
}

func (i Item) Description() string {
	return fmt.Sprintf("%d/%d %s %d pts",
		i.Count, constants.MaxInstancesPerDay,
		cli.Bar(i.Points(), scoring.MaxDailyPoints(i.Habit.PriorityScore), 14, i.Habit.ColorTag),
		i.Points())
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add       key.Binding
	Increment key.Binding
	Decrement key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add habit"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "=", "enter"),
			key.WithHelp("+", "track"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "backspace"),
			key.WithHelp("-", "untrack"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Increment, keys.Decrement, keys.Add}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Increment, keys.Decrement, keys.Add}
	}

	return Model{list: l, keys: keys}
}

// SetRows replaces the items and keeps the cursor where it was.
func (m *Model) SetRows(rows []Row) {
	cursor := m.list.Index()
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = Item{Row: r}
	}
	m.list.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		m.list.Select(cursor)
	}
}

// Selected returns the highlighted row, if any.
func (m Model) Selected() (Row, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Row, ok
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Increment):
			if r, ok := m.Selected(); ok && r.Habit.Active {
				return m, func() tea.Msg { return AddInstanceMsg{ID: r.Habit.ID, Name: r.Habit.Name} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Decrement):
			if r, ok := m.Selected(); ok && r.Count > 0 {
				return m, func() tea.Msg { return RemoveInstanceMsg{ID: r.Habit.ID, Name: r.Habit.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
