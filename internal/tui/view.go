package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daypoints/internal/scoring"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateAddHabit, stateNote:
		content = m.form.View()
	default:
		content = m.habitsModel.View()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewSummary(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewHeader() string {
	label := m.date
	if m.date == m.app.Clock.Today() {
		label += " (today)"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("daypoints"),
		dateStyle.Render(label),
		mutedStyle.Render(m.app.Clock.EffectiveTimezone()),
	)
}

func (m Model) viewSummary() string {
	habitTotal, notePoints := m.Total()
	lines := []string{
		fmt.Sprintf("Habits %d  Note %d  Total %d", habitTotal, notePoints, habitTotal+notePoints),
	}

	if m.score != nil && m.score.HabitScoreTotal != habitTotal {
		lines = append(lines, warningStyle.Render(
			fmt.Sprintf("stored habit total is %d, run `score compute` to refresh it", m.score.HabitScoreTotal)))
	}

	note := "no note"
	if m.score != nil && m.score.DailyNote != "" {
		note = firstLine(m.score.DailyNote, 60)
		if n := scoring.NoteLength(m.score.DailyNote); n > 0 {
			note = fmt.Sprintf("%s (%d chars)", note, n)
		}
	}
	lines = append(lines, mutedStyle.Render(note))
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return dangerStyle.Render("✗ " + m.err.Error())
	case m.status != "":
		return statusStyle.Render("✓ " + m.status)
	}
	return ""
}

// firstLine trims s to its first line and at most width runes.
func firstLine(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}
	if r := []rune(s); len(r) > width {
		s = string(r[:width-1]) + "…"
	}
	return s
}
