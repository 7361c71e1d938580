// Package tui is the interactive today view: today's habits with their
// completion state and streaks, toggled in place.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ritualapp/ritual/internal/dateutil"
	"github.com/ritualapp/ritual/internal/habits"
	"github.com/ritualapp/ritual/internal/models"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	streakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	habitColWidth = 28
)

// Model is the bubbletea model for the today view.
type Model struct {
	store  *habits.Store
	today  string
	list   []models.Habit
	cursor int
	err    error
}

// NewModel builds the today view over the given store.
func NewModel(store *habits.Store) Model {
	today := dateutil.TodayKey(store.Timezone())
	return Model{
		store: store,
		today: today,
		list:  store.TodayHabits(today),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(m.list) > 0 {
				_, err := m.store.ToggleCompletion(m.list[m.cursor].ID, m.today)
				m.err = err
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	s := titleStyle.Render("Today " + m.today)
	s += "\n"

	if len(m.list) == 0 {
		s += pendingStyle.Render("No habits for today.")
		s += "\n"
		s += helpStyle.Render("q quit")
		return s
	}

	for i, h := range m.list {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		mark := pendingStyle.Render("[ ]")
		if m.store.IsCompletedOnDate(h.ID, m.today) {
			mark = doneStyle.Render("[x]")
		}

		name := h.Name
		if len(name) > habitColWidth {
			name = name[:habitColWidth-3] + "..."
		}
		line := fmt.Sprintf("%s%s %-*s", cursor, mark, habitColWidth, name)

		if st := m.store.Streak(h.ID); st.Current > 0 {
			line += streakStyle.Render(fmt.Sprintf(" %dd", st.Current))
		}
		s += line + "\n"
	}

	if m.err != nil {
		s += errorStyle.Render("error: "+m.err.Error()) + "\n"
	}
	s += helpStyle.Render("j/k move · space toggle · q quit")
	return s
}

// Run launches the today view and flushes pending writes on exit.
func Run(store *habits.Store) error {
	if _, err := tea.NewProgram(NewModel(store)).Run(); err != nil {
		return err
	}
	return store.Flush()
}
