// Package habitlist renders the dashboard's habit list with per-habit
// progress and streak summaries.
package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitforge/internal/models"
)

// Entry pairs a habit with its computed stats for display.
type Entry struct {
	Habit    models.Habit
	Progress models.Progress
	Streak   int
}

type Item struct {
	Entry Entry
}

func (i Item) Title() string {
	marker := "○"
	if i.Entry.Progress.GoalMet {
		marker = "●"
	}
	return fmt.Sprintf("%s %s", marker, i.Entry.Habit.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d/%d this %s (%.0f%%)",
		i.Entry.Progress.CurrentCount, i.Entry.Progress.GoalCount,
		periodNoun(i.Entry.Habit.GoalType), i.Entry.Progress.Percentage)
	if i.Entry.Streak > 0 {
		desc += fmt.Sprintf(" | streak %d 🔥", i.Entry.Streak)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Habit.Name }

func periodNoun(goal models.GoalType) string {
	switch goal {
	case models.GoalWeekly:
		return "week"
	case models.GoalMonthly:
		return "month"
	default:
		return "day"
	}
}

type Model struct {
	list list.Model
}

func New(entries []Entry, width, height int) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(toItems(entries), delegate, width, height)
	l.Title = "Habits"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return Model{list: l}
}

func toItems(entries []Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

// SetEntries replaces the list contents, keeping the cursor near its
// position.
func (m *Model) SetEntries(entries []Entry) {
	index := m.list.Index()
	m.list.SetItems(toItems(entries))
	if index >= len(entries) {
		index = len(entries) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
}

// Selected returns the habit under the cursor, or false when the list is
// empty.
func (m Model) Selected() (Entry, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return Entry{}, false
	}
	return item.Entry, true
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
