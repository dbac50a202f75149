package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitforge/internal/tracker"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitList.SetSize(msg.Width-4, msg.Height-6)

	case tea.KeyMsg:
		switch m.state {
		case StateAddHabit:
			return m.updateAddHabit(msg)
		case StateConfirmArchive:
			return m.updateConfirmArchive(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m.enterState()

		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m.enterState()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Log):
			return m.logSelected(1)

		case key.Matches(msg, m.keys.Undo):
			return m.undoSelected(1)

		case key.Matches(msg, m.keys.Add):
			if m.state == StateDashboard {
				m.newHabitForm()
				m.state = StateAddHabit
				return m, m.form.Init()
			}

		case key.Matches(msg, m.keys.Archive):
			if entry, ok := m.habitList.Selected(); ok && m.state == StateDashboard {
				m.habitToArchive = entry.Habit
				m.state = StateConfirmArchive
				return m, nil
			}

		case key.Matches(msg, m.keys.Enter):
			if entry, ok := m.habitList.Selected(); ok && m.state == StateDashboard {
				m.heatmapHabit = entry.Habit
				m.state = StateHeatmap
				return m, nil
			}
		}
	}

	if m.state == StateDashboard {
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// enterState refreshes data for the tab being switched to.
func (m Model) enterState() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateDashboard:
		m.reloadHabits()
	case StateHeatmap:
		if entry, ok := m.habitList.Selected(); ok {
			m.heatmapHabit = entry.Habit
		}
	}
	return m, nil
}

func (m Model) logSelected(amount int) (tea.Model, tea.Cmd) {
	entry, ok := m.habitList.Selected()
	if !ok {
		return m, nil
	}

	_, err := m.tracker.LogCompletion(entry.Habit.ID, m.tracker.Today(), amount)
	if err != nil {
		m.statusMessage = friendlyError(err)
		return m, nil
	}

	m.statusMessage = fmt.Sprintf("Logged %q", entry.Habit.Name)
	m.reloadHabits()
	return m, nil
}

func (m Model) undoSelected(amount int) (tea.Model, tea.Cmd) {
	entry, ok := m.habitList.Selected()
	if !ok {
		return m, nil
	}

	_, err := m.tracker.UndoCompletion(entry.Habit.ID, m.tracker.Today(), amount)
	if err != nil {
		m.statusMessage = friendlyError(err)
		return m, nil
	}

	m.statusMessage = fmt.Sprintf("Undid completion for %q", entry.Habit.Name)
	m.reloadHabits()
	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = StateDashboard
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if err := m.submitHabitForm(); err != nil {
			m.statusMessage = friendlyError(err)
		} else {
			m.statusMessage = fmt.Sprintf("Added habit %q", m.habitForm.Name)
		}
		m.state = StateDashboard
		m.form = nil
		m.reloadHabits()
		return m, nil
	}

	return m, cmd
}

func (m Model) updateConfirmArchive(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if err := m.store.ArchiveHabit(m.habitToArchive.ID); err != nil {
			m.statusMessage = friendlyError(err)
		} else {
			m.statusMessage = fmt.Sprintf("Archived %q", m.habitToArchive.Name)
		}
		m.state = StateDashboard
		m.reloadHabits()
	case "n", "N", "esc", "q":
		m.state = StateDashboard
	}
	return m, nil
}

// friendlyError strips wrapping noise from validation errors so the status
// bar stays readable.
func friendlyError(err error) string {
	var verr *tracker.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
