package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitforge/internal/heatmap"
	"github.com/julianstephens/habitforge/internal/tracker"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = docStyle.Render(m.habitList.View())
	case StateHeatmap:
		content = docStyle.Render(m.viewHeatmap())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmArchive:
		content = m.viewConfirmArchive()
	}

	sections := []string{m.viewTabs(), content}
	if m.statusMessage != "" {
		sections = append(sections, statusStyle.Render(m.statusMessage))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Dashboard", "Heatmap"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHeatmap() string {
	if m.heatmapHabit.ID == 0 {
		return "No habit selected. Pick one on the dashboard and press enter."
	}

	settings, err := m.store.GetSettings()
	if err != nil {
		return fmt.Sprintf("failed to load settings: %v", err)
	}

	today := m.tracker.Today()
	start, err := heatmap.Start(settings.HeatmapView, today)
	if err != nil {
		start = today.AddDate(0, -1, 1)
	}

	data, err := m.tracker.Heatmap(m.heatmapHabit.ID, start, today, settings.HeatmapView, today, true)
	if err != nil {
		return fmt.Sprintf("failed to load heatmap: %v", err)
	}

	grid := heatmap.Render(data, m.heatmapHabit, start, today)
	overall := tracker.OverallPercentage(data, m.heatmapHabit.GoalCount, start, today)

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s (%s view)", m.heatmapHabit.Name, settings.HeatmapView),
		"",
		grid,
		"",
		fmt.Sprintf("Overall: %.1f%% of the maximum possible completions", overall),
	)
}

func (m Model) viewConfirmArchive() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Archive %q? History is kept.", m.habitToArchive.Name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
