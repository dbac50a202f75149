// Package heatmap renders per-day completion counts as a terminal grid.
// Shared by the heatmap CLI command and the TUI heatmap tab.
package heatmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
)

// Start maps a view name to the first day shown, counting back from today.
func Start(view string, today time.Time) (time.Time, error) {
	switch strings.ToLower(view) {
	case "week":
		return today.AddDate(0, 0, -6), nil
	case "month":
		return today.AddDate(0, -1, 1), nil
	case "year":
		return today.AddDate(-1, 0, 1), nil
	default:
		return time.Time{}, fmt.Errorf("invalid heatmap view %q, expected week, month, or year", view)
	}
}

// heatLevels are the intensity steps from empty (index 0) to saturated.
var heatLevels = []string{"240", "22", "28", "34", "40"}

// Render draws a github-style grid, one row per weekday, one column per
// week.
func Render(data map[string]int, habit models.Habit, start, end time.Time) string {
	// Align the left edge to the Monday on or before start.
	offset := (int(start.Weekday()) + 6) % 7
	gridStart := start.AddDate(0, 0, -offset)

	weeks := 0
	for d := gridStart; !d.After(end); d = d.AddDate(0, 0, 7) {
		weeks++
	}

	labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	lines := make([]string, 7)

	for row := 0; row < 7; row++ {
		var b strings.Builder
		b.WriteString(labels[row] + " ")
		for week := 0; week < weeks; week++ {
			d := gridStart.AddDate(0, 0, week*7+row)
			if d.Before(start) || d.After(end) {
				b.WriteString("  ")
				continue
			}
			b.WriteString(cell(data[d.Format(constants.DateFormat)], habit))
		}
		lines[row] = b.String()
	}

	return strings.Join(lines, "\n")
}

func cell(count int, habit models.Habit) string {
	if count == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(heatLevels[0])).Render("░░")
	}

	// Scale intensity against the per-period goal, saturating at 2x.
	goal := habit.GoalCount
	if goal < 1 {
		goal = 1
	}
	level := 1 + count*2/goal
	if level > 4 {
		level = 4
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(heatLevels[level]))
	if habit.Color != "" && level == 4 {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(habit.Color))
	}
	return style.Render("██")
}
