package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/period"
)

type ProgressCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or name. Omit for all habits."`
	Date  string `short:"d" help:"Reference day (YYYY-MM-DD, 'today', 'yesterday')."`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reference, err := parseDay(c.Date, ctx.Tracker.Today())
	if err != nil {
		return err
	}

	habits, err := selectHabits(ctx, c.Habit)
	if err != nil {
		return err
	}

	for _, h := range habits {
		progress, err := ctx.Tracker.Progress(h, reference)
		if err != nil {
			return err
		}

		label, err := period.Label(h.GoalType, reference)
		if err != nil {
			return err
		}

		bar := renderBar(progress.Percentage, 20)
		fmt.Printf("%-20s %s %5.1f%%  %d/%d  (%s)\n",
			h.Name, bar, progress.Percentage,
			progress.CurrentCount, progress.GoalCount, label)
	}
	return nil
}

type StreakCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or name. Omit for all habits."`
}

func (c *StreakCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := selectHabits(ctx, c.Habit)
	if err != nil {
		return err
	}

	for _, h := range habits {
		streak := ctx.Tracker.Streak(h)
		flame := ""
		if streak > 0 {
			flame = " 🔥"
		}
		fmt.Printf("%-20s %s%s\n", h.Name, formatStreak(streak, h.GoalType), flame)
	}
	return nil
}

// selectHabits returns the one named habit, or all active habits when ref
// is empty.
func selectHabits(ctx *Context, ref string) ([]models.Habit, error) {
	if ref != "" {
		habit, err := resolveHabit(ctx, ref)
		if err != nil {
			return nil, err
		}
		return []models.Habit{habit}, nil
	}

	habits, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return nil, fmt.Errorf("no habits yet, add one with: habitforge habit add <name>")
	}
	return habits, nil
}

func renderBar(percentage float64, width int) string {
	filled := int(percentage / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
