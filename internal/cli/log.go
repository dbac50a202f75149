package cli

import (
	"fmt"
)

type LogCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Amount int    `short:"n" help:"How many completions to log." default:"1"`
	Date   string `short:"d" help:"Day to log for (YYYY-MM-DD, 'today', 'yesterday')."`
}

func (c *LogCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	day, err := parseDay(c.Date, ctx.Tracker.Today())
	if err != nil {
		return err
	}

	completion, err := ctx.Tracker.LogCompletion(habit.ID, day, c.Amount)
	if err != nil {
		return err
	}

	progress, err := ctx.Tracker.Progress(habit, day)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %q on %s (count %d, period %d/%d)\n",
		habit.Name, completion.Day, completion.Count,
		progress.CurrentCount, progress.GoalCount)
	if progress.GoalMet {
		streak := ctx.Tracker.Streak(habit)
		fmt.Printf("Goal met! Current streak: %s\n", formatStreak(streak, habit.GoalType))
	}
	return nil
}

type UndoCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Amount int    `short:"n" help:"How many completions to remove." default:"1"`
	Date   string `short:"d" help:"Day to undo (YYYY-MM-DD, 'today', 'yesterday')."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	day, err := parseDay(c.Date, ctx.Tracker.Today())
	if err != nil {
		return err
	}

	completion, err := ctx.Tracker.UndoCompletion(habit.ID, day, c.Amount)
	if err != nil {
		return err
	}

	fmt.Printf("Undid completion for %q on %s (count now %d)\n",
		habit.Name, completion.Day, completion.Count)
	return nil
}
