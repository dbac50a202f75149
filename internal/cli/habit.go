package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/validation"
)

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Goal      string `short:"g" help:"Goal period (daily|weekly|monthly)." default:"daily"`
	Count     int    `short:"c" help:"Completions required per period (1-100)." default:"1"`
	Color     string `help:"Hex color for the heatmap (#RRGGBB)."`
	ShowColor bool   `name:"list-colors" help:"List the palette colors and exit."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if c.ShowColor {
		for _, color := range constants.HabitColors {
			fmt.Println(color)
		}
		return nil
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	goalType, err := parseGoalType(c.Goal)
	if err != nil {
		return err
	}

	color := c.Color
	if color == "" {
		color = constants.DefaultHabitColor
	}

	habit := models.Habit{
		Name:      strings.TrimSpace(c.Name),
		Color:     color,
		GoalType:  goalType,
		GoalCount: c.Count,
		CreatedAt: time.Now().UTC(),
	}

	result := validation.New().ValidateHabit(habit)
	if result.HasConflicts() {
		return fmt.Errorf("invalid habit:\n%s", result.FormatReport())
	}

	if _, err := ctx.Store.GetHabitByName(habit.Name); err == nil {
		return fmt.Errorf("a habit named %q already exists", habit.Name)
	}

	id, err := ctx.Store.AddHabit(habit)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit %q (id %d, %s)\n", habit.Name, id, formatGoal(habit))
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.All)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with: habitforge habit add <name>")
		return nil
	}

	today := ctx.Tracker.Today()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGOAL\tPROGRESS\tSTREAK\tSTATUS")
	for _, h := range habits {
		progress, err := ctx.Tracker.Progress(h, today)
		if err != nil {
			return err
		}

		status := "active"
		if h.Archived {
			status = "archived"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d (%.0f%%)\t%s\t%s\n",
			h.ID, h.Name, formatGoal(h),
			progress.CurrentCount, progress.GoalCount, progress.Percentage,
			formatStreak(ctx.Tracker.Streak(h), h.GoalType), status)
	}
	return w.Flush()
}

type HabitEditCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Name  string `help:"New name."`
	Goal  string `short:"g" help:"New goal period (daily|weekly|monthly)."`
	Count int    `short:"c" help:"New completions per period (1-100)." default:"-1"`
	Color string `help:"New hex color (#RRGGBB)."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if c.Name != "" {
		newName := strings.TrimSpace(c.Name)
		if !strings.EqualFold(newName, habit.Name) {
			if _, err := ctx.Store.GetHabitByName(newName); err == nil {
				return fmt.Errorf("a habit named %q already exists", newName)
			}
		}
		habit.Name = newName
	}
	if c.Goal != "" {
		goalType, err := parseGoalType(c.Goal)
		if err != nil {
			return err
		}
		habit.GoalType = goalType
	}
	if c.Count >= 0 {
		habit.GoalCount = c.Count
	}
	if c.Color != "" {
		habit.Color = c.Color
	}

	result := validation.New().ValidateHabit(habit)
	if result.HasConflicts() {
		return fmt.Errorf("invalid habit:\n%s", result.FormatReport())
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	// Streaks and heatmaps may change when the goal changes
	ctx.Tracker.ResetCache()

	fmt.Printf("Updated habit %q (%s)\n", habit.Name, formatGoal(habit))
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Archived %q. History is kept; use 'habit unarchive' to resume.\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Unarchived %q.\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if !c.Force {
		fmt.Printf("Delete %q and ALL its completion history? This cannot be undone. [y/N]: ", habit.Name)
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	ctx.Tracker.ResetCache()

	fmt.Printf("Deleted habit %q.\n", habit.Name)
	return nil
}
