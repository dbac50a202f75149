package cli

import (
	"fmt"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/heatmap"
	"github.com/julianstephens/habitforge/internal/tracker"
)

type HeatmapCmd struct {
	Habit   string `arg:"" help:"Habit id or name."`
	View    string `short:"v" help:"Range to show (week|month|year). Defaults to the configured setting."`
	NoCache bool   `help:"Recompute instead of using cached data."`
}

func (c *HeatmapCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	view := c.View
	if view == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		view = settings.HeatmapView
	}

	today := ctx.Tracker.Today()
	start, err := heatmap.Start(view, today)
	if err != nil {
		return err
	}

	data, err := ctx.Tracker.Heatmap(habit.ID, start, today, view, today, !c.NoCache)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s view, %s onward)\n\n", habit.Name, view, start.Format(constants.DateFormat))
	fmt.Println(heatmap.Render(data, habit, start, today))

	overall := tracker.OverallPercentage(data, habit.GoalCount, start, today)
	fmt.Printf("\nOverall: %.1f%% of the maximum possible completions\n", overall)
	return nil
}
