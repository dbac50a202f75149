package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/storage"
	"github.com/julianstephens/habitforge/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
}

// resolveHabit accepts either a numeric habit id or a habit name
// (case-insensitive).
func resolveHabit(ctx *Context, ref string) (models.Habit, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		habit, err := ctx.Store.GetHabit(id)
		if err == nil {
			return habit, nil
		}
	}

	habit, err := ctx.Store.GetHabitByName(ref)
	if err != nil {
		return models.Habit{}, fmt.Errorf("no habit matching %q", ref)
	}
	return habit, nil
}

// parseDay turns a --date flag into a date. Empty means today; "yesterday"
// and "today" are accepted alongside YYYY-MM-DD.
func parseDay(s string, today time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	d, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func parseGoalType(s string) (models.GoalType, error) {
	goal := models.GoalType(strings.ToLower(strings.TrimSpace(s)))
	if !goal.Valid() {
		return "", fmt.Errorf("invalid goal type %q, expected daily, weekly, or monthly", s)
	}
	return goal, nil
}

func formatGoal(h models.Habit) string {
	unit := "day"
	switch h.GoalType {
	case models.GoalWeekly:
		unit = "week"
	case models.GoalMonthly:
		unit = "month"
	}
	if h.GoalCount == 1 {
		return fmt.Sprintf("1x per %s", unit)
	}
	return fmt.Sprintf("%dx per %s", h.GoalCount, unit)
}

func formatStreak(streak int, goal models.GoalType) string {
	unit := "day"
	switch goal {
	case models.GoalWeekly:
		unit = "week"
	case models.GoalMonthly:
		unit = "month"
	}
	if streak == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", streak, unit)
}
