package tracker

import (
	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/logger"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/period"
)

// Streak counts consecutive periods, walking backward from today's period,
// where the habit's aggregated completion count met or exceeded its goal.
// Today's period is included only when already met; since the walk starts
// there, an unmet current period simply yields 0.
//
// Streak never fails: on any storage or goal-type error it logs the cause
// and returns 0. A possibly-stale zero beats crashing the UI over a
// decorative number.
func (t *Tracker) Streak(habit models.Habit) int {
	it, err := period.Backward(habit.GoalType, t.Today(), maxStreakPeriods(habit.GoalType))
	if err != nil {
		logger.Error("streak calculation failed", "habit", habit.ID, "error", err)
		return 0
	}

	streak := 0
	for {
		p, ok := it.Next()
		if !ok {
			break
		}

		completions, err := t.store.GetCompletionsForHabit(habit.ID, dayString(p.Start), dayString(p.End))
		if err != nil {
			logger.Error("streak calculation failed", "habit", habit.ID, "error", err)
			return 0
		}

		if sumCounts(completions) < habit.GoalCount {
			break
		}
		streak++
	}

	logger.Debug("calculated streak", "habit", habit.ID, "goal_type", habit.GoalType, "streak", streak)
	return streak
}

func maxStreakPeriods(goal models.GoalType) int {
	switch goal {
	case models.GoalWeekly:
		return constants.MaxWeeklyStreakPeriods
	case models.GoalMonthly:
		return constants.MaxMonthlyStreakPeriods
	default:
		return constants.MaxDailyStreakPeriods
	}
}
