package tracker

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/period"
)

// Progress evaluates a habit's completion progress for the period
// containing the reference date. Percentage is capped at 100 even when the
// habit is over-complete. A zero goal count yields 0 percent; goal counts
// are validated to 1-100 upstream.
func (t *Tracker) Progress(habit models.Habit, reference time.Time) (models.Progress, error) {
	p, err := period.Bounds(habit.GoalType, reference)
	if err != nil {
		return models.Progress{}, err
	}

	completions, err := t.store.GetCompletionsForHabit(habit.ID, dayString(p.Start), dayString(p.End))
	if err != nil {
		return models.Progress{}, fmt.Errorf("failed to load completions for habit %d: %w", habit.ID, err)
	}

	current := sumCounts(completions)

	percentage := 0.0
	if habit.GoalCount > 0 {
		percentage = math.Min(100, roundTenth(float64(current)/float64(habit.GoalCount)*100))
	}

	remaining := habit.GoalCount - current
	if remaining < 0 {
		remaining = 0
	}

	return models.Progress{
		CurrentCount: current,
		GoalCount:    habit.GoalCount,
		Percentage:   percentage,
		GoalMet:      current >= habit.GoalCount,
		Remaining:    remaining,
		Date:         period.DateOf(reference),
		PeriodStart:  p.Start,
		PeriodEnd:    p.End,
	}, nil
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
