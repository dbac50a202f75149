package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitforge/internal/logger"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/period"
	"github.com/julianstephens/habitforge/internal/storage"
)

// LogCompletion records amount completions for a habit on the given day.
// The completion row for (habit, day) is created if absent, otherwise its
// count is incremented. Preconditions: the habit exists and is not
// archived, the day is not in the future, and amount is positive. Any
// precondition failure returns a ValidationError and writes nothing.
func (t *Tracker) LogCompletion(habitID int64, day time.Time, amount int) (models.Completion, error) {
	if amount <= 0 {
		return models.Completion{}, validationErrorf("completion amount must be positive")
	}

	d := period.DateOf(day)
	if d.After(t.Today()) {
		return models.Completion{}, validationErrorf("cannot log completions for future dates")
	}

	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Completion{}, validationErrorf("habit %d not found", habitID)
		}
		return models.Completion{}, fmt.Errorf("failed to load habit %d: %w", habitID, err)
	}

	if habit.Archived {
		return models.Completion{}, validationErrorf("cannot log completions for archived habit %q", habit.Name)
	}

	completion, err := t.store.IncrementCompletion(habitID, dayString(d), amount)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to log completion: %w", err)
	}

	// Analytics must not serve pre-write data for this habit.
	t.cache.InvalidateHabit(habitID)

	logger.Info("logged completion", "habit", habit.Name, "day", completion.Day, "count", completion.Count)
	return completion, nil
}

// UndoCompletion decrements the completion count for a habit on the given
// day, floored at 0. Undo is allowed on archived habits: the archive check
// only guards new progress, not corrections. Returns a ValidationError if
// no completion row exists for that day.
func (t *Tracker) UndoCompletion(habitID int64, day time.Time, amount int) (models.Completion, error) {
	if amount <= 0 {
		return models.Completion{}, validationErrorf("undo amount must be positive")
	}

	d := period.DateOf(day)

	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Completion{}, validationErrorf("habit %d not found", habitID)
		}
		return models.Completion{}, fmt.Errorf("failed to load habit %d: %w", habitID, err)
	}

	completion, err := t.store.DecrementCompletion(habitID, dayString(d), amount)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Completion{}, validationErrorf("no completion recorded for %s", dayString(d))
		}
		return models.Completion{}, fmt.Errorf("failed to undo completion: %w", err)
	}

	t.cache.InvalidateHabit(habitID)

	logger.Info("undid completion", "habit", habit.Name, "day", completion.Day, "count", completion.Count)
	return completion, nil
}

// PeriodCompletions returns the stored completions for the habit's period
// containing the reference date.
func (t *Tracker) PeriodCompletions(habit models.Habit, reference time.Time) ([]models.Completion, error) {
	p, err := period.Bounds(habit.GoalType, reference)
	if err != nil {
		return nil, err
	}
	return t.store.GetCompletionsForHabit(habit.ID, dayString(p.Start), dayString(p.End))
}
