package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/period"
)

// Store is the slice of the storage contract the tracker needs. The full
// storage.Provider satisfies it.
type Store interface {
	GetHabit(id int64) (models.Habit, error)
	IncrementCompletion(habitID int64, day string, amount int) (models.Completion, error)
	DecrementCompletion(habitID int64, day string, amount int) (models.Completion, error)
	GetCompletionsForHabit(habitID int64, startDay, endDay string) ([]models.Completion, error)
}

// ValidationError is a user-facing precondition failure: the operation was
// refused and nothing was written. The CLI and TUI print Reason directly.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Tracker computes progress, streaks, and heatmap data for habits, and
// owns the heatmap cache so completion writes can invalidate it.
type Tracker struct {
	store Store
	cache *Cache
	now   func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New creates a tracker backed by the given store.
func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		cache: NewCache(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns the current date with the time-of-day stripped.
func (t *Tracker) Today() time.Time {
	return period.DateOf(t.now())
}

// ResetCache drops all cached heatmap data. Bulk operations (import,
// delete-all) call this instead of invalidating habit by habit.
func (t *Tracker) ResetCache() {
	t.cache.Clear()
}

func dayString(d time.Time) string {
	return d.Format(constants.DateFormat)
}

func sumCounts(completions []models.Completion) int {
	total := 0
	for _, c := range completions {
		total += c.Count
	}
	return total
}
