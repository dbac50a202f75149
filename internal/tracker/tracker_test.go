package tracker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/storage"
)

// fakeStore is an in-memory Store for tracker tests.
type fakeStore struct {
	habits      map[int64]models.Habit
	completions map[string]models.Completion // keyed habitID|day
	nextID      int64
	failAll     bool
	queryCount  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		habits:      make(map[int64]models.Habit),
		completions: make(map[string]models.Completion),
		nextID:      1,
	}
}

func (f *fakeStore) addHabit(h models.Habit) models.Habit {
	if h.ID == 0 {
		h.ID = int64(len(f.habits) + 1)
	}
	f.habits[h.ID] = h
	return h
}

func (f *fakeStore) key(habitID int64, day string) string {
	return fmt.Sprintf("%d|%s", habitID, day)
}

func (f *fakeStore) GetHabit(id int64) (models.Habit, error) {
	if f.failAll {
		return models.Habit{}, errors.New("store down")
	}
	h, ok := f.habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit: %w", storage.ErrNotFound)
	}
	return h, nil
}

func (f *fakeStore) IncrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	if f.failAll {
		return models.Completion{}, errors.New("store down")
	}
	k := f.key(habitID, day)
	c, ok := f.completions[k]
	if !ok {
		c = models.Completion{ID: f.nextID, HabitID: habitID, Day: day}
		f.nextID++
	}
	c.Count += amount
	c.CompletedAt = time.Now().UTC()
	f.completions[k] = c
	return c, nil
}

func (f *fakeStore) DecrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	if f.failAll {
		return models.Completion{}, errors.New("store down")
	}
	k := f.key(habitID, day)
	c, ok := f.completions[k]
	if !ok {
		return models.Completion{}, fmt.Errorf("completion: %w", storage.ErrNotFound)
	}
	c.Count -= amount
	if c.Count < 0 {
		c.Count = 0
	}
	f.completions[k] = c
	return c, nil
}

func (f *fakeStore) GetCompletionsForHabit(habitID int64, startDay, endDay string) ([]models.Completion, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	f.queryCount++
	var out []models.Completion
	for _, c := range f.completions {
		if c.HabitID == habitID && c.Day >= startDay && c.Day <= endDay {
			out = append(out, c)
		}
	}
	return out, nil
}

// fixedClock pins "today" to 2026-08-20, a Thursday.
var testToday = time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

func newTestTracker(store Store) *Tracker {
	return New(store, WithClock(func() time.Time { return testToday }))
}

func dailyHabit(goalCount int) models.Habit {
	return models.Habit{
		ID:        1,
		Name:      "Meditate",
		Color:     "#2ECC71",
		GoalType:  models.GoalDaily,
		GoalCount: goalCount,
		CreatedAt: testToday.AddDate(0, -1, 0),
	}
}

func TestLogCompletion(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(2))
	tr := newTestTracker(store)

	c, err := tr.LogCompletion(habit.ID, testToday, 1)
	if err != nil {
		t.Fatalf("LogCompletion() error = %v", err)
	}
	if c.Count != 1 || c.Day != "2026-08-20" {
		t.Errorf("LogCompletion() = %+v", c)
	}

	c, err = tr.LogCompletion(habit.ID, testToday, 2)
	if err != nil {
		t.Fatalf("second LogCompletion() error = %v", err)
	}
	if c.Count != 3 {
		t.Errorf("accumulated Count = %d, want 3", c.Count)
	}
}

func TestLogCompletionRejectsFutureDate(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(1))
	tr := newTestTracker(store)

	_, err := tr.LogCompletion(habit.ID, testToday.AddDate(0, 0, 1), 1)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("LogCompletion(tomorrow) error = %v, want ValidationError", err)
	}
	if len(store.completions) != 0 {
		t.Error("rejected log still wrote a completion")
	}
}

func TestLogCompletionAllowsLaterToday(t *testing.T) {
	// A timestamp later today is still "today" once the time is stripped.
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(1))
	tr := newTestTracker(store)

	laterToday := time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC)
	if _, err := tr.LogCompletion(habit.ID, laterToday, 1); err != nil {
		t.Errorf("LogCompletion(later today) error = %v", err)
	}
}

func TestLogCompletionRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(1))
	tr := newTestTracker(store)

	for _, amount := range []int{0, -1} {
		_, err := tr.LogCompletion(habit.ID, testToday, amount)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("LogCompletion(amount=%d) error = %v, want ValidationError", amount, err)
		}
	}
}

func TestLogCompletionRejectsArchivedHabit(t *testing.T) {
	store := newFakeStore()
	habit := dailyHabit(1)
	habit.Archived = true
	habit = store.addHabit(habit)
	tr := newTestTracker(store)

	_, err := tr.LogCompletion(habit.ID, testToday, 1)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("LogCompletion(archived) error = %v, want ValidationError", err)
	}
}

func TestLogCompletionUnknownHabit(t *testing.T) {
	store := newFakeStore()
	tr := newTestTracker(store)

	_, err := tr.LogCompletion(99, testToday, 1)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("LogCompletion(unknown habit) error = %v, want ValidationError", err)
	}
}

func TestUndoCompletionFloorsAtZero(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(1))
	tr := newTestTracker(store)

	if _, err := tr.LogCompletion(habit.ID, testToday, 2); err != nil {
		t.Fatalf("LogCompletion() error = %v", err)
	}

	c, err := tr.UndoCompletion(habit.ID, testToday, 5)
	if err != nil {
		t.Fatalf("UndoCompletion() error = %v", err)
	}
	if c.Count != 0 {
		t.Errorf("Count after over-undo = %d, want 0", c.Count)
	}
}

func TestUndoCompletionMissingRow(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(1))
	tr := newTestTracker(store)

	_, err := tr.UndoCompletion(habit.ID, testToday, 1)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("UndoCompletion(no row) error = %v, want ValidationError", err)
	}
}

func TestUndoCompletionAllowedOnArchivedHabit(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(1))
	tr := newTestTracker(store)

	if _, err := tr.LogCompletion(habit.ID, testToday, 1); err != nil {
		t.Fatalf("LogCompletion() error = %v", err)
	}

	archived := store.habits[habit.ID]
	archived.Archived = true
	store.habits[habit.ID] = archived

	if _, err := tr.UndoCompletion(habit.ID, testToday, 1); err != nil {
		t.Errorf("UndoCompletion(archived habit) error = %v, want success", err)
	}
}

func TestProgressDaily(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(3))
	tr := newTestTracker(store)

	if _, err := tr.LogCompletion(habit.ID, testToday, 2); err != nil {
		t.Fatalf("LogCompletion() error = %v", err)
	}

	p, err := tr.Progress(store.habits[habit.ID], testToday)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if p.CurrentCount != 2 || p.GoalCount != 3 {
		t.Errorf("Progress counts = %d/%d, want 2/3", p.CurrentCount, p.GoalCount)
	}
	if p.Percentage != 66.7 {
		t.Errorf("Percentage = %v, want 66.7", p.Percentage)
	}
	if p.GoalMet {
		t.Error("GoalMet = true, want false")
	}
	if p.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1", p.Remaining)
	}
}

func TestProgressOverCompletionClamps(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(2))
	tr := newTestTracker(store)

	if _, err := tr.LogCompletion(habit.ID, testToday, 7); err != nil {
		t.Fatalf("LogCompletion() error = %v", err)
	}

	p, err := tr.Progress(store.habits[habit.ID], testToday)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if p.Percentage != 100 {
		t.Errorf("Percentage = %v, want capped 100", p.Percentage)
	}
	if !p.GoalMet {
		t.Error("GoalMet = false, want true")
	}
	if p.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", p.Remaining)
	}
}

func TestProgressWeeklySumsWholePeriod(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(models.Habit{
		ID:        1,
		Name:      "Exercise",
		GoalType:  models.GoalWeekly,
		GoalCount: 3,
		CreatedAt: testToday.AddDate(0, -1, 0),
	})
	tr := newTestTracker(store)

	// 2026-08-20 is a Thursday; the week runs Mon 17th through Sun 23rd.
	for _, day := range []time.Time{
		time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 19, 8, 0, 0, 0, time.UTC),
	} {
		if _, err := tr.LogCompletion(habit.ID, day, 1); err != nil {
			t.Fatalf("LogCompletion(%v) error = %v", day, err)
		}
	}

	p, err := tr.Progress(store.habits[habit.ID], testToday)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if p.CurrentCount != 2 {
		t.Errorf("CurrentCount = %d, want 2", p.CurrentCount)
	}
	if got := p.PeriodStart.Format("2006-01-02"); got != "2026-08-17" {
		t.Errorf("PeriodStart = %s, want 2026-08-17", got)
	}
	if got := p.PeriodEnd.Format("2006-01-02"); got != "2026-08-23" {
		t.Errorf("PeriodEnd = %s, want 2026-08-23", got)
	}
}

func TestProgressZeroGoalCount(t *testing.T) {
	store := newFakeStore()
	habit := store.addHabit(dailyHabit(0))
	tr := newTestTracker(store)

	p, err := tr.Progress(store.habits[habit.ID], testToday)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if p.Percentage != 0 {
		t.Errorf("Percentage with zero goal = %v, want 0", p.Percentage)
	}
}
