package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "habitforge.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addTestHabit(t *testing.T, store *SQLiteStore, name string) models.Habit {
	t.Helper()
	habit := models.Habit{
		Name:      name,
		Color:     "#2ECC71",
		GoalType:  models.GoalDaily,
		GoalCount: 1,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	id, err := store.AddHabit(habit)
	if err != nil {
		t.Fatalf("AddHabit(%q) error = %v", name, err)
	}
	habit.ID = id
	return habit
}

func TestSQLiteStoreInitSeedsDefaultSettings(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults %+v", settings, DefaultSettings())
	}
}

func TestSQLiteStoreSaveSettings(t *testing.T) {
	store := newTestStore(t)

	want := Settings{Locale: "de", Theme: "light", HeatmapView: "year"}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestSQLiteStoreAddAndGetHabit(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Meditate")

	got, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("GetHabit(%d) error = %v", habit.ID, err)
	}
	if got.Name != "Meditate" || got.GoalType != models.GoalDaily || got.GoalCount != 1 {
		t.Errorf("GetHabit() = %+v", got)
	}
	if !got.CreatedAt.Equal(habit.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, habit.CreatedAt)
	}
}

func TestSQLiteStoreGetHabitNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetHabit(42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetHabit(42) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreGetHabitByNameCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Read Books")

	got, err := store.GetHabitByName("read books")
	if err != nil {
		t.Fatalf("GetHabitByName(lowercase) error = %v", err)
	}
	if got.ID != habit.ID {
		t.Errorf("GetHabitByName() ID = %d, want %d", got.ID, habit.ID)
	}
}

func TestSQLiteStoreDuplicateNameRejected(t *testing.T) {
	store := newTestStore(t)
	addTestHabit(t, store, "Exercise")

	_, err := store.AddHabit(models.Habit{
		Name:      "EXERCISE",
		Color:     "#E74C3C",
		GoalType:  models.GoalWeekly,
		GoalCount: 3,
		CreatedAt: time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("AddHabit() with duplicate name (different case) succeeded, want error")
	}
}

func TestSQLiteStoreGetAllHabitsFiltersArchived(t *testing.T) {
	store := newTestStore(t)
	active := addTestHabit(t, store, "Active")
	archived := addTestHabit(t, store, "Archived")

	if err := store.ArchiveHabit(archived.ID); err != nil {
		t.Fatalf("ArchiveHabit() error = %v", err)
	}

	habits, err := store.GetAllHabits(false)
	if err != nil {
		t.Fatalf("GetAllHabits(false) error = %v", err)
	}
	if len(habits) != 1 || habits[0].ID != active.ID {
		t.Errorf("GetAllHabits(false) = %+v, want only habit %d", habits, active.ID)
	}

	all, err := store.GetAllHabits(true)
	if err != nil {
		t.Fatalf("GetAllHabits(true) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetAllHabits(true) returned %d habits, want 2", len(all))
	}
}

func TestSQLiteStoreUnarchiveHabit(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Journal")

	if err := store.ArchiveHabit(habit.ID); err != nil {
		t.Fatalf("ArchiveHabit() error = %v", err)
	}
	if err := store.UnarchiveHabit(habit.ID); err != nil {
		t.Fatalf("UnarchiveHabit() error = %v", err)
	}

	got, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Archived {
		t.Error("habit still archived after UnarchiveHabit()")
	}
}

func TestSQLiteStoreUpdateHabit(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Stretch")

	habit.Name = "Morning Stretch"
	habit.GoalType = models.GoalWeekly
	habit.GoalCount = 5
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}

	got, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Name != "Morning Stretch" || got.GoalType != models.GoalWeekly || got.GoalCount != 5 {
		t.Errorf("GetHabit() after update = %+v", got)
	}
}

func TestSQLiteStoreIncrementCompletionUpserts(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Pushups")

	first, err := store.IncrementCompletion(habit.ID, "2026-08-20", 2)
	if err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}
	if first.Count != 2 {
		t.Errorf("first increment Count = %d, want 2", first.Count)
	}

	second, err := store.IncrementCompletion(habit.ID, "2026-08-20", 3)
	if err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}
	if second.Count != 5 {
		t.Errorf("second increment Count = %d, want 5", second.Count)
	}
	if second.ID != first.ID {
		t.Errorf("increment created a new row, ID %d -> %d", first.ID, second.ID)
	}
}

func TestSQLiteStoreDecrementCompletionFloorsAtZero(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Water")

	if _, err := store.IncrementCompletion(habit.ID, "2026-08-20", 2); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}

	got, err := store.DecrementCompletion(habit.ID, "2026-08-20", 5)
	if err != nil {
		t.Fatalf("DecrementCompletion() error = %v", err)
	}
	if got.Count != 0 {
		t.Errorf("Count after over-decrement = %d, want 0", got.Count)
	}
}

func TestSQLiteStoreDecrementCompletionMissingRow(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Floss")

	_, err := store.DecrementCompletion(habit.ID, "2026-08-20", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DecrementCompletion() on missing row error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreDeleteHabitCascades(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Run")

	if _, err := store.IncrementCompletion(habit.ID, "2026-08-19", 1); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}
	if _, err := store.IncrementCompletion(habit.ID, "2026-08-20", 1); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}

	if err := store.DeleteHabit(habit.ID); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}

	completions, err := store.GetAllCompletions()
	if err != nil {
		t.Fatalf("GetAllCompletions() error = %v", err)
	}
	if len(completions) != 0 {
		t.Errorf("completions survived habit delete: %+v", completions)
	}
}

func TestSQLiteStoreGetCompletionsForHabitRange(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Walk")

	for _, day := range []string{"2026-08-01", "2026-08-15", "2026-08-31", "2026-09-01"} {
		if _, err := store.IncrementCompletion(habit.ID, day, 1); err != nil {
			t.Fatalf("IncrementCompletion(%s) error = %v", day, err)
		}
	}

	completions, err := store.GetCompletionsForHabit(habit.ID, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("GetCompletionsForHabit() error = %v", err)
	}
	if len(completions) != 3 {
		t.Fatalf("got %d completions in range, want 3", len(completions))
	}
	for i := 1; i < len(completions); i++ {
		if completions[i].Day < completions[i-1].Day {
			t.Errorf("completions not sorted by day: %s after %s", completions[i].Day, completions[i-1].Day)
		}
	}
}

func TestSQLiteStoreReplaceAll(t *testing.T) {
	store := newTestStore(t)
	addTestHabit(t, store, "Old Habit")

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	habits := []models.Habit{
		{ID: 10, Name: "Imported", Color: "#3498DB", GoalType: models.GoalWeekly, GoalCount: 3, CreatedAt: created},
	}
	completions := []models.Completion{
		{HabitID: 10, Day: "2026-08-18", Count: 2, CompletedAt: created},
	}
	settings := Settings{Locale: "fr", Theme: "light", HeatmapView: "week"}

	if err := store.ReplaceAll(habits, completions, settings); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	gotHabits, err := store.GetAllHabits(true)
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(gotHabits) != 1 || gotHabits[0].ID != 10 || gotHabits[0].Name != "Imported" {
		t.Errorf("GetAllHabits() after ReplaceAll = %+v", gotHabits)
	}

	gotCompletions, err := store.GetAllCompletions()
	if err != nil {
		t.Fatalf("GetAllCompletions() error = %v", err)
	}
	if len(gotCompletions) != 1 || gotCompletions[0].HabitID != 10 || gotCompletions[0].Count != 2 {
		t.Errorf("GetAllCompletions() after ReplaceAll = %+v", gotCompletions)
	}

	gotSettings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if gotSettings != settings {
		t.Errorf("GetSettings() after ReplaceAll = %+v, want %+v", gotSettings, settings)
	}
}

func TestSQLiteStoreDeleteAllData(t *testing.T) {
	store := newTestStore(t)
	habit := addTestHabit(t, store, "Doomed")
	if _, err := store.IncrementCompletion(habit.ID, "2026-08-20", 1); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}

	if err := store.DeleteAllData(); err != nil {
		t.Fatalf("DeleteAllData() error = %v", err)
	}

	habits, err := store.GetAllHabits(true)
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("habits survived DeleteAllData: %+v", habits)
	}

	// Settings are preserved
	if _, err := store.GetSettings(); err != nil {
		t.Errorf("GetSettings() after DeleteAllData error = %v", err)
	}
}

func TestSQLiteStoreLoadRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on uninitialized store succeeded, want error")
	}
}
