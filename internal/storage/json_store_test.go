package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store := NewJSONStore(filepath.Join(t.TempDir(), "habitforge.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return store
}

func TestJSONStoreInitRefusesExistingFile(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.Init(); err == nil {
		t.Error("second Init() succeeded, want error")
	}
}

func TestJSONStorePersistsAcrossLoads(t *testing.T) {
	store := newTestJSONStore(t)

	id, err := store.AddHabit(models.Habit{
		Name: "Meditate", Color: "#81C784", GoalType: models.GoalDaily, GoalCount: 1,
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if _, err := store.IncrementCompletion(id, "2026-08-20", 2); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}

	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	habit, err := reopened.GetHabit(id)
	if err != nil {
		t.Fatalf("GetHabit() after reload error = %v", err)
	}
	if habit.Name != "Meditate" {
		t.Errorf("reloaded habit = %+v", habit)
	}

	completion, err := reopened.GetCompletion(id, "2026-08-20")
	if err != nil {
		t.Fatalf("GetCompletion() after reload error = %v", err)
	}
	if completion.Count != 2 {
		t.Errorf("reloaded completion count = %d, want 2", completion.Count)
	}
}

func TestJSONStoreDuplicateNameRejected(t *testing.T) {
	store := newTestJSONStore(t)

	habit := models.Habit{
		Name: "Exercise", Color: "#81C784", GoalType: models.GoalDaily, GoalCount: 1,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	habit.Name = "exercise"
	if _, err := store.AddHabit(habit); err == nil {
		t.Error("AddHabit() with case-variant duplicate succeeded, want error")
	}
}

func TestJSONStoreDecrementSemantics(t *testing.T) {
	store := newTestJSONStore(t)
	id, err := store.AddHabit(models.Habit{
		Name: "Water", Color: "#64B5F6", GoalType: models.GoalDaily, GoalCount: 8,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if _, err := store.DecrementCompletion(id, "2026-08-20", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("DecrementCompletion() on missing row error = %v, want ErrNotFound", err)
	}

	if _, err := store.IncrementCompletion(id, "2026-08-20", 3); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}
	got, err := store.DecrementCompletion(id, "2026-08-20", 10)
	if err != nil {
		t.Fatalf("DecrementCompletion() error = %v", err)
	}
	if got.Count != 0 {
		t.Errorf("Count after over-decrement = %d, want 0", got.Count)
	}
}

func TestJSONStoreDeleteHabitCascades(t *testing.T) {
	store := newTestJSONStore(t)
	id, err := store.AddHabit(models.Habit{
		Name: "Run", Color: "#E57373", GoalType: models.GoalDaily, GoalCount: 1,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if _, err := store.IncrementCompletion(id, "2026-08-20", 1); err != nil {
		t.Fatalf("IncrementCompletion() error = %v", err)
	}

	if err := store.DeleteHabit(id); err != nil {
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
