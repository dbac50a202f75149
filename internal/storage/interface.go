package storage

import (
	"errors"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
)

// ErrNotFound is returned when a requested habit or completion does not
// exist. Stores wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

// Settings are the user-tunable application settings, persisted as
// key/value rows.
type Settings struct {
	Locale      string `json:"locale"`
	Theme       string `json:"theme"`
	HeatmapView string `json:"heatmap_view"` // week, month, or year
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Habits
	AddHabit(models.Habit) (int64, error)
	GetHabit(id int64) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id int64) error
	UnarchiveHabit(id int64) error
	DeleteHabit(id int64) error // hard delete, cascades to completions

	// Completions. At most one row exists per (habit, day); increment
	// upserts, decrement floors at 0 and fails with ErrNotFound when no
	// row exists.
	IncrementCompletion(habitID int64, day string, amount int) (models.Completion, error)
	DecrementCompletion(habitID int64, day string, amount int) (models.Completion, error)
	GetCompletion(habitID int64, day string) (models.Completion, error)
	GetCompletionsForHabit(habitID int64, startDay, endDay string) ([]models.Completion, error)
	GetAllCompletions() ([]models.Completion, error)

	// Bulk
	ReplaceAll(habits []models.Habit, completions []models.Completion, settings Settings) error
	DeleteAllData() error

	// Utils
	GetConfigPath() string
}

// DefaultSettings returns the settings seeded into a fresh store.
func DefaultSettings() Settings {
	return Settings{
		Locale:      constants.DefaultLocale,
		Theme:       constants.DefaultTheme,
		HeatmapView: constants.DefaultHeatmapView,
	}
}
