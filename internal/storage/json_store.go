package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
)

type Store struct {
	Version     int                 `json:"version"`
	Settings    Settings            `json:"settings"`
	NextHabitID int64               `json:"next_habit_id"`
	NextCompID  int64               `json:"next_completion_id"`
	Habits      []models.Habit      `json:"habits"`
	Completions []models.Completion `json:"completions"`
}

// JSONStore persists everything in a single JSON file. Handy for
// inspection and tests; the sqlite store is the default.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:     1,
		Settings:    DefaultSettings(),
		NextHabitID: 1,
		NextCompID:  1,
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitforge init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.NextHabitID < 1 {
		s.store.NextHabitID = 1
	}
	if s.store.NextCompID < 1 {
		s.store.NextCompID = 1
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.store == nil {
		return Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddHabit(habit models.Habit) (int64, error) {
	if s.store == nil {
		return 0, fmt.Errorf("storage not loaded")
	}

	for _, h := range s.store.Habits {
		if strings.EqualFold(h.Name, habit.Name) {
			return 0, fmt.Errorf("habit with name %q already exists", habit.Name)
		}
	}

	habit.ID = s.store.NextHabitID
	s.store.NextHabitID++
	s.store.Habits = append(s.store.Habits, habit)

	if err := s.save(); err != nil {
		return 0, err
	}
	return habit.ID, nil
}

func (s *JSONStore) GetHabit(id int64) (models.Habit, error) {
	if s.store == nil {
		return models.Habit{}, fmt.Errorf("storage not loaded")
	}
	for _, h := range s.store.Habits {
		if h.ID == id {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit: %w", ErrNotFound)
}

func (s *JSONStore) GetHabitByName(name string) (models.Habit, error) {
	if s.store == nil {
		return models.Habit{}, fmt.Errorf("storage not loaded")
	}
	for _, h := range s.store.Habits {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit: %w", ErrNotFound)
}

func (s *JSONStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var habits []models.Habit
	for _, h := range s.store.Habits {
		if !includeArchived && h.Archived {
			continue
		}
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *JSONStore) UpdateHabit(habit models.Habit) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	for i, h := range s.store.Habits {
		if h.ID == habit.ID {
			// created_at is immutable
			habit.CreatedAt = h.CreatedAt
			s.store.Habits[i] = habit
			return s.save()
		}
	}
	return fmt.Errorf("habit: %w", ErrNotFound)
}

func (s *JSONStore) ArchiveHabit(id int64) error {
	return s.setArchived(id, true)
}

func (s *JSONStore) UnarchiveHabit(id int64) error {
	return s.setArchived(id, false)
}

func (s *JSONStore) setArchived(id int64, archived bool) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	for i := range s.store.Habits {
		if s.store.Habits[i].ID == id {
			s.store.Habits[i].Archived = archived
			return s.save()
		}
	}
	return fmt.Errorf("habit: %w", ErrNotFound)
}

func (s *JSONStore) DeleteHabit(id int64) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	found := false
	habits := s.store.Habits[:0]
	for _, h := range s.store.Habits {
		if h.ID == id {
			found = true
			continue
		}
		habits = append(habits, h)
	}
	if !found {
		return fmt.Errorf("habit: %w", ErrNotFound)
	}
	s.store.Habits = habits

	// Cascade to completions
	completions := s.store.Completions[:0]
	for _, c := range s.store.Completions {
		if c.HabitID != id {
			completions = append(completions, c)
		}
	}
	s.store.Completions = completions

	return s.save()
}

func (s *JSONStore) IncrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	if s.store == nil {
		return models.Completion{}, fmt.Errorf("storage not loaded")
	}

	now := time.Now().UTC()
	for i := range s.store.Completions {
		c := &s.store.Completions[i]
		if c.HabitID == habitID && c.Day == day {
			c.Count += amount
			c.CompletedAt = now
			if err := s.save(); err != nil {
				return models.Completion{}, err
			}
			return *c, nil
		}
	}

	completion := models.Completion{
		ID:          s.store.NextCompID,
		HabitID:     habitID,
		Day:         day,
		Count:       amount,
		CompletedAt: now,
	}
	s.store.NextCompID++
	s.store.Completions = append(s.store.Completions, completion)

	if err := s.save(); err != nil {
		return models.Completion{}, err
	}
	return completion, nil
}

func (s *JSONStore) DecrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	if s.store == nil {
		return models.Completion{}, fmt.Errorf("storage not loaded")
	}

	for i := range s.store.Completions {
		c := &s.store.Completions[i]
		if c.HabitID == habitID && c.Day == day {
			c.Count -= amount
			if c.Count < 0 {
				c.Count = 0
			}
			c.CompletedAt = time.Now().UTC()
			if err := s.save(); err != nil {
				return models.Completion{}, err
			}
			return *c, nil
		}
	}
	return models.Completion{}, fmt.Errorf("completion for habit %d on %s: %w", habitID, day, ErrNotFound)
}

func (s *JSONStore) GetCompletion(habitID int64, day string) (models.Completion, error) {
	if s.store == nil {
		return models.Completion{}, fmt.Errorf("storage not loaded")
	}
	for _, c := range s.store.Completions {
		if c.HabitID == habitID && c.Day == day {
			return c, nil
		}
	}
	return models.Completion{}, fmt.Errorf("completion: %w", ErrNotFound)
}

func (s *JSONStore) GetCompletionsForHabit(habitID int64, startDay, endDay string) ([]models.Completion, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var completions []models.Completion
	for _, c := range s.store.Completions {
		if c.HabitID == habitID && c.Day >= startDay && c.Day <= endDay {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Day < completions[j].Day
	})
	return completions, nil
}

func (s *JSONStore) GetAllCompletions() ([]models.Completion, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	completions := make([]models.Completion, len(s.store.Completions))
	copy(completions, s.store.Completions)
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].HabitID == completions[j].HabitID {
			return completions[i].Day < completions[j].Day
		}
		return completions[i].HabitID < completions[j].HabitID
	})
	return completions, nil
}

func (s *JSONStore) ReplaceAll(habits []models.Habit, completions []models.Completion, settings Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	nextHabit := int64(1)
	for _, h := range habits {
		if h.ID >= nextHabit {
			nextHabit = h.ID + 1
		}
	}
	nextComp := int64(1)
	for _, c := range completions {
		if c.ID >= nextComp {
			nextComp = c.ID + 1
		}
	}

	s.store.Habits = habits
	s.store.Completions = completions
	s.store.Settings = settings
	s.store.NextHabitID = nextHabit
	s.store.NextCompID = nextComp

	return s.save()
}

func (s *JSONStore) DeleteAllData() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Habits = nil
	s.store.Completions = nil
	s.store.NextHabitID = 1
	s.store.NextCompID = 1
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
