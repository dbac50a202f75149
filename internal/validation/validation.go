// Package validation checks habit fields and imported datasets before they
// reach storage. Conflicts are collected into a report rather than failing
// on the first problem so the user sees everything wrong at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
)

type ConflictType string

const (
	ConflictEmptyName          ConflictType = "empty_name"
	ConflictNameTooLong        ConflictType = "name_too_long"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidColor       ConflictType = "invalid_color"
	ConflictInvalidGoalType    ConflictType = "invalid_goal_type"
	ConflictInvalidGoalCount   ConflictType = "invalid_goal_count"
	ConflictInvalidDay         ConflictType = "invalid_day"
	ConflictNegativeCount      ConflictType = "negative_count"
	ConflictOrphanCompletion   ConflictType = "orphan_completion"
)

type Conflict struct {
	Type    ConflictType
	Habit   string
	Message string
}

type Result struct {
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r *Result) add(t ConflictType, habit, format string, args ...any) {
	r.Conflicts = append(r.Conflicts, Conflict{
		Type:    t,
		Habit:   habit,
		Message: fmt.Sprintf(format, args...),
	})
}

// FormatReport renders all conflicts as a human-readable list.
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "no conflicts"
	}

	var b strings.Builder
	for _, c := range r.Conflicts {
		if c.Habit != "" {
			fmt.Fprintf(&b, "  - [%s] %s: %s\n", c.Type, c.Habit, c.Message)
		} else {
			fmt.Fprintf(&b, "  - [%s] %s\n", c.Type, c.Message)
		}
	}
	return b.String()
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabit checks a single habit's fields.
func (v *Validator) ValidateHabit(habit models.Habit) *Result {
	result := &Result{}
	v.checkHabit(result, habit)
	return result
}

func (v *Validator) checkHabit(result *Result, habit models.Habit) {
	name := strings.TrimSpace(habit.Name)
	if len(name) < constants.MinHabitNameLength {
		result.add(ConflictEmptyName, habit.Name, "name must not be empty")
	} else if len(name) > constants.MaxHabitNameLength {
		result.add(ConflictNameTooLong, habit.Name, "name must be at most %d characters, got %d", constants.MaxHabitNameLength, len(name))
	}

	if habit.Color != "" && !colorPattern.MatchString(habit.Color) {
		result.add(ConflictInvalidColor, habit.Name, "color %q is not a #RRGGBB hex value", habit.Color)
	}

	if !habit.GoalType.Valid() {
		result.add(ConflictInvalidGoalType, habit.Name, "goal type %q is not one of daily, weekly, monthly", habit.GoalType)
	}

	if habit.GoalCount < constants.MinGoalCount || habit.GoalCount > constants.MaxGoalCount {
		result.add(ConflictInvalidGoalCount, habit.Name, "goal count must be between %d and %d, got %d", constants.MinGoalCount, constants.MaxGoalCount, habit.GoalCount)
	}
}

// ValidateDataset checks a full habit/completion set, as read from an
// import archive, for internal consistency.
func (v *Validator) ValidateDataset(habits []models.Habit, completions []models.Completion) *Result {
	result := &Result{}

	seen := make(map[string]bool, len(habits))
	ids := make(map[int64]bool, len(habits))
	for _, h := range habits {
		v.checkHabit(result, h)

		lower := strings.ToLower(strings.TrimSpace(h.Name))
		if seen[lower] {
			result.add(ConflictDuplicateHabitName, h.Name, "habit name appears more than once")
		}
		seen[lower] = true
		ids[h.ID] = true
	}

	for _, c := range completions {
		if !ids[c.HabitID] {
			result.add(ConflictOrphanCompletion, "", "completion on %s references unknown habit %d", c.Day, c.HabitID)
		}
		if _, err := time.Parse(constants.DateFormat, c.Day); err != nil {
			result.add(ConflictInvalidDay, "", "completion day %q is not a valid YYYY-MM-DD date", c.Day)
		}
		if c.Count < 0 {
			result.add(ConflictNegativeCount, "", "completion on %s for habit %d has negative count %d", c.Day, c.HabitID, c.Count)
		}
	}

	return result
}
