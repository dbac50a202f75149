package models

import "time"

// GoalType is the recurrence granularity for a habit's target.
type GoalType string

const (
	GoalDaily   GoalType = "daily"
	GoalWeekly  GoalType = "weekly"
	GoalMonthly GoalType = "monthly"
)

// Valid reports whether the goal type is one of the known values.
func (g GoalType) Valid() bool {
	switch g {
	case GoalDaily, GoalWeekly, GoalMonthly:
		return true
	}
	return false
}

// GoalTypes lists all valid goal types in display order.
func GoalTypes() []GoalType {
	return []GoalType{GoalDaily, GoalWeekly, GoalMonthly}
}

// Habit represents a recurring practice to track
type Habit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // #RRGGBB
	GoalType  GoalType  `json:"goal_type"`
	GoalCount int       `json:"goal_count"`
	CreatedAt time.Time `json:"created_at"`
	Archived  bool      `json:"archived"`
}
