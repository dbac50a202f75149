package models

import "time"

// Completion records how many times a habit was done on one calendar day.
// At most one row exists per (habit, day); repeat logging increments Count.
type Completion struct {
	ID          int64     `json:"id"`
	HabitID     int64     `json:"habit_id"`
	Day         string    `json:"day"` // YYYY-MM-DD format
	Count       int       `json:"count"`
	CompletedAt time.Time `json:"completed_at"` // last write
}

// Progress is a snapshot of a habit's completion state for one period.
// It is derived on demand and never persisted.
type Progress struct {
	CurrentCount int       `json:"current_count"`
	GoalCount    int       `json:"goal_count"`
	Percentage   float64   `json:"percentage"` // 0-100, one decimal
	GoalMet      bool      `json:"goal_met"`
	Remaining    int       `json:"remaining"`
	Date         time.Time `json:"date"` // reference date used
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
}
