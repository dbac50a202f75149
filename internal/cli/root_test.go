package cli

import (
	"testing"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
)

func TestParseDay(t *testing.T) {
	today := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "2026-08-20", false},
		{"today", "2026-08-20", false},
		{"Today", "2026-08-20", false},
		{"yesterday", "2026-08-19", false},
		{"2026-08-01", "2026-08-01", false},
		{"08/01/2026", "", true},
		{"tomorrow", "", true},
		{"not-a-date", "", true},
	}

	for _, tt := range tests {
		got, err := parseDay(tt.input, today)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got.Format("2006-01-02") != tt.want {
			t.Errorf("parseDay(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestParseGoalType(t *testing.T) {
	tests := []struct {
		input   string
		want    models.GoalType
		wantErr bool
	}{
		{"daily", models.GoalDaily, false},
		{"WEEKLY", models.GoalWeekly, false},
		{" monthly ", models.GoalMonthly, false},
		{"yearly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := parseGoalType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseGoalType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseGoalType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatGoal(t *testing.T) {
	tests := []struct {
		habit models.Habit
		want  string
	}{
		{models.Habit{GoalType: models.GoalDaily, GoalCount: 1}, "1x per day"},
		{models.Habit{GoalType: models.GoalWeekly, GoalCount: 3}, "3x per week"},
		{models.Habit{GoalType: models.GoalMonthly, GoalCount: 10}, "10x per month"},
	}

	for _, tt := range tests {
		if got := formatGoal(tt.habit); got != tt.want {
			t.Errorf("formatGoal(%+v) = %q, want %q", tt.habit, got, tt.want)
		}
	}
}

func TestFormatStreak(t *testing.T) {
	tests := []struct {
		streak int
		goal   models.GoalType
		want   string
	}{
		{0, models.GoalDaily, "0 days"},
		{1, models.GoalDaily, "1 day"},
		{5, models.GoalWeekly, "5 weeks"},
		{2, models.GoalMonthly, "2 months"},
	}

	for _, tt := range tests {
		if got := formatStreak(tt.streak, tt.goal); got != tt.want {
			t.Errorf("formatStreak(%d, %s) = %q, want %q", tt.streak, tt.goal, got, tt.want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(0, 10); got != "[░░░░░░░░░░]" {
		t.Errorf("renderBar(0) = %q", got)
	}
	if got := renderBar(100, 10); got != "[██████████]" {
		t.Errorf("renderBar(100) = %q", got)
	}
	if got := renderBar(50, 10); got != "[█████░░░░░]" {
		t.Errorf("renderBar(50) = %q", got)
	}
}
