package period

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
)

// Period is the inclusive calendar date range for one instance of a goal
// type, anchored to a reference date. Start and End are normalized to
// midnight in the reference date's location.
type Period struct {
	Start time.Time
	End   time.Time
}

// InvalidGoalTypeError indicates a goal type string that is not one of
// daily, weekly, or monthly reached the period calculator. This is a
// programming error upstream, not user input: goal types are validated
// against the enum before they are stored.
type InvalidGoalTypeError struct {
	GoalType string
}

func (e *InvalidGoalTypeError) Error() string {
	return fmt.Sprintf("invalid goal type %q: must be 'daily', 'weekly', or 'monthly'", e.GoalType)
}

// DateOf strips the time-of-day component, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Bounds returns the inclusive [start, end] range of the period containing
// reference for the given goal type.
//
// Daily periods are the single reference day. Weekly periods run Monday
// through Sunday. Monthly periods run from the 1st through the last day of
// the reference date's month, honoring month length and leap years.
func Bounds(goal models.GoalType, reference time.Time) (Period, error) {
	ref := DateOf(reference)

	switch goal {
	case models.GoalDaily:
		return Period{Start: ref, End: ref}, nil

	case models.GoalWeekly:
		// Go weekdays are Sunday-based; shift so Monday is day 0.
		daysSinceMonday := (int(ref.Weekday()) + 6) % 7
		start := ref.AddDate(0, 0, -daysSinceMonday)
		return Period{Start: start, End: start.AddDate(0, 0, 6)}, nil

	case models.GoalMonthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		// First of next month, back one day. AddDate from day 1 never
		// overflows into the month after next.
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return Period{Start: start, End: end}, nil
	}

	return Period{}, &InvalidGoalTypeError{GoalType: string(goal)}
}

// Contains reports whether d falls within the period, inclusive on both ends.
func (p Period) Contains(d time.Time) bool {
	day := DateOf(d)
	return !day.Before(p.Start) && !day.After(p.End)
}

// Days returns the number of calendar days the period spans.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// DaysBetween counts the calendar days from a to b, exclusive of b.
// Both ends are re-anchored to UTC midnight first: in a location with
// daylight saving, subtracting local midnights across a spring-forward
// transition comes up an hour short and truncates the count.
func DaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// DaysIn returns how many days one period of the goal type spans, relative
// to the reference date: 1 for daily, 7 for weekly, and the length of the
// reference date's month for monthly.
func DaysIn(goal models.GoalType, reference time.Time) (int, error) {
	p, err := Bounds(goal, reference)
	if err != nil {
		return 0, err
	}
	return p.Days(), nil
}

// PrevStart returns the start date of the period immediately before the one
// containing reference.
func PrevStart(goal models.GoalType, reference time.Time) (time.Time, error) {
	ref := DateOf(reference)

	switch goal {
	case models.GoalDaily:
		return ref.AddDate(0, 0, -1), nil

	case models.GoalWeekly:
		daysSinceMonday := (int(ref.Weekday()) + 6) % 7
		monday := ref.AddDate(0, 0, -daysSinceMonday)
		return monday.AddDate(0, 0, -7), nil

	case models.GoalMonthly:
		firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return firstOfMonth.AddDate(0, -1, 0), nil
	}

	return time.Time{}, &InvalidGoalTypeError{GoalType: string(goal)}
}

// Label generates a human-readable label for the period containing
// reference. Labels are plain English; translation is a caller concern.
//
//	daily:   "Monday, Dec 08"
//	weekly:  "Week of Dec 02 - Dec 08"
//	monthly: "December 2024"
func Label(goal models.GoalType, reference time.Time) (string, error) {
	ref := DateOf(reference)

	switch goal {
	case models.GoalDaily:
		return ref.Format("Monday, Jan 02"), nil

	case models.GoalWeekly:
		p, err := Bounds(models.GoalWeekly, ref)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Week of %s - %s", p.Start.Format("Jan 02"), p.End.Format("Jan 02")), nil

	case models.GoalMonthly:
		return ref.Format("January 2006"), nil
	}

	return "", &InvalidGoalTypeError{GoalType: string(goal)}
}
