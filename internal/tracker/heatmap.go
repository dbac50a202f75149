package tracker

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/logger"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/period"
)

// Transform converts a completion list into a dense day->count map covering
// every date in [start, end] inclusive. Days with no stored completion map
// to 0; heatmap rendering depends on a complete per-day series, never a
// sparse one.
func Transform(completions []models.Completion, start, end time.Time) map[string]int {
	counts := make(map[string]int, len(completions))
	for _, c := range completions {
		counts[c.Day] = c.Count
	}

	data := make(map[string]int)
	for d := period.DateOf(start); !d.After(period.DateOf(end)); d = d.AddDate(0, 0, 1) {
		day := d.Format(constants.DateFormat)
		data[day] = counts[day]
	}
	return data
}

// Heatmap returns per-day completion counts for a habit over [start, end].
// Results are memoized under (habit, view, reference date); pass
// useCache=false to bypass the cache entirely. The returned map is the
// caller's to mutate; the cache keeps its own copy.
func (t *Tracker) Heatmap(habitID int64, start, end time.Time, view string, reference time.Time, useCache bool) (map[string]int, error) {
	refDay := dayString(period.DateOf(reference))

	if useCache {
		if data := t.cache.Get(habitID, view, refDay); data != nil {
			logger.Debug("heatmap cache hit", "habit", habitID, "view", view, "reference", refDay)
			return data, nil
		}
	}

	completions, err := t.store.GetCompletionsForHabit(habitID, dayString(period.DateOf(start)), dayString(period.DateOf(end)))
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for habit %d: %w", habitID, err)
	}

	data := Transform(completions, start, end)

	if useCache {
		t.cache.Set(habitID, view, refDay, data)
	}
	return data, nil
}

// OverallPercentage computes how much of the maximum possible completion
// count was achieved across a date range, capped at 100 and rounded to one
// decimal. A zero goal count or degenerate range yields 0.
func OverallPercentage(data map[string]int, goalCount int, start, end time.Time) float64 {
	days := period.DaysBetween(start, end) + 1
	if goalCount <= 0 || days <= 0 {
		return 0
	}

	total := 0
	for _, count := range data {
		total += count
	}

	maxPossible := days * goalCount
	return math.Min(100, roundTenth(float64(total)/float64(maxPossible)*100))
}
