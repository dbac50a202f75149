package period

import (
	"time"

	"github.com/julianstephens/habitforge/internal/models"
)

// Iterator walks periods backward in time, starting with the period
// containing the from date. It is finite: at most max periods are produced
// regardless of how far back the caller keeps asking.
type Iterator struct {
	goal      models.GoalType
	cursor    time.Time
	remaining int
}

// Backward returns an iterator over periods going back from the period
// containing from. max bounds the number of periods produced.
func Backward(goal models.GoalType, from time.Time, max int) (*Iterator, error) {
	if !goal.Valid() {
		return nil, &InvalidGoalTypeError{GoalType: string(goal)}
	}
	return &Iterator{
		goal:      goal,
		cursor:    DateOf(from),
		remaining: max,
	}, nil
}

// Next returns the next period going backward. The second return value is
// false once the iteration cap has been reached.
func (it *Iterator) Next() (Period, bool) {
	if it.remaining <= 0 {
		return Period{}, false
	}
	it.remaining--

	// goal was validated in Backward, so neither call can fail
	p, _ := Bounds(it.goal, it.cursor)
	it.cursor, _ = PrevStart(it.goal, it.cursor)
	return p, true
}
