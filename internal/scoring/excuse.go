package scoring

import (
	"time"

	"choir-attendance/internal/model"
)

// ExcuseTracker applies the monthly excuse allowance to one member's marks.
// Marks must be fed in ascending date order: the mark that exceeds the cap
// is decided by encounter order.
type ExcuseTracker struct {
	cap    int
	counts map[string]int
}

func NewExcuseTracker(monthlyCap int) *ExcuseTracker {
	return &ExcuseTracker{cap: monthlyCap, counts: make(map[string]int)}
}

// Effective returns the status used for scoring a mark made on date. Only
// plain Excused marks count toward the allowance; past the cap they score
// as Absent. The stored status is never changed.
func (t *ExcuseTracker) Effective(date time.Time, s model.Status) model.Status {
	if s != model.StatusExcused {
		return s
	}
	key := monthKey(date)
	t.counts[key]++
	if t.counts[key] > t.cap {
		return model.StatusAbsent
	}
	return s
}

// Used is the number of Excused marks seen so far in date's month.
func (t *ExcuseTracker) Used(date time.Time) int { return t.counts[monthKey(date)] }

// Mark is one dated status for a single member.
type Mark struct {
	Date   time.Time
	Status model.Status
}

// EffectiveStatuses runs a tracker over marks, which must already be in
// ascending date order, and returns the parallel effective statuses.
func EffectiveStatuses(marks []Mark, monthlyCap int) []model.Status {
	t := NewExcuseTracker(monthlyCap)
	out := make([]model.Status, len(marks))
	for i, m := range marks {
		out[i] = t.Effective(m.Date, m.Status)
	}
	return out
}
