package scoring

import (
	"sort"
	"time"

	"choir-attendance/internal/model"
)

// Snapshot is a read-only view of the member list and attendance history.
// Nil slices are valid and mean "not loaded yet".
type Snapshot struct {
	Members []model.Member          `json:"members"`
	Events  []model.AttendanceEvent `json:"events"`
}

// Member looks a member up by id.
func (s Snapshot) Member(id string) (model.Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return model.Member{}, false
}

// datedEvent is an event whose date parsed, with its records indexed by member.
type datedEvent struct {
	event  *model.AttendanceEvent
	date   time.Time
	points float64
	byID   map[string]int
}

func (d datedEvent) record(memberID string) (model.AttendanceRecord, bool) {
	i, ok := d.byID[memberID]
	if !ok {
		return model.AttendanceRecord{}, false
	}
	return d.event.Records[i], true
}

// eventsIn returns the events inside w in ascending date order. Events on
// the same day are taken in the order they were recorded, so the first
// excused mark of a day claims the monthly slot; equal creation times keep
// their snapshot order. With scoredOnly set, events whose
// category carries no points are dropped. Events with unreadable dates are
// reported and skipped.
func eventsIn(events []model.AttendanceEvent, w Window, scoredOnly bool, anomalies *[]Anomaly) []datedEvent {
	out := make([]datedEvent, 0, len(events))
	for i := range events {
		e := &events[i]
		points := PointValue(e.Category)
		if scoredOnly && points == 0 {
			continue
		}
		d, ok := ParseDate(e.Date)
		if !ok {
			if anomalies != nil {
				*anomalies = append(*anomalies, Anomaly{Kind: AnomalyBadDate, EventID: e.ID, Detail: e.Date})
			}
			continue
		}
		if !w.Contains(d) {
			continue
		}
		byID := make(map[string]int, len(e.Records))
		for j, r := range e.Records {
			if _, dup := byID[r.MemberID]; !dup {
				byID[r.MemberID] = j
			}
		}
		out = append(out, datedEvent{event: e, date: d, points: points, byID: byID})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].date.Equal(out[j].date) {
			return out[i].date.Before(out[j].date)
		}
		return out[i].event.CreatedAt.Before(out[j].event.CreatedAt)
	})
	return out
}
