package scoring

import (
	"sort"
	"strings"

	"choir-attendance/internal/model"
)

// Engine scores attendance under a Policy. It holds no other state and is
// safe to share.
type Engine struct {
	policy Policy
}

func NewEngine(p Policy) *Engine { return &Engine{policy: p.normalized()} }

func (e *Engine) Policy() Policy { return e.policy }

type CategoryScore struct {
	Category       model.Category `json:"category"`
	Count          int            `json:"count"`
	PointsEarned   float64        `json:"points_earned"`
	PointsPossible float64        `json:"points_possible"`
}

func (c CategoryScore) Percentage() float64 { return percentage(c.PointsEarned, c.PointsPossible) }

// ScoreResult is one member's standing over a window. ExcusedCount and
// ExcusedButPresentCount are the literal marks, before any downgrade.
type ScoreResult struct {
	MemberID               string                           `json:"member_id"`
	Window                 Window                           `json:"window"`
	PointsEarned           float64                          `json:"points_earned"`
	PointsPossible         float64                          `json:"points_possible"`
	Percentage             float64                          `json:"percentage"`
	Breakdown              map[model.Category]CategoryScore `json:"breakdown"`
	ExcusedCount           int                              `json:"excused_count"`
	ExcusedButPresentCount int                              `json:"excused_but_present_count"`
	Downgraded             int                              `json:"downgraded"`
	ExcuseAllowance        int                              `json:"excuse_allowance"`
	ExcuseBalance          int                              `json:"excuse_balance"`
	Anomalies              []Anomaly                        `json:"anomalies,omitempty"`
}

// Categories returns the breakdown ordered by points earned, highest first,
// ties by category name.
func (r ScoreResult) Categories() []CategoryScore {
	out := make([]CategoryScore, 0, len(r.Breakdown))
	for _, c := range r.Breakdown {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsEarned != out[j].PointsEarned {
			return out[i].PointsEarned > out[j].PointsEarned
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MemberScore scores memberID over w. A member id missing from the
// snapshot's member list scores zero and is reported as an anomaly.
func (e *Engine) MemberScore(snap Snapshot, memberID string, w Window) ScoreResult {
	var anomalies []Anomaly
	if _, ok := snap.Member(memberID); !ok {
		res := e.emptyScore(memberID, w)
		res.Anomalies = []Anomaly{{Kind: AnomalyMissingMember, MemberID: memberID}}
		return res
	}
	events := eventsIn(snap.Events, w, true, &anomalies)
	res := e.score(events, memberID, w, &anomalies)
	res.Anomalies = anomalies
	return res
}

func (e *Engine) emptyScore(memberID string, w Window) ScoreResult {
	allowance := e.allowance(w)
	return ScoreResult{
		MemberID:        memberID,
		Window:          w,
		Breakdown:       map[model.Category]CategoryScore{},
		ExcuseAllowance: allowance,
		ExcuseBalance:   allowance,
	}
}

func (e *Engine) allowance(w Window) int {
	if w.Monthly() {
		return e.policy.MonthlyExcuseCap
	}
	return e.policy.YearlyExcuseAllowance
}

// score walks events, which must be point-bearing and in ascending date order.
func (e *Engine) score(events []datedEvent, memberID string, w Window, anomalies *[]Anomaly) ScoreResult {
	res := e.emptyScore(memberID, w)
	tracker := NewExcuseTracker(e.policy.MonthlyExcuseCap)

	for _, ev := range events {
		rec, ok := ev.record(memberID)
		if !ok {
			continue
		}
		switch rec.Status {
		case model.StatusExcused:
			res.ExcusedCount++
		case model.StatusExcusedButPresent:
			res.ExcusedButPresentCount++
		}

		effective := tracker.Effective(ev.date, rec.Status)
		if effective != rec.Status {
			res.Downgraded++
		}
		mult := Multiplier(effective)
		switch {
		case !rec.Status.Valid():
			mult = 0
			*anomalies = append(*anomalies, Anomaly{Kind: AnomalyUnknownStatus, EventID: ev.event.ID, MemberID: memberID, Detail: string(rec.Status)})
		case rec.Status.NeedsReason() && strings.TrimSpace(rec.Reason) == "":
			mult = 0
			*anomalies = append(*anomalies, Anomaly{Kind: AnomalyMissingReason, EventID: ev.event.ID, MemberID: memberID, Detail: string(rec.Status)})
		}

		earned := ev.points * mult
		res.PointsEarned += earned
		res.PointsPossible += ev.points

		cs := res.Breakdown[ev.event.Category]
		cs.Category = ev.event.Category
		cs.Count++
		cs.PointsEarned += earned
		cs.PointsPossible += ev.points
		res.Breakdown[ev.event.Category] = cs
	}

	res.Percentage = percentage(res.PointsEarned, res.PointsPossible)
	res.ExcuseBalance = max(0, res.ExcuseAllowance-res.ExcusedCount)
	return res
}

func percentage(earned, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return earned / possible * 100
}
