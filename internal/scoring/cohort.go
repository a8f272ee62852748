package scoring

import (
	"sort"

	"choir-attendance/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Standing is one member's line in a cohort ranking.
type Standing struct {
	MemberID       string       `json:"member_id"`
	Name           string       `json:"name"`
	Gender         model.Gender `json:"gender"`
	PointsEarned   float64      `json:"points_earned"`
	PointsPossible float64      `json:"points_possible"`
	Percentage     float64      `json:"percentage"`
}

// CohortResult summarizes every member over a window.
//
// AveragePercentage is the plain mean of member percentages, while the
// gender averages are point weighted: sum(earned) / sum(possible).
type CohortResult struct {
	Window                 Window     `json:"window"`
	TotalMembers           int        `json:"total_members"`
	TotalEvents            int        `json:"total_events"`
	AveragePercentage      float64    `json:"average_percentage"`
	MenAveragePercentage   float64    `json:"men_average_percentage"`
	WomenAveragePercentage float64    `json:"women_average_percentage"`
	TopPerformers          []Standing `json:"top_performers"`
	NeedsAttention         []Standing `json:"needs_attention"`
	Ranked                 []Standing `json:"ranked"`
	Anomalies              []Anomaly  `json:"anomalies,omitempty"`
}

func (e *Engine) CohortStats(snap Snapshot, w Window) CohortResult {
	var anomalies []Anomaly
	events := eventsIn(snap.Events, w, true, &anomalies)

	known := make(map[string]struct{}, len(snap.Members))
	for _, m := range snap.Members {
		known[m.ID] = struct{}{}
	}
	res := CohortResult{Window: w, TotalMembers: len(snap.Members)}
	for _, ev := range events {
		if len(ev.event.Records) == 0 {
			continue
		}
		res.TotalEvents++
		for _, r := range ev.event.Records {
			if _, ok := known[r.MemberID]; !ok {
				anomalies = append(anomalies, Anomaly{Kind: AnomalyMissingMember, EventID: ev.event.ID, MemberID: r.MemberID, Detail: r.MemberName})
			}
		}
	}

	var (
		sumPct           float64
		menEarned, menOf float64
		womEarned, womOf float64
	)
	ranked := make([]Standing, 0, len(snap.Members))
	for _, m := range snap.Members {
		s := e.score(events, m.ID, w, &anomalies)
		ranked = append(ranked, Standing{
			MemberID:       m.ID,
			Name:           m.Name,
			Gender:         m.Gender,
			PointsEarned:   s.PointsEarned,
			PointsPossible: s.PointsPossible,
			Percentage:     s.Percentage,
		})
		sumPct += s.Percentage
		switch m.Gender {
		case model.GenderMale:
			menEarned += s.PointsEarned
			menOf += s.PointsPossible
		case model.GenderFemale:
			womEarned += s.PointsEarned
			womOf += s.PointsPossible
		}
	}
	if len(ranked) > 0 {
		res.AveragePercentage = sumPct / float64(len(ranked))
	}
	res.MenAveragePercentage = percentage(menEarned, menOf)
	res.WomenAveragePercentage = percentage(womEarned, womOf)

	SortStandings(ranked)
	res.Ranked = ranked
	res.TopPerformers = pick(ranked, e.policy.ListCap, func(s Standing) bool { return s.Percentage >= e.policy.TopThreshold })
	// Members with nothing to score sit at 0% and therefore land here.
	res.NeedsAttention = pick(ranked, e.policy.ListCap, func(s Standing) bool { return s.Percentage < e.policy.AttentionThreshold })
	res.Anomalies = anomalies
	return res
}

// SortStandings orders by points earned, highest first, then by name.
func SortStandings(s []Standing) {
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].PointsEarned != s[j].PointsEarned {
			return s[i].PointsEarned > s[j].PointsEarned
		}
		if c := col.CompareString(s[i].Name, s[j].Name); c != 0 {
			return c < 0
		}
		return s[i].MemberID < s[j].MemberID
	})
}

func pick(ranked []Standing, limit int, keep func(Standing) bool) []Standing {
	out := []Standing{}
	for _, s := range ranked {
		if len(out) == limit {
			break
		}
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
