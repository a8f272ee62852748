package scoring

import (
	"fmt"
	"testing"

	"choir-attendance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohortAverageIsMeanButGenderAverageIsWeighted(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{member("a", "Anton", model.GenderMale), member("b", "Bala", model.GenderMale)},
		Events: []model.AttendanceEvent{
			event("clean", "2026-03-01", model.CategoryCleaning, mark("a", model.StatusPresent, "")),
			event("sm1", "2026-03-08", model.CategorySpecialMass, mark("b", model.StatusAbsent, "")),
			event("sm2", "2026-03-15", model.CategorySpecialMass, mark("b", model.StatusAbsent, "")),
		},
	}
	res := eng.CohortStats(snap, YearWindow(2026))

	assert.InDelta(t, 50.0, res.AveragePercentage, 1e-9)
	assert.InDelta(t, 10.0/110.0*100, res.MenAveragePercentage, 1e-9)
	assert.NotEqual(t, res.AveragePercentage, res.MenAveragePercentage)
	assert.Zero(t, res.WomenAveragePercentage)
	assert.Equal(t, 2, res.TotalMembers)
	assert.Equal(t, 3, res.TotalEvents)
}

func TestCohortListsThresholdsAndOrder(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{
			member("z", "Zara", model.GenderFemale),
			member("y", "yusuf", model.GenderMale),
			member("x", "Xavier", model.GenderMale),
			member("w", "Wendy", model.GenderFemale),
			member("idle", "Idle", model.GenderOther),
		},
		Events: []model.AttendanceEvent{
			event("e1", "2026-02-01", model.CategorySundayMorningMass,
				mark("z", model.StatusPresent, ""), mark("y", model.StatusPresent, ""),
				mark("x", model.StatusAbsent, ""), mark("w", model.StatusExcused, "ill")),
			event("e2", "2026-02-08", model.CategorySpecialMass,
				mark("z", model.StatusPresent, ""), mark("y", model.StatusPresent, ""),
				mark("x", model.StatusPresent, ""), mark("w", model.StatusPresent, "")),
		},
	}
	res := eng.CohortStats(snap, YearWindow(2026))

	require.Len(t, res.Ranked, 5)
	// Zara and yusuf tie on points; case-insensitive name order breaks it.
	assert.Equal(t, []string{"y", "z", "w", "x", "idle"}, ids(res.Ranked))
	assert.Equal(t, []string{"y", "z"}, ids(res.TopPerformers))
	// Wendy: 56/80 = 70% is not below 70. Xavier 50/80 and Idle (nothing scored) are.
	assert.Equal(t, []string{"x", "idle"}, ids(res.NeedsAttention))
	assert.NotContains(t, ids(res.TopPerformers), "idle")
}

func TestCohortCapsLists(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	var snap Snapshot
	ev := event("e", "2026-04-05", model.CategorySundayEveningMass)
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("m%02d", i)
		snap.Members = append(snap.Members, member(id, id, model.GenderFemale))
		ev.Records = append(ev.Records, mark(id, model.StatusPresent, ""))
	}
	snap.Events = []model.AttendanceEvent{ev}
	res := eng.CohortStats(snap, YearWindow(2026))
	assert.Len(t, res.TopPerformers, 10)
	assert.Empty(t, res.NeedsAttention)
}

func TestCohortOrphanRecordsReported(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{member("a", "Anton", model.GenderMale)},
		Events: []model.AttendanceEvent{
			event("e", "2026-01-04", model.CategorySundayMorningMass,
				mark("a", model.StatusPresent, ""), mark("ghost", model.StatusPresent, "")),
		},
	}
	res := eng.CohortStats(snap, YearWindow(2026))
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyMissingMember, res.Anomalies[0].Kind)
	assert.Equal(t, "ghost", res.Anomalies[0].MemberID)
	assert.Len(t, res.Ranked, 1)
}

func TestCohortEmptySnapshot(t *testing.T) {
	res := NewEngine(DefaultPolicy()).CohortStats(Snapshot{}, YearWindow(2026))
	assert.Zero(t, res.TotalMembers)
	assert.Zero(t, res.AveragePercentage)
	assert.NotNil(t, res.TopPerformers)
	assert.NotNil(t, res.NeedsAttention)
}

func ids(s []Standing) []string {
	out := make([]string, len(s))
	for i, m := range s {
		out[i] = m.MemberID
	}
	return out
}
