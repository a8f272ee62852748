package scoring

import (
	"testing"
	"time"

	"choir-attendance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyTables(t *testing.T) {
	assert.Equal(t, 50.0, PointValue(model.CategorySpecialMass))
	assert.Equal(t, 25.0, PointValue(model.CategorySaturdayPractice))
	assert.Equal(t, 0.0, PointValue(model.CategoryDailyMass))
	assert.Equal(t, 0.0, PointValue("Bingo night"))
	assert.Equal(t, 0.4, Multiplier(model.StatusExcusedButPresent))
	assert.Equal(t, 0.0, Multiplier(""))
	assert.NotContains(t, ScoredCategories(), model.CategoryDailyMass)
	assert.Len(t, ScoredCategories(), 9)
}

func januaryScenario() Snapshot {
	return Snapshot{
		Members: []model.Member{member("m", "Mary", model.GenderFemale)},
		Events: []model.AttendanceEvent{
			// stored out of order on purpose
			event("e4", "2026-01-26", model.CategorySundayMorningMass, mark("m", model.StatusExcused, "work")),
			event("e1", "2026-01-05", model.CategorySundayMorningMass, mark("m", model.StatusPresent, "")),
			event("e3", "2026-01-19", model.CategorySundayMorningMass, mark("m", model.StatusExcused, "travel")),
			event("e2", "2026-01-12", model.CategorySundayMorningMass, mark("m", model.StatusExcused, "sick")),
		},
	}
}

func TestMemberScoreJanuaryScenario(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := januaryScenario()

	res := eng.MemberScore(snap, "m", MonthWindow(2026, time.January))
	assert.InDelta(t, 42.0, res.PointsEarned, 1e-9)
	assert.InDelta(t, 120.0, res.PointsPossible, 1e-9)
	assert.InDelta(t, 35.0, res.Percentage, 1e-9)
	assert.Equal(t, 3, res.ExcusedCount)
	assert.Equal(t, 1, res.Downgraded)
	assert.Equal(t, 2, res.ExcuseAllowance)
	assert.Equal(t, 0, res.ExcuseBalance)
	assert.Empty(t, res.Anomalies)

	yearly := eng.MemberScore(snap, "m", YearWindow(2026))
	assert.InDelta(t, 35.0, yearly.Percentage, 1e-9)
	assert.Equal(t, 21, yearly.ExcuseBalance)

	cat := res.Breakdown[model.CategorySundayMorningMass]
	assert.Equal(t, 4, cat.Count)
	assert.InDelta(t, 42.0, cat.PointsEarned, 1e-9)
}

func TestMemberScoreThirdExcuseEarnsNothing(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{member("m", "Mary", model.GenderFemale)},
		Events: []model.AttendanceEvent{
			event("a", "2026-05-02", model.CategoryCleaning, mark("m", model.StatusExcused, "x")),
			event("b", "2026-05-09", model.CategoryCleaning, mark("m", model.StatusExcused, "x")),
			event("c", "2026-05-16", model.CategoryCleaning, mark("m", model.StatusExcused, "x")),
		},
	}
	res := eng.MemberScore(snap, "m", YearWindow(2026))
	// 10*0.2 + 10*0.2 + 10*0.0
	assert.InDelta(t, 4.0, res.PointsEarned, 1e-9)
	assert.Equal(t, 3, res.ExcusedCount)
}

func TestMemberScoreAcrossMonthsKeepsBothAllowances(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{member("m", "Mary", model.GenderFemale)},
		Events: []model.AttendanceEvent{
			event("a", "2026-01-03", model.CategorySaturdayPractice, mark("m", model.StatusExcused, "x")),
			event("b", "2026-01-10", model.CategorySaturdayPractice, mark("m", model.StatusExcused, "x")),
			event("c", "2026-02-07", model.CategorySaturdayPractice, mark("m", model.StatusExcused, "x")),
			event("d", "2026-02-14", model.CategorySaturdayPractice, mark("m", model.StatusExcused, "x")),
		},
	}
	res := eng.MemberScore(snap, "m", YearWindow(2026))
	assert.Equal(t, 0, res.Downgraded)
	assert.InDelta(t, 20.0, res.PointsEarned, 1e-9)
	assert.InDelta(t, 20.0, res.Percentage, 1e-9)
}

func TestMemberScoreExcusedButPresentNeverDowngraded(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{Members: []model.Member{member("m", "Mary", model.GenderFemale)}}
	for i := 1; i <= 5; i++ {
		snap.Events = append(snap.Events, event("e", time.Date(2026, 6, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			model.CategoryChoirMeeting, mark("m", model.StatusExcusedButPresent, "late")))
	}
	res := eng.MemberScore(snap, "m", MonthWindow(2026, time.June))
	assert.InDelta(t, 5*15*0.4, res.PointsEarned, 1e-9)
	assert.InDelta(t, 40.0, res.Percentage, 1e-9)
	assert.Equal(t, 5, res.ExcusedButPresentCount)
	assert.Equal(t, 0, res.Downgraded)
}

func TestMemberScoreSkipsUnscoredAndUnmarkedEvents(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{member("m", "Mary", model.GenderFemale), member("o", "Olga", model.GenderFemale)},
		Events: []model.AttendanceEvent{
			event("daily", "2026-01-02", model.CategoryDailyMass, mark("m", model.StatusAbsent, "")),
			event("odd", "2026-01-03", "Bingo night", mark("m", model.StatusAbsent, "")),
			event("other", "2026-01-04", model.CategorySundayEveningMass, mark("o", model.StatusPresent, "")),
			event("mine", "2026-01-05", model.CategorySundayEveningMass, mark("m", model.StatusPresent, "")),
			event("empty", "2026-01-06", model.CategorySpecialMass),
		},
	}
	res := eng.MemberScore(snap, "m", YearWindow(2026))
	assert.InDelta(t, 30.0, res.PointsPossible, 1e-9)
	assert.InDelta(t, 100.0, res.Percentage, 1e-9)
}

func TestMemberScoreEmptyInputs(t *testing.T) {
	eng := NewEngine(DefaultPolicy())

	res := eng.MemberScore(Snapshot{Members: []model.Member{member("m", "Mary", model.GenderFemale)}}, "m", MonthWindow(1999, time.March))
	assert.Zero(t, res.PointsEarned)
	assert.Zero(t, res.PointsPossible)
	assert.Zero(t, res.Percentage)
	assert.Equal(t, 2, res.ExcuseBalance)

	orphan := eng.MemberScore(januaryScenario(), "gone", YearWindow(2026))
	assert.Zero(t, orphan.PointsPossible)
	require.Len(t, orphan.Anomalies, 1)
	assert.Equal(t, AnomalyMissingMember, orphan.Anomalies[0].Kind)

	var nothing Snapshot
	assert.Zero(t, eng.MemberScore(nothing, "m", YearWindow(2026)).Percentage)
}

func TestMemberScoreMalformedRecordsScoreZero(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := Snapshot{
		Members: []model.Member{member("m", "Mary", model.GenderFemale)},
		Events: []model.AttendanceEvent{
			event("a", "2026-07-04", model.CategorySaturdayPractice, mark("m", "Late", "")),
			event("b", "2026-07-11", model.CategorySaturdayPractice, mark("m", model.StatusExcused, "  ")),
			event("c", "not-a-date", model.CategorySaturdayPractice, mark("m", model.StatusPresent, "")),
			event("d", "2026-07-18", model.CategorySaturdayPractice, mark("m", model.StatusPresent, "")),
		},
	}
	res := eng.MemberScore(snap, "m", YearWindow(2026))
	assert.InDelta(t, 25.0, res.PointsEarned, 1e-9)
	assert.InDelta(t, 75.0, res.PointsPossible, 1e-9)

	kinds := map[AnomalyKind]int{}
	for _, a := range res.Anomalies {
		kinds[a.Kind]++
	}
	assert.Equal(t, map[AnomalyKind]int{AnomalyUnknownStatus: 1, AnomalyMissingReason: 1, AnomalyBadDate: 1}, kinds)
}

func TestMemberScoreIsIdempotent(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	snap := januaryScenario()
	w := YearWindow(2026)
	assert.Equal(t, eng.MemberScore(snap, "m", w), eng.MemberScore(snap, "m", w))
}

func TestMemberScorePercentageBounded(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	statuses := []model.Status{model.StatusPresent, model.StatusAbsent, model.StatusExcused, model.StatusExcusedButPresent}
	snap := Snapshot{Members: []model.Member{member("m", "Mary", model.GenderFemale)}}
	for i := 0; i < 40; i++ {
		d := time.Date(2026, time.Month(i%12+1), i%27+1, 0, 0, 0, 0, time.UTC)
		snap.Events = append(snap.Events, event("e", d.Format("2006-01-02"), model.Categories[i%len(model.Categories)],
			mark("m", statuses[i%len(statuses)], "r")))
	}
	for m := time.January; m <= time.December; m++ {
		res := eng.MemberScore(snap, "m", MonthWindow(2026, m))
		if res.PointsPossible > 0 {
			assert.GreaterOrEqual(t, res.Percentage, 0.0)
			assert.LessOrEqual(t, res.Percentage, 100.0)
		} else {
			assert.Zero(t, res.Percentage)
		}
	}
}

func TestPolicyNormalizedKeepsDefaults(t *testing.T) {
	eng := NewEngine(Policy{TopThreshold: 95})
	p := eng.Policy()
	assert.Equal(t, 95.0, p.TopThreshold)
	assert.Equal(t, 2, p.MonthlyExcuseCap)
	assert.Equal(t, 24, p.YearlyExcuseAllowance)
	assert.Equal(t, 21, p.ReminderHour)
}

func TestSameDayExcusesClaimSlotsInRecordedOrder(t *testing.T) {
	eng := NewEngine(DefaultPolicy())
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	practice := event("p", "2026-01-10", model.CategorySaturdayPractice, mark("m", model.StatusExcused, "ill"))
	practice.CreatedAt = base
	others := event("o", "2026-01-10", model.CategoryOthers, mark("m", model.StatusExcused, "ill"))
	others.CreatedAt = base.Add(time.Hour)
	cleaning := event("c", "2026-01-03", model.CategoryCleaning, mark("m", model.StatusExcused, "away"))
	cleaning.CreatedAt = base.Add(-7 * 24 * time.Hour)

	// newest first, the way the store lists them
	snap := Snapshot{
		Members: []model.Member{member("m", "Mary", model.GenderFemale)},
		Events:  []model.AttendanceEvent{others, practice, cleaning},
	}
	s := eng.MemberScore(snap, "m", MonthWindow(2026, time.January))
	assert.InDelta(t, 7.0, s.PointsEarned, 1e-9)
	assert.Equal(t, 1, s.Downgraded)
	assert.InDelta(t, 5.0, s.Breakdown[model.CategorySaturdayPractice].PointsEarned, 1e-9)
	assert.InDelta(t, 0.0, s.Breakdown[model.CategoryOthers].PointsEarned, 1e-9)
}
