package scoring

import (
	"testing"
	"time"

	"choir-attendance/internal/model"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestExcuseTrackerCapsThirdExcuse(t *testing.T) {
	got := EffectiveStatuses([]Mark{
		{day(2026, 1, 5), model.StatusExcused},
		{day(2026, 1, 12), model.StatusExcused},
		{day(2026, 1, 19), model.StatusExcused},
		{day(2026, 1, 26), model.StatusExcused},
	}, 2)
	assert.Equal(t, []model.Status{
		model.StatusExcused, model.StatusExcused, model.StatusAbsent, model.StatusAbsent,
	}, got)
}

func TestExcuseTrackerResetsEachMonth(t *testing.T) {
	got := EffectiveStatuses([]Mark{
		{day(2026, 1, 10), model.StatusExcused},
		{day(2026, 1, 31), model.StatusExcused},
		{day(2026, 2, 1), model.StatusExcused},
		{day(2026, 2, 2), model.StatusExcused},
	}, 2)
	for i, s := range got {
		assert.Equal(t, model.StatusExcused, s, "mark %d", i)
	}
}

func TestExcuseTrackerIgnoresExcusedButPresent(t *testing.T) {
	marks := make([]Mark, 5)
	for i := range marks {
		marks[i] = Mark{day(2026, 3, i+1), model.StatusExcusedButPresent}
	}
	for _, s := range EffectiveStatuses(marks, 2) {
		assert.Equal(t, model.StatusExcusedButPresent, s)
	}
}

func TestExcuseTrackerLeavesOtherStatusesAlone(t *testing.T) {
	tr := NewExcuseTracker(2)
	d := day(2026, 4, 4)
	assert.Equal(t, model.StatusPresent, tr.Effective(d, model.StatusPresent))
	assert.Equal(t, model.StatusAbsent, tr.Effective(d, model.StatusAbsent))
	assert.Equal(t, 0, tr.Used(d))
	tr.Effective(d, model.StatusExcused)
	assert.Equal(t, 1, tr.Used(d))
}
