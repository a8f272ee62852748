package scoring

import (
	"testing"
	"time"

	"choir-attendance/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestReminder(t *testing.T) {
	saturday := time.Date(2026, 10, 17, 22, 0, 0, 0, time.Local)
	sunday := time.Date(2026, 10, 18, 21, 0, 0, 0, time.Local)
	today := []model.AttendanceEvent{{Date: "2026-10-17", Category: model.CategorySaturdayPractice}}

	tests := []struct {
		name   string
		now    time.Time
		role   model.Role
		events []model.AttendanceEvent
		show   bool
		label  string
	}{
		{"saturday night, nothing recorded", saturday, model.RoleAdmin, nil, true, "Saturday Practice"},
		{"sunday at the cutoff", sunday, model.RoleAdmin, today, true, "Sunday Mass"},
		{"already recorded", saturday, model.RoleAdmin, today, false, ""},
		{"members never see it", saturday, model.RoleMember, nil, false, ""},
		{"too early", saturday.Add(-2 * time.Hour), model.RoleAdmin, nil, false, ""},
		{"weekday", saturday.AddDate(0, 0, 2), model.RoleAdmin, nil, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldShowReminder(tt.now, tt.role, tt.events, 21)
			assert.Equal(t, tt.show, got.Show)
			assert.Equal(t, tt.label, got.Label)
			if tt.show {
				assert.Contains(t, got.Message, tt.label)
			}
		})
	}
}

func TestEngineReminderUsesPolicyHour(t *testing.T) {
	eng := NewEngine(Policy{ReminderHour: 18})
	now := time.Date(2026, 10, 17, 19, 0, 0, 0, time.Local)
	assert.True(t, eng.Reminder(now, model.RoleAdmin, Snapshot{}).Show)
}
