package scoring

import (
	"fmt"
	"time"

	"choir-attendance/internal/model"
)

// Reminder tells admins that a weekend gathering has not been recorded yet.
type Reminder struct {
	Show    bool   `json:"show"`
	Day     string `json:"day,omitempty"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message,omitempty"`
}

// ShouldShowReminder fires for admins on Saturday or Sunday from
// cutoffHour onwards when no event is dated today. now must already be in
// the choir's local time zone.
func ShouldShowReminder(now time.Time, role model.Role, events []model.AttendanceEvent, cutoffHour int) Reminder {
	if role != model.RoleAdmin {
		return Reminder{}
	}
	var label string
	switch now.Weekday() {
	case time.Saturday:
		label = "Saturday Practice"
	case time.Sunday:
		label = "Sunday Mass"
	default:
		return Reminder{}
	}
	if now.Hour() < cutoffHour {
		return Reminder{}
	}
	today := now.Format(dateLayout)
	for _, e := range events {
		if e.Date == today {
			return Reminder{}
		}
	}
	day := now.Weekday().String()
	return Reminder{
		Show:  true,
		Day:   day,
		Label: label,
		Message: fmt.Sprintf("It's %s evening and no attendance has been recorded for today yet. Please remember to mark attendance for %s.",
			day, label),
	}
}

// Reminder evaluates ShouldShowReminder with the engine's cutoff hour.
func (e *Engine) Reminder(now time.Time, role model.Role, snap Snapshot) Reminder {
	return ShouldShowReminder(now, role, snap.Events, e.policy.ReminderHour)
}
