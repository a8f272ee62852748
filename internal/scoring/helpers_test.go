package scoring

import (
	"choir-attendance/internal/model"
)

func member(id, name string, g model.Gender) model.Member {
	return model.Member{ID: id, Name: name, Gender: g}
}

func event(id, date string, c model.Category, recs ...model.AttendanceRecord) model.AttendanceEvent {
	return model.AttendanceEvent{ID: id, Date: date, Category: c, Records: recs}
}

func mark(memberID string, s model.Status, reason string) model.AttendanceRecord {
	return model.AttendanceRecord{MemberID: memberID, MemberName: memberID, Status: s, Reason: reason}
}
