package service

import (
	"context"
	"sort"
	"strings"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/store"
)

type AttendanceService struct{ store *store.Store }

func NewAttendanceService(s *store.Store) *AttendanceService { return &AttendanceService{store: s} }

func (s *AttendanceService) Get(ctx context.Context, id string) (*model.AttendanceEvent, error) {
	return s.store.Events.Get(ctx, id)
}

func (s *AttendanceService) Save(ctx context.Context, e *model.AttendanceEvent) error {
	e.ID = ""
	if err := s.validate(ctx, e); err != nil {
		return err
	}
	if err := s.store.Events.Create(ctx, e); err != nil {
		return err
	}
	logger.Info("event.create", "id", e.ID, "date", e.Date, "category", e.Category, "records", len(e.Records))
	return nil
}

func (s *AttendanceService) Update(ctx context.Context, e *model.AttendanceEvent) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}
	if err := s.store.Events.Replace(ctx, e); err != nil {
		return err
	}
	logger.Info("event.update", "id", e.ID, "records", len(e.Records))
	return nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := s.store.Events.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("event.delete", "id", id)
	return nil
}

// validate enforces the record-creation rules and fills missing member name
// snapshots from the member list.
func (s *AttendanceService) validate(ctx context.Context, e *model.AttendanceEvent) error {
	e.Date = strings.TrimSpace(e.Date)
	e.EventName = strings.TrimSpace(e.EventName)
	if e.Date == "" {
		return invalid("date is required")
	}
	if _, ok := scoring.ParseDate(e.Date); !ok {
		return invalid("date %q is not YYYY-MM-DD", e.Date)
	}
	if !e.Category.Valid() {
		return invalid("unknown category %q", e.Category)
	}
	if e.Category.RequiresName() {
		if e.EventName == "" {
			return invalid("%s needs an event name", e.Category)
		}
	} else {
		e.EventName = ""
	}
	if len(e.Records) == 0 {
		return invalid("mark at least one member")
	}

	members, err := s.store.Members.List(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	seen := make(map[string]bool, len(e.Records))
	for i := range e.Records {
		r := &e.Records[i]
		r.MemberName = strings.TrimSpace(r.MemberName)
		r.Reason = strings.TrimSpace(r.Reason)
		if r.MemberID == "" {
			return invalid("record %d has no member", i+1)
		}
		if seen[r.MemberID] {
			return invalid("member %s is marked twice", r.MemberID)
		}
		seen[r.MemberID] = true
		if !r.Status.Valid() {
			return invalid("unknown status %q", r.Status)
		}
		if r.MemberName == "" {
			name, ok := names[r.MemberID]
			if !ok {
				return invalid("unknown member %s", r.MemberID)
			}
			r.MemberName = name
		}
		if r.Status.NeedsReason() {
			if r.Reason == "" {
				return invalid("please provide a reason for the excused status for %s", r.MemberName)
			}
		} else {
			r.Reason = ""
		}
	}
	return nil
}

type BulkMode string

const (
	BulkNone    BulkMode = "none"
	BulkPresent BulkMode = "present"
	BulkAbsent  BulkMode = "absent"
)

// BulkMark fills in every member without a mark as Present or Absent and
// keeps existing marks. BulkNone clears all marks.
func BulkMark(members []model.Member, marks []model.AttendanceRecord, mode BulkMode) ([]model.AttendanceRecord, error) {
	var status model.Status
	switch mode {
	case BulkNone:
		return []model.AttendanceRecord{}, nil
	case BulkPresent:
		status = model.StatusPresent
	case BulkAbsent:
		status = model.StatusAbsent
	default:
		return nil, invalid("unknown bulk mode %q", mode)
	}

	byID := make(map[string]model.AttendanceRecord, len(marks))
	for _, r := range marks {
		if r.Status != "" {
			byID[r.MemberID] = r
		}
	}
	out := make([]model.AttendanceRecord, 0, len(members))
	for _, m := range members {
		if r, ok := byID[m.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, model.AttendanceRecord{MemberID: m.ID, MemberName: m.Name, Status: status})
	}
	return out, nil
}

func (s *AttendanceService) BulkMark(ctx context.Context, marks []model.AttendanceRecord, mode BulkMode) ([]model.AttendanceRecord, error) {
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return nil, err
	}
	return BulkMark(members, marks, mode)
}

const defaultPageSize = 10

type LogFilter struct {
	Category model.Category
	Search   string
	Page     int
	PageSize int
}

type LogEntry struct {
	model.AttendanceEvent
	Present int `json:"present"`
	Marked  int `json:"marked"`
}

type LogPage struct {
	Entries    []LogEntry `json:"entries"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// Log lists events newest first, filtered by category and a free-text search
// over event name, category and DD/MM/YYYY date.
func (s *AttendanceService) Log(ctx context.Context, f LogFilter) (LogPage, error) {
	events, err := s.store.Events.List(ctx)
	if err != nil {
		return LogPage{}, err
	}
	return buildLog(events, f), nil
}

func buildLog(events []model.AttendanceEvent, f LogFilter) LogPage {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []model.AttendanceEvent
	for _, e := range events {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })

	size := f.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	page := LogPage{PageSize: size, Total: len(matched), TotalPages: (len(matched) + size - 1) / size, Entries: []LogEntry{}}
	page.Page = f.Page
	if page.Page < 1 {
		page.Page = 1
	}
	if page.TotalPages > 0 && page.Page > page.TotalPages {
		page.Page = page.TotalPages
	}

	start := (page.Page - 1) * size
	for i := start; i < len(matched) && i < start+size; i++ {
		e := matched[i]
		entry := LogEntry{AttendanceEvent: e, Marked: len(e.Records)}
		for _, r := range e.Records {
			if r.Status == model.StatusPresent {
				entry.Present++
			}
		}
		page.Entries = append(page.Entries, entry)
	}
	return page
}

func matchesSearch(e model.AttendanceEvent, search string) bool {
	if strings.Contains(strings.ToLower(e.EventName), search) ||
		strings.Contains(strings.ToLower(string(e.Category)), search) {
		return true
	}
	d, ok := scoring.ParseDate(e.Date)
	return ok && strings.Contains(d.Format("02/01/2006"), search)
}
