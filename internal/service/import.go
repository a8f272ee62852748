package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/store"

	"github.com/xuri/excelize/v2"
)

const previewTTL = 10 * time.Minute

var importColumns = []string{"date", "category", "event name", "member", "status", "reason"}

// ImportService turns an uploaded attendance sheet into events in two steps:
// Preview parses and caches, Confirm saves.
type ImportService struct {
	attendance *AttendanceService
	store      *store.Store
	clk        clock.Clock
	cache      sync.Map // token -> *previewCache
}

type previewCache struct {
	events    []model.AttendanceEvent
	createdAt time.Time
}

func NewImportService(a *AttendanceService, s *store.Store, clk clock.Clock) *ImportService {
	return &ImportService{attendance: a, store: s, clk: clk}
}

type ImportIssue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportPreview struct {
	Token     string                  `json:"token"`
	Events    []model.AttendanceEvent `json:"events"`
	Unmatched []string                `json:"unmatched_members"`
	Issues    []ImportIssue           `json:"issues"`
}

type ImportResult struct {
	Imported int           `json:"imported"`
	Records  int           `json:"records"`
	Failed   []ImportIssue `json:"failed"`
}

func (s *ImportService) Preview(ctx context.Context, r io.Reader) (*ImportPreview, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalid("not a spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalid("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return nil, err
	}

	p := parseSheet(rows, members)
	s.sweep()
	p.Token = genToken()
	s.cache.Store(p.Token, &previewCache{events: p.Events, createdAt: s.clk.Now()})

	logger.Info("import.preview", "token", p.Token, "events", len(p.Events), "unmatched", len(p.Unmatched), "issues", len(p.Issues))
	return p, nil
}

func (s *ImportService) Confirm(ctx context.Context, token string) (*ImportResult, error) {
	val, ok := s.cache.LoadAndDelete(token)
	if !ok {
		return nil, fmt.Errorf("%w: preview expired, upload again", ErrNotFound)
	}
	cached := val.(*previewCache)
	if s.clk.Now().Sub(cached.createdAt) > previewTTL {
		return nil, fmt.Errorf("%w: preview expired, upload again", ErrNotFound)
	}

	res := &ImportResult{Failed: []ImportIssue{}}
	for i := range cached.events {
		e := cached.events[i]
		e.Records = append([]model.AttendanceRecord(nil), e.Records...)
		if err := s.attendance.Save(ctx, &e); err != nil {
			res.Failed = append(res.Failed, ImportIssue{Row: i + 1, Message: err.Error()})
			continue
		}
		res.Imported++
		res.Records += len(e.Records)
	}
	logger.Info("import.confirm", "token", token, "imported", res.Imported, "failed", len(res.Failed))
	return res, nil
}

func (s *ImportService) sweep() {
	now := s.clk.Now()
	s.cache.Range(func(k, v any) bool {
		if now.Sub(v.(*previewCache).createdAt) > previewTTL {
			s.cache.Delete(k)
		}
		return true
	})
}

type eventKey struct {
	date     string
	category model.Category
	name     string
}

func parseSheet(rows [][]string, members []model.Member) *ImportPreview {
	p := &ImportPreview{Events: []model.AttendanceEvent{}, Unmatched: []string{}, Issues: []ImportIssue{}}
	if len(rows) == 0 {
		return p
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range importColumns {
		if _, ok := col[name]; !ok && name != "event name" && name != "reason" {
			p.Issues = append(p.Issues, ImportIssue{Row: 1, Message: "missing column " + name})
		}
	}
	if len(p.Issues) > 0 {
		return p
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	index := map[eventKey]int{}
	unmatched := map[string]bool{}
	for n, row := range rows[1:] {
		line := n + 2
		if strings.Join(row, "") == "" {
			continue
		}
		date, ok := parseSheetDate(cell(row, "date"))
		if !ok {
			p.Issues = append(p.Issues, ImportIssue{Row: line, Message: fmt.Sprintf("bad date %q", cell(row, "date"))})
			continue
		}
		category, ok := matchCategory(cell(row, "category"))
		if !ok {
			p.Issues = append(p.Issues, ImportIssue{Row: line, Message: fmt.Sprintf("unknown category %q", cell(row, "category"))})
			continue
		}
		status, ok := matchStatus(cell(row, "status"))
		if !ok {
			p.Issues = append(p.Issues, ImportIssue{Row: line, Message: fmt.Sprintf("unknown status %q", cell(row, "status"))})
			continue
		}
		name := cell(row, "member")
		m, ok := matchMember(name, members)
		if !ok {
			if name != "" && !unmatched[name] {
				unmatched[name] = true
				p.Unmatched = append(p.Unmatched, name)
			}
			continue
		}

		eventName := ""
		if category.RequiresName() {
			eventName = cell(row, "event name")
		}
		key := eventKey{date, category, eventName}
		idx, ok := index[key]
		if !ok {
			idx = len(p.Events)
			index[key] = idx
			p.Events = append(p.Events, model.AttendanceEvent{Date: date, Category: category, EventName: eventName})
		}
		e := &p.Events[idx]
		if _, dup := e.Record(m.ID); dup {
			p.Issues = append(p.Issues, ImportIssue{Row: line, Message: m.Name + " is marked twice"})
			continue
		}
		e.Records = append(e.Records, model.AttendanceRecord{
			MemberID: m.ID, MemberName: m.Name, Status: status, Reason: cell(row, "reason"),
		})
	}
	return p
}

func parseSheetDate(s string) (string, bool) {
	if d, ok := scoring.ParseDate(s); ok {
		return d.Format("2006-01-02"), true
	}
	if d, err := time.Parse("02/01/2006", s); err == nil {
		return d.Format("2006-01-02"), true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return d.Format("2006-01-02"), true
		}
	}
	return "", false
}

func matchCategory(s string) (model.Category, bool) {
	for _, c := range model.Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func matchStatus(s string) (model.Status, bool) {
	for _, st := range []model.Status{model.StatusPresent, model.StatusAbsent, model.StatusExcused, model.StatusExcusedButPresent} {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// matchMember tries an exact name first, then containment either way.
func matchMember(name string, members []model.Member) (model.Member, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Member{}, false
	}
	for _, m := range members {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	lower := strings.ToLower(name)
	for _, m := range members {
		mn := strings.ToLower(m.Name)
		if mn == "" {
			continue
		}
		if strings.Contains(mn, lower) || strings.Contains(lower, mn) {
			return m, true
		}
	}
	return model.Member{}, false
}

func genToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
