package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/store"
	"choir-attendance/internal/store/storetest"

	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fixture struct {
	store      *store.Store
	clk        *clock.FakeClock
	auth       *AuthService
	members    *MemberService
	attendance *AttendanceService
	imports    *ImportService
	teams      *TeamService
	stats      *StatsService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	clk := clock.Fake(now)
	s := storetest.New(t, clk)
	attendance := NewAttendanceService(s)
	stats := NewStatsService(s, scoring.NewEngine(scoring.DefaultPolicy()), clk, time.UTC)
	t.Cleanup(stats.Close)
	return &fixture{
		store:      s,
		clk:        clk,
		auth:       NewAuthService(s),
		members:    NewMemberService(s, "choirmember", clk, time.UTC),
		attendance: attendance,
		imports:    NewImportService(attendance, s, clk),
		teams:      NewTeamService(s),
		stats:      stats,
	}
}

func (f *fixture) member(t *testing.T, name string, g model.Gender) model.Member {
	t.Helper()
	m := &model.Member{Name: name, Gender: g, Phone: "555"}
	require.NoError(t, f.members.Create(ctx, m))
	return *m
}

func (f *fixture) event(t *testing.T, date string, c model.Category, recs ...model.AttendanceRecord) model.AttendanceEvent {
	t.Helper()
	e := &model.AttendanceEvent{Date: date, Category: c, Records: recs}
	require.NoError(t, f.attendance.Save(ctx, e))
	return *e
}

func rec(m model.Member, s model.Status, reason string) model.AttendanceRecord {
	return model.AttendanceRecord{MemberID: m.ID, Status: s, Reason: reason}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *fakeNotifier) Send(to []string, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, subject)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
