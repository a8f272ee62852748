package service

import (
	"context"
	"sync"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/store"
)

type memoKey struct {
	version string
	window  scoring.Window
	member  string
}

// StatsService serves scores from a cached snapshot. Any change published by
// the store marks the snapshot stale; the next read reloads it and drops the
// memoized results of the old version.
type StatsService struct {
	store  *store.Store
	engine *scoring.Engine
	clk    clock.Clock
	loc    *time.Location

	changes     <-chan store.Change
	unsubscribe func()

	mu      sync.Mutex
	snap    scoring.Snapshot
	version string
	loaded  bool
	scores  map[memoKey]scoring.ScoreResult
	cohorts map[memoKey]scoring.CohortResult
}

func NewStatsService(s *store.Store, engine *scoring.Engine, clk clock.Clock, loc *time.Location) *StatsService {
	ch, unsubscribe := s.Broker.Subscribe()
	return &StatsService{
		store: s, engine: engine, clk: clk, loc: loc,
		changes: ch, unsubscribe: unsubscribe,
	}
}

func (s *StatsService) Close() { s.unsubscribe() }

func (s *StatsService) Engine() *scoring.Engine { return s.engine }

// Now is the current instant in the choir's time zone.
func (s *StatsService) Now() time.Time { return s.clk.Now().In(s.loc) }

// Snapshot returns the current snapshot and its version.
func (s *StatsService) Snapshot(ctx context.Context) (scoring.Snapshot, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(ctx); err != nil {
		return scoring.Snapshot{}, "", err
	}
	return s.snap, s.version, nil
}

func (s *StatsService) refreshLocked(ctx context.Context) error {
	stale := !s.loaded
	for drained := false; !drained; {
		select {
		case _, ok := <-s.changes:
			stale = stale || ok
			if !ok {
				drained = true
			}
		default:
			drained = true
		}
	}
	if !stale {
		return nil
	}

	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	version := store.Version(snap)
	if version != s.version {
		s.scores = make(map[memoKey]scoring.ScoreResult)
		s.cohorts = make(map[memoKey]scoring.CohortResult)
	}
	s.snap, s.version, s.loaded = snap, version, true
	logger.Debug("stats.snapshot", "version", version, "members", len(snap.Members), "events", len(snap.Events))
	return nil
}

// MemberScore scores one member. Unknown members are ErrNotFound.
func (s *StatsService) MemberScore(ctx context.Context, memberID string, w scoring.Window) (scoring.ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(ctx); err != nil {
		return scoring.ScoreResult{}, err
	}
	return s.memberScoreLocked(memberID, w)
}

func (s *StatsService) memberScoreLocked(memberID string, w scoring.Window) (scoring.ScoreResult, error) {
	if _, ok := s.snap.Member(memberID); !ok {
		return scoring.ScoreResult{}, ErrNotFound
	}
	key := memoKey{s.version, w, memberID}
	if r, ok := s.scores[key]; ok {
		return r, nil
	}
	r := s.engine.MemberScore(s.snap, memberID, w)
	logAnomalies("stats.member", w, r.Anomalies)
	s.scores[key] = r
	return r, nil
}

func (s *StatsService) Cohort(ctx context.Context, w scoring.Window) (scoring.CohortResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(ctx); err != nil {
		return scoring.CohortResult{}, err
	}
	key := memoKey{version: s.version, window: w}
	if r, ok := s.cohorts[key]; ok {
		return r, nil
	}
	r := s.engine.CohortStats(s.snap, w)
	logAnomalies("stats.cohort", w, r.Anomalies)
	s.cohorts[key] = r
	return r, nil
}

func (s *StatsService) Years(ctx context.Context) ([]int, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.AvailableYears(snap.Events, s.Now()), nil
}

func (s *StatsService) Months(ctx context.Context, year int) ([]time.Month, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.AvailableMonths(snap.Events, year), nil
}

type Activity struct {
	Window      scoring.Window          `json:"window"`
	TotalEvents int                     `json:"total_events"`
	Categories  []scoring.ActivityCount `json:"categories"`
}

func (s *StatsService) Activity(ctx context.Context, w scoring.Window) (Activity, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return Activity{}, err
	}
	a := Activity{Window: w, Categories: scoring.ActivityCounts(snap.Events, w)}
	for _, c := range a.Categories {
		a.TotalEvents += c.Count
	}
	return a, nil
}

func (s *StatsService) Reminder(ctx context.Context, role model.Role) (scoring.Reminder, error) {
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return scoring.Reminder{}, err
	}
	return s.engine.Reminder(s.Now(), role, snap), nil
}

func (s *StatsService) MemberReport(ctx context.Context, memberID string, w scoring.Window) (scoring.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(ctx); err != nil {
		return scoring.Report{}, err
	}
	score, err := s.memberScoreLocked(memberID, w)
	if err != nil {
		return scoring.Report{}, err
	}
	m, _ := s.snap.Member(memberID)
	return scoring.MemberReport(m, score, s.snap.Events), nil
}

func (s *StatsService) CohortReport(ctx context.Context, w scoring.Window) (scoring.Report, error) {
	c, err := s.Cohort(ctx, w)
	if err != nil {
		return scoring.Report{}, err
	}
	return scoring.CohortReport(c), nil
}

func (s *StatsService) EventReport(ctx context.Context, eventID string) (scoring.Report, error) {
	e, err := s.store.Events.Get(ctx, eventID)
	if err != nil {
		return scoring.Report{}, err
	}
	return scoring.EventReport(*e), nil
}

func logAnomalies(event string, w scoring.Window, anomalies []scoring.Anomaly) {
	if len(anomalies) == 0 {
		return
	}
	logger.Warn(event+".anomalies", "window", w.String(), "count", len(anomalies))
	for _, a := range anomalies {
		logger.Debug(event+".anomaly", "kind", a.Kind, "event", a.EventID, "member", a.MemberID, "detail", a.Detail)
	}
}
