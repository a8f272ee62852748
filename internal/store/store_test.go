package store_test

import (
	"context"
	"testing"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/model"
	"choir-attendance/internal/store"
	"choir-attendance/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newStore(t *testing.T) *store.Store {
	return storetest.New(t, clock.Fake(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)))
}

func TestMemberCRUD(t *testing.T) {
	s := newStore(t)
	m := &model.Member{Name: "Mary", Gender: model.GenderFemale, Phone: "1"}
	a := &model.Account{Username: "mary@example.org", Name: "Mary", Role: model.RoleMember}
	require.NoError(t, s.Members.CreateWithAccount(ctx, m, a))
	require.NotEmpty(t, m.ID)
	require.NotNil(t, a.MemberID)
	assert.Equal(t, m.ID, *a.MemberID)

	m.Phone = "2"
	m.IsOrganist = true
	require.NoError(t, s.Members.Update(ctx, m))
	got, err := s.Members.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", got.Phone)
	assert.True(t, got.IsOrganist)

	require.NoError(t, s.Members.Delete(ctx, m.ID))
	_, err = s.Members.Get(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Accounts.ByMember(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Members.Delete(ctx, m.ID), store.ErrNotFound)
}

func TestEventReplaceKeepsRecordOrder(t *testing.T) {
	s := newStore(t)
	e := &model.AttendanceEvent{Date: "2026-01-04", Category: model.CategorySundayMorningMass, Records: []model.AttendanceRecord{
		{MemberID: "b", MemberName: "Bea", Status: model.StatusPresent},
		{MemberID: "a", MemberName: "Ann", Status: model.StatusAbsent},
	}}
	require.NoError(t, s.Events.Create(ctx, e))

	got, err := s.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "b", got.Records[0].MemberID)

	e.Category = model.CategoryDailyMass
	e.Records = []model.AttendanceRecord{
		{MemberID: "c", MemberName: "Cat", Status: model.StatusExcused, Reason: "travel"},
		{MemberID: "a", MemberName: "Ann", Status: model.StatusPresent},
		{MemberID: "b", MemberName: "Bea", Status: model.StatusPresent},
	}
	require.NoError(t, s.Events.Replace(ctx, e))

	got, err = s.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDailyMass, got.Category)
	require.Len(t, got.Records, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got.Records[0].MemberID, got.Records[1].MemberID, got.Records[2].MemberID})
	assert.Equal(t, "travel", got.Records[0].Reason)

	missing := &model.AttendanceEvent{ID: "nope", Date: "2026-01-04", Category: model.CategoryDailyMass}
	assert.ErrorIs(t, s.Events.Replace(ctx, missing), store.ErrNotFound)

	require.NoError(t, s.Events.Delete(ctx, e.ID))
	_, err = s.Events.Get(ctx, e.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEventsListedNewestFirst(t *testing.T) {
	s := newStore(t)
	for _, d := range []string{"2026-01-04", "2026-02-01", "2025-12-25"} {
		require.NoError(t, s.Events.Create(ctx, &model.AttendanceEvent{Date: d, Category: model.CategorySundayMorningMass}))
	}
	es, err := s.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, es, 3)
	assert.Equal(t, "2026-02-01", es[0].Date)
	assert.Equal(t, "2025-12-25", es[2].Date)
}

func TestTeams(t *testing.T) {
	s := newStore(t)
	team := &model.Team{Name: "Team A", Type: model.TeamSunday}
	require.NoError(t, s.Teams.Create(ctx, team))
	require.NoError(t, s.Teams.Create(ctx, &model.Team{Name: "Wedding", Type: model.TeamMarriage}))

	team.MemberIDs = []string{"m1", "m2"}
	require.NoError(t, s.Teams.Update(ctx, team))

	sunday, err := s.Teams.List(ctx, model.TeamSunday)
	require.NoError(t, err)
	require.Len(t, sunday, 1)
	assert.Equal(t, []string{"m1", "m2"}, sunday[0].MemberIDs)

	all, err := s.Teams.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, s.Teams.Update(ctx, &model.Team{ID: "nope", Name: "x"}), store.ErrNotFound)
	require.NoError(t, s.Teams.Delete(ctx, team.ID))
	assert.ErrorIs(t, s.Teams.Delete(ctx, team.ID), store.ErrNotFound)
}

func TestSnapshotVersionTracksContent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Members.Create(ctx, &model.Member{Name: "Ann", Phone: "1"}))
	require.NoError(t, s.Events.Create(ctx, &model.AttendanceEvent{Date: "2026-01-04", Category: model.CategorySundayMorningMass}))

	first, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, first.Members, 1)
	assert.Len(t, first.Events, 1)

	again, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Version(first), store.Version(again))

	require.NoError(t, s.Events.Create(ctx, &model.AttendanceEvent{Date: "2026-01-11", Category: model.CategorySundayMorningMass}))
	later, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, store.Version(first), store.Version(later))
	assert.Len(t, store.Version(later), 64)
}

func TestBrokerPublishesWrites(t *testing.T) {
	s := newStore(t)
	ch, unsubscribe := s.Broker.Subscribe()
	defer unsubscribe()

	m := &model.Member{Name: "Ann", Phone: "1"}
	require.NoError(t, s.Members.Create(ctx, m))
	c := <-ch
	assert.Equal(t, store.KindMember, c.Kind)
	assert.Equal(t, store.OpCreate, c.Op)
	assert.Equal(t, m.ID, c.ID)
	assert.Equal(t, 2026, c.At.Year())
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := store.NewBroker(clock.Fake(time.Unix(0, 0)))
	ch, unsubscribe := b.Subscribe()
	for i := 0; i < 100; i++ {
		b.Publish(store.KindEvent, store.OpUpdate, "e")
	}
	assert.Equal(t, 16, len(ch))

	unsubscribe()
	unsubscribe()
	b.Publish(store.KindEvent, store.OpUpdate, "e")
	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, 16, n)
}
