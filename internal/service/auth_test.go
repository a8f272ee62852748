package service

import (
	"testing"
	"time"

	"choir-attendance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdminAndLogin(t *testing.T) {
	f := newFixture(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	created, err := f.auth.EnsureAdmin(ctx, "Admin@Choir.org", "secret1", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	a, err := f.auth.Login(ctx, "admin@choir.org", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, a.Role)
	assert.Nil(t, a.MemberID)

	created, err = f.auth.EnsureAdmin(ctx, "admin@choir.org", "secret2", "Admin")
	require.NoError(t, err)
	assert.False(t, created)
	_, err = f.auth.Login(ctx, "admin@choir.org", "secret1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = f.auth.Login(ctx, "nobody@choir.org", "secret2")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = f.auth.EnsureAdmin(ctx, "x@choir.org", "short", "X")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	m := &model.Member{Name: "Ann", Phone: "1", Email: "ann@choir.org"}
	require.NoError(t, f.members.Create(ctx, m))

	a, err := f.auth.Login(ctx, "ann@choir.org", "choirmember")
	require.NoError(t, err)
	require.NotNil(t, a.MemberID)
	assert.Equal(t, m.ID, *a.MemberID)

	assert.ErrorIs(t, f.auth.ChangePassword(ctx, a.ID, "wrong", "newpass"), ErrBadCredentials)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, a.ID, "choirmember", "abc"), ErrInvalidInput)
	require.NoError(t, f.auth.ChangePassword(ctx, a.ID, "choirmember", "newpass"))

	_, err = f.auth.Login(ctx, "ann@choir.org", "newpass")
	assert.NoError(t, err)
}
