package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func router(tokens *Tokens) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", tokens.JWTAuth())
	api.GET("/me", func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, u)
	})
	api.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAndRoles(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tokens := NewTokens("test-secret", 7*24*time.Hour, clk)
	r := router(tokens)

	member, err := tokens.Issue(User{ID: "acct-1", Name: "Ann", Role: model.RoleMember, MemberID: "m-1"})
	require.NoError(t, err)
	admin, err := tokens.Issue(User{ID: "acct-2", Name: "Admin", Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", "garbage").Code)

	w := get(r, "/api/me", member)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"acct-1","name":"Ann","role":"member","member_id":"m-1"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-New-Token"))

	assert.Equal(t, http.StatusForbidden, get(r, "/api/admin", member).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/api/admin", admin).Code)

	other := NewTokens("other-secret", time.Hour, clk)
	forged, err := other.Issue(User{ID: "x", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/admin", forged).Code)
}

func TestJWTRefreshAndExpiry(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tokens := NewTokens("test-secret", 7*24*time.Hour, clk)
	r := router(tokens)
	token, err := tokens.Issue(User{ID: "acct-1", Name: "Ann", Role: model.RoleMember})
	require.NoError(t, err)

	clk.Advance(6*24*time.Hour + time.Hour)
	w := get(r, "/api/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := w.Header().Get("X-New-Token")
	require.NotEmpty(t, fresh)
	_, exp, err := tokens.Parse(fresh)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(7*24*time.Hour).Unix(), exp.Unix())

	clk.Advance(24 * time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", token).Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/me", fresh).Code)
}
