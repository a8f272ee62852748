package handler

import (
	"errors"
	"net/http"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/middleware"
	"choir-attendance/internal/model"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth    *service.AuthService
	members *service.MemberService
	tokens  *middleware.Tokens
}

func NewAuthHandler(auth *service.AuthService, members *service.MemberService, tokens *middleware.Tokens) *AuthHandler {
	return &AuthHandler{auth: auth, members: members, tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		fail(c, err)
		return
	}

	u := middleware.User{ID: a.ID, Name: a.Name, Role: a.Role}
	if a.MemberID != nil {
		u.MemberID = *a.MemberID
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("login.ok", "uid", a.ID, "name", a.Name, "role", a.Role)

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.User{ID: a.ID, Username: a.Username, Name: a.Name, Role: a.Role, MemberID: u.MemberID},
	})
}

// Me returns the caller's account and, for members, their profile.
func (h *AuthHandler) Me(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	a, err := h.auth.Account(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, err)
		return
	}
	out := model.User{ID: a.ID, Username: a.Username, Name: a.Name, Role: a.Role, MemberID: u.MemberID}
	if u.MemberID != "" {
		m, err := h.members.Get(c.Request.Context(), u.MemberID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			fail(c, err)
			return
		}
		out.Member = m
	}
	c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u, _ := middleware.CurrentUser(c)
	if err := h.auth.ChangePassword(c.Request.Context(), u.ID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	logger.Info("password.changed", "uid", u.ID)
	c.Status(http.StatusNoContent)
}

// UpdateProfile lets a member edit their own record.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if u.MemberID == "" {
		fail(c, service.ErrForbidden)
		return
	}
	var m model.Member
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.members.UpdateProfile(c.Request.Context(), u.MemberID, &m)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
