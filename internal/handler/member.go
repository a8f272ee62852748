package handler

import (
	"net/http"

	"choir-attendance/internal/model"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct{ members *service.MemberService }

func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

func (h *MemberHandler) List(c *gin.Context) {
	ms, err := h.members.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if ms == nil {
		ms = []model.Member{}
	}
	c.JSON(http.StatusOK, ms)
}

func (h *MemberHandler) Get(c *gin.Context) {
	m, err := h.members.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MemberHandler) Create(c *gin.Context) {
	var m model.Member
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.members.Create(c.Request.Context(), &m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MemberHandler) Update(c *gin.Context) {
	var m model.Member
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	m.ID = c.Param("id")
	if err := h.members.Update(c.Request.Context(), &m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.members.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) Celebrations(c *gin.Context) {
	out, err := h.members.Celebrations(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
