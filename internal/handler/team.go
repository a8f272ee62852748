package handler

import (
	"net/http"

	"choir-attendance/internal/model"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct{ teams *service.TeamService }

func NewTeamHandler(teams *service.TeamService) *TeamHandler { return &TeamHandler{teams: teams} }

// List handles GET /api/teams?type=&q=
func (h *TeamHandler) List(c *gin.Context) {
	views, err := h.teams.List(c.Request.Context(), model.TeamType(c.Query("type")), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req model.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.teams.Create(c.Request.Context(), req.Name, req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	if len(req.Members) > 0 {
		if t, err = h.teams.Update(c.Request.Context(), t.ID, "", req.Members); err != nil {
			fail(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TeamHandler) Update(c *gin.Context) {
	var req model.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.teams.Update(c.Request.Context(), c.Param("id"), req.Name, req.Members)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unassigned handles GET /api/teams/unassigned?type=
func (h *TeamHandler) Unassigned(c *gin.Context) {
	ms, err := h.teams.Unassigned(c.Request.Context(), model.TeamType(c.Query("type")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}
