package handler

import (
	"net/http"
	"strconv"

	"choir-attendance/internal/middleware"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ stats *service.StatsService }

func NewStatsHandler(stats *service.StatsService) *StatsHandler { return &StatsHandler{stats: stats} }

// Me scores the caller over ?year=&month=.
func (h *StatsHandler) Me(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if u.MemberID == "" {
		fail(c, service.ErrForbidden)
		return
	}
	h.score(c, u.MemberID)
}

func (h *StatsHandler) Member(c *gin.Context) { h.score(c, c.Param("id")) }

func (h *StatsHandler) score(c *gin.Context, memberID string) {
	w, ok := window(c, h.stats.Now())
	if !ok {
		return
	}
	s, err := h.stats.MemberScore(c.Request.Context(), memberID, w)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": s, "categories": s.Categories(), "label": w.Label()})
}

func (h *StatsHandler) Cohort(c *gin.Context) {
	w, ok := window(c, h.stats.Now())
	if !ok {
		return
	}
	res, err := h.stats.Cohort(c.Request.Context(), w)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *StatsHandler) Years(c *gin.Context) {
	years, err := h.stats.Years(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// Months lists the zero-based months of ?year= that have events.
func (h *StatsHandler) Months(c *gin.Context) {
	year := h.stats.Now().Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = y
	}
	months, err := h.stats.Months(c.Request.Context(), year)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]int, len(months))
	for i, m := range months {
		out[i] = int(m) - 1
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": out})
}

func (h *StatsHandler) Activity(c *gin.Context) {
	w, ok := window(c, h.stats.Now())
	if !ok {
		return
	}
	a, err := h.stats.Activity(c.Request.Context(), w)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *StatsHandler) Reminder(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	r, err := h.stats.Reminder(c.Request.Context(), u.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
