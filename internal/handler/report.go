package handler

import (
	"mime"
	"net/http"

	"choir-attendance/internal/middleware"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	stats  *service.StatsService
	teams  *service.TeamService
	export *service.ExportService
}

func NewReportHandler(stats *service.StatsService, teams *service.TeamService, export *service.ExportService) *ReportHandler {
	return &ReportHandler{stats: stats, teams: teams, export: export}
}

func (h *ReportHandler) Me(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if u.MemberID == "" {
		fail(c, service.ErrForbidden)
		return
	}
	h.member(c, u.MemberID)
}

func (h *ReportHandler) Member(c *gin.Context) { h.member(c, c.Param("id")) }

func (h *ReportHandler) member(c *gin.Context, memberID string) {
	w, ok := window(c, h.stats.Now())
	if !ok {
		return
	}
	r, err := h.stats.MemberReport(c.Request.Context(), memberID, w)
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, r)
}

func (h *ReportHandler) Cohort(c *gin.Context) {
	w, ok := window(c, h.stats.Now())
	if !ok {
		return
	}
	r, err := h.stats.CohortReport(c.Request.Context(), w)
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, r)
}

func (h *ReportHandler) Event(c *gin.Context) {
	r, err := h.stats.EventReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, r)
}

// Teams is the roster sheet for ?type=sunday|marriage.
func (h *ReportHandler) Teams(c *gin.Context) {
	r, err := h.teams.Report(c.Request.Context(), model.TeamType(c.DefaultQuery("type", string(model.TeamSunday))))
	if err != nil {
		fail(c, err)
		return
	}
	h.render(c, r)
}

// render answers with ?format=json or, by default, an xlsx download.
func (h *ReportHandler) render(c *gin.Context, r scoring.Report) {
	switch c.DefaultQuery("format", "xlsx") {
	case "json":
		c.JSON(http.StatusOK, r)
	case "xlsx":
		data, err := h.export.Bytes(r)
		if err != nil {
			fail(c, err)
			return
		}
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": h.export.Filename(r)}))
		c.Data(http.StatusOK, xlsxContentType, data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or xlsx"})
	}
}
