package handler

import (
	"net/http"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct{ attendance *service.AttendanceService }

func NewEventHandler(attendance *service.AttendanceService) *EventHandler {
	return &EventHandler{attendance: attendance}
}

// List is the attendance log: ?category=&q=&page=&page_size=
func (h *EventHandler) List(c *gin.Context) {
	category := model.Category(c.Query("category"))
	if category == "all" {
		category = ""
	}
	page, err := h.attendance.Log(c.Request.Context(), service.LogFilter{
		Category: category,
		Search:   c.Query("q"),
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "page_size"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.attendance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	e := req.Event()
	if err := h.attendance.Save(c.Request.Context(), &e); err != nil {
		logger.Warn("event.rejected", "date", req.Date, "category", req.Category, "err", err)
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req model.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	e := req.Event()
	e.ID = c.Param("id")
	if err := h.attendance.Update(c.Request.Context(), &e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkMark returns the marks with every unmarked member filled in. Nothing
// is saved.
func (h *EventHandler) BulkMark(c *gin.Context) {
	var req model.BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.attendance.BulkMark(c.Request.Context(), req.Records, service.BulkMode(req.Mode))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": out})
}
