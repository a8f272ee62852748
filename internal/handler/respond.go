package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/service"

	"github.com/gin-gonic/gin"
)

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Error("request.failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// window reads ?year= (default: now's year) and the optional zero-based ?month=.
func window(c *gin.Context, now time.Time) (scoring.Window, bool) {
	year := now.Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return scoring.Window{}, false
		}
		year = y
	}
	v := c.Query("month")
	if v == "" || v == "all" {
		return scoring.YearWindow(year), true
	}
	m, err := strconv.Atoi(v)
	if err != nil || m < 0 || m > 11 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 0..11"})
		return scoring.Window{}, false
	}
	return scoring.MonthWindow(year, time.Month(m+1)), true
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
