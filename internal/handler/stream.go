package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/middleware"
	"choir-attendance/internal/store"

	"github.com/gin-gonic/gin"
)

const keepAlive = 25 * time.Second

type StreamHandler struct{ broker *store.Broker }

func NewStreamHandler(broker *store.Broker) *StreamHandler { return &StreamHandler{broker: broker} }

type sseWriter struct {
	w http.Flusher
	f gin.ResponseWriter
}

func (s *sseWriter) event(name string, data any) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.f, "event: %s\ndata: %s\n\n", name, j)
	s.w.Flush()
}

func (s *sseWriter) ping() {
	fmt.Fprint(s.f, ": ping\n\n")
	s.w.Flush()
}

// Stream pushes a "change" event for every committed write so open
// dashboards can refetch.
func (h *StreamHandler) Stream(c *gin.Context) {
	changes, unsubscribe := h.broker.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	u, _ := middleware.CurrentUser(c)
	log := logger.With("uid", u.ID, "remote", c.ClientIP())
	log.Debug("stream.open")
	sent := 0
	defer func() { log.Debug("stream.close", "changes", sent) }()

	sse := &sseWriter{w: c.Writer, f: c.Writer}
	sse.event("ready", gin.H{})

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-changes:
			if !ok {
				return
			}
			sse.event("change", ch)
			sent++
		case <-ticker.C:
			sse.ping()
		}
	}
}
