package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-content-forge/internal/service"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	db      pinger
	queue   interface{ Pending() int }
}

// NewMetricsHandler constructs a metrics handler. db and queue may be nil.
func NewMetricsHandler(metrics *service.MetricsService, db pinger, queue interface{ Pending() int }) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, db: db, queue: queue}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the database answers.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Stats godoc
// @Summary Pipeline counters since process start
// @Tags Observability
// @Produce json
// @Success 200 {object} models.PipelineStats
// @Router /stats [get]
func (h *MetricsHandler) Stats(c *gin.Context) {
	stats := h.metrics.Snapshot()
	body := gin.H{"stats": stats}
	if h.queue != nil {
		body["queue_pending"] = h.queue.Pending()
	}
	c.JSON(http.StatusOK, body)
}
