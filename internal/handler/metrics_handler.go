package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	sessions interface{ Len() int }
}

// NewMetricsHandler constructs a metrics handler. sessions may be nil.
func NewMetricsHandler(metrics *service.MetricsService, sessions interface{ Len() int }) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, sessions: sessions}
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

// Ready reports readiness along with the number of open edit sessions.
func (h *MetricsHandler) Ready(c *gin.Context) {
	body := gin.H{"status": "ready"}
	if h.sessions != nil {
		body["edit_sessions"] = h.sessions.Len()
	}
	c.JSON(http.StatusOK, body)
}
