package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any dependency the health check should reach
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a new health handler. checks maps a dependency
// name (database, cache) to its pinger; nil entries are skipped.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{checks: active}
}

// Health handles GET /health
// @Summary Health check
// @Description Returns the health status of the service and its dependencies
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "healthy",
		Message: "Service is running",
		Checks:  make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK

	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			response.Checks[name] = err.Error()
			response.Status = "unhealthy"
			response.Message = "A dependency is unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	c.JSON(status, response)
}

// Status handles GET /status
// @Summary Liveness probe
// @Tags Health
// @Produce plain
// @Success 200 {string} string "pong"
// @Router /status [get]
func (h *HealthHandler) Status(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}
