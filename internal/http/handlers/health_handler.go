// Health HTTP handler.
//
// Reports service health by issuing a trivial liveness probe against the
// document store. Read-only, side-effect-free, unauthenticated, and mounted
// outside the store-readiness guard so a degraded process can still report
// why it is unhealthy.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is the store probe consumed by the health endpoint.
// Implemented by repo.Store (nil-receiver safe).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the health endpoint body. Error is only present when
// the store probe failed.
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp,omitempty" example:"2025-01-01T10:00:00Z"`
	Error     string `json:"error,omitempty"`
}

// Health godoc
// @ID          health
// @Summary     Health check
// @Description Pings the document store and reports healthy/unhealthy. Always returns 200; the body carries the state.
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		ok(c, http.StatusOK, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	ok(c, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
