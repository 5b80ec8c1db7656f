package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	IsHealthy() bool
}

// HealthHandler answers liveness checks.
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a HealthHandler. db may be nil.
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health returns OK while the database connection is healthy (GET /health).
func (h *HealthHandler) Health(c echo.Context) error {
	if h.db != nil && !h.db.IsHealthy() {
		return c.String(http.StatusServiceUnavailable, "UNAVAILABLE")
	}
	return c.String(http.StatusOK, "OK")
}
