package handlers

import (
	"net/http"
	"time"

	"farmmarket/internal/repositories"

	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db      repositories.Database
	version string
}

func NewHealthHandlers(db repositories.Database, version string) *HealthHandlers {
	return &HealthHandlers{db: db, version: version}
}

func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	var one int
	if err := h.db.QueryRow(c.Request().Context(), "SELECT 1").Scan(&one); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":    status,
		"database":  dbStatus,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
