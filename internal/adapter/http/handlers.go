package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler carries the endpoints that belong to no engine in particular.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// Health reports liveness for the load balancer probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "corebank",
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
