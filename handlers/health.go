package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and the last dependency snapshot.
type HealthHandler struct {
	Monitor HealthReporter
}

// NewHealthHandler wires GET /health.
func NewHealthHandler(m HealthReporter) *HealthHandler {
	return &HealthHandler{Monitor: m}
}

// Health always answers 200 while the process serves; dependency state is informational.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.Monitor != nil {
		body["dependencies"] = h.Monitor.Status()
	}
	c.JSON(http.StatusOK, body)
}
