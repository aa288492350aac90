package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/septivank/device-fingerprint-api/internal/config"
)

// HealthHandler handles health check endpoint
type HealthHandler struct {
	serviceName string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{serviceName: cfg.ServiceName}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
	})
}
