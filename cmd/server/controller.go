package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/septivank/device-fingerprint-api/internal/config"
	"github.com/septivank/device-fingerprint-api/internal/handler"
	"github.com/septivank/device-fingerprint-api/internal/middleware"
)

// RegisterRoutes registers HTTP routes on the provided Gin engine
func RegisterRoutes(r *gin.Engine, fingerprintHandler *handler.FingerprintHandler, healthHandler *handler.HealthHandler, logger *zap.Logger, cfg *config.Config) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))

	// Health endpoint (without service prefix for K8s probes)
	r.GET("/health", healthHandler.Check)

	basePath := r.Group("/" + cfg.ServiceName)
	{
		basePath.GET("/health", healthHandler.Check)

		api := basePath.Group("/api/v1")
		{
			fingerprints := api.Group("/fingerprints")
			{
				fingerprints.POST("", fingerprintHandler.Compute)
				fingerprints.POST("/verify", fingerprintHandler.Verify)
			}
		}
	}
}
