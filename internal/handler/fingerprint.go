package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/septivank/device-fingerprint-api/internal/middleware"
	"github.com/septivank/device-fingerprint-api/internal/service"
	"github.com/septivank/device-fingerprint-api/tools/fingerprint"
)

// VerifyRequest is the payload of POST /fingerprints/verify
type VerifyRequest struct {
	Fingerprint string                  `json:"fingerprint" binding:"required"`
	Attributes  service.AttributeReport `json:"attributes"`
}

// FingerprintHandler handles fingerprint endpoints
type FingerprintHandler struct {
	service *service.FingerprintService
	logger  *zap.Logger
}

// NewFingerprintHandler creates a new fingerprint handler
func NewFingerprintHandler(service *service.FingerprintService, logger *zap.Logger) *FingerprintHandler {
	return &FingerprintHandler{
		service: service,
		logger:  logger,
	}
}

// Compute handles POST /api/v1/fingerprints
func (h *FingerprintHandler) Compute(c *gin.Context) {
	var report service.AttributeReport
	if err := c.ShouldBindJSON(&report); err != nil {
		h.invalidPayload(c, err)
		return
	}

	res, err := h.service.Compute(c.Request.Context(), report, clientMetadata(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Request = c.Request.WithContext(fingerprint.SetFingerprintToContext(c.Request.Context(), res.Fingerprint))

	c.JSON(http.StatusCreated, res)
}

// Verify handles POST /api/v1/fingerprints/verify
func (h *FingerprintHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	res, err := h.service.Verify(c.Request.Context(), req.Fingerprint, req.Attributes, clientMetadata(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *FingerprintHandler) invalidPayload(c *gin.Context, err error) {
	h.logger.Warn("Invalid request payload",
		zap.Error(err),
		zap.String("client_ip", getClientIP(c)),
	)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request payload",
		"details": err.Error(),
	})
}

func (h *FingerprintHandler) writeError(c *gin.Context, err error) {
	var fpErr *fingerprint.Error
	var pubErr *service.PublishError

	switch {
	case errors.Is(err, service.ErrInvalidFingerprint):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid fingerprint",
			"details": err.Error(),
		})
	case errors.As(err, &fpErr) && errors.Is(err, fingerprint.ErrSerializationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fpErr.Message,
		})
	case errors.As(err, &fpErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   fpErr.Message,
			"details": err.Error(),
		})
	case errors.As(err, &pubErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to publish fingerprint",
			"message": "Service temporarily unavailable",
		})
	default:
		h.logger.Error("Failed to process fingerprint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func clientMetadata(c *gin.Context) service.ClientMetadata {
	return service.ClientMetadata{
		RequestID: middleware.GetRequestID(c),
		IPAddress: getClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// getClientIP extracts the real client IP, respecting X-Forwarded-For
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ip, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(ip)
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return c.ClientIP()
}
