package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/septivank/device-fingerprint-api/tools/fingerprint"
)

// ErrInvalidFingerprint is returned when a stored fingerprint is malformed.
var ErrInvalidFingerprint = errors.New("invalid fingerprint format")

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// ClientMetadata represents client information
type ClientMetadata struct {
	RequestID string // generated when empty
	IPAddress string
	UserAgent string
}

func (m ClientMetadata) requestID() string {
	if m.RequestID != "" {
		return m.RequestID
	}
	return uuid.New().String()
}

// FingerprintComputed is the event published for every computed fingerprint
type FingerprintComputed struct {
	RequestID   string `json:"request_id"`
	Fingerprint string `json:"fingerprint"`
	ClientIP    string `json:"client_ip"`
	UserAgent   string `json:"user_agent"`
	ComputedAt  string `json:"computed_at"`
}

// ComputeResult is returned by Compute
type ComputeResult struct {
	RequestID   string `json:"request_id"`
	Fingerprint string `json:"fingerprint"`
}

// VerifyResult is returned by Verify
type VerifyResult struct {
	RequestID string `json:"request_id"`
	Match     bool   `json:"match"`
}

// PublishError wraps a broker failure after a fingerprint was computed
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string { return "failed to publish event: " + e.Err.Error() }

func (e *PublishError) Unwrap() error { return e.Err }

// FingerprintService computes and verifies device fingerprints
type FingerprintService struct {
	publisher  EventPublisher
	logger     *zap.Logger
	routingKey string
	now        func() time.Time
}

// NewFingerprintService creates a new fingerprint service
func NewFingerprintService(publisher EventPublisher, logger *zap.Logger, routingKey string) *FingerprintService {
	return &FingerprintService{
		publisher:  publisher,
		logger:     logger,
		routingKey: routingKey,
		now:        time.Now,
	}
}

// Compute fingerprints the reported attributes and publishes a FingerprintComputed event
func (s *FingerprintService) Compute(ctx context.Context, report AttributeReport, metadata ClientMetadata) (ComputeResult, error) {
	requestID := metadata.requestID()

	env := NewReportedEnvironment(report, metadata.UserAgent)
	fp, err := fingerprint.Generate(ctx, env)
	if err != nil {
		s.logger.Warn("Failed to compute fingerprint",
			zap.String("request_id", requestID),
			zap.String("client_ip", metadata.IPAddress),
			zap.Error(err),
		)
		return ComputeResult{}, err
	}

	event := FingerprintComputed{
		RequestID:   requestID,
		Fingerprint: fp,
		ClientIP:    metadata.IPAddress,
		UserAgent:   metadata.UserAgent,
		ComputedAt:  s.now().UTC().Format(time.RFC3339),
	}

	if err := s.publisher.Publish(ctx, s.routingKey, event); err != nil {
		s.logger.Error("Failed to publish message",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return ComputeResult{}, &PublishError{Err: err}
	}

	s.logger.Info("Fingerprint computed",
		zap.String("request_id", requestID),
		zap.String("fingerprint", fp),
	)

	return ComputeResult{RequestID: requestID, Fingerprint: fp}, nil
}

// Verify checks a stored fingerprint against freshly reported attributes
func (s *FingerprintService) Verify(ctx context.Context, stored string, report AttributeReport, metadata ClientMetadata) (VerifyResult, error) {
	requestID := metadata.requestID()

	if !fingerprint.IsValid(stored) {
		return VerifyResult{}, fmt.Errorf("%w: expected %d lowercase hex characters", ErrInvalidFingerprint, fingerprint.Length)
	}

	env := NewReportedEnvironment(report, metadata.UserAgent)
	match, err := fingerprint.Validate(ctx, env, stored)
	if err != nil {
		s.logger.Warn("Failed to verify fingerprint",
			zap.String("request_id", requestID),
			zap.String("client_ip", metadata.IPAddress),
			zap.Error(err),
		)
		return VerifyResult{}, err
	}

	s.logger.Info("Fingerprint verified",
		zap.String("request_id", requestID),
		zap.Bool("match", match),
	)

	return VerifyResult{RequestID: requestID, Match: match}, nil
}
