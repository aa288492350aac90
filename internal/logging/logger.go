package logging

import (
	"go.uber.org/zap"
)

// NewLogger creates a structured logger tagged with the service name.
// Development mode uses zap's human-friendly console encoder.
func NewLogger(serviceName string, development bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	return config.Build()
}
