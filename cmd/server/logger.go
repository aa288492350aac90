package main

import (
	"go.uber.org/zap"

	"github.com/septivank/device-fingerprint-api/internal/config"
	"github.com/septivank/device-fingerprint-api/internal/logging"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName, cfg.IsDevelopment())
}
