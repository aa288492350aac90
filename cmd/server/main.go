package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/septivank/device-fingerprint-api/internal/config"
	"github.com/septivank/device-fingerprint-api/internal/handler"
	"github.com/septivank/device-fingerprint-api/internal/mq"
	"github.com/septivank/device-fingerprint-api/internal/service"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	if cfg.GinMode == "release" || cfg.GinMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	return gin.New()
}

// newEventPublisher connects to RabbitMQ, or falls back to a no-op publisher
// when no broker is configured.
func newEventPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (service.EventPublisher, error) {
	if !cfg.PublishingEnabled() {
		logger.Warn("RABBITMQ_URL not set, fingerprint events will not be published")
		return service.NopPublisher{}, nil
	}

	publisher, err := mq.NewPublisher(mq.Options{
		URL:            cfg.RabbitMQURL,
		Exchange:       cfg.RabbitMQExchange,
		MaxRetries:     cfg.RabbitMQMaxRetries,
		RetryBaseDelay: cfg.RabbitMQRetryDelay,
		ConfirmTimeout: cfg.PublishConfirmTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := publisher.Close(); err != nil {
				logger.Error("rabbitmq publisher close error", zap.Error(err))
			}
			return nil
		},
	})

	return publisher, nil
}

func newFingerprintService(publisher service.EventPublisher, logger *zap.Logger, cfg *config.Config) *service.FingerprintService {
	return service.NewFingerprintService(publisher, logger, cfg.RabbitMQRoutingKey)
}

func main() {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newEventPublisher,
			newFingerprintService,
			handler.NewFingerprintHandler,
			handler.NewHealthHandler,
			NewRouter,
		),
		fx.Invoke(func(logger *zap.Logger, cfg *config.Config) {
			logger.Info("Configuration loaded",
				zap.String("service", cfg.ServiceName),
				zap.Int("port", cfg.ServicePort),
				zap.Bool("publishing", cfg.PublishingEnabled()),
			)
		}),
		fx.Invoke(startServer),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerStartTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		panic(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerStopTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Println("error stopping app:", err)
	}
}

func startServer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger, fingerprintHandler *handler.FingerprintHandler, healthHandler *handler.HealthHandler, router *gin.Engine) {
	RegisterRoutes(router, fingerprintHandler, healthHandler, logger, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServicePort),
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting http server", zap.Int("port", cfg.ServicePort))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down service...")
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("http server shutdown error", zap.Error(err))
			}
			logger.Info("service stopped")
			return nil
		},
	})
}
