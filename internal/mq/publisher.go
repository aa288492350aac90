package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	// ErrNotAcked is returned when the broker nacks a publishing.
	ErrNotAcked = errors.New("publish not acknowledged by broker")
	// ErrConfirmTimeout is returned when no confirm arrives within Options.ConfirmTimeout.
	ErrConfirmTimeout = errors.New("confirmation timeout")
)

// Options configures a Publisher.
type Options struct {
	URL            string
	Exchange       string
	MaxRetries     int
	RetryBaseDelay time.Duration
	ConfirmTimeout time.Duration
}

// Publisher publishes JSON events to a durable topic exchange with publisher confirms.
type Publisher struct {
	opts     Options
	logger   *zap.Logger
	dial     func(url string) (*amqp.Connection, error)
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
}

// confirmation is the part of *amqp.DeferredConfirmation Publish waits on.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// NewPublisher connects to RabbitMQ and declares the exchange
func NewPublisher(opts Options, logger *zap.Logger) (*Publisher, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	p := &Publisher{
		opts:   opts,
		logger: logger,
		dial:   amqp.Dial,
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Publisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLocked()

	conn, err := p.dial(p.opts.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(p.opts.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare exchange %q: %w", p.opts.Exchange, err)
	}

	if err := channel.Confirm(false); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable confirm mode: %w", err)
	}

	p.conn = conn
	p.channel = channel

	p.logger.Info("RabbitMQ publisher connected",
		zap.String("exchange", p.opts.Exchange),
	)

	return nil
}

func (p *Publisher) healthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil && !p.conn.IsClosed() && p.channel != nil && !p.channel.IsClosed()
}

// Publish marshals message to JSON and publishes it, retrying with exponential backoff
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, backoff(p.opts.RetryBaseDelay, attempt-1)); err != nil {
				return err
			}
		}

		if !p.healthy() {
			p.logger.Warn("Connection unhealthy, attempting reconnect",
				zap.Int("attempt", attempt),
			)
			if err := p.connect(); err != nil {
				lastErr = fmt.Errorf("reconnect failed: %w", err)
				continue
			}
		}

		if err := p.publishWithConfirm(ctx, routingKey, body); err != nil {
			lastErr = err
			p.logger.Warn("Publish attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", p.opts.MaxRetries),
				zap.Error(err),
			)
			continue
		}

		p.logger.Debug("Message published",
			zap.String("routing_key", routingKey),
			zap.Int("attempt", attempt),
		)
		return nil
	}

	return fmt.Errorf("failed to publish after %d attempts: %w", p.opts.MaxRetries, lastErr)
}

func (p *Publisher) publishWithConfirm(ctx context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	channel := p.channel
	p.mu.Unlock()

	if channel == nil {
		return errors.New("channel is nil")
	}

	// The deferred confirmation is bound to this publishing's delivery tag.
	dc, err := channel.PublishWithDeferredConfirmWithContext(ctx, p.opts.Exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         routingKey,
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	if dc == nil {
		return errors.New("channel is not in confirm mode")
	}

	return awaitConfirm(ctx, dc, p.opts.ConfirmTimeout)
}

func awaitConfirm(ctx context.Context, c confirmation, timeout time.Duration) error {
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ack, err := c.WaitContext(waitCtx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return ErrConfirmTimeout
	}
	if !ack {
		return ErrNotAcked
	}
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.closeLocked()
	p.logger.Info("RabbitMQ publisher closed")
	return err
}

func (p *Publisher) closeLocked() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			p.logger.Error("Failed to close channel", zap.Error(err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		conn := p.conn
		p.conn = nil
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

// backoff returns base * 2^(n-1) for the n-th retry.
func backoff(base time.Duration, n int) time.Duration {
	if n < 1 {
		return 0
	}
	return base * time.Duration(1<<uint(n-1))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
