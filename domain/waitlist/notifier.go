package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"github.com/akeren/waitlist-api/pkg/worker"
)

// Notifier hands a confirmation to background delivery. Dispatch never
// blocks and never reports failure to the caller.
type Notifier interface {
	Dispatch(ctx context.Context, c Confirmation)
}

// Submitter is the part of worker.Pool the notifier needs.
type Submitter interface {
	Submit(name string, task worker.Task) error
}

type NotifierConfig struct {
	SendTimeout time.Duration
	Breaker     circuitbreaker.CircuitBreaker
	Metrics     *Metrics
}

// ConfirmationNotifier delivers at most once: queue overflow, render errors,
// send errors and an open circuit are logged and counted, never retried.
type ConfirmationNotifier struct {
	logger      *log.Logger
	workers     Submitter
	mailer      mailer.Mailer
	renderer    *EmailRenderer
	breaker     circuitbreaker.CircuitBreaker
	metrics     *Metrics
	sendTimeout time.Duration
}

func NewConfirmationNotifier(logger *log.Logger, workers Submitter, m mailer.Mailer, renderer *EmailRenderer, cfg NotifierConfig) *ConfirmationNotifier {
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
			Name:             "mailer",
			FailureThreshold: 5,
			RecoveryTimeout:  time.Minute,
			OnStateChange: func(name string, from, to circuitbreaker.CircuitState) {
				logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}

	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}

	return &ConfirmationNotifier{
		logger:      logger,
		workers:     workers,
		mailer:      m,
		renderer:    renderer,
		breaker:     breaker,
		metrics:     cfg.Metrics,
		sendTimeout: sendTimeout,
	}
}

func (n *ConfirmationNotifier) Dispatch(ctx context.Context, c Confirmation) {
	logger := log.GetLoggerInstanceFromContext(ctx, n.logger)

	err := n.workers.Submit("confirmation-email", func(taskCtx context.Context) {
		n.deliver(taskCtx, logger, c)
	})
	if err != nil {
		n.metrics.notification(resultDropped)
		logger.Warn("Confirmation email not scheduled", "email", c.Email, "error", err)
	}
}

func (n *ConfirmationNotifier) deliver(ctx context.Context, logger *log.Logger, c Confirmation) {
	msg, err := n.renderer.Render(c)
	if err != nil {
		n.metrics.notification(resultFailed)
		logger.Error("Failed to render confirmation email", "email", c.Email, "error", err)
		return
	}

	err = n.breaker.Call(func() error {
		sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
		defer cancel()
		return n.mailer.Send(sendCtx, msg)
	})

	switch {
	case err == nil:
		n.metrics.notification(resultSent)
		logger.Info("Confirmation email sent", "email", c.Email, "is_new_user", c.IsNewUser)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		n.metrics.notification(resultDropped)
		logger.Warn("Confirmation email skipped: mail transport circuit open", "email", c.Email)
	default:
		n.metrics.notification(resultFailed)
		logger.Error("Failed to send confirmation email", "email", c.Email, "error", err)
	}
}
