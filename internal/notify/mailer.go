package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/helpdeskpro/helpdesk/internal/observability"
)

// Queue accepts emails for eventual delivery.
type Queue interface {
	Enqueue(email Email)
}

// Mailer is the async delivery worker: a buffered channel drained by a
// single goroutine. Enqueue never blocks the request path; when the buffer
// is full the mail is dropped and logged, matching the at-most-one-attempt
// contract.
type Mailer struct {
	notifier Notifier
	logger   *zap.Logger
	metrics  *observability.Metrics

	queue chan Email
	done  chan struct{}
	once  sync.Once
}

// NewMailer builds the worker with a fixed buffer.
func NewMailer(notifier Notifier, logger *zap.Logger, metrics *observability.Metrics) *Mailer {
	return &Mailer{
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		queue:    make(chan Email, 256),
		done:     make(chan struct{}),
	}
}

// Start runs the delivery loop until Close is called.
func (m *Mailer) Start() {
	go func() {
		defer close(m.done)
		for email := range m.queue {
			err := m.notifier.Send(context.Background(), email)
			m.metrics.RecordEmail(err)
			if err != nil {
				m.logger.Warn("email delivery failed",
					zap.String("to", email.To),
					zap.String("subject", email.Subject),
					zap.Error(err),
				)
				continue
			}
			m.logger.Debug("email sent",
				zap.String("to", email.To),
				zap.String("subject", email.Subject),
			)
		}
	}()
}

// Enqueue hands an email to the worker without blocking.
func (m *Mailer) Enqueue(email Email) {
	select {
	case m.queue <- email:
	default:
		m.logger.Warn("mail queue full, dropping email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
		)
	}
}

// Close stops accepting mail and waits for the queue to drain.
func (m *Mailer) Close() {
	m.once.Do(func() {
		close(m.queue)
	})
	<-m.done
}
