// Package notify delivers email notifications. Delivery is best-effort and
// always decoupled from the operation that triggered it: failures are
// logged and counted, never surfaced, never retried.
package notify

import "context"

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Notifier sends a single email. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Send(ctx context.Context, email Email) error
}
