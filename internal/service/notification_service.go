package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdeskpro/helpdesk/internal/events"
	"github.com/helpdeskpro/helpdesk/internal/notify"
)

// NotificationService translates domain events into emails and hands them
// to the async mailer. It runs entirely off the request path: by the time
// a handler fires, the primary write has already committed.
type NotificationService struct {
	dispatcher events.Dispatcher
	queue      notify.Queue
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, queue notify.Queue, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		queue:      queue,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the events that carry notifications.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketClosed)
	n.dispatcher.Subscribe(events.EventAgentReplied, n.handleAgentReplied)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for ticket_created", zap.String("ticket_id", event.TicketID))
		return nil
	}
	n.queue.Enqueue(notify.TicketCreatedEmail(payload.OwnerEmail, payload.Title, event.TicketID))
	return nil
}

func (n *NotificationService) handleTicketClosed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for ticket_closed", zap.String("ticket_id", event.TicketID))
		return nil
	}
	n.queue.Enqueue(notify.TicketClosedEmail(payload.OwnerEmail, payload.Title))
	return nil
}

func (n *NotificationService) handleAgentReplied(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AgentRepliedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for agent_replied", zap.String("ticket_id", event.TicketID))
		return nil
	}
	n.queue.Enqueue(notify.AgentReplyEmail(payload.OwnerEmail, payload.Title, payload.Message))
	return nil
}
