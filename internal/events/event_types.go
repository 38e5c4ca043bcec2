package events

import (
	"time"

	"github.com/helpdeskpro/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketClosed  EventType = "ticket_closed"
	EventAgentReplied  EventType = "agent_replied"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services after the primary
// write has committed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries what the creation notification needs.
type TicketCreatedPayload struct {
	Title      string `json:"title"`
	OwnerEmail string `json:"owner_email"`
}

// TicketClosedPayload carries what the closed notification needs.
type TicketClosedPayload struct {
	Title      string `json:"title"`
	OwnerEmail string `json:"owner_email"`
}

// AgentRepliedPayload carries what the reply notification needs.
type AgentRepliedPayload struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	OwnerEmail string `json:"owner_email"`
}
