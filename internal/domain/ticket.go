package domain

import (
	"strings"
	"time"

	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ParseTicketStatus validates a status value.
func ParseTicketStatus(value string) (TicketStatus, error) {
	switch TicketStatus(value) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return TicketStatus(value), nil
	}
	return "", apperrors.NewValidationError("invalid status", map[string]any{"status": value})
}

// ParseTicketPriority validates a priority value.
func ParseTicketPriority(value string) (TicketPriority, error) {
	switch TicketPriority(value) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return TicketPriority(value), nil
	}
	return "", apperrors.NewValidationError("invalid priority", map[string]any{"priority": value})
}

// UserRef is a reference to a user that is either a bare id or populated
// with a summary, resolved explicitly on read paths.
type UserRef struct {
	ID   string
	User *UserSummary
}

// Populated reports whether the reference carries an embedded summary.
func (r UserRef) Populated() bool {
	return r.User != nil
}

// Ticket is the aggregate for support requests.
// CreatedBy always references a client-role user and never changes after
// creation. AssignedTo, when set, always references an agent.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedBy   UserRef
	AssignedTo  *UserRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTicket validates and builds a ticket for the given owner. Status is
// always open regardless of caller input.
func NewTicket(title, description string, priority TicketPriority, createdBy string) (*Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", map[string]any{"field": "description"})
	}
	if priority == "" {
		priority = TicketPriorityMedium
	}
	if _, err := ParseTicketPriority(string(priority)); err != nil {
		return nil, err
	}
	return &Ticket{
		Title:       title,
		Description: description,
		Status:      TicketStatusOpen,
		Priority:    priority,
		CreatedBy:   UserRef{ID: createdBy},
	}, nil
}
