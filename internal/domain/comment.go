package domain

import (
	"strings"
	"time"

	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// Comment is a threaded message on a ticket. Comments are append-only;
// there is no update or delete operation.
type Comment struct {
	ID        string
	TicketID  string
	Author    UserRef
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment validates and builds a comment. The parent ticket's existence
// is checked by the service layer before persisting.
func NewComment(ticketID, authorID, message string) (*Comment, error) {
	message = strings.TrimSpace(message)
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticketId is required", map[string]any{"field": "ticketId"})
	}
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", map[string]any{"field": "message"})
	}
	return &Comment{
		TicketID: ticketID,
		Author:   UserRef{ID: authorID},
		Message:  message,
	}, nil
}
