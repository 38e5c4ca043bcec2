package dto

import (
	"time"

	"github.com/helpdeskpro/helpdesk/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	TicketID string `json:"ticketId"`
	Message  string `json:"message"`
}

// CommentResponse is the populated comment shape.
type CommentResponse struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticketId"`
	Author    *domain.UserSummary `json:"author"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// NewCommentResponse maps a populated domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		Author:    comment.Author.User,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
