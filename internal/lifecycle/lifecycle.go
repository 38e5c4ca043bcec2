// Package lifecycle implements the ticket state rules: which status and
// priority values may be written, and the auto-assignment side effect of
// agent updates.
package lifecycle

import "github.com/helpdeskpro/helpdesk/internal/domain"

// Update is a partial mutation of a ticket. Nil fields are left unchanged.
type Update struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssignedTo *string
}

// Empty reports whether the update touches nothing.
func (u Update) Empty() bool {
	return u.Status == nil && u.Priority == nil && u.AssignedTo == nil
}

// Effect describes the outcome of applying an agent update.
type Effect struct {
	// Changes is the update to persist, including any auto-assignment.
	Changes Update
	// AutoAssigned is true when the acting agent was assigned as a side
	// effect rather than by explicit request.
	AutoAssigned bool
	// Closed is true when the update transitions a non-closed ticket to
	// closed; it drives the owner notification.
	Closed bool
}

// Apply computes the effect of an agent-initiated update on the ticket and
// mutates the ticket to its new state.
//
// Status transitions are deliberately permissive: any of the four states
// may be written from any other, matching the product's observed behavior.
// Priority carries no constraints at all.
//
// The first agent to touch an unassigned ticket takes it: the acting agent
// becomes the assignee even when the update only touches status or
// priority, and even when the payload names a different assignee. An
// explicit assignee in the payload applies only to tickets that already
// have one; an existing assignee is never displaced implicitly.
func Apply(ticket *domain.Ticket, agentID string, update Update) Effect {
	effect := Effect{Changes: update}

	if ticket.AssignedTo == nil {
		assignee := agentID
		effect.Changes.AssignedTo = &assignee
		effect.AutoAssigned = update.AssignedTo == nil || *update.AssignedTo != agentID
	}

	if update.Status != nil && *update.Status == domain.TicketStatusClosed &&
		ticket.Status != domain.TicketStatusClosed {
		effect.Closed = true
	}

	if effect.Changes.Status != nil {
		ticket.Status = *effect.Changes.Status
	}
	if effect.Changes.Priority != nil {
		ticket.Priority = *effect.Changes.Priority
	}
	if effect.Changes.AssignedTo != nil {
		ticket.AssignedTo = &domain.UserRef{ID: *effect.Changes.AssignedTo}
	}
	return effect
}
