package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskpro/helpdesk/internal/cache"
	"github.com/helpdeskpro/helpdesk/internal/domain"
	"github.com/helpdeskpro/helpdesk/internal/events"
	"github.com/helpdeskpro/helpdesk/internal/lifecycle"
	"github.com/helpdeskpro/helpdesk/internal/policy"
	"github.com/helpdeskpro/helpdesk/internal/repository"
	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// TicketService coordinates ticket and comment workflows: authorization,
// lifecycle rules, persistence, and notification events.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	resolver   userResolver
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	UserCache   *cache.UserSummaries
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		resolver:   userResolver{users: deps.UserRepo, cache: deps.UserCache},
		dispatcher: deps.Dispatcher,
	}
}

// TicketListInput describes listing filters as received from the caller.
type TicketListInput struct {
	Status   *string
	Priority *string
}

// CreateTicketInput describes the ticket creation payload.
type CreateTicketInput struct {
	Title       string
	Description string
	Priority    string
}

// UpdateTicketInput describes a partial ticket update.
type UpdateTicketInput struct {
	Status     *string
	Priority   *string
	AssignedTo *string
}

// CreateCommentInput describes the comment creation payload.
type CreateCommentInput struct {
	TicketID string
	Message  string
}

// ListTickets returns tickets visible to the actor, newest first. Clients
// are scoped to their own tickets regardless of the supplied filters.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, input TicketListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{}
	if actor.IsClient() {
		owner := actor.ID
		filter.CreatedBy = &owner
	}
	if input.Status != nil {
		status, err := domain.ParseTicketStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if input.Priority != nil {
		priority, err := domain.ParseTicketPriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		filter.Priority = &priority
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range tickets {
		if err := s.resolver.populateTicket(ctx, &tickets[i]); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

// GetTicket fetches a single ticket, enforcing read access.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, id string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if err := s.resolver.populateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateTicket files a new ticket for a client actor. The owner is always
// the actor; any caller-supplied owner is ignored.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input CreateTicketInput) (*domain.Ticket, error) {
	if !policy.CanCreateTicket(actor) {
		return nil, apperrors.NewForbidden("only clients can create tickets")
	}

	ticket, err := domain.NewTicket(input.Title, input.Description, domain.TicketPriority(input.Priority), actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.resolver.populateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			OwnerEmail: ticket.CreatedBy.User.Email,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a partial agent update: status, priority and/or
// assignment. The lifecycle rules handle auto-assignment and detect the
// closed transition that notifies the owner.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Actor, id string, input UpdateTicketInput) (*domain.Ticket, error) {
	if !policy.CanUpdateTicket(actor) {
		return nil, apperrors.NewForbidden("only agents can update tickets")
	}

	ticket, err := s.fetchTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	update, err := s.parseUpdate(ctx, input)
	if err != nil {
		return nil, err
	}

	effect := lifecycle.Apply(ticket, actor.ID, update)
	if err := s.tickets.UpdateFields(ctx, ticket.ID, repository.TicketChanges{
		Status:     effect.Changes.Status,
		Priority:   effect.Changes.Priority,
		AssignedTo: effect.Changes.AssignedTo,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	// Re-read so the response carries the persisted state, including the
	// updated_at the write just refreshed.
	ticket, err = s.fetchTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.populateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	if effect.Closed {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketClosed,
			TicketID: ticket.ID,
			Actor:    events.Actor{ID: actor.ID, Role: actor.Role},
			Payload: events.TicketClosedPayload{
				Title:      ticket.Title,
				OwnerEmail: ticket.CreatedBy.User.Email,
			},
		})
	}
	return ticket, nil
}

// DeleteTicket removes a ticket. Comments are intentionally left in place;
// the product never cascaded them.
func (s *TicketService) DeleteTicket(ctx context.Context, actor domain.Actor, id string) error {
	if !policy.CanDeleteTicket(actor) {
		return apperrors.NewForbidden("only agents can delete tickets")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListComments returns the ticket's thread, oldest first.
func (s *TicketService) ListComments(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.Comment, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessThread(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range comments {
		if err := s.resolver.populateComment(ctx, &comments[i]); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// CreateComment appends a comment to a ticket's thread. Agent-authored
// comments notify the ticket's owner; client comments notify nobody.
func (s *TicketService) CreateComment(ctx context.Context, actor domain.Actor, input CreateCommentInput) (*domain.Comment, error) {
	comment, err := domain.NewComment(input.TicketID, actor.ID, input.Message)
	if err != nil {
		return nil, err
	}

	ticket, err := s.fetchTicket(ctx, input.TicketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessThread(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.resolver.populateComment(ctx, comment); err != nil {
		return nil, err
	}

	if actor.IsAgent() {
		owner, err := s.resolver.resolve(ctx, ticket.CreatedBy.ID)
		if err == nil {
			s.publish(ctx, events.Event{
				Type:     events.EventAgentReplied,
				TicketID: ticket.ID,
				Actor:    events.Actor{ID: actor.ID, Role: actor.Role},
				Payload: events.AgentRepliedPayload{
					Title:      ticket.Title,
					Message:    comment.Message,
					OwnerEmail: owner.Email,
				},
			})
		}
	}
	return comment, nil
}

func (s *TicketService) fetchTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// parseUpdate validates the raw payload into a lifecycle update. An
// explicit assignee must exist and hold the agent role.
func (s *TicketService) parseUpdate(ctx context.Context, input UpdateTicketInput) (lifecycle.Update, error) {
	var update lifecycle.Update
	if input.Status != nil {
		status, err := domain.ParseTicketStatus(*input.Status)
		if err != nil {
			return lifecycle.Update{}, err
		}
		update.Status = &status
	}
	if input.Priority != nil {
		priority, err := domain.ParseTicketPriority(*input.Priority)
		if err != nil {
			return lifecycle.Update{}, err
		}
		update.Priority = &priority
	}
	if input.AssignedTo != nil {
		assignee, err := s.resolver.resolve(ctx, *input.AssignedTo)
		if err != nil {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
				return lifecycle.Update{}, apperrors.NewNotFound("user", map[string]any{"user_id": *input.AssignedTo})
			}
			return lifecycle.Update{}, err
		}
		if assignee.Role != domain.RoleAgent {
			return lifecycle.Update{}, apperrors.NewValidationError("assignee must be an agent", map[string]any{"assignedTo": *input.AssignedTo})
		}
		update.AssignedTo = input.AssignedTo
	}
	return update, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
