package service

import (
	"context"

	"github.com/helpdeskpro/helpdesk/internal/cache"
	"github.com/helpdeskpro/helpdesk/internal/domain"
	"github.com/helpdeskpro/helpdesk/internal/repository"
	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// userResolver populates bare user references into embedded summaries on
// read paths. Lookups go through the redis cache first; misses fall back
// to the users table and refill the cache.
type userResolver struct {
	users repository.UserRepository
	cache *cache.UserSummaries
}

func (r *userResolver) resolve(ctx context.Context, id string) (*domain.UserSummary, error) {
	if summary, ok := r.cache.Get(ctx, id); ok {
		return summary, nil
	}
	user, err := r.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := user.Summary()
	r.cache.Set(ctx, summary)
	return &summary, nil
}

// populateTicket resolves createdBy and assignedTo in place.
func (r *userResolver) populateTicket(ctx context.Context, ticket *domain.Ticket) error {
	owner, err := r.resolve(ctx, ticket.CreatedBy.ID)
	if err != nil {
		return err
	}
	ticket.CreatedBy.User = owner

	if ticket.AssignedTo != nil {
		assignee, err := r.resolve(ctx, ticket.AssignedTo.ID)
		if err != nil {
			return err
		}
		ticket.AssignedTo.User = assignee
	}
	return nil
}

// populateComment resolves the author in place.
func (r *userResolver) populateComment(ctx context.Context, comment *domain.Comment) error {
	author, err := r.resolve(ctx, comment.Author.ID)
	if err != nil {
		return err
	}
	comment.Author.User = author
	return nil
}
