package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/helpdeskpro/helpdesk/internal/cache"
	"github.com/helpdeskpro/helpdesk/internal/config"
	"github.com/helpdeskpro/helpdesk/internal/notify"
	"github.com/helpdeskpro/helpdesk/internal/repository"
	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// SweepService runs the scheduled stale-ticket pass: tickets still open or
// in progress, assigned, and untouched past the cutoff get one reminder to
// their assignee per sweep. Mails are sent inline so the report reflects
// actual deliveries.
type SweepService struct {
	tickets  repository.TicketRepository
	resolver userResolver
	notifier notify.Notifier
	logger   *zap.Logger
	cfg      config.SweepConfig
}

// SweepDependencies bundles collaborators for the sweep service.
type SweepDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	UserCache  *cache.UserSummaries
	Notifier   notify.Notifier
	Logger     *zap.Logger
	Config     config.SweepConfig
}

// NewSweepService constructs the service.
func NewSweepService(deps SweepDependencies) *SweepService {
	return &SweepService{
		tickets:  deps.TicketRepo,
		resolver: userResolver{users: deps.UserRepo, cache: deps.UserCache},
		notifier: deps.Notifier,
		logger:   deps.Logger,
		cfg:      deps.Config,
	}
}

// SweepReport summarizes a sweep run.
type SweepReport struct {
	TicketsChecked int `json:"ticketsChecked"`
	EmailsSent     int `json:"emailsSent"`
}

// Run executes one sweep pass. Send failures are logged and skipped; they
// never abort the pass.
func (s *SweepService) Run(ctx context.Context) (SweepReport, error) {
	cutoff := s.cfg.StaleCutoff(time.Now())
	stale, err := s.tickets.ListStale(ctx, cutoff)
	if err != nil {
		return SweepReport{}, apperrors.MapError(err)
	}

	report := SweepReport{TicketsChecked: len(stale)}
	for i := range stale {
		ticket := &stale[i]
		if ticket.AssignedTo == nil {
			continue
		}
		assignee, err := s.resolver.resolve(ctx, ticket.AssignedTo.ID)
		if err != nil {
			s.logger.Warn("sweep: cannot resolve assignee",
				zap.String("ticket_id", ticket.ID),
				zap.String("assignee_id", ticket.AssignedTo.ID),
				zap.Error(err),
			)
			continue
		}

		email := notify.StaleTicketEmail(
			assignee.Email,
			assignee.Name,
			ticket.Title,
			string(ticket.Status),
			string(ticket.Priority),
			ticket.UpdatedAt,
		)
		if err := s.notifier.Send(ctx, email); err != nil {
			s.logger.Warn("sweep: reminder email failed",
				zap.String("ticket_id", ticket.ID),
				zap.String("to", assignee.Email),
				zap.Error(err),
			)
			continue
		}
		report.EmailsSent++
	}

	s.logger.Info("sweep complete",
		zap.Int("tickets_checked", report.TicketsChecked),
		zap.Int("emails_sent", report.EmailsSent),
	)
	return report, nil
}
