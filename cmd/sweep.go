package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helpdeskpro/helpdesk/internal/cache"
	"github.com/helpdeskpro/helpdesk/internal/config"
	"github.com/helpdeskpro/helpdesk/internal/notify"
	"github.com/helpdeskpro/helpdesk/internal/observability"
	"github.com/helpdeskpro/helpdesk/internal/persistence"
	"github.com/helpdeskpro/helpdesk/internal/repository"
	"github.com/helpdeskpro/helpdesk/internal/service"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one stale-ticket reminder pass and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger, err := observability.NewLogger(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to init logger: %v", err)
		}
		defer logger.Sync() //nolint:errcheck

		ctx := context.Background()
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()

		pool := pg.PoolHandle()
		sweep := service.NewSweepService(service.SweepDependencies{
			TicketRepo: repository.NewTicketRepository(pool),
			UserRepo:   repository.NewUserRepository(pool),
			UserCache:  cache.NewUserSummaries(redis.Client),
			Notifier:   notify.NewSMTPNotifier(cfg.SMTP),
			Logger:     logger,
			Config:     cfg.Sweep,
		})

		report, err := sweep.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("sweep report",
			zap.Int("tickets_checked", report.TicketsChecked),
			zap.Int("emails_sent", report.EmailsSent),
		)
		return nil
	},
}
