package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/helpdeskpro/helpdesk/internal/api/http"
	"github.com/helpdeskpro/helpdesk/internal/api/http/handlers"
	"github.com/helpdeskpro/helpdesk/internal/auth"
	"github.com/helpdeskpro/helpdesk/internal/cache"
	"github.com/helpdeskpro/helpdesk/internal/config"
	"github.com/helpdeskpro/helpdesk/internal/events"
	"github.com/helpdeskpro/helpdesk/internal/notify"
	"github.com/helpdeskpro/helpdesk/internal/observability"
	"github.com/helpdeskpro/helpdesk/internal/persistence"
	"github.com/helpdeskpro/helpdesk/internal/repository"
	"github.com/helpdeskpro/helpdesk/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	userCache := cache.NewUserSummaries(redis.Client)

	mailer := notify.NewMailer(notify.NewSMTPNotifier(cfg.SMTP), logger, metrics)
	mailer.Start()
	defer mailer.Close()

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, mailer, logger).RegisterHandlers()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		UserRepo:    userRepo,
		UserCache:   userCache,
		Dispatcher:  dispatcher,
	})
	sweepService := service.NewSweepService(service.SweepDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		UserCache:  userCache,
		Notifier:   notify.NewSMTPNotifier(cfg.SMTP),
		Logger:     logger,
		Config:     cfg.Sweep,
	})

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthDeps := map[string]handlers.Pinger{"redis": redis}
	if pool != nil {
		healthDeps["postgres"] = pool
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(healthDeps),
		Users:           handlers.NewUsersHandler(authService),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Comments:        handlers.NewCommentsHandler(ticketService),
		Sweep:           handlers.NewSweepHandler(sweepService, cfg.Sweep.Secret),
		AuthMiddleware:  authMiddleware,
		MetricsGatherer: registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	return app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
