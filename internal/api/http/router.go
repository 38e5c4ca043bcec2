package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helpdeskpro/helpdesk/internal/api/http/handlers"
	"github.com/helpdeskpro/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Tickets         *handlers.TicketsHandler
	Comments        *handlers.CommentsHandler
	Sweep           *handlers.SweepHandler
	AuthMiddleware  *auth.Middleware
	MetricsGatherer prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsGatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	comments := app.Group("/comments", cfg.AuthMiddleware.Handle)
	comments.Get("/", cfg.Comments.ListComments)
	comments.Post("/", cfg.Comments.CreateComment)

	// The sweep trigger authenticates with its own shared secret, not a
	// user token, so it stays outside the auth middleware.
	app.Post("/cron/reminders", cfg.Sweep.Run)
}
