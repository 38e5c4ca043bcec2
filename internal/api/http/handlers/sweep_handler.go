package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskpro/helpdesk/internal/service"
	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// SweepHandler exposes the scheduled reminder trigger. It is protected by
// a shared secret distinct from user tokens, so an external cron scheduler
// can hit it without a user account.
type SweepHandler struct {
	sweep  *service.SweepService
	secret string
}

// NewSweepHandler constructs the handler.
func NewSweepHandler(sweep *service.SweepService, secret string) *SweepHandler {
	return &SweepHandler{sweep: sweep, secret: secret}
}

// Run handles POST /cron/reminders.
func (h *SweepHandler) Run(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
		subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.secret)) != 1 {
		return apperrors.NewUnauthorized("invalid cron secret")
	}

	report, err := h.sweep.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
