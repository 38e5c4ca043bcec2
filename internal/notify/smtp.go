package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/helpdeskpro/helpdesk/internal/config"
)

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

// NewSMTPNotifier builds the notifier from transport settings.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers one HTML email. The context is accepted for interface
// symmetry; net/smtp has no cancellation hook.
func (n *SMTPNotifier) Send(_ context.Context, email Email) error {
	if n.cfg.Username == "" || n.cfg.Password == "" {
		return fmt.Errorf("smtp credentials not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTML)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	return smtp.SendMail(addr, auth, n.cfg.From, []string{email.To}, []byte(msg.String()))
}
