package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type captureNotifier struct {
	mu     sync.Mutex
	sent   []Email
	failed int
	fail   bool
}

func (n *captureNotifier) Send(_ context.Context, email Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		n.failed++
		return errors.New("send failed")
	}
	n.sent = append(n.sent, email)
	return nil
}

func TestMailerDeliversQueuedEmail(t *testing.T) {
	notifier := &captureNotifier{}
	mailer := NewMailer(notifier, zap.NewNop(), nil)
	mailer.Start()

	mailer.Enqueue(Email{To: "a@example.com", Subject: "one"})
	mailer.Enqueue(Email{To: "b@example.com", Subject: "two"})
	mailer.Close()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.sent) != 2 {
		t.Fatalf("delivered %d emails, want 2", len(notifier.sent))
	}
	if notifier.sent[0].To != "a@example.com" || notifier.sent[1].To != "b@example.com" {
		t.Errorf("delivery order: %v", notifier.sent)
	}
}

func TestMailerSwallowsSendFailures(t *testing.T) {
	notifier := &captureNotifier{fail: true}
	mailer := NewMailer(notifier, zap.NewNop(), nil)
	mailer.Start()

	mailer.Enqueue(Email{To: "a@example.com"})
	mailer.Close()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.failed != 1 {
		t.Errorf("attempted %d sends, want 1", notifier.failed)
	}
}

func TestMailerCloseIsIdempotent(t *testing.T) {
	mailer := NewMailer(&captureNotifier{}, zap.NewNop(), nil)
	mailer.Start()
	mailer.Close()
	mailer.Close()
}

func TestTemplatesEscapeUserText(t *testing.T) {
	email := AgentReplyEmail("owner@example.com", "<script>alert(1)</script>", "<b>bold</b>")
	if strings.Contains(email.HTML, "<script>") {
		t.Errorf("title not escaped")
	}
	if strings.Contains(email.HTML, "<b>bold</b>") {
		t.Errorf("message not escaped")
	}
	if email.To != "owner@example.com" {
		t.Errorf("to = %q", email.To)
	}
}

func TestTicketCreatedEmailCarriesDetails(t *testing.T) {
	email := TicketCreatedEmail("owner@example.com", "VPN down", "abc-123")
	if !strings.Contains(email.HTML, "VPN down") || !strings.Contains(email.HTML, "abc-123") {
		t.Errorf("body missing ticket details")
	}
	if !strings.Contains(email.Subject, "Ticket Created") {
		t.Errorf("subject = %q", email.Subject)
	}
}
