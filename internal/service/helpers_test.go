package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/helpdeskpro/helpdesk/internal/cache"
	"github.com/helpdeskpro/helpdesk/internal/domain"
	"github.com/helpdeskpro/helpdesk/internal/events"
	"github.com/helpdeskpro/helpdesk/internal/notify"
	"github.com/helpdeskpro/helpdesk/internal/repository"
	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// recordingQueue captures enqueued emails instead of sending them.
type recordingQueue struct {
	mu     sync.Mutex
	emails []notify.Email
}

func (q *recordingQueue) Enqueue(email notify.Email) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.emails = append(q.emails, email)
}

func (q *recordingQueue) sent() []notify.Email {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notify.Email{}, q.emails...)
}

// recordingNotifier captures synchronous sends; failWith makes every send
// fail when set.
type recordingNotifier struct {
	mu       sync.Mutex
	emails   []notify.Email
	failWith error
}

func (n *recordingNotifier) Send(_ context.Context, email notify.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.emails = append(n.emails, email)
	return nil
}

func (n *recordingNotifier) sent() []notify.Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Email{}, n.emails...)
}

// testEnv wires a ticket service against in-memory stores with the real
// dispatcher and notification pipeline, so tests observe the exact emails
// an operation would produce.
type testEnv struct {
	users    *repository.MemoryUserRepository
	tickets  *repository.MemoryTicketRepository
	comments *repository.MemoryCommentRepository
	queue    *recordingQueue
	svc      *TicketService

	client  domain.Actor
	client2 domain.Actor
	agent   domain.Actor
	agent2  domain.Actor

	clientUser *domain.User
	agentUser  *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    repository.NewMemoryUserRepository(),
		tickets:  repository.NewMemoryTicketRepository(),
		comments: repository.NewMemoryCommentRepository(),
		queue:    &recordingQueue{},
	}

	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, env.queue, zap.NewNop()).RegisterHandlers()

	env.svc = NewTicketService(TicketDependencies{
		TicketRepo:  env.tickets,
		CommentRepo: env.comments,
		UserRepo:    env.users,
		UserCache:   cache.NewUserSummaries(nil),
		Dispatcher:  dispatcher,
	})

	env.clientUser = mustCreateUser(t, env.users, "Cleo Client", "cleo@example.com", domain.RoleClient)
	client2 := mustCreateUser(t, env.users, "Casey Client", "casey@example.com", domain.RoleClient)
	env.agentUser = mustCreateUser(t, env.users, "Avery Agent", "avery@example.com", domain.RoleAgent)
	agent2 := mustCreateUser(t, env.users, "Alex Agent", "alex@example.com", domain.RoleAgent)

	env.client = domain.Actor{ID: env.clientUser.ID, Role: domain.RoleClient}
	env.client2 = domain.Actor{ID: client2.ID, Role: domain.RoleClient}
	env.agent = domain.Actor{ID: env.agentUser.ID, Role: domain.RoleAgent}
	env.agent2 = domain.Actor{ID: agent2.ID, Role: domain.RoleAgent}
	return env
}

func mustCreateUser(t *testing.T, users *repository.MemoryUserRepository, name, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, email, "bcrypt-hash", role)
	if err != nil {
		t.Fatalf("building user %s: %v", email, err)
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user
}

func (env *testEnv) createTicket(t *testing.T, actor domain.Actor, title string) *domain.Ticket {
	t.Helper()
	ticket, err := env.svc.CreateTicket(context.Background(), actor, CreateTicketInput{
		Title:       title,
		Description: "something is wrong",
	})
	if err != nil {
		t.Fatalf("creating ticket %q: %v", title, err)
	}
	return ticket
}

// drainEmails clears the recorded queue so assertions only see emails from
// the operation under test.
func (env *testEnv) drainEmails() {
	env.queue.mu.Lock()
	defer env.queue.mu.Unlock()
	env.queue.emails = nil
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected %s domain error, got %v", code, err)
	}
	if domainErr.Code != code {
		t.Fatalf("error code = %s, want %s (message: %s)", domainErr.Code, code, domainErr.Message)
	}
}

func stringPtr(s string) *string { return &s }
