package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/helpdeskpro/helpdesk/internal/domain"
)

func TestCreateTicket(t *testing.T) {
	env := newTestEnv(t)

	ticket, err := env.svc.CreateTicket(context.Background(), env.client, CreateTicketInput{
		Title:       "VPN down",
		Description: "Cannot connect since this morning.",
		Priority:    "high",
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.ID == "" {
		t.Errorf("ticket id not assigned")
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want open", ticket.Status)
	}
	if ticket.CreatedBy.ID != env.client.ID {
		t.Errorf("createdBy = %q, want actor %q", ticket.CreatedBy.ID, env.client.ID)
	}
	if !ticket.CreatedBy.Populated() || ticket.CreatedBy.User.Email != "cleo@example.com" {
		t.Errorf("createdBy not populated: %+v", ticket.CreatedBy)
	}
	if ticket.AssignedTo != nil {
		t.Errorf("new ticket must be unassigned")
	}

	emails := env.queue.sent()
	if len(emails) != 1 {
		t.Fatalf("expected exactly one creation email, got %d", len(emails))
	}
	if emails[0].To != "cleo@example.com" {
		t.Errorf("creation email to %q, want owner", emails[0].To)
	}
}

func TestCreateTicketForbiddenForAgent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateTicket(context.Background(), env.agent, CreateTicketInput{
		Title:       "Agent filing",
		Description: "should not work",
	})
	assertErrCode(t, err, "FORBIDDEN")
	if len(env.queue.sent()) != 0 {
		t.Errorf("forbidden creation must not enqueue email")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateTicket(context.Background(), env.client, CreateTicketInput{
		Title:       "",
		Description: "desc",
	})
	assertErrCode(t, err, "VALIDATION_FAILED")

	_, err = env.svc.CreateTicket(context.Background(), env.client, CreateTicketInput{
		Title:       "title",
		Description: "desc",
		Priority:    "urgent",
	})
	assertErrCode(t, err, "VALIDATION_FAILED")
}

func TestListTicketsScopesClients(t *testing.T) {
	env := newTestEnv(t)
	mine := env.createTicket(t, env.client, "Mine")
	env.createTicket(t, env.client2, "Theirs")

	tickets, err := env.svc.ListTickets(context.Background(), env.client, TicketListInput{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("client sees %d tickets, want 1", len(tickets))
	}
	if tickets[0].ID != mine.ID {
		t.Errorf("client sees ticket %q, want own %q", tickets[0].ID, mine.ID)
	}

	all, err := env.svc.ListTickets(context.Background(), env.agent, TicketListInput{})
	if err != nil {
		t.Fatalf("ListTickets as agent: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("agent sees %d tickets, want 2", len(all))
	}
	for _, ticket := range all {
		if !ticket.CreatedBy.Populated() {
			t.Errorf("ticket %q createdBy not populated", ticket.ID)
		}
	}
}

func TestListTicketsFilters(t *testing.T) {
	env := newTestEnv(t)
	first := env.createTicket(t, env.client, "First")
	second := env.createTicket(t, env.client, "Second")

	closed := string(domain.TicketStatusClosed)
	if _, err := env.svc.UpdateTicket(context.Background(), env.agent, second.ID, UpdateTicketInput{Status: &closed}); err != nil {
		t.Fatalf("closing ticket: %v", err)
	}

	open := string(domain.TicketStatusOpen)
	tickets, err := env.svc.ListTickets(context.Background(), env.agent, TicketListInput{Status: &open})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != first.ID {
		t.Errorf("status filter returned wrong set: %d tickets", len(tickets))
	}

	bad := "pending"
	_, err = env.svc.ListTickets(context.Background(), env.agent, TicketListInput{Status: &bad})
	assertErrCode(t, err, "VALIDATION_FAILED")
}

func TestGetTicketAccess(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Mine")

	got, err := env.svc.GetTicket(context.Background(), env.client, ticket.ID)
	if err != nil {
		t.Fatalf("owner GetTicket: %v", err)
	}
	if got.ID != ticket.ID {
		t.Errorf("got ticket %q", got.ID)
	}

	if _, err := env.svc.GetTicket(context.Background(), env.agent, ticket.ID); err != nil {
		t.Errorf("agent GetTicket: %v", err)
	}

	_, err = env.svc.GetTicket(context.Background(), env.client2, ticket.ID)
	assertErrCode(t, err, "FORBIDDEN")

	_, err = env.svc.GetTicket(context.Background(), env.agent, "missing-id")
	assertErrCode(t, err, "NOT_FOUND")
}

func TestUpdateTicketForbiddenForClient(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Mine")

	high := "high"
	_, err := env.svc.UpdateTicket(context.Background(), env.client, ticket.ID, UpdateTicketInput{Priority: &high})
	assertErrCode(t, err, "FORBIDDEN")
}

func TestUpdateTicketAutoAssignsActingAgent(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Unassigned")
	env.drainEmails()

	// A priority-only payload still assigns the acting agent.
	high := "high"
	updated, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{Priority: &high})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.AssignedTo == nil || updated.AssignedTo.ID != env.agent.ID {
		t.Fatalf("assignedTo = %v, want acting agent %q", updated.AssignedTo, env.agent.ID)
	}
	if !updated.AssignedTo.Populated() || updated.AssignedTo.User.Email != "avery@example.com" {
		t.Errorf("assignee not populated: %+v", updated.AssignedTo)
	}
	if updated.Priority != domain.TicketPriorityHigh {
		t.Errorf("priority = %q, want high", updated.Priority)
	}

	// A second agent's update must not displace the assignee.
	status := string(domain.TicketStatusInProgress)
	updated, err = env.svc.UpdateTicket(context.Background(), env.agent2, ticket.ID, UpdateTicketInput{Status: &status})
	if err != nil {
		t.Fatalf("second UpdateTicket: %v", err)
	}
	if updated.AssignedTo == nil || updated.AssignedTo.ID != env.agent.ID {
		t.Errorf("assignee displaced to %v, want %q kept", updated.AssignedTo, env.agent.ID)
	}
}

func TestUpdateTicketAssignmentOnUnassignedGoesToActingAgent(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Routed")

	// On an unassigned ticket the acting agent takes it regardless of the
	// assignee named in the payload.
	updated, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{
		AssignedTo: stringPtr(env.agent2.ID),
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.AssignedTo == nil || updated.AssignedTo.ID != env.agent.ID {
		t.Errorf("assignedTo = %v, want acting agent %q", updated.AssignedTo, env.agent.ID)
	}
}

func TestUpdateTicketExplicitReassignment(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Routed")

	// Take the ticket first; the explicit assignee then applies.
	if _, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{
		Status: stringPtr(string(domain.TicketStatusInProgress)),
	}); err != nil {
		t.Fatalf("first UpdateTicket: %v", err)
	}

	updated, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{
		AssignedTo: stringPtr(env.agent2.ID),
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.AssignedTo == nil || updated.AssignedTo.ID != env.agent2.ID {
		t.Errorf("assignedTo = %v, want explicit %q", updated.AssignedTo, env.agent2.ID)
	}
}

func TestUpdateTicketRejectsBadAssignee(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Routed")

	_, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{
		AssignedTo: stringPtr(env.client.ID),
	})
	assertErrCode(t, err, "VALIDATION_FAILED")

	_, err = env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{
		AssignedTo: stringPtr("missing-user"),
	})
	assertErrCode(t, err, "NOT_FOUND")
}

func TestUpdateTicketRejectsBadEnums(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Enums")

	_, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{Status: stringPtr("Done")})
	assertErrCode(t, err, "VALIDATION_FAILED")

	_, err = env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{Priority: stringPtr("urgent")})
	assertErrCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateTicketReturnsRefreshedTimestamp(t *testing.T) {
	env := newTestEnv(t)
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)
	env.tickets.Seed(domain.Ticket{
		ID:        "stale-ticket",
		Title:     "Stale",
		Status:    domain.TicketStatusOpen,
		Priority:  domain.TicketPriorityMedium,
		CreatedBy: domain.UserRef{ID: env.client.ID},
		CreatedAt: lastWeek,
		UpdatedAt: lastWeek,
	})

	updated, err := env.svc.UpdateTicket(context.Background(), env.agent, "stale-ticket", UpdateTicketInput{
		Priority: stringPtr("high"),
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if !updated.UpdatedAt.After(lastWeek) {
		t.Errorf("updatedAt = %v, want refreshed by the write", updated.UpdatedAt)
	}
}

func TestUpdateTicketNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.UpdateTicket(context.Background(), env.agent, "missing-id", UpdateTicketInput{Priority: stringPtr("low")})
	assertErrCode(t, err, "NOT_FOUND")
}

func TestUpdateTicketClosedNotification(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Closing")
	env.drainEmails()

	closed := string(domain.TicketStatusClosed)
	if _, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{Status: &closed}); err != nil {
		t.Fatalf("closing: %v", err)
	}

	emails := env.queue.sent()
	if len(emails) != 1 {
		t.Fatalf("expected exactly one closed email, got %d", len(emails))
	}
	if emails[0].To != "cleo@example.com" {
		t.Errorf("closed email to %q, want owner", emails[0].To)
	}

	// Writing closed again is a no-op for notifications.
	env.drainEmails()
	if _, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{Status: &closed}); err != nil {
		t.Fatalf("re-closing: %v", err)
	}
	if got := len(env.queue.sent()); got != 0 {
		t.Errorf("closed-to-closed produced %d emails, want 0", got)
	}
}

func TestUpdateTicketStatusChangeWithoutCloseSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Progressing")
	env.drainEmails()

	status := string(domain.TicketStatusResolved)
	if _, err := env.svc.UpdateTicket(context.Background(), env.agent, ticket.ID, UpdateTicketInput{Status: &status}); err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if got := len(env.queue.sent()); got != 0 {
		t.Errorf("non-closed transition produced %d emails, want 0", got)
	}
}

func TestDeleteTicket(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Doomed")

	err := env.svc.DeleteTicket(context.Background(), env.client, ticket.ID)
	assertErrCode(t, err, "FORBIDDEN")

	if err := env.svc.DeleteTicket(context.Background(), env.agent, ticket.ID); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	_, err = env.svc.GetTicket(context.Background(), env.agent, ticket.ID)
	assertErrCode(t, err, "NOT_FOUND")

	err = env.svc.DeleteTicket(context.Background(), env.agent, ticket.ID)
	assertErrCode(t, err, "NOT_FOUND")
}

func TestDeleteTicketKeepsThread(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Doomed")
	if _, err := env.svc.CreateComment(context.Background(), env.client, CreateCommentInput{TicketID: ticket.ID, Message: "still here"}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := env.svc.DeleteTicket(context.Background(), env.agent, ticket.ID); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}

	comments, err := env.comments.ListByTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("comments cascaded on delete; %d left, want 1", len(comments))
	}
}

func TestCommentThread(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Threaded")

	first, err := env.svc.CreateComment(context.Background(), env.client, CreateCommentInput{TicketID: ticket.ID, Message: "first"})
	if err != nil {
		t.Fatalf("client comment: %v", err)
	}
	second, err := env.svc.CreateComment(context.Background(), env.agent, CreateCommentInput{TicketID: ticket.ID, Message: "second"})
	if err != nil {
		t.Fatalf("agent comment: %v", err)
	}

	comments, err := env.svc.ListComments(context.Background(), env.client, ticket.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("thread has %d comments, want 2", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Errorf("thread out of order: %q then %q", comments[0].Message, comments[1].Message)
	}
	for _, comment := range comments {
		if !comment.Author.Populated() {
			t.Errorf("comment %q author not populated", comment.ID)
		}
	}
}

func TestCommentThreadAccess(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Private")

	_, err := env.svc.ListComments(context.Background(), env.client2, ticket.ID)
	assertErrCode(t, err, "FORBIDDEN")

	_, err = env.svc.CreateComment(context.Background(), env.client2, CreateCommentInput{TicketID: ticket.ID, Message: "hello"})
	assertErrCode(t, err, "FORBIDDEN")

	_, err = env.svc.ListComments(context.Background(), env.agent, "missing-id")
	assertErrCode(t, err, "NOT_FOUND")
}

func TestCreateCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Validated")

	_, err := env.svc.CreateComment(context.Background(), env.client, CreateCommentInput{TicketID: ticket.ID, Message: "   "})
	assertErrCode(t, err, "VALIDATION_FAILED")

	// Validation runs before existence, so a blank message on a missing
	// ticket still reads as a validation failure.
	_, err = env.svc.CreateComment(context.Background(), env.client, CreateCommentInput{TicketID: "missing-id", Message: ""})
	assertErrCode(t, err, "VALIDATION_FAILED")

	_, err = env.svc.CreateComment(context.Background(), env.client, CreateCommentInput{TicketID: "missing-id", Message: "hello"})
	assertErrCode(t, err, "NOT_FOUND")
}

func TestAgentCommentNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Replies")
	env.drainEmails()

	if _, err := env.svc.CreateComment(context.Background(), env.agent, CreateCommentInput{TicketID: ticket.ID, Message: "We are on it."}); err != nil {
		t.Fatalf("agent comment: %v", err)
	}
	emails := env.queue.sent()
	if len(emails) != 1 {
		t.Fatalf("agent comment produced %d emails, want 1", len(emails))
	}
	if emails[0].To != "cleo@example.com" {
		t.Errorf("reply email to %q, want owner", emails[0].To)
	}
	if !strings.Contains(emails[0].HTML, "We are on it.") {
		t.Errorf("reply email body missing comment text")
	}
}

func TestClientCommentNotifiesNobody(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.createTicket(t, env.client, "Quiet")
	env.drainEmails()

	if _, err := env.svc.CreateComment(context.Background(), env.client, CreateCommentInput{TicketID: ticket.ID, Message: "any update?"}); err != nil {
		t.Fatalf("client comment: %v", err)
	}
	if got := len(env.queue.sent()); got != 0 {
		t.Errorf("client comment produced %d emails, want 0", got)
	}
}
