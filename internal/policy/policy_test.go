package policy

import (
	"testing"

	"github.com/helpdeskpro/helpdesk/internal/domain"
)

var (
	agent       = domain.Actor{ID: "agent-1", Role: domain.RoleAgent}
	owner       = domain.Actor{ID: "client-1", Role: domain.RoleClient}
	otherClient = domain.Actor{ID: "client-2", Role: domain.RoleClient}
)

func ticketOwnedBy(userID string) *domain.Ticket {
	return &domain.Ticket{ID: "t1", CreatedBy: domain.UserRef{ID: userID}}
}

func TestCanReadTicket(t *testing.T) {
	ticket := ticketOwnedBy(owner.ID)
	tests := []struct {
		name  string
		actor domain.Actor
		want  bool
	}{
		{"agent reads any ticket", agent, true},
		{"owner reads own ticket", owner, true},
		{"other client denied", otherClient, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReadTicket(tt.actor, ticket); got != tt.want {
				t.Errorf("CanReadTicket = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreateTicket(t *testing.T) {
	if !CanCreateTicket(owner) {
		t.Errorf("client should be allowed to create tickets")
	}
	if CanCreateTicket(agent) {
		t.Errorf("agent should not be allowed to create tickets")
	}
}

func TestCanUpdateTicket(t *testing.T) {
	if !CanUpdateTicket(agent) {
		t.Errorf("agent should be allowed to update tickets")
	}
	if CanUpdateTicket(owner) {
		t.Errorf("client should not update tickets, even their own")
	}
}

func TestCanDeleteTicket(t *testing.T) {
	if !CanDeleteTicket(agent) {
		t.Errorf("agent should be allowed to delete tickets")
	}
	if CanDeleteTicket(owner) {
		t.Errorf("client should not delete tickets")
	}
}

func TestCanAccessThread(t *testing.T) {
	ticket := ticketOwnedBy(owner.ID)
	if !CanAccessThread(agent, ticket) {
		t.Errorf("agent should access any thread")
	}
	if !CanAccessThread(owner, ticket) {
		t.Errorf("owner should access own thread")
	}
	if CanAccessThread(otherClient, ticket) {
		t.Errorf("other client should not access the thread")
	}
}
