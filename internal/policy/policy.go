// Package policy holds the pure authorization decisions for tickets and
// comments. Functions here never touch storage; callers resolve the
// resources first and pass them in.
package policy

import "github.com/helpdeskpro/helpdesk/internal/domain"

// CanReadTicket reports whether the actor may read the ticket. Agents see
// every ticket; clients only their own.
func CanReadTicket(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.IsAgent() {
		return true
	}
	return ticket.CreatedBy.ID == actor.ID
}

// CanCreateTicket reports whether the actor may file a new ticket. Only
// clients create tickets; the owner is always forced to the actor.
func CanCreateTicket(actor domain.Actor) bool {
	return actor.IsClient()
}

// CanUpdateTicket reports whether the actor may mutate status, priority or
// assignment. Updates are agent-exclusive, including on tickets the client
// owns.
func CanUpdateTicket(actor domain.Actor) bool {
	return actor.IsAgent()
}

// CanDeleteTicket reports whether the actor may delete the ticket.
func CanDeleteTicket(actor domain.Actor) bool {
	return actor.IsAgent()
}

// CanAccessThread reports whether the actor may read or append to the
// comment thread of the given ticket. The rule is identical for reads and
// writes: agents always, clients only on their own tickets.
func CanAccessThread(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.IsAgent() {
		return true
	}
	return ticket.CreatedBy.ID == actor.ID
}
