// Package policy holds the row-level authorization predicates. Every store
// operation is gated by one of these checks in the service layer; a failed
// predicate surfaces to the caller as a denial, never as silent filtering.
package policy

import "github.com/deskflow/helpdesk/internal/domain"

// CanReadUser permits reading a directory row only to its owner.
func CanReadUser(caller *domain.User, userID string) bool {
	return caller != nil && caller.ID == userID
}

// CanUpdateUser permits updating a directory row only to its owner. No
// role-escalation path exists: mutable profile fields never include role.
func CanUpdateUser(caller *domain.User, userID string) bool {
	return caller != nil && caller.ID == userID
}

// CanReadTicket permits the creator, the assignee, and admins.
func CanReadTicket(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil || ticket == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	if ticket.CreatedBy == caller.ID {
		return true
	}
	return ticket.AssignedTo != nil && *ticket.AssignedTo == caller.ID
}

// CanCreateTicket permits creation only when the row's creator is the caller.
func CanCreateTicket(caller *domain.User, createdBy string) bool {
	return caller != nil && caller.ID == createdBy
}

// CanUpdateTicket permits the creator and admins.
func CanUpdateTicket(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil || ticket == nil {
		return false
	}
	return caller.IsAdmin() || ticket.CreatedBy == caller.ID
}

// CanDeleteTicket permits admins only.
func CanDeleteTicket(caller *domain.User) bool {
	return caller.IsAdmin()
}

// CanComment permits appending to a thread when the caller can read the
// parent ticket. The author field is forced to the caller by the service.
func CanComment(caller *domain.User, ticket *domain.Ticket) bool {
	return CanReadTicket(caller, ticket)
}
