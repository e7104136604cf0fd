package policy

import (
	"testing"

	"github.com/deskflow/helpdesk/internal/domain"
)

func makeUser(id string, role domain.Role) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", FullName: "User " + id, Role: role}
}

func makeTicket(createdBy string, assignedTo *string) *domain.Ticket {
	return &domain.Ticket{
		ID:          "t-1",
		Title:       "Printer jam",
		Description: "Tray two keeps jamming",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
		CreatedBy:   createdBy,
		AssignedTo:  assignedTo,
	}
}

func strPtr(s string) *string { return &s }

func TestCanReadTicket(t *testing.T) {
	creator := makeUser("u-creator", domain.RoleUser)
	assignee := makeUser("u-assignee", domain.RoleUser)
	stranger := makeUser("u-stranger", domain.RoleUser)
	admin := makeUser("u-admin", domain.RoleAdmin)

	ticket := makeTicket(creator.ID, strPtr(assignee.ID))

	cases := []struct {
		name   string
		caller *domain.User
		want   bool
	}{
		{"creator", creator, true},
		{"assignee", assignee, true},
		{"stranger", stranger, false},
		{"admin", admin, true},
		{"nil caller", nil, false},
	}
	for _, tc := range cases {
		if got := CanReadTicket(tc.caller, ticket); got != tc.want {
			t.Errorf("%s: CanReadTicket = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanReadTicketUnassigned(t *testing.T) {
	stranger := makeUser("u-stranger", domain.RoleUser)
	if CanReadTicket(stranger, makeTicket("u-creator", nil)) {
		t.Error("stranger can read unassigned ticket they did not create")
	}
}

func TestCanUpdateTicket(t *testing.T) {
	creator := makeUser("u-creator", domain.RoleUser)
	assignee := makeUser("u-assignee", domain.RoleUser)
	admin := makeUser("u-admin", domain.RoleAdmin)

	ticket := makeTicket(creator.ID, strPtr(assignee.ID))

	if !CanUpdateTicket(creator, ticket) {
		t.Error("creator should be able to update own ticket")
	}
	if CanUpdateTicket(assignee, ticket) {
		t.Error("non-admin assignee should not be able to update ticket")
	}
	if !CanUpdateTicket(admin, ticket) {
		t.Error("admin should be able to update any ticket")
	}
}

func TestCanDeleteTicket(t *testing.T) {
	if CanDeleteTicket(makeUser("u-1", domain.RoleUser)) {
		t.Error("non-admin should not delete tickets")
	}
	if !CanDeleteTicket(makeUser("u-2", domain.RoleAdmin)) {
		t.Error("admin should delete tickets")
	}
	if CanDeleteTicket(nil) {
		t.Error("nil caller should not delete tickets")
	}
}

func TestCanCreateTicketForcesCreator(t *testing.T) {
	caller := makeUser("u-1", domain.RoleUser)
	if !CanCreateTicket(caller, "u-1") {
		t.Error("caller should create tickets as themselves")
	}
	if CanCreateTicket(caller, "u-2") {
		t.Error("caller should not create tickets on behalf of another identity")
	}
}

func TestCanCommentRequiresTicketReadAccess(t *testing.T) {
	creator := makeUser("u-creator", domain.RoleUser)
	stranger := makeUser("u-stranger", domain.RoleUser)
	ticket := makeTicket(creator.ID, nil)

	if !CanComment(creator, ticket) {
		t.Error("creator should comment on own ticket")
	}
	if CanComment(stranger, ticket) {
		t.Error("user without read access should not comment")
	}
}

func TestUserRowPredicates(t *testing.T) {
	caller := makeUser("u-1", domain.RoleUser)
	admin := makeUser("u-9", domain.RoleAdmin)

	if !CanReadUser(caller, "u-1") || !CanUpdateUser(caller, "u-1") {
		t.Error("caller should read and update own row")
	}
	if CanReadUser(caller, "u-2") || CanUpdateUser(caller, "u-2") {
		t.Error("caller should not touch another user's row")
	}
	// Row-level user predicates are identity-based, not role-based.
	if CanUpdateUser(admin, "u-1") {
		t.Error("admin role does not grant access to another user's row")
	}
}
