package domain

import "time"

// Comment is a single entry in a ticket thread. Comments are append-only:
// no update or delete path exists.
type Comment struct {
	ID        string
	TicketID  string
	UserID    string
	Body      string
	CreatedAt time.Time

	Author *UserSummary
}
