package domain

import "time"

// TicketMessage is one entry in a ticket's append-only thread. Messages are
// never edited or deleted. Internal messages are visible to staff/admin only,
// never to the owning customer.
type TicketMessage struct {
	ID             string
	TicketID       string
	SenderID       string
	Body           string
	AttachmentURLs []string
	IsInternal     bool
	CreatedAt      time.Time
}
