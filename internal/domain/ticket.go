package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// statusOrder fixes the linear lifecycle. Transitions may stay in place or
// move forward, never back; nothing comes after closed.
var statusOrder = map[TicketStatus]int{
	TicketStatusOpen:       0,
	TicketStatusInProgress: 1,
	TicketStatusResolved:   2,
	TicketStatusClosed:     3,
}

// ParseTicketStatus validates a wire-format status value.
func ParseTicketStatus(value string) (TicketStatus, bool) {
	if _, ok := statusOrder[TicketStatus(value)]; ok {
		return TicketStatus(value), true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is legal. Skipping
// states forward is allowed (e.g. open -> closed); moving backward is not.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	from, okFrom := statusOrder[s]
	to, okTo := statusOrder[next]
	return okFrom && okTo && to >= from
}

// TicketPriority enumerates urgency, ordered low < medium < high < urgent.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Priorities lists the closed enumeration in ascending order.
func Priorities() []TicketPriority {
	return []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent}
}

// ParseTicketPriority validates a wire-format priority value.
func ParseTicketPriority(value string) (TicketPriority, bool) {
	switch TicketPriority(value) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return TicketPriority(value), true
	}
	return "", false
}

// Ticket is the aggregate for support requests. CustomerID is immutable after
// creation; AssigneeID is optional and mutable only by staff/admin.
type Ticket struct {
	ID          string
	CustomerID  string
	AssigneeID  *string
	CategoryID  string
	Priority    TicketPriority
	Subject     string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketWithRelations joins a ticket with the records list views render.
type TicketWithRelations struct {
	Ticket
	Customer *User
	Assignee *User
	Category *Category
}
