package events

import (
	"time"

	"github.com/sparksupport/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventCategoryChanged     EventType = "category_changed"
	EventStaffChanged        EventType = "staff_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	ActorRole domain.Role `json:"actor_role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string                `json:"ticket_id"`
	CategoryID string                `json:"category_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Subject    string                `json:"subject"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID        string  `json:"ticket_id"`
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	TicketID   string `json:"ticket_id"`
	MessageID  string `json:"message_id"`
	IsInternal bool   `json:"is_internal"`
}

// CategoryChangedPayload payload.
type CategoryChangedPayload struct {
	CategoryID string `json:"category_id"`
	Action     string `json:"action"`
}

// StaffChangedPayload payload.
type StaffChangedPayload struct {
	StaffID string `json:"staff_id"`
	Action  string `json:"action"`
}
