package dto

import (
	"encoding/json"
	"time"

	"github.com/sparksupport/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CategoryID  string `json:"categoryId"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// PatchTicketRequest carries the staff-mutable fields. AssignedStaffID is a
// raw message so an explicit null (clear assignment) is distinguishable from
// an absent field.
type PatchTicketRequest struct {
	Status          *string         `json:"status"`
	AssignedStaffID json.RawMessage `json:"assignedStaffId"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Message        string   `json:"message"`
	AttachmentURLs []string `json:"attachmentUrls,omitempty"`
	IsInternal     bool     `json:"isInternal,omitempty"`
}

// TicketResponse wire form of a bare ticket.
type TicketResponse struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customerId"`
	AssignedStaffID *string               `json:"assignedStaffId,omitempty"`
	CategoryID      string                `json:"categoryId"`
	Priority        domain.TicketPriority `json:"priority"`
	Subject         string                `json:"subject"`
	Description     string                `json:"description"`
	Status          domain.TicketStatus   `json:"status"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// TicketWithRelationsResponse joins the ticket with its customer, assignee
// and category for list views.
type TicketWithRelationsResponse struct {
	TicketResponse
	Customer      *UserResponse     `json:"customer,omitempty"`
	AssignedStaff *UserResponse     `json:"assignedStaff,omitempty"`
	Category      *CategoryResponse `json:"category,omitempty"`
}

// TicketMessageResponse represents one thread entry.
type TicketMessageResponse struct {
	ID             string    `json:"id"`
	TicketID       string    `json:"ticketId"`
	SenderID       string    `json:"senderId"`
	Message        string    `json:"message"`
	AttachmentURLs []string  `json:"attachmentUrls,omitempty"`
	IsInternal     bool      `json:"isInternal,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TicketDetailResponse provides the full ticket with its visible thread.
type TicketDetailResponse struct {
	TicketWithRelationsResponse
	Messages []TicketMessageResponse `json:"messages"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              ticket.ID,
		CustomerID:      ticket.CustomerID,
		AssignedStaffID: ticket.AssigneeID,
		CategoryID:      ticket.CategoryID,
		Priority:        ticket.Priority,
		Subject:         ticket.Subject,
		Description:     ticket.Description,
		Status:          ticket.Status,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

// NewTicketWithRelationsResponse maps a joined ticket.
func NewTicketWithRelationsResponse(item *domain.TicketWithRelations) TicketWithRelationsResponse {
	resp := TicketWithRelationsResponse{TicketResponse: NewTicketResponse(&item.Ticket)}
	if item.Customer != nil {
		customer := NewUserResponse(item.Customer)
		resp.Customer = &customer
	}
	if item.Assignee != nil {
		assignee := NewUserResponse(item.Assignee)
		resp.AssignedStaff = &assignee
	}
	if item.Category != nil {
		category := NewCategoryResponse(item.Category)
		resp.Category = &category
	}
	return resp
}

// NewTicketMessageResponse maps a thread message.
func NewTicketMessageResponse(msg *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:             msg.ID,
		TicketID:       msg.TicketID,
		SenderID:       msg.SenderID,
		Message:        msg.Body,
		AttachmentURLs: msg.AttachmentURLs,
		IsInternal:     msg.IsInternal,
		CreatedAt:      msg.CreatedAt,
	}
}
