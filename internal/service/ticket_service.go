package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/events"
	"github.com/sparksupport/helpdesk/internal/repository"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// Validation floors for new tickets. Advisory UX limits, not a security
// boundary.
const (
	minSubjectLen     = 5
	minDescriptionLen = 20
)

// TicketService is the ticket store: it owns the lifecycle state machine and
// every role/ownership check. Handlers never decide visibility themselves.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CategoryID  string
	Priority    domain.TicketPriority
	Subject     string
	Description string
}

// TicketListFilter describes listing filters after sentinel parsing: nil
// means no restriction, an AssigneeID of "" means explicitly unassigned.
type TicketListFilter struct {
	Status     *domain.TicketStatus
	CategoryID *string
	AssigneeID *string
	Priority   *domain.TicketPriority
	Search     *string
	Mine       bool
	Limit      int
	Offset     int
}

// TicketPatch carries the staff-mutable fields. SetAssignee distinguishes an
// explicit null (clear assignment) from an absent field.
type TicketPatch struct {
	Status      *domain.TicketStatus
	SetAssignee bool
	AssigneeID  *string
}

// CreateTicket files a new ticket for the calling customer and atomically
// appends the synthesized first thread message (the description, sent by the
// customer).
func (s *TicketService) CreateTicket(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if caller.Role != domain.RoleCustomer {
		return nil, apperrors.NewForbidden("only customers can file tickets")
	}

	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if len(subject) < minSubjectLen {
		return nil, apperrors.NewValidationError("subject must be at least 5 characters", nil)
	}
	if len(description) < minDescriptionLen {
		return nil, apperrors.NewValidationError("description must be at least 20 characters", nil)
	}
	if _, ok := domain.ParseTicketPriority(string(input.Priority)); !ok {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("category does not exist", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		CustomerID:  caller.ID,
		CategoryID:  input.CategoryID,
		Priority:    input.Priority,
		Subject:     subject,
		Description: description,
		Status:      domain.TicketStatusOpen,
	}
	first := &domain.TicketMessage{
		SenderID:   caller.ID,
		Body:       description,
		IsInternal: false,
	}
	if err := s.tickets.CreateWithMessage(ctx, ticket, first); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, caller, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID:   ticket.ID,
		CategoryID: ticket.CategoryID,
		Priority:   ticket.Priority,
		Subject:    ticket.Subject,
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the caller. Customer callers are
// always intersected with their own customer id, whatever filters they ask
// for.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, filter TicketListFilter) ([]domain.TicketWithRelations, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	repoFilter := repository.TicketFilter{
		Status:     filter.Status,
		CategoryID: filter.CategoryID,
		AssigneeID: filter.AssigneeID,
		Priority:   filter.Priority,
		Search:     filter.Search,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if caller.Role == domain.RoleCustomer || filter.Mine {
		id := caller.ID
		repoFilter.CustomerID = &id
	}

	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its thread. For customers, a ticket that
// exists but belongs to someone else is reported exactly like a missing one,
// and internal notes are stripped from the thread.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.TicketWithRelations, []domain.TicketMessage, error) {
	if caller == nil {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := s.tickets.GetWithRelations(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if caller.Role == domain.RoleCustomer && ticket.CustomerID != caller.ID {
		return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}

	msgs, err := s.messages.ListByTicket(ctx, ticket.ID, caller.Role.IsStaff())
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, msgs, nil
}

// AddMessage appends a message to a ticket's thread and refreshes the
// ticket's updated_at. Closed tickets accept no replies from anyone.
func (s *TicketService) AddMessage(ctx context.Context, caller *domain.User, ticketID, body string, attachmentURLs []string, isInternal bool) (*domain.TicketMessage, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if caller.Role == domain.RoleCustomer {
		if ticket.CustomerID != caller.ID {
			return nil, apperrors.NewForbidden("access denied")
		}
		if isInternal {
			return nil, apperrors.NewForbidden("internal notes are staff only")
		}
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewForbidden("ticket is closed")
	}

	msg := &domain.TicketMessage{
		TicketID:       ticket.ID,
		SenderID:       caller.ID,
		Body:           body,
		AttachmentURLs: attachmentURLs,
		IsInternal:     isInternal,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.tickets.Touch(ctx, ticket.ID); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, caller, events.EventTicketMessageAdded, events.TicketMessageAddedPayload{
		TicketID:   ticket.ID,
		MessageID:  msg.ID,
		IsInternal: msg.IsInternal,
	})
	return msg, nil
}

// UpdateStatus moves a ticket along the lifecycle. Staff/admin only. The
// lifecycle is strictly forward: open -> in_progress -> resolved -> closed,
// skips allowed, backward moves never.
func (s *TicketService) UpdateStatus(ctx context.Context, caller *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if _, ok := domain.ParseTicketStatus(string(newStatus)); !ok {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if !ticket.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if oldStatus != newStatus {
		s.publish(ctx, caller, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
			TicketID:  ticket.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		})
	}
	return ticket, nil
}

// UpdateAssignee sets or clears the assigned staff member. Staff/admin only.
// Reassigning an already-assigned ticket, or to oneself, is unrestricted.
func (s *TicketService) UpdateAssignee(ctx context.Context, caller *domain.User, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	if assigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *assigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"assigned_staff_id": *assigneeID})
			}
			return nil, apperrors.MapError(err)
		}
		if !assignee.Role.IsStaff() {
			return nil, apperrors.NewValidationError("assignee must be staff or admin", map[string]any{"assigned_staff_id": *assigneeID})
		}
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket.AssigneeID = assigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, caller, events.EventTicketAssigned, events.TicketAssignedPayload{
		TicketID:        ticket.ID,
		AssignedStaffID: ticket.AssigneeID,
	})
	return ticket, nil
}

// PatchTicket applies the partial staff update from the transport layer,
// delegating to the status and assignee operations in order.
func (s *TicketService) PatchTicket(ctx context.Context, caller *domain.User, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if patch.Status == nil && !patch.SetAssignee {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}

	var ticket *domain.Ticket
	var err error
	if patch.Status != nil {
		ticket, err = s.UpdateStatus(ctx, caller, ticketID, *patch.Status)
		if err != nil {
			return nil, err
		}
	}
	if patch.SetAssignee {
		ticket, err = s.UpdateAssignee(ctx, caller, ticketID, patch.AssigneeID)
		if err != nil {
			return nil, err
		}
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, caller *domain.User, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   caller.ID,
		ActorRole: caller.Role,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func requireStaff(caller *domain.User) error {
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !caller.Role.IsStaff() {
		return apperrors.NewForbidden("staff role required")
	}
	return nil
}
