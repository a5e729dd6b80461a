package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sparksupport/helpdesk/internal/api/dto"
	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/service"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints for every role; visibility is
// decided by the ticket service, not here.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal, service.TicketCreateInput{
		CategoryID:  req.CategoryID,
		Priority:    domain.TicketPriority(req.Priority),
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// List handles GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketListQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListTickets(c.Context(), principal, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketWithRelationsResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketWithRelationsResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	ticket, msgs, err := h.tickets.GetTicket(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	messages := make([]dto.TicketMessageResponse, 0, len(msgs))
	for i := range msgs {
		messages = append(messages, dto.NewTicketMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		TicketWithRelationsResponse: dto.NewTicketWithRelationsResponse(ticket),
		Messages:                    messages,
	}})
}

// Patch handles PATCH /api/tickets/:id.
func (h *TicketsHandler) Patch(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	var req dto.PatchTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := service.TicketPatch{}
	if req.Status != nil {
		status, ok := domain.ParseTicketStatus(*req.Status)
		if !ok {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": *req.Status})
		}
		patch.Status = &status
	}
	if len(req.AssignedStaffID) > 0 {
		patch.SetAssignee = true
		if !bytes.Equal(req.AssignedStaffID, []byte("null")) {
			var assigneeID string
			if err := json.Unmarshal(req.AssignedStaffID, &assigneeID); err != nil {
				return apperrors.NewValidationError("invalid assignedStaffId", nil)
			}
			if assigneeID != "" {
				patch.AssigneeID = &assigneeID
			}
		}
	}

	ticket, err := h.tickets.PatchTicket(c.Context(), principal, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AddMessage handles POST /api/tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msg, err := h.tickets.AddMessage(c.Context(), principal, c.Params("id"), req.Message, req.AttachmentURLs, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketMessageResponse(msg)})
}

// parseTicketListQuery maps query parameters to the service filter. A value
// of "all" (or an absent parameter) means no restriction; an assignee
// parameter present with an empty value means explicitly unassigned.
func parseTicketListQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{}

	if val := c.Query("status"); val != "" && val != "all" {
		status, ok := domain.ParseTicketStatus(val)
		if !ok {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": val})
		}
		filter.Status = &status
	}
	if val := c.Query("category"); val != "" && val != "all" {
		filter.CategoryID = &val
	}
	if c.Context().QueryArgs().Has("assignee") {
		if val := c.Query("assignee"); val != "all" {
			filter.AssigneeID = &val
		}
	}
	if val := c.Query("priority"); val != "" && val != "all" {
		priority, ok := domain.ParseTicketPriority(val)
		if !ok {
			return filter, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": val})
		}
		filter.Priority = &priority
	}
	if val := c.Query("q"); val != "" {
		filter.Search = &val
	}
	filter.Mine = c.Query("mine") == "true"

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("pageSize"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
