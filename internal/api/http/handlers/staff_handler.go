package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sparksupport/helpdesk/internal/api/dto"
	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/service"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// StaffHandler exposes staff listing and admin provisioning endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService}
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	staff, err := h.staff.ListStaff(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(staff))
	for i := range staff {
		items = append(items, dto.NewUserResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// StaffCreateRequest payload.
type StaffCreateRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	var req StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}

	user, err := h.staff.CreateStaff(c.Context(), principal, service.StaffCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
