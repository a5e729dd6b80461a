package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sparksupport/helpdesk/internal/api/dto"
	"github.com/sparksupport/helpdesk/internal/auth"
	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/service"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// CategoriesHandler manages the category/priority registry endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categoryService}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	categories, err := h.categories.List(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.Create(c.Context(), principal, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Update handles PUT /api/categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := service.CategoryPatch{Description: req.Description}
	if req.Name != "" {
		patch.Name = &req.Name
	}
	category, err := h.categories.Update(c.Context(), principal, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"success": true}})
}

// ListPriorities handles GET /api/priorities. The enumeration is fixed;
// admins select values per ticket but cannot edit the definitions.
func (h *CategoriesHandler) ListPriorities(c *fiber.Ctx) error {
	if _, err := principalFromContext(c); err != nil {
		return err
	}
	priorities := domain.Priorities()
	items := make([]dto.PriorityResponse, 0, len(priorities))
	for i, priority := range priorities {
		items = append(items, dto.PriorityResponse{Name: priority, Level: i + 1})
	}
	return c.JSON(fiber.Map{"data": items})
}

func principalFromContext(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}
